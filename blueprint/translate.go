package blueprint

import "math/rand/v2"

// PseudoHarmonic returns the probability of mapping an observed bet-size
// fraction f, which falls strictly between two on-tree fractions a < b, to
// b rather than a. This is the pseudo-harmonic action-translation mapping
// of spec.md §4.H, used when a live opponent's bet doesn't land exactly on
// one of the trainer's abstracted bet-sizing fractions: translate it
// probabilistically to whichever neighboring on-tree size preserves pot odds
// most faithfully, rather than always rounding to the nearer one.
//
// At f==a the formula gives 0, but at f==b it gives (1+a)/(1+b), not 1;
// callers should special-case an exact match rather than call
// PseudoHarmonic for it.
func PseudoHarmonic(a, b, f float64) float64 {
	num := (f - a) * (1 + a)
	den := (b-f)*(1+a) + (f-a)*(1+b)
	if den == 0 {
		return 0
	}
	return num / den
}

// ChooseFraction applies PseudoHarmonic and draws from rng to decide
// between a and b for an observed fraction f. f<=a returns a; f>=b returns
// b, without consuming randomness — only a genuinely off-tree fraction
// strictly between the two is actually randomized.
func ChooseFraction(a, b, f float64, rng *rand.Rand) float64 {
	switch {
	case f <= a:
		return a
	case f >= b:
		return b
	}
	if rng.Float64() < PseudoHarmonic(a, b, f) {
		return b
	}
	return a
}
