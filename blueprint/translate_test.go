package blueprint

import (
	"math/rand/v2"
	"testing"
)

func TestPseudoHarmonicBoundaryProbabilities(t *testing.T) {
	if p := PseudoHarmonic(0.5, 1.0, 0.5); p != 0 {
		t.Fatalf("PseudoHarmonic at f==a = %v, want 0", p)
	}
	if p := PseudoHarmonic(0.5, 1.0, 1.0); p != 0.75 {
		t.Fatalf("PseudoHarmonic at f==b = %v, want 0.75", p)
	}
}

func TestPseudoHarmonicIsMonotonicInF(t *testing.T) {
	prev := 0.0
	for _, f := range []float64{0.55, 0.65, 0.75, 0.85, 0.95} {
		p := PseudoHarmonic(0.5, 1.0, f)
		if p < prev {
			t.Fatalf("PseudoHarmonic(0.5,1.0,%v)=%v not >= previous %v", f, p, prev)
		}
		prev = p
	}
}

func TestChooseFractionClampsOutsideRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	if got := ChooseFraction(0.5, 1.0, 0.1, rng); got != 0.5 {
		t.Fatalf("ChooseFraction below a = %v, want 0.5", got)
	}
	if got := ChooseFraction(0.5, 1.0, 2.0, rng); got != 1.0 {
		t.Fatalf("ChooseFraction above b = %v, want 1.0", got)
	}
}

func TestTranslateBetExactMatches(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	if a := TranslateBet(0.5, rng); a.String() != "half_pot" {
		t.Fatalf("TranslateBet(0.5) = %v, want half_pot", a)
	}
	if a := TranslateBet(1.0, rng); a.String() != "pot" {
		t.Fatalf("TranslateBet(1.0) = %v, want pot", a)
	}
}
