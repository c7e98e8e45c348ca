package abstraction

import (
	"fmt"

	"github.com/lox/pokerforbots/cards"
)

// Street identifies which betting round a hand archetype belongs to.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// boardCards returns how many community cards are dealt on street.
func (s Street) boardCards() int {
	switch s {
	case Preflop:
		return 0
	case Flop:
		return 3
	case Turn:
		return 4
	case River:
		return 5
	default:
		return 0
	}
}

// ErrUnknownStreet is returned by EnumerateArchetypes for an out-of-range
// Street value.
var ErrUnknownStreet = fmt.Errorf("abstraction: unknown street")

// EnumerateArchetypes returns every canonical hole+board combination for
// street, deduplicated under suit isomorphism via cards.Canonicalize. The
// result is the input population to equity estimation and k-means
// clustering: every archetype gets one equity distribution, and every
// equity distribution becomes one clustering sample.
//
// This enumerates every 2-card-hole + N-card-board combination from the
// 52-card deck, which is large for turn and river (tens of millions of raw
// deals before deduplication) — callers for those streets should expect the
// walk to take real wall-clock time and should cache the result via Cache.
func EnumerateArchetypes(street Street) ([]cards.Canonical, error) {
	if street < Preflop || street > River {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStreet, street)
	}

	deck := cards.Deck()
	boardLen := street.boardCards()

	var out []cards.Canonical
	for i := 0; i < len(deck); i++ {
		for j := i + 1; j < len(deck); j++ {
			hole := [2]cards.Card{deck[i], deck[j]}
			if boardLen == 0 {
				out = append(out, cards.Canonicalize(cards.Situation{Hole: hole}))
				continue
			}
			enumerateBoards(deck, hole, boardLen, func(board []cards.Card) {
				out = append(out, cards.Canonicalize(cards.Situation{Hole: hole, Board: board}))
			})
		}
	}

	cards.SortCanonicals(out)
	return cards.DedupSortedCanonicals(out), nil
}

// enumerateBoards walks every boardLen-card combination of deck not
// overlapping hole, invoking fn with a freshly allocated board slice.
func enumerateBoards(deck [52]cards.Card, hole [2]cards.Card, boardLen int, fn func([]cards.Card)) {
	excluded := map[cards.Card]bool{hole[0]: true, hole[1]: true}
	var pool []cards.Card
	for _, c := range deck {
		if !excluded[c] {
			pool = append(pool, c)
		}
	}

	combo := make([]cards.Card, boardLen)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == boardLen {
			out := make([]cards.Card, boardLen)
			copy(out, combo)
			fn(out)
			return
		}
		for i := start; i < len(pool); i++ {
			combo[depth] = pool[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
}
