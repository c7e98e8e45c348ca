package cfr

import (
	"math/rand/v2"

	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/history"
)

// deal is the full, pre-resolved outcome of one training iteration's chance
// node: both players' hole cards and the entire five-card runout. A single
// deal is dealt once per iterate() call and threaded unchanged through every
// recursive traversal branch; board-so-far for bucket lookups is always a
// prefix of deal.board, and showdown always uses the full five cards
// regardless of which street the hand actually stopped betting on (an
// all-in before the river still runs the board out).
type deal struct {
	hole  [2][2]cards.Card
	board [5]cards.Card
}

// dealHand draws 2+2+5 = 9 distinct cards from a shuffled deck.
func dealHand(rng *rand.Rand) deal {
	d := cards.Deck()
	rng.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })

	var out deal
	out.hole[0] = [2]cards.Card{d[0], d[1]}
	out.hole[1] = [2]cards.Card{d[2], d[3]}
	copy(out.board[:], d[4:9])
	return out
}

// boardSoFar returns the prefix of deal.board visible on street, for card
// abstraction bucket lookups (as opposed to showdown evaluation, which
// always sees the full board).
func boardSoFar(d deal, street history.Street) []cards.Card {
	switch street {
	case history.Preflop:
		return nil
	case history.Flop:
		return d.board[:3]
	case history.Turn:
		return d.board[:4]
	default:
		return d.board[:5]
	}
}
