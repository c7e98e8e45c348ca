package history

import "fmt"

// ErrOverStack is returned when a decoded bet would exceed the acting
// player's remaining stack. Surfacing it from Pot/Stacks rather than
// clamping silently matters because a silent clamp would corrupt the
// regret integrals computed over the decoded bet sizes.
var ErrOverStack = fmt.Errorf("history: decoded bet exceeds remaining stack")

// replayState tracks chip accounting while walking an ActionHistory's
// streets in order.
type replayState struct {
	pot       int
	stacks    [2]int
	committed [2]int // total chips each player has put in during the current street
	prevBet   int    // the street's current total bet size, for 3bet/4bet/min_raise sizing
}

// Pot returns the total chips committed to the pot so far.
func (h ActionHistory) Pot() (int, error) {
	st, err := h.replay()
	if err != nil {
		return 0, err
	}
	return st.pot, nil
}

// Stacks returns each player's remaining chip stack.
func (h ActionHistory) Stacks() ([2]int, error) {
	st, err := h.replay()
	if err != nil {
		return [2]int{}, err
	}
	return st.stacks, nil
}

// replay walks every street's action list in order, applying the bet-size
// decoding table, and returns the resulting chip state.
func (h ActionHistory) replay() (replayState, error) {
	st := replayState{
		stacks: [2]int{h.blinds.StackSize - h.blinds.SmallBlind, h.blinds.StackSize - h.blinds.BigBlind},
	}
	st.pot = h.blinds.SmallBlind + h.blinds.BigBlind
	st.committed = [2]int{h.blinds.SmallBlind, h.blinds.BigBlind}
	st.prevBet = h.blinds.BigBlind

	for s := Preflop; s <= River; s++ {
		acts := h.streets[s]
		if len(acts) == 0 {
			continue
		}
		if s != Preflop {
			st.committed = [2]int{0, 0}
			st.prevBet = 0
		}

		const first = 0
		for i, a := range acts {
			player := first
			if i%2 == 1 {
				player = 1 - first
			}
			if err := st.apply(player, a); err != nil {
				return replayState{}, err
			}
		}
	}
	return st, nil
}

// apply decodes one action by player against the street-relative bet-size
// rules of spec.md §4.E and updates the running chip state in place.
func (st *replayState) apply(player int, a Action) error {
	opp := 1 - player
	commitTo := func(total int) error {
		delta := total - st.committed[player]
		if delta < 0 {
			delta = 0
		}
		if delta > st.stacks[player] {
			return fmt.Errorf("%w: player %d owes %d with only %d remaining", ErrOverStack, player, delta, st.stacks[player])
		}
		st.stacks[player] -= delta
		st.pot += delta
		st.committed[player] = total
		if total > st.prevBet {
			st.prevBet = total
		}
		return nil
	}

	switch a {
	case Fold:
		return nil
	case Limp:
		return commitTo(st.prevBet)
	case Call:
		return commitTo(st.committed[opp])
	case Raise:
		return commitTo(3 * st.prevBet)
	case ThreeBet, FourBet:
		return commitTo(3 * st.prevBet)
	case AllIn:
		return commitTo(st.committed[player] + st.stacks[player])
	case Check:
		return nil
	case HalfPot:
		return commitTo(st.committed[player] + st.pot/2)
	case Pot:
		return commitTo(st.committed[player] + st.pot)
	case MinRaise:
		return commitTo(2 * st.prevBet)
	default:
		return fmt.Errorf("%w: unknown action %v", ErrIllegalAction, a)
	}
}
