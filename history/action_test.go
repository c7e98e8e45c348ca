package history

import "testing"

func TestEmptyHistoryIsPreflopAndDealerFirst(t *testing.T) {
	h := New(DefaultBlinds)
	if h.Street() != Preflop {
		t.Fatalf("Street() = %v, want Preflop", h.Street())
	}
	if h.WhoseTurn() != 0 {
		t.Fatalf("WhoseTurn() = %d, want 0 (dealer/SB acts first preflop)", h.WhoseTurn())
	}
	if h.HandOver() {
		t.Fatal("empty history should not be over")
	}
}

func TestLegalActionsPreflopDecisionTable(t *testing.T) {
	h := New(DefaultBlinds)
	acts, err := h.LegalActions()
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	assertSameActions(t, acts, []Action{Fold, Limp, Raise})

	h = h.Extend(Limp)
	acts, err = h.LegalActions()
	if err != nil {
		t.Fatalf("LegalActions after limp: %v", err)
	}
	assertSameActions(t, acts, []Action{Fold, Call, Raise})
}

func TestFoldEndsHand(t *testing.T) {
	h := New(DefaultBlinds).Extend(Fold)
	if !h.HandOver() {
		t.Fatal("expected hand to be over after a fold")
	}
	if h.Street() != Over {
		t.Fatalf("Street() = %v, want Over", h.Street())
	}
}

func TestCallClosesPreflopIntoFlop(t *testing.T) {
	h := New(DefaultBlinds).Extend(Limp).Extend(Call)
	if h.Street() != Flop {
		t.Fatalf("Street() = %v, want Flop", h.Street())
	}
	if h.WhoseTurn() != 0 {
		t.Fatalf("WhoseTurn() = %d, want 0 (dealer/SB acts first on every street)", h.WhoseTurn())
	}
}

func TestDoubleCheckClosesStreet(t *testing.T) {
	h := New(DefaultBlinds).Extend(Limp).Extend(Call) // now on the flop
	acts, err := h.LegalActions()
	if err != nil {
		t.Fatalf("LegalActions: %v", err)
	}
	assertSameActions(t, acts, []Action{Check, HalfPot, Pot, AllIn})

	h = h.Extend(Check).Extend(Check)
	if h.Street() != Turn {
		t.Fatalf("Street() = %v, want Turn", h.Street())
	}
}

func TestCallOfAllInEndsHandImmediately(t *testing.T) {
	h := New(DefaultBlinds).Extend(Raise).Extend(ThreeBet).Extend(FourBet).Extend(AllIn).Extend(Call)
	if !h.HandOver() {
		t.Fatal("expected hand over after a call of an all-in")
	}
}

func TestRiverCallEndsHand(t *testing.T) {
	h := New(DefaultBlinds).
		Extend(Limp).Extend(Call). // preflop -> flop
		Extend(Check).Extend(Check). // flop -> turn
		Extend(Check).Extend(Check). // turn -> river
		Extend(Check).Extend(Check)  // river -> over
	if !h.HandOver() {
		t.Fatal("expected hand over after river closes with a double check")
	}
}

func TestExtendDoesNotMutateReceiver(t *testing.T) {
	base := New(DefaultBlinds)
	extended := base.Extend(Limp)
	if len(base.Actions(Preflop)) != 0 {
		t.Fatalf("Extend mutated the receiver: base has %d preflop actions", len(base.Actions(Preflop)))
	}
	if len(extended.Actions(Preflop)) != 1 {
		t.Fatalf("expected extended history to have 1 preflop action, got %d", len(extended.Actions(Preflop)))
	}
}

func TestPotAndStacksAfterLimpCall(t *testing.T) {
	h := New(DefaultBlinds).Extend(Limp).Extend(Call)
	pot, err := h.Pot()
	if err != nil {
		t.Fatalf("Pot: %v", err)
	}
	if pot != 2*DefaultBlinds.BigBlind {
		t.Fatalf("Pot() = %d, want %d", pot, 2*DefaultBlinds.BigBlind)
	}
	stacks, err := h.Stacks()
	if err != nil {
		t.Fatalf("Stacks: %v", err)
	}
	want := DefaultBlinds.StackSize - DefaultBlinds.BigBlind
	if stacks[0] != want || stacks[1] != want {
		t.Fatalf("Stacks() = %v, want both %d", stacks, want)
	}
}

func TestRaiseThreeBetSizingIsTripled(t *testing.T) {
	h := New(DefaultBlinds).Extend(Raise).Extend(ThreeBet)
	pot, err := h.Pot()
	if err != nil {
		t.Fatalf("Pot: %v", err)
	}
	// Raise = 3*BB, ThreeBet = 3*(3*BB) = 9*BB; pot is the sum of both
	// players' street commitments.
	raiseAmt := 3 * DefaultBlinds.BigBlind
	threeBetAmt := 3 * raiseAmt
	want := raiseAmt + threeBetAmt
	if pot != want {
		t.Fatalf("Pot() = %d, want %d", pot, want)
	}
}

func TestOverStackIsReported(t *testing.T) {
	tiny := BlindStructure{SmallBlind: 50, BigBlind: 100, StackSize: 150}
	h := New(tiny).Extend(Raise).Extend(ThreeBet).Extend(FourBet)
	if _, err := h.Pot(); err == nil {
		t.Fatal("expected ErrOverStack for a stack too small to cover the 4bet chain")
	}
}

func TestFoldedPlayerIdentifiesTheFolder(t *testing.T) {
	folded := New(DefaultBlinds).Extend(Raise).Extend(Fold)
	player, ok := folded.FoldedPlayer()
	if !ok {
		t.Fatal("expected a folded player")
	}
	if player != 1 {
		t.Fatalf("FoldedPlayer() = %d, want 1 (the big blind folds to the raise)", player)
	}
}

func TestFoldedPlayerFalseOnShowdown(t *testing.T) {
	h := New(DefaultBlinds).
		Extend(Limp).Extend(Call).
		Extend(Check).Extend(Check).
		Extend(Check).Extend(Check).
		Extend(Check).Extend(Check)
	if _, ok := h.FoldedPlayer(); ok {
		t.Fatal("expected no folded player on a hand that reached showdown")
	}
}

func assertSameActions(t *testing.T, got, want []Action) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("actions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("actions = %v, want %v", got, want)
		}
	}
}
