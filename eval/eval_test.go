package eval

import (
	"errors"
	"testing"

	"github.com/lox/pokerforbots/cards"
)

func mustHand(t *testing.T, specs [][2]interface{}) cards.Hand {
	t.Helper()
	cs := make([]cards.Card, 0, len(specs))
	for _, sp := range specs {
		cs = append(cs, cards.Card{Rank: sp[0].(cards.Rank), Suit: sp[1].(cards.Suit)})
	}
	h, err := cards.NewHand(cs)
	if err != nil {
		t.Fatalf("NewHand: %v", err)
	}
	return h
}

func TestRoyalFlushBeatsStraightFlush(t *testing.T) {
	royal := mustHand(t, [][2]interface{}{
		{cards.Ace, cards.Spades}, {cards.King, cards.Spades}, {cards.Queen, cards.Spades},
		{cards.Jack, cards.Spades}, {cards.Ten, cards.Spades},
	})
	straightFlush := mustHand(t, [][2]interface{}{
		{cards.Nine, cards.Hearts}, {cards.Eight, cards.Hearts}, {cards.Seven, cards.Hearts},
		{cards.Six, cards.Hearts}, {cards.Five, cards.Hearts},
	})

	a, err := Evaluate(royal)
	if err != nil {
		t.Fatalf("Evaluate(royal): %v", err)
	}
	b, err := Evaluate(straightFlush)
	if err != nil {
		t.Fatalf("Evaluate(straightFlush): %v", err)
	}
	if a.Category() != StraightFlush || b.Category() != StraightFlush {
		t.Fatalf("expected both hands to be straight flushes, got %v and %v", a.Category(), b.Category())
	}
	if Compare(a, b) != 1 {
		t.Fatalf("expected royal flush to beat a lower straight flush")
	}
}

func TestWheelStraightIsLowest(t *testing.T) {
	wheel := mustHand(t, [][2]interface{}{
		{cards.Ace, cards.Spades}, {cards.Two, cards.Hearts}, {cards.Three, cards.Diamonds},
		{cards.Four, cards.Clubs}, {cards.Five, cards.Spades},
	})
	sixHigh := mustHand(t, [][2]interface{}{
		{cards.Two, cards.Spades}, {cards.Three, cards.Hearts}, {cards.Four, cards.Diamonds},
		{cards.Five, cards.Clubs}, {cards.Six, cards.Spades},
	})

	a, _ := Evaluate(wheel)
	b, _ := Evaluate(sixHigh)
	if a.Category() != Straight || b.Category() != Straight {
		t.Fatalf("expected both hands to be straights, got %v and %v", a.Category(), b.Category())
	}
	if Compare(a, b) != -1 {
		t.Fatalf("expected the wheel to lose to a six-high straight")
	}
}

func TestFullHouseBeatsFlush(t *testing.T) {
	fullHouse := mustHand(t, [][2]interface{}{
		{cards.King, cards.Spades}, {cards.King, cards.Hearts}, {cards.King, cards.Diamonds},
		{cards.Two, cards.Clubs}, {cards.Two, cards.Spades},
	})
	flush := mustHand(t, [][2]interface{}{
		{cards.Ace, cards.Hearts}, {cards.Jack, cards.Hearts}, {cards.Nine, cards.Hearts},
		{cards.Six, cards.Hearts}, {cards.Two, cards.Hearts},
	})
	a, _ := Evaluate(fullHouse)
	b, _ := Evaluate(flush)
	if Compare(a, b) != 1 {
		t.Fatalf("expected full house to beat flush")
	}
}

func TestBestOfSevenPicksCorrectFiveCards(t *testing.T) {
	// Board gives a board-paired full house that dominates the 7-card hand;
	// the two hole cards are irrelevant deuce/trey kickers.
	seven := mustHand(t, [][2]interface{}{
		{cards.Two, cards.Clubs}, {cards.Three, cards.Diamonds},
		{cards.Ace, cards.Spades}, {cards.Ace, cards.Hearts}, {cards.Ace, cards.Diamonds},
		{cards.King, cards.Clubs}, {cards.King, cards.Hearts},
	})
	s, err := Evaluate(seven)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if s.Category() != FullHouse {
		t.Fatalf("expected full house from seven cards, got %v", s.Category())
	}
}

func TestEvaluateRejectsWrongCardCount(t *testing.T) {
	four := mustHand(t, [][2]interface{}{
		{cards.Ace, cards.Spades}, {cards.King, cards.Hearts},
		{cards.Queen, cards.Diamonds}, {cards.Jack, cards.Clubs},
	})
	if _, err := Evaluate(four); !errors.Is(err, ErrWrongCardCount) {
		t.Fatalf("got %v, want ErrWrongCardCount", err)
	}
}

func TestTableCachesFiveCardEvaluations(t *testing.T) {
	tbl, err := NewTable(16)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	hand := mustHand(t, [][2]interface{}{
		{cards.Ace, cards.Spades}, {cards.King, cards.Spades}, {cards.Queen, cards.Spades},
		{cards.Jack, cards.Spades}, {cards.Ten, cards.Spades},
	})
	first, err := tbl.Evaluate5(hand)
	if err != nil {
		t.Fatalf("Evaluate5: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after first evaluation", tbl.Len())
	}
	second, err := tbl.Evaluate5(hand)
	if err != nil {
		t.Fatalf("Evaluate5 (cached): %v", err)
	}
	if first != second {
		t.Fatalf("cached evaluation differs: %v vs %v", first, second)
	}
}
