package abstraction

import (
	"testing"

	"github.com/lox/pokerforbots/cards"
)

func TestPreflopBucketCountIs169(t *testing.T) {
	if PreflopBucketCount != 169 {
		t.Fatalf("PreflopBucketCount = %d, want 169", PreflopBucketCount)
	}
}

func TestPreflopBucketSuitIsomorphismInvariant(t *testing.T) {
	a := PreflopBucket([2]cards.Card{{Rank: cards.Ace, Suit: cards.Spades}, {Rank: cards.Ace, Suit: cards.Hearts}})
	b := PreflopBucket([2]cards.Card{{Rank: cards.Ace, Suit: cards.Diamonds}, {Rank: cards.Ace, Suit: cards.Clubs}})
	if a != b {
		t.Fatalf("pocket aces in different suits mapped to different buckets: %d vs %d", a, b)
	}
}

func TestPreflopBucketDistinguishesPairFromNonPair(t *testing.T) {
	aces := PreflopBucket([2]cards.Card{{Rank: cards.Ace, Suit: cards.Spades}, {Rank: cards.Ace, Suit: cards.Hearts}})
	kings := PreflopBucket([2]cards.Card{{Rank: cards.King, Suit: cards.Spades}, {Rank: cards.King, Suit: cards.Hearts}})
	if aces == kings {
		t.Fatalf("pocket aces and pocket kings mapped to the same bucket")
	}
}

func TestPreflopBucketDistinguishesSuitedFromOffsuit(t *testing.T) {
	suited := PreflopBucket([2]cards.Card{{Rank: cards.Ace, Suit: cards.Spades}, {Rank: cards.King, Suit: cards.Spades}})
	offsuit := PreflopBucket([2]cards.Card{{Rank: cards.Ace, Suit: cards.Spades}, {Rank: cards.King, Suit: cards.Hearts}})
	if suited == offsuit {
		t.Fatalf("AKs and AKo mapped to the same bucket")
	}
}

func TestPreflopBucketAllCombosAreInRange(t *testing.T) {
	deck := cards.Deck()
	for i := 0; i < len(deck); i++ {
		for j := i + 1; j < len(deck); j++ {
			b := PreflopBucket([2]cards.Card{deck[i], deck[j]})
			if b < 0 || b >= PreflopBucketCount {
				t.Fatalf("bucket %d out of range for %v/%v", b, deck[i], deck[j])
			}
		}
	}
}
