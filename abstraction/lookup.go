package abstraction

import (
	"fmt"

	"github.com/lox/pokerforbots/cards"
)

// ClusterLookup maps a concrete hole+board situation to the bucket id a
// prior EnumerateArchetypes + equity.Estimate + KMeans pipeline assigned to
// its canonical form. It is the queryable artifact that pipeline produces:
// archetypes and assignment are parallel slices (archetypes[i] was assigned
// to cluster assignment[i]) built once offline and then reused for every
// CFR traversal that reaches this street.
type ClusterLookup struct {
	street Street
	byHand map[cards.Canonical]int
}

// ErrArchetypeAssignmentMismatch is returned by NewClusterLookup when the
// archetype and assignment slices have different lengths.
var ErrArchetypeAssignmentMismatch = fmt.Errorf("abstraction: archetypes and assignment length mismatch")

// NewClusterLookup builds a ClusterLookup from an archetype population and
// the cluster assignment KMeans computed for it, in the same order
// EnumerateArchetypes and equity estimation produced them.
func NewClusterLookup(street Street, archetypes []cards.Canonical, assignment []int) (*ClusterLookup, error) {
	if len(archetypes) != len(assignment) {
		return nil, fmt.Errorf("%w: %d archetypes, %d assignments", ErrArchetypeAssignmentMismatch, len(archetypes), len(assignment))
	}
	byHand := make(map[cards.Canonical]int, len(archetypes))
	for i, c := range archetypes {
		byHand[c] = assignment[i]
	}
	return &ClusterLookup{street: street, byHand: byHand}, nil
}

// Bucket returns the cluster id for situation, canonicalizing it first so
// the lookup is suit-isomorphism invariant. Situations outside the
// population the lookup was built from (should not arise for a
// street-complete archetype enumeration) return bucket 0.
func (l *ClusterLookup) Bucket(situation cards.Situation) int {
	c := cards.Canonicalize(situation)
	if b, ok := l.byHand[c]; ok {
		return b
	}
	return 0
}

// Street reports which betting round this lookup was built for.
func (l *ClusterLookup) Street() Street {
	return l.street
}

// Size reports how many distinct canonical situations this lookup covers.
func (l *ClusterLookup) Size() int {
	return len(l.byHand)
}
