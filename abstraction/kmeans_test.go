package abstraction

import (
	"context"
	"testing"

	"github.com/lox/pokerforbots/equity"
)

func TestKMeansSeparatesDistinctClusters(t *testing.T) {
	// Two tight clusters of histograms: one concentrated at low equity, one
	// at high equity. k=2 should recover exactly that split.
	var histograms []equity.Distribution
	low := equity.Distribution{0.9, 0.1, 0, 0}
	high := equity.Distribution{0, 0, 0.1, 0.9}
	for i := 0; i < 5; i++ {
		histograms = append(histograms, append(equity.Distribution(nil), low...))
	}
	for i := 0; i < 5; i++ {
		histograms = append(histograms, append(equity.Distribution(nil), high...))
	}

	result, err := KMeans(context.Background(), histograms, 2, 10, EMD, 1)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if len(result.Assignment) != len(histograms) {
		t.Fatalf("len(Assignment) = %d, want %d", len(result.Assignment), len(histograms))
	}

	firstGroup := result.Assignment[0]
	for i := 0; i < 5; i++ {
		if result.Assignment[i] != firstGroup {
			t.Fatalf("low-equity histograms split across clusters: %v", result.Assignment[:5])
		}
	}
	secondGroup := result.Assignment[5]
	for i := 5; i < 10; i++ {
		if result.Assignment[i] != secondGroup {
			t.Fatalf("high-equity histograms split across clusters: %v", result.Assignment[5:])
		}
	}
	if firstGroup == secondGroup {
		t.Fatalf("expected low- and high-equity groups in different clusters")
	}
}

func TestKMeansEmptyClusterKeepsPreviousCentroid(t *testing.T) {
	histograms := []equity.Distribution{
		{1, 0}, {1, 0}, {1, 0},
	}
	// k=3 with only one distinct histogram value guarantees at least one
	// empty cluster after the first assignment step.
	result, err := KMeans(context.Background(), histograms, 3, 1, Euclidean, 5)
	if err != nil {
		t.Fatalf("KMeans: %v", err)
	}
	if len(result.Centroids) != 3 {
		t.Fatalf("len(Centroids) = %d, want 3", len(result.Centroids))
	}
	for _, c := range result.Centroids {
		if len(c) != 2 {
			t.Fatalf("expected every centroid to remain well-formed, got %v", c)
		}
	}
}

func TestKMeansRejectsEmptyInput(t *testing.T) {
	if _, err := KMeans(context.Background(), nil, 2, 5, EMD, 0); err != ErrEmptyInput {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
	if _, err := KMeans(context.Background(), []equity.Distribution{{1}}, 0, 5, EMD, 0); err != ErrEmptyInput {
		t.Fatalf("got %v, want ErrEmptyInput for k=0", err)
	}
}

func TestEMDDistanceZeroForIdenticalHistograms(t *testing.T) {
	a := equity.Distribution{0.2, 0.3, 0.5}
	if d := emd(a, a); d != 0 {
		t.Fatalf("emd(a, a) = %f, want 0", d)
	}
}

func TestEMDDetectsOrdinalCloseness(t *testing.T) {
	// Mass shifted one bin over should cost less EMD than mass shifted two
	// bins over, reflecting that EMD respects ordinal distance between bins.
	base := equity.Distribution{1, 0, 0, 0}
	near := equity.Distribution{0, 1, 0, 0}
	far := equity.Distribution{0, 0, 0, 1}
	if emd(base, near) >= emd(base, far) {
		t.Fatalf("expected emd(base, near) < emd(base, far), got %f vs %f", emd(base, near), emd(base, far))
	}
}
