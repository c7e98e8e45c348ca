package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerforbots/abstraction"
	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/cfr"
	"github.com/lox/pokerforbots/config"
	"github.com/lox/pokerforbots/equity"
)

// buildAbstraction runs the offline card-abstraction pipeline (archetype
// enumeration, Monte Carlo equity estimation, EMD k-means clustering) for
// every postflop street and assembles the result into a cfr.StreetBuckets a
// Trainer can traverse against. Results are fronted by an abstraction.Cache
// keyed on the exact parameters used, so a rerun with an unchanged
// abstraction block reloads the clustering instead of re-sampling it.
func buildAbstraction(ctx context.Context, cfg *config.RootConfig, cacheDir string, logger *log.Logger) (cfr.StreetBuckets, error) {
	cache, err := abstraction.NewCache(cacheDir, 4)
	if err != nil {
		return cfr.StreetBuckets{}, fmt.Errorf("trainer: open abstraction cache: %w", err)
	}

	var buckets cfr.StreetBuckets
	for _, street := range []abstraction.Street{abstraction.Flop, abstraction.Turn, abstraction.River} {
		lookup, err := buildStreetLookup(ctx, cache, street, cfg, logger)
		if err != nil {
			return cfr.StreetBuckets{}, fmt.Errorf("trainer: build %s abstraction: %w", street, err)
		}
		switch street {
		case abstraction.Flop:
			buckets.Flop = lookup
		case abstraction.Turn:
			buckets.Turn = lookup
		case abstraction.River:
			buckets.River = lookup
		}
	}
	return buckets, nil
}

// buildStreetLookup produces one street's abstraction.ClusterLookup,
// reusing a cached archetype/histogram build when the cache's recorded
// fingerprint matches the current configuration.
func buildStreetLookup(ctx context.Context, cache *abstraction.Cache, street abstraction.Street, cfg *config.RootConfig, logger *log.Logger) (*abstraction.ClusterLookup, error) {
	buckets := cfg.Abstraction.BucketsFor(street)
	fp := abstraction.Fingerprint{
		Street:         street,
		Bins:           cfg.Abstraction.EquityBins,
		OpponentDraws:  cfg.Abstraction.OuterSamples,
		RolloutSamples: cfg.Abstraction.InnerSamples,
		Buckets:        buckets,
	}

	archetypes, histograms, assignment, hit, err := cache.Load(fp)
	if err != nil {
		return nil, fmt.Errorf("load cache: %w", err)
	}
	if !hit {
		logger.Info("sampling equity", "street", street, "buckets", buckets)
		archetypes, err = abstraction.EnumerateArchetypes(street)
		if err != nil {
			return nil, fmt.Errorf("enumerate archetypes: %w", err)
		}

		equityCfg := cfg.Abstraction.EquityConfig()
		histograms = make([]equity.Distribution, len(archetypes))
		for i, arch := range archetypes {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			situation := cards.Situation{Hole: arch.Hole, Board: arch.Board[:arch.Cards]}
			dist, err := equity.Estimate(ctx, situation, equityCfg)
			if err != nil {
				return nil, fmt.Errorf("estimate equity for archetype %d: %w", i, err)
			}
			histograms[i] = dist
		}

		if err := cache.Store(fp, archetypes, histograms); err != nil {
			return nil, fmt.Errorf("store cache entry: %w", err)
		}
	} else {
		logger.Info("reusing cached equity histograms", "street", street, "archetypes", len(archetypes))
	}

	if assignment != nil {
		logger.Info("reusing cached cluster assignment", "street", street, "buckets", buckets)
		return abstraction.NewClusterLookup(street, archetypes, assignment)
	}

	logger.Info("clustering", "street", street, "archetypes", len(archetypes), "buckets", buckets)
	result, err := abstraction.KMeans(ctx, histograms, buckets, cfg.Abstraction.KMeansIters, abstraction.EMD, cfg.Abstraction.Seed)
	if err != nil {
		return nil, fmt.Errorf("cluster: %w", err)
	}

	if err := cache.StoreAssignment(fp, result.Assignment); err != nil {
		return nil, fmt.Errorf("store cluster assignment: %w", err)
	}

	lookup, err := abstraction.NewClusterLookup(street, archetypes, result.Assignment)
	if err != nil {
		return nil, fmt.Errorf("build lookup: %w", err)
	}
	logger.Info("abstraction ready", "street", street, "loss", result.Loss, "iterations", result.Iterations)
	return lookup, nil
}
