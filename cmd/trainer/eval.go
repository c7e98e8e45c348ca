package main

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerforbots/blueprint"
	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/cfr"
	"github.com/lox/pokerforbots/config"
	"github.com/lox/pokerforbots/eval"
	"github.com/lox/pokerforbots/history"
	"github.com/lox/pokerforbots/internal/randutil"
)

// EvalCmd self-plays a trained blueprint against itself and reports
// aggregate profit statistics. cfr.Exploitability needs a live
// *infoset.Table to walk best responses over; a loaded blueprint.Blueprint
// only exposes a compacted average-strategy lookup, so this command
// measures the artifact the way a deployed bot would actually be judged —
// realized results over sampled hands — rather than reconstructing an
// exploitability figure from data the artifact no longer carries.
type EvalCmd struct {
	Blueprint string `help:"path to a saved blueprint artifact" arg:""`
	CacheDir  string `help:"directory holding the cached abstraction the blueprint was trained under" default:"cache"`
	Hands     int    `help:"number of hands to self-play" default:"10000"`
	Seed      int64  `help:"self-play RNG seed" default:"1"`
}

func (cmd *EvalCmd) Run(ctx context.Context, logger *log.Logger) error {
	bp, err := blueprint.Load(cmd.Blueprint)
	if err != nil {
		return fmt.Errorf("load blueprint: %w", err)
	}
	logger.Info("blueprint loaded", "path", cmd.Blueprint, "records", bp.Size(), "fingerprint", bp.ParameterFingerprint())

	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Fingerprint() != bp.ParameterFingerprint() {
		logger.Warn("config does not match the blueprint's training parameters; bucket lookups may miss")
	}

	// Self-play needs the same card-abstraction bucket assignment the
	// blueprint was trained under, since Query's lookup key is formed from
	// buckets.Bucket regardless of hit or miss. The cache directory makes
	// this instant when it still holds the training run's artifacts.
	buckets, err := buildAbstraction(ctx, cfg, cmd.CacheDir, logger)
	if err != nil {
		return fmt.Errorf("rebuild abstraction: %w", err)
	}

	blinds := cfg.Training.BlindStructure()
	rng := randutil.New(cmd.Seed)

	var netChips [2]int
	var hits, total int
	for i := 0; i < cmd.Hands; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		result, handHits, handTotal := playHand(bp, buckets, blinds, rng)
		netChips[0] += result[0]
		netChips[1] += result[1]
		hits += handHits
		total += handTotal
	}

	hands := float64(cmd.Hands)
	bigBlind := float64(blinds.BigBlind)
	for player := 0; player < 2; player++ {
		bbPerHand := float64(netChips[player]) / bigBlind / hands
		logger.Info("self-play result", "player", player, "net_chips", netChips[player],
			"bb_per_hand", bbPerHand, "bb_per_100", bbPerHand*100, "hands", cmd.Hands)
	}
	if total > 0 {
		logger.Info("blueprint hit rate", "hits", hits, "total_decisions", total,
			"rate", float64(hits)/float64(total))
	}
	return nil
}

// playHand plays one hand to completion with both seats querying bp, and
// returns each player's net chip result relative to their starting stack
// plus how many of the decisions it made were genuine blueprint hits versus
// uniform fallback.
func playHand(bp *blueprint.Blueprint, buckets cfr.StreetBuckets, blinds history.BlindStructure, rng *rand.Rand) ([2]int, int, int) {
	deck := cards.Deck()
	rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
	hole := [2][2]cards.Card{{deck[0], deck[1]}, {deck[2], deck[3]}}
	board := deck[4:9]

	hits, total := 0, 0
	h := history.New(blinds)
	for !h.HandOver() {
		player := h.WhoseTurn()
		boardSoFar := boardForStreet(board, h.Street())
		action, _, err := bp.Query(hole[player], boardSoFar, h, buckets, rng)
		if err != nil {
			// Query never errors by contract; this branch exists only to
			// satisfy the compiler's nil-check discipline.
			break
		}
		if bp.Hit(hole[player], boardSoFar, h, buckets) {
			hits++
		}
		total++
		h = h.Extend(action)
	}

	stacks, err := h.Stacks()
	if err != nil {
		return [2]int{}, hits, total
	}
	pot, err := h.Pot()
	if err != nil {
		return [2]int{}, hits, total
	}

	winner := -1
	if folded, ok := h.FoldedPlayer(); ok {
		winner = 1 - folded
	} else {
		winner = showdown(hole, board)
	}
	if winner < 0 {
		return [2]int{}, hits, total
	}

	// Each player's stack already reflects their own committed chips
	// (history.ActionHistory.Stacks never credits winnings back), so the
	// winner's net is the pot minus what they themselves put into it, and
	// the loser's net is the negation since no rake is modeled.
	var result [2]int
	result[winner] = pot - (blinds.StackSize - stacks[winner])
	result[1-winner] = -result[winner]
	return result, hits, total
}

func boardForStreet(board []cards.Card, street history.Street) []cards.Card {
	switch street {
	case history.Preflop:
		return nil
	case history.Flop:
		return board[:3]
	case history.Turn:
		return board[:4]
	default:
		return board[:5]
	}
}

// showdown returns the winning player index, or -1 on a tie (split pots
// aren't modeled here since self-play statistics only need expected value
// over many hands, not exact chip-for-chip pot splitting).
func showdown(hole [2][2]cards.Card, board []cards.Card) int {
	strengths := make([]eval.Strength, 2)
	for player := 0; player < 2; player++ {
		cardsSeven := append([]cards.Card{hole[player][0], hole[player][1]}, board...)
		hand, err := cards.NewHand(cardsSeven)
		if err != nil {
			return -1
		}
		strength, err := eval.Evaluate(hand)
		if err != nil {
			return -1
		}
		strengths[player] = strength
	}
	switch eval.Compare(strengths[0], strengths[1]) {
	case 1:
		return 0
	case -1:
		return 1
	default:
		return -1
	}
}
