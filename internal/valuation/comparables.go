package valuation

import (
	"math"
	"sort"
	"time"

	"github.com/scoutsight/intel-engine/pkg/types"
)

// Similarity weights. They sum to 100 before normalization to a 0-1 score.
const (
	weightPosition    = 25.0
	weightAge         = 20.0
	weightLeagueTier  = 15.0
	weightPerformance = 25.0
	weightRecency     = 15.0
	weightTotal       = 100.0

	// The market-data service supplies no per-transfer performance history,
	// so the performance component is a fixed neutral factor.
	neutralPerformanceFactor = 0.7

	comparableWindowMonths = 24.0
)

// findComparables scores recent transfers for similarity to the subject
// player and returns the top matches above the cutoff, best first. Zero
// matches is a valid outcome, not an error.
func (c *Calculator) findComparables(player types.PlayerRef, transfers []types.TransferRecord) []types.ComparableTransfer {
	now := time.Now().UTC()
	matches := make([]types.ComparableTransfer, 0, len(transfers))

	for _, t := range transfers {
		similarity := similarityScore(player, t, now)
		if similarity <= c.config.SimilarityCutoff {
			continue
		}
		matches = append(matches, types.ComparableTransfer{
			PlayerName: t.PlayerName,
			Fee:        t.Fee,
			Date:       t.Date,
			Similarity: similarity,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if len(matches) > c.config.MaxComparables {
		matches = matches[:c.config.MaxComparables]
	}
	return matches
}

// similarityScore computes the 0-1 similarity of a transfer to the subject
// player from position, age-difference decay, league tier, the performance
// placeholder, and recency decay.
func similarityScore(player types.PlayerRef, t types.TransferRecord, now time.Time) float64 {
	points := 0.0

	if t.Position == player.Position {
		points += weightPosition
	}

	ageDiff := math.Abs(float64(t.Age - player.Age))
	points += weightAge * math.Max(0, 1-ageDiff/10)

	tierDiff := math.Abs(float64(t.League.Tier() - player.League.Tier()))
	points += weightLeagueTier * math.Max(0, 1-tierDiff*0.5)

	points += weightPerformance * neutralPerformanceFactor

	monthsAgo := now.Sub(t.Date).Hours() / (24 * 30)
	points += weightRecency * math.Max(0, 1-monthsAgo/comparableWindowMonths)

	return points / weightTotal
}

// similarityWeightedFee returns the similarity-weighted average transfer fee
func similarityWeightedFee(comparables []types.ComparableTransfer) float64 {
	totalFee := 0.0
	totalWeight := 0.0
	for _, comp := range comparables {
		totalFee += comp.Fee * comp.Similarity
		totalWeight += comp.Similarity
	}
	if totalWeight == 0 {
		return 0
	}
	return totalFee / totalWeight
}
