// Package intelligence composes the three calculators into combined
// per-player reports, club dashboards and market scans.
package intelligence

import (
	"fmt"

	"github.com/scoutsight/intel-engine/pkg/types"
)

// Aggregator derives cross-signal insights from calculator outputs. It holds
// no state; rules are evaluated independently in a fixed order and every
// matching insight is emitted.
type Aggregator struct{}

// NewAggregator creates an insight aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Insights evaluates the fixed cross-signal rule set. Live data is optional;
// live-dependent rules are skipped when it is nil.
func (a *Aggregator) Insights(injury *types.InjuryRiskAnalysis, valuation *types.TransferValuation, live *types.LiveBettingData) []string {
	insights := make([]string, 0)

	highRisk := injury != nil && injury.RiskLevel.Rank() >= types.RiskLevelHigh.Rank()

	// Rule 1: elevated injury risk on a player the model says to sell
	if highRisk && valuation != nil && valuation.Recommendation == types.RecommendationSell {
		insights = append(insights, fmt.Sprintf(
			"URGENT: %s injury risk (%.0f) on a SELL-rated player - accelerate sale before value erodes",
			injury.RiskLevel, injury.RiskScore))
	}

	// Rule 2: rising value with a likely transfer window
	if valuation != nil && valuation.ValueTrend == types.ValueTrendRising && valuation.TransferProbability >= 0.5 {
		insights = append(insights, fmt.Sprintf(
			"OPPORTUNITY: value rising with %.0f%% transfer probability - strong negotiating position",
			valuation.TransferProbability*100))
	}

	// Rule 3: high injury risk on a player performing well live
	if highRisk && live != nil && live.CurrentPerformanceScore >= 70 {
		insights = append(insights, fmt.Sprintf(
			"SUBSTITUTION ALERT: performing at %.0f but carrying %s injury risk - consider early withdrawal",
			live.CurrentPerformanceScore, injury.RiskLevel))
	}

	// Rule 4: fatigue flagged by the movement analysis
	if injury != nil && containsFactor(injury.RiskFactors, "High fatigue indicator") {
		insights = append(insights, "FATIGUE WARNING: movement analysis shows elevated fatigue - manage minutes")
	}

	// Rule 5: undervalued player outperforming live
	if valuation != nil && live != nil &&
		valuation.CurrentValue > 0 && valuation.EstimatedValue < valuation.CurrentValue*0.9 &&
		live.CurrentPerformanceScore >= 75 {
		insights = append(insights, fmt.Sprintf(
			"UNDERVALUED STAR: live performance %.0f exceeds a declining valuation - review before the market reprices",
			live.CurrentPerformanceScore))
	}

	return insights
}

func containsFactor(factors []string, target string) bool {
	for _, f := range factors {
		if f == target {
			return true
		}
	}
	return false
}
