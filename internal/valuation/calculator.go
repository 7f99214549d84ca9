// Package valuation implements the transfer valuation calculator: performance
// metrics, comparable transfers and market trends in, an estimated market
// value with recommendation and sell window out.
package valuation

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/internal/normalize"
	"github.com/scoutsight/intel-engine/pkg/types"
)

// Calculator computes transfer valuations for a single player from
// pre-fetched inputs
type Calculator struct {
	logger *logrus.Logger
	config *Config
}

// Config contains the calculator's valuation parameters
type Config struct {
	BaseValueUnit       float64 `json:"base_value_unit"`       // Monetary units per performance point
	MinPlayerValue      float64 `json:"min_player_value"`      // Valuation floor, base currency
	ComparableBlend     float64 `json:"comparable_blend"`      // Weight of comparable-derived value
	SimilarityCutoff    float64 `json:"similarity_cutoff"`     // Minimum similarity for a comparable
	MaxComparables      int     `json:"max_comparables"`       // Comparables returned with the valuation
	MinTransferProb     float64 `json:"min_transfer_prob"`
	MaxTransferProb     float64 `json:"max_transfer_prob"`
	ScarceVolume        int     `json:"scarce_volume"`         // Transaction volume below this is scarce supply
	SaturatedVolume     int     `json:"saturated_volume"`      // Transaction volume above this is saturated
}

// Inputs is the assembled per-player input struct for one valuation
type Inputs struct {
	Performance PerformanceWindow
	Transfers   []types.TransferRecord // Recent market transfers, 24-month window
	MarketTrend *types.MarketTrend     // Nil when market data is unavailable (neutral)
}

// PerformanceWindow wraps the 24-month performance metrics window
type PerformanceWindow struct {
	Metrics types.PerformanceMetrics
}

// NewCalculator creates a transfer valuation calculator with default parameters
func NewCalculator(logger *logrus.Logger) *Calculator {
	config := &Config{
		BaseValueUnit:    100000,
		MinPlayerValue:   100000,
		ComparableBlend:  0.30,
		SimilarityCutoff: 0.6,
		MaxComparables:   5,
		MinTransferProb:  0.01,
		MaxTransferProb:  0.95,
		ScarceVolume:     10,
		SaturatedVolume:  50,
	}

	return &Calculator{
		logger: logger,
		config: config,
	}
}

// Calculate produces a full transfer valuation for the player
func (c *Calculator) Calculate(player types.PlayerRef, in Inputs) types.TransferValuation {
	perf := in.Performance.Metrics
	drivers := make([]string, 0)

	// Step 1: base value from the weighted performance composite
	perfScore := c.performanceScore(perf)
	value := perfScore * player.Position.MarketMultiplier() * c.config.BaseValueUnit
	if perfScore >= 70 {
		drivers = append(drivers, "Elite performance output")
	}

	// Step 2: age multiplier
	ageMult := ageMultiplier(player.Age, player.Position.PeakAge())
	value *= ageMult
	if ageMult > 1.0 {
		drivers = append(drivers, "Age premium")
	} else if ageMult < 1.0 {
		drivers = append(drivers, "Age-related decline")
	}

	// Step 3: league prestige and international caps
	value *= player.League.PrestigeMultiplier()
	capsMult := capsMultiplier(player.InternationalCaps)
	value *= capsMult
	if capsMult > 1.1 {
		drivers = append(drivers, "Established international")
	}

	// Step 4: market-trend and supply/demand adjustments
	value *= c.marketTrendMultiplier(in.MarketTrend)
	value *= c.supplyDemandMultiplier(in.MarketTrend)
	if in.MarketTrend != nil && in.MarketTrend.GrowthRate > 0.05 {
		drivers = append(drivers, "Rising position market")
	}

	// Step 5: blend with similarity-weighted comparables when any exist
	comparables := c.findComparables(player, in.Transfers)
	if len(comparables) > 0 {
		comparableValue := similarityWeightedFee(comparables)
		value = value*(1-c.config.ComparableBlend) + comparableValue*c.config.ComparableBlend
		drivers = append(drivers, "Comparable-transfer support")
	}

	// Step 6: performance-trend multiplier, then floor
	trendMult := trendMultiplier(perf)
	value *= trendMult
	if value < c.config.MinPlayerValue {
		value = c.config.MinPlayerValue
	}

	probability := c.transferProbability(player, perf)
	ratio := valueRatio(value, player.ContractValue)
	recommendation := recommend(ratio, probability, perf.FormTrend)

	valuation := types.TransferValuation{
		PlayerID:            player.ID,
		EstimatedValue:      value,
		CurrentValue:        player.ContractValue,
		PotentialProfit:     value - player.ContractValue,
		ValueTrend:          valueTrendOf(trendMult, perf.FormTrend),
		TransferProbability: probability,
		Recommendation:      recommendation,
		ValueDrivers:        drivers,
		Comparables:         comparables,
		OptimalSellWindow:   c.optimalSellWindow(player, perf),
		CalculatedAt:        time.Now().UTC(),
	}

	c.logger.WithFields(logrus.Fields{
		"player_id":       player.ID,
		"estimated_value": value,
		"value_ratio":     ratio,
		"probability":     probability,
		"recommendation":  recommendation,
	}).Debug("Transfer valuation complete")

	return valuation
}

// performanceScore computes the 0-100 weighted composite:
// 30% goal/assist rate, 25% key actions, 25% efficiency, 20% physical
func (c *Calculator) performanceScore(perf types.PerformanceMetrics) float64 {
	goalAssist := normalize.Clamp((perf.GoalsPerGame+perf.AssistsPerGame)/1.2*100, 0, 100)
	keyActions := normalize.Clamp((perf.KeyPassesPerGame+perf.TacklesPerGame+perf.InterceptionsPerGame)/8*100, 0, 100)
	efficiency := normalize.Clamp((perf.PassAccuracy+perf.ShotAccuracy)/2, 0, 100)
	physical := normalize.Clamp(100-float64(perf.InjuryDaysLast12M)*0.4, 0, 100)

	score := normalize.WeightedSum([]normalize.Term{
		{Value: goalAssist, Weight: 0.30},
		{Value: keyActions, Weight: 0.25},
		{Value: efficiency, Weight: 0.25},
		{Value: physical, Weight: 0.20},
	})

	return normalize.Clamp(score, 0, 100)
}

// ageMultiplier applies the pre-peak premium or the 8%-per-year post-peak
// decline, floored at 0.3
func ageMultiplier(age, peakAge int) float64 {
	if age <= peakAge {
		switch {
		case age <= 21:
			return 1.2
		case age <= 25:
			return 1.1
		default:
			return 1.0
		}
	}

	decline := 1.0 - 0.08*float64(age-peakAge)
	if decline < 0.3 {
		decline = 0.3
	}
	return decline
}

// capsMultiplier tiers the international-caps premium
func capsMultiplier(caps int) float64 {
	switch {
	case caps >= 100:
		return 1.25
	case caps >= 50:
		return 1.15
	case caps >= 20:
		return 1.08
	case caps >= 5:
		return 1.03
	default:
		return 1.0
	}
}

// marketTrendMultiplier maps +/-10% position-market growth to +/-15% value.
// Missing market data is neutral.
func (c *Calculator) marketTrendMultiplier(trend *types.MarketTrend) float64 {
	if trend == nil {
		return 1.0
	}
	return normalize.Clamp(1.0+trend.GrowthRate*1.5, 0.85, 1.15)
}

// supplyDemandMultiplier adjusts for transaction volume: scarce supply raises
// value, a saturated market lowers it
func (c *Calculator) supplyDemandMultiplier(trend *types.MarketTrend) float64 {
	if trend == nil {
		return 1.0
	}
	switch {
	case trend.TransactionVolume < c.config.ScarceVolume:
		return 1.10
	case trend.TransactionVolume > c.config.SaturatedVolume:
		return 0.90
	default:
		return 1.0
	}
}

// trendMultiplier combines recent-form, injury-history and consistency
// adjustments, each a discrete multiplier from fixed bands
func trendMultiplier(perf types.PerformanceMetrics) float64 {
	mult := 1.0

	switch {
	case perf.FormTrend > 0.10:
		mult *= 1.15
	case perf.FormTrend > 0.05:
		mult *= 1.08
	case perf.FormTrend < -0.10:
		mult *= 0.85
	case perf.FormTrend < -0.05:
		mult *= 0.92
	}

	switch {
	case perf.InjuryDaysLast12M > 120:
		mult *= 0.80
	case perf.InjuryDaysLast12M > 60:
		mult *= 0.90
	}

	switch {
	case perf.ConsistencyScore > 0.85:
		mult *= 1.05
	case perf.ConsistencyScore < 0.60:
		mult *= 0.90
	}

	return mult
}

// transferProbability starts at 10% and adds contract, form, age and
// playing-time adjustments, clamped to [0.01, 0.95]
func (c *Calculator) transferProbability(player types.PlayerRef, perf types.PerformanceMetrics) float64 {
	prob := 0.10

	switch {
	case player.ContractMonthsRemaining <= 6:
		prob += 0.40
	case player.ContractMonthsRemaining <= 18:
		prob += 0.20
	case player.ContractMonthsRemaining >= 48:
		prob -= 0.10
	}

	switch {
	case perf.FormTrend < -0.05:
		prob += 0.10 // Clubs move declining players on
	case perf.FormTrend > 0.10:
		prob += 0.05 // Strong form attracts suitors
	}

	switch {
	case player.Age >= 30:
		prob += 0.10
	case player.Age <= 21:
		prob += 0.05
	}

	switch {
	case player.MinutesShare < 0.4:
		prob += 0.15 // Fringe players seek playing time
	case player.MinutesShare > 0.8:
		prob -= 0.05
	}

	return normalize.Clamp(prob, c.config.MinTransferProb, c.config.MaxTransferProb)
}

// valueRatio guards against a zero or missing current contract value
func valueRatio(estimated, current float64) float64 {
	if current <= 0 {
		return 1.0
	}
	return estimated / current
}

// recommend evaluates the decision table in fixed priority order:
// strong buy, buy, sell-overvalued, sell-declining, hold, monitor fallback
func recommend(ratio, probability, formTrend float64) types.Recommendation {
	switch {
	case ratio >= 2.0 && probability >= 0.5:
		return types.RecommendationStrongBuy
	case ratio >= 1.3 && probability >= 0.3:
		return types.RecommendationBuy
	case ratio <= 0.7 && probability >= 0.4:
		return types.RecommendationSell
	case formTrend <= -0.10 && probability >= 0.5:
		return types.RecommendationSell
	case ratio >= 0.9 && ratio <= 1.5 && probability < 0.3:
		return types.RecommendationHold
	default:
		return types.RecommendationMonitor
	}
}

// valueTrendOf labels the value direction from the trend multiplier and form
func valueTrendOf(trendMult, formTrend float64) types.ValueTrend {
	switch {
	case trendMult > 1.02 || formTrend > 0.05:
		return types.ValueTrendRising
	case trendMult < 0.98 || formTrend < -0.05:
		return types.ValueTrendDeclining
	default:
		return types.ValueTrendStable
	}
}

// optimalSellWindow returns a forward-dated sale estimate from the
// (form trend, age band) decision table, or nil when no window applies
func (c *Calculator) optimalSellWindow(player types.PlayerRef, perf types.PerformanceMetrics) *time.Time {
	now := time.Now().UTC()

	var window time.Time
	switch {
	case player.Age >= 30:
		window = now.AddDate(0, 3, 0)
	case perf.FormTrend > 0.05 && player.Age >= 27:
		window = now.AddDate(0, 6, 0)
	case perf.FormTrend < -0.05:
		window = now.AddDate(0, 2, 0)
	default:
		return nil
	}

	return &window
}
