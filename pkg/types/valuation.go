package types

import (
	"time"

	"github.com/google/uuid"
)

// ValueTrend labels the direction of a player's market value
type ValueTrend string

const (
	ValueTrendRising    ValueTrend = "Rising"
	ValueTrendStable    ValueTrend = "Stable"
	ValueTrendDeclining ValueTrend = "Declining"
)

// Recommendation is the fixed transfer-recommendation vocabulary
type Recommendation string

const (
	RecommendationStrongBuy Recommendation = "STRONG BUY"
	RecommendationBuy       Recommendation = "BUY"
	RecommendationSell      Recommendation = "SELL"
	RecommendationHold      Recommendation = "HOLD"
	RecommendationMonitor   Recommendation = "MONITOR"
)

// Priority orders recommendations for dashboard sorting (higher = more actionable)
func (r Recommendation) Priority() int {
	switch r {
	case RecommendationStrongBuy:
		return 4
	case RecommendationBuy:
		return 3
	case RecommendationSell:
		return 2
	case RecommendationHold:
		return 1
	default:
		return 0
	}
}

// TransferRecord is a raw historical transfer supplied by the market-data service
type TransferRecord struct {
	PlayerName string    `json:"player_name"`
	Position   Position  `json:"position"`
	Age        int       `json:"age"`
	League     League    `json:"league"`
	Fee        float64   `json:"fee"` // Base currency
	Date       time.Time `json:"date"`
}

// ComparableTransfer is a historical transfer scored for similarity to the subject player
type ComparableTransfer struct {
	PlayerName string    `json:"player_name"`
	Fee        float64   `json:"fee"`
	Date       time.Time `json:"date"`
	Similarity float64   `json:"similarity"` // 0-1
}

// MarketTrend is the position-market growth signal from the market-data service
type MarketTrend struct {
	Position          Position `json:"position"`
	GrowthRate        float64  `json:"growth_rate"` // Signed fraction, e.g. 0.10 = 10% growth
	TransactionVolume int      `json:"transaction_volume"`
}

// TransferValuation is the valuation calculator output for a single player
type TransferValuation struct {
	PlayerID            uuid.UUID            `json:"player_id"`
	EstimatedValue      float64              `json:"estimated_value"` // Base currency, floored
	CurrentValue        float64              `json:"current_value"`
	PotentialProfit     float64              `json:"potential_profit"` // Estimated - current, may be negative
	ValueTrend          ValueTrend           `json:"value_trend"`
	TransferProbability float64              `json:"transfer_probability"` // 0.01-0.95
	Recommendation      Recommendation       `json:"recommendation"`
	ValueDrivers        []string             `json:"value_drivers"`
	Comparables         []ComparableTransfer `json:"comparables"`
	OptimalSellWindow   *time.Time           `json:"optimal_sell_window,omitempty"`
	CalculatedAt        time.Time            `json:"calculated_at"`
}
