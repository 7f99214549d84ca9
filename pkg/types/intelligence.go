package types

import (
	"time"

	"github.com/google/uuid"
)

// PlayerIntelligence is the combined per-player report produced by the aggregator.
// It is transient: built per request, never persisted by the engine.
type PlayerIntelligence struct {
	Player    PlayerRef           `json:"player"`
	Injury    *InjuryRiskAnalysis `json:"injury,omitempty"`
	Valuation *TransferValuation  `json:"valuation,omitempty"`
	Live      *LiveBettingData    `json:"live,omitempty"`
	Insights  []string            `json:"insights"`
	BuiltAt   time.Time           `json:"built_at"`
}

// InjuryAlert is one row of a club-level injury alert listing
type InjuryAlert struct {
	PlayerID   uuid.UUID `json:"player_id"`
	PlayerName string    `json:"player_name"`
	RiskScore  float64   `json:"risk_score"`
	RiskLevel  RiskLevel `json:"risk_level"`
	DaysToRisk int       `json:"days_to_risk"`
}

// MarketOpportunity is one row of a market-opportunity scan, sorted by value ratio
type MarketOpportunity struct {
	Player         PlayerRef      `json:"player"`
	EstimatedValue float64        `json:"estimated_value"`
	ValueRatio     float64        `json:"value_ratio"` // Estimated / current
	Recommendation Recommendation `json:"recommendation"`
}

// ClubDashboard is the club-wide composite returned by the intelligence service
type ClubDashboard struct {
	ClubID       string               `json:"club_id"`
	Players      []PlayerIntelligence `json:"players"`
	InjuryAlerts []InjuryAlert        `json:"injury_alerts"`
	GeneratedAt  time.Time            `json:"generated_at"`
}
