package types

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the ordered risk band derived from a 0-100 risk score
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Rank returns the ordinal position of the level (Low < Medium < High < Critical)
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLevelCritical:
		return 3
	case RiskLevelHigh:
		return 2
	case RiskLevelMedium:
		return 1
	default:
		return 0
	}
}

// InjuryType is one entry of the fixed predicted-injury catalog
type InjuryType string

const (
	InjuryHamstringStrain InjuryType = "Hamstring Strain"
	InjuryACL             InjuryType = "ACL Injury"
	InjuryAnkleSprain     InjuryType = "Ankle Sprain"
	InjuryMuscleFatigue   InjuryType = "Muscle Fatigue"
	InjuryLowerBackStrain InjuryType = "Lower Back Strain"
	InjuryGroinStrain     InjuryType = "Groin Strain"
)

// InjuryRiskAnalysis is the injury analyzer output for a single player
type InjuryRiskAnalysis struct {
	PlayerID            uuid.UUID  `json:"player_id"`
	RiskScore           float64    `json:"risk_score"` // 0-100 inclusive
	RiskLevel           RiskLevel  `json:"risk_level"`
	PredictedInjuryType InjuryType `json:"predicted_injury_type"`
	DaysToRisk          int        `json:"days_to_risk"` // Positive, floored at 1
	RiskFactors         []string   `json:"risk_factors"`
	Recommendation      string     `json:"recommendation"`
	LowConfidence       bool       `json:"low_confidence"` // Set when input windows were empty or thin
	AnalyzedAt          time.Time  `json:"analyzed_at"`
}
