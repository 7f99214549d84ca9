// Package injury implements the injury risk analyzer: movement, workload and
// performance inputs in, a 0-100 risk score with band, predicted injury type,
// days-to-risk and recommendations out.
package injury

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/internal/normalize"
	"github.com/scoutsight/intel-engine/pkg/types"
)

// Analyzer computes injury risk for a single player from pre-fetched inputs
type Analyzer struct {
	logger *logrus.Logger
	config *Config
}

// Config contains the analyzer's scoring parameters
type Config struct {
	MovementTermWeight   float64 `json:"movement_term_weight"`   // Weight per movement term
	MovementTermCap      float64 `json:"movement_term_cap"`      // Max contribution per movement term
	AcuteChronicLimit    float64 `json:"acute_chronic_limit"`    // ACR above this adds workload risk
	WeeklyIncreaseLimit  float64 `json:"weekly_increase_limit"`  // Weekly load increase fraction limit
	ConsecutiveDaysLimit int     `json:"consecutive_days_limit"` // Consecutive high-load day limit
	DeclineLimit         float64 `json:"decline_limit"`          // Form decline fraction limit
	ConsistencyFloor     float64 `json:"consistency_floor"`      // Consistency below this adds risk
	HistoricalOffset     float64 `json:"historical_offset"`      // Constant historical-risk contribution
}

// Inputs is the assembled per-player input struct. It is built once per
// request by the caller so the scoring itself performs no I/O.
type Inputs struct {
	Movement    []types.MovementSample
	Workload    types.WorkloadMetrics
	Performance types.PerformanceMetrics
}

// movementAverages holds window averages across the movement samples
type movementAverages struct {
	gait    float64
	landing float64
	posture float64
	fatigue float64
	empty   bool
}

// injuryCatalog fixes the candidate order; ties break toward the earlier entry
var injuryCatalog = []types.InjuryType{
	types.InjuryHamstringStrain,
	types.InjuryACL,
	types.InjuryAnkleSprain,
	types.InjuryMuscleFatigue,
	types.InjuryLowerBackStrain,
	types.InjuryGroinStrain,
}

// NewAnalyzer creates an injury risk analyzer with default scoring parameters
func NewAnalyzer(logger *logrus.Logger) *Analyzer {
	config := &Config{
		MovementTermWeight:   0.10,
		MovementTermCap:      10.0,
		AcuteChronicLimit:    1.5,
		WeeklyIncreaseLimit:  0.10,
		ConsecutiveDaysLimit: 3,
		DeclineLimit:         0.05,
		ConsistencyFloor:     0.8,
		HistoricalOffset:     5.0,
	}

	return &Analyzer{
		logger: logger,
		config: config,
	}
}

// Analyze produces a full injury risk analysis for the player. Empty input
// windows contribute neutrally and flag the result as low confidence.
func (a *Analyzer) Analyze(playerID uuid.UUID, in Inputs) types.InjuryRiskAnalysis {
	avg := a.movementAverages(in.Movement)

	score := 0.0
	factors := make([]string, 0)

	// Movement terms: 100-average for the higher-is-better metrics, raw
	// average for fatigue, each weighted and capped.
	if !avg.empty {
		score += a.movementTerm(100 - avg.gait)
		score += a.movementTerm(100 - avg.landing)
		score += a.movementTerm(100 - avg.posture)
		score += a.movementTerm(avg.fatigue)

		if avg.gait < 75 {
			factors = append(factors, "Gait asymmetry")
		}
		if avg.landing < 70 {
			factors = append(factors, "Poor landing mechanics")
		}
		if avg.posture < 70 {
			factors = append(factors, "Postural instability")
		}
		if avg.fatigue > 70 {
			factors = append(factors, "High fatigue indicator")
		}
	}

	// Workload terms
	if in.Workload.AcuteChronicRatio > a.config.AcuteChronicLimit {
		score += 20
		factors = append(factors, "Elevated acute:chronic workload ratio")
	}
	if in.Workload.WeeklyLoadIncrease > a.config.WeeklyIncreaseLimit {
		score += 15
		factors = append(factors, "Rapid weekly load increase")
	}
	if in.Workload.ConsecutiveHighDays > a.config.ConsecutiveDaysLimit {
		score += 10
		factors = append(factors, "Consecutive high-load days")
	}

	// Performance degradation terms; an empty performance window is
	// score-neutral rather than reading as maximally inconsistent
	if in.Performance.MatchesPlayed > 0 {
		if in.Performance.FormTrend < -a.config.DeclineLimit {
			score += 15
			factors = append(factors, "Declining performance trend")
		}
		if in.Performance.ConsistencyScore < a.config.ConsistencyFloor {
			score += 10
			factors = append(factors, "Low consistency score")
		}
	}

	// Historical-risk constant contribution
	score += a.config.HistoricalOffset

	score = normalize.Clamp(score, 0, 100)
	level := riskLevelOf(score)
	injuryType := a.predictInjuryType(avg, in, factors)
	daysToRisk := a.estimateDaysToRisk(score, avg, in)

	analysis := types.InjuryRiskAnalysis{
		PlayerID:            playerID,
		RiskScore:           score,
		RiskLevel:           level,
		PredictedInjuryType: injuryType,
		DaysToRisk:          daysToRisk,
		RiskFactors:         factors,
		Recommendation:      a.buildRecommendation(level, factors, injuryType),
		LowConfidence:       avg.empty || in.Performance.MatchesPlayed == 0,
		AnalyzedAt:          time.Now().UTC(),
	}

	a.logger.WithFields(logrus.Fields{
		"player_id":    playerID,
		"risk_score":   score,
		"risk_level":   level,
		"injury_type":  injuryType,
		"days_to_risk": daysToRisk,
	}).Debug("Injury risk analysis complete")

	return analysis
}

// movementTerm weights a single movement deficit and caps its contribution
func (a *Analyzer) movementTerm(deficit float64) float64 {
	term := normalize.Clamp(deficit, 0, 100) * a.config.MovementTermWeight
	if term > a.config.MovementTermCap {
		term = a.config.MovementTermCap
	}
	return term
}

// movementAverages computes window averages; an empty window is score-neutral
func (a *Analyzer) movementAverages(samples []types.MovementSample) movementAverages {
	if len(samples) == 0 {
		return movementAverages{empty: true}
	}

	gait := make([]float64, 0, len(samples))
	landing := make([]float64, 0, len(samples))
	posture := make([]float64, 0, len(samples))
	fatigue := make([]float64, 0, len(samples))
	for _, s := range samples {
		gait = append(gait, s.GaitSymmetry)
		landing = append(landing, s.LandingMechanics)
		posture = append(posture, s.PosturalStability)
		fatigue = append(fatigue, s.FatigueIndicator)
	}

	return movementAverages{
		gait:    normalize.Mean(gait),
		landing: normalize.Mean(landing),
		posture: normalize.Mean(posture),
		fatigue: normalize.Mean(fatigue),
	}
}

// riskLevelOf maps a risk score to its band via the fixed thresholds
func riskLevelOf(score float64) types.RiskLevel {
	switch {
	case score >= 80:
		return types.RiskLevelCritical
	case score >= 60:
		return types.RiskLevelHigh
	case score >= 40:
		return types.RiskLevelMedium
	default:
		return types.RiskLevelLow
	}
}

// predictInjuryType scores the fixed injury catalog; each deficiency adds
// weighted points to its candidate types and the highest total wins, ties
// broken by catalog order.
func (a *Analyzer) predictInjuryType(avg movementAverages, in Inputs, factors []string) types.InjuryType {
	points := make(map[types.InjuryType]float64, len(injuryCatalog))

	if !avg.empty {
		if avg.gait < 75 {
			points[types.InjuryHamstringStrain] += 3
			points[types.InjuryGroinStrain] += 2
		}
		if avg.landing < 70 {
			points[types.InjuryACL] += 4
			points[types.InjuryAnkleSprain] += 3
		}
		if avg.posture < 70 {
			points[types.InjuryLowerBackStrain] += 3
		}
		if avg.fatigue > 70 {
			points[types.InjuryMuscleFatigue] += 4
		}
	}

	if in.Workload.AcuteChronicRatio > a.config.AcuteChronicLimit {
		points[types.InjuryHamstringStrain] += 3
		points[types.InjuryMuscleFatigue] += 2
	}
	if in.Workload.WeeklyLoadIncrease > a.config.WeeklyIncreaseLimit {
		points[types.InjuryMuscleFatigue] += 2
	}
	if in.Workload.ConsecutiveHighDays > a.config.ConsecutiveDaysLimit {
		points[types.InjuryMuscleFatigue] += 3
		points[types.InjuryHamstringStrain] += 2
	}
	if in.Performance.FormTrend < -a.config.DeclineLimit {
		points[types.InjuryMuscleFatigue] += 1
	}

	best := injuryCatalog[0]
	bestPoints := points[best]
	for _, candidate := range injuryCatalog[1:] {
		if points[candidate] > bestPoints {
			best = candidate
			bestPoints = points[candidate]
		}
	}
	return best
}

// estimateDaysToRisk converts the score band to a base horizon and shortens
// it for specific aggravating factors, floored at 1 day.
func (a *Analyzer) estimateDaysToRisk(score float64, avg movementAverages, in Inputs) int {
	var days int
	switch {
	case score >= 80:
		days = 3
	case score >= 60:
		days = 7
	case score >= 40:
		days = 14
	default:
		days = 30
	}

	if in.Workload.AcuteChronicRatio > a.config.AcuteChronicLimit {
		days -= 2
	}
	if !avg.empty && avg.fatigue > 70 {
		days -= 2
	}
	if in.Workload.ConsecutiveHighDays > a.config.ConsecutiveDaysLimit {
		days--
	}

	if days < 1 {
		days = 1
	}
	return days
}

// buildRecommendation assembles band-level guidance plus factor- and
// injury-type-specific advice into a single delimited string.
func (a *Analyzer) buildRecommendation(level types.RiskLevel, factors []string, injuryType types.InjuryType) string {
	parts := make([]string, 0, 4)

	switch level {
	case types.RiskLevelCritical:
		parts = append(parts, "Immediate rest recommended, withdraw from next match")
	case types.RiskLevelHigh:
		parts = append(parts, "Reduce training intensity and limit match minutes")
	case types.RiskLevelMedium:
		parts = append(parts, "Monitor closely and schedule a recovery session")
	default:
		parts = append(parts, "Maintain current training program")
	}

	for _, f := range factors {
		switch f {
		case "Elevated acute:chronic workload ratio":
			parts = append(parts, "Taper acute training load toward the chronic baseline")
		case "Rapid weekly load increase":
			parts = append(parts, "Cap week-over-week load increases at 10%")
		case "Consecutive high-load days":
			parts = append(parts, "Insert a low-load recovery day")
		case "High fatigue indicator":
			parts = append(parts, "Prioritize sleep and recovery protocols")
		}
	}

	switch injuryType {
	case types.InjuryHamstringStrain:
		parts = append(parts, "Add eccentric hamstring strengthening")
	case types.InjuryACL:
		parts = append(parts, "Review landing technique with conditioning staff")
	case types.InjuryAnkleSprain:
		parts = append(parts, "Add proprioceptive ankle stability work")
	case types.InjuryLowerBackStrain:
		parts = append(parts, "Add core stability and mobility work")
	case types.InjuryGroinStrain:
		parts = append(parts, "Add adductor strengthening exercises")
	case types.InjuryMuscleFatigue:
		parts = append(parts, "Schedule additional recovery between sessions")
	}

	return strings.Join(parts, "; ")
}
