package types

import "time"

// MovementSample is a single video-segment movement analysis. All fields are
// bounded percentages (0-100) produced by the video-analysis collaborator.
type MovementSample struct {
	SegmentID          string    `json:"segment_id"`
	GaitSymmetry       float64   `json:"gait_symmetry"`       // Higher is better
	LandingMechanics   float64   `json:"landing_mechanics"`   // Higher is better
	PosturalStability  float64   `json:"postural_stability"`  // Higher is better
	FatigueIndicator   float64   `json:"fatigue_indicator"`   // Higher is worse
	MovementEfficiency float64   `json:"movement_efficiency"` // Higher is better
	CapturedAt         time.Time `json:"captured_at"`
}

// WorkloadMetrics summarizes a player's training-load time series
type WorkloadMetrics struct {
	AcuteChronicRatio   float64 `json:"acute_chronic_ratio"`   // Acute:chronic training-load ratio
	WeeklyLoadIncrease  float64 `json:"weekly_load_increase"`  // Fractional week-over-week increase
	ConsecutiveHighDays int     `json:"consecutive_high_days"` // Consecutive high-load days
}

// PerformanceMetrics contains per-game rates and form indicators over a rolling window
type PerformanceMetrics struct {
	GoalsPerGame         float64 `json:"goals_per_game"`
	AssistsPerGame       float64 `json:"assists_per_game"`
	KeyPassesPerGame     float64 `json:"key_passes_per_game"`
	TacklesPerGame       float64 `json:"tackles_per_game"`
	InterceptionsPerGame float64 `json:"interceptions_per_game"`
	PassAccuracy         float64 `json:"pass_accuracy"` // 0-100
	ShotAccuracy         float64 `json:"shot_accuracy"` // 0-100
	FormTrend            float64 `json:"form_trend"`    // Signed fraction, negative = declining
	ConsistencyScore     float64 `json:"consistency_score"` // 0-1
	InjuryDaysLast12M    int     `json:"injury_days_last_12m"`
	MatchesPlayed        int     `json:"matches_played"`
}

// MatchHistoryRecord is one entry of a player's rolling match log
type MatchHistoryRecord struct {
	MatchID       string    `json:"match_id"`
	Goals         int       `json:"goals"`
	Assists       int       `json:"assists"`
	MinutesPlayed int       `json:"minutes_played"`
	Rating        float64   `json:"rating"` // 0-100 post-match rating
	PlayedAt      time.Time `json:"played_at"`
}
