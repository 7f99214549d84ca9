package types

import (
	"time"

	"github.com/google/uuid"
)

// MatchSnapshot identifies a live match and its current state header
type MatchSnapshot struct {
	MatchID       string    `json:"match_id"`
	HomeTeamID    string    `json:"home_team_id"`
	AwayTeamID    string    `json:"away_team_id"`
	HomeTeamName  string    `json:"home_team_name"`
	AwayTeamName  string    `json:"away_team_name"`
	CurrentMinute int       `json:"current_minute"`
	HomeScore     int       `json:"home_score"`
	AwayScore     int       `json:"away_score"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LivePlayerState holds a player's in-match counters plus video-derived signals
type LivePlayerState struct {
	PlayerID            uuid.UUID `json:"player_id"`
	Name                string    `json:"name"`
	Position            Position  `json:"position"`
	TeamID              string    `json:"team_id"`
	MinutesPlayed       int       `json:"minutes_played"`
	Goals               int       `json:"goals"`
	Assists             int       `json:"assists"`
	Shots               int       `json:"shots"`
	ShotsOnTarget       int       `json:"shots_on_target"`
	TouchesInBox        int       `json:"touches_in_box"`
	KeyPasses           int       `json:"key_passes"`
	PassesCompleted     int       `json:"passes_completed"`
	PassesAttempted     int       `json:"passes_attempted"`
	Tackles             int       `json:"tackles"`
	Interceptions       int       `json:"interceptions"`
	Fouls               int       `json:"fouls"`
	YellowCards         int       `json:"yellow_cards"`
	RedCards            int       `json:"red_cards"`
	Fatigue             float64   `json:"fatigue"`              // 0-100, higher is more fatigued
	PositionalAwareness float64   `json:"positional_awareness"` // 0-100, video derived
	WorkRate            float64   `json:"work_rate"`            // 0-100, video derived
}

// LiveTeamStats holds team-level in-match telemetry
type LiveTeamStats struct {
	TeamID                 string  `json:"team_id"`
	Possession             float64 `json:"possession"` // 0-100
	Shots                  int     `json:"shots"`
	ShotsOnTarget          int     `json:"shots_on_target"`
	Corners                int     `json:"corners"`
	FoulsCommitted         int     `json:"fouls_committed"`
	PassAccuracy           float64 `json:"pass_accuracy"` // 0-100
	ShotsLast15            int     `json:"shots_last_15"` // Shots in the last 15 minutes
	CornersLast15          int     `json:"corners_last_15"`
	DangerousAttacksLast15 int     `json:"dangerous_attacks_last_15"`
}

// LiveMatchState is the full roster-level snapshot consumed by the live engine
type LiveMatchState struct {
	Snapshot MatchSnapshot     `json:"snapshot"`
	Players  []LivePlayerState `json:"players"`
}

// LiveBettingData is the per-player live probability output
type LiveBettingData struct {
	PlayerID                uuid.UUID `json:"player_id"`
	MatchID                 string    `json:"match_id"`
	NextGoalProbability     float64   `json:"next_goal_probability"`
	MatchGoalProbability    float64   `json:"match_goal_probability"`
	HatTrickProbability     float64   `json:"hat_trick_probability"`
	YellowCardProbability   float64   `json:"yellow_card_probability"`
	RedCardProbability      float64   `json:"red_card_probability"`
	AssistProbability       float64   `json:"assist_probability"`
	CleanSheetProbability   float64   `json:"clean_sheet_probability"`
	ManOfMatchProbability   float64   `json:"man_of_match_probability"`
	FantasyPointProjection  float64   `json:"fantasy_point_projection"`  // Floored at 0
	CurrentPerformanceScore float64   `json:"current_performance_score"` // 0-100
	FormRating              string    `json:"form_rating"`
	CalculatedAt            time.Time `json:"calculated_at"`
}

// MatchPredictions is the match-level live output. HomeWin + Draw + AwayWin
// always sum to 1 after normalization.
type MatchPredictions struct {
	MatchID               string    `json:"match_id"`
	HomeWinProbability    float64   `json:"home_win_probability"`
	DrawProbability       float64   `json:"draw_probability"`
	AwayWinProbability    float64   `json:"away_win_probability"`
	Over25Probability     float64   `json:"over_25_probability"`
	BTTSProbability       float64   `json:"btts_probability"`
	MomentumScore         float64   `json:"momentum_score"` // -100 (away) to +100 (home)
	GameState             string    `json:"game_state"`
	GoalNext15Probability float64   `json:"goal_next_15_probability"`
	RedCardProbability    float64   `json:"red_card_probability"`
	PenaltyProbability    float64   `json:"penalty_probability"`
	CalculatedAt          time.Time `json:"calculated_at"`
}
