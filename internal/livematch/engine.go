// Package livematch implements the live match probability engine: per-player
// event probabilities, fantasy projections and match-level outcome predictions
// that update as a match progresses.
package livematch

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/internal/normalize"
	"github.com/scoutsight/intel-engine/pkg/types"
)

const matchLengthMinutes = 90

// Engine computes live probabilities from pre-fetched match telemetry
type Engine struct {
	logger *logrus.Logger
	config *Config
}

// Config bounds every per-player probability to its calculator-specific range
type Config struct {
	NextGoalMin   float64 `json:"next_goal_min"`
	NextGoalMax   float64 `json:"next_goal_max"`
	HatTrickMax   float64 `json:"hat_trick_max"`
	YellowMin     float64 `json:"yellow_min"`
	YellowMax     float64 `json:"yellow_max"`
	RedMin        float64 `json:"red_min"`
	RedMax        float64 `json:"red_max"`
	AssistMin     float64 `json:"assist_min"`
	AssistMax     float64 `json:"assist_max"`
	ManOfMatchMin float64 `json:"man_of_match_min"`
	ManOfMatchMax float64 `json:"man_of_match_max"`
}

// NewEngine creates a live match probability engine with default bounds
func NewEngine(logger *logrus.Logger) *Engine {
	config := &Config{
		NextGoalMin:   0.01,
		NextGoalMax:   0.60,
		HatTrickMax:   0.30,
		YellowMin:     0.01,
		YellowMax:     0.70,
		RedMin:        0.005,
		RedMax:        0.25,
		AssistMin:     0.01,
		AssistMax:     0.50,
		ManOfMatchMin: 0.01,
		ManOfMatchMax: 0.60,
	}

	return &Engine{
		logger: logger,
		config: config,
	}
}

// PlayerProbabilities computes the full per-player live output. History is the
// player's rolling match log (last 10 matches by default); an empty history
// falls back to position baselines rather than failing.
func (e *Engine) PlayerProbabilities(player types.LivePlayerState, snapshot types.MatchSnapshot, history []types.MatchHistoryRecord) types.LiveBettingData {
	nextGoal := e.nextGoalProbability(player, snapshot, history)
	perfScore := e.performanceScore(player)

	data := types.LiveBettingData{
		PlayerID:                player.PlayerID,
		MatchID:                 snapshot.MatchID,
		NextGoalProbability:     nextGoal,
		MatchGoalProbability:    e.matchGoalProbability(player, snapshot, nextGoal),
		HatTrickProbability:     e.hatTrickProbability(player, nextGoal),
		YellowCardProbability:   e.yellowCardProbability(player),
		RedCardProbability:      e.redCardProbability(player),
		AssistProbability:       e.assistProbability(player, snapshot),
		CleanSheetProbability:   e.cleanSheetProbability(player, snapshot),
		ManOfMatchProbability:   e.manOfMatchProbability(player, perfScore),
		CurrentPerformanceScore: perfScore,
		FormRating:              e.formRating(perfScore, history),
		CalculatedAt:            time.Now().UTC(),
	}
	data.FantasyPointProjection = e.fantasyProjection(player, data)

	return data
}

// nextGoalProbability combines the position baseline, historical scoring rate,
// current-match boosts, fatigue penalty and time-window boosts
func (e *Engine) nextGoalProbability(player types.LivePlayerState, snapshot types.MatchSnapshot, history []types.MatchHistoryRecord) float64 {
	prob := positionGoalBase(player.Position)

	// Historical scoring rate scales the baseline
	histRate := historicalGoalRate(history)
	prob *= 0.8 + normalize.Clamp(histRate, 0, 1.0)*0.5

	// Current-match performance boosts
	switch {
	case player.ShotsOnTarget >= 2:
		prob *= 1.3
	case player.ShotsOnTarget >= 1:
		prob *= 1.15
	}
	if player.TouchesInBox >= 5 {
		prob *= 1.2
	}

	// Fatigue penalty
	if player.Fatigue > 80 {
		prob *= 0.8
	}

	// Time-window boosts: early pressure and late-game openness
	switch {
	case snapshot.CurrentMinute >= 75:
		prob *= 1.15
	case snapshot.CurrentMinute <= 15:
		prob *= 1.05
	}

	return normalize.Clamp(prob, e.config.NextGoalMin, e.config.NextGoalMax)
}

// matchGoalProbability applies the geometric no-goal-in-any-segment model:
// 1 - (1 - nextGoal)^segments over 10-minute segments. A player who has
// already scored is certain to have a match goal.
func (e *Engine) matchGoalProbability(player types.LivePlayerState, snapshot types.MatchSnapshot, nextGoal float64) float64 {
	if player.Goals >= 1 {
		return 1.0
	}

	remaining := matchLengthMinutes - snapshot.CurrentMinute
	if remaining < 0 {
		remaining = 0
	}
	segments := remaining / 10
	if segments < 1 {
		segments = 1
	}

	prob := 1 - math.Pow(1-nextGoal, float64(segments))
	return normalize.Clamp(prob, 0, 1)
}

// hatTrickProbability is deterministically 0 below two in-match goals
func (e *Engine) hatTrickProbability(player types.LivePlayerState, nextGoal float64) float64 {
	if player.Goals < 2 {
		return 0
	}
	return normalize.Clamp(nextGoal*0.6, e.config.NextGoalMin, e.config.HatTrickMax)
}

func (e *Engine) yellowCardProbability(player types.LivePlayerState) float64 {
	if player.YellowCards >= 1 || player.RedCards >= 1 {
		// Already booked; probability models the booking existing, not a second
		return e.config.YellowMax
	}

	prob := 0.12 + float64(player.Fouls)*0.06
	if player.Position.IsDefensive() {
		prob += 0.05
	}
	return normalize.Clamp(prob, e.config.YellowMin, e.config.YellowMax)
}

func (e *Engine) redCardProbability(player types.LivePlayerState) float64 {
	if player.RedCards >= 1 {
		return e.config.RedMax
	}

	prob := 0.02 + float64(player.Fouls)*0.01
	if player.YellowCards >= 1 {
		prob += 0.05
	}
	return normalize.Clamp(prob, e.config.RedMin, e.config.RedMax)
}

func (e *Engine) assistProbability(player types.LivePlayerState, snapshot types.MatchSnapshot) float64 {
	prob := positionAssistBase(player.Position)

	if player.KeyPasses >= 3 {
		prob *= 1.4
	} else if player.KeyPasses >= 1 {
		prob *= 1.15
	}
	if snapshot.CurrentMinute >= 75 {
		prob *= 1.1
	}

	return normalize.Clamp(prob, e.config.AssistMin, e.config.AssistMax)
}

// cleanSheetProbability only applies to defensive positions; it decays with
// remaining minutes and collapses to 0 once the player's team has conceded
func (e *Engine) cleanSheetProbability(player types.LivePlayerState, snapshot types.MatchSnapshot) float64 {
	if !player.Position.IsDefensive() {
		return 0
	}

	conceded := snapshot.AwayScore
	if player.TeamID == snapshot.AwayTeamID {
		conceded = snapshot.HomeScore
	}
	if conceded > 0 {
		return 0
	}

	remaining := matchLengthMinutes - snapshot.CurrentMinute
	if remaining < 0 {
		remaining = 0
	}
	prob := 0.75 - float64(remaining)*0.005
	return normalize.Clamp(prob, 0.05, 0.95)
}

func (e *Engine) manOfMatchProbability(player types.LivePlayerState, perfScore float64) float64 {
	prob := perfScore/100*0.4 + float64(player.Goals)*0.15
	return normalize.Clamp(prob, e.config.ManOfMatchMin, e.config.ManOfMatchMax)
}

// performanceScore is base 50 plus weighted positive terms, minus negative
// terms, plus video-derived adjustments, clamped to [0,100]
func (e *Engine) performanceScore(player types.LivePlayerState) float64 {
	score := 50.0

	score += float64(player.Goals) * 15
	score += float64(player.Assists) * 10
	score += float64(player.KeyPasses) * 2
	score += float64(player.ShotsOnTarget) * 3
	score += float64(player.Tackles+player.Interceptions) * 1.5

	// Pass accuracy bonus above 70%, penalty below; neutral with a thin sample
	if player.PassesAttempted >= 10 {
		accuracy := float64(player.PassesCompleted) / float64(player.PassesAttempted) * 100
		if accuracy > 70 {
			score += (accuracy - 70) * 0.3
		} else {
			score -= (70 - accuracy) * 0.4
		}
	}

	score -= float64(player.Fouls) * 2
	score -= float64(player.YellowCards) * 5
	score -= float64(player.RedCards) * 15

	// Video-derived adjustments
	score += (player.PositionalAwareness - 50) * 0.1
	score += (player.WorkRate - 50) * 0.1
	if player.Fatigue > 70 {
		score -= (player.Fatigue - 70) * 0.3
	}

	return normalize.Clamp(score, 0, 100)
}

// fantasyProjection is base 2 plus position-weighted event points, floored at 0
func (e *Engine) fantasyProjection(player types.LivePlayerState, data types.LiveBettingData) float64 {
	points := 2.0

	points += data.MatchGoalProbability * positionGoalPoints(player.Position)
	points += data.AssistProbability * 3
	if player.Position.IsDefensive() {
		points += data.CleanSheetProbability * 4
	}
	if player.MinutesPlayed >= 60 {
		points += 1
	}

	points -= data.YellowCardProbability * 1
	points -= data.RedCardProbability * 3

	if points < 0 {
		points = 0
	}
	return points
}

// formRating blends the rolling history rating with the current performance
func (e *Engine) formRating(perfScore float64, history []types.MatchHistoryRecord) string {
	blended := perfScore
	if len(history) > 0 {
		ratings := make([]float64, 0, len(history))
		for _, h := range history {
			ratings = append(ratings, h.Rating)
		}
		blended = normalize.Mean(ratings)*0.6 + perfScore*0.4
	}

	return normalize.BandOf(blended, []normalize.Band{
		{Min: 80, Label: "Excellent"},
		{Min: 65, Label: "Good"},
		{Min: 50, Label: "Average"},
	}, "Poor")
}

// positionGoalBase is the per-position next-goal baseline
func positionGoalBase(pos types.Position) float64 {
	switch pos {
	case types.PositionStriker:
		return 0.25
	case types.PositionWinger:
		return 0.18
	case types.PositionAttackingMid:
		return 0.15
	case types.PositionCentralMid:
		return 0.08
	case types.PositionDefensiveMid:
		return 0.05
	case types.PositionFullBack:
		return 0.04
	case types.PositionCenterBack:
		return 0.04
	case types.PositionGoalkeeper:
		return 0.005
	default:
		return 0.08
	}
}

// positionAssistBase is the per-position assist baseline
func positionAssistBase(pos types.Position) float64 {
	switch pos {
	case types.PositionAttackingMid:
		return 0.20
	case types.PositionWinger:
		return 0.18
	case types.PositionStriker:
		return 0.12
	case types.PositionCentralMid:
		return 0.12
	case types.PositionFullBack:
		return 0.08
	case types.PositionDefensiveMid:
		return 0.06
	case types.PositionCenterBack:
		return 0.03
	case types.PositionGoalkeeper:
		return 0.01
	default:
		return 0.08
	}
}

// positionGoalPoints is the fantasy value of a goal per position
func positionGoalPoints(pos types.Position) float64 {
	switch {
	case pos == types.PositionGoalkeeper || pos == types.PositionCenterBack || pos == types.PositionFullBack:
		return 6
	case pos == types.PositionDefensiveMid || pos == types.PositionCentralMid || pos == types.PositionAttackingMid:
		return 5
	default:
		return 4
	}
}

// historicalGoalRate is the player's goals-per-match over the history window,
// 0 for an empty window
func historicalGoalRate(history []types.MatchHistoryRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	goals := 0
	for _, h := range history {
		goals += h.Goals
	}
	return float64(goals) / float64(len(history))
}
