package livematch

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/internal/normalize"
	"github.com/scoutsight/intel-engine/pkg/types"
)

// MatchOutcome computes the match-level predictions. The three outcome
// probabilities are renormalized to sum to exactly 1 before being returned;
// that normalization is the primary correctness property of this engine.
func (e *Engine) MatchOutcome(snapshot types.MatchSnapshot, home, away types.LiveTeamStats) types.MatchPredictions {
	homeWin, draw, awayWin := e.outcomeProbabilities(snapshot, home, away)

	homeMomentum := TeamMomentum(home)
	awayMomentum := TeamMomentum(away)
	momentum := MomentumScore(homeMomentum, awayMomentum)

	predictions := types.MatchPredictions{
		MatchID:               snapshot.MatchID,
		HomeWinProbability:    homeWin,
		DrawProbability:       draw,
		AwayWinProbability:    awayWin,
		Over25Probability:     e.over25Probability(snapshot, home, away),
		BTTSProbability:       e.bttsProbability(snapshot, home, away),
		MomentumScore:         momentum,
		GameState:             GameStateOf(momentum),
		GoalNext15Probability: e.goalNext15Probability(snapshot, home, away),
		RedCardProbability:    e.matchRedCardProbability(home, away),
		PenaltyProbability:    e.penaltyProbability(snapshot, home, away),
		CalculatedAt:          time.Now().UTC(),
	}

	e.logger.WithFields(logrus.Fields{
		"match_id":   snapshot.MatchID,
		"minute":     snapshot.CurrentMinute,
		"home_win":   homeWin,
		"draw":       draw,
		"away_win":   awayWin,
		"momentum":   momentum,
		"game_state": predictions.GameState,
	}).Debug("Match predictions updated")

	return predictions
}

// outcomeProbabilities derives raw home/draw/away shares from team strength,
// the score differential and the match clock, then normalizes to sum to 1
func (e *Engine) outcomeProbabilities(snapshot types.MatchSnapshot, home, away types.LiveTeamStats) (float64, float64, float64) {
	homeStrength := TeamStrength(home)
	awayStrength := TeamStrength(away)

	// Degenerate case: no recorded telemetry from either side
	strengthShare := 0.5
	if homeStrength+awayStrength > 0 {
		strengthShare = homeStrength / (homeStrength + awayStrength)
	}

	homeRaw := strengthShare * 0.70
	awayRaw := (1 - strengthShare) * 0.70
	drawRaw := 0.30

	// Score-differential adjustment: the leading side absorbs share
	diff := snapshot.HomeScore - snapshot.AwayScore
	shift := normalize.Clamp(float64(diff)*0.15, -0.45, 0.45)
	homeRaw += shift
	awayRaw -= shift
	drawRaw -= math.Abs(float64(diff)) * 0.08

	// Late-game adjustment: a held lead, or a held draw, hardens
	if snapshot.CurrentMinute >= 80 {
		if diff > 0 {
			homeRaw *= 1.3
		} else if diff < 0 {
			awayRaw *= 1.3
		} else {
			drawRaw *= 1.5
		}
	}

	homeRaw = normalize.Clamp(homeRaw, 0.01, 10)
	drawRaw = normalize.Clamp(drawRaw, 0.01, 10)
	awayRaw = normalize.Clamp(awayRaw, 0.01, 10)

	// Mandatory renormalization so the three sum to exactly 1
	total := homeRaw + drawRaw + awayRaw
	return homeRaw / total, drawRaw / total, awayRaw / total
}

// TeamStrength scores a team's in-match telemetry. A team with zero recorded
// shots and possession scores 0 rather than producing an undefined ratio.
func TeamStrength(stats types.LiveTeamStats) float64 {
	return stats.Possession*0.3 +
		float64(stats.ShotsOnTarget)*2 +
		float64(stats.Shots)*0.5 +
		float64(stats.Corners)*0.5 +
		stats.PassAccuracy*0.2
}

// TeamMomentum is the near-term attacking composite over the last 15 minutes
func TeamMomentum(stats types.LiveTeamStats) float64 {
	return float64(stats.ShotsLast15)*3 +
		float64(stats.CornersLast15)*2 +
		float64(stats.DangerousAttacksLast15)*1.5
}

// MomentumScore is (home-away)/(home+away)*100 clamped to [-100,100].
// Both momenta zero yields 0, never a division by zero.
func MomentumScore(homeMomentum, awayMomentum float64) float64 {
	score := normalize.SafeRatio(homeMomentum-awayMomentum, homeMomentum+awayMomentum) * 100
	return normalize.Clamp(score, -100, 100)
}

// GameStateOf bands |momentum|: >=60 Dominant, >=30 Pressing, else Balanced,
// with the sign naming the side
func GameStateOf(momentum float64) string {
	side := "Home"
	if momentum < 0 {
		side = "Away"
	}

	switch {
	case math.Abs(momentum) >= 60:
		return side + " Dominant"
	case math.Abs(momentum) >= 30:
		return side + " Pressing"
	default:
		return "Balanced"
	}
}

// over25Probability estimates the over-2.5-goals market from the current
// total, remaining time and combined attacking intensity
func (e *Engine) over25Probability(snapshot types.MatchSnapshot, home, away types.LiveTeamStats) float64 {
	totalGoals := snapshot.HomeScore + snapshot.AwayScore
	if totalGoals >= 3 {
		return 1.0
	}

	remaining := float64(matchLengthMinutes - snapshot.CurrentMinute)
	if remaining < 0 {
		remaining = 0
	}

	intensity := float64(home.ShotsOnTarget+away.ShotsOnTarget) * 0.03
	prob := float64(totalGoals)*0.25 + remaining/matchLengthMinutes*0.45 + intensity
	return normalize.Clamp(prob, 0.02, 0.98)
}

// bttsProbability estimates both-teams-to-score from the current scoreline
func (e *Engine) bttsProbability(snapshot types.MatchSnapshot, home, away types.LiveTeamStats) float64 {
	homeScored := snapshot.HomeScore > 0
	awayScored := snapshot.AwayScore > 0
	if homeScored && awayScored {
		return 1.0
	}

	remaining := float64(matchLengthMinutes - snapshot.CurrentMinute)
	if remaining < 0 {
		remaining = 0
	}

	scoreChance := func(stats types.LiveTeamStats) float64 {
		return normalize.Clamp(remaining/matchLengthMinutes*0.5+float64(stats.ShotsOnTarget)*0.05, 0.02, 0.9)
	}

	switch {
	case homeScored:
		return scoreChance(away)
	case awayScored:
		return scoreChance(home)
	default:
		return normalize.Clamp(scoreChance(home)*scoreChance(away), 0.01, 0.85)
	}
}

// goalNext15Probability estimates a goal in the next 15 minutes from the
// combined recent attacking momentum
func (e *Engine) goalNext15Probability(snapshot types.MatchSnapshot, home, away types.LiveTeamStats) float64 {
	if snapshot.CurrentMinute >= matchLengthMinutes {
		return 0.01
	}

	intensity := (TeamMomentum(home) + TeamMomentum(away)) * 0.01
	prob := 0.15 + intensity
	if snapshot.CurrentMinute >= 75 {
		prob *= 1.2 // Late games open up
	}
	return normalize.Clamp(prob, 0.02, 0.75)
}

// matchRedCardProbability rises with accumulated fouls on either side
func (e *Engine) matchRedCardProbability(home, away types.LiveTeamStats) float64 {
	prob := 0.04 + float64(home.FoulsCommitted+away.FoulsCommitted)*0.004
	return normalize.Clamp(prob, 0.01, 0.35)
}

// penaltyProbability rises with box pressure from either side
func (e *Engine) penaltyProbability(snapshot types.MatchSnapshot, home, away types.LiveTeamStats) float64 {
	remaining := float64(matchLengthMinutes - snapshot.CurrentMinute)
	if remaining <= 0 {
		return 0.01
	}

	pressure := float64(home.DangerousAttacksLast15+away.DangerousAttacksLast15) * 0.005
	prob := 0.05 + pressure
	return normalize.Clamp(prob, 0.01, 0.30)
}
