package livematch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scoutsight/intel-engine/pkg/types"
)

func strongHomeStats() types.LiveTeamStats {
	return types.LiveTeamStats{
		TeamID:                 "home-fc",
		Possession:             62,
		Shots:                  14,
		ShotsOnTarget:          6,
		Corners:                7,
		FoulsCommitted:         8,
		PassAccuracy:           87,
		ShotsLast15:            4,
		CornersLast15:          2,
		DangerousAttacksLast15: 6,
	}
}

func weakAwayStats() types.LiveTeamStats {
	return types.LiveTeamStats{
		TeamID:                 "away-fc",
		Possession:             38,
		Shots:                  5,
		ShotsOnTarget:          1,
		Corners:                2,
		FoulsCommitted:         12,
		PassAccuracy:           74,
		ShotsLast15:            1,
		CornersLast15:          0,
		DangerousAttacksLast15: 2,
	}
}

func TestMatchOutcome_ProbabilitiesSumToOne(t *testing.T) {
	e := testEngine()

	snapshots := []types.MatchSnapshot{
		{MatchID: "m1", CurrentMinute: 10, HomeScore: 0, AwayScore: 0},
		{MatchID: "m2", CurrentMinute: 55, HomeScore: 1, AwayScore: 0},
		{MatchID: "m3", CurrentMinute: 85, HomeScore: 0, AwayScore: 3},
		{MatchID: "m4", CurrentMinute: 88, HomeScore: 2, AwayScore: 2},
		{MatchID: "m5", CurrentMinute: 90, HomeScore: 5, AwayScore: 0},
	}

	for _, snapshot := range snapshots {
		p := e.MatchOutcome(snapshot, strongHomeStats(), weakAwayStats())
		sum := p.HomeWinProbability + p.DrawProbability + p.AwayWinProbability
		assert.InDelta(t, 1.0, sum, 1e-9, "match %s", snapshot.MatchID)
		assert.Greater(t, p.HomeWinProbability, 0.0)
		assert.Greater(t, p.DrawProbability, 0.0)
		assert.Greater(t, p.AwayWinProbability, 0.0)
	}
}

func TestMatchOutcome_ZeroTelemetrySumsToOne(t *testing.T) {
	e := testEngine()

	// No recorded stats from either side must not divide by zero
	p := e.MatchOutcome(types.MatchSnapshot{MatchID: "m", CurrentMinute: 5}, types.LiveTeamStats{}, types.LiveTeamStats{})
	sum := p.HomeWinProbability + p.DrawProbability + p.AwayWinProbability
	assert.InDelta(t, 1.0, sum, 1e-9)
	// Symmetric inputs yield symmetric win probabilities
	assert.InDelta(t, p.HomeWinProbability, p.AwayWinProbability, 1e-9)
	assert.Equal(t, "Balanced", p.GameState)
	assert.Equal(t, 0.0, p.MomentumScore)
}

func TestMatchOutcome_LeadingSideGainsShare(t *testing.T) {
	e := testEngine()
	home := strongHomeStats()
	away := weakAwayStats()

	level := e.MatchOutcome(types.MatchSnapshot{MatchID: "m", CurrentMinute: 60}, home, away)
	leading := e.MatchOutcome(types.MatchSnapshot{MatchID: "m", CurrentMinute: 60, HomeScore: 2}, home, away)

	assert.Greater(t, leading.HomeWinProbability, level.HomeWinProbability)
	assert.Less(t, leading.AwayWinProbability, level.AwayWinProbability)
}

func TestMomentumScore(t *testing.T) {
	assert.InDelta(t, 60.0, MomentumScore(40, 10), 1e-9)
	assert.InDelta(t, -60.0, MomentumScore(10, 40), 1e-9)
	assert.Equal(t, 0.0, MomentumScore(0, 0))
	assert.InDelta(t, 100.0, MomentumScore(25, 0), 1e-9)
	assert.InDelta(t, -100.0, MomentumScore(0, 25), 1e-9)
}

func TestGameStateOf_Bands(t *testing.T) {
	assert.Equal(t, "Home Dominant", GameStateOf(60))
	assert.Equal(t, "Home Dominant", GameStateOf(95))
	assert.Equal(t, "Home Pressing", GameStateOf(59.999))
	assert.Equal(t, "Home Pressing", GameStateOf(30))
	assert.Equal(t, "Balanced", GameStateOf(29.999))
	assert.Equal(t, "Balanced", GameStateOf(0))
	assert.Equal(t, "Balanced", GameStateOf(-29.999))
	assert.Equal(t, "Away Pressing", GameStateOf(-30))
	assert.Equal(t, "Away Dominant", GameStateOf(-60))
}

func TestTeamMomentum(t *testing.T) {
	stats := types.LiveTeamStats{ShotsLast15: 10, CornersLast15: 5, DangerousAttacksLast15: 0}
	assert.InDelta(t, 40.0, TeamMomentum(stats), 1e-9)
	assert.Equal(t, 0.0, TeamMomentum(types.LiveTeamStats{}))
}

func TestMatchOutcome_DominantHomeReported(t *testing.T) {
	e := testEngine()

	home := types.LiveTeamStats{TeamID: "home-fc", ShotsLast15: 10, CornersLast15: 5}
	away := types.LiveTeamStats{TeamID: "away-fc", ShotsLast15: 2, CornersLast15: 2}

	p := e.MatchOutcome(types.MatchSnapshot{MatchID: "m", CurrentMinute: 60}, home, away)
	assert.InDelta(t, 60.0, p.MomentumScore, 1e-9)
	assert.Equal(t, "Home Dominant", p.GameState)
}

func TestOver25Probability_CertainAtThreeGoals(t *testing.T) {
	e := testEngine()

	p := e.over25Probability(types.MatchSnapshot{CurrentMinute: 40, HomeScore: 2, AwayScore: 1}, strongHomeStats(), weakAwayStats())
	assert.Equal(t, 1.0, p)

	early := e.over25Probability(types.MatchSnapshot{CurrentMinute: 5}, strongHomeStats(), weakAwayStats())
	late := e.over25Probability(types.MatchSnapshot{CurrentMinute: 85}, strongHomeStats(), weakAwayStats())
	assert.Greater(t, early, late)
}

func TestBTTSProbability(t *testing.T) {
	e := testEngine()

	both := e.bttsProbability(types.MatchSnapshot{CurrentMinute: 70, HomeScore: 1, AwayScore: 1}, strongHomeStats(), weakAwayStats())
	assert.Equal(t, 1.0, both)

	// Home has scored; only the away side still needs to
	homeOnly := e.bttsProbability(types.MatchSnapshot{CurrentMinute: 45, HomeScore: 1}, strongHomeStats(), weakAwayStats())
	assert.Greater(t, homeOnly, 0.0)
	assert.Less(t, homeOnly, 1.0)

	// Stoppage time with neither scored bottoms out near the floor
	neither := e.bttsProbability(types.MatchSnapshot{CurrentMinute: 90}, types.LiveTeamStats{}, types.LiveTeamStats{})
	assert.LessOrEqual(t, neither, 0.05)
}

func TestGoalNext15Probability_FinishedMatch(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 0.01, e.goalNext15Probability(types.MatchSnapshot{CurrentMinute: 90}, strongHomeStats(), weakAwayStats()))

	calm := e.goalNext15Probability(types.MatchSnapshot{CurrentMinute: 30}, types.LiveTeamStats{}, types.LiveTeamStats{})
	frantic := e.goalNext15Probability(types.MatchSnapshot{CurrentMinute: 30}, strongHomeStats(), weakAwayStats())
	assert.Greater(t, frantic, calm)
}
