package intelligence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutsight/intel-engine/internal/providers"
	"github.com/scoutsight/intel-engine/pkg/types"
)

// fakeProviders backs every collaborator interface with in-memory fixtures
type fakeProviders struct {
	players   map[uuid.UUID]types.PlayerRef
	movement  map[uuid.UUID][]types.MovementSample
	workload  map[uuid.UUID]types.WorkloadMetrics
	perf      map[uuid.UUID]types.PerformanceMetrics
	liveStats map[uuid.UUID]types.LivePlayerState
	history   map[uuid.UUID][]types.MatchHistoryRecord
	matches   map[string]types.MatchSnapshot
	teamStats map[string]types.LiveTeamStats
	trends    map[types.Position]*types.MarketTrend
	transfers []types.TransferRecord
}

func newFakeProviders() *fakeProviders {
	return &fakeProviders{
		players:   make(map[uuid.UUID]types.PlayerRef),
		movement:  make(map[uuid.UUID][]types.MovementSample),
		workload:  make(map[uuid.UUID]types.WorkloadMetrics),
		perf:      make(map[uuid.UUID]types.PerformanceMetrics),
		liveStats: make(map[uuid.UUID]types.LivePlayerState),
		history:   make(map[uuid.UUID][]types.MatchHistoryRecord),
		matches:   make(map[string]types.MatchSnapshot),
		teamStats: make(map[string]types.LiveTeamStats),
		trends:    make(map[types.Position]*types.MarketTrend),
	}
}

func (f *fakeProviders) GetRecentMovementPatterns(_ context.Context, playerID uuid.UUID, _ int) ([]types.MovementSample, error) {
	return f.movement[playerID], nil
}

func (f *fakeProviders) GetRecentPerformanceMetrics(_ context.Context, playerID uuid.UUID, _ int) (types.PerformanceMetrics, error) {
	return f.perf[playerID], nil
}

func (f *fakeProviders) GetWorkloadData(_ context.Context, playerID uuid.UUID, _ int) (types.WorkloadMetrics, error) {
	return f.workload[playerID], nil
}

func (f *fakeProviders) GetLivePlayerStats(_ context.Context, playerID uuid.UUID, _ string) (types.LivePlayerState, error) {
	state, ok := f.liveStats[playerID]
	if !ok {
		return types.LivePlayerState{}, providers.ErrNotFound
	}
	return state, nil
}

func (f *fakeProviders) GetPlayerHistory(_ context.Context, playerID uuid.UUID, _ int) ([]types.MatchHistoryRecord, error) {
	return f.history[playerID], nil
}

func (f *fakeProviders) GetPositionMarketTrends(_ context.Context, position types.Position) (*types.MarketTrend, error) {
	return f.trends[position], nil
}

func (f *fakeProviders) GetRecentTransfers(_ context.Context, _ int) ([]types.TransferRecord, error) {
	return f.transfers, nil
}

func (f *fakeProviders) GetLeagueForClub(_ context.Context, _ string) (types.League, error) {
	return types.LeaguePremierLeague, nil
}

func (f *fakeProviders) GetLiveMatch(_ context.Context, matchID string) (types.MatchSnapshot, error) {
	snapshot, ok := f.matches[matchID]
	if !ok {
		return types.MatchSnapshot{}, providers.ErrNotFound
	}
	return snapshot, nil
}

func (f *fakeProviders) GetMatchPlayers(_ context.Context, _ string) ([]types.PlayerRef, error) {
	refs := make([]types.PlayerRef, 0, len(f.liveStats))
	for id := range f.liveStats {
		refs = append(refs, f.players[id])
	}
	return refs, nil
}

func (f *fakeProviders) GetLiveTeamStats(_ context.Context, teamID string) (types.LiveTeamStats, error) {
	return f.teamStats[teamID], nil
}

func (f *fakeProviders) GetClubPlayers(_ context.Context, clubID string) ([]types.PlayerRef, error) {
	roster := make([]types.PlayerRef, 0)
	for _, p := range f.players {
		if p.Club == clubID {
			roster = append(roster, p)
		}
	}
	return roster, nil
}

func (f *fakeProviders) GetAvailablePlayers(_ context.Context, position *types.Position, league *types.League) ([]types.PlayerRef, error) {
	available := make([]types.PlayerRef, 0)
	for _, p := range f.players {
		if position != nil && p.Position != *position {
			continue
		}
		if league != nil && p.League != *league {
			continue
		}
		available = append(available, p)
	}
	return available, nil
}

func (f *fakeProviders) GetPlayer(_ context.Context, playerID uuid.UUID) (types.PlayerRef, error) {
	player, ok := f.players[playerID]
	if !ok {
		return types.PlayerRef{}, providers.ErrNotFound
	}
	return player, nil
}

func (f *fakeProviders) addPlayer(name, club string, pos types.Position) uuid.UUID {
	id := uuid.New()
	f.players[id] = types.PlayerRef{
		ID:                      id,
		Name:                    name,
		Club:                    club,
		Position:                pos,
		League:                  types.LeaguePremierLeague,
		Age:                     25,
		ContractMonthsRemaining: 24,
		ContractValue:           5000000,
		MinutesShare:            0.7,
	}
	return id
}

func riskyTelemetry(f *fakeProviders, playerID uuid.UUID) {
	f.movement[playerID] = []types.MovementSample{
		{GaitSymmetry: 65, LandingMechanics: 60, PosturalStability: 58, FatigueIndicator: 85},
	}
	f.workload[playerID] = types.WorkloadMetrics{AcuteChronicRatio: 1.9, WeeklyLoadIncrease: 0.15, ConsecutiveHighDays: 5}
	f.perf[playerID] = types.PerformanceMetrics{FormTrend: -0.08, ConsistencyScore: 0.6, MatchesPlayed: 10}
}

func healthyTelemetry(f *fakeProviders, playerID uuid.UUID) {
	f.movement[playerID] = []types.MovementSample{
		{GaitSymmetry: 95, LandingMechanics: 93, PosturalStability: 94, FatigueIndicator: 20},
	}
	f.workload[playerID] = types.WorkloadMetrics{AcuteChronicRatio: 1.1, WeeklyLoadIncrease: 0.02, ConsecutiveHighDays: 1}
	f.perf[playerID] = types.PerformanceMetrics{
		GoalsPerGame: 0.5, AssistsPerGame: 0.2, KeyPassesPerGame: 1.8,
		PassAccuracy: 85, ShotAccuracy: 45, FormTrend: 0.03,
		ConsistencyScore: 0.88, MatchesPlayed: 20,
	}
}

func testService(f *fakeProviders) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewService(f, f, f, f, logger)
}

func TestAnalyzeInjuryRisk_UnknownPlayer(t *testing.T) {
	s := testService(newFakeProviders())

	_, err := s.AnalyzeInjuryRisk(context.Background(), uuid.New())
	assert.ErrorIs(t, err, providers.ErrNotFound)
}

func TestAnalyzeInjuryRisk_AssemblesConcurrentInputs(t *testing.T) {
	f := newFakeProviders()
	playerID := f.addPlayer("Risky Player", "club-a", types.PositionCentralMid)
	riskyTelemetry(f, playerID)
	s := testService(f)

	analysis, err := s.AnalyzeInjuryRisk(context.Background(), playerID)
	require.NoError(t, err)

	assert.Equal(t, playerID, analysis.PlayerID)
	assert.GreaterOrEqual(t, analysis.RiskLevel.Rank(), types.RiskLevelHigh.Rank())
	assert.NotEmpty(t, analysis.RiskFactors)
	assert.NotEmpty(t, analysis.Recommendation)
}

func TestCalculatePlayerValue_UnknownPlayer(t *testing.T) {
	s := testService(newFakeProviders())

	_, err := s.CalculatePlayerValue(context.Background(), uuid.New())
	assert.ErrorIs(t, err, providers.ErrNotFound)
}

func TestCalculatePlayerValue_MissingMarketTrendIsNeutral(t *testing.T) {
	f := newFakeProviders()
	playerID := f.addPlayer("Valued Player", "club-a", types.PositionStriker)
	healthyTelemetry(f, playerID)
	s := testService(f)

	valuation, err := s.CalculatePlayerValue(context.Background(), playerID)
	require.NoError(t, err)

	assert.Equal(t, playerID, valuation.PlayerID)
	assert.GreaterOrEqual(t, valuation.EstimatedValue, 100000.0)
	assert.NotEmpty(t, valuation.Recommendation)
}

func TestGetLiveMatchPredictions(t *testing.T) {
	f := newFakeProviders()
	f.matches["m1"] = types.MatchSnapshot{
		MatchID: "m1", HomeTeamID: "home-fc", AwayTeamID: "away-fc", CurrentMinute: 60, HomeScore: 1,
	}
	f.teamStats["home-fc"] = types.LiveTeamStats{TeamID: "home-fc", Possession: 60, ShotsOnTarget: 5, PassAccuracy: 85}
	f.teamStats["away-fc"] = types.LiveTeamStats{TeamID: "away-fc", Possession: 40, ShotsOnTarget: 1, PassAccuracy: 75}
	s := testService(f)

	p, err := s.GetLiveMatchPredictions(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, "m1", p.MatchID)
	assert.InDelta(t, 1.0, p.HomeWinProbability+p.DrawProbability+p.AwayWinProbability, 1e-9)

	_, err = s.GetLiveMatchPredictions(context.Background(), "unknown")
	assert.ErrorIs(t, err, providers.ErrNotFound)
}

func TestValidateOutcome(t *testing.T) {
	valid := types.MatchPredictions{
		MatchID: "m1", HomeWinProbability: 0.5, DrawProbability: 0.2, AwayWinProbability: 0.3,
	}
	assert.NoError(t, validateOutcome(valid))

	// Float noise inside the tolerance is accepted
	noisy := types.MatchPredictions{
		MatchID: "m2", HomeWinProbability: 0.5, DrawProbability: 0.2, AwayWinProbability: 0.3 + 1e-12,
	}
	assert.NoError(t, validateOutcome(noisy))

	broken := types.MatchPredictions{
		MatchID: "m3", HomeWinProbability: 0.6, DrawProbability: 0.3, AwayWinProbability: 0.3,
	}
	assert.ErrorIs(t, validateOutcome(broken), providers.ErrInvariant)

	assert.ErrorIs(t, validateOutcome(types.MatchPredictions{MatchID: "m4"}), providers.ErrInvariant)
}

func TestGetLivePlayerData_SortedByPerformance(t *testing.T) {
	f := newFakeProviders()
	f.matches["m1"] = types.MatchSnapshot{MatchID: "m1", HomeTeamID: "home-fc", AwayTeamID: "away-fc", CurrentMinute: 60}

	starID := f.addPlayer("Star", "club-a", types.PositionStriker)
	f.liveStats[starID] = types.LivePlayerState{
		PlayerID: starID, Position: types.PositionStriker, TeamID: "home-fc",
		Goals: 2, Assists: 1, ShotsOnTarget: 4, PassesCompleted: 25, PassesAttempted: 28,
		PositionalAwareness: 80, WorkRate: 80,
	}

	strugglerID := f.addPlayer("Struggler", "club-a", types.PositionCenterBack)
	f.liveStats[strugglerID] = types.LivePlayerState{
		PlayerID: strugglerID, Position: types.PositionCenterBack, TeamID: "away-fc",
		Fouls: 4, YellowCards: 1, PassesCompleted: 10, PassesAttempted: 22,
		PositionalAwareness: 40, WorkRate: 45,
	}

	s := testService(f)
	data, err := s.GetLivePlayerData(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, data, 2)

	assert.Equal(t, starID, data[0].PlayerID)
	assert.Equal(t, strugglerID, data[1].PlayerID)
	assert.Greater(t, data[0].CurrentPerformanceScore, data[1].CurrentPerformanceScore)
}

func TestBuildPlayerIntelligence_WithoutMatchSkipsLive(t *testing.T) {
	f := newFakeProviders()
	playerID := f.addPlayer("Report Player", "club-a", types.PositionWinger)
	healthyTelemetry(f, playerID)
	s := testService(f)

	report, err := s.BuildPlayerIntelligence(context.Background(), playerID, "")
	require.NoError(t, err)

	assert.Equal(t, playerID, report.Player.ID)
	require.NotNil(t, report.Injury)
	require.NotNil(t, report.Valuation)
	assert.Nil(t, report.Live)
	assert.NotNil(t, report.Insights)
}

func TestBuildPlayerIntelligence_WithMatchIncludesLive(t *testing.T) {
	f := newFakeProviders()
	playerID := f.addPlayer("Live Player", "club-a", types.PositionStriker)
	healthyTelemetry(f, playerID)
	f.matches["m1"] = types.MatchSnapshot{MatchID: "m1", HomeTeamID: "home-fc", AwayTeamID: "away-fc", CurrentMinute: 30}
	f.liveStats[playerID] = types.LivePlayerState{
		PlayerID: playerID, Position: types.PositionStriker, TeamID: "home-fc", ShotsOnTarget: 2,
	}
	s := testService(f)

	report, err := s.BuildPlayerIntelligence(context.Background(), playerID, "m1")
	require.NoError(t, err)

	require.NotNil(t, report.Live)
	assert.Equal(t, "m1", report.Live.MatchID)
}

func TestClubInjuryAlerts_SortedByDescendingRisk(t *testing.T) {
	f := newFakeProviders()

	riskyID := f.addPlayer("At Risk", "club-a", types.PositionCentralMid)
	riskyTelemetry(f, riskyID)

	healthyID := f.addPlayer("Fit Player", "club-a", types.PositionFullBack)
	healthyTelemetry(f, healthyID)

	// A player at a different club must not appear
	otherID := f.addPlayer("Rival Player", "club-b", types.PositionStriker)
	riskyTelemetry(f, otherID)

	s := testService(f)
	alerts, err := s.ClubInjuryAlerts(context.Background(), "club-a")
	require.NoError(t, err)
	require.Len(t, alerts, 2)

	assert.Equal(t, riskyID, alerts[0].PlayerID)
	assert.Equal(t, healthyID, alerts[1].PlayerID)
	assert.Greater(t, alerts[0].RiskScore, alerts[1].RiskScore)
}

func TestClubDashboard_SortedByRecommendationPriority(t *testing.T) {
	f := newFakeProviders()

	firstID := f.addPlayer("First", "club-a", types.PositionStriker)
	healthyTelemetry(f, firstID)
	secondID := f.addPlayer("Second", "club-a", types.PositionCenterBack)
	healthyTelemetry(f, secondID)

	s := testService(f)
	dashboard, err := s.ClubDashboard(context.Background(), "club-a")
	require.NoError(t, err)

	assert.Equal(t, "club-a", dashboard.ClubID)
	require.Len(t, dashboard.Players, 2)
	for i := 1; i < len(dashboard.Players); i++ {
		prev := dashboard.Players[i-1].Valuation
		curr := dashboard.Players[i].Valuation
		if prev.Recommendation.Priority() == curr.Recommendation.Priority() {
			assert.GreaterOrEqual(t, prev.EstimatedValue, curr.EstimatedValue)
		} else {
			assert.Greater(t, prev.Recommendation.Priority(), curr.Recommendation.Priority())
		}
	}
}

func TestMarketOpportunityScan_FiltersAndSorts(t *testing.T) {
	f := newFakeProviders()

	strikerID := f.addPlayer("Target Striker", "club-a", types.PositionStriker)
	healthyTelemetry(f, strikerID)
	otherStrikerID := f.addPlayer("Backup Striker", "club-b", types.PositionStriker)
	healthyTelemetry(f, otherStrikerID)
	keeperID := f.addPlayer("Keeper", "club-a", types.PositionGoalkeeper)
	healthyTelemetry(f, keeperID)

	s := testService(f)
	striker := types.PositionStriker
	result, err := s.MarketOpportunityScan(context.Background(), &striker, nil)
	require.NoError(t, err)
	require.Len(t, result, 2)

	for _, opp := range result {
		assert.Equal(t, types.PositionStriker, opp.Player.Position)
		assert.Positive(t, opp.EstimatedValue)
	}
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t, result[i-1].ValueRatio, result[i].ValueRatio)
	}
}
