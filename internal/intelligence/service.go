package intelligence

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/internal/injury"
	"github.com/scoutsight/intel-engine/internal/livematch"
	"github.com/scoutsight/intel-engine/internal/providers"
	"github.com/scoutsight/intel-engine/internal/valuation"
	"github.com/scoutsight/intel-engine/pkg/types"
)

// Default rolling windows for collaborator fetches
const (
	movementWindowDays    = 30
	performanceWindowDays = 30
	workloadWindowDays    = 28
	valuationWindowMonths = 24
	historyMatchCount     = 10
)

// outcomeSumTolerance bounds the float error allowed on the normalized
// home/draw/away probabilities
const outcomeSumTolerance = 1e-9

// Service is the engine facade: it assembles calculator inputs from the
// collaborator providers (once per player per request), runs the pure
// calculators, and composes batch results.
type Service struct {
	telemetry  providers.TelemetryProvider
	marketData providers.MarketDataProvider
	matchData  providers.MatchDataProvider
	roster     providers.RosterProvider

	injuryAnalyzer *injury.Analyzer
	valuationCalc  *valuation.Calculator
	liveEngine     *livematch.Engine
	aggregator     *Aggregator

	logger *logrus.Logger
}

// NewService wires the calculators to the collaborator providers
func NewService(
	telemetry providers.TelemetryProvider,
	marketData providers.MarketDataProvider,
	matchData providers.MatchDataProvider,
	roster providers.RosterProvider,
	logger *logrus.Logger,
) *Service {
	return &Service{
		telemetry:      telemetry,
		marketData:     marketData,
		matchData:      matchData,
		roster:         roster,
		injuryAnalyzer: injury.NewAnalyzer(logger),
		valuationCalc:  valuation.NewCalculator(logger),
		liveEngine:     livematch.NewEngine(logger),
		aggregator:     NewAggregator(),
		logger:         logger,
	}
}

// AnalyzeInjuryRisk fetches the player's rolling windows and runs the injury
// analyzer. The three independent fetches are issued concurrently.
func (s *Service) AnalyzeInjuryRisk(ctx context.Context, playerID uuid.UUID) (types.InjuryRiskAnalysis, error) {
	if _, err := s.roster.GetPlayer(ctx, playerID); err != nil {
		return types.InjuryRiskAnalysis{}, err
	}

	inputs, err := s.fetchInjuryInputs(ctx, playerID)
	if err != nil {
		return types.InjuryRiskAnalysis{}, fmt.Errorf("failed to assemble injury inputs: %w", err)
	}

	return s.injuryAnalyzer.Analyze(playerID, inputs), nil
}

// fetchInjuryInputs issues the movement, performance and workload reads
// concurrently and joins them into a single input struct
func (s *Service) fetchInjuryInputs(ctx context.Context, playerID uuid.UUID) (injury.Inputs, error) {
	var (
		wg       sync.WaitGroup
		inputs   injury.Inputs
		errMu    sync.Mutex
		firstErr error
	)

	record := func(err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		movement, err := s.telemetry.GetRecentMovementPatterns(ctx, playerID, movementWindowDays)
		inputs.Movement = movement
		record(err)
	}()
	go func() {
		defer wg.Done()
		performance, err := s.telemetry.GetRecentPerformanceMetrics(ctx, playerID, performanceWindowDays)
		inputs.Performance = performance
		record(err)
	}()
	go func() {
		defer wg.Done()
		workload, err := s.telemetry.GetWorkloadData(ctx, playerID, workloadWindowDays)
		inputs.Workload = workload
		record(err)
	}()
	wg.Wait()

	return inputs, firstErr
}

// CalculatePlayerValue fetches the valuation inputs and runs the calculator
func (s *Service) CalculatePlayerValue(ctx context.Context, playerID uuid.UUID) (types.TransferValuation, error) {
	player, err := s.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return types.TransferValuation{}, err
	}

	var (
		wg       sync.WaitGroup
		perf     types.PerformanceMetrics
		trend    *types.MarketTrend
		records  []types.TransferRecord
		errMu    sync.Mutex
		firstErr error
	)

	record := func(err error) {
		if err == nil {
			return
		}
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		p, err := s.telemetry.GetRecentPerformanceMetrics(ctx, playerID, valuationWindowMonths*30)
		perf = p
		record(err)
	}()
	go func() {
		defer wg.Done()
		t, err := s.marketData.GetPositionMarketTrends(ctx, player.Position)
		trend = t
		record(err)
	}()
	go func() {
		defer wg.Done()
		r, err := s.marketData.GetRecentTransfers(ctx, valuationWindowMonths)
		records = r
		record(err)
	}()
	wg.Wait()

	if firstErr != nil {
		return types.TransferValuation{}, fmt.Errorf("failed to assemble valuation inputs: %w", firstErr)
	}

	inputs := valuation.Inputs{
		Performance: valuation.PerformanceWindow{Metrics: perf},
		Transfers:   records,
		MarketTrend: trend,
	}
	return s.valuationCalc.Calculate(player, inputs), nil
}

// GetLiveMatchPredictions computes match-level predictions for a live match
func (s *Service) GetLiveMatchPredictions(ctx context.Context, matchID string) (types.MatchPredictions, error) {
	snapshot, err := s.matchData.GetLiveMatch(ctx, matchID)
	if err != nil {
		return types.MatchPredictions{}, err
	}

	home, err := s.matchData.GetLiveTeamStats(ctx, snapshot.HomeTeamID)
	if err != nil {
		return types.MatchPredictions{}, fmt.Errorf("failed to fetch home team stats: %w", err)
	}
	away, err := s.matchData.GetLiveTeamStats(ctx, snapshot.AwayTeamID)
	if err != nil {
		return types.MatchPredictions{}, fmt.Errorf("failed to fetch away team stats: %w", err)
	}

	predictions := s.liveEngine.MatchOutcome(snapshot, home, away)
	if err := validateOutcome(predictions); err != nil {
		return types.MatchPredictions{}, err
	}
	return predictions, nil
}

// validateOutcome enforces the outcome-probability contract before a result
// leaves the service: the three probabilities must sum to 1. A violation is a
// defect in the engine, surfaced as ErrInvariant rather than masked.
func validateOutcome(p types.MatchPredictions) error {
	sum := p.HomeWinProbability + p.DrawProbability + p.AwayWinProbability
	if math.Abs(sum-1) > outcomeSumTolerance {
		return fmt.Errorf("%w: outcome probabilities sum to %.12f for match %s",
			providers.ErrInvariant, sum, p.MatchID)
	}
	return nil
}

// GetLivePlayerData computes live betting data for every player in a match.
// Per-player fetches fan out; output order is fixed by descending current
// performance score, not by completion order.
func (s *Service) GetLivePlayerData(ctx context.Context, matchID string) ([]types.LiveBettingData, error) {
	snapshot, err := s.matchData.GetLiveMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	refs, err := s.matchData.GetMatchPlayers(ctx, matchID)
	if err != nil {
		return nil, err
	}

	results := make([]types.LiveBettingData, len(refs))
	valid := make([]bool, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref types.PlayerRef) {
			defer wg.Done()

			state, err := s.telemetry.GetLivePlayerStats(ctx, ref.ID, matchID)
			if err != nil {
				s.logger.WithError(err).WithField("player_id", ref.ID).Warn("Skipping player without live stats")
				return
			}
			history, err := s.telemetry.GetPlayerHistory(ctx, ref.ID, historyMatchCount)
			if err != nil {
				// History is a rolling window: proceed without it
				history = nil
			}

			results[i] = s.liveEngine.PlayerProbabilities(state, snapshot, history)
			valid[i] = true
		}(i, ref)
	}
	wg.Wait()

	data := make([]types.LiveBettingData, 0, len(refs))
	for i := range results {
		if valid[i] {
			data = append(data, results[i])
		}
	}

	sort.Slice(data, func(i, j int) bool {
		return data[i].CurrentPerformanceScore > data[j].CurrentPerformanceScore
	})
	return data, nil
}

// BuildPlayerIntelligence composes the full per-player report. matchID is
// optional; when empty, live-dependent insights are skipped.
func (s *Service) BuildPlayerIntelligence(ctx context.Context, playerID uuid.UUID, matchID string) (types.PlayerIntelligence, error) {
	player, err := s.roster.GetPlayer(ctx, playerID)
	if err != nil {
		return types.PlayerIntelligence{}, err
	}

	injuryAnalysis, err := s.AnalyzeInjuryRisk(ctx, playerID)
	if err != nil {
		return types.PlayerIntelligence{}, err
	}
	playerValuation, err := s.CalculatePlayerValue(ctx, playerID)
	if err != nil {
		return types.PlayerIntelligence{}, err
	}

	var live *types.LiveBettingData
	if matchID != "" {
		snapshot, err := s.matchData.GetLiveMatch(ctx, matchID)
		if err != nil {
			return types.PlayerIntelligence{}, err
		}
		state, err := s.telemetry.GetLivePlayerStats(ctx, playerID, matchID)
		if err != nil {
			return types.PlayerIntelligence{}, err
		}
		history, err := s.telemetry.GetPlayerHistory(ctx, playerID, historyMatchCount)
		if err != nil {
			history = nil
		}
		data := s.liveEngine.PlayerProbabilities(state, snapshot, history)
		live = &data
	}

	return types.PlayerIntelligence{
		Player:    player,
		Injury:    &injuryAnalysis,
		Valuation: &playerValuation,
		Live:      live,
		Insights:  s.aggregator.Insights(&injuryAnalysis, &playerValuation, live),
		BuiltAt:   time.Now().UTC(),
	}, nil
}

// ClubInjuryAlerts analyzes a whole roster concurrently and returns alerts
// sorted by descending risk score
func (s *Service) ClubInjuryAlerts(ctx context.Context, clubID string) ([]types.InjuryAlert, error) {
	roster, err := s.roster.GetClubPlayers(ctx, clubID)
	if err != nil {
		return nil, err
	}

	alerts := make([]types.InjuryAlert, len(roster))
	valid := make([]bool, len(roster))

	var wg sync.WaitGroup
	for i, player := range roster {
		wg.Add(1)
		go func(i int, player types.PlayerRef) {
			defer wg.Done()

			inputs, err := s.fetchInjuryInputs(ctx, player.ID)
			if err != nil {
				s.logger.WithError(err).WithField("player_id", player.ID).Warn("Skipping player in injury scan")
				return
			}
			analysis := s.injuryAnalyzer.Analyze(player.ID, inputs)

			alerts[i] = types.InjuryAlert{
				PlayerID:   player.ID,
				PlayerName: player.Name,
				RiskScore:  analysis.RiskScore,
				RiskLevel:  analysis.RiskLevel,
				DaysToRisk: analysis.DaysToRisk,
			}
			valid[i] = true
		}(i, player)
	}
	wg.Wait()

	result := make([]types.InjuryAlert, 0, len(roster))
	for i := range alerts {
		if valid[i] {
			result = append(result, alerts[i])
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RiskScore > result[j].RiskScore
	})
	return result, nil
}

// ClubDashboard builds per-player intelligence for a whole club, sorted by
// recommendation priority then estimated value
func (s *Service) ClubDashboard(ctx context.Context, clubID string) (types.ClubDashboard, error) {
	roster, err := s.roster.GetClubPlayers(ctx, clubID)
	if err != nil {
		return types.ClubDashboard{}, err
	}

	reports := make([]types.PlayerIntelligence, len(roster))
	valid := make([]bool, len(roster))

	var wg sync.WaitGroup
	for i, player := range roster {
		wg.Add(1)
		go func(i int, player types.PlayerRef) {
			defer wg.Done()

			report, err := s.BuildPlayerIntelligence(ctx, player.ID, "")
			if err != nil {
				s.logger.WithError(err).WithField("player_id", player.ID).Warn("Skipping player in dashboard build")
				return
			}
			reports[i] = report
			valid[i] = true
		}(i, player)
	}
	wg.Wait()

	players := make([]types.PlayerIntelligence, 0, len(roster))
	for i := range reports {
		if valid[i] {
			players = append(players, reports[i])
		}
	}

	sort.Slice(players, func(i, j int) bool {
		pi, pj := players[i].Valuation, players[j].Valuation
		if pi.Recommendation.Priority() != pj.Recommendation.Priority() {
			return pi.Recommendation.Priority() > pj.Recommendation.Priority()
		}
		return pi.EstimatedValue > pj.EstimatedValue
	})

	alerts := make([]types.InjuryAlert, 0)
	for _, p := range players {
		if p.Injury != nil && p.Injury.RiskLevel.Rank() >= types.RiskLevelHigh.Rank() {
			alerts = append(alerts, types.InjuryAlert{
				PlayerID:   p.Player.ID,
				PlayerName: p.Player.Name,
				RiskScore:  p.Injury.RiskScore,
				RiskLevel:  p.Injury.RiskLevel,
				DaysToRisk: p.Injury.DaysToRisk,
			})
		}
	}
	sort.Slice(alerts, func(i, j int) bool {
		return alerts[i].RiskScore > alerts[j].RiskScore
	})

	return types.ClubDashboard{
		ClubID:       clubID,
		Players:      players,
		InjuryAlerts: alerts,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// MarketOpportunityScan values every available player matching the filters
// and returns opportunities sorted by value ratio descending
func (s *Service) MarketOpportunityScan(ctx context.Context, position *types.Position, league *types.League) ([]types.MarketOpportunity, error) {
	available, err := s.roster.GetAvailablePlayers(ctx, position, league)
	if err != nil {
		return nil, err
	}

	opportunities := make([]types.MarketOpportunity, len(available))
	valid := make([]bool, len(available))

	var wg sync.WaitGroup
	for i, player := range available {
		wg.Add(1)
		go func(i int, player types.PlayerRef) {
			defer wg.Done()

			v, err := s.CalculatePlayerValue(ctx, player.ID)
			if err != nil {
				s.logger.WithError(err).WithField("player_id", player.ID).Warn("Skipping player in market scan")
				return
			}

			ratio := 1.0
			if player.ContractValue > 0 {
				ratio = v.EstimatedValue / player.ContractValue
			}
			opportunities[i] = types.MarketOpportunity{
				Player:         player,
				EstimatedValue: v.EstimatedValue,
				ValueRatio:     ratio,
				Recommendation: v.Recommendation,
			}
			valid[i] = true
		}(i, player)
	}
	wg.Wait()

	result := make([]types.MarketOpportunity, 0, len(available))
	for i := range opportunities {
		if valid[i] {
			result = append(result, opportunities[i])
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ValueRatio > result[j].ValueRatio
	})
	return result, nil
}
