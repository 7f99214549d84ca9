package providers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/scoutsight/intel-engine/pkg/types"
)

// Store is the postgres-backed implementation of every collaborator contract.
// The persistence layer owns storage and history; the engine only reads.
type Store struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewStore creates a store-backed provider set
func NewStore(db *gorm.DB, logger *logrus.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// playerRecord is the players table row
type playerRecord struct {
	ID                      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                    string    `gorm:"not null"`
	Club                    string    `gorm:"index;not null"`
	Position                string    `gorm:"not null"`
	League                  string    `gorm:"index;not null"`
	Age                     int
	InternationalCaps       int
	ContractMonthsRemaining int
	ContractValue           float64
	MinutesShare            float64
	UpdatedAt               time.Time
}

func (playerRecord) TableName() string { return "players" }

func (r playerRecord) toRef() types.PlayerRef {
	return types.PlayerRef{
		ID:                      r.ID,
		Name:                    r.Name,
		Club:                    r.Club,
		Position:                types.Position(r.Position),
		League:                  types.League(r.League),
		Age:                     r.Age,
		InternationalCaps:       r.InternationalCaps,
		ContractMonthsRemaining: r.ContractMonthsRemaining,
		ContractValue:           r.ContractValue,
		MinutesShare:            r.MinutesShare,
		LastUpdated:             r.UpdatedAt,
	}
}

// movementSampleRecord is the movement_samples table row
type movementSampleRecord struct {
	ID                 uint      `gorm:"primaryKey"`
	PlayerID           uuid.UUID `gorm:"type:uuid;index;not null"`
	SegmentID          string
	GaitSymmetry       float64
	LandingMechanics   float64
	PosturalStability  float64
	FatigueIndicator   float64
	MovementEfficiency float64
	CapturedAt         time.Time `gorm:"index"`
}

func (movementSampleRecord) TableName() string { return "movement_samples" }

// workloadRecord is the workload_metrics table row (one current row per player)
type workloadRecord struct {
	PlayerID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AcuteChronicRatio   float64
	WeeklyLoadIncrease  float64
	ConsecutiveHighDays int
	UpdatedAt           time.Time
}

func (workloadRecord) TableName() string { return "workload_metrics" }

// performanceRecord is the performance_metrics table row (one per player window)
type performanceRecord struct {
	PlayerID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	GoalsPerGame         float64
	AssistsPerGame       float64
	KeyPassesPerGame     float64
	TacklesPerGame       float64
	InterceptionsPerGame float64
	PassAccuracy         float64
	ShotAccuracy         float64
	FormTrend            float64
	ConsistencyScore     float64
	InjuryDaysLast12M    int
	MatchesPlayed        int
	UpdatedAt            time.Time
}

func (performanceRecord) TableName() string { return "performance_metrics" }

// transferRecord is the market_transfers table row
type transferRecord struct {
	ID         uint   `gorm:"primaryKey"`
	PlayerName string
	Position   string `gorm:"index"`
	Age        int
	League     string
	Fee        float64
	Date       time.Time `gorm:"index"`
}

func (transferRecord) TableName() string { return "market_transfers" }

// marketTrendRecord is the market_trends table row (one per position)
type marketTrendRecord struct {
	Position          string `gorm:"primaryKey"`
	GrowthRate        float64
	TransactionVolume int
	UpdatedAt         time.Time
}

func (marketTrendRecord) TableName() string { return "market_trends" }

// matchHistoryRecord is the match_history table row
type matchHistoryRecord struct {
	ID            uint      `gorm:"primaryKey"`
	PlayerID      uuid.UUID `gorm:"type:uuid;index;not null"`
	MatchID       string
	Goals         int
	Assists       int
	MinutesPlayed int
	Rating        float64
	PlayedAt      time.Time `gorm:"index"`
}

func (matchHistoryRecord) TableName() string { return "match_history" }

// --- TelemetryProvider ---

func (s *Store) GetRecentMovementPatterns(ctx context.Context, playerID uuid.UUID, days int) ([]types.MovementSample, error) {
	cutoff := time.Now().AddDate(0, 0, -days)

	var rows []movementSampleRecord
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND captured_at >= ?", playerID, cutoff).
		Order("captured_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	samples := make([]types.MovementSample, 0, len(rows))
	for _, r := range rows {
		samples = append(samples, types.MovementSample{
			SegmentID:          r.SegmentID,
			GaitSymmetry:       r.GaitSymmetry,
			LandingMechanics:   r.LandingMechanics,
			PosturalStability:  r.PosturalStability,
			FatigueIndicator:   r.FatigueIndicator,
			MovementEfficiency: r.MovementEfficiency,
			CapturedAt:         r.CapturedAt,
		})
	}
	return samples, nil
}

func (s *Store) GetRecentPerformanceMetrics(ctx context.Context, playerID uuid.UUID, days int) (types.PerformanceMetrics, error) {
	var row performanceRecord
	err := s.db.WithContext(ctx).First(&row, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// An empty performance window is non-fatal: contribute neutrally
		return types.PerformanceMetrics{}, nil
	}
	if err != nil {
		return types.PerformanceMetrics{}, err
	}

	return types.PerformanceMetrics{
		GoalsPerGame:         row.GoalsPerGame,
		AssistsPerGame:       row.AssistsPerGame,
		KeyPassesPerGame:     row.KeyPassesPerGame,
		TacklesPerGame:       row.TacklesPerGame,
		InterceptionsPerGame: row.InterceptionsPerGame,
		PassAccuracy:         row.PassAccuracy,
		ShotAccuracy:         row.ShotAccuracy,
		FormTrend:            row.FormTrend,
		ConsistencyScore:     row.ConsistencyScore,
		InjuryDaysLast12M:    row.InjuryDaysLast12M,
		MatchesPlayed:        row.MatchesPlayed,
	}, nil
}

func (s *Store) GetWorkloadData(ctx context.Context, playerID uuid.UUID, days int) (types.WorkloadMetrics, error) {
	var row workloadRecord
	err := s.db.WithContext(ctx).First(&row, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.WorkloadMetrics{}, nil
	}
	if err != nil {
		return types.WorkloadMetrics{}, err
	}

	return types.WorkloadMetrics{
		AcuteChronicRatio:   row.AcuteChronicRatio,
		WeeklyLoadIncrease:  row.WeeklyLoadIncrease,
		ConsecutiveHighDays: row.ConsecutiveHighDays,
	}, nil
}

func (s *Store) GetLivePlayerStats(ctx context.Context, playerID uuid.UUID, matchID string) (types.LivePlayerState, error) {
	var state types.LivePlayerState
	err := s.db.WithContext(ctx).
		Table("live_player_stats").
		Where("player_id = ? AND match_id = ?", playerID, matchID).
		First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.LivePlayerState{}, ErrNotFound
	}
	return state, err
}

func (s *Store) GetPlayerHistory(ctx context.Context, playerID uuid.UUID, count int) ([]types.MatchHistoryRecord, error) {
	var rows []matchHistoryRecord
	err := s.db.WithContext(ctx).
		Where("player_id = ?", playerID).
		Order("played_at DESC").
		Limit(count).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	history := make([]types.MatchHistoryRecord, 0, len(rows))
	for _, r := range rows {
		history = append(history, types.MatchHistoryRecord{
			MatchID:       r.MatchID,
			Goals:         r.Goals,
			Assists:       r.Assists,
			MinutesPlayed: r.MinutesPlayed,
			Rating:        r.Rating,
			PlayedAt:      r.PlayedAt,
		})
	}
	return history, nil
}

// --- MarketDataProvider ---

func (s *Store) GetPositionMarketTrends(ctx context.Context, position types.Position) (*types.MarketTrend, error) {
	var row marketTrendRecord
	err := s.db.WithContext(ctx).First(&row, "position = ?", string(position)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Missing market data defaults to neutral, not an error
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &types.MarketTrend{
		Position:          types.Position(row.Position),
		GrowthRate:        row.GrowthRate,
		TransactionVolume: row.TransactionVolume,
	}, nil
}

func (s *Store) GetRecentTransfers(ctx context.Context, months int) ([]types.TransferRecord, error) {
	cutoff := time.Now().AddDate(0, -months, 0)

	var rows []transferRecord
	err := s.db.WithContext(ctx).
		Where("date >= ?", cutoff).
		Order("date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	transfers := make([]types.TransferRecord, 0, len(rows))
	for _, r := range rows {
		transfers = append(transfers, types.TransferRecord{
			PlayerName: r.PlayerName,
			Position:   types.Position(r.Position),
			Age:        r.Age,
			League:     types.League(r.League),
			Fee:        r.Fee,
			Date:       r.Date,
		})
	}
	return transfers, nil
}

func (s *Store) GetLeagueForClub(ctx context.Context, club string) (types.League, error) {
	var row playerRecord
	err := s.db.WithContext(ctx).First(&row, "club = ?", club).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.LeagueOther, ErrNotFound
	}
	if err != nil {
		return types.LeagueOther, err
	}
	return types.League(row.League), nil
}

// --- MatchDataProvider ---

func (s *Store) GetLiveMatch(ctx context.Context, matchID string) (types.MatchSnapshot, error) {
	var snapshot types.MatchSnapshot
	err := s.db.WithContext(ctx).
		Table("live_matches").
		Where("match_id = ?", matchID).
		First(&snapshot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.MatchSnapshot{}, ErrNotFound
	}
	return snapshot, err
}

func (s *Store) GetMatchPlayers(ctx context.Context, matchID string) ([]types.PlayerRef, error) {
	var rows []playerRecord
	err := s.db.WithContext(ctx).
		Joins("JOIN live_player_stats ON live_player_stats.player_id = players.id").
		Where("live_player_stats.match_id = ?", matchID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	refs := make([]types.PlayerRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, r.toRef())
	}
	return refs, nil
}

func (s *Store) GetLiveTeamStats(ctx context.Context, teamID string) (types.LiveTeamStats, error) {
	var stats types.LiveTeamStats
	err := s.db.WithContext(ctx).
		Table("live_team_stats").
		Where("team_id = ?", teamID).
		First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.LiveTeamStats{}, ErrNotFound
	}
	return stats, err
}

// --- RosterProvider ---

func (s *Store) GetClubPlayers(ctx context.Context, clubID string) ([]types.PlayerRef, error) {
	var rows []playerRecord
	err := s.db.WithContext(ctx).Where("club = ?", clubID).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	refs := make([]types.PlayerRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, r.toRef())
	}
	return refs, nil
}

func (s *Store) GetAvailablePlayers(ctx context.Context, position *types.Position, league *types.League) ([]types.PlayerRef, error) {
	query := s.db.WithContext(ctx).Where("contract_months_remaining <= ?", 18)
	if position != nil {
		query = query.Where("position = ?", string(*position))
	}
	if league != nil {
		query = query.Where("league = ?", string(*league))
	}

	var rows []playerRecord
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	refs := make([]types.PlayerRef, 0, len(rows))
	for _, r := range rows {
		refs = append(refs, r.toRef())
	}
	return refs, nil
}

func (s *Store) GetPlayer(ctx context.Context, playerID uuid.UUID) (types.PlayerRef, error) {
	var row playerRecord
	err := s.db.WithContext(ctx).First(&row, "id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.PlayerRef{}, ErrNotFound
	}
	if err != nil {
		return types.PlayerRef{}, err
	}
	return row.toRef(), nil
}
