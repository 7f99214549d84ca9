// Package providers defines the collaborator boundary: the abstract contracts
// the scoring engine consumes, plus store-backed, cached and circuit-broken
// implementations. The engine core performs no I/O of its own.
package providers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/scoutsight/intel-engine/pkg/types"
)

// ErrNotFound marks a required upstream record (player, match, roster) that
// does not exist. Handlers map it to a structured not-found response; it is
// never silently defaulted.
var ErrNotFound = errors.New("record not found")

// ErrInvariant marks a violated internal computation invariant. It indicates
// a defect and fails loudly rather than being masked.
var ErrInvariant = errors.New("computation invariant violated")

// TelemetryProvider supplies movement, workload, performance and live player data
type TelemetryProvider interface {
	GetRecentMovementPatterns(ctx context.Context, playerID uuid.UUID, days int) ([]types.MovementSample, error)
	GetRecentPerformanceMetrics(ctx context.Context, playerID uuid.UUID, days int) (types.PerformanceMetrics, error)
	GetWorkloadData(ctx context.Context, playerID uuid.UUID, days int) (types.WorkloadMetrics, error)
	GetLivePlayerStats(ctx context.Context, playerID uuid.UUID, matchID string) (types.LivePlayerState, error)
	GetPlayerHistory(ctx context.Context, playerID uuid.UUID, count int) ([]types.MatchHistoryRecord, error)
}

// MarketDataProvider supplies market trends and historical transfers
type MarketDataProvider interface {
	GetPositionMarketTrends(ctx context.Context, position types.Position) (*types.MarketTrend, error)
	GetRecentTransfers(ctx context.Context, months int) ([]types.TransferRecord, error)
	GetLeagueForClub(ctx context.Context, club string) (types.League, error)
}

// MatchDataProvider supplies live match snapshots and team telemetry
type MatchDataProvider interface {
	GetLiveMatch(ctx context.Context, matchID string) (types.MatchSnapshot, error)
	GetMatchPlayers(ctx context.Context, matchID string) ([]types.PlayerRef, error)
	GetLiveTeamStats(ctx context.Context, teamID string) (types.LiveTeamStats, error)
}

// RosterProvider supplies club rosters and transfer-market availability
type RosterProvider interface {
	GetClubPlayers(ctx context.Context, clubID string) ([]types.PlayerRef, error)
	GetAvailablePlayers(ctx context.Context, position *types.Position, league *types.League) ([]types.PlayerRef, error)
	GetPlayer(ctx context.Context, playerID uuid.UUID) (types.PlayerRef, error)
}
