package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/scoutsight/intel-engine/pkg/types"
)

// CachedMarketData is a redis read-through decorator around a market-data
// provider. Market trends and transfer lists change slowly, so they carry a
// long TTL; cache misses and redis failures fall through to the upstream.
type CachedMarketData struct {
	upstream MarketDataProvider
	redis    *redis.Client
	logger   *logrus.Logger

	trendTTL    time.Duration
	transferTTL time.Duration
}

// NewCachedMarketData creates a caching market-data decorator
func NewCachedMarketData(upstream MarketDataProvider, redisClient *redis.Client, logger *logrus.Logger) *CachedMarketData {
	return &CachedMarketData{
		upstream:    upstream,
		redis:       redisClient,
		logger:      logger,
		trendTTL:    15 * time.Minute,
		transferTTL: 1 * time.Hour,
	}
}

func (c *CachedMarketData) GetPositionMarketTrends(ctx context.Context, position types.Position) (*types.MarketTrend, error) {
	key := fmt.Sprintf("market:trend:%s", position)

	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var trend types.MarketTrend
		if err := json.Unmarshal([]byte(cached), &trend); err == nil {
			return &trend, nil
		}
	} else if err != redis.Nil {
		c.logger.WithError(err).Warn("Market trend cache read failed, falling through")
	}

	trend, err := c.upstream.GetPositionMarketTrends(ctx, position)
	if err != nil || trend == nil {
		return trend, err
	}

	if payload, err := json.Marshal(trend); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.trendTTL).Err(); err != nil {
			c.logger.WithError(err).Warn("Market trend cache write failed")
		}
	}
	return trend, nil
}

func (c *CachedMarketData) GetRecentTransfers(ctx context.Context, months int) ([]types.TransferRecord, error) {
	key := fmt.Sprintf("market:transfers:%dm", months)

	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var transfers []types.TransferRecord
		if err := json.Unmarshal([]byte(cached), &transfers); err == nil {
			return transfers, nil
		}
	} else if err != redis.Nil {
		c.logger.WithError(err).Warn("Transfer cache read failed, falling through")
	}

	transfers, err := c.upstream.GetRecentTransfers(ctx, months)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(transfers); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.transferTTL).Err(); err != nil {
			c.logger.WithError(err).Warn("Transfer cache write failed")
		}
	}
	return transfers, nil
}

func (c *CachedMarketData) GetLeagueForClub(ctx context.Context, club string) (types.League, error) {
	return c.upstream.GetLeagueForClub(ctx, club)
}

// WarmTrends pre-populates the trend cache for every position. Called by the
// refresh scheduler so request paths hit warm entries.
func (c *CachedMarketData) WarmTrends(ctx context.Context) error {
	positions := []types.Position{
		types.PositionStriker, types.PositionWinger, types.PositionAttackingMid,
		types.PositionCentralMid, types.PositionDefensiveMid, types.PositionFullBack,
		types.PositionCenterBack, types.PositionGoalkeeper,
	}

	for _, pos := range positions {
		key := fmt.Sprintf("market:trend:%s", pos)
		if err := c.redis.Del(ctx, key).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to invalidate trend cache for %s: %w", pos, err)
		}
		if _, err := c.GetPositionMarketTrends(ctx, pos); err != nil {
			return fmt.Errorf("failed to warm trend cache for %s: %w", pos, err)
		}
	}
	return nil
}

// CachedMatchData is a redis read-through decorator around a match-data
// provider with a short TTL: live snapshots go stale in seconds.
type CachedMatchData struct {
	upstream MatchDataProvider
	redis    *redis.Client
	logger   *logrus.Logger

	snapshotTTL time.Duration
}

// NewCachedMatchData creates a caching match-data decorator
func NewCachedMatchData(upstream MatchDataProvider, redisClient *redis.Client, logger *logrus.Logger) *CachedMatchData {
	return &CachedMatchData{
		upstream:    upstream,
		redis:       redisClient,
		logger:      logger,
		snapshotTTL: 10 * time.Second,
	}
}

func (c *CachedMatchData) GetLiveMatch(ctx context.Context, matchID string) (types.MatchSnapshot, error) {
	key := fmt.Sprintf("match:snapshot:%s", matchID)

	if cached, err := c.redis.Get(ctx, key).Result(); err == nil {
		var snapshot types.MatchSnapshot
		if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
			return snapshot, nil
		}
	} else if err != redis.Nil {
		c.logger.WithError(err).Warn("Match snapshot cache read failed, falling through")
	}

	snapshot, err := c.upstream.GetLiveMatch(ctx, matchID)
	if err != nil {
		return types.MatchSnapshot{}, err
	}

	if payload, err := json.Marshal(snapshot); err == nil {
		if err := c.redis.Set(ctx, key, payload, c.snapshotTTL).Err(); err != nil {
			c.logger.WithError(err).Warn("Match snapshot cache write failed")
		}
	}
	return snapshot, nil
}

func (c *CachedMatchData) GetMatchPlayers(ctx context.Context, matchID string) ([]types.PlayerRef, error) {
	return c.upstream.GetMatchPlayers(ctx, matchID)
}

func (c *CachedMatchData) GetLiveTeamStats(ctx context.Context, teamID string) (types.LiveTeamStats, error) {
	return c.upstream.GetLiveTeamStats(ctx, teamID)
}
