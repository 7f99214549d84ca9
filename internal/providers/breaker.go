package providers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/scoutsight/intel-engine/pkg/types"
)

// BreakerTelemetry wraps a telemetry provider with a circuit breaker. The
// video-analysis and telemetry upstreams are the flakiest collaborators; when
// one trips, callers get the breaker error immediately instead of piling up.
type BreakerTelemetry struct {
	upstream TelemetryProvider
	breaker  *gobreaker.CircuitBreaker
	logger   *logrus.Logger
}

// NewBreakerTelemetry creates a circuit-broken telemetry provider
func NewBreakerTelemetry(upstream TelemetryProvider, logger *logrus.Logger) *BreakerTelemetry {
	settings := gobreaker.Settings{
		Name:        "telemetry",
		MaxRequests: 3,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &BreakerTelemetry{
		upstream: upstream,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		logger:   logger,
	}
}

func (b *BreakerTelemetry) GetRecentMovementPatterns(ctx context.Context, playerID uuid.UUID, days int) ([]types.MovementSample, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.upstream.GetRecentMovementPatterns(ctx, playerID, days)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.MovementSample), nil
}

func (b *BreakerTelemetry) GetRecentPerformanceMetrics(ctx context.Context, playerID uuid.UUID, days int) (types.PerformanceMetrics, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.upstream.GetRecentPerformanceMetrics(ctx, playerID, days)
	})
	if err != nil {
		return types.PerformanceMetrics{}, err
	}
	return result.(types.PerformanceMetrics), nil
}

func (b *BreakerTelemetry) GetWorkloadData(ctx context.Context, playerID uuid.UUID, days int) (types.WorkloadMetrics, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.upstream.GetWorkloadData(ctx, playerID, days)
	})
	if err != nil {
		return types.WorkloadMetrics{}, err
	}
	return result.(types.WorkloadMetrics), nil
}

func (b *BreakerTelemetry) GetLivePlayerStats(ctx context.Context, playerID uuid.UUID, matchID string) (types.LivePlayerState, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.upstream.GetLivePlayerStats(ctx, playerID, matchID)
	})
	if err != nil {
		return types.LivePlayerState{}, err
	}
	return result.(types.LivePlayerState), nil
}

func (b *BreakerTelemetry) GetPlayerHistory(ctx context.Context, playerID uuid.UUID, count int) ([]types.MatchHistoryRecord, error) {
	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.upstream.GetPlayerHistory(ctx, playerID, count)
	})
	if err != nil {
		return nil, err
	}
	return result.([]types.MatchHistoryRecord), nil
}

// State returns the current breaker state for readiness reporting
func (b *BreakerTelemetry) State() gobreaker.State {
	return b.breaker.State()
}
