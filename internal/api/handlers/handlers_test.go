package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scoutsight/intel-engine/internal/intelligence"
	"github.com/scoutsight/intel-engine/internal/providers"
	"github.com/scoutsight/intel-engine/pkg/types"
)

// emptyProviders returns not-found or empty data for every lookup
type emptyProviders struct{}

func (emptyProviders) GetRecentMovementPatterns(context.Context, uuid.UUID, int) ([]types.MovementSample, error) {
	return nil, nil
}

func (emptyProviders) GetRecentPerformanceMetrics(context.Context, uuid.UUID, int) (types.PerformanceMetrics, error) {
	return types.PerformanceMetrics{}, nil
}

func (emptyProviders) GetWorkloadData(context.Context, uuid.UUID, int) (types.WorkloadMetrics, error) {
	return types.WorkloadMetrics{}, nil
}

func (emptyProviders) GetLivePlayerStats(context.Context, uuid.UUID, string) (types.LivePlayerState, error) {
	return types.LivePlayerState{}, providers.ErrNotFound
}

func (emptyProviders) GetPlayerHistory(context.Context, uuid.UUID, int) ([]types.MatchHistoryRecord, error) {
	return nil, nil
}

func (emptyProviders) GetPositionMarketTrends(context.Context, types.Position) (*types.MarketTrend, error) {
	return nil, nil
}

func (emptyProviders) GetRecentTransfers(context.Context, int) ([]types.TransferRecord, error) {
	return nil, nil
}

func (emptyProviders) GetLeagueForClub(context.Context, string) (types.League, error) {
	return types.LeagueOther, nil
}

func (emptyProviders) GetLiveMatch(context.Context, string) (types.MatchSnapshot, error) {
	return types.MatchSnapshot{}, providers.ErrNotFound
}

func (emptyProviders) GetMatchPlayers(context.Context, string) ([]types.PlayerRef, error) {
	return nil, nil
}

func (emptyProviders) GetLiveTeamStats(context.Context, string) (types.LiveTeamStats, error) {
	return types.LiveTeamStats{}, nil
}

func (emptyProviders) GetClubPlayers(context.Context, string) ([]types.PlayerRef, error) {
	return nil, nil
}

func (emptyProviders) GetAvailablePlayers(context.Context, *types.Position, *types.League) ([]types.PlayerRef, error) {
	return nil, nil
}

func (emptyProviders) GetPlayer(context.Context, uuid.UUID) (types.PlayerRef, error) {
	return types.PlayerRef{}, providers.ErrNotFound
}

func testHandlers() *Handlers {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	p := emptyProviders{}
	service := intelligence.NewService(p, p, p, p, logger)
	return NewHandlers(nil, nil, service, logger)
}

func performRequest(method, path string, register func(*gin.Engine)) *httptest.ResponseRecorder {
	router := gin.New()
	register(router)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	h := testHandlers()

	w := performRequest(http.MethodGet, "/health", func(r *gin.Engine) {
		r.GET("/health", h.HealthCheck)
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "intel-engine", body["service"])
}

func TestAnalyzeInjuryRisk_InvalidID(t *testing.T) {
	h := testHandlers()

	w := performRequest(http.MethodGet, "/players/not-a-uuid/injury-risk", func(r *gin.Engine) {
		r.GET("/players/:id/injury-risk", h.AnalyzeInjuryRisk)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INVALID_ID", body["code"])
}

func TestAnalyzeInjuryRisk_UnknownPlayerIs404(t *testing.T) {
	h := testHandlers()

	w := performRequest(http.MethodGet, "/players/"+uuid.NewString()+"/injury-risk", func(r *gin.Engine) {
		r.GET("/players/:id/injury-risk", h.AnalyzeInjuryRisk)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "not found", body["error"])
}

func TestGetLiveMatchPredictions_UnknownMatchIs404(t *testing.T) {
	h := testHandlers()

	w := performRequest(http.MethodGet, "/matches/nope/predictions", func(r *gin.Engine) {
		r.GET("/matches/:matchId/predictions", h.GetLiveMatchPredictions)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCalculatePlayerValue_UnknownPlayerIs404(t *testing.T) {
	h := testHandlers()

	w := performRequest(http.MethodGet, "/players/"+uuid.NewString()+"/valuation", func(r *gin.Engine) {
		r.GET("/players/:id/valuation", h.CalculatePlayerValue)
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarketOpportunityScan_EmptyMarket(t *testing.T) {
	h := testHandlers()

	w := performRequest(http.MethodGet, "/market/opportunities?position=striker", func(r *gin.Engine) {
		r.GET("/market/opportunities", h.MarketOpportunityScan)
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Opportunities []types.MarketOpportunity `json:"opportunities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body.Opportunities)
}
