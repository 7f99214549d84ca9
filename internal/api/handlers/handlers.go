// Package handlers exposes the engine operations over HTTP. The handlers are
// a thin layer: they parse identifiers, call the intelligence service and map
// errors to structured responses.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/scoutsight/intel-engine/internal/intelligence"
	"github.com/scoutsight/intel-engine/internal/providers"
	"github.com/scoutsight/intel-engine/pkg/types"
)

type Handlers struct {
	db      *gorm.DB
	redis   *redis.Client
	service *intelligence.Service
	logger  *logrus.Logger
}

func NewHandlers(db *gorm.DB, redisClient *redis.Client, service *intelligence.Service, logger *logrus.Logger) *Handlers {
	return &Handlers{
		db:      db,
		redis:   redisClient,
		service: service,
		logger:  logger,
	}
}

func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "intel-engine",
	})
}

func (h *Handlers) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "database connection failed",
		})
		return
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "redis connection failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}

// AnalyzeInjuryRisk handles GET /api/v1/players/:id/injury-risk
func (h *Handlers) AnalyzeInjuryRisk(c *gin.Context) {
	playerID, ok := h.parsePlayerID(c)
	if !ok {
		return
	}

	analysis, err := h.service.AnalyzeInjuryRisk(c.Request.Context(), playerID)
	if err != nil {
		h.renderError(c, err, "injury risk analysis")
		return
	}
	c.JSON(http.StatusOK, analysis)
}

// CalculatePlayerValue handles GET /api/v1/players/:id/valuation
func (h *Handlers) CalculatePlayerValue(c *gin.Context) {
	playerID, ok := h.parsePlayerID(c)
	if !ok {
		return
	}

	valuation, err := h.service.CalculatePlayerValue(c.Request.Context(), playerID)
	if err != nil {
		h.renderError(c, err, "player valuation")
		return
	}
	c.JSON(http.StatusOK, valuation)
}

// GetLiveMatchPredictions handles GET /api/v1/matches/:matchId/predictions
func (h *Handlers) GetLiveMatchPredictions(c *gin.Context) {
	matchID := c.Param("matchId")

	predictions, err := h.service.GetLiveMatchPredictions(c.Request.Context(), matchID)
	if err != nil {
		h.renderError(c, err, "match predictions")
		return
	}
	c.JSON(http.StatusOK, predictions)
}

// GetLivePlayerData handles GET /api/v1/matches/:matchId/players
func (h *Handlers) GetLivePlayerData(c *gin.Context) {
	matchID := c.Param("matchId")

	data, err := h.service.GetLivePlayerData(c.Request.Context(), matchID)
	if err != nil {
		h.renderError(c, err, "live player data")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"match_id": matchID,
		"players":  data,
	})
}

// BuildPlayerIntelligence handles GET /api/v1/players/:id/intelligence?match_id=
func (h *Handlers) BuildPlayerIntelligence(c *gin.Context) {
	playerID, ok := h.parsePlayerID(c)
	if !ok {
		return
	}
	matchID := c.Query("match_id")

	report, err := h.service.BuildPlayerIntelligence(c.Request.Context(), playerID, matchID)
	if err != nil {
		h.renderError(c, err, "player intelligence")
		return
	}
	c.JSON(http.StatusOK, report)
}

// ClubInjuryAlerts handles GET /api/v1/clubs/:clubId/injury-alerts
func (h *Handlers) ClubInjuryAlerts(c *gin.Context) {
	clubID := c.Param("clubId")

	alerts, err := h.service.ClubInjuryAlerts(c.Request.Context(), clubID)
	if err != nil {
		h.renderError(c, err, "club injury alerts")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"club_id": clubID,
		"alerts":  alerts,
	})
}

// ClubDashboard handles GET /api/v1/clubs/:clubId/dashboard
func (h *Handlers) ClubDashboard(c *gin.Context) {
	clubID := c.Param("clubId")

	dashboard, err := h.service.ClubDashboard(c.Request.Context(), clubID)
	if err != nil {
		h.renderError(c, err, "club dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// MarketOpportunityScan handles GET /api/v1/market/opportunities?position=&league=
func (h *Handlers) MarketOpportunityScan(c *gin.Context) {
	var position *types.Position
	var league *types.League

	if p := c.Query("position"); p != "" {
		pos := types.Position(p)
		position = &pos
	}
	if l := c.Query("league"); l != "" {
		lg := types.League(l)
		league = &lg
	}

	opportunities, err := h.service.MarketOpportunityScan(c.Request.Context(), position, league)
	if err != nil {
		h.renderError(c, err, "market opportunity scan")
		return
	}
	c.JSON(http.StatusOK, gin.H{"opportunities": opportunities})
}

func (h *Handlers) parsePlayerID(c *gin.Context) (uuid.UUID, bool) {
	playerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid player id",
			"code":  "INVALID_ID",
		})
		return uuid.Nil, false
	}
	return playerID, true
}

// renderError maps engine errors to structured responses: missing upstream
// records become 404, invariant violations and everything else become a
// calculation-failed 500 without leaking internals.
func (h *Handlers) renderError(c *gin.Context, err error, operation string) {
	if errors.Is(err, providers.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "not found",
			"code":  "NOT_FOUND",
		})
		return
	}

	h.logger.WithError(err).WithField("operation", operation).Error("Calculation failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "calculation failed",
		"code":  "CALCULATION_FAILED",
	})
}
