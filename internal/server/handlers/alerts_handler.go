package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/service/alerts"
)

// AlertRunner is the orchestration surface the HTTP layer can trigger.
type AlertRunner interface {
	RunForOwner(ctx context.Context, ownerID string, now time.Time) (*models.RunResult, error)
	RunGlobal(ctx context.Context, now time.Time) (*models.GlobalRunResult, error)
}

// AlertsHandler exposes the admin trigger endpoints.
type AlertsHandler struct {
	runner AlertRunner
	logger *zap.Logger
}

// NewAlertsHandler constructs the HTTP handler adapter.
func NewAlertsHandler(runner AlertRunner, logger *zap.Logger) *AlertsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertsHandler{runner: runner, logger: logger}
}

type runOwnerRequest struct {
	OwnerID string `json:"owner_id" binding:"required"`
}

// RunForOwner triggers the alert pipeline for a single owner.
func (h *AlertsHandler) RunForOwner(c *gin.Context) {
	var req runOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return
	}

	result, err := h.runner.RunForOwner(c.Request.Context(), req.OwnerID, time.Now())
	if err != nil {
		var snapErr *alerts.SnapshotReadError
		if errors.As(err, &snapErr) {
			h.logger.Error("owner snapshot unreadable", zap.String("owner_id", req.OwnerID), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "owner records could not be read"})
			return
		}
		h.logger.Error("owner alert run failed", zap.String("owner_id", req.OwnerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "alert run failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// RunGlobal triggers the alert pipeline for every active owner.
func (h *AlertsHandler) RunGlobal(c *gin.Context) {
	result, err := h.runner.RunGlobal(c.Request.Context(), time.Now())
	if err != nil {
		h.logger.Error("global alert run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "global alert run failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
