package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/service/preferences"
)

// PreferenceService is the settings pass-through the UI talks to.
type PreferenceService interface {
	Resolve(ctx context.Context, ownerID string) (*models.NotificationPreference, error)
	Save(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error)
	Reset(ctx context.Context, ownerID string) (*models.NotificationPreference, error)
}

// PreferencesHandler exposes the owner settings endpoints.
type PreferencesHandler struct {
	svc    PreferenceService
	logger *zap.Logger
}

// NewPreferencesHandler constructs the HTTP handler adapter.
func NewPreferencesHandler(svc PreferenceService, logger *zap.Logger) *PreferencesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferencesHandler{svc: svc, logger: logger}
}

// Get returns the owner's effective preferences (stored or defaults).
func (h *PreferencesHandler) Get(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	pref, err := h.svc.Resolve(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed resolving preferences", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to load preferences"})
		return
	}

	c.JSON(http.StatusOK, pref)
}

type savePreferenceRequest struct {
	OwnerID            string `json:"owner_id" binding:"required"`
	PushEnabled        bool   `json:"push_enabled"`
	EmailEnabled       bool   `json:"email_enabled"`
	CriticalAlertsOnly bool   `json:"critical_alerts_only"`
	QuietHoursStart    string `json:"quiet_hours_start"`
	QuietHoursEnd      string `json:"quiet_hours_end"`
	Timezone           string `json:"timezone"`
}

// Save persists the owner's preferences.
func (h *PreferencesHandler) Save(c *gin.Context) {
	var req savePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Timezone == "" {
		req.Timezone = "UTC"
	}
	if req.QuietHoursStart == "" {
		req.QuietHoursStart = "00:00"
	}
	if req.QuietHoursEnd == "" {
		req.QuietHoursEnd = "00:00"
	}

	pref, err := h.svc.Save(c.Request.Context(), &models.NotificationPreference{
		OwnerID:            req.OwnerID,
		PushEnabled:        req.PushEnabled,
		EmailEnabled:       req.EmailEnabled,
		CriticalAlertsOnly: req.CriticalAlertsOnly,
		QuietHoursStart:    req.QuietHoursStart,
		QuietHoursEnd:      req.QuietHoursEnd,
		Timezone:           req.Timezone,
	})
	if err != nil {
		if errors.Is(err, preferences.ErrInvalidPreference) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("failed saving preferences", zap.String("owner_id", req.OwnerID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to save preferences"})
		return
	}

	c.JSON(http.StatusOK, pref)
}

// Reset overwrites the owner's preferences with the defaults.
func (h *PreferencesHandler) Reset(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	pref, err := h.svc.Reset(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed resetting preferences", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to reset preferences"})
		return
	}

	c.JSON(http.StatusOK, pref)
}
