package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/repository/mongodb"
)

// NotificationStore maps 1:1 onto the notification query surface.
type NotificationStore interface {
	ListForOwner(ctx context.Context, ownerID string, filter models.NotificationFilter) ([]models.Notification, error)
	UnreadCount(ctx context.Context, ownerID string) (int64, error)
	MarkRead(ctx context.Context, id, ownerID string) error
	MarkAllRead(ctx context.Context, ownerID string) (int64, error)
	Delete(ctx context.Context, id, ownerID string) error
	DeleteRead(ctx context.Context, ownerID string) (int64, error)
}

// PushStore exposes the owner-facing push operations.
type PushStore interface {
	MarkRead(ctx context.Context, id, ownerID string) error
	ListForOwner(ctx context.Context, ownerID string, limit int64) ([]models.PushNotification, error)
}

// NotificationsHandler exposes the notification and push query endpoints.
// Owner identity arrives as a query parameter; session handling lives in the
// outer gateway and is out of scope here.
type NotificationsHandler struct {
	store  NotificationStore
	push   PushStore
	logger *zap.Logger
}

// NewNotificationsHandler constructs the HTTP handler adapter.
func NewNotificationsHandler(store NotificationStore, push PushStore, logger *zap.Logger) *NotificationsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationsHandler{store: store, push: push, logger: logger}
}

func ownerID(c *gin.Context) (string, bool) {
	id := c.Query("owner_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id is required"})
		return "", false
	}
	return id, true
}

// List returns the owner's notifications with optional read/type filters.
func (h *NotificationsHandler) List(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	filter := models.NotificationFilter{}
	if raw := c.Query("read"); raw != "" {
		isRead, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "read must be a boolean"})
			return
		}
		filter.IsRead = &isRead
	}
	if raw := c.Query("type"); raw != "" {
		filter.Type = models.AlertType(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}

	notifications, err := h.store.ListForOwner(c.Request.Context(), owner, filter)
	if err != nil {
		h.logger.Error("failed listing notifications", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list notifications"})
		return
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// UnreadCount returns the owner's unread notification count.
func (h *NotificationsHandler) UnreadCount(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	count, err := h.store.UnreadCount(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed counting unread", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to count notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkRead flips one notification to read.
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	err := h.store.MarkRead(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("failed marking notification read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to update notification"})
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllRead flips every unread notification for the owner.
func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	updated, err := h.store.MarkAllRead(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed marking all read", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to update notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Delete removes one notification.
func (h *NotificationsHandler) Delete(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	err := h.store.Delete(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		h.logger.Error("failed deleting notification", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to delete notification"})
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteRead removes all of the owner's read notifications.
func (h *NotificationsHandler) DeleteRead(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	deleted, err := h.store.DeleteRead(c.Request.Context(), owner)
	if err != nil {
		h.logger.Error("failed deleting read notifications", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to delete notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ListPush returns the owner's recent push items.
func (h *NotificationsHandler) ListPush(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = parsed
	}

	items, err := h.push.ListForOwner(c.Request.Context(), owner, limit)
	if err != nil {
		h.logger.Error("failed listing push items", zap.String("owner_id", owner), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to list push notifications"})
		return
	}
	if items == nil {
		items = []models.PushNotification{}
	}

	c.JSON(http.StatusOK, gin.H{"push_notifications": items})
}

// MarkPushRead transitions a sent push item to read.
func (h *NotificationsHandler) MarkPushRead(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	err := h.push.MarkRead(c.Request.Context(), c.Param("id"), owner)
	if err != nil {
		if errors.Is(err, mongodb.ErrPushNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "push notification not found"})
			return
		}
		h.logger.Error("failed marking push read", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to update push notification"})
		return
	}

	c.Status(http.StatusNoContent)
}
