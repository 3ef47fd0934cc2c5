package push

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/service/alerts"
)

// dedupWindow is how long an existing pending/sent push item suppresses a new
// one for the same natural key.
const dedupWindow = 24 * time.Hour

// Repository is the persistence surface the push dispatcher needs.
type Repository interface {
	HasActivePushByKey(ctx context.Context, key models.AlertKey, since time.Time) (bool, error)
	InsertPush(ctx context.Context, p *models.PushNotification) error
	MarkPushSent(ctx context.Context, id string, at time.Time) error
	MarkPushRead(ctx context.Context, id, ownerID string) error
	ListPush(ctx context.Context, ownerID string, limit int64) ([]models.PushNotification, error)
}

// Dispatcher persists and marks push-channel items for critical alerts.
type Dispatcher struct {
	repo   Repository
	logger *zap.Logger
}

// NewDispatcher wires a new push dispatcher.
func NewDispatcher(repo Repository, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{repo: repo, logger: logger}
}

// MaybeDispatch escalates a critical alert to the push channel. It returns
// false without error when the owner disabled push, the alert is not critical,
// the owner's quiet hours apply, or a pending/sent item for the same natural
// key already exists within the last 24 hours. Persistence failures are
// returned to the caller; the orchestrator records them without aborting the
// owner's remaining dispatches.
func (d *Dispatcher) MaybeDispatch(ctx context.Context, alert models.Alert, pref *models.NotificationPreference) (bool, error) {
	if pref == nil || !pref.PushEnabled {
		return false, nil
	}
	if !alerts.IsCritical(alert, pref) {
		return false, nil
	}

	now := time.Now()
	if pref.InQuietHours(now) {
		d.logger.Debug("push suppressed by quiet hours",
			zap.String("owner_id", alert.OwnerID), zap.String("alert_type", string(alert.Type)))
		return false, nil
	}

	key := alert.Key()
	exists, err := d.repo.HasActivePushByKey(ctx, key, now.Add(-dedupWindow))
	if err != nil {
		return false, fmt.Errorf("check push dedup window: %w", err)
	}
	if exists {
		return false, nil
	}

	item := models.PushFromAlert(alert, now)
	if err := d.repo.InsertPush(ctx, item); err != nil {
		return false, fmt.Errorf("persist push item: %w", err)
	}
	if err := d.repo.MarkPushSent(ctx, item.ID, now); err != nil {
		return false, fmt.Errorf("mark push sent: %w", err)
	}

	d.logger.Info("push dispatched",
		zap.String("owner_id", alert.OwnerID),
		zap.String("alert_type", string(alert.Type)),
		zap.String("push_id", item.ID))
	return true, nil
}

// MarkRead transitions a sent push item to read.
func (d *Dispatcher) MarkRead(ctx context.Context, id, ownerID string) error {
	return d.repo.MarkPushRead(ctx, id, ownerID)
}

// ListForOwner returns the owner's recent push items.
func (d *Dispatcher) ListForOwner(ctx context.Context, ownerID string, limit int64) ([]models.PushNotification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return d.repo.ListPush(ctx, ownerID, limit)
}
