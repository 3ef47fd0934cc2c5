package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/repository/mongodb"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	sweepBatchSize   = 200
)

// Repository is the persistence surface the notification store needs.
type Repository interface {
	ExistsUnreadByKey(ctx context.Context, key models.AlertKey) (bool, error)
	InsertNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, ownerID string, filter models.NotificationFilter) ([]models.Notification, error)
	CountUnread(ctx context.Context, ownerID string) (int64, error)
	MarkNotificationRead(ctx context.Context, id, ownerID string) error
	MarkAllNotificationsRead(ctx context.Context, ownerID string) (int64, error)
	DeleteNotification(ctx context.Context, id, ownerID string) error
	DeleteReadNotifications(ctx context.Context, ownerID string) (int64, error)
	ArchiveBatch(ctx context.Context, cutoff time.Time, hardDelete bool, limit int64) (int64, error)
}

// Store is the dedup-aware notification persistence service.
type Store struct {
	repo       Repository
	hardDelete bool
	logger     *zap.Logger
}

// NewStore wires a new notification store. hardDelete selects whether the
// retention sweep deletes rows instead of archiving them.
func NewStore(repo Repository, hardDelete bool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, hardDelete: hardDelete, logger: logger}
}

// UpsertIfAbsent records the alert as a notification unless an unread
// notification with the same natural key already exists. This check-then-insert
// is the idempotency boundary: re-running the orchestrator on unchanged state
// creates nothing. A duplicate-key rejection from a concurrent run is a
// success no-op, not an error.
func (s *Store) UpsertIfAbsent(ctx context.Context, alert models.Alert) (bool, error) {
	key := alert.Key()
	exists, err := s.repo.ExistsUnreadByKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check unread by key: %w", err)
	}
	if exists {
		return false, nil
	}

	notification := models.NotificationFromAlert(alert, time.Now())
	if err := s.repo.InsertNotification(ctx, notification); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			s.logger.Debug("lost dedup race, treating as no-op",
				zap.String("owner_id", key.OwnerID), zap.String("alert_type", string(key.Type)))
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListForOwner returns the owner's notifications with optional read/type
// filters. Limits are clamped to keep the endpoint cheap.
func (s *Store) ListForOwner(ctx context.Context, ownerID string, filter models.NotificationFilter) ([]models.Notification, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	return s.repo.ListNotifications(ctx, ownerID, filter)
}

// UnreadCount returns the owner's unread notification count.
func (s *Store) UnreadCount(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.CountUnread(ctx, ownerID)
}

// MarkRead flips one notification to read.
func (s *Store) MarkRead(ctx context.Context, id, ownerID string) error {
	return s.repo.MarkNotificationRead(ctx, id, ownerID)
}

// MarkAllRead flips every unread notification for the owner.
func (s *Store) MarkAllRead(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.MarkAllNotificationsRead(ctx, ownerID)
}

// Delete removes one notification.
func (s *Store) Delete(ctx context.Context, id, ownerID string) error {
	return s.repo.DeleteNotification(ctx, id, ownerID)
}

// DeleteRead removes all of the owner's read notifications.
func (s *Store) DeleteRead(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.DeleteReadNotifications(ctx, ownerID)
}

// ArchiveSweep archives (or hard-deletes, per configuration) every read
// notification older than retentionDays. Work proceeds in id-ordered batches
// so the sweep never holds a long lock against live traffic. Returns the total
// rows affected.
func (s *Store) ArchiveSweep(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	var total int64
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		affected, err := s.repo.ArchiveBatch(ctx, cutoff, s.hardDelete, sweepBatchSize)
		if err != nil {
			return total, fmt.Errorf("archive sweep batch: %w", err)
		}
		total += affected
		if affected < sweepBatchSize {
			break
		}
	}

	if total > 0 {
		s.logger.Info("retention sweep complete",
			zap.Int64("affected", total),
			zap.Int("retention_days", retentionDays),
			zap.Bool("hard_delete", s.hardDelete))
	}
	return total, nil
}
