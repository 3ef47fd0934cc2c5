package preferences

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/repository/mongodb"
)

// ErrInvalidPreference indicates a save request with malformed fields.
var ErrInvalidPreference = errors.New("invalid notification preference")

// Repository is the persistence surface the resolver needs.
type Repository interface {
	GetPreference(ctx context.Context, ownerID string) (*models.NotificationPreference, error)
	SavePreference(ctx context.Context, pref *models.NotificationPreference) error
}

// Service resolves, saves and resets per-owner notification preferences.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService wires a new preference service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Resolve returns the owner's stored preferences, or the defaults when none
// were ever saved. Defaults are not written back; the stored row appears only
// when the owner explicitly saves.
func (s *Service) Resolve(ctx context.Context, ownerID string) (*models.NotificationPreference, error) {
	pref, err := s.repo.GetPreference(ctx, ownerID)
	if err != nil {
		if errors.Is(err, mongodb.ErrPreferenceNotFound) {
			return models.DefaultPreference(ownerID), nil
		}
		return nil, fmt.Errorf("resolve preference: %w", err)
	}
	return pref, nil
}

// Save validates and persists the owner's preferences. SMS is a reserved
// channel and is forced off.
func (s *Service) Save(ctx context.Context, pref *models.NotificationPreference) (*models.NotificationPreference, error) {
	if pref == nil || pref.OwnerID == "" {
		return nil, fmt.Errorf("%w: missing owner id", ErrInvalidPreference)
	}
	if _, err := time.LoadLocation(pref.Timezone); err != nil {
		return nil, fmt.Errorf("%w: unknown timezone %q", ErrInvalidPreference, pref.Timezone)
	}
	pref.SMSEnabled = false
	pref.UpdatedAt = time.Now()

	if err := s.repo.SavePreference(ctx, pref); err != nil {
		return nil, fmt.Errorf("save preference: %w", err)
	}
	return pref, nil
}

// Reset overwrites the owner's stored preferences with the defaults and
// returns them.
func (s *Service) Reset(ctx context.Context, ownerID string) (*models.NotificationPreference, error) {
	defaults := models.DefaultPreference(ownerID)
	defaults.UpdatedAt = time.Now()
	if err := s.repo.SavePreference(ctx, defaults); err != nil {
		return nil, fmt.Errorf("reset preference: %w", err)
	}
	s.logger.Info("preferences reset to defaults", zap.String("owner_id", ownerID))
	return defaults, nil
}
