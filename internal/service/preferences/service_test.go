package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/repository/mongodb"
)

type fakePrefRepo struct {
	stored map[string]*models.NotificationPreference
	getErr error
}

func newFakePrefRepo() *fakePrefRepo {
	return &fakePrefRepo{stored: make(map[string]*models.NotificationPreference)}
}

func (f *fakePrefRepo) GetPreference(_ context.Context, ownerID string) (*models.NotificationPreference, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if pref, ok := f.stored[ownerID]; ok {
		clone := *pref
		return &clone, nil
	}
	return nil, mongodb.ErrPreferenceNotFound
}

func (f *fakePrefRepo) SavePreference(_ context.Context, pref *models.NotificationPreference) error {
	clone := *pref
	f.stored[pref.OwnerID] = &clone
	return nil
}

func TestResolveReturnsDefaultsWithoutWriting(t *testing.T) {
	repo := newFakePrefRepo()
	svc := NewService(repo, nil)

	pref, err := svc.Resolve(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !pref.PushEnabled || !pref.EmailEnabled || pref.SMSEnabled {
		t.Errorf("Unexpected default channels: push=%v email=%v sms=%v",
			pref.PushEnabled, pref.EmailEnabled, pref.SMSEnabled)
	}
	if !pref.CriticalAlertsOnly {
		t.Error("Expected criticalAlertsOnly default to be true")
	}
	if pref.QuietHoursStart != "00:00" || pref.QuietHoursEnd != "00:00" {
		t.Errorf("Expected disabled quiet hours, got %s-%s", pref.QuietHoursStart, pref.QuietHoursEnd)
	}
	if pref.Timezone != "UTC" {
		t.Errorf("Expected UTC timezone, got %s", pref.Timezone)
	}
	if len(repo.stored) != 0 {
		t.Error("Resolve must not lazily persist defaults")
	}
}

func TestResolveReturnsStoredRow(t *testing.T) {
	repo := newFakePrefRepo()
	stored := models.DefaultPreference("owner-1")
	stored.PushEnabled = false
	repo.stored["owner-1"] = stored

	svc := NewService(repo, nil)
	pref, err := svc.Resolve(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if pref.PushEnabled {
		t.Error("Expected the stored row, not defaults")
	}
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	repo := newFakePrefRepo()
	repo.getErr = errors.New("store down")

	svc := NewService(repo, nil)
	if _, err := svc.Resolve(context.Background(), "owner-1"); err == nil {
		t.Fatal("Expected a store error to propagate")
	}
}

func TestSaveForcesSMSOffAndValidates(t *testing.T) {
	repo := newFakePrefRepo()
	svc := NewService(repo, nil)

	pref := models.DefaultPreference("owner-1")
	pref.SMSEnabled = true
	pref.Timezone = "Europe/Paris"

	saved, err := svc.Save(context.Background(), pref)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if saved.SMSEnabled {
		t.Error("Expected SMS to be forced off")
	}
	if saved.UpdatedAt.IsZero() {
		t.Error("Expected UpdatedAt to be set")
	}

	bad := models.DefaultPreference("owner-1")
	bad.Timezone = "Not/AZone"
	if _, err := svc.Save(context.Background(), bad); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("Expected ErrInvalidPreference, got %v", err)
	}

	if _, err := svc.Save(context.Background(), &models.NotificationPreference{Timezone: "UTC"}); !errors.Is(err, ErrInvalidPreference) {
		t.Errorf("Expected ErrInvalidPreference for missing owner, got %v", err)
	}
}

func TestResetOverwritesWithDefaults(t *testing.T) {
	repo := newFakePrefRepo()
	custom := models.DefaultPreference("owner-1")
	custom.PushEnabled = false
	custom.CriticalAlertsOnly = false
	repo.stored["owner-1"] = custom

	svc := NewService(repo, nil)
	pref, err := svc.Reset(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !pref.PushEnabled || !pref.CriticalAlertsOnly {
		t.Error("Expected reset to restore defaults")
	}
	if stored := repo.stored["owner-1"]; !stored.PushEnabled {
		t.Error("Expected the stored row to be overwritten")
	}
}
