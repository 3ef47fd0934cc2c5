package push

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mbodji/aviary/internal/domain/models"
	"github.com/mbodji/aviary/internal/repository/mongodb"
)

type fakePushRepo struct {
	items     []*models.PushNotification
	nextID    int
	insertErr error
}

func (f *fakePushRepo) key(p *models.PushNotification) models.AlertKey {
	return models.AlertKey{
		OwnerID: p.OwnerID, Type: p.Type, TargetType: p.TargetType,
		TargetID: p.TargetID, EggSlot: p.EggSlot, TriggerDate: p.TriggerDate,
	}
}

func (f *fakePushRepo) HasActivePushByKey(_ context.Context, key models.AlertKey, since time.Time) (bool, error) {
	for _, item := range f.items {
		if f.key(item) != key {
			continue
		}
		if item.Status != models.PushPending && item.Status != models.PushSent {
			continue
		}
		if item.CreatedAt.Before(since) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakePushRepo) InsertPush(_ context.Context, p *models.PushNotification) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.nextID++
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	f.items = append(f.items, p)
	return nil
}

func (f *fakePushRepo) MarkPushSent(_ context.Context, id string, at time.Time) error {
	for _, item := range f.items {
		if item.ID == id && item.Status == models.PushPending {
			item.Status = models.PushSent
			item.SentAt = &at
			return nil
		}
	}
	return mongodb.ErrPushNotFound
}

func (f *fakePushRepo) MarkPushRead(_ context.Context, id, ownerID string) error {
	for _, item := range f.items {
		if item.ID == id && item.OwnerID == ownerID && item.Status == models.PushSent {
			item.Status = models.PushRead
			now := time.Now()
			item.ReadAt = &now
			return nil
		}
	}
	return mongodb.ErrPushNotFound
}

func (f *fakePushRepo) ListPush(_ context.Context, ownerID string, limit int64) ([]models.PushNotification, error) {
	var out []models.PushNotification
	for _, item := range f.items {
		if item.OwnerID == ownerID {
			out = append(out, *item)
		}
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

func criticalHealthAlert(ownerID string) models.Alert {
	return models.Alert{
		Type: models.AlertHealth, Priority: models.PriorityHigh, OwnerID: ownerID,
		Title: "Health treatment due", Message: "due soon",
		Payload: models.AlertPayload{
			TargetType: models.TargetPair, TargetID: "pair-1", TriggerDate: "2026-09-01",
		},
	}
}

func TestMaybeDispatchGates(t *testing.T) {
	disabledPref := models.DefaultPreference("owner-1")
	disabledPref.PushEnabled = false

	testCases := []struct {
		name     string
		alert    models.Alert
		pref     *models.NotificationPreference
		expected bool
	}{
		{"push disabled", criticalHealthAlert("owner-1"), disabledPref, false},
		{
			"non-critical sales alert",
			models.Alert{Type: models.AlertSales, Priority: models.PriorityLow, OwnerID: "owner-1"},
			models.DefaultPreference("owner-1"),
			false,
		},
		{
			"hatching below critical threshold",
			models.Alert{Type: models.AlertHatching, Priority: models.PriorityMedium, OwnerID: "owner-1",
				Payload: models.AlertPayload{TargetID: "clutch-1", DaysSinceLaying: 16}},
			models.DefaultPreference("owner-1"),
			false,
		},
		{"critical health alert", criticalHealthAlert("owner-1"), models.DefaultPreference("owner-1"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDispatcher(&fakePushRepo{}, nil)
			got, err := d.MaybeDispatch(context.Background(), tc.alert, tc.pref)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("MaybeDispatch = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestMaybeDispatchMarksSent(t *testing.T) {
	repo := &fakePushRepo{}
	d := NewDispatcher(repo, nil)

	dispatched, err := d.MaybeDispatch(context.Background(), criticalHealthAlert("owner-1"), models.DefaultPreference("owner-1"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !dispatched {
		t.Fatal("Expected dispatch")
	}
	if len(repo.items) != 1 {
		t.Fatalf("Expected one push item, got %d", len(repo.items))
	}
	if repo.items[0].Status != models.PushSent {
		t.Errorf("Expected status sent, got %s", repo.items[0].Status)
	}
	if repo.items[0].SentAt == nil {
		t.Error("Expected sent_at to be set")
	}
}

func TestMaybeDispatchDedupWindow(t *testing.T) {
	repo := &fakePushRepo{}
	d := NewDispatcher(repo, nil)
	pref := models.DefaultPreference("owner-1")
	ctx := context.Background()

	if dispatched, _ := d.MaybeDispatch(ctx, criticalHealthAlert("owner-1"), pref); !dispatched {
		t.Fatal("Expected first dispatch")
	}
	dispatched, err := d.MaybeDispatch(ctx, criticalHealthAlert("owner-1"), pref)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dispatched {
		t.Fatal("Expected duplicate within 24h to be suppressed")
	}

	// A read item no longer suppresses.
	if err := repo.MarkPushRead(ctx, repo.items[0].ID, "owner-1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dispatched, _ := d.MaybeDispatch(ctx, criticalHealthAlert("owner-1"), pref); !dispatched {
		t.Fatal("Expected dispatch once the previous item was read")
	}
}

func TestMaybeDispatchQuietHours(t *testing.T) {
	pref := models.DefaultPreference("owner-1")
	now := time.Now().UTC()
	pref.QuietHoursStart = now.Add(-time.Hour).Format("15:04")
	pref.QuietHoursEnd = now.Add(time.Hour).Format("15:04")

	d := NewDispatcher(&fakePushRepo{}, nil)
	dispatched, err := d.MaybeDispatch(context.Background(), criticalHealthAlert("owner-1"), pref)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if dispatched {
		t.Error("Expected quiet hours to suppress the push")
	}
}

func TestMaybeDispatchPersistFailureSurfaces(t *testing.T) {
	repo := &fakePushRepo{insertErr: errors.New("disk full")}
	d := NewDispatcher(repo, nil)

	dispatched, err := d.MaybeDispatch(context.Background(), criticalHealthAlert("owner-1"), models.DefaultPreference("owner-1"))
	if err == nil {
		t.Fatal("Expected a persistence error to surface")
	}
	if dispatched {
		t.Error("Expected dispatched=false on failure")
	}
}
