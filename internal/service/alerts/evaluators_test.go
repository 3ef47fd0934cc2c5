package alerts

import (
	"testing"
	"time"

	"github.com/mbodji/aviary/internal/domain/models"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func datePtr(t time.Time) *time.Time { return &t }

func daysAgo(days int) time.Time { return testNow.AddDate(0, 0, -days) }

func daysAhead(days int) time.Time { return testNow.AddDate(0, 0, days) }

func TestEvaluateHealthDueWindow(t *testing.T) {
	testCases := []struct {
		name       string
		nextDue    *time.Time
		expectFire bool
	}{
		{"due today", datePtr(testNow), true},
		{"due in 7 days", datePtr(daysAhead(7)), true},
		{"due in 3 days", datePtr(daysAhead(3)), true},
		{"due in 8 days", datePtr(daysAhead(8)), false},
		{"due yesterday", datePtr(daysAgo(1)), false},
		{"no due date", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := &models.OwnerSnapshot{
				OwnerID: "owner-1",
				HealthRecords: []models.HealthRecord{{
					ID:            "hr-1",
					TargetType:    models.TargetPair,
					TargetID:      "pair-1",
					RecordType:    models.HealthTreatment,
					PerformedDate: daysAgo(30),
					NextDueDate:   tc.nextDue,
				}},
			}

			got := EvaluateHealth(snapshot, testNow)
			if tc.expectFire && len(got) != 1 {
				t.Fatalf("Expected exactly one health alert, got %d", len(got))
			}
			if !tc.expectFire && len(got) != 0 {
				t.Fatalf("Expected no health alert, got %d", len(got))
			}
			if tc.expectFire {
				alert := got[0]
				if alert.Type != models.AlertHealth {
					t.Errorf("Expected type health, got %s", alert.Type)
				}
				if alert.Priority != models.PriorityHigh {
					t.Errorf("Expected high priority, got %s", alert.Priority)
				}
				if alert.Payload.DueDate == nil {
					t.Error("Expected due date in payload")
				}
			}
		})
	}
}

func TestEvaluateHatchingWindow(t *testing.T) {
	testCases := []struct {
		name          string
		daysSinceLaid int
		expectFire    bool
	}{
		{"15 days", 15, false},
		{"16 days", 16, true},
		{"17 days", 17, true},
		{"18 days", 18, true},
		{"19 days", 19, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := &models.OwnerSnapshot{
				OwnerID: "owner-1",
				Clutches: []models.EggClutch{{
					ID:           "clutch-1",
					CoupleID:     "pair-1",
					Egg1LaidDate: datePtr(daysAgo(tc.daysSinceLaid)),
					Status:       models.ClutchIncubating,
				}},
			}

			got := EvaluateHatching(snapshot, testNow)
			if tc.expectFire != (len(got) == 1) {
				t.Fatalf("daysSinceLaying=%d: expected fire=%v, got %d alerts", tc.daysSinceLaid, tc.expectFire, len(got))
			}
			if tc.expectFire {
				if got[0].Payload.DaysSinceLaying != tc.daysSinceLaid {
					t.Errorf("Expected days_since_laying %d, got %d", tc.daysSinceLaid, got[0].Payload.DaysSinceLaying)
				}
				if got[0].Payload.EggSlot != 1 {
					t.Errorf("Expected egg slot 1, got %d", got[0].Payload.EggSlot)
				}
			}
		})
	}
}

func TestEvaluateHatchingSkipsHatchedAndMissing(t *testing.T) {
	snapshot := &models.OwnerSnapshot{
		OwnerID: "owner-1",
		Clutches: []models.EggClutch{
			{
				ID:           "clutch-hatched",
				Egg1LaidDate: datePtr(daysAgo(17)),
				Hatch1Date:   datePtr(daysAgo(1)),
				Status:       models.ClutchIncubating,
			},
			{
				ID:     "clutch-no-dates",
				Status: models.ClutchIncubating,
			},
			{
				ID:           "clutch-failed",
				Egg1LaidDate: datePtr(daysAgo(17)),
				Status:       models.ClutchFailed,
			},
		},
	}

	if got := EvaluateHatching(snapshot, testNow); len(got) != 0 {
		t.Fatalf("Expected no hatching alerts, got %d", len(got))
	}
}

func TestEvaluateHatchingBothSlots(t *testing.T) {
	snapshot := &models.OwnerSnapshot{
		OwnerID: "owner-1",
		Clutches: []models.EggClutch{{
			ID:           "clutch-1",
			Egg1LaidDate: datePtr(daysAgo(17)),
			Egg2LaidDate: datePtr(daysAgo(16)),
			Status:       models.ClutchIncubating,
		}},
	}

	got := EvaluateHatching(snapshot, testNow)
	if len(got) != 2 {
		t.Fatalf("Expected one alert per egg slot, got %d", len(got))
	}
	if got[0].Payload.EggSlot == got[1].Payload.EggSlot {
		t.Error("Expected distinct egg slots in payloads")
	}
}

func TestEvaluateWeaning(t *testing.T) {
	testCases := []struct {
		name       string
		hatchling  models.Hatchling
		expectFire bool
	}{
		{
			"28 days old, not weaned",
			models.Hatchling{ID: "h-1", BirthDate: daysAgo(28), Status: models.HatchlingAlive},
			true,
		},
		{
			"27 days old",
			models.Hatchling{ID: "h-2", BirthDate: daysAgo(27), Status: models.HatchlingAlive},
			false,
		},
		{
			"already weaned",
			models.Hatchling{ID: "h-3", BirthDate: daysAgo(40), WeaningDate: datePtr(daysAgo(5)), Status: models.HatchlingAlive},
			false,
		},
		{
			"dead",
			models.Hatchling{ID: "h-4", BirthDate: daysAgo(40), Status: models.HatchlingDead},
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := &models.OwnerSnapshot{OwnerID: "owner-1", Hatchlings: []models.Hatchling{tc.hatchling}}
			got := EvaluateWeaning(snapshot, testNow)
			if tc.expectFire != (len(got) == 1) {
				t.Fatalf("Expected fire=%v, got %d alerts", tc.expectFire, len(got))
			}
			if tc.expectFire && got[0].Payload.AgeDays < 28 {
				t.Errorf("Expected age >= 28 in payload, got %d", got[0].Payload.AgeDays)
			}
		})
	}
}

func TestEvaluateVaccination(t *testing.T) {
	pair := models.BreedingPair{ID: "pair-1", NestLabel: "A1", Status: models.PairActive}

	testCases := []struct {
		name       string
		records    []models.HealthRecord
		pairStatus models.PairStatus
		expectFire bool
	}{
		{"no records at all", nil, models.PairActive, true},
		{
			"recent vaccination",
			[]models.HealthRecord{{
				TargetType: models.TargetPair, TargetID: "pair-1",
				RecordType: models.HealthVaccination, PerformedDate: daysAgo(30),
			}},
			models.PairActive,
			false,
		},
		{
			"vaccination seven months ago",
			[]models.HealthRecord{{
				TargetType: models.TargetPair, TargetID: "pair-1",
				RecordType: models.HealthVaccination, PerformedDate: testNow.AddDate(0, -7, 0),
			}},
			models.PairActive,
			true,
		},
		{
			"recent treatment does not count",
			[]models.HealthRecord{{
				TargetType: models.TargetPair, TargetID: "pair-1",
				RecordType: models.HealthTreatment, PerformedDate: daysAgo(10),
			}},
			models.PairActive,
			true,
		},
		{"inactive pair", nil, models.PairInactive, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := pair
			p.Status = tc.pairStatus
			snapshot := &models.OwnerSnapshot{
				OwnerID:       "owner-1",
				Pairs:         []models.BreedingPair{p},
				HealthRecords: tc.records,
			}

			got := EvaluateVaccination(snapshot, testNow)
			if tc.expectFire != (len(got) == 1) {
				t.Fatalf("Expected fire=%v, got %d alerts", tc.expectFire, len(got))
			}
			if tc.expectFire && got[0].Priority != models.PriorityHigh {
				t.Errorf("Expected high priority, got %s", got[0].Priority)
			}
		})
	}
}

func TestEvaluateSales(t *testing.T) {
	testCases := []struct {
		name       string
		hatchling  models.Hatchling
		sales      []models.SaleRecord
		expectFire bool
	}{
		{
			"61 days, unsold",
			models.Hatchling{ID: "h-1", BirthDate: daysAgo(61), Status: models.HatchlingAlive},
			nil,
			true,
		},
		{
			"60 days exactly",
			models.Hatchling{ID: "h-2", BirthDate: daysAgo(60), Status: models.HatchlingAlive},
			nil,
			true,
		},
		{
			"59 days",
			models.Hatchling{ID: "h-3", BirthDate: daysAgo(59), Status: models.HatchlingAlive},
			nil,
			false,
		},
		{
			"already referenced by a sale",
			models.Hatchling{ID: "h-4", BirthDate: daysAgo(90), Status: models.HatchlingAlive},
			[]models.SaleRecord{{TargetType: models.TargetHatchling, TargetID: "h-4", Date: daysAgo(2), Amount: 40}},
			false,
		},
		{
			"free-form sale does not cover it",
			models.Hatchling{ID: "h-5", BirthDate: daysAgo(90), Status: models.HatchlingAlive},
			[]models.SaleRecord{{Date: daysAgo(2), Amount: 40}},
			true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			snapshot := &models.OwnerSnapshot{
				OwnerID:     "owner-1",
				Hatchlings:  []models.Hatchling{tc.hatchling},
				SaleRecords: tc.sales,
			}

			got := EvaluateSales(snapshot, testNow)
			if tc.expectFire != (len(got) == 1) {
				t.Fatalf("Expected fire=%v, got %d alerts", tc.expectFire, len(got))
			}
			if tc.expectFire && got[0].Priority != models.PriorityLow {
				t.Errorf("Expected low priority, got %s", got[0].Priority)
			}
		})
	}
}

func TestEvaluateAllTimeOfDayInsensitive(t *testing.T) {
	snapshot := &models.OwnerSnapshot{
		OwnerID: "owner-1",
		Hatchlings: []models.Hatchling{
			{ID: "h-1", BirthDate: daysAgo(28).Add(11 * time.Hour), Status: models.HatchlingAlive},
		},
	}

	morning := time.Date(2026, 8, 28, 0, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 8, 28, 23, 30, 0, 0, time.UTC)

	if len(EvaluateWeaning(snapshot, morning)) != len(EvaluateWeaning(snapshot, evening)) {
		t.Error("Expected day arithmetic to be independent of time of day")
	}
}

func TestEvaluateAllConcatenatesEveryRule(t *testing.T) {
	snapshot := &models.OwnerSnapshot{
		OwnerID: "owner-1",
		Pairs:   []models.BreedingPair{{ID: "pair-1", Status: models.PairActive}},
		Clutches: []models.EggClutch{{
			ID: "clutch-1", Egg1LaidDate: datePtr(daysAgo(17)), Status: models.ClutchIncubating,
		}},
		Hatchlings: []models.Hatchling{
			{ID: "h-1", BirthDate: daysAgo(65), Status: models.HatchlingAlive},
		},
		HealthRecords: []models.HealthRecord{{
			ID: "hr-1", TargetType: models.TargetPair, TargetID: "pair-1",
			RecordType: models.HealthTreatment, PerformedDate: daysAgo(20), NextDueDate: datePtr(daysAhead(2)),
		}},
	}

	got := EvaluateAll(snapshot, testNow)

	// health, hatching, weaning (65d > 28d), vaccination, sales.
	seen := map[models.AlertType]int{}
	for _, alert := range got {
		seen[alert.Type]++
	}
	for _, alertType := range []models.AlertType{
		models.AlertHealth, models.AlertHatching, models.AlertWeaning, models.AlertVaccination, models.AlertSales,
	} {
		if seen[alertType] != 1 {
			t.Errorf("Expected exactly one %s alert, got %d", alertType, seen[alertType])
		}
	}
}
