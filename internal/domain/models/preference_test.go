package models

import (
	"testing"
	"time"
)

func TestInQuietHours(t *testing.T) {
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 8, 28, hour, minute, 0, 0, time.UTC)
	}

	testCases := []struct {
		name     string
		start    string
		end      string
		timezone string
		now      time.Time
		expected bool
	}{
		{"disabled by default", "00:00", "00:00", "UTC", at(3, 0), false},
		{"inside same-day window", "13:00", "15:00", "UTC", at(14, 0), true},
		{"before same-day window", "13:00", "15:00", "UTC", at(12, 59), false},
		{"end is exclusive", "13:00", "15:00", "UTC", at(15, 0), false},
		{"start is inclusive", "13:00", "15:00", "UTC", at(13, 0), true},
		{"overnight window, late evening", "22:00", "07:00", "UTC", at(23, 30), true},
		{"overnight window, early morning", "22:00", "07:00", "UTC", at(6, 59), true},
		{"overnight window, daytime", "22:00", "07:00", "UTC", at(12, 0), false},
		{"timezone shifts the window", "13:00", "15:00", "Europe/Paris", at(12, 30), true},
		{"malformed start disables the window", "25:00", "07:00", "UTC", at(3, 0), false},
		{"malformed end disables the window", "22:00", "late", "UTC", at(23, 0), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pref := DefaultPreference("owner-1")
			pref.QuietHoursStart = tc.start
			pref.QuietHoursEnd = tc.end
			pref.Timezone = tc.timezone

			if got := pref.InQuietHours(tc.now); got != tc.expected {
				t.Errorf("InQuietHours = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestAlertKeyStability(t *testing.T) {
	alert := Alert{
		Type: AlertHatching, Priority: PriorityMedium, OwnerID: "owner-1",
		Payload: AlertPayload{
			TargetType: TargetPair, TargetID: "clutch-1", EggSlot: 2, TriggerDate: "2026-08-10",
			DaysSinceLaying: 17,
		},
	}

	if alert.Key() != alert.Key() {
		t.Error("Expected the natural key to be deterministic")
	}

	other := alert
	other.Payload.EggSlot = 1
	if alert.Key() == other.Key() {
		t.Error("Expected different egg slots to produce different keys")
	}
}
