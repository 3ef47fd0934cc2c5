package alerts

import (
	"testing"

	"github.com/mbodji/aviary/internal/domain/models"
)

func TestIsCritical(t *testing.T) {
	defaultPref := models.DefaultPreference("owner-1")
	everythingPref := models.DefaultPreference("owner-1")
	everythingPref.CriticalAlertsOnly = false

	testCases := []struct {
		name     string
		alert    models.Alert
		pref     *models.NotificationPreference
		expected bool
	}{
		{
			"health high",
			models.Alert{Type: models.AlertHealth, Priority: models.PriorityHigh},
			defaultPref,
			true,
		},
		{
			"vaccination high",
			models.Alert{Type: models.AlertVaccination, Priority: models.PriorityHigh},
			defaultPref,
			true,
		},
		{
			"hatching at 16 days",
			models.Alert{Type: models.AlertHatching, Priority: models.PriorityMedium,
				Payload: models.AlertPayload{DaysSinceLaying: 16}},
			defaultPref,
			false,
		},
		{
			"hatching at 17 days",
			models.Alert{Type: models.AlertHatching, Priority: models.PriorityMedium,
				Payload: models.AlertPayload{DaysSinceLaying: 17}},
			defaultPref,
			true,
		},
		{
			"hatching at 18 days",
			models.Alert{Type: models.AlertHatching, Priority: models.PriorityMedium,
				Payload: models.AlertPayload{DaysSinceLaying: 18}},
			defaultPref,
			true,
		},
		{
			"weaning never critical",
			models.Alert{Type: models.AlertWeaning, Priority: models.PriorityMedium},
			defaultPref,
			false,
		},
		{
			"sales never critical, even without criticalAlertsOnly",
			models.Alert{Type: models.AlertSales, Priority: models.PriorityLow},
			everythingPref,
			false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCritical(tc.alert, tc.pref); got != tc.expected {
				t.Errorf("IsCritical = %v, expected %v", got, tc.expected)
			}
		})
	}
}
