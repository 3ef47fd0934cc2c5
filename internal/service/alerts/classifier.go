package alerts

import "github.com/mbodji/aviary/internal/domain/models"

// criticalHatchingDays is deliberately inside the 16-18 hatching window: days
// 17 and 18 escalate while day 16 stays a plain notification.
const criticalHatchingDays = 17

// IsCritical decides whether an alert escalates to the push channel. Sales and
// weaning alerts are never critical. The preference is part of the contract
// for future tuning but does not change what counts as critical today;
// criticalAlertsOnly gates forwarding, not classification.
func IsCritical(alert models.Alert, _ *models.NotificationPreference) bool {
	switch alert.Type {
	case models.AlertHealth, models.AlertVaccination:
		return alert.Priority == models.PriorityHigh
	case models.AlertHatching:
		return alert.Payload.DaysSinceLaying >= criticalHatchingDays
	default:
		return false
	}
}
