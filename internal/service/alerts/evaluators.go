package alerts

import (
	"fmt"
	"time"

	"github.com/mbodji/aviary/internal/domain/models"
)

const dateLayout = "2006-01-02"

const (
	healthDueWindowDays    = 7
	hatchingWindowStartDay = 16
	hatchingWindowEndDay   = 18
	weaningAgeDays         = 28
	saleReadyAgeDays       = 60
	vaccinationLookbackMon = 6
)

// The evaluators are pure: no I/O, no clock reads beyond the now argument.
// Missing dates mean the rule does not fire, never an error. All day
// arithmetic is date-only so results do not flap with time of day.

// EvaluateHealth raises a high-priority alert for every health record whose
// next due date falls within the next seven days, today inclusive.
func EvaluateHealth(snapshot *models.OwnerSnapshot, now time.Time) []models.Alert {
	var out []models.Alert
	for _, record := range snapshot.HealthRecords {
		if record.NextDueDate == nil {
			continue
		}
		daysUntil := daysBetween(now, *record.NextDueDate)
		if daysUntil < 0 || daysUntil > healthDueWindowDays {
			continue
		}

		due := *record.NextDueDate
		out = append(out, models.Alert{
			Type:     models.AlertHealth,
			Priority: models.PriorityHigh,
			OwnerID:  snapshot.OwnerID,
			Title:    "Health treatment due",
			Message: fmt.Sprintf("A %s for %s %s is due on %s.",
				record.RecordType, record.TargetType, record.TargetID, due.Format(dateLayout)),
			Payload: models.AlertPayload{
				TargetType:  record.TargetType,
				TargetID:    record.TargetID,
				TriggerDate: due.Format(dateLayout),
				DueDate:     &due,
			},
		})
	}
	return out
}

// EvaluateHatching raises a medium-priority alert for every incubating egg
// slot whose lay date is 16 to 18 days ago and that has not hatched yet.
func EvaluateHatching(snapshot *models.OwnerSnapshot, now time.Time) []models.Alert {
	var out []models.Alert
	for _, clutch := range snapshot.Clutches {
		if clutch.Status != models.ClutchIncubating {
			continue
		}
		slots := []struct {
			slot  int
			laid  *time.Time
			hatch *time.Time
		}{
			{1, clutch.Egg1LaidDate, clutch.Hatch1Date},
			{2, clutch.Egg2LaidDate, clutch.Hatch2Date},
		}
		for _, egg := range slots {
			if egg.laid == nil || egg.hatch != nil {
				continue
			}
			daysSinceLaying := daysBetween(*egg.laid, now)
			if daysSinceLaying < hatchingWindowStartDay || daysSinceLaying > hatchingWindowEndDay {
				continue
			}
			out = append(out, models.Alert{
				Type:     models.AlertHatching,
				Priority: models.PriorityMedium,
				OwnerID:  snapshot.OwnerID,
				Title:    "Egg close to hatching",
				Message: fmt.Sprintf("Egg %d of clutch %s was laid %d days ago and should hatch soon.",
					egg.slot, clutch.ID, daysSinceLaying),
				Payload: models.AlertPayload{
					TargetType:      models.TargetPair,
					TargetID:        clutch.ID,
					EggSlot:         egg.slot,
					TriggerDate:     egg.laid.Format(dateLayout),
					DaysSinceLaying: daysSinceLaying,
				},
			})
		}
	}
	return out
}

// EvaluateWeaning raises a medium-priority alert for every alive hatchling at
// least 28 days old that has no weaning date yet.
func EvaluateWeaning(snapshot *models.OwnerSnapshot, now time.Time) []models.Alert {
	var out []models.Alert
	for _, h := range snapshot.Hatchlings {
		if h.Status != models.HatchlingAlive || h.WeaningDate != nil || h.BirthDate.IsZero() {
			continue
		}
		age := daysBetween(h.BirthDate, now)
		if age < weaningAgeDays {
			continue
		}
		out = append(out, models.Alert{
			Type:     models.AlertWeaning,
			Priority: models.PriorityMedium,
			OwnerID:  snapshot.OwnerID,
			Title:    "Hatchling ready for weaning",
			Message:  fmt.Sprintf("Hatchling %s is %d days old and ready to be weaned.", h.ID, age),
			Payload: models.AlertPayload{
				TargetType:  models.TargetHatchling,
				TargetID:    h.ID,
				TriggerDate: h.BirthDate.Format(dateLayout),
				AgeDays:     age,
			},
		})
	}
	return out
}

// EvaluateVaccination raises a high-priority alert for every active pair with
// no vaccination record performed within the last six months.
func EvaluateVaccination(snapshot *models.OwnerSnapshot, now time.Time) []models.Alert {
	cutoff := now.AddDate(0, -vaccinationLookbackMon, 0)

	var out []models.Alert
	for _, pair := range snapshot.Pairs {
		if pair.Status != models.PairActive {
			continue
		}
		vaccinated := false
		for _, record := range snapshot.HealthRecords {
			if record.RecordType != models.HealthVaccination ||
				record.TargetType != models.TargetPair ||
				record.TargetID != pair.ID {
				continue
			}
			if record.PerformedDate.After(cutoff) {
				vaccinated = true
				break
			}
		}
		if vaccinated {
			continue
		}
		out = append(out, models.Alert{
			Type:     models.AlertVaccination,
			Priority: models.PriorityHigh,
			OwnerID:  snapshot.OwnerID,
			Title:    "Vaccination overdue",
			Message:  fmt.Sprintf("Pair %s (nest %s) has no vaccination recorded in the last 6 months.", pair.ID, pair.NestLabel),
			Payload: models.AlertPayload{
				TargetType: models.TargetPair,
				TargetID:   pair.ID,
			},
		})
	}
	return out
}

// EvaluateSales raises a low-priority alert for every alive hatchling at least
// 60 days old that no sale record references.
func EvaluateSales(snapshot *models.OwnerSnapshot, now time.Time) []models.Alert {
	sold := make(map[string]bool, len(snapshot.SaleRecords))
	for _, sale := range snapshot.SaleRecords {
		if sale.TargetType == models.TargetHatchling && sale.TargetID != "" {
			sold[sale.TargetID] = true
		}
	}

	var out []models.Alert
	for _, h := range snapshot.Hatchlings {
		if h.Status != models.HatchlingAlive || h.BirthDate.IsZero() || sold[h.ID] {
			continue
		}
		age := daysBetween(h.BirthDate, now)
		if age < saleReadyAgeDays {
			continue
		}
		out = append(out, models.Alert{
			Type:     models.AlertSales,
			Priority: models.PriorityLow,
			OwnerID:  snapshot.OwnerID,
			Title:    "Hatchling ready for sale",
			Message:  fmt.Sprintf("Hatchling %s is %d days old and has no sale recorded.", h.ID, age),
			Payload: models.AlertPayload{
				TargetType:  models.TargetHatchling,
				TargetID:    h.ID,
				TriggerDate: h.BirthDate.Format(dateLayout),
				AgeDays:     age,
			},
		})
	}
	return out
}

// EvaluateAll runs every evaluator and concatenates the candidates in a fixed
// order.
func EvaluateAll(snapshot *models.OwnerSnapshot, now time.Time) []models.Alert {
	var out []models.Alert
	out = append(out, EvaluateHealth(snapshot, now)...)
	out = append(out, EvaluateHatching(snapshot, now)...)
	out = append(out, EvaluateWeaning(snapshot, now)...)
	out = append(out, EvaluateVaccination(snapshot, now)...)
	out = append(out, EvaluateSales(snapshot, now)...)
	return out
}

// daysBetween counts whole days from a to b after truncating both to their
// calendar date.
func daysBetween(a, b time.Time) int {
	return dayNumber(b) - dayNumber(a)
}

func dayNumber(t time.Time) int {
	year, month, day := t.Date()
	return int(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}
