package models

import "time"

// AlertType enumerates the conditions the rule evaluators can raise.
type AlertType string

const (
	AlertHealth      AlertType = "health"
	AlertHatching    AlertType = "hatching"
	AlertWeaning     AlertType = "weaning"
	AlertVaccination AlertType = "vaccination"
	AlertSales       AlertType = "sales"
)

// AlertPriority orders alerts for display and escalation.
type AlertPriority string

const (
	PriorityLow    AlertPriority = "low"
	PriorityMedium AlertPriority = "medium"
	PriorityHigh   AlertPriority = "high"
)

// AlertPayload carries the entity reference and the computed figures an alert
// was derived from. TriggerDate is a date-only string (2006-01-02) so the same
// unresolved condition maps to the same key on every run; it is empty for
// alerts with no stable triggering date (vaccination).
type AlertPayload struct {
	TargetType      TargetType `json:"target_type"`
	TargetID        string     `json:"target_id"`
	EggSlot         int        `json:"egg_slot,omitempty"`
	TriggerDate     string     `json:"trigger_date,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	DaysSinceLaying int        `json:"days_since_laying,omitempty"`
	AgeDays         int        `json:"age_days,omitempty"`
}

// Alert is a transient candidate produced by a rule evaluator. It is a pure
// function of entity state and the evaluation time; it carries no identity of
// its own beyond the natural key used for dedup.
type Alert struct {
	Type     AlertType     `json:"type"`
	Priority AlertPriority `json:"priority"`
	OwnerID  string        `json:"owner_id"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Payload  AlertPayload  `json:"payload"`
}

// AlertKey is the natural key that deduplicates alerts into at most one unread
// notification per unresolved condition.
type AlertKey struct {
	OwnerID     string
	Type        AlertType
	TargetType  TargetType
	TargetID    string
	EggSlot     int
	TriggerDate string
}

// Key derives the alert's natural key.
func (a Alert) Key() AlertKey {
	return AlertKey{
		OwnerID:     a.OwnerID,
		Type:        a.Type,
		TargetType:  a.Payload.TargetType,
		TargetID:    a.Payload.TargetID,
		EggSlot:     a.Payload.EggSlot,
		TriggerDate: a.Payload.TriggerDate,
	}
}
