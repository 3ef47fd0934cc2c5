package models

import "time"

// PushStatus tracks a push item through its delivery lifecycle.
type PushStatus string

const (
	PushPending PushStatus = "pending"
	PushSent    PushStatus = "sent"
	PushRead    PushStatus = "read"
)

// PushNotification is the durable record of an alert escalated to the push
// channel. Only critical alerts reach this collection, and only when the
// owner's preferences allow push.
type PushNotification struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	OwnerID     string        `bson:"owner_id" json:"owner_id"`
	Type        AlertType     `bson:"alert_type" json:"type"`
	Priority    AlertPriority `bson:"priority" json:"priority"`
	Title       string        `bson:"title" json:"title"`
	Message     string        `bson:"message" json:"message"`
	TargetType  TargetType    `bson:"target_type,omitempty" json:"target_type,omitempty"`
	TargetID    string        `bson:"target_id,omitempty" json:"target_id,omitempty"`
	EggSlot     int           `bson:"egg_slot,omitempty" json:"egg_slot,omitempty"`
	TriggerDate string        `bson:"trigger_date,omitempty" json:"trigger_date,omitempty"`
	Status      PushStatus    `bson:"status" json:"status"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	SentAt      *time.Time    `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
	ReadAt      *time.Time    `bson:"read_at,omitempty" json:"read_at,omitempty"`
}

// PushFromAlert builds the pending push row for a critical alert.
func PushFromAlert(a Alert, now time.Time) *PushNotification {
	return &PushNotification{
		OwnerID:     a.OwnerID,
		Type:        a.Type,
		Priority:    a.Priority,
		Title:       a.Title,
		Message:     a.Message,
		TargetType:  a.Payload.TargetType,
		TargetID:    a.Payload.TargetID,
		EggSlot:     a.Payload.EggSlot,
		TriggerDate: a.Payload.TriggerDate,
		Status:      PushPending,
		CreatedAt:   now,
	}
}
