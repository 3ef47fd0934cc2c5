package models

import "time"

// Notification is the durable in-app item created from an alert. The natural
// key fields mirror AlertKey as structured columns so dedup is an indexed
// equality filter rather than message-text matching.
type Notification struct {
	ID          string        `bson:"_id,omitempty" json:"id"`
	OwnerID     string        `bson:"owner_id" json:"owner_id"`
	Title       string        `bson:"title" json:"title"`
	Message     string        `bson:"message" json:"message"`
	Type        AlertType     `bson:"alert_type" json:"type"`
	Priority    AlertPriority `bson:"priority" json:"priority"`
	TargetType  TargetType    `bson:"target_type,omitempty" json:"target_type,omitempty"`
	TargetID    string        `bson:"target_id,omitempty" json:"target_id,omitempty"`
	EggSlot     int           `bson:"egg_slot,omitempty" json:"egg_slot,omitempty"`
	TriggerDate string        `bson:"trigger_date,omitempty" json:"trigger_date,omitempty"`
	IsRead      bool          `bson:"is_read" json:"is_read"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	ReadAt      *time.Time    `bson:"read_at,omitempty" json:"read_at,omitempty"`
	ArchivedAt  *time.Time    `bson:"archived_at,omitempty" json:"archived_at,omitempty"`
}

// NotificationFromAlert builds the durable row for a freshly raised alert.
func NotificationFromAlert(a Alert, now time.Time) *Notification {
	return &Notification{
		OwnerID:     a.OwnerID,
		Title:       a.Title,
		Message:     a.Message,
		Type:        a.Type,
		Priority:    a.Priority,
		TargetType:  a.Payload.TargetType,
		TargetID:    a.Payload.TargetID,
		EggSlot:     a.Payload.EggSlot,
		TriggerDate: a.Payload.TriggerDate,
		CreatedAt:   now,
	}
}

// NotificationFilter narrows owner-scoped notification listings.
type NotificationFilter struct {
	IsRead *bool
	Type   AlertType
	Limit  int64
}
