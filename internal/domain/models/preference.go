package models

import (
	"strconv"
	"strings"
	"time"
)

// NotificationPreference holds one owner's channel toggles and quiet hours.
// SMS is reserved for a future channel and is always false.
type NotificationPreference struct {
	OwnerID            string    `bson:"_id" json:"owner_id"`
	PushEnabled        bool      `bson:"push_enabled" json:"push_enabled"`
	EmailEnabled       bool      `bson:"email_enabled" json:"email_enabled"`
	SMSEnabled         bool      `bson:"sms_enabled" json:"sms_enabled"`
	CriticalAlertsOnly bool      `bson:"critical_alerts_only" json:"critical_alerts_only"`
	QuietHoursStart    string    `bson:"quiet_hours_start" json:"quiet_hours_start"`
	QuietHoursEnd      string    `bson:"quiet_hours_end" json:"quiet_hours_end"`
	Timezone           string    `bson:"timezone" json:"timezone"`
	UpdatedAt          time.Time `bson:"updated_at" json:"updated_at"`
}

// DefaultPreference returns the value object used when an owner has never
// saved preferences. Quiet hours 00:00-00:00 means disabled.
func DefaultPreference(ownerID string) *NotificationPreference {
	return &NotificationPreference{
		OwnerID:            ownerID,
		PushEnabled:        true,
		EmailEnabled:       true,
		SMSEnabled:         false,
		CriticalAlertsOnly: true,
		QuietHoursStart:    "00:00",
		QuietHoursEnd:      "00:00",
		Timezone:           "UTC",
	}
}

// InQuietHours reports whether now falls inside the owner's quiet-hours window,
// evaluated in the owner's timezone. Equal start and end means no window.
// Windows crossing midnight (e.g. 22:00-07:00) are supported.
func (p *NotificationPreference) InQuietHours(now time.Time) bool {
	start, okStart := parseClockMinutes(p.QuietHoursStart)
	end, okEnd := parseClockMinutes(p.QuietHoursEnd)
	if !okStart || !okEnd || start == end {
		return false
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	minute := local.Hour()*60 + local.Minute()

	if start < end {
		return minute >= start && minute < end
	}
	return minute >= start || minute < end
}

func parseClockMinutes(value string) (int, bool) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}
