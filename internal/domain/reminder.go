package domain

import "time"

type ReminderMethod string

const (
	ReminderTelegram ReminderMethod = "telegram"
	ReminderEmail    ReminderMethod = "email"
)

// EventReminder is a single notification scheduled before an event
type EventReminder struct {
	ID        int64
	EventID   int64
	RemindAt  time.Time
	Method    ReminderMethod
	SentAt    *time.Time
	CreatedAt time.Time
}

func (r *EventReminder) IsSent() bool {
	return r.SentAt != nil
}
