package domain

import "time"

// Event represents a single schedule entry
type Event struct {
	ID           int64
	UserID       int64
	CalDAVUID    string // Set when imported from an external calendar
	Title        string
	Description  string
	Location     string
	StartTime    time.Time
	EndTime      time.Time
	AllDay       bool
	CategoryID   *int64
	CategoryName string // Joined from categories, free-form
	Reminders    []*EventReminder
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FormatTime returns formatted time for display
func (e *Event) FormatTime() string {
	if e.AllDay {
		return "Cả ngày"
	}
	if e.EndTime.IsZero() {
		return e.StartTime.Format("15:04")
	}
	return e.StartTime.Format("15:04") + " - " + e.EndTime.Format("15:04")
}

// FormatDateTime returns formatted date and time
func (e *Event) FormatDateTime() string {
	if e.AllDay {
		return e.StartTime.Format("02/01/2006") + " (cả ngày)"
	}
	return e.StartTime.Format("02/01/2006 15:04")
}

// DurationMins returns event length in minutes
func (e *Event) DurationMins() int {
	if e.EndTime.IsZero() || !e.EndTime.After(e.StartTime) {
		return 0
	}
	return int(e.EndTime.Sub(e.StartTime).Minutes())
}

// IsOnDay returns true if the event starts on the same calendar day as t
func (e *Event) IsOnDay(t time.Time) bool {
	s := e.StartTime.In(t.Location())
	return s.Year() == t.Year() && s.YearDay() == t.YearDay()
}

// HasValidTimes reports whether start and end form a usable interval
func (e *Event) HasValidTimes() bool {
	return !e.StartTime.IsZero() && e.EndTime.After(e.StartTime)
}
