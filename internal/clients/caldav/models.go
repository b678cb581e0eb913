package caldav

import "time"

// Calendar is a remote calendar collection
type Calendar struct {
	ID          string
	DisplayName string
	URL         string
}

// Event is a VEVENT pulled from a remote calendar
type Event struct {
	UID         string
	Summary     string
	Description string
	Location    string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
}
