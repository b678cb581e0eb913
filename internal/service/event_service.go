package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/clients/caldav"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

// EventService handles schedule CRUD and syncing from an external calendar
type EventService struct {
	storage      *storage.Storage
	caldavClient *caldav.Client
	calendarPath string
	timezone     *time.Location
}

func NewEventService(s *storage.Storage, client *caldav.Client, calendarPath string, tz *time.Location) *EventService {
	if tz == nil {
		tz = time.UTC
	}
	return &EventService{
		storage:      s,
		caldavClient: client,
		calendarPath: calendarPath,
		timezone:     tz,
	}
}

// Create validates and stores a new event
func (s *EventService) Create(userID int64, e *domain.Event) (*domain.Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	if e.Title == "" {
		return nil, fmt.Errorf("event title cannot be empty")
	}
	if e.StartTime.IsZero() {
		return nil, fmt.Errorf("event start time is required")
	}
	if !e.EndTime.After(e.StartTime) {
		return nil, fmt.Errorf("event end time must be after start time")
	}

	e.UserID = userID
	if err := s.storage.CreateEvent(e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

func (s *EventService) Update(userID int64, e *domain.Event) error {
	existing, err := s.storage.GetEvent(e.ID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if existing == nil {
		return fmt.Errorf("event not found")
	}
	if existing.UserID != userID {
		return fmt.Errorf("access denied")
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("event end time must be after start time")
	}
	return s.storage.UpdateEvent(e)
}

func (s *EventService) Delete(eventID, userID int64) error {
	event, err := s.storage.GetEvent(eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return fmt.Errorf("event not found")
	}
	if event.UserID != userID {
		return fmt.Errorf("access denied")
	}
	return s.storage.DeleteEvent(eventID)
}

func (s *EventService) Get(eventID int64) (*domain.Event, error) {
	return s.storage.GetEvent(eventID)
}

// ListToday returns today's events
func (s *EventService) ListToday(userID int64) ([]*domain.Event, error) {
	return s.storage.ListEventsToday(userID, time.Now().In(s.timezone))
}

// ListWeek returns this week's events
func (s *EventService) ListWeek(userID int64) ([]*domain.Event, error) {
	return s.storage.ListEventsWeek(userID, time.Now().In(s.timezone))
}

// ListRange returns events in a date range
func (s *EventService) ListRange(userID int64, from, to time.Time) ([]*domain.Event, error) {
	return s.storage.ListEventsByRange(userID, from, to)
}

// FormatEventList formats events for display, grouped by date
func (s *EventService) FormatEventList(events []*domain.Event) string {
	if len(events) == 0 {
		return "Không có sự kiện nào"
	}

	var sb strings.Builder
	var currentDate string

	for _, e := range events {
		eventDate := e.StartTime.In(s.timezone).Format("02/01")

		if eventDate != currentDate {
			if currentDate != "" {
				sb.WriteString("\n")
			}
			dayName := vietnameseWeekday(e.StartTime.In(s.timezone).Weekday())
			sb.WriteString(fmt.Sprintf("📅 %s, %s:\n", dayName, eventDate))
			currentDate = eventDate
		}

		var line string
		if e.AllDay {
			line = fmt.Sprintf("  🗓 %s", e.Title)
		} else {
			line = fmt.Sprintf("  %s — %s", e.FormatTime(), e.Title)
		}

		if e.CategoryName != "" {
			line += fmt.Sprintf(" 📂%s", e.CategoryName)
		}
		if e.Location != "" {
			line += fmt.Sprintf(" 📍%s", e.Location)
		}

		sb.WriteString(line + "\n")
	}

	return sb.String()
}

// vietnameseWeekday returns Vietnamese weekday name
func vietnameseWeekday(wd time.Weekday) string {
	days := []string{"Chủ nhật", "Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7"}
	return days[wd]
}

// DiscoverCalendars lists the calendars available on the CalDAV server
func (s *EventService) DiscoverCalendars() ([]caldav.Calendar, error) {
	if s.caldavClient == nil || !s.caldavClient.IsConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}
	return s.caldavClient.DiscoverCalendars()
}

// IsImportConfigured returns true if CalDAV import can run
func (s *EventService) IsImportConfigured() bool {
	return s.caldavClient != nil && s.caldavClient.IsConfigured() && s.calendarPath != ""
}

// SyncResult contains import operation results
type SyncResult struct {
	Added   int
	Updated int
	Deleted int
	Errors  []string
}

// ImportFromCalDAV pulls events from the external calendar into local
// storage: new UIDs are created, changed ones updated, and imported
// events gone from the remote are removed.
func (s *EventService) ImportFromCalDAV(userID int64) (*SyncResult, error) {
	if !s.IsImportConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}

	result := &SyncResult{}

	from := time.Now().In(s.timezone).Truncate(24 * time.Hour)
	to := from.AddDate(0, 3, 0)

	remoteEvents, err := s.caldavClient.GetEvents(s.calendarPath, from, to)
	if err != nil {
		return nil, fmt.Errorf("get remote events: %w", err)
	}

	localEvents, err := s.storage.ListImportedEvents(userID)
	if err != nil {
		return nil, fmt.Errorf("get imported events: %w", err)
	}

	localByUID := make(map[string]*domain.Event)
	for _, e := range localEvents {
		localByUID[e.CalDAVUID] = e
	}

	seenUIDs := make(map[string]bool)

	for _, re := range remoteEvents {
		seenUIDs[re.UID] = true

		local, exists := localByUID[re.UID]
		if exists {
			if s.eventChanged(local, &re) {
				local.Title = re.Summary
				local.Description = re.Description
				local.Location = re.Location
				local.StartTime = re.StartTime
				local.EndTime = re.EndTime
				local.AllDay = re.AllDay

				if err := s.storage.UpdateEvent(local); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("update %s: %v", re.UID, err))
				} else {
					result.Updated++
				}
			}
			continue
		}

		event := &domain.Event{
			UserID:      userID,
			CalDAVUID:   re.UID,
			Title:       re.Summary,
			Description: re.Description,
			Location:    re.Location,
			StartTime:   re.StartTime,
			EndTime:     re.EndTime,
			AllDay:      re.AllDay,
		}
		if err := s.storage.CreateEvent(event); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("create %s: %v", re.UID, err))
		} else {
			result.Added++
		}
	}

	for uid, local := range localByUID {
		if !seenUIDs[uid] {
			if err := s.storage.DeleteEvent(local.ID); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("delete %s: %v", uid, err))
			} else {
				result.Deleted++
			}
		}
	}

	return result, nil
}

// eventChanged checks if the remote event differs from local
func (s *EventService) eventChanged(local *domain.Event, remote *caldav.Event) bool {
	if local.Title != remote.Summary {
		return true
	}
	if local.Description != remote.Description {
		return true
	}
	if local.Location != remote.Location {
		return true
	}
	if !local.StartTime.Equal(remote.StartTime) {
		return true
	}
	if !local.EndTime.Equal(remote.EndTime) {
		return true
	}
	if local.AllDay != remote.AllDay {
		return true
	}
	return false
}
