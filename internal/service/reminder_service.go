package service

import (
	"fmt"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

type ReminderService struct {
	storage  *storage.Storage
	timezone *time.Location
}

func NewReminderService(s *storage.Storage, tz *time.Location) *ReminderService {
	if tz == nil {
		tz = time.UTC
	}
	return &ReminderService{
		storage:  s,
		timezone: tz,
	}
}

// CreateBefore schedules a reminder minutesBefore the event starts
func (s *ReminderService) CreateBefore(eventID, userID int64, minutesBefore int, method domain.ReminderMethod) (*domain.EventReminder, error) {
	if minutesBefore <= 0 {
		return nil, fmt.Errorf("minutes before must be positive")
	}

	event, err := s.storage.GetEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event not found")
	}
	if event.UserID != userID {
		return nil, fmt.Errorf("access denied")
	}

	remindAt := event.StartTime.Add(-time.Duration(minutesBefore) * time.Minute)
	if remindAt.Before(time.Now().In(s.timezone)) {
		return nil, fmt.Errorf("reminder time is already in the past")
	}

	if method == "" {
		method = domain.ReminderTelegram
	}

	reminder := &domain.EventReminder{
		EventID:  eventID,
		RemindAt: remindAt,
		Method:   method,
	}

	if err := s.storage.CreateEventReminder(reminder); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}

	return reminder, nil
}

func (s *ReminderService) ListByEvent(eventID int64) ([]*domain.EventReminder, error) {
	return s.storage.ListRemindersByEvent(eventID)
}

// GetDue returns unsent reminders that should fire now
func (s *ReminderService) GetDue() ([]*domain.EventReminder, error) {
	now := time.Now().In(s.timezone)
	return s.storage.ListDueReminders(now)
}

func (s *ReminderService) MarkSent(reminderID int64) error {
	now := time.Now().In(s.timezone)
	return s.storage.MarkReminderSent(reminderID, now)
}

func (s *ReminderService) Delete(reminderID, userID int64) error {
	reminder, err := s.storage.GetReminder(reminderID)
	if err != nil {
		return fmt.Errorf("get reminder: %w", err)
	}
	if reminder == nil {
		return fmt.Errorf("reminder not found")
	}

	event, err := s.storage.GetEvent(reminder.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if event == nil || event.UserID != userID {
		return fmt.Errorf("access denied")
	}

	return s.storage.DeleteReminder(reminderID)
}
