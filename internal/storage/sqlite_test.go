package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Storage) *domain.User {
	t.Helper()
	u := &domain.User{TelegramID: 123456, Name: "Trai Nguyen", Role: domain.RoleAdmin}
	require.NoError(t, s.CreateUser(u))
	require.NotZero(t, u.ID)
	return u
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	u := createTestUser(t, s)

	got, err := s.GetUserByTelegramID(123456)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "Trai Nguyen", got.Name)
	assert.True(t, got.IsAdmin())

	missing, err := s.GetUserByTelegramID(999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestEventRoundTripWithCategoryAndReminders(t *testing.T) {
	s := newTestStorage(t)
	u := createTestUser(t, s)

	cat := &domain.Category{UserID: u.ID, Name: "Work", Color: "#ff0000"}
	require.NoError(t, s.CreateCategory(cat))

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	e := &domain.Event{
		UserID:      u.ID,
		Title:       "Họp đồ án",
		Description: "Báo cáo tiến độ",
		Location:    "Phòng B1",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		CategoryID:  &cat.ID,
	}
	require.NoError(t, s.CreateEvent(e))

	r := &domain.EventReminder{
		EventID:  e.ID,
		RemindAt: start.Add(-30 * time.Minute),
		Method:   domain.ReminderTelegram,
	}
	require.NoError(t, s.CreateEventReminder(r))

	got, err := s.GetEvent(e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Work", got.CategoryName)
	require.Len(t, got.Reminders, 1)
	assert.False(t, got.Reminders[0].IsSent())
}

func TestListEventsByRange(t *testing.T) {
	s := newTestStorage(t)
	u := createTestUser(t, s)

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	inside := &domain.Event{
		UserID:    u.ID,
		Title:     "Trong khoảng",
		StartTime: day.Add(9 * time.Hour),
		EndTime:   day.Add(10 * time.Hour),
	}
	outside := &domain.Event{
		UserID:    u.ID,
		Title:     "Ngoài khoảng",
		StartTime: day.AddDate(0, 0, 2),
		EndTime:   day.AddDate(0, 0, 2).Add(time.Hour),
	}
	require.NoError(t, s.CreateEvent(inside))
	require.NoError(t, s.CreateEvent(outside))

	events, err := s.ListEventsByRange(u.ID, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Trong khoảng", events[0].Title)

	week, err := s.ListEventsWeek(u.ID, day.Add(8*time.Hour))
	require.NoError(t, err)
	assert.Len(t, week, 2)
}

func TestDueReminders(t *testing.T) {
	s := newTestStorage(t)
	u := createTestUser(t, s)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	e := &domain.Event{
		UserID:    u.ID,
		Title:     "Sự kiện",
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	}
	require.NoError(t, s.CreateEvent(e))

	due := &domain.EventReminder{EventID: e.ID, RemindAt: now.Add(-time.Minute), Method: domain.ReminderTelegram}
	future := &domain.EventReminder{EventID: e.ID, RemindAt: now.Add(30 * time.Minute), Method: domain.ReminderTelegram}
	require.NoError(t, s.CreateEventReminder(due))
	require.NoError(t, s.CreateEventReminder(future))

	reminders, err := s.ListDueReminders(now)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, due.ID, reminders[0].ID)

	require.NoError(t, s.MarkReminderSent(due.ID, now))

	reminders, err = s.ListDueReminders(now)
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

func TestCalDAVUIDLookupAndUpdate(t *testing.T) {
	s := newTestStorage(t)
	u := createTestUser(t, s)

	start := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	e := &domain.Event{
		UserID:    u.ID,
		CalDAVUID: "abc-123@icloud",
		Title:     "Imported",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
	require.NoError(t, s.CreateEvent(e))

	got, err := s.GetEventByCalDAVUID("abc-123@icloud")
	require.NoError(t, err)
	require.NotNil(t, got)

	got.Title = "Imported v2"
	require.NoError(t, s.UpdateEvent(got))

	again, err := s.GetEvent(got.ID)
	require.NoError(t, err)
	assert.Equal(t, "Imported v2", again.Title)

	imported, err := s.ListImportedEvents(u.ID)
	require.NoError(t, err)
	assert.Len(t, imported, 1)
}

func TestFeedbackRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	u := createTestUser(t, s)

	f := &domain.Feedback{UserID: u.ID, Subject: "Góp ý", Message: "Thêm chế độ tối"}
	require.NoError(t, s.CreateFeedback(f))

	list, err := s.ListFeedback()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Góp ý", list[0].Subject)
}
