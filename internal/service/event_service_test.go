package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *storage.Storage, telegramID int64) *domain.User {
	t.Helper()
	u := &domain.User{TelegramID: telegramID, Name: "Trai Nguyen", Role: domain.RoleMember}
	require.NoError(t, s.CreateUser(u))
	return u
}

func TestEventCreateValidation(t *testing.T) {
	s := newTestStorage(t)
	svc := NewEventService(s, nil, "", time.UTC)
	user := createTestUser(t, s, 1001)

	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)

	_, err := svc.Create(user.ID, &domain.Event{Title: "   ", StartTime: start, EndTime: start.Add(time.Hour)})
	assert.Error(t, err)

	_, err = svc.Create(user.ID, &domain.Event{Title: "Họp nhóm", EndTime: start.Add(time.Hour)})
	assert.Error(t, err)

	_, err = svc.Create(user.ID, &domain.Event{Title: "Họp nhóm", StartTime: start, EndTime: start})
	assert.Error(t, err)

	created, err := svc.Create(user.ID, &domain.Event{Title: "Họp nhóm", StartTime: start, EndTime: start.Add(time.Hour)})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, user.ID, created.UserID)
}

func TestEventOwnershipChecks(t *testing.T) {
	s := newTestStorage(t)
	svc := NewEventService(s, nil, "", time.UTC)
	owner := createTestUser(t, s, 1001)
	other := createTestUser(t, s, 1002)

	start := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC)
	event, err := svc.Create(owner.ID, &domain.Event{Title: "Học nhóm", StartTime: start, EndTime: start.Add(time.Hour)})
	require.NoError(t, err)

	err = svc.Delete(event.ID, other.ID)
	assert.Error(t, err)

	event.Title = "Học nhóm (dời lịch)"
	assert.Error(t, svc.Update(other.ID, event))

	require.NoError(t, svc.Update(owner.ID, event))
	require.NoError(t, svc.Delete(event.ID, owner.ID))

	got, err := svc.Get(event.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFormatEventListGroupsByDate(t *testing.T) {
	s := newTestStorage(t)
	svc := NewEventService(s, nil, "", time.UTC)
	user := createTestUser(t, s, 1001)

	day1 := time.Date(2025, 11, 10, 9, 0, 0, 0, time.UTC) // Monday
	day2 := day1.AddDate(0, 0, 1)

	for _, e := range []*domain.Event{
		{Title: "Họp đồ án", StartTime: day1, EndTime: day1.Add(time.Hour), Location: "Phòng A1"},
		{Title: "Thi giữa kỳ", StartTime: day2, EndTime: day2.Add(2 * time.Hour)},
	} {
		_, err := svc.Create(user.ID, e)
		require.NoError(t, err)
	}

	events, err := svc.ListRange(user.ID, day1.AddDate(0, 0, -1), day2.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 2)

	text := svc.FormatEventList(events)
	assert.Contains(t, text, "Thứ 2, 10/11:")
	assert.Contains(t, text, "Thứ 3, 11/11:")
	assert.Contains(t, text, "Họp đồ án")
	assert.Contains(t, text, "📍Phòng A1")
}

func TestFormatEventListEmpty(t *testing.T) {
	svc := NewEventService(nil, nil, "", time.UTC)
	assert.Equal(t, "Không có sự kiện nào", svc.FormatEventList(nil))
}

func TestReminderCreateBeforeRejectsPast(t *testing.T) {
	s := newTestStorage(t)
	eventSvc := NewEventService(s, nil, "", time.UTC)
	reminderSvc := NewReminderService(s, time.UTC)
	user := createTestUser(t, s, 1001)

	start := time.Now().UTC().Add(10 * time.Minute)
	event, err := eventSvc.Create(user.ID, &domain.Event{Title: "Nộp báo cáo", StartTime: start, EndTime: start.Add(time.Hour)})
	require.NoError(t, err)

	// 60 minutes before a start 10 minutes away is already in the past
	_, err = reminderSvc.CreateBefore(event.ID, user.ID, 60, domain.ReminderTelegram)
	assert.Error(t, err)

	r, err := reminderSvc.CreateBefore(event.ID, user.ID, 5, domain.ReminderTelegram)
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(-5*time.Minute), r.RemindAt, time.Second)
}

func TestDailyDigestEmptyDay(t *testing.T) {
	s := newTestStorage(t)
	svc := NewAssistantService(s, time.UTC)
	user := createTestUser(t, s, 1001)

	text, err := svc.DailyDigest(user.ID)
	require.NoError(t, err)
	assert.Contains(t, text, "không có sự kiện nào")
}
