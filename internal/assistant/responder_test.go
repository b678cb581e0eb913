package assistant

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

func TestAnswerQuestionIntentPriority(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Matches both the free-time and busy-status keyword sets; the
	// free-time intent is checked first and must win.
	answer := AnswerQuestion("tôi có rảnh không, tôi có bận không", nil, now)

	require.NotNil(t, answer.Data)
	data, ok := answer.Data.(*FreeDaysData)
	require.True(t, ok, "expected free_days data, got %T", answer.Data)
	assert.Equal(t, "free_days", data.Type)
}

func TestAnswerQuestionFreeTimeWithSuggestions(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	answer := AnswerQuestion("tuần này xếp lịch họp vào ngày nào được?", nil, now)

	data := answer.Data.(*FreeDaysData)
	require.NotEmpty(t, data.Suggestions)
	assert.Contains(t, answer.Answer, "**")
	assert.Contains(t, answer.Answer, "Hôm nay")
}

func TestAnswerQuestionEventListEmptyToday(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	answer := AnswerQuestion("sự kiện hôm nay", nil, now)

	assert.Contains(t, answer.Answer, "không có sự kiện nào")
	data, ok := answer.Data.(*EventsListData)
	require.True(t, ok)
	assert.Equal(t, "events_list", data.Type)
	assert.Empty(t, data.Events)
}

func TestAnswerQuestionEventListResolvesTomorrow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	events := []*domain.Event{
		{
			Title:     "Họp đồ án",
			StartTime: time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC),
			Location:  "Phòng B1",
		},
		{
			Title:     "Sự kiện hôm nay",
			StartTime: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		},
	}

	answer := AnswerQuestion("liệt kê sự kiện ngày mai", events, now)

	data := answer.Data.(*EventsListData)
	require.Len(t, data.Events, 1)
	assert.Equal(t, "Họp đồ án", data.Events[0].Title)
	assert.Equal(t, 11, data.Date.Day())
	assert.Contains(t, answer.Answer, "Họp đồ án")
	assert.Contains(t, answer.Answer, "Phòng B1")
}

func TestAnswerQuestionEventListSortedByStart(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	events := []*domain.Event{
		{
			Title:     "Chiều",
			StartTime: time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC),
		},
		{
			Title:     "Sáng",
			StartTime: time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC),
			EndTime:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
	}

	answer := AnswerQuestion("chi tiết sự kiện hôm nay", events, now)

	data := answer.Data.(*EventsListData)
	require.Len(t, data.Events, 2)
	assert.Equal(t, "Sáng", data.Events[0].Title)
	assert.Equal(t, "Chiều", data.Events[1].Title)
}

func TestAnswerQuestionBusyStatusTiers(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	makeDay := func(hours ...int) []*domain.Event {
		var out []*domain.Event
		cursor := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
		for _, h := range hours {
			out = append(out, &domain.Event{
				Title:     "Bận",
				StartTime: cursor,
				EndTime:   cursor.Add(time.Duration(h) * time.Hour),
			})
			cursor = cursor.Add(time.Duration(h) * time.Hour)
		}
		return out
	}

	tests := []struct {
		name      string
		events    []*domain.Event
		wantHours float64
		wantText  string
	}{
		{"overloaded", makeDay(3, 3, 3), 9, "rất bận"},
		{"busy", makeDay(3, 3), 6, "khá bận"},
		{"light", makeDay(2), 2, "khá rảnh"},
		{"empty", nil, 0, "khá rảnh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := AnswerQuestion("hôm nay tôi có bận không", tt.events, now)

			data, ok := answer.Data.(*BusyStatusData)
			require.True(t, ok)
			assert.Equal(t, "busy_status", data.Type)
			assert.Equal(t, tt.wantHours, data.TotalHours)
			assert.Equal(t, len(tt.events), data.EventCount)
			assert.Contains(t, answer.Answer, tt.wantText)
		})
	}
}

func TestAnswerQuestionImportantEvents(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	critical := &domain.Event{
		Title:     "Nộp đồ án",
		StartTime: now.Add(30 * time.Minute),
		EndTime:   now.Add(90 * time.Minute),
		Location:  "Văn phòng khoa",
		Reminders: []*domain.EventReminder{{EventID: 1}},
	}
	low := &domain.Event{
		Title:     "Đi dạo",
		StartTime: now.Add(100 * time.Hour),
		EndTime:   now.Add(100*time.Hour + 10*time.Minute),
	}

	answer := AnswerQuestion("sự kiện nào quan trọng nhất?", []*domain.Event{low, critical}, now)

	data, ok := answer.Data.(*ImportantEventsData)
	require.True(t, ok)
	require.Len(t, data.Events, 1)
	assert.Equal(t, "Nộp đồ án", data.Events[0].Title)
	assert.Contains(t, answer.Answer, "Nộp đồ án")
}

func TestAnswerQuestionImportantEventsNone(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	low := &domain.Event{
		Title:     "Đi dạo",
		StartTime: now.Add(100 * time.Hour),
		EndTime:   now.Add(100*time.Hour + 10*time.Minute),
	}

	answer := AnswerQuestion("có gì cần ưu tiên không", []*domain.Event{low}, now)

	data := answer.Data.(*ImportantEventsData)
	assert.Empty(t, data.Events)
}

func TestAnswerQuestionFallback(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	answer := AnswerQuestion("xin chào", nil, now)

	assert.Nil(t, answer.Data)
	assert.True(t, strings.Contains(answer.Answer, "rảnh"))
}

func TestAnswerQuestionCaseInsensitive(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	answer := AnswerQuestion("WORKLOAD?", nil, now)

	_, ok := answer.Data.(*BusyStatusData)
	assert.True(t, ok)
}
