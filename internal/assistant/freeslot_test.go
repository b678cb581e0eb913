package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

func dayWindow(t *testing.T) (time.Time, time.Time) {
	t.Helper()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	return start, start.Add(10 * time.Hour) // 08:00 - 18:00
}

func busy(start time.Time, fromHour, fromMin, toHour, toMin int) *domain.Event {
	day := start.Truncate(24 * time.Hour)
	return &domain.Event{
		Title:     "Busy",
		StartTime: time.Date(day.Year(), day.Month(), day.Day(), fromHour, fromMin, 0, 0, start.Location()),
		EndTime:   time.Date(day.Year(), day.Month(), day.Day(), toHour, toMin, 0, 0, start.Location()),
	}
}

func TestFindFreeTimeSlotsNoEvents(t *testing.T) {
	dayStart, dayEnd := dayWindow(t)

	slots := FindFreeTimeSlots(nil, dayStart, dayEnd)

	require.Len(t, slots, 1)
	assert.Equal(t, dayStart, slots[0].Start)
	assert.Equal(t, dayEnd, slots[0].End)
	assert.Equal(t, 600, slots[0].DurationMins)
	assert.True(t, slots[0].Available)
	assert.Equal(t, "free", slots[0].Type)
}

func TestFindFreeTimeSlotsCompleteness(t *testing.T) {
	dayStart, dayEnd := dayWindow(t)

	events := []*domain.Event{
		busy(dayStart, 12, 0, 13, 30),
		busy(dayStart, 9, 0, 10, 0),
	}

	slots := FindFreeTimeSlots(events, dayStart, dayEnd)

	require.Len(t, slots, 3)
	assert.Equal(t, 60, slots[0].DurationMins)  // 08:00-09:00
	assert.Equal(t, 120, slots[1].DurationMins) // 10:00-12:00
	assert.Equal(t, 270, slots[2].DurationMins) // 13:30-18:00

	// Free time + busy time reconstructs the whole window.
	busyMins := 0
	for _, e := range events {
		busyMins += e.DurationMins()
	}
	freeMins := 0
	for _, s := range slots {
		freeMins += s.DurationMins
	}
	assert.Equal(t, 600, busyMins+freeMins)

	// Slots are disjoint from events and from each other.
	prevEnd := dayStart
	for _, s := range slots {
		assert.False(t, s.Start.Before(prevEnd))
		assert.True(t, s.End.After(s.Start))
		prevEnd = s.End
	}
}

func TestFindFreeTimeSlotsDropsShortGaps(t *testing.T) {
	dayStart, dayEnd := dayWindow(t)

	events := []*domain.Event{
		busy(dayStart, 8, 0, 8, 45),
		busy(dayStart, 9, 0, 17, 45), // leaves 08:45-09:00 and 17:45-18:00
	}

	slots := FindFreeTimeSlots(events, dayStart, dayEnd)
	assert.Empty(t, slots, "gaps under 30 minutes must be filtered out")
}

func TestFindFreeTimeSlotsNestedEventClamped(t *testing.T) {
	dayStart, dayEnd := dayWindow(t)

	events := []*domain.Event{
		busy(dayStart, 9, 0, 12, 0),
		busy(dayStart, 10, 0, 11, 0), // fully nested in the previous one
	}

	slots := FindFreeTimeSlots(events, dayStart, dayEnd)

	require.Len(t, slots, 2)
	assert.Equal(t, 9, slots[0].End.Hour())
	assert.Equal(t, 12, slots[1].Start.Hour())
}

func TestFindFreeTimeSlotsIgnoresInvalidEvents(t *testing.T) {
	dayStart, dayEnd := dayWindow(t)

	events := []*domain.Event{
		{Title: "No times"},
		{Title: "Inverted", StartTime: dayStart.Add(2 * time.Hour), EndTime: dayStart.Add(time.Hour)},
	}

	slots := FindFreeTimeSlots(events, dayStart, dayEnd)
	require.Len(t, slots, 1)
	assert.Equal(t, 600, slots[0].DurationMins)
}

func TestSuggestScheduleTimeOrderingAndDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	suggestions := SuggestScheduleTime(nil, 90, now)

	require.Len(t, suggestions, 7)
	for i, s := range suggestions {
		require.NotNil(t, s.Recommended)
		assert.Equal(t, 90, s.Recommended.DurationMins)
		assert.Equal(t, s.Recommended.Start.Add(90*time.Minute), s.Recommended.End)
		if i > 0 {
			assert.True(t, s.Date.After(suggestions[i-1].Date),
				"suggestions must be in strictly increasing date order")
		}
	}

	assert.Equal(t, "Hôm nay", suggestions[0].Day)
	assert.Equal(t, "Ngày mai", suggestions[1].Day)
}

func TestSuggestScheduleTimeSkipsFullDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	// Today is fully booked 08:00-18:00.
	dayStart := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	events := []*domain.Event{busy(dayStart, 8, 0, 18, 0)}

	suggestions := SuggestScheduleTime(events, 60, now)

	require.Len(t, suggestions, 6)
	assert.Equal(t, "Ngày mai", suggestions[0].Day)
	assert.Equal(t, 11, suggestions[0].Date.Day())
}

func TestSuggestScheduleTimeDefaultDuration(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	suggestions := SuggestScheduleTime(nil, 0, now)

	require.NotEmpty(t, suggestions)
	assert.Equal(t, 60, suggestions[0].Recommended.DurationMins)
}

func TestSuggestScheduleTimeFirstFittingSlotWins(t *testing.T) {
	now := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	// 08:00-08:45 free (too short for 60m), 08:45-09:30 busy, rest free.
	events := []*domain.Event{busy(dayStart, 8, 45, 9, 30)}

	suggestions := SuggestScheduleTime(events, 60, now)

	require.NotEmpty(t, suggestions)
	today := suggestions[0]
	require.Len(t, today.AvailableSlots, 2)
	assert.Equal(t, today.AvailableSlots[1].Start, today.Recommended.Start)
}
