package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

func eventAt(now time.Time, startIn, duration time.Duration) *domain.Event {
	return &domain.Event{
		Title:     "Test event",
		StartTime: now.Add(startIn),
		EndTime:   now.Add(startIn + duration),
	}
}

func TestLevelThresholdBoundaries(t *testing.T) {
	tests := []struct {
		total int
		want  Level
	}{
		{70, LevelCritical},
		{69, LevelHigh},
		{50, LevelHigh},
		{49, LevelMedium},
		{30, LevelMedium},
		{29, LevelLow},
		{0, LevelLow},
		{95, LevelCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levelFor(tt.total), "total=%d", tt.total)
	}
}

func TestUrgencyMonotonicity(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Otherwise-identical events, only time-to-start varies.
	offsets := []time.Duration{
		30 * time.Minute,
		2 * time.Hour,
		5 * time.Hour,
		12 * time.Hour,
		48 * time.Hour,
	}

	prev := -1
	for i := len(offsets) - 1; i >= 0; i-- {
		scored := CalculatePriorityScore(eventAt(now, offsets[i], time.Hour), now)
		if prev >= 0 {
			assert.GreaterOrEqual(t, scored.Total, prev,
				"closer event must not score lower (offset %s)", offsets[i])
		}
		prev = scored.Total
	}
}

func TestScoreBreakdownEndToEnd(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	e := eventAt(now, 30*time.Minute, time.Hour)
	e.Location = "Office"
	e.Reminders = []*domain.EventReminder{{EventID: 1}}

	scored := CalculatePriorityScore(e, now)

	// 40 urgency + 10 default category + 10 duration + 10 reminder + 5 location
	assert.Equal(t, 75, scored.Total)
	assert.Equal(t, LevelCritical, scored.Level)
	assert.NotEmpty(t, scored.Reasons)
}

func TestPastEventKeepsUrgencyBucket(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// Already started: negative hours-until falls into the <=1h bucket.
	scored := CalculatePriorityScore(eventAt(now, -2*time.Hour, time.Hour), now)
	assert.Equal(t, 40+10+10, scored.Total)
	assert.Equal(t, float64(100), scored.UrgencyPercent)
}

func TestCategoryLastMatchWins(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	base := eventAt(now, 48*time.Hour, 10*time.Minute) // 5 urgency, 0 duration
	base.CategoryName = "Urgent work meeting"

	// "urgent" (25) and "work" (25) both match, but "meeting" (18) is
	// later in the table and wins.
	scored := CalculatePriorityScore(base, now)
	assert.Equal(t, 5+18, scored.Total)

	base.CategoryName = "Học tập" // no keyword matches, default applies
	scored = CalculatePriorityScore(base, now)
	assert.Equal(t, 5+10, scored.Total)
}

func TestAnalyzePriorityEmptyInput(t *testing.T) {
	analysis := AnalyzePriority(nil, time.Now())

	require.NotNil(t, analysis)
	assert.Empty(t, analysis.Data)
	assert.Empty(t, analysis.Categorized)
}

func TestAnalyzePrioritySortsAndPartitions(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	low := eventAt(now, 72*time.Hour, 10*time.Minute)     // 5 + 10 = 15
	critical := eventAt(now, 30*time.Minute, 2*time.Hour) // 40 + 10 + 15 = 65
	critical.Location = "Phòng họp A"                     // +5 -> 70

	analysis := AnalyzePriority([]*domain.Event{low, critical}, now)

	require.Len(t, analysis.Data, 2)
	assert.Equal(t, 70, analysis.Data[0].Total)
	assert.Equal(t, 15, analysis.Data[1].Total)

	assert.Len(t, analysis.Categorized[LevelCritical], 1)
	assert.Len(t, analysis.Categorized[LevelLow], 1)
	assert.NotContains(t, analysis.Categorized, LevelHigh)
}
