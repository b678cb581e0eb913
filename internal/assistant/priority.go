package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

// Level is a four-tier priority classification derived from the score
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

func (l Level) Emoji() string {
	switch l {
	case LevelCritical:
		return "🔴"
	case LevelHigh:
		return "🟠"
	case LevelMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

// ScoredEvent is an event with its computed priority breakdown
type ScoredEvent struct {
	*domain.Event
	Total          int
	Level          Level
	Reasons        []string
	UrgencyPercent float64
}

// Analysis is the result of scoring a full event list
type Analysis struct {
	Data        []*ScoredEvent
	Categorized map[Level][]*ScoredEvent
}

// categoryScores maps category keywords to a priority contribution.
// Order matters: keywords are matched by substring containment and the
// last matching entry wins.
var categoryScores = []struct {
	Keyword string
	Score   int
}{
	{"work", 25},
	{"urgent", 25},
	{"deadline", 25},
	{"important", 20},
	{"health", 22},
	{"meeting", 18},
	{"education", 15},
	{"personal", 10},
}

const defaultCategoryScore = 10

// CalculatePriorityScore computes the priority of one event relative to now.
// Events already started keep the highest urgency bucket.
func CalculatePriorityScore(e *domain.Event, now time.Time) *ScoredEvent {
	scored := &ScoredEvent{Event: e}

	hoursUntil := e.StartTime.Sub(now).Hours()

	switch {
	case hoursUntil <= 1:
		scored.Total += 40
		scored.Reasons = append(scored.Reasons, "Sự kiện diễn ra trong vòng 1 giờ tới")
	case hoursUntil <= 3:
		scored.Total += 30
		scored.Reasons = append(scored.Reasons, "Sự kiện diễn ra trong vòng 3 giờ tới")
	case hoursUntil <= 6:
		scored.Total += 20
		scored.Reasons = append(scored.Reasons, "Sự kiện diễn ra trong vòng 6 giờ tới")
	case hoursUntil <= 24:
		scored.Total += 10
		scored.Reasons = append(scored.Reasons, "Sự kiện diễn ra trong hôm nay")
	default:
		scored.Total += 5
	}

	categoryScore := defaultCategoryScore
	if e.CategoryName != "" {
		name := strings.ToLower(e.CategoryName)
		for _, cs := range categoryScores {
			if strings.Contains(name, cs.Keyword) {
				categoryScore = cs.Score
			}
		}
	}
	scored.Total += categoryScore
	if categoryScore > defaultCategoryScore {
		scored.Reasons = append(scored.Reasons, fmt.Sprintf("Danh mục '%s' có độ ưu tiên cao", e.CategoryName))
	}

	switch mins := e.DurationMins(); {
	case mins >= 120:
		scored.Total += 15
	case mins >= 60:
		scored.Total += 10
	case mins >= 30:
		scored.Total += 5
	}

	if len(e.Reminders) > 0 {
		scored.Total += 10
		scored.Reasons = append(scored.Reasons, fmt.Sprintf("Có %d lời nhắc được đặt", len(e.Reminders)))
	}

	if e.Location != "" {
		scored.Total += 5
		scored.Reasons = append(scored.Reasons, "Có địa điểm cụ thể")
	}

	scored.Level = levelFor(scored.Total)
	scored.UrgencyPercent = urgencyPercent(hoursUntil)
	return scored
}

func levelFor(total int) Level {
	switch {
	case total >= 70:
		return LevelCritical
	case total >= 50:
		return LevelHigh
	case total >= 30:
		return LevelMedium
	default:
		return LevelLow
	}
}

// urgencyPercent is a display metric: 100 at start time, fading
// linearly to 0 over 24 hours.
func urgencyPercent(hoursUntil float64) float64 {
	if hoursUntil <= 0 {
		return 100
	}
	p := 100 - hoursUntil*100/24
	if p < 0 {
		return 0
	}
	return p
}

// AnalyzePriority scores every event, sorts by descending total and
// partitions the result by level. An empty input yields an empty
// Categorized map, not one with four empty buckets.
func AnalyzePriority(events []*domain.Event, now time.Time) *Analysis {
	analysis := &Analysis{
		Data:        []*ScoredEvent{},
		Categorized: map[Level][]*ScoredEvent{},
	}

	for _, e := range events {
		analysis.Data = append(analysis.Data, CalculatePriorityScore(e, now))
	}

	sort.SliceStable(analysis.Data, func(i, j int) bool {
		return analysis.Data[i].Total > analysis.Data[j].Total
	})

	for _, se := range analysis.Data {
		analysis.Categorized[se.Level] = append(analysis.Categorized[se.Level], se)
	}

	return analysis
}
