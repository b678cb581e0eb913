package assistant

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

// Answer is a rendered response plus structured data for clients.
// The answer text uses **bold** markers; rendering is the caller's job.
type Answer struct {
	Answer string `json:"answer"`
	Data   any    `json:"data"`
}

type FreeDaysData struct {
	Type        string                `json:"type"`
	Suggestions []*ScheduleSuggestion `json:"suggestions"`
}

type EventsListData struct {
	Type   string          `json:"type"`
	Date   time.Time       `json:"date"`
	Events []*domain.Event `json:"events"`
}

type BusyStatusData struct {
	Type       string  `json:"type"`
	TotalHours float64 `json:"totalHours"`
	EventCount int     `json:"eventCount"`
}

type ImportantEventsData struct {
	Type   string         `json:"type"`
	Events []*ScoredEvent `json:"events"`
}

// intent pairs a keyword predicate with its handler. Intents are
// evaluated in order and the first match wins.
type intent struct {
	match  func(q string) bool
	handle func(q string, events []*domain.Event, now time.Time) *Answer
}

var intents = []intent{
	{matchFreeTime, answerFreeTime},
	{matchEventList, answerEventList},
	{matchBusyStatus, answerBusyStatus},
	{matchImportant, answerImportant},
}

// AnswerQuestion matches a free-text question against the known intents
// and builds a response over the supplied events. Unrecognized questions
// get a help message.
func AnswerQuestion(question string, events []*domain.Event, now time.Time) *Answer {
	q := strings.ToLower(question)

	for _, it := range intents {
		if it.match(q) {
			return it.handle(q, events, now)
		}
	}

	return &Answer{
		Answer: "Mình chưa hiểu câu hỏi này. Bạn có thể hỏi:\n" +
			"• **Khi nào tôi rảnh?** — tìm thời gian trống\n" +
			"• **Liệt kê sự kiện hôm nay** — xem lịch theo ngày\n" +
			"• **Hôm nay tôi có bận không?** — mức độ bận rộn\n" +
			"• **Sự kiện nào quan trọng?** — các sự kiện ưu tiên cao",
		Data: nil,
	}
}

func containsAny(q string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func matchFreeTime(q string) bool {
	return containsAny(q, "rảnh", "slot", "thời gian", "xếp", "ngày nào")
}

func answerFreeTime(_ string, events []*domain.Event, now time.Time) *Answer {
	suggestions := SuggestScheduleTime(events, defaultDurationMins, now)
	if len(suggestions) == 0 {
		return &Answer{
			Answer: "Bạn khá bận trong 7 ngày tới, mình không tìm được khoảng trống phù hợp nào 😥",
			Data:   &FreeDaysData{Type: "free_days", Suggestions: []*ScheduleSuggestion{}},
		}
	}

	var sb strings.Builder
	sb.WriteString("**Bạn có thể xếp lịch vào những thời điểm sau:**\n\n")
	for i, s := range suggestions {
		if i >= 5 {
			break
		}
		sb.WriteString(fmt.Sprintf("📅 **%s** (%s): %s - %s (%d phút trống)\n",
			s.Day,
			s.Date.Format("02/01"),
			s.Recommended.Start.Format("15:04"),
			s.Recommended.End.Format("15:04"),
			s.Recommended.DurationMins))
	}

	return &Answer{
		Answer: sb.String(),
		Data:   &FreeDaysData{Type: "free_days", Suggestions: suggestions},
	}
}

func matchEventList(q string) bool {
	return strings.Contains(q, "sự kiện") &&
		containsAny(q, "hôm nay", "ngày", "liệt kê", "chi tiết")
}

// resolveQueryDate picks the target day from simple keywords.
// No general date parsing, by the same rules the product always had.
func resolveQueryDate(q string, now time.Time) time.Time {
	switch {
	case strings.Contains(q, "hôm qua"):
		return now.AddDate(0, 0, -1)
	case strings.Contains(q, "mai"):
		return now.AddDate(0, 0, 1)
	}
	return now
}

func answerEventList(q string, events []*domain.Event, now time.Time) *Answer {
	date := resolveQueryDate(q, now)

	dayEvents := eventsOnDay(events, date)
	if len(dayEvents) == 0 {
		return &Answer{
			Answer: fmt.Sprintf("Bạn không có sự kiện nào vào ngày %s 🎉", date.Format("02/01/2006")),
			Data:   &EventsListData{Type: "events_list", Date: date, Events: []*domain.Event{}},
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Sự kiện ngày %s:**\n\n", date.Format("02/01/2006")))
	for i, e := range dayEvents {
		sb.WriteString(fmt.Sprintf("%d. **%s** 🕐 %s", i+1, e.Title, e.FormatTime()))
		if e.CategoryName != "" {
			sb.WriteString(" 📂 " + e.CategoryName)
		}
		if e.Location != "" {
			sb.WriteString(" 📍 " + e.Location)
		}
		if e.Description != "" {
			sb.WriteString(" — " + e.Description)
		}
		sb.WriteString("\n")
	}

	return &Answer{
		Answer: sb.String(),
		Data:   &EventsListData{Type: "events_list", Date: date, Events: dayEvents},
	}
}

func matchBusyStatus(q string) bool {
	return containsAny(q, "bận", "busy", "workload")
}

func answerBusyStatus(_ string, events []*domain.Event, now time.Time) *Answer {
	todayEvents := eventsOnDay(events, now)

	totalMins := 0
	for _, e := range todayEvents {
		totalMins += e.DurationMins()
	}
	totalHours := float64(totalMins) / 60

	var text string
	switch {
	case totalHours >= 8:
		text = fmt.Sprintf("Hôm nay bạn **rất bận**: %d sự kiện, tổng cộng %.1f giờ. Nhớ dành thời gian nghỉ ngơi nhé! 😮‍💨", len(todayEvents), totalHours)
	case totalHours >= 5:
		text = fmt.Sprintf("Hôm nay bạn **khá bận**: %d sự kiện, tổng cộng %.1f giờ.", len(todayEvents), totalHours)
	default:
		text = fmt.Sprintf("Hôm nay bạn **khá rảnh**: %d sự kiện, tổng cộng %.1f giờ. Thời điểm tốt để xếp thêm việc!", len(todayEvents), totalHours)
	}

	return &Answer{
		Answer: text,
		Data:   &BusyStatusData{Type: "busy_status", TotalHours: totalHours, EventCount: len(todayEvents)},
	}
}

func matchImportant(q string) bool {
	return containsAny(q, "quan trọng", "ưu tiên", "priority")
}

func answerImportant(_ string, events []*domain.Event, now time.Time) *Answer {
	analysis := AnalyzePriority(events, now)

	var important []*ScoredEvent
	for _, se := range analysis.Data {
		if se.Level == LevelCritical || se.Level == LevelHigh {
			important = append(important, se)
		}
	}

	if len(important) == 0 {
		return &Answer{
			Answer: "Không có sự kiện nào được đánh giá là quan trọng trong thời gian tới 👍",
			Data:   &ImportantEventsData{Type: "important_events", Events: []*ScoredEvent{}},
		}
	}

	var sb strings.Builder
	sb.WriteString("**Các sự kiện quan trọng:**\n\n")
	for i, se := range important {
		if i >= 5 {
			break
		}
		sb.WriteString(fmt.Sprintf("%s **%s** — %s (điểm: %d)\n",
			se.Level.Emoji(), se.Title, se.FormatDateTime(), se.Total))
	}

	return &Answer{
		Answer: sb.String(),
		Data:   &ImportantEventsData{Type: "important_events", Events: important},
	}
}

// eventsOnDay filters to one calendar day and sorts by start time
func eventsOnDay(events []*domain.Event, day time.Time) []*domain.Event {
	var out []*domain.Event
	for _, e := range events {
		if e.IsOnDay(day) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}
