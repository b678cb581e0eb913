package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/assistant"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/storage"
)

// AssistantService feeds stored events into the assistant engine.
// The engine itself is pure; this layer owns "now" and the event window.
type AssistantService struct {
	storage  *storage.Storage
	timezone *time.Location
}

func NewAssistantService(s *storage.Storage, tz *time.Location) *AssistantService {
	if tz == nil {
		tz = time.UTC
	}
	return &AssistantService{
		storage:  s,
		timezone: tz,
	}
}

func (s *AssistantService) now() time.Time {
	return time.Now().In(s.timezone)
}

// questionWindow loads the events a question can reference:
// yesterday (for "hôm qua") through the 7-day suggestion horizon.
func (s *AssistantService) questionWindow(userID int64, now time.Time) ([]*domain.Event, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.storage.ListEventsByRange(userID, dayStart.AddDate(0, 0, -1), dayStart.AddDate(0, 0, 7))
}

// Ask answers a free-text question over the user's schedule
func (s *AssistantService) Ask(userID int64, question string) (*assistant.Answer, error) {
	now := s.now()
	events, err := s.questionWindow(userID, now)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return assistant.AnswerQuestion(question, events, now), nil
}

// Suggest finds free slots for a new event of the given duration
func (s *AssistantService) Suggest(userID int64, durationMins int) ([]*assistant.ScheduleSuggestion, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	events, err := s.storage.ListEventsByRange(userID, dayStart, dayStart.AddDate(0, 0, 7))
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return assistant.SuggestScheduleTime(events, durationMins, now), nil
}

// AnalyzeDay scores a single day's events by priority
func (s *AssistantService) AnalyzeDay(userID int64, day time.Time) (*assistant.Analysis, error) {
	events, err := s.storage.ListEventsToday(userID, day.In(s.timezone))
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	return assistant.AnalyzePriority(events, s.now()), nil
}

// DailyDigest builds the morning briefing text for a user
func (s *AssistantService) DailyDigest(userID int64) (string, error) {
	now := s.now()
	events, err := s.storage.ListEventsToday(userID, now)
	if err != nil {
		return "", fmt.Errorf("load events: %w", err)
	}

	if len(events) == 0 {
		return "Hôm nay bạn không có sự kiện nào. Chúc một ngày tốt lành! ☀️", nil
	}

	analysis := assistant.AnalyzePriority(events, now)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hôm nay bạn có %d sự kiện:\n\n", len(events)))
	for _, se := range analysis.Data {
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", se.Level.Emoji(), se.FormatTime(), se.Title))
	}

	critical := len(analysis.Categorized[assistant.LevelCritical])
	if critical > 0 {
		sb.WriteString(fmt.Sprintf("\n⚠️ %d sự kiện cần chú ý ngay.", critical))
	}

	return sb.String(), nil
}

// FormatSuggestions renders suggestions for chat display
func (s *AssistantService) FormatSuggestions(suggestions []*assistant.ScheduleSuggestion, durationMins int) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("Không tìm được khoảng trống %d phút nào trong 7 ngày tới 😥", durationMins)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Các khoảng trống %d phút trong 7 ngày tới:\n\n", durationMins))
	for _, sg := range suggestions {
		sb.WriteString(fmt.Sprintf("📅 %s (%s): %s - %s\n",
			sg.Day,
			sg.Date.Format("02/01"),
			sg.Recommended.Start.Format("15:04"),
			sg.Recommended.End.Format("15:04")))
	}
	return sb.String()
}
