package assistant

import (
	"sort"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

const (
	// Working window used for suggestions, matching the app's defaults
	workDayStartHour = 8
	workDayEndHour   = 18

	minSlotMinutes      = 30
	suggestHorizonDays  = 7
	defaultDurationMins = 60
)

// FreeSlot is a maximal open interval within a bounded day window
type FreeSlot struct {
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationMins  int       `json:"durationMins"`
	DurationHours float64   `json:"durationHours"`
	Available     bool      `json:"available"`
	Type          string    `json:"type"`
}

// RecommendedTime is the concrete slot offered for a requested duration
type RecommendedTime struct {
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	DurationMins int       `json:"durationMins"`
}

// ScheduleSuggestion is one day that can fit the requested duration
type ScheduleSuggestion struct {
	Date           time.Time        `json:"date"`
	Day            string           `json:"day"`
	AvailableSlots []*FreeSlot      `json:"availableSlots"`
	Recommended    *RecommendedTime `json:"recommendedTime"`
}

func newFreeSlot(start, end time.Time) *FreeSlot {
	d := end.Sub(start)
	return &FreeSlot{
		Start:         start,
		End:           end,
		DurationMins:  int(d.Minutes()),
		DurationHours: d.Hours(),
		Available:     true,
		Type:          "free",
	}
}

// FindFreeTimeSlots computes the open intervals of [dayStart, dayEnd)
// not covered by any event. Slots shorter than 30 minutes are dropped.
// Events with unusable times are ignored. The cursor never moves
// backwards, so an event nested inside a longer one cannot reopen
// already-covered time.
func FindFreeTimeSlots(events []*domain.Event, dayStart, dayEnd time.Time) []*FreeSlot {
	valid := make([]*domain.Event, 0, len(events))
	for _, e := range events {
		if e.HasValidTimes() {
			valid = append(valid, e)
		}
	}

	var slots []*FreeSlot
	if len(valid) == 0 {
		slots = append(slots, newFreeSlot(dayStart, dayEnd))
		return filterShortSlots(slots)
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].StartTime.Before(valid[j].StartTime)
	})

	cursor := dayStart
	for _, e := range valid {
		if cursor.Before(e.StartTime) {
			slots = append(slots, newFreeSlot(cursor, e.StartTime))
		}
		if e.EndTime.After(cursor) {
			cursor = e.EndTime
		}
	}

	if cursor.Before(dayEnd) {
		slots = append(slots, newFreeSlot(cursor, dayEnd))
	}

	return filterShortSlots(slots)
}

func filterShortSlots(slots []*FreeSlot) []*FreeSlot {
	out := make([]*FreeSlot, 0, len(slots))
	for _, s := range slots {
		if s.DurationMins >= minSlotMinutes {
			out = append(out, s)
		}
	}
	return out
}

// SuggestScheduleTime looks over the next 7 days for 08:00-18:00 slots
// that can fit durationMins and returns one suggestion per viable day,
// earliest first. Days without a fitting slot are skipped.
func SuggestScheduleTime(events []*domain.Event, durationMins int, now time.Time) []*ScheduleSuggestion {
	if durationMins <= 0 {
		durationMins = defaultDurationMins
	}

	var suggestions []*ScheduleSuggestion
	for offset := 0; offset < suggestHorizonDays; offset++ {
		day := now.AddDate(0, 0, offset)
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), workDayStartHour, 0, 0, 0, now.Location())
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), workDayEndHour, 0, 0, 0, now.Location())

		var dayEvents []*domain.Event
		for _, e := range events {
			if e.HasValidTimes() && e.IsOnDay(day) {
				dayEvents = append(dayEvents, e)
			}
		}

		slots := FindFreeTimeSlots(dayEvents, dayStart, dayEnd)

		var recommended *RecommendedTime
		for _, s := range slots {
			if s.DurationMins >= durationMins {
				recommended = &RecommendedTime{
					Start:        s.Start,
					End:          s.Start.Add(time.Duration(durationMins) * time.Minute),
					DurationMins: durationMins,
				}
				break
			}
		}
		if recommended == nil {
			continue
		}

		suggestions = append(suggestions, &ScheduleSuggestion{
			Date:           dayStart,
			Day:            relativeDayLabel(offset, dayStart),
			AvailableSlots: slots,
			Recommended:    recommended,
		})
	}

	return suggestions
}

// relativeDayLabel returns a Vietnamese label for the day at the given offset
func relativeDayLabel(offset int, day time.Time) string {
	switch offset {
	case 0:
		return "Hôm nay"
	case 1:
		return "Ngày mai"
	}
	return vietnameseWeekday(day.Weekday())
}

func vietnameseWeekday(wd time.Weekday) string {
	days := []string{"Chủ nhật", "Thứ 2", "Thứ 3", "Thứ 4", "Thứ 5", "Thứ 6", "Thứ 7"}
	return days[wd]
}
