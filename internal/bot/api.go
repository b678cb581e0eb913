package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type EventResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	AllDay       bool   `json:"all_day"`
	CategoryName string `json:"category_name,omitempty"`
	Imported     bool   `json:"imported"`
}

// SetupAPI registers REST routes behind Basic Auth. The API stays
// disabled when no credentials are configured.
func (b *Bot) SetupAPI() {
	if b.cfg.APIUsername == "" || b.cfg.APIPassword == "" {
		return
	}

	http.HandleFunc("/api/events", b.basicAuth(b.apiEvents))
	http.HandleFunc("/api/event/", b.basicAuth(b.apiEvent))

	http.HandleFunc("/api/assistant/ask", b.basicAuth(b.apiAssistantAsk))
	http.HandleFunc("/api/assistant/suggest", b.basicAuth(b.apiAssistantSuggest))
	http.HandleFunc("/api/assistant/priority", b.basicAuth(b.apiAssistantPriority))

	http.HandleFunc("/api/sync", b.basicAuth(b.apiSync))
	http.HandleFunc("/api/calendars", b.basicAuth(b.apiCalendars))
}

func (b *Bot) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != b.cfg.APIUsername || password != b.cfg.APIPassword {
			w.Header().Set("WWW-Authenticate", `Basic realm="Time-lence API"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *Bot) jsonResponse(w http.ResponseWriter, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIResponse{Success: true, Message: message, Data: data})
}

func (b *Bot) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: false, Message: message})
}

// apiUser resolves the owner's internal user record. The REST API acts
// on behalf of the configured owner account.
func (b *Bot) apiUser() (*domain.User, error) {
	user, err := b.storage.GetUserByTelegramID(b.cfg.OwnerTelegramID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("owner has not started the bot yet")
	}
	return user, nil
}

// GET /api/events?from=YYYY-MM-DD&to=YYYY-MM-DD - list events (defaults to today)
// POST /api/events - create event
func (b *Bot) apiEvents(w http.ResponseWriter, r *http.Request) {
	user, err := b.apiUser()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		var events []*domain.Event
		fromStr := r.URL.Query().Get("from")
		toStr := r.URL.Query().Get("to")
		if fromStr != "" && toStr != "" {
			from, err := time.ParseInLocation("2006-01-02", fromStr, b.cfg.Timezone)
			if err != nil {
				b.jsonError(w, "invalid from date (use YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			to, err := time.ParseInLocation("2006-01-02", toStr, b.cfg.Timezone)
			if err != nil {
				b.jsonError(w, "invalid to date (use YYYY-MM-DD)", http.StatusBadRequest)
				return
			}
			events, err = b.eventService.ListRange(user.ID, from, to.AddDate(0, 0, 1))
			if err != nil {
				b.jsonError(w, err.Error(), http.StatusInternalServerError)
				return
			}
		} else {
			events, err = b.eventService.ListToday(user.ID)
			if err != nil {
				b.jsonError(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		b.jsonResponse(w, "", b.eventsToResponse(events))

	case http.MethodPost:
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Location    string `json:"location"`
			StartTime   string `json:"start_time"` // YYYY-MM-DD HH:MM
			EndTime     string `json:"end_time"`
			Category    string `json:"category"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			b.jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		start, err := time.ParseInLocation("2006-01-02 15:04", req.StartTime, b.cfg.Timezone)
		if err != nil {
			b.jsonError(w, "invalid start_time format (use YYYY-MM-DD HH:MM)", http.StatusBadRequest)
			return
		}
		end, err := time.ParseInLocation("2006-01-02 15:04", req.EndTime, b.cfg.Timezone)
		if err != nil {
			b.jsonError(w, "invalid end_time format (use YYYY-MM-DD HH:MM)", http.StatusBadRequest)
			return
		}

		event := &domain.Event{
			Title:       req.Title,
			Description: req.Description,
			Location:    req.Location,
			StartTime:   start,
			EndTime:     end,
		}

		if req.Category != "" {
			category, err := b.categoryService.GetOrCreate(user.ID, req.Category)
			if err == nil {
				event.CategoryID = &category.ID
			}
		}

		created, err := b.eventService.Create(user.ID, event)
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		b.jsonResponse(w, "event created", b.eventToResponse(created))

	default:
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/event/{id} - get event
// PUT /api/event/{id} - update event
// DELETE /api/event/{id} - delete event
func (b *Bot) apiEvent(w http.ResponseWriter, r *http.Request) {
	user, err := b.apiUser()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/api/event/")
	eventID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		b.jsonError(w, "invalid event ID", http.StatusBadRequest)
		return
	}

	event, err := b.eventService.Get(eventID)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if event == nil || event.UserID != user.ID {
		b.jsonError(w, "event not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		b.jsonResponse(w, "", b.eventToResponse(event))

	case http.MethodPut:
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
			Location    *string `json:"location"`
			StartTime   *string `json:"start_time"`
			EndTime     *string `json:"end_time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			b.jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Title != nil {
			event.Title = *req.Title
		}
		if req.Description != nil {
			event.Description = *req.Description
		}
		if req.Location != nil {
			event.Location = *req.Location
		}
		if req.StartTime != nil {
			start, err := time.ParseInLocation("2006-01-02 15:04", *req.StartTime, b.cfg.Timezone)
			if err != nil {
				b.jsonError(w, "invalid start_time format", http.StatusBadRequest)
				return
			}
			event.StartTime = start
		}
		if req.EndTime != nil {
			end, err := time.ParseInLocation("2006-01-02 15:04", *req.EndTime, b.cfg.Timezone)
			if err != nil {
				b.jsonError(w, "invalid end_time format", http.StatusBadRequest)
				return
			}
			event.EndTime = end
		}

		if err := b.eventService.Update(user.ID, event); err != nil {
			b.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.jsonResponse(w, "event updated", b.eventToResponse(event))

	case http.MethodDelete:
		if err := b.eventService.Delete(eventID, user.ID); err != nil {
			b.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		b.jsonResponse(w, "event deleted", map[string]int64{"id": eventID})

	default:
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// POST /api/assistant/ask - natural language question
func (b *Bot) apiAssistantAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := b.apiUser()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		b.jsonError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		b.jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	answer, err := b.assistantService.Ask(user.ID, req.Question)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b.jsonResponse(w, answer.Answer, answer.Data)
}

// GET /api/assistant/suggest?duration=90 - free-time suggestions
func (b *Bot) apiAssistantSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := b.apiUser()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	duration := 0
	if raw := r.URL.Query().Get("duration"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil || duration < 0 {
			b.jsonError(w, "invalid duration", http.StatusBadRequest)
			return
		}
	}

	suggestions, err := b.assistantService.Suggest(user.ID, duration)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b.jsonResponse(w, fmt.Sprintf("%d ngày có thời gian trống", len(suggestions)), suggestions)
}

// GET /api/assistant/priority?date=YYYY-MM-DD - priority analysis (defaults to today)
func (b *Bot) apiAssistantPriority(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := b.apiUser()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	day := time.Now().In(b.cfg.Timezone)
	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err = time.ParseInLocation("2006-01-02", raw, b.cfg.Timezone)
		if err != nil {
			b.jsonError(w, "invalid date (use YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
	}

	analysis, err := b.assistantService.AnalyzeDay(user.ID, day)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b.jsonResponse(w, fmt.Sprintf("%d sự kiện được đánh giá", len(analysis.Data)), analysis)
}

// POST /api/sync - import events from CalDAV
func (b *Bot) apiSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !b.eventService.IsImportConfigured() {
		b.jsonError(w, "CalDAV not configured", http.StatusServiceUnavailable)
		return
	}

	user, err := b.apiUser()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusNotFound)
		return
	}

	result, err := b.eventService.ImportFromCalDAV(user.ID)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b.jsonResponse(w, fmt.Sprintf("import finished: %d added, %d updated, %d deleted", result.Added, result.Updated, result.Deleted), result)
}

// GET /api/calendars - list calendars on the configured CalDAV server
func (b *Bot) apiCalendars(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	calendars, err := b.eventService.DiscoverCalendars()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	type calendarItem struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	result := make([]calendarItem, 0, len(calendars))
	for _, c := range calendars {
		result = append(result, calendarItem{ID: c.ID, Name: c.DisplayName})
	}

	b.jsonResponse(w, "", result)
}

func (b *Bot) eventsToResponse(events []*domain.Event) []EventResponse {
	result := make([]EventResponse, 0, len(events))
	for _, e := range events {
		result = append(result, b.eventToResponse(e))
	}
	return result
}

func (b *Bot) eventToResponse(e *domain.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Title:        e.Title,
		Description:  e.Description,
		Location:     e.Location,
		StartTime:    e.StartTime.In(b.cfg.Timezone).Format("2006-01-02 15:04"),
		EndTime:      e.EndTime.In(b.cfg.Timezone).Format("2006-01-02 15:04"),
		AllDay:       e.AllDay,
		CategoryName: e.CategoryName,
		Imported:     e.CalDAVUID != "",
	}
}
