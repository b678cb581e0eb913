package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/NguyenDepTrai2402/Time-lence-Doanchuyennganh-sub000/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER UNIQUE NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'member',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			color TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id)`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			caldav_uid TEXT DEFAULT '',
			title TEXT NOT NULL,
			description TEXT DEFAULT '',
			location TEXT DEFAULT '',
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			all_day INTEGER DEFAULT 0,
			category_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (category_id) REFERENCES categories(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_user_id ON events(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_time)`,
		`CREATE INDEX IF NOT EXISTS idx_events_caldav ON events(caldav_uid)`,
		`CREATE TABLE IF NOT EXISTS event_reminders (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			remind_at DATETIME NOT NULL,
			method TEXT NOT NULL DEFAULT 'telegram',
			sent_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_event_reminders_event ON event_reminders(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_event_reminders_due ON event_reminders(remind_at, sent_at)`,
		`CREATE TABLE IF NOT EXISTS feedback (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			subject TEXT NOT NULL,
			message TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_user_id ON feedback(user_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// Ignore "duplicate column" errors for ALTER TABLE
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("exec migration: %w", err)
			}
		}
	}
	return nil
}

// === Users ===

func (s *Storage) CreateUser(u *domain.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (telegram_id, name, role) VALUES (?, ?, ?)`,
		u.TelegramID, u.Name, u.Role,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	u.ID = id
	u.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT id, telegram_id, name, role, created_at FROM users WHERE telegram_id = ?`,
		telegramID,
	).Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (s *Storage) GetUserByID(id int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT id, telegram_id, name, role, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (s *Storage) ListUsers() ([]*domain.User, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, name, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// === Categories ===

func (s *Storage) CreateCategory(c *domain.Category) error {
	res, err := s.db.Exec(
		`INSERT INTO categories (user_id, name, color) VALUES (?, ?, ?)`,
		c.UserID, c.Name, c.Color,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	c.ID = id
	c.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetCategory(id int64) (*domain.Category, error) {
	c := &domain.Category{}
	err := s.db.QueryRow(
		`SELECT id, user_id, name, color, created_at FROM categories WHERE id = ?`,
		id,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *Storage) GetCategoryByName(userID int64, name string) (*domain.Category, error) {
	c := &domain.Category{}
	err := s.db.QueryRow(
		`SELECT id, user_id, name, color, created_at FROM categories WHERE user_id = ? AND LOWER(name) = LOWER(?)`,
		userID, name,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *Storage) ListCategories(userID int64) ([]*domain.Category, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, name, color, created_at FROM categories WHERE user_id = ? ORDER BY name`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		c := &domain.Category{}
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Storage) DeleteCategory(id int64) error {
	if _, err := s.db.Exec(`UPDATE events SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}

// === Events ===

const eventColumns = `e.id, e.user_id, e.caldav_uid, e.title, e.description, e.location,
	e.start_time, e.end_time, e.all_day, e.category_id, COALESCE(c.name, ''),
	e.created_at, e.updated_at`

func (s *Storage) CreateEvent(e *domain.Event) error {
	res, err := s.db.Exec(
		`INSERT INTO events (user_id, caldav_uid, title, description, location, start_time, end_time, all_day, category_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.CalDAVUID, e.Title, e.Description, e.Location, e.StartTime, e.EndTime, e.AllDay, e.CategoryID,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	e.ID = id
	e.CreatedAt = time.Now()
	return nil
}

func (s *Storage) UpdateEvent(e *domain.Event) error {
	_, err := s.db.Exec(
		`UPDATE events SET title = ?, description = ?, location = ?, start_time = ?, end_time = ?,
		 all_day = ?, category_id = ?, caldav_uid = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		e.Title, e.Description, e.Location, e.StartTime, e.EndTime, e.AllDay, e.CategoryID, e.CalDAVUID, e.ID,
	)
	return err
}

func (s *Storage) DeleteEvent(id int64) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	return err
}

func scanEvent(row interface{ Scan(...any) error }) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(
		&e.ID, &e.UserID, &e.CalDAVUID, &e.Title, &e.Description, &e.Location,
		&e.StartTime, &e.EndTime, &e.AllDay, &e.CategoryID, &e.CategoryName,
		&e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

func (s *Storage) GetEvent(id int64) (*domain.Event, error) {
	row := s.db.QueryRow(
		`SELECT `+eventColumns+` FROM events e LEFT JOIN categories c ON c.id = e.category_id WHERE e.id = ?`,
		id,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachReminders([]*domain.Event{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Storage) GetEventByCalDAVUID(uid string) (*domain.Event, error) {
	row := s.db.QueryRow(
		`SELECT `+eventColumns+` FROM events e LEFT JOIN categories c ON c.id = e.category_id WHERE e.caldav_uid = ?`,
		uid,
	)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

// ListEventsByRange returns a user's events starting within [from, to)
func (s *Storage) ListEventsByRange(userID int64, from, to time.Time) ([]*domain.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventColumns+` FROM events e
		 LEFT JOIN categories c ON c.id = e.category_id
		 WHERE e.user_id = ? AND e.start_time >= ? AND e.start_time < ?
		 ORDER BY e.start_time`,
		userID, from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachReminders(events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Storage) ListEventsToday(userID int64, now time.Time) ([]*domain.Event, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.ListEventsByRange(userID, dayStart, dayStart.AddDate(0, 0, 1))
}

func (s *Storage) ListEventsWeek(userID int64, now time.Time) ([]*domain.Event, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.ListEventsByRange(userID, dayStart, dayStart.AddDate(0, 0, 7))
}

// ListImportedEvents returns events that came from an external calendar
func (s *Storage) ListImportedEvents(userID int64) ([]*domain.Event, error) {
	rows, err := s.db.Query(
		`SELECT `+eventColumns+` FROM events e
		 LEFT JOIN categories c ON c.id = e.category_id
		 WHERE e.user_id = ? AND e.caldav_uid != ''`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *Storage) attachReminders(events []*domain.Event) error {
	for _, e := range events {
		reminders, err := s.ListRemindersByEvent(e.ID)
		if err != nil {
			return err
		}
		e.Reminders = reminders
	}
	return nil
}

// === Event reminders ===

func (s *Storage) CreateEventReminder(r *domain.EventReminder) error {
	res, err := s.db.Exec(
		`INSERT INTO event_reminders (event_id, remind_at, method) VALUES (?, ?, ?)`,
		r.EventID, r.RemindAt, r.Method,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ID = id
	r.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetReminder(id int64) (*domain.EventReminder, error) {
	r := &domain.EventReminder{}
	err := s.db.QueryRow(
		`SELECT id, event_id, remind_at, method, sent_at, created_at FROM event_reminders WHERE id = ?`,
		id,
	).Scan(&r.ID, &r.EventID, &r.RemindAt, &r.Method, &r.SentAt, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return r, err
}

func (s *Storage) ListRemindersByEvent(eventID int64) ([]*domain.EventReminder, error) {
	rows, err := s.db.Query(
		`SELECT id, event_id, remind_at, method, sent_at, created_at
		 FROM event_reminders WHERE event_id = ? ORDER BY remind_at`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*domain.EventReminder
	for rows.Next() {
		r := &domain.EventReminder{}
		if err := rows.Scan(&r.ID, &r.EventID, &r.RemindAt, &r.Method, &r.SentAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// ListDueReminders returns unsent reminders whose time has passed
func (s *Storage) ListDueReminders(now time.Time) ([]*domain.EventReminder, error) {
	rows, err := s.db.Query(
		`SELECT id, event_id, remind_at, method, sent_at, created_at
		 FROM event_reminders WHERE sent_at IS NULL AND remind_at <= ? ORDER BY remind_at`,
		now,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []*domain.EventReminder
	for rows.Next() {
		r := &domain.EventReminder{}
		if err := rows.Scan(&r.ID, &r.EventID, &r.RemindAt, &r.Method, &r.SentAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

func (s *Storage) MarkReminderSent(id int64, sentAt time.Time) error {
	_, err := s.db.Exec(`UPDATE event_reminders SET sent_at = ? WHERE id = ?`, sentAt, id)
	return err
}

func (s *Storage) DeleteReminder(id int64) error {
	_, err := s.db.Exec(`DELETE FROM event_reminders WHERE id = ?`, id)
	return err
}

// === Feedback ===

func (s *Storage) CreateFeedback(f *domain.Feedback) error {
	res, err := s.db.Exec(
		`INSERT INTO feedback (user_id, subject, message) VALUES (?, ?, ?)`,
		f.UserID, f.Subject, f.Message,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	f.ID = id
	f.CreatedAt = time.Now()
	return nil
}

func (s *Storage) ListFeedback() ([]*domain.Feedback, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, subject, message, created_at FROM feedback ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var feedback []*domain.Feedback
	for rows.Next() {
		f := &domain.Feedback{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.Subject, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}
