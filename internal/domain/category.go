package domain

import "time"

// Category groups events; its name feeds the priority keyword matching
type Category struct {
	ID        int64
	UserID    int64
	Name      string
	Color     string // hex, for clients that render it
	CreatedAt time.Time
}
