package domain

import "time"

type Feedback struct {
	ID        int64
	UserID    int64
	Subject   string
	Message   string
	CreatedAt time.Time
}
