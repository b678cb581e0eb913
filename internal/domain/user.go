package domain

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

type User struct {
	ID         int64
	TelegramID int64
	Name       string
	Role       UserRole
	CreatedAt  time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
