// internal/infrastructure/persistence/postgres/models/users.go
package models

import "time"

// Роли пользователей
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User - пользователь бота
type User struct {
	ID         int64     `db:"id" json:"id"`
	TelegramID int64     `db:"telegram_id" json:"telegram_id"`
	Username   string    `db:"username" json:"username"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	ChatID     int64     `db:"chat_id" json:"chat_id"`
	Language   string    `db:"language" json:"language"`
	Role       string    `db:"role" json:"role"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
	LastSeenAt time.Time `db:"last_seen_at" json:"last_seen_at"`
}

// IsAdmin проверяет админскую роль
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName возвращает отображаемое имя пользователя
func (u *User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}
