package models

import "time"

// Роли пользователей. Посты авторов с ролью ADMIN скрываются
// из публичных списков и лент.
const (
	RoleAdmin  = "ADMIN"
	RoleAuthor = "AUTHOR"
)

type User struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             string     `json:"role"`
	ResetToken       *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Viewer — личность запрашивающего, извлечённая из сессии.
// Nil-указатель означает анонимный запрос.
type Viewer struct {
	UserID int64
	Role   string
	Name   string
}

func (v *Viewer) IsAdmin() bool {
	return v != nil && v.Role == RoleAdmin
}

// UserSummary — публичное представление автора внутри поста.
type UserSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// UserListItem — строка в админском списке пользователей.
type UserListItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
