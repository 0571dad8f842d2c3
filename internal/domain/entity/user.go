package entity

import "github.com/google/uuid"

// Роли пользователей, выдаваемые внешним сервисом авторизации.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
)

// User профиль пользователя для отображения сторон сделки.
type User struct {
	ID        uuid.UUID
	Nickname  string
	AvatarURL *string
	Role      string
}

func (u *User) IsModerator() bool {
	return u.Role == RoleModerator
}
