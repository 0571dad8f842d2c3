package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// UserDirectory читает профили из таблицы users, которую ведёт внешний сервис.
type UserDirectory struct {
	q sqlx.ExtContext
}

func NewUserDirectory(db *sqlx.DB) *UserDirectory {
	return &UserDirectory{q: db}
}

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Nickname  string    `db:"nickname"`
	AvatarURL *string   `db:"avatar_url"`
	Role      string    `db:"role"`
}

func (d *UserDirectory) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT id, nickname, avatar_url, role FROM users WHERE id = ?`
	row, err := getOne[userRow](ctx, d.q, apperror.ErrUserNotFound, query, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить пользователя")
	}
	return &entity.User{
		ID:        row.ID,
		Nickname:  row.Nickname,
		AvatarURL: row.AvatarURL,
		Role:      row.Role,
	}, nil
}
