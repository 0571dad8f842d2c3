package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]*entity.Notification, error)
	// MarkAsRead отмечает уведомление владельца. Чужое уведомление неотличимо от отсутствующего.
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// UserDirectory даёт доступ к профилям пользователей на чтение.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
