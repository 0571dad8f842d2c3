package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// Update сохраняет заказ, если его версия не изменилась с момента чтения,
	// и увеличивает order.Version. Иначе apperror.ErrConcurrentUpdate.
	Update(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]*entity.Order, int, error)
	// FindExpiredPending возвращает заказы PENDING, созданные строго раньше cutoff.
	FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Order, error)
	Statistics(ctx context.Context, userID uuid.UUID) (*OrderStatistics, error)
}

type OrderFilter struct {
	UserID uuid.UUID
	Role   valueobject.ParticipantRole
	Status valueobject.OrderStatus
	Limit  int
	Offset int
}

// OrderStatistics сводка по сделкам пользователя.
type OrderStatistics struct {
	Total     int `db:"total"`
	AsBuyer   int `db:"as_buyer"`
	AsSeller  int `db:"as_seller"`
	Pending   int `db:"pending"`
	Paid      int `db:"paid"`
	Shipped   int `db:"shipped"`
	Completed int `db:"completed"`
	Cancelled int `db:"cancelled"`
	Refunding int `db:"refunding"`
	Disputing int `db:"disputing"`
}
