package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
)

type BargainRepository interface {
	Create(ctx context.Context, bargain *entity.Bargain) error
	// Update работает как OrderRepository.Update: оптимистичная блокировка по версии.
	Update(ctx context.Context, bargain *entity.Bargain) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Bargain, error)
	ListByListing(ctx context.Context, listingID uuid.UUID) ([]*entity.Bargain, error)
	// ListByUser возвращает предложения, где пользователь автор или владелец товара.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bargain, int, error)
}
