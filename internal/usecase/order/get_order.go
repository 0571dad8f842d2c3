package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

type GetOrderUseCase struct {
	orders repository.OrderRepository
}

func NewGetOrderUseCase(orders repository.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders}
}

// Execute возвращает сделку её участнику или модератору.
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID, userID uuid.UUID, isModerator bool) (*entity.Order, error) {
	o, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isModerator && !o.IsParticipant(userID) {
		return nil, apperror.ErrForbidden
	}
	return o, nil
}

type ListOrdersUseCase struct {
	orders repository.OrderRepository
}

func NewListOrdersUseCase(orders repository.OrderRepository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.orders.List(ctx, filter)
}

type OrderStatisticsUseCase struct {
	orders repository.OrderRepository
}

func NewOrderStatisticsUseCase(orders repository.OrderRepository) *OrderStatisticsUseCase {
	return &OrderStatisticsUseCase{orders: orders}
}

func (uc *OrderStatisticsUseCase) Execute(ctx context.Context, userID uuid.UUID) (*repository.OrderStatistics, error) {
	return uc.orders.Statistics(ctx, userID)
}
