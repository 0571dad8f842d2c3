package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
)

type CancelOrderUseCase struct {
	deps Deps
}

func NewCancelOrderUseCase(deps Deps) *CancelOrderUseCase {
	return &CancelOrderUseCase{deps: deps}
}

// Execute отменяет неоплаченную сделку и возвращает товар в продажу.
func (uc *CancelOrderUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "cancel", orderID, uc.deps.now(),
		func(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error {
			if err := o.Cancel(actorID, now); err != nil {
				return err
			}
			return releaseCancelled(ctx, repos, o, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.CounterpartOf(actorID), entity.NotificationOrder, "Заказ отменён", o)
	return o, nil
}

type PayOrderUseCase struct {
	deps Deps
}

func NewPayOrderUseCase(deps Deps) *PayOrderUseCase {
	return &PayOrderUseCase{deps: deps}
}

func (uc *PayOrderUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "pay", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			return o.Pay(actorID, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.SellerID, entity.NotificationOrder, "Заказ оплачен", o)
	return o, nil
}

type ShipOrderUseCase struct {
	deps Deps
}

func NewShipOrderUseCase(deps Deps) *ShipOrderUseCase {
	return &ShipOrderUseCase{deps: deps}
}

func (uc *ShipOrderUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "ship", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			return o.Ship(actorID, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.BuyerID, entity.NotificationOrder, "Продавец передал товар", o)
	return o, nil
}

type ConfirmReceiptUseCase struct {
	deps Deps
}

func NewConfirmReceiptUseCase(deps Deps) *ConfirmReceiptUseCase {
	return &ConfirmReceiptUseCase{deps: deps}
}

func (uc *ConfirmReceiptUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "confirm", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			return o.ConfirmReceipt(actorID, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.SellerID, entity.NotificationOrder, "Покупатель подтвердил получение", o)
	return o, nil
}
