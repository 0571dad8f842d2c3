package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/validation"
)

type ApplyRefundUseCase struct {
	deps Deps
}

func NewApplyRefundUseCase(deps Deps) *ApplyRefundUseCase {
	return &ApplyRefundUseCase{deps: deps}
}

func (uc *ApplyRefundUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID, reason string) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "refund_apply", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			if err := validation.ValidateReason(reason); err != nil {
				return err
			}
			return o.ApplyRefund(actorID, reason, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.SellerID, entity.NotificationRefund, "Покупатель запросил возврат", o)
	return o, nil
}

type ApproveRefundUseCase struct {
	deps Deps
}

func NewApproveRefundUseCase(deps Deps) *ApproveRefundUseCase {
	return &ApproveRefundUseCase{deps: deps}
}

// Execute одобряет возврат: сделка отменяется, товар возвращается в продажу.
func (uc *ApproveRefundUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "refund_approve", orderID, uc.deps.now(),
		func(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error {
			if err := o.ApproveRefund(actorID, now); err != nil {
				return err
			}
			return releaseCancelled(ctx, repos, o, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.BuyerID, entity.NotificationRefund, "Возврат одобрен", o)
	return o, nil
}

type RejectRefundUseCase struct {
	deps Deps
}

func NewRejectRefundUseCase(deps Deps) *RejectRefundUseCase {
	return &RejectRefundUseCase{deps: deps}
}

func (uc *RejectRefundUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "refund_reject", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			return o.RejectRefund(actorID, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.BuyerID, entity.NotificationRefund, "Возврат отклонён", o)
	return o, nil
}
