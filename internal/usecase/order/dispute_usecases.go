package order

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/metrics"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
	"github.com/ignatzorin/campus-market/internal/validation"
)

type ApplyDisputeUseCase struct {
	deps Deps
}

func NewApplyDisputeUseCase(deps Deps) *ApplyDisputeUseCase {
	return &ApplyDisputeUseCase{deps: deps}
}

func (uc *ApplyDisputeUseCase) Execute(ctx context.Context, orderID, actorID uuid.UUID, reason, evidence string) (*entity.Order, error) {
	o, err := uc.deps.transition(ctx, "dispute_apply", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			if err := validation.ValidateReason(reason); err != nil {
				return err
			}
			if err := validation.ValidateEvidence(evidence); err != nil {
				return err
			}
			return o.ApplyDispute(actorID, reason, evidence, now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notify(ctx, o.CounterpartOf(actorID), entity.NotificationDispute, "По заказу открыт спор", o)
	return o, nil
}

type StartDisputeReviewUseCase struct {
	deps Deps
}

func NewStartDisputeReviewUseCase(deps Deps) *StartDisputeReviewUseCase {
	return &StartDisputeReviewUseCase{deps: deps}
}

// Execute берёт спор на рассмотрение. Доступно только модератору.
func (uc *StartDisputeReviewUseCase) Execute(ctx context.Context, orderID uuid.UUID, resolverIsModerator bool) (*entity.Order, error) {
	if !resolverIsModerator {
		metrics.ObserveOrder("dispute_review", apperror.ErrForbidden)
		return nil, apperror.ErrForbidden
	}

	o, err := uc.deps.transition(ctx, "dispute_review", orderID, uc.deps.now(),
		func(_ context.Context, _ repository.Repositories, o *entity.Order, now time.Time) error {
			return o.StartDisputeReview(now)
		})
	if err != nil {
		return nil, err
	}

	uc.deps.notifyBoth(ctx, entity.NotificationDispute, "Спор взят на рассмотрение", o)
	return o, nil
}

type ResolveDisputeInput struct {
	Resolution valueobject.DisputeResolution
	// Note пояснение модератора, сохраняется только для истории.
	Note string
}

type ResolveDisputeUseCase struct {
	deps Deps
}

func NewResolveDisputeUseCase(deps Deps) *ResolveDisputeUseCase {
	return &ResolveDisputeUseCase{deps: deps}
}

// Execute закрывает спор. При REVERSE_SALE сделка отменяется и товар
// возвращается в продажу, если сделка ещё не была отменена.
func (uc *ResolveDisputeUseCase) Execute(ctx context.Context, orderID uuid.UUID, resolverIsModerator bool, input ResolveDisputeInput) (*entity.Order, error) {
	if !resolverIsModerator {
		metrics.ObserveOrder("dispute_resolve", apperror.ErrForbidden)
		return nil, apperror.ErrForbidden
	}
	if _, err := valueobject.NewDisputeResolution(string(input.Resolution)); err != nil {
		metrics.ObserveOrder("dispute_resolve", err)
		return nil, err
	}

	o, err := uc.deps.transition(ctx, "dispute_resolve", orderID, uc.deps.now(),
		func(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error {
			reversed, err := o.ResolveDispute(input.Resolution, input.Note, now)
			if err != nil {
				return err
			}
			if !reversed {
				return nil
			}
			return releaseCancelled(ctx, repos, o, now)
		})
	if err != nil {
		return nil, err
	}

	title := "Спор решён: сделка оставлена в силе"
	if o.DisputeResolution == valueobject.ResolutionReverseSale {
		title = "Спор решён: сделка отменена"
	}
	uc.deps.notifyBoth(ctx, entity.NotificationDispute, title, o)
	return o, nil
}
