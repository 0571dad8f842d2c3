package bargain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/raulk/clock"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/metrics"
)

// settleFunc переводит предложение в итоговый статус от имени actorID.
type settleFunc func(b *entity.Bargain, actorID uuid.UUID, now time.Time) error

// outcome описывает действие и уведомление второй стороне.
type outcome struct {
	action string
	settle settleFunc
	title  string
	// recipient выбирает получателя уведомления.
	recipient func(b *entity.Bargain) uuid.UUID
}

type respondUseCase struct {
	bargains repository.BargainRepository
	notifier Notifier
	clock    clock.Clock
	outcome  outcome
}

func (uc *respondUseCase) execute(ctx context.Context, bargainID, actorID uuid.UUID) (b *entity.Bargain, err error) {
	defer func() { metrics.ObserveBargain(uc.outcome.action, err) }()

	b, err = uc.bargains.FindByID(ctx, bargainID)
	if err != nil {
		return nil, err
	}

	if err := uc.outcome.settle(b, actorID, uc.clock.Now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.bargains.Update(ctx, b); err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, uc.outcome.recipient(b), uc.outcome.title,
		"Предложенная цена: "+b.ProposedPrice.StringFixed(2), b.ID)
	return b, nil
}

func proposer(b *entity.Bargain) uuid.UUID    { return b.ProposerID }
func counterpart(b *entity.Bargain) uuid.UUID { return b.CounterpartID }

// AcceptBargainUseCase принимает предложение. Доступно только владельцу товара.
type AcceptBargainUseCase struct{ respondUseCase }

func NewAcceptBargainUseCase(bargains repository.BargainRepository, notifier Notifier, clk clock.Clock) *AcceptBargainUseCase {
	return &AcceptBargainUseCase{respondUseCase{
		bargains: bargains,
		notifier: notifier,
		clock:    clk,
		outcome: outcome{
			action:    "accept",
			settle:    (*entity.Bargain).Accept,
			title:     "Предложение цены принято",
			recipient: proposer,
		},
	}}
}

func (uc *AcceptBargainUseCase) Execute(ctx context.Context, bargainID, actorID uuid.UUID) (*entity.Bargain, error) {
	return uc.execute(ctx, bargainID, actorID)
}

// RejectBargainUseCase отклоняет предложение. Доступно только владельцу товара.
type RejectBargainUseCase struct{ respondUseCase }

func NewRejectBargainUseCase(bargains repository.BargainRepository, notifier Notifier, clk clock.Clock) *RejectBargainUseCase {
	return &RejectBargainUseCase{respondUseCase{
		bargains: bargains,
		notifier: notifier,
		clock:    clk,
		outcome: outcome{
			action:    "reject",
			settle:    (*entity.Bargain).Reject,
			title:     "Предложение цены отклонено",
			recipient: proposer,
		},
	}}
}

func (uc *RejectBargainUseCase) Execute(ctx context.Context, bargainID, actorID uuid.UUID) (*entity.Bargain, error) {
	return uc.execute(ctx, bargainID, actorID)
}

// CancelBargainUseCase отзывает предложение. Доступно только автору.
type CancelBargainUseCase struct{ respondUseCase }

func NewCancelBargainUseCase(bargains repository.BargainRepository, notifier Notifier, clk clock.Clock) *CancelBargainUseCase {
	return &CancelBargainUseCase{respondUseCase{
		bargains: bargains,
		notifier: notifier,
		clock:    clk,
		outcome: outcome{
			action:    "cancel",
			settle:    (*entity.Bargain).Cancel,
			title:     "Покупатель отозвал предложение цены",
			recipient: counterpart,
		},
	}}
}

func (uc *CancelBargainUseCase) Execute(ctx context.Context, bargainID, actorID uuid.UUID) (*entity.Bargain, error) {
	return uc.execute(ctx, bargainID, actorID)
}
