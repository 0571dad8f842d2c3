// Package bargain реализует торг за цену товара между покупателем и владельцем.
// Предложение ни на что не влияет до тех пор, пока по нему не откроют сделку.
package bargain

import (
	"context"

	"github.com/google/uuid"
	"github.com/raulk/clock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/metrics"
	"github.com/ignatzorin/campus-market/internal/validation"
)

// Notifier доставляет системное уведомление пользователю.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, content string, relatedID uuid.UUID) error
}

type ProposeInput struct {
	ListingID     uuid.UUID
	ProposerID    uuid.UUID
	OriginalPrice decimal.Decimal
	ProposedPrice decimal.Decimal
	Message       string
}

type ProposeBargainUseCase struct {
	listings repository.ListingRepository
	bargains repository.BargainRepository
	notifier Notifier
	clock    clock.Clock
}

func NewProposeBargainUseCase(listings repository.ListingRepository, bargains repository.BargainRepository, notifier Notifier, clk clock.Clock) *ProposeBargainUseCase {
	return &ProposeBargainUseCase{listings: listings, bargains: bargains, notifier: notifier, clock: clk}
}

func (uc *ProposeBargainUseCase) Execute(ctx context.Context, input ProposeInput) (b *entity.Bargain, err error) {
	defer func() { metrics.ObserveBargain("propose", err) }()

	if err = validation.ValidateBargainMessage(input.Message); err != nil {
		return nil, err
	}

	listing, err := uc.listings.FindByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	b, err = entity.NewBargain(listing, input.ProposerID, input.OriginalPrice, input.ProposedPrice, input.Message, uc.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.bargains.Create(ctx, b); err != nil {
		return nil, err
	}

	notify(ctx, uc.notifier, b.CounterpartID, "Новое предложение цены",
		"Покупатель предложил "+b.ProposedPrice.StringFixed(2)+" за «"+listing.Title+"»", b.ID)
	return b, nil
}

// notify отправляет уведомление после сохранения. Ошибка только логируется.
func notify(ctx context.Context, n Notifier, userID uuid.UUID, title, content string, bargainID uuid.UUID) {
	if n == nil {
		return
	}
	if err := n.Notify(ctx, userID, entity.NotificationBargain, title, content, bargainID); err != nil {
		logger.WithComponent("bargain").WithFields(logrus.Fields{
			"bargain_id": bargainID,
			"user_id":    userID,
			"error":      err,
		}).Warn("не удалось отправить уведомление")
	}
}
