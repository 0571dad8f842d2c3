package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// Bargain предложение цены от покупателя владельцу товара.
type Bargain struct {
	ID            uuid.UUID
	ListingID     uuid.UUID
	OrderID       *uuid.UUID
	ProposerID    uuid.UUID
	CounterpartID uuid.UUID
	OriginalPrice decimal.Decimal
	ProposedPrice decimal.Decimal
	Message       string
	Status        valueobject.BargainStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewBargain создаёт предложение. Если исходная цена не указана, берётся цена товара.
func NewBargain(listing *Listing, proposerID uuid.UUID, originalPrice, proposedPrice decimal.Decimal, message string, now time.Time) (*Bargain, error) {
	if listing.IsOwnedBy(proposerID) {
		return nil, apperror.New(apperror.ErrCodeSelfTransaction, "нельзя торговаться за собственный товар")
	}

	proposed, err := valueobject.NewPrice(proposedPrice)
	if err != nil {
		return nil, err
	}

	original := listing.Price
	if !originalPrice.IsZero() {
		if original, err = valueobject.NewPrice(originalPrice); err != nil {
			return nil, err
		}
	}

	return &Bargain{
		ID:            uuid.New(),
		ListingID:     listing.ID,
		ProposerID:    proposerID,
		CounterpartID: listing.SellerID,
		OriginalPrice: original,
		ProposedPrice: proposed,
		Message:       message,
		Status:        valueobject.BargainPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (b *Bargain) IsParticipant(userID uuid.UUID) bool {
	return b.ProposerID == userID || b.CounterpartID == userID
}

// Accept принимает предложение. Доступно только владельцу товара.
func (b *Bargain) Accept(actorID uuid.UUID, now time.Time) error {
	if actorID != b.CounterpartID {
		return apperror.New(apperror.ErrCodeForbidden, "принять предложение может только продавец")
	}
	return b.settle(valueobject.BargainAccepted, now)
}

// Reject отклоняет предложение. Доступно только владельцу товара.
func (b *Bargain) Reject(actorID uuid.UUID, now time.Time) error {
	if actorID != b.CounterpartID {
		return apperror.New(apperror.ErrCodeForbidden, "отклонить предложение может только продавец")
	}
	return b.settle(valueobject.BargainRejected, now)
}

// Cancel отзывает предложение. Доступно только автору.
func (b *Bargain) Cancel(actorID uuid.UUID, now time.Time) error {
	if actorID != b.ProposerID {
		return apperror.New(apperror.ErrCodeForbidden, "отозвать предложение может только его автор")
	}
	return b.settle(valueobject.BargainCancelled, now)
}

func (b *Bargain) settle(to valueobject.BargainStatus, now time.Time) error {
	if b.Status != valueobject.BargainPending {
		return apperror.InvalidState("обработка предложения", b.Status)
	}
	b.Status = to
	b.UpdatedAt = now
	return nil
}

// CanOpenOrder проверяет, что принятое предложение можно использовать для сделки.
func (b *Bargain) CanOpenOrder(buyerID, listingID uuid.UUID) error {
	if b.ProposerID != buyerID {
		return apperror.New(apperror.ErrCodeForbidden, "предложение цены принадлежит другому покупателю")
	}
	if b.ListingID != listingID {
		return apperror.New(apperror.ErrCodeValidation, "предложение цены относится к другому товару")
	}
	if b.Status != valueobject.BargainAccepted {
		return apperror.InvalidState("сделка по предложению", b.Status)
	}
	if b.OrderID != nil {
		return apperror.New(apperror.ErrCodeInvalidState, "по предложению уже оформлен заказ")
	}
	return nil
}

// AttachOrder связывает предложение с оформленной сделкой.
func (b *Bargain) AttachOrder(orderID uuid.UUID, now time.Time) {
	b.OrderID = &orderID
	b.UpdatedAt = now
}

// DetachOrder снимает привязку к отменённой сделке. Возвращает false, если
// предложение привязано к другой сделке или не привязано вовсе.
func (b *Bargain) DetachOrder(orderID uuid.UUID, now time.Time) bool {
	if b.OrderID == nil || *b.OrderID != orderID {
		return false
	}
	b.OrderID = nil
	b.UpdatedAt = now
	return true
}
