// Package listing управляет доступностью товара для сделки.
package listing

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// Reserve переводит товар ON_SALE → SOLD за покупателя. Из нескольких
// одновременных вызовов успешен не более чем один.
func Reserve(ctx context.Context, listings repository.ListingRepository, listingID, buyerID uuid.UUID) (*entity.Listing, error) {
	l, err := listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if l.IsOwnedBy(buyerID) {
		return nil, apperror.ErrSelfTransaction
	}
	if !l.IsOnSale() {
		return nil, apperror.ErrListingUnavailable
	}

	ok, err := listings.TryReserve(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ErrListingUnavailable
	}

	return listings.FindByID(ctx, listingID)
}

// Release возвращает проданный товар в продажу. Для товара в любом другом
// статусе ничего не делает.
func Release(ctx context.Context, listings repository.ListingRepository, listingID uuid.UUID) error {
	if _, err := listings.TryRelease(ctx, listingID); err != nil {
		return err
	}
	return nil
}
