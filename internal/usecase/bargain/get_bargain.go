package bargain

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

type GetBargainUseCase struct {
	bargains repository.BargainRepository
}

func NewGetBargainUseCase(bargains repository.BargainRepository) *GetBargainUseCase {
	return &GetBargainUseCase{bargains: bargains}
}

// Execute возвращает предложение его автору или владельцу товара.
func (uc *GetBargainUseCase) Execute(ctx context.Context, bargainID, userID uuid.UUID) (*entity.Bargain, error) {
	b, err := uc.bargains.FindByID(ctx, bargainID)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(userID) {
		return nil, apperror.ErrForbidden
	}
	return b, nil
}

type ListListingBargainsUseCase struct {
	listings repository.ListingRepository
	bargains repository.BargainRepository
}

func NewListListingBargainsUseCase(listings repository.ListingRepository, bargains repository.BargainRepository) *ListListingBargainsUseCase {
	return &ListListingBargainsUseCase{listings: listings, bargains: bargains}
}

func (uc *ListListingBargainsUseCase) Execute(ctx context.Context, listingID uuid.UUID) ([]*entity.Bargain, error) {
	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		return nil, err
	}
	return uc.bargains.ListByListing(ctx, listingID)
}

type ListMyBargainsUseCase struct {
	bargains repository.BargainRepository
}

func NewListMyBargainsUseCase(bargains repository.BargainRepository) *ListMyBargainsUseCase {
	return &ListMyBargainsUseCase{bargains: bargains}
}

func (uc *ListMyBargainsUseCase) Execute(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bargain, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.bargains.ListByUser(ctx, userID, limit, offset)
}
