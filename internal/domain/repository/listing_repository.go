package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
)

type ListingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error)
	// TryReserve атомарно переводит товар ON_SALE → SOLD. false, если товар уже не в продаже.
	TryReserve(ctx context.Context, id uuid.UUID) (bool, error)
	// TryRelease атомарно переводит товар SOLD → ON_SALE. false, если товар не был продан.
	TryRelease(ctx context.Context, id uuid.UUID) (bool, error)
}
