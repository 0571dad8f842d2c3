package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

type ListingRepository struct {
	q sqlx.ExtContext
}

type listingRow struct {
	ID            uuid.UUID                       `db:"id"`
	SellerID      uuid.UUID                       `db:"seller_id"`
	Title         string                          `db:"title"`
	Price         decimal.Decimal                 `db:"price"`
	TradeType     string                          `db:"trade_type"`
	TradeLocation string                          `db:"trade_location"`
	Availability  valueobject.ListingAvailability `db:"availability"`
	CreatedAt     time.Time                       `db:"created_at"`
	UpdatedAt     time.Time                       `db:"updated_at"`
}

func (r listingRow) toEntity() *entity.Listing {
	return &entity.Listing{
		ID:            r.ID,
		SellerID:      r.SellerID,
		Title:         r.Title,
		Price:         r.Price,
		TradeType:     r.TradeType,
		TradeLocation: r.TradeLocation,
		Availability:  r.Availability,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *ListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Listing, error) {
	query := `
		SELECT id, seller_id, title, price, trade_type, trade_location, availability, created_at, updated_at
		FROM listings
		WHERE id = ?
	`
	row, err := getOne[listingRow](ctx, r.q, apperror.ErrListingNotFound, query, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить товар")
	}
	return row.toEntity(), nil
}

func (r *ListingRepository) TryReserve(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.compareAndSet(ctx, id, valueobject.ListingOnSale, valueobject.ListingSold)
}

func (r *ListingRepository) TryRelease(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.compareAndSet(ctx, id, valueobject.ListingSold, valueobject.ListingOnSale)
}

// compareAndSet меняет доступность одним UPDATE с условием на текущее значение,
// поэтому из конкурирующих запросов успешен ровно один.
func (r *ListingRepository) compareAndSet(ctx context.Context, id uuid.UUID, from, to valueobject.ListingAvailability) (bool, error) {
	query := `
		UPDATE listings
		SET availability = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND availability = ?
	`
	rows, err := execAffected(ctx, r.q, query, to, id, from)
	if err != nil {
		return false, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось изменить доступность товара")
	}
	return rows == 1, nil
}
