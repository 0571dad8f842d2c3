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

const bargainColumns = `id, listing_id, order_id, bargainer_id, target_user_id, original_price, proposed_price,
	message, status, version, created_at, updated_at`

type BargainRepository struct {
	q sqlx.ExtContext
}

type bargainRow struct {
	ID            uuid.UUID                 `db:"id"`
	ListingID     uuid.UUID                 `db:"listing_id"`
	OrderID       *uuid.UUID                `db:"order_id"`
	BargainerID   uuid.UUID                 `db:"bargainer_id"`
	TargetUserID  uuid.UUID                 `db:"target_user_id"`
	OriginalPrice decimal.Decimal           `db:"original_price"`
	ProposedPrice decimal.Decimal           `db:"proposed_price"`
	Message       string                    `db:"message"`
	Status        valueobject.BargainStatus `db:"status"`
	Version       int                       `db:"version"`
	CreatedAt     time.Time                 `db:"created_at"`
	UpdatedAt     time.Time                 `db:"updated_at"`
}

func (r bargainRow) toEntity() *entity.Bargain {
	return &entity.Bargain{
		ID:            r.ID,
		ListingID:     r.ListingID,
		OrderID:       r.OrderID,
		ProposerID:    r.BargainerID,
		CounterpartID: r.TargetUserID,
		OriginalPrice: r.OriginalPrice,
		ProposedPrice: r.ProposedPrice,
		Message:       r.Message,
		Status:        r.Status,
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func (r *BargainRepository) Create(ctx context.Context, b *entity.Bargain) error {
	query := `
		INSERT INTO bargains (` + bargainColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		b.ID, b.ListingID, b.OrderID, b.ProposerID, b.CounterpartID, b.OriginalPrice, b.ProposedPrice,
		b.Message, b.Status, b.Version, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать предложение цены")
	}
	return nil
}

func (r *BargainRepository) Update(ctx context.Context, b *entity.Bargain) error {
	query := `
		UPDATE bargains
		SET status = ?, order_id = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	rows, err := execAffected(ctx, r.q, query, b.Status, b.OrderID, b.UpdatedAt, b.ID, b.Version)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить предложение цены")
	}
	if rows == 0 {
		return apperror.ErrConcurrentUpdate
	}
	b.Version++
	return nil
}

func (r *BargainRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bargain, error) {
	query := `SELECT ` + bargainColumns + ` FROM bargains WHERE id = ?`
	row, err := getOne[bargainRow](ctx, r.q, apperror.ErrBargainNotFound, query, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложение цены")
	}
	return row.toEntity(), nil
}

func (r *BargainRepository) ListByListing(ctx context.Context, listingID uuid.UUID) ([]*entity.Bargain, error) {
	query := r.q.Rebind(`SELECT ` + bargainColumns + ` FROM bargains WHERE listing_id = ? ORDER BY created_at DESC`)
	var rows []bargainRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, listingID); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения по товару")
	}
	return bargainsFromRows(rows), nil
}

func (r *BargainRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bargain, int, error) {
	var total int
	countQuery := r.q.Rebind(`SELECT COUNT(*) FROM bargains WHERE bargainer_id = ? OR target_user_id = ?`)
	if err := sqlx.GetContext(ctx, r.q, &total, countQuery, userID, userID); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать предложения")
	}

	query := r.q.Rebind(`
		SELECT ` + bargainColumns + `
		FROM bargains
		WHERE bargainer_id = ? OR target_user_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`)
	var rows []bargainRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, userID, userID, limit, offset); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить предложения")
	}
	return bargainsFromRows(rows), total, nil
}

func bargainsFromRows(rows []bargainRow) []*entity.Bargain {
	bargains := make([]*entity.Bargain, 0, len(rows))
	for _, row := range rows {
		bargains = append(bargains, row.toEntity())
	}
	return bargains
}
