package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

const orderColumns = `id, order_no, listing_id, bargain_id, buyer_id, seller_id, price, status,
	trade_type, trade_location, remark, cancel_reason,
	refund_status, refund_reason, refund_time,
	dispute_status, dispute_reason, dispute_evidence, dispute_resolution, dispute_result, dispute_time, resolve_time,
	version, created_at, updated_at`

type OrderRepository struct {
	q sqlx.ExtContext
}

type orderRow struct {
	ID                uuid.UUID                     `db:"id"`
	OrderNo           string                        `db:"order_no"`
	ListingID         uuid.UUID                     `db:"listing_id"`
	BargainID         *uuid.UUID                    `db:"bargain_id"`
	BuyerID           uuid.UUID                     `db:"buyer_id"`
	SellerID          uuid.UUID                     `db:"seller_id"`
	Price             decimal.Decimal               `db:"price"`
	Status            valueobject.OrderStatus       `db:"status"`
	TradeType         string                        `db:"trade_type"`
	TradeLocation     string                        `db:"trade_location"`
	Remark            string                        `db:"remark"`
	CancelReason      string                        `db:"cancel_reason"`
	RefundStatus      valueobject.RefundStatus      `db:"refund_status"`
	RefundReason      string                        `db:"refund_reason"`
	RefundTime        *time.Time                    `db:"refund_time"`
	DisputeStatus     valueobject.DisputeStatus     `db:"dispute_status"`
	DisputeReason     string                        `db:"dispute_reason"`
	DisputeEvidence   string                        `db:"dispute_evidence"`
	DisputeResolution valueobject.DisputeResolution `db:"dispute_resolution"`
	DisputeResult     string                        `db:"dispute_result"`
	DisputeTime       *time.Time                    `db:"dispute_time"`
	ResolveTime       *time.Time                    `db:"resolve_time"`
	Version           int                           `db:"version"`
	CreatedAt         time.Time                     `db:"created_at"`
	UpdatedAt         time.Time                     `db:"updated_at"`
}

func (r orderRow) toEntity() *entity.Order {
	return &entity.Order{
		ID:                r.ID,
		OrderNo:           r.OrderNo,
		ListingID:         r.ListingID,
		BargainID:         r.BargainID,
		BuyerID:           r.BuyerID,
		SellerID:          r.SellerID,
		Price:             r.Price,
		Status:            r.Status,
		TradeType:         r.TradeType,
		TradeLocation:     r.TradeLocation,
		Remark:            r.Remark,
		CancelReason:      r.CancelReason,
		RefundStatus:      r.RefundStatus,
		RefundReason:      r.RefundReason,
		RefundTime:        r.RefundTime,
		DisputeStatus:     r.DisputeStatus,
		DisputeReason:     r.DisputeReason,
		DisputeEvidence:   r.DisputeEvidence,
		DisputeResolution: r.DisputeResolution,
		DisputeResult:     r.DisputeResult,
		DisputeTime:       r.DisputeTime,
		ResolveTime:       r.ResolveTime,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.q.ExecContext(ctx, r.q.Rebind(query),
		o.ID, o.OrderNo, o.ListingID, o.BargainID, o.BuyerID, o.SellerID, o.Price, o.Status,
		o.TradeType, o.TradeLocation, o.Remark, o.CancelReason,
		o.RefundStatus, o.RefundReason, o.RefundTime,
		o.DisputeStatus, o.DisputeReason, o.DisputeEvidence, o.DisputeResolution, o.DisputeResult, o.DisputeTime, o.ResolveTime,
		o.Version, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.ErrListingUnavailable
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders SET
			status = ?, cancel_reason = ?,
			refund_status = ?, refund_reason = ?, refund_time = ?,
			dispute_status = ?, dispute_reason = ?, dispute_evidence = ?,
			dispute_resolution = ?, dispute_result = ?, dispute_time = ?, resolve_time = ?,
			updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?
	`
	rows, err := execAffected(ctx, r.q, query,
		o.Status, o.CancelReason,
		o.RefundStatus, o.RefundReason, o.RefundTime,
		o.DisputeStatus, o.DisputeReason, o.DisputeEvidence,
		o.DisputeResolution, o.DisputeResult, o.DisputeTime, o.ResolveTime,
		o.UpdatedAt, o.ID, o.Version,
	)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить заказ")
	}
	if rows == 0 {
		return apperror.ErrConcurrentUpdate
	}
	o.Version++
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	row, err := getOne[orderRow](ctx, r.q, apperror.ErrOrderNotFound, query, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return row.toEntity(), nil
}

func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	var (
		where []string
		args  []interface{}
	)

	switch filter.Role {
	case valueobject.RoleBuyer:
		where = append(where, "buyer_id = ?")
		args = append(args, filter.UserID)
	case valueobject.RoleSeller:
		where = append(where, "seller_id = ?")
		args = append(args, filter.UserID)
	default:
		where = append(where, "(buyer_id = ? OR seller_id = ?)")
		args = append(args, filter.UserID, filter.UserID)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := r.q.Rebind(`SELECT COUNT(*) FROM orders WHERE ` + cond)
	if err := sqlx.GetContext(ctx, r.q, &total, countQuery, args...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось посчитать заказы")
	}

	query := r.q.Rebind(`SELECT ` + orderColumns + ` FROM orders WHERE ` + cond + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`)
	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, append(args, filter.Limit, filter.Offset)...); err != nil {
		return nil, 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список заказов")
	}

	return ordersFromRows(rows), total, nil
}

func (r *OrderRepository) FindExpiredPending(ctx context.Context, cutoff time.Time, limit int) ([]*entity.Order, error) {
	query := r.q.Rebind(`
		SELECT ` + orderColumns + `
		FROM orders
		WHERE status = ? AND created_at < ?
		ORDER BY created_at
		LIMIT ?
	`)
	var rows []orderRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, valueobject.OrderStatusPending, cutoff, limit); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить просроченные заказы")
	}
	return ordersFromRows(rows), nil
}

func (r *OrderRepository) Statistics(ctx context.Context, userID uuid.UUID) (*repository.OrderStatistics, error) {
	query := `
		SELECT
			COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN buyer_id = ? THEN 1 ELSE 0 END), 0) AS as_buyer,
			COALESCE(SUM(CASE WHEN seller_id = ? THEN 1 ELSE 0 END), 0) AS as_seller,
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN 1 ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = 'PAID' THEN 1 ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status = 'SHIPPED' THEN 1 ELSE 0 END), 0) AS shipped,
			COALESCE(SUM(CASE WHEN status = 'COMPLETED' THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = 'CANCELLED' THEN 1 ELSE 0 END), 0) AS cancelled,
			COALESCE(SUM(CASE WHEN refund_status = 'APPLYING' THEN 1 ELSE 0 END), 0) AS refunding,
			COALESCE(SUM(CASE WHEN dispute_status IN ('APPLYING', 'PROCESSING') THEN 1 ELSE 0 END), 0) AS disputing
		FROM orders
		WHERE buyer_id = ? OR seller_id = ?
	`
	stats, err := getOne[repository.OrderStatistics](ctx, r.q, nil, query, userID, userID, userID, userID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить статистику заказов")
	}
	return stats, nil
}

func ordersFromRows(rows []orderRow) []*entity.Order {
	orders := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toEntity())
	}
	return orders
}
