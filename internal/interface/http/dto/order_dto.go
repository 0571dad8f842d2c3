package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
)

type CreateOrderRequest struct {
	ListingID     string  `json:"listing_id" binding:"required,uuid"`
	BargainID     *string `json:"bargain_id" binding:"omitempty,uuid"`
	TradeType     string  `json:"trade_type" binding:"max=32"`
	TradeLocation string  `json:"trade_location" binding:"max=255"`
	Remark        string  `json:"remark" binding:"max=500"`
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

type DisputeRequest struct {
	Reason   string `json:"reason" binding:"required,max=500"`
	Evidence string `json:"evidence" binding:"max=2000"`
}

type ResolveDisputeRequest struct {
	Resolution string `json:"resolution" binding:"required"`
	Note       string `json:"note" binding:"max=500"`
}

// UserBrief краткий профиль стороны сделки.
type UserBrief struct {
	ID        uuid.UUID `json:"id"`
	Nickname  string    `json:"nickname"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

type OrderResponse struct {
	ID            uuid.UUID       `json:"id"`
	OrderNo       string          `json:"order_no"`
	ListingID     uuid.UUID       `json:"listing_id"`
	BargainID     *uuid.UUID      `json:"bargain_id,omitempty"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	Buyer         *UserBrief      `json:"buyer,omitempty"`
	Seller        *UserBrief      `json:"seller,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Status        string          `json:"status"`
	TradeType     string          `json:"trade_type"`
	TradeLocation string          `json:"trade_location"`
	Remark        string          `json:"remark,omitempty"`
	CancelReason  string          `json:"cancel_reason,omitempty"`

	RefundStatus string     `json:"refund_status"`
	RefundReason string     `json:"refund_reason,omitempty"`
	RefundTime   *time.Time `json:"refund_time,omitempty"`

	DisputeStatus     string     `json:"dispute_status"`
	DisputeReason     string     `json:"dispute_reason,omitempty"`
	DisputeEvidence   string     `json:"dispute_evidence,omitempty"`
	DisputeResolution string     `json:"dispute_resolution,omitempty"`
	DisputeResult     string     `json:"dispute_result,omitempty"`
	DisputeTime       *time.Time `json:"dispute_time,omitempty"`
	ResolveTime       *time.Time `json:"resolve_time,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderStatisticsResponse struct {
	Total     int `json:"total"`
	AsBuyer   int `json:"as_buyer"`
	AsSeller  int `json:"as_seller"`
	Pending   int `json:"pending"`
	Paid      int `json:"paid"`
	Shipped   int `json:"shipped"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
	Refunding int `json:"refunding"`
	Disputing int `json:"disputing"`
}

func ToOrderResponse(o *entity.Order) OrderResponse {
	return OrderResponse{
		ID:                o.ID,
		OrderNo:           o.OrderNo,
		ListingID:         o.ListingID,
		BargainID:         o.BargainID,
		BuyerID:           o.BuyerID,
		SellerID:          o.SellerID,
		Price:             o.Price,
		Status:            o.Status.String(),
		TradeType:         o.TradeType,
		TradeLocation:     o.TradeLocation,
		Remark:            o.Remark,
		CancelReason:      o.CancelReason,
		RefundStatus:      o.RefundStatus.String(),
		RefundReason:      o.RefundReason,
		RefundTime:        o.RefundTime,
		DisputeStatus:     o.DisputeStatus.String(),
		DisputeReason:     o.DisputeReason,
		DisputeEvidence:   o.DisputeEvidence,
		DisputeResolution: o.DisputeResolution.String(),
		DisputeResult:     o.DisputeResult,
		DisputeTime:       o.DisputeTime,
		ResolveTime:       o.ResolveTime,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
}

func ToOrderListResponse(orders []*entity.Order) []OrderResponse {
	result := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, ToOrderResponse(o))
	}
	return result
}

func ToUserBrief(u *entity.User) *UserBrief {
	if u == nil {
		return nil
	}
	return &UserBrief{ID: u.ID, Nickname: u.Nickname, AvatarURL: u.AvatarURL}
}

func ToOrderStatisticsResponse(s *repository.OrderStatistics) OrderStatisticsResponse {
	return OrderStatisticsResponse(*s)
}

// ParseOptionalUUID разбирает необязательный идентификатор из запроса.
func ParseOptionalUUID(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
