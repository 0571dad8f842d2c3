package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
)

type CreateBargainRequest struct {
	ListingID string `json:"listing_id" binding:"required,uuid"`
	// OriginalPrice необязательна, по умолчанию берётся текущая цена товара.
	OriginalPrice decimal.Decimal `json:"original_price"`
	ProposedPrice decimal.Decimal `json:"proposed_price"`
	Message       string          `json:"message" binding:"max=500"`
}

type BargainResponse struct {
	ID            uuid.UUID       `json:"id"`
	ListingID     uuid.UUID       `json:"listing_id"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	ProposerID    uuid.UUID       `json:"proposer_id"`
	CounterpartID uuid.UUID       `json:"counterpart_id"`
	OriginalPrice decimal.Decimal `json:"original_price"`
	ProposedPrice decimal.Decimal `json:"proposed_price"`
	Message       string          `json:"message,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToBargainResponse(b *entity.Bargain) BargainResponse {
	return BargainResponse{
		ID:            b.ID,
		ListingID:     b.ListingID,
		OrderID:       b.OrderID,
		ProposerID:    b.ProposerID,
		CounterpartID: b.CounterpartID,
		OriginalPrice: b.OriginalPrice,
		ProposedPrice: b.ProposedPrice,
		Message:       b.Message,
		Status:        b.Status.String(),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func ToBargainListResponse(bargains []*entity.Bargain) []BargainResponse {
	result := make([]BargainResponse, 0, len(bargains))
	for _, b := range bargains {
		result = append(result, ToBargainResponse(b))
	}
	return result
}
