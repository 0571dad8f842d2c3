package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
)

// Listing товар в каталоге. Каталогом владеет внешний сервис, здесь важны
// только цена, продавец и доступность.
type Listing struct {
	ID            uuid.UUID
	SellerID      uuid.UUID
	Title         string
	Price         decimal.Decimal
	TradeType     string
	TradeLocation string
	Availability  valueobject.ListingAvailability
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (l *Listing) IsOnSale() bool {
	return l.Availability == valueobject.ListingOnSale
}

func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.SellerID == userID
}
