package valueobject

import "github.com/ignatzorin/campus-market/internal/pkg/apperror"

// ListingAvailability состояние товара в каталоге.
type ListingAvailability string

const (
	ListingDraft    ListingAvailability = "DRAFT"
	ListingOnSale   ListingAvailability = "ON_SALE"
	ListingSold     ListingAvailability = "SOLD"
	ListingOffShelf ListingAvailability = "OFF_SHELF"
	ListingDeleted  ListingAvailability = "DELETED"
)

func (s ListingAvailability) String() string { return string(s) }

func (s ListingAvailability) IsValid() bool {
	switch s {
	case ListingDraft, ListingOnSale, ListingSold, ListingOffShelf, ListingDeleted:
		return true
	}
	return false
}

// OrderStatus основной статус сделки.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {OrderStatusCancelled},
	OrderStatusCancelled: {},
}

func (s OrderStatus) String() string { return string(s) }

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// IsTerminal сообщает, что из статуса нет обычных переходов по сделке.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanTransitionTo проверяет допустимость перехода по графу статусов.
// COMPLETED → CANCELLED возможен только через решение спора.
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	for _, status := range orderTransitions[s] {
		if status == newStatus {
			return true
		}
	}
	return false
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус заказа")
	}
	return s, nil
}

// RefundStatus состояние запроса на возврат.
type RefundStatus string

const (
	RefundNone     RefundStatus = "NONE"
	RefundApplying RefundStatus = "APPLYING"
	RefundApproved RefundStatus = "APPROVED"
	RefundRejected RefundStatus = "REJECTED"
)

func (s RefundStatus) String() string { return string(s) }

// DisputeStatus состояние спора по сделке.
type DisputeStatus string

const (
	DisputeNone       DisputeStatus = "NONE"
	DisputeApplying   DisputeStatus = "APPLYING"
	DisputeProcessing DisputeStatus = "PROCESSING"
	DisputeResolved   DisputeStatus = "RESOLVED"
)

func (s DisputeStatus) String() string { return string(s) }

// IsOpen: спор открыт, пока он подан или на рассмотрении.
func (s DisputeStatus) IsOpen() bool {
	return s == DisputeApplying || s == DisputeProcessing
}

// DisputeResolution решение модератора по спору.
type DisputeResolution string

const (
	ResolutionReverseSale DisputeResolution = "REVERSE_SALE"
	ResolutionUpholdSale  DisputeResolution = "UPHOLD_SALE"
)

func (r DisputeResolution) String() string { return string(r) }

func NewDisputeResolution(v string) (DisputeResolution, error) {
	r := DisputeResolution(v)
	if r != ResolutionReverseSale && r != ResolutionUpholdSale {
		return "", apperror.New(apperror.ErrCodeValidation, "решение по спору должно быть REVERSE_SALE или UPHOLD_SALE")
	}
	return r, nil
}

// BargainStatus состояние предложения цены.
type BargainStatus string

const (
	BargainPending   BargainStatus = "PENDING"
	BargainAccepted  BargainStatus = "ACCEPTED"
	BargainRejected  BargainStatus = "REJECTED"
	BargainCancelled BargainStatus = "CANCELLED"
)

func (s BargainStatus) String() string { return string(s) }

func (s BargainStatus) IsValid() bool {
	switch s {
	case BargainPending, BargainAccepted, BargainRejected, BargainCancelled:
		return true
	}
	return false
}

func NewBargainStatus(status string) (BargainStatus, error) {
	s := BargainStatus(status)
	if !s.IsValid() {
		return "", apperror.New(apperror.ErrCodeValidation, "некорректный статус предложения цены")
	}
	return s, nil
}

// ParticipantRole фильтр сделок по роли пользователя.
type ParticipantRole string

const (
	RoleAny    ParticipantRole = ""
	RoleBuyer  ParticipantRole = "buyer"
	RoleSeller ParticipantRole = "seller"
)

func NewParticipantRole(v string) (ParticipantRole, error) {
	switch r := ParticipantRole(v); r {
	case RoleAny, RoleBuyer, RoleSeller:
		return r, nil
	}
	return "", apperror.New(apperror.ErrCodeValidation, "роль должна быть buyer или seller")
}
