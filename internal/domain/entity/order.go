package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// Причины отмены сделки.
const (
	CancelByBuyer        = "BUYER"
	CancelBySeller       = "SELLER"
	CancelExpired        = "PAYMENT_TIMEOUT"
	CancelRefunded       = "REFUND_APPROVED"
	CancelDisputeReverse = "DISPUTE_REVERSED"
)

const orderNoPrefix = "ORD"

type Order struct {
	ID            uuid.UUID
	OrderNo       string
	ListingID     uuid.UUID
	BargainID     *uuid.UUID
	BuyerID       uuid.UUID
	SellerID      uuid.UUID
	Price         decimal.Decimal
	Status        valueobject.OrderStatus
	TradeType     string
	TradeLocation string
	Remark        string
	CancelReason  string

	RefundStatus valueobject.RefundStatus
	RefundReason string
	RefundTime   *time.Time

	DisputeStatus     valueobject.DisputeStatus
	DisputeReason     string
	DisputeEvidence   string
	DisputeResolution valueobject.DisputeResolution
	DisputeResult     string
	DisputeTime       *time.Time
	ResolveTime       *time.Time

	// Version растёт на каждое сохранение, используется для оптимистичной блокировки.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderInput параметры новой сделки по зарезервированному товару.
type NewOrderInput struct {
	Listing       *Listing
	BuyerID       uuid.UUID
	Price         decimal.Decimal
	BargainID     *uuid.UUID
	TradeType     string
	TradeLocation string
	Remark        string
}

// NewOrder создаёт сделку в статусе PENDING. Способ и место передачи по
// умолчанию берутся из товара.
func NewOrder(in NewOrderInput, now time.Time) (*Order, error) {
	if in.Listing.IsOwnedBy(in.BuyerID) {
		return nil, apperror.ErrSelfTransaction
	}

	price, err := valueobject.NewPrice(in.Price)
	if err != nil {
		return nil, err
	}

	tradeType := in.TradeType
	if tradeType == "" {
		tradeType = in.Listing.TradeType
	}
	tradeLocation := in.TradeLocation
	if tradeLocation == "" {
		tradeLocation = in.Listing.TradeLocation
	}

	return &Order{
		ID:            uuid.New(),
		OrderNo:       NewOrderNo(now),
		ListingID:     in.Listing.ID,
		BargainID:     in.BargainID,
		BuyerID:       in.BuyerID,
		SellerID:      in.Listing.SellerID,
		Price:         price,
		Status:        valueobject.OrderStatusPending,
		TradeType:     tradeType,
		TradeLocation: tradeLocation,
		Remark:        in.Remark,
		RefundStatus:  valueobject.RefundNone,
		DisputeStatus: valueobject.DisputeNone,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// NewOrderNo формирует внешний номер заказа: префикс и ULID, сортируемый по времени.
func NewOrderNo(now time.Time) string {
	return orderNoPrefix + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
}

func (o *Order) IsBuyer(userID uuid.UUID) bool {
	return o.BuyerID == userID
}

func (o *Order) IsSeller(userID uuid.UUID) bool {
	return o.SellerID == userID
}

func (o *Order) IsParticipant(userID uuid.UUID) bool {
	return o.IsBuyer(userID) || o.IsSeller(userID)
}

// CounterpartOf возвращает вторую сторону сделки.
func (o *Order) CounterpartOf(userID uuid.UUID) uuid.UUID {
	if o.IsBuyer(userID) {
		return o.SellerID
	}
	return o.BuyerID
}

// Cancel отменяет неоплаченную сделку по инициативе покупателя или продавца.
func (o *Order) Cancel(actorID uuid.UUID, now time.Time) error {
	if !o.IsParticipant(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "отменить заказ может только покупатель или продавец")
	}
	reason := CancelBySeller
	if o.IsBuyer(actorID) {
		reason = CancelByBuyer
	}
	return o.cancelPending(reason, now)
}

// Expire отменяет сделку, не оплаченную вовремя.
func (o *Order) Expire(now time.Time) error {
	return o.cancelPending(CancelExpired, now)
}

func (o *Order) cancelPending(reason string, now time.Time) error {
	if o.Status != valueobject.OrderStatusPending {
		return apperror.InvalidState("отмена заказа", o.Status)
	}
	o.markCancelled(reason, now)
	return nil
}

func (o *Order) markCancelled(reason string, now time.Time) {
	o.Status = valueobject.OrderStatusCancelled
	o.CancelReason = reason
	o.UpdatedAt = now
}

// Pay фиксирует оплату покупателем.
func (o *Order) Pay(actorID uuid.UUID, now time.Time) error {
	if !o.IsBuyer(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "оплатить заказ может только покупатель")
	}
	return o.advance(valueobject.OrderStatusPending, valueobject.OrderStatusPaid, "оплата", now)
}

// Ship фиксирует передачу товара продавцом.
func (o *Order) Ship(actorID uuid.UUID, now time.Time) error {
	if !o.IsSeller(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "отметить отправку может только продавец")
	}
	return o.advance(valueobject.OrderStatusPaid, valueobject.OrderStatusShipped, "отправка", now)
}

// ConfirmReceipt завершает сделку после получения товара покупателем.
func (o *Order) ConfirmReceipt(actorID uuid.UUID, now time.Time) error {
	if !o.IsBuyer(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "подтвердить получение может только покупатель")
	}
	return o.advance(valueobject.OrderStatusShipped, valueobject.OrderStatusCompleted, "подтверждение получения", now)
}

func (o *Order) advance(from, to valueobject.OrderStatus, action string, now time.Time) error {
	if o.Status != from {
		return apperror.InvalidState(action, o.Status)
	}
	o.Status = to
	o.UpdatedAt = now
	return nil
}

func (o *Order) isPaidOrShipped() bool {
	return o.Status == valueobject.OrderStatusPaid || o.Status == valueobject.OrderStatusShipped
}

// ApplyRefund открывает запрос на возврат. Недоступно при открытом споре.
func (o *Order) ApplyRefund(actorID uuid.UUID, reason string, now time.Time) error {
	if !o.IsBuyer(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "запросить возврат может только покупатель")
	}
	if !o.isPaidOrShipped() {
		return apperror.InvalidState("запрос возврата", o.Status)
	}
	if o.RefundStatus == valueobject.RefundApplying {
		return apperror.New(apperror.ErrCodeInvalidState, "запрос на возврат уже подан")
	}
	if o.DisputeStatus.IsOpen() {
		return apperror.New(apperror.ErrCodeInvalidState, "по заказу идёт спор, возврат недоступен")
	}

	o.RefundStatus = valueobject.RefundApplying
	o.RefundReason = reason
	o.UpdatedAt = now
	return nil
}

// ApproveRefund одобряет возврат и отменяет сделку. Товар после этого
// возвращается в продажу.
func (o *Order) ApproveRefund(actorID uuid.UUID, now time.Time) error {
	if err := o.checkRefundDecision(actorID); err != nil {
		return err
	}
	if !o.isPaidOrShipped() {
		return apperror.InvalidState("одобрение возврата", o.Status)
	}

	o.RefundStatus = valueobject.RefundApproved
	o.RefundTime = &now
	o.markCancelled(CancelRefunded, now)
	return nil
}

// RejectRefund отклоняет запрос на возврат, статус сделки не меняется.
func (o *Order) RejectRefund(actorID uuid.UUID, now time.Time) error {
	if err := o.checkRefundDecision(actorID); err != nil {
		return err
	}

	o.RefundStatus = valueobject.RefundRejected
	o.UpdatedAt = now
	return nil
}

func (o *Order) checkRefundDecision(actorID uuid.UUID) error {
	if !o.IsSeller(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "решение по возврату принимает продавец")
	}
	if o.RefundStatus != valueobject.RefundApplying {
		return apperror.InvalidState("решение по возврату", o.RefundStatus)
	}
	return nil
}

// ApplyDispute открывает спор. Повторный спор возможен после решения предыдущего.
func (o *Order) ApplyDispute(actorID uuid.UUID, reason, evidence string, now time.Time) error {
	if !o.IsParticipant(actorID) {
		return apperror.New(apperror.ErrCodeForbidden, "открыть спор может только участник сделки")
	}
	switch o.Status {
	case valueobject.OrderStatusPaid, valueobject.OrderStatusShipped, valueobject.OrderStatusCompleted:
	default:
		return apperror.InvalidState("открытие спора", o.Status)
	}
	if o.DisputeStatus.IsOpen() {
		return apperror.New(apperror.ErrCodeInvalidState, "спор по заказу уже открыт")
	}

	o.DisputeStatus = valueobject.DisputeApplying
	o.DisputeReason = reason
	o.DisputeEvidence = evidence
	o.DisputeResolution = ""
	o.DisputeResult = ""
	o.DisputeTime = &now
	o.ResolveTime = nil
	o.UpdatedAt = now
	return nil
}

// StartDisputeReview переводит поданный спор на рассмотрение.
func (o *Order) StartDisputeReview(now time.Time) error {
	if o.DisputeStatus != valueobject.DisputeApplying {
		return apperror.InvalidState("рассмотрение спора", o.DisputeStatus)
	}
	o.DisputeStatus = valueobject.DisputeProcessing
	o.UpdatedAt = now
	return nil
}

// ResolveDispute закрывает спор решением модератора. Возвращает true, если
// сделка была отменена этим решением и товар нужно вернуть в продажу.
func (o *Order) ResolveDispute(resolution valueobject.DisputeResolution, note string, now time.Time) (bool, error) {
	if !o.DisputeStatus.IsOpen() {
		return false, apperror.InvalidState("решение спора", o.DisputeStatus)
	}

	o.DisputeStatus = valueobject.DisputeResolved
	o.DisputeResolution = resolution
	o.DisputeResult = note
	o.ResolveTime = &now
	o.UpdatedAt = now

	if resolution != valueobject.ResolutionReverseSale || !o.Status.CanTransitionTo(valueobject.OrderStatusCancelled) {
		return false, nil
	}
	// Отмена сделки по спору закрывает и поданную заявку на возврат.
	if o.RefundStatus == valueobject.RefundApplying {
		o.RefundStatus = valueobject.RefundApproved
		o.RefundTime = &now
	}
	o.markCancelled(CancelDisputeReverse, now)
	return true, nil
}
