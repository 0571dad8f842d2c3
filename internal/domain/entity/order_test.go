package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

var t0 = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newListing() *Listing {
	return &Listing{
		ID:            uuid.New(),
		SellerID:      uuid.New(),
		Title:         "Учебник по матанализу",
		Price:         decimal.RequireFromString("50"),
		TradeType:     "MEETUP",
		TradeLocation: "Библиотека, 2 этаж",
		Availability:  valueobject.ListingOnSale,
	}
}

func newPendingOrder(t *testing.T) *Order {
	t.Helper()
	l := newListing()
	o, err := NewOrder(NewOrderInput{Listing: l, BuyerID: uuid.New(), Price: l.Price}, t0)
	require.NoError(t, err)
	return o
}

func TestNewOrder_Defaults(t *testing.T) {
	l := newListing()
	buyer := uuid.New()

	o, err := NewOrder(NewOrderInput{Listing: l, BuyerID: buyer, Price: l.Price, TradeLocation: "Общежитие 3"}, t0)

	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusPending, o.Status)
	assert.Equal(t, valueobject.RefundNone, o.RefundStatus)
	assert.Equal(t, valueobject.DisputeNone, o.DisputeStatus)
	assert.Equal(t, l.SellerID, o.SellerID)
	assert.Equal(t, "MEETUP", o.TradeType)
	assert.Equal(t, "Общежитие 3", o.TradeLocation)
	assert.True(t, o.Price.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, 1, o.Version)
	assert.Len(t, o.OrderNo, 29)
	assert.Equal(t, "ORD", o.OrderNo[:3])
}

func TestNewOrder_SelfTransaction(t *testing.T) {
	l := newListing()

	_, err := NewOrder(NewOrderInput{Listing: l, BuyerID: l.SellerID, Price: l.Price}, t0)

	assert.True(t, apperror.IsSelfTransaction(err))
}

func TestNewOrderNo_SortsByTime(t *testing.T) {
	first := NewOrderNo(t0)
	second := NewOrderNo(t0.Add(time.Second))

	assert.Less(t, first, second)
}

func TestOrder_HappyPath(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.Pay(o.BuyerID, t0.Add(time.Minute)))
	require.NoError(t, o.Ship(o.SellerID, t0.Add(time.Hour)))
	require.NoError(t, o.ConfirmReceipt(o.BuyerID, t0.Add(2*time.Hour)))

	assert.Equal(t, valueobject.OrderStatusCompleted, o.Status)
	assert.Equal(t, t0.Add(2*time.Hour), o.UpdatedAt)
}

func TestOrder_ActorChecksComeBeforeState(t *testing.T) {
	o := newPendingOrder(t)
	stranger := uuid.New()

	assert.True(t, apperror.IsForbidden(o.Pay(o.SellerID, t0)))
	assert.True(t, apperror.IsForbidden(o.Ship(o.BuyerID, t0)))
	assert.True(t, apperror.IsForbidden(o.Cancel(stranger, t0)))
	// продавец, но заказ ещё не оплачен
	assert.True(t, apperror.IsInvalidState(o.Ship(o.SellerID, t0)))
}

func TestOrder_CancelOnlyWhenPending(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))

	err := o.Cancel(o.BuyerID, t0)

	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, valueobject.OrderStatusPaid, o.Status)
}

func TestOrder_CancelRecordsReason(t *testing.T) {
	bySeller := newPendingOrder(t)
	require.NoError(t, bySeller.Cancel(bySeller.SellerID, t0))
	assert.Equal(t, CancelBySeller, bySeller.CancelReason)

	expired := newPendingOrder(t)
	require.NoError(t, expired.Expire(t0.Add(25*time.Hour)))
	assert.Equal(t, valueobject.OrderStatusCancelled, expired.Status)
	assert.Equal(t, CancelExpired, expired.CancelReason)

	assert.True(t, apperror.IsInvalidState(expired.Expire(t0)))
}

func TestOrder_RefundApproved(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.ApplyRefund(o.BuyerID, "не подошёл размер", t0))

	assert.True(t, apperror.IsInvalidState(o.ApplyRefund(o.BuyerID, "ещё раз", t0)))
	assert.True(t, apperror.IsForbidden(o.ApproveRefund(o.BuyerID, t0)))

	refundAt := t0.Add(time.Hour)
	require.NoError(t, o.ApproveRefund(o.SellerID, refundAt))

	assert.Equal(t, valueobject.RefundApproved, o.RefundStatus)
	assert.Equal(t, valueobject.OrderStatusCancelled, o.Status)
	assert.Equal(t, CancelRefunded, o.CancelReason)
	require.NotNil(t, o.RefundTime)
	assert.Equal(t, refundAt, *o.RefundTime)
}

func TestOrder_RefundRejectedKeepsStatus(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.Ship(o.SellerID, t0))
	require.NoError(t, o.ApplyRefund(o.BuyerID, "брак", t0))

	require.NoError(t, o.RejectRefund(o.SellerID, t0))

	assert.Equal(t, valueobject.RefundRejected, o.RefundStatus)
	assert.Equal(t, valueobject.OrderStatusShipped, o.Status)
	// после отказа можно подать повторно
	assert.NoError(t, o.ApplyRefund(o.BuyerID, "брак, фото приложено", t0))
}

func TestOrder_RefundRequiresPaidOrShipped(t *testing.T) {
	o := newPendingOrder(t)

	assert.True(t, apperror.IsInvalidState(o.ApplyRefund(o.BuyerID, "передумал", t0)))
	assert.True(t, apperror.IsInvalidState(o.RejectRefund(o.SellerID, t0)))
}

func TestOrder_RefundBlockedByOpenDispute(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.ApplyDispute(o.SellerID, "покупатель не выходит на связь", "", t0))

	err := o.ApplyRefund(o.BuyerID, "передумал", t0)

	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, valueobject.RefundNone, o.RefundStatus)
}

func TestOrder_DisputeLifecycle(t *testing.T) {
	o := newPendingOrder(t)
	assert.True(t, apperror.IsInvalidState(o.ApplyDispute(o.BuyerID, "x", "", t0)))

	require.NoError(t, o.Pay(o.BuyerID, t0))
	assert.True(t, apperror.IsForbidden(o.ApplyDispute(uuid.New(), "x", "", t0)))

	require.NoError(t, o.ApplyDispute(o.BuyerID, "товар не соответствует описанию", "photo.jpg", t0))
	assert.Equal(t, valueobject.DisputeApplying, o.DisputeStatus)
	assert.True(t, apperror.IsInvalidState(o.ApplyDispute(o.SellerID, "встречный", "", t0)))

	require.NoError(t, o.StartDisputeReview(t0))
	assert.Equal(t, valueobject.DisputeProcessing, o.DisputeStatus)
	assert.True(t, apperror.IsInvalidState(o.StartDisputeReview(t0)))

	reversed, err := o.ResolveDispute(valueobject.ResolutionUpholdSale, "продавец прав", t0.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, reversed)
	assert.Equal(t, valueobject.DisputeResolved, o.DisputeStatus)
	assert.Equal(t, valueobject.OrderStatusPaid, o.Status)
	assert.Equal(t, "продавец прав", o.DisputeResult)

	_, err = o.ResolveDispute(valueobject.ResolutionReverseSale, "", t0)
	assert.True(t, apperror.IsInvalidState(err))

	// после решения можно открыть новый спор
	assert.NoError(t, o.ApplyDispute(o.BuyerID, "повторно", "", t0))
	assert.Empty(t, o.DisputeResolution)
	assert.Nil(t, o.ResolveTime)
}

func TestOrder_DisputeReverseSaleOnCompleted(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.Ship(o.SellerID, t0))
	require.NoError(t, o.ConfirmReceipt(o.BuyerID, t0))
	require.NoError(t, o.ApplyDispute(o.BuyerID, "подделка", "", t0))

	reversed, err := o.ResolveDispute(valueobject.ResolutionReverseSale, "вернуть деньги", t0)

	require.NoError(t, err)
	assert.True(t, reversed)
	assert.Equal(t, valueobject.OrderStatusCancelled, o.Status)
	assert.Equal(t, CancelDisputeReverse, o.CancelReason)
	assert.Equal(t, valueobject.ResolutionReverseSale, o.DisputeResolution)
}

func TestOrder_DisputeReverseOnAlreadyCancelledDoesNotReleaseTwice(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.ApplyRefund(o.BuyerID, "брак", t0))
	require.NoError(t, o.ApplyDispute(o.SellerID, "спор по возврату", "", t0))
	require.NoError(t, o.ApproveRefund(o.SellerID, t0))

	reversed, err := o.ResolveDispute(valueobject.ResolutionReverseSale, "", t0)

	require.NoError(t, err)
	assert.False(t, reversed)
	assert.Equal(t, CancelRefunded, o.CancelReason)
}

func TestOrder_DisputeReverseSettlesPendingRefund(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.ApplyRefund(o.BuyerID, "не тот размер", t0))
	require.NoError(t, o.ApplyDispute(o.SellerID, "товар не возвращён", "", t0))

	reversed, err := o.ResolveDispute(valueobject.ResolutionReverseSale, "", t0)

	require.NoError(t, err)
	assert.True(t, reversed)
	assert.Equal(t, valueobject.RefundApproved, o.RefundStatus)
	require.NotNil(t, o.RefundTime)
	assert.True(t, apperror.IsInvalidState(o.ApproveRefund(o.SellerID, t0)))
}

func TestOrder_DisputeUpholdKeepsRefundOpen(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.Pay(o.BuyerID, t0))
	require.NoError(t, o.ApplyRefund(o.BuyerID, "не тот размер", t0))
	require.NoError(t, o.ApplyDispute(o.SellerID, "товар не возвращён", "", t0))

	reversed, err := o.ResolveDispute(valueobject.ResolutionUpholdSale, "", t0)

	require.NoError(t, err)
	assert.False(t, reversed)
	assert.Equal(t, valueobject.RefundApplying, o.RefundStatus)
	assert.NoError(t, o.RejectRefund(o.SellerID, t0))
}
