package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

func TestNewBargain(t *testing.T) {
	l := newListing()
	proposer := uuid.New()

	b, err := NewBargain(l, proposer, decimal.Zero, decimal.RequireFromString("40"), "заберу сегодня", t0)

	require.NoError(t, err)
	assert.Equal(t, valueobject.BargainPending, b.Status)
	assert.Equal(t, l.SellerID, b.CounterpartID)
	assert.True(t, b.OriginalPrice.Equal(l.Price))
	assert.True(t, b.ProposedPrice.Equal(decimal.RequireFromString("40")))
	assert.Nil(t, b.OrderID)
}

func TestNewBargain_Validation(t *testing.T) {
	l := newListing()

	_, err := NewBargain(l, l.SellerID, decimal.Zero, decimal.RequireFromString("40"), "", t0)
	assert.True(t, apperror.IsSelfTransaction(err))

	_, err = NewBargain(l, uuid.New(), decimal.Zero, decimal.Zero, "", t0)
	assert.True(t, apperror.IsValidation(err))

	_, err = NewBargain(l, uuid.New(), decimal.RequireFromString("-1"), decimal.RequireFromString("40"), "", t0)
	assert.True(t, apperror.IsValidation(err))
}

func TestBargain_Transitions(t *testing.T) {
	l := newListing()
	proposer := uuid.New()

	accepted, _ := NewBargain(l, proposer, decimal.Zero, decimal.RequireFromString("45"), "", t0)
	assert.True(t, apperror.IsForbidden(accepted.Accept(proposer, t0)))
	require.NoError(t, accepted.Accept(l.SellerID, t0))
	assert.Equal(t, valueobject.BargainAccepted, accepted.Status)
	assert.True(t, apperror.IsInvalidState(accepted.Reject(l.SellerID, t0)))
	assert.True(t, apperror.IsInvalidState(accepted.Cancel(proposer, t0)))

	rejected, _ := NewBargain(l, proposer, decimal.Zero, decimal.RequireFromString("10"), "", t0)
	require.NoError(t, rejected.Reject(l.SellerID, t0))
	assert.Equal(t, valueobject.BargainRejected, rejected.Status)

	cancelled, _ := NewBargain(l, proposer, decimal.Zero, decimal.RequireFromString("30"), "", t0)
	assert.True(t, apperror.IsForbidden(cancelled.Cancel(l.SellerID, t0)))
	require.NoError(t, cancelled.Cancel(proposer, t0))
	assert.Equal(t, valueobject.BargainCancelled, cancelled.Status)
}

func TestBargain_CanOpenOrder(t *testing.T) {
	l := newListing()
	proposer := uuid.New()
	b, _ := NewBargain(l, proposer, decimal.Zero, decimal.RequireFromString("45"), "", t0)

	assert.True(t, apperror.IsInvalidState(b.CanOpenOrder(proposer, l.ID)))

	require.NoError(t, b.Accept(l.SellerID, t0))
	assert.NoError(t, b.CanOpenOrder(proposer, l.ID))
	assert.True(t, apperror.IsForbidden(b.CanOpenOrder(uuid.New(), l.ID)))
	assert.True(t, apperror.IsValidation(b.CanOpenOrder(proposer, uuid.New())))

	b.AttachOrder(uuid.New(), t0)
	assert.True(t, apperror.IsInvalidState(b.CanOpenOrder(proposer, l.ID)))
}

func TestBargain_DetachOrder(t *testing.T) {
	l := newListing()
	proposer := uuid.New()
	b, _ := NewBargain(l, proposer, decimal.Zero, decimal.RequireFromString("45"), "", t0)
	require.NoError(t, b.Accept(l.SellerID, t0))

	orderID := uuid.New()
	assert.False(t, b.DetachOrder(orderID, t0))

	b.AttachOrder(orderID, t0)
	assert.False(t, b.DetachOrder(uuid.New(), t0))
	require.NotNil(t, b.OrderID)

	assert.True(t, b.DetachOrder(orderID, t0))
	assert.Nil(t, b.OrderID)
	assert.NoError(t, b.CanOpenOrder(proposer, l.ID))
}
