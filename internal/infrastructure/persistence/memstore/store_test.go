package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

func onSale() *entity.Listing {
	return &entity.Listing{
		ID:           uuid.New(),
		SellerID:     uuid.New(),
		Title:        "Учебник по матанализу",
		Price:        decimal.NewFromInt(300),
		Availability: valueobject.ListingOnSale,
	}
}

func TestStore_DoRollsBackOnError(t *testing.T) {
	store := New()
	listing := onSale()
	store.PutListing(listing)
	boom := errors.New("boom")

	err := store.Do(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		ok, err := repos.Listings().TryReserve(ctx, listing.ID)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, valueobject.ListingOnSale, store.Listing(listing.ID).Availability)
}

func TestStore_OrderVersionCheck(t *testing.T) {
	store := New()
	listing := onSale()
	order, err := entity.NewOrder(entity.NewOrderInput{Listing: listing, BuyerID: uuid.New(), Price: listing.Price}, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Orders().Create(context.Background(), order))

	stale := *order
	require.NoError(t, store.Orders().Update(context.Background(), order))
	assert.Equal(t, 2, order.Version)

	err = store.Orders().Update(context.Background(), &stale)
	assert.ErrorIs(t, err, apperror.ErrConcurrentUpdate)
}

func TestStore_SingleActiveOrderPerListing(t *testing.T) {
	store := New()
	listing := onSale()
	first, _ := entity.NewOrder(entity.NewOrderInput{Listing: listing, BuyerID: uuid.New(), Price: listing.Price}, time.Now())
	second, _ := entity.NewOrder(entity.NewOrderInput{Listing: listing, BuyerID: uuid.New(), Price: listing.Price}, time.Now())

	require.NoError(t, store.Orders().Create(context.Background(), first))
	err := store.Orders().Create(context.Background(), second)

	assert.True(t, apperror.IsListingUnavailable(err))
}
