package bargain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raulk/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/infrastructure/persistence/memstore"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
	"github.com/ignatzorin/campus-market/internal/usecase/bargain"
)

type sentNotification struct {
	userID uuid.UUID
	title  string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, _, title, _ string, _ uuid.UUID) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{userID: userID, title: title})
	return n.err
}

type fixture struct {
	store    *memstore.Store
	notifier *recordingNotifier
	clock    *clock.Mock
	listing  *entity.Listing
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger.Discard()
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC))

	store := memstore.New()
	listing := &entity.Listing{
		ID:           uuid.New(),
		SellerID:     uuid.New(),
		Title:        "Настольная лампа",
		Price:        decimal.NewFromInt(50),
		Availability: valueobject.ListingOnSale,
	}
	store.PutListing(listing)

	return &fixture{store: store, notifier: &recordingNotifier{}, clock: clk, listing: listing}
}

func (f *fixture) propose(t *testing.T, proposerID uuid.UUID, price int64) *entity.Bargain {
	t.Helper()
	uc := bargain.NewProposeBargainUseCase(f.store.Listings(), f.store.Bargains(), f.notifier, f.clock)
	b, err := uc.Execute(context.Background(), bargain.ProposeInput{
		ListingID:     f.listing.ID,
		ProposerID:    proposerID,
		ProposedPrice: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return b
}

func TestPropose_DefaultsOriginalPrice(t *testing.T) {
	f := newFixture(t)
	buyer := uuid.New()

	b := f.propose(t, buyer, 40)

	assert.Equal(t, valueobject.BargainPending, b.Status)
	assert.True(t, b.OriginalPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, f.listing.SellerID, b.CounterpartID)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, f.listing.SellerID, f.notifier.sent[0].userID)
	assert.Equal(t, valueobject.ListingOnSale, f.store.Listing(f.listing.ID).Availability)
}

func TestPropose_Errors(t *testing.T) {
	f := newFixture(t)
	uc := bargain.NewProposeBargainUseCase(f.store.Listings(), f.store.Bargains(), f.notifier, f.clock)

	tests := []struct {
		name  string
		input bargain.ProposeInput
		check func(error) bool
	}{
		{"товар не найден", bargain.ProposeInput{ListingID: uuid.New(), ProposerID: uuid.New(), ProposedPrice: decimal.NewFromInt(10)}, apperror.IsNotFound},
		{"свой товар", bargain.ProposeInput{ListingID: f.listing.ID, ProposerID: f.listing.SellerID, ProposedPrice: decimal.NewFromInt(10)}, apperror.IsSelfTransaction},
		{"нулевая цена", bargain.ProposeInput{ListingID: f.listing.ID, ProposerID: uuid.New(), ProposedPrice: decimal.Zero}, apperror.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.input)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
	assert.Empty(t, f.notifier.sent)
}

// Предложение принято, после чего автор уже не может его отозвать.
func TestAcceptThenCancel(t *testing.T) {
	f := newFixture(t)
	buyer := uuid.New()
	b := f.propose(t, buyer, 40)

	accepted, err := bargain.NewAcceptBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, f.listing.SellerID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.BargainAccepted, accepted.Status)
	assert.Equal(t, 2, accepted.Version)

	_, err = bargain.NewCancelBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, buyer)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestRespond_ForbiddenActors(t *testing.T) {
	f := newFixture(t)
	buyer := uuid.New()
	b := f.propose(t, buyer, 45)

	_, err := bargain.NewAcceptBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, buyer)
	assert.True(t, apperror.IsForbidden(err))

	_, err = bargain.NewRejectBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	_, err = bargain.NewCancelBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, f.listing.SellerID)
	assert.True(t, apperror.IsForbidden(err))
}

func TestReject_NotifiesProposer(t *testing.T) {
	f := newFixture(t)
	buyer := uuid.New()
	b := f.propose(t, buyer, 30)

	rejected, err := bargain.NewRejectBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, f.listing.SellerID)

	require.NoError(t, err)
	assert.Equal(t, valueobject.BargainRejected, rejected.Status)
	require.Len(t, f.notifier.sent, 2)
	assert.Equal(t, buyer, f.notifier.sent[1].userID)
}

func TestRespond_NotifierFailureIgnored(t *testing.T) {
	f := newFixture(t)
	b := f.propose(t, uuid.New(), 30)
	f.notifier.err = errors.New("offline")

	_, err := bargain.NewAcceptBargainUseCase(f.store.Bargains(), f.notifier, f.clock).
		Execute(context.Background(), b.ID, f.listing.SellerID)

	assert.NoError(t, err)
}

func TestGetAndList(t *testing.T) {
	f := newFixture(t)
	buyer := uuid.New()
	b := f.propose(t, buyer, 30)
	f.clock.Add(time.Minute)
	f.propose(t, uuid.New(), 35)

	got, err := bargain.NewGetBargainUseCase(f.store.Bargains()).Execute(context.Background(), b.ID, buyer)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = bargain.NewGetBargainUseCase(f.store.Bargains()).Execute(context.Background(), b.ID, uuid.New())
	assert.True(t, apperror.IsForbidden(err))

	byListing, err := bargain.NewListListingBargainsUseCase(f.store.Listings(), f.store.Bargains()).
		Execute(context.Background(), f.listing.ID)
	require.NoError(t, err)
	assert.Len(t, byListing, 2)

	mine, total, err := bargain.NewListMyBargainsUseCase(f.store.Bargains()).Execute(context.Background(), f.listing.SellerID, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, mine, 1)
}
