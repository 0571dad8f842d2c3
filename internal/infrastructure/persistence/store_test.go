package persistence

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/domain/repository"
)

func TestListingRepository_TryReserve(t *testing.T) {
	db, mock := newMockDB(t, "postgres")
	repo := &ListingRepository{q: db}
	id := uuid.New()
	query := regexp.QuoteMeta("WHERE id = $2 AND availability = $3")

	mock.ExpectExec(query).WithArgs("SOLD", id, "ON_SALE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs("SOLD", id, "ON_SALE").WillReturnResult(sqlmock.NewResult(0, 0))

	first, err := repo.TryReserve(context.Background(), id)
	require.NoError(t, err)
	second, err := repo.TryReserve(context.Background(), id)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListingRepository_TryRelease(t *testing.T) {
	db, mock := newMockDB(t, "mysql")
	repo := &ListingRepository{q: db}
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = ? AND availability = ?")).
		WithArgs("ON_SALE", id, "SOLD").
		WillReturnResult(sqlmock.NewResult(0, 0))

	released, err := repo.TryRelease(context.Background(), id)

	require.NoError(t, err)
	assert.False(t, released)
}

func TestStore_Do_Commit(t *testing.T) {
	db, mock := newMockDB(t, "postgres")
	store := NewStore(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE listings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Do(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		ok, err := repos.Listings().TryReserve(ctx, id)
		if err != nil {
			return err
		}
		assert.True(t, ok)
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Do_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t, "postgres")
	store := NewStore(db)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE listings").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := store.Do(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.Listings().TryReserve(ctx, uuid.New()); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Do_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t, "postgres")
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = store.Do(context.Background(), func(ctx context.Context, repos repository.Repositories) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
