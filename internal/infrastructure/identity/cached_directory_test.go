package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func TestCachedDirectory_HitsCacheWithinTTL(t *testing.T) {
	next := new(MockUserDirectory)
	clk := clock.NewMock()
	id := uuid.New()
	next.On("GetUser", mock.Anything, id).Return(&entity.User{ID: id, Nickname: "Петя"}, nil).Once()

	dir, err := NewCachedDirectory(next, 8, time.Minute, clk)
	require.NoError(t, err)

	first, err := dir.GetUser(context.Background(), id)
	require.NoError(t, err)
	clk.Add(30 * time.Second)
	second, err := dir.GetUser(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "Петя", first.Nickname)
	assert.Equal(t, "Петя", second.Nickname)
	next.AssertExpectations(t)
}

func TestCachedDirectory_ExpiresAfterTTL(t *testing.T) {
	next := new(MockUserDirectory)
	clk := clock.NewMock()
	id := uuid.New()
	next.On("GetUser", mock.Anything, id).Return(&entity.User{ID: id, Nickname: "Петя"}, nil).Twice()

	dir, err := NewCachedDirectory(next, 8, time.Minute, clk)
	require.NoError(t, err)

	_, err = dir.GetUser(context.Background(), id)
	require.NoError(t, err)
	clk.Add(2 * time.Minute)
	_, err = dir.GetUser(context.Background(), id)
	require.NoError(t, err)

	next.AssertExpectations(t)
}

func TestCachedDirectory_DoesNotCacheErrors(t *testing.T) {
	next := new(MockUserDirectory)
	id := uuid.New()
	next.On("GetUser", mock.Anything, id).Return(nil, apperror.ErrUserNotFound).Twice()

	dir, err := NewCachedDirectory(next, 8, time.Minute, clock.NewMock())
	require.NoError(t, err)

	_, err = dir.GetUser(context.Background(), id)
	assert.True(t, apperror.IsNotFound(err))
	_, err = dir.GetUser(context.Background(), id)
	assert.True(t, apperror.IsNotFound(err))

	next.AssertExpectations(t)
}

func TestNewCachedDirectory_InvalidSize(t *testing.T) {
	_, err := NewCachedDirectory(new(MockUserDirectory), 0, time.Minute, nil)
	assert.Error(t, err)
}
