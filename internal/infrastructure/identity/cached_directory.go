// Package identity кэширует профили пользователей для отображения сторон сделки.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/raulk/clock"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
)

// DefaultTTL время жизни профиля в кэше.
const DefaultTTL = 5 * time.Minute

type cacheEntry struct {
	user      entity.User
	expiresAt time.Time
}

// CachedDirectory оборачивает UserDirectory в LRU-кэш с ограниченным временем жизни записи.
// Состояние товаров и сделок здесь не кэшируется никогда.
type CachedDirectory struct {
	next  repository.UserDirectory
	cache *lru.Cache[uuid.UUID, cacheEntry]
	clock clock.Clock
	ttl   time.Duration
}

func NewCachedDirectory(next repository.UserDirectory, size int, ttl time.Duration, clk clock.Clock) (*CachedDirectory, error) {
	cache, err := lru.New[uuid.UUID, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("identity: не удалось создать кэш: %w", err)
	}
	if clk == nil {
		clk = clock.New()
	}
	return &CachedDirectory{next: next, cache: cache, clock: clk, ttl: ttl}, nil
}

func (d *CachedDirectory) GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	now := d.clock.Now()
	if entry, ok := d.cache.Get(id); ok {
		if now.Before(entry.expiresAt) {
			user := entry.user
			return &user, nil
		}
		d.cache.Remove(id)
	}

	user, err := d.next.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	d.cache.Add(id, cacheEntry{user: *user, expiresAt: now.Add(d.ttl)})
	return user, nil
}

// Invalidate удаляет профиль из кэша.
func (d *CachedDirectory) Invalidate(id uuid.UUID) {
	d.cache.Remove(id)
}
