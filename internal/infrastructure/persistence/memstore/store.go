// Package memstore хранит товары, сделки и предложения в памяти процесса.
// Используется в тестах сценариев вместо базы данных.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/domain/valueobject"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

type state struct {
	listings map[uuid.UUID]entity.Listing
	orders   map[uuid.UUID]entity.Order
	bargains map[uuid.UUID]entity.Bargain
}

func (s state) clone() state {
	c := state{
		listings: make(map[uuid.UUID]entity.Listing, len(s.listings)),
		orders:   make(map[uuid.UUID]entity.Order, len(s.orders)),
		bargains: make(map[uuid.UUID]entity.Bargain, len(s.bargains)),
	}
	for k, v := range s.listings {
		c.listings[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.bargains {
		c.bargains[k] = v
	}
	return c
}

// Store реализует repository.UnitOfWork. Транзакции выполняются строго по
// одной; при ошибке состояние откатывается к снимку.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data state
}

func New() *Store {
	return &Store{data: state{
		listings: make(map[uuid.UUID]entity.Listing),
		orders:   make(map[uuid.UUID]entity.Order),
		bargains: make(map[uuid.UUID]entity.Bargain),
	}}
}

func (s *Store) Listings() repository.ListingRepository { return listingRepo{s} }
func (s *Store) Orders() repository.OrderRepository     { return orderRepo{s} }
func (s *Store) Bargains() repository.BargainRepository { return bargainRepo{s} }

// Do выполняет единицы работы строго по одной и откатывает данные к снимку
// при ошибке. Конкурентные вызовы не чередуются внутри fn.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(ctx, s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// PutListing добавляет или заменяет товар.
func (s *Store) PutListing(l *entity.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.listings[l.ID] = *l
}

// PutOrder добавляет или заменяет сделку без проверки версии.
func (s *Store) PutOrder(o *entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.orders[o.ID] = *o
}

// Listing возвращает копию товара или nil.
func (s *Store) Listing(id uuid.UUID) *entity.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.data.listings[id]
	if !ok {
		return nil
	}
	return &l
}

// Order возвращает копию сделки или nil.
func (s *Store) Order(id uuid.UUID) *entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.data.orders[id]
	if !ok {
		return nil
	}
	return &o
}

// OrdersByListing возвращает все сделки по товару.
func (s *Store) OrdersByListing(listingID uuid.UUID) []*entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Order
	for _, o := range s.data.orders {
		if o.ListingID == listingID {
			o := o
			result = append(result, &o)
		}
	}
	return result
}

type listingRepo struct{ s *Store }

func (r listingRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Listing, error) {
	if l := r.s.Listing(id); l != nil {
		return l, nil
	}
	return nil, apperror.ErrListingNotFound
}

func (r listingRepo) TryReserve(_ context.Context, id uuid.UUID) (bool, error) {
	return r.compareAndSet(id, valueobject.ListingOnSale, valueobject.ListingSold), nil
}

func (r listingRepo) TryRelease(_ context.Context, id uuid.UUID) (bool, error) {
	return r.compareAndSet(id, valueobject.ListingSold, valueobject.ListingOnSale), nil
}

func (r listingRepo) compareAndSet(id uuid.UUID, from, to valueobject.ListingAvailability) bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.data.listings[id]
	if !ok || l.Availability != from {
		return false
	}
	l.Availability = to
	l.UpdatedAt = time.Now().UTC()
	r.s.data.listings[id] = l
	return true
}

type orderRepo struct{ s *Store }

func (r orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.data.orders {
		if existing.ListingID == o.ListingID && existing.Status != valueobject.OrderStatusCancelled {
			return apperror.ErrListingUnavailable
		}
	}
	r.s.data.orders[o.ID] = *o
	return nil
}

func (r orderRepo) Update(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.data.orders[o.ID]
	if !ok || stored.Version != o.Version {
		return apperror.ErrConcurrentUpdate
	}
	o.Version++
	r.s.data.orders[o.ID] = *o
	return nil
}

func (r orderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	if o := r.s.Order(id); o != nil {
		return o, nil
	}
	return nil, apperror.ErrOrderNotFound
}

func (r orderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	r.s.mu.Lock()
	var matched []*entity.Order
	for _, o := range r.s.data.orders {
		if !matchesRole(o, filter) || (filter.Status != "" && o.Status != filter.Status) {
			continue
		}
		o := o
		matched = append(matched, &o)
	}
	r.s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return page(matched, filter.Limit, filter.Offset), len(matched), nil
}

func matchesRole(o entity.Order, filter repository.OrderFilter) bool {
	switch filter.Role {
	case valueobject.RoleBuyer:
		return o.BuyerID == filter.UserID
	case valueobject.RoleSeller:
		return o.SellerID == filter.UserID
	default:
		return o.IsParticipant(filter.UserID)
	}
}

func (r orderRepo) FindExpiredPending(_ context.Context, cutoff time.Time, limit int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	var expired []*entity.Order
	for _, o := range r.s.data.orders {
		if o.Status == valueobject.OrderStatusPending && o.CreatedAt.Before(cutoff) {
			o := o
			expired = append(expired, &o)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(expired, func(i, j int) bool { return expired[i].CreatedAt.Before(expired[j].CreatedAt) })
	if limit > 0 && len(expired) > limit {
		expired = expired[:limit]
	}
	return expired, nil
}

func (r orderRepo) Statistics(_ context.Context, userID uuid.UUID) (*repository.OrderStatistics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stats := &repository.OrderStatistics{}
	for _, o := range r.s.data.orders {
		if !o.IsParticipant(userID) {
			continue
		}
		stats.Total++
		if o.BuyerID == userID {
			stats.AsBuyer++
		}
		if o.SellerID == userID {
			stats.AsSeller++
		}
		switch o.Status {
		case valueobject.OrderStatusPending:
			stats.Pending++
		case valueobject.OrderStatusPaid:
			stats.Paid++
		case valueobject.OrderStatusShipped:
			stats.Shipped++
		case valueobject.OrderStatusCompleted:
			stats.Completed++
		case valueobject.OrderStatusCancelled:
			stats.Cancelled++
		}
		if o.RefundStatus == valueobject.RefundApplying {
			stats.Refunding++
		}
		if o.DisputeStatus.IsOpen() {
			stats.Disputing++
		}
	}
	return stats, nil
}

type bargainRepo struct{ s *Store }

func (r bargainRepo) Create(_ context.Context, b *entity.Bargain) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.data.bargains[b.ID] = *b
	return nil
}

func (r bargainRepo) Update(_ context.Context, b *entity.Bargain) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.data.bargains[b.ID]
	if !ok || stored.Version != b.Version {
		return apperror.ErrConcurrentUpdate
	}
	b.Version++
	r.s.data.bargains[b.ID] = *b
	return nil
}

func (r bargainRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Bargain, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.data.bargains[id]
	if !ok {
		return nil, apperror.ErrBargainNotFound
	}
	return &b, nil
}

func (r bargainRepo) ListByListing(_ context.Context, listingID uuid.UUID) ([]*entity.Bargain, error) {
	r.s.mu.Lock()
	var result []*entity.Bargain
	for _, b := range r.s.data.bargains {
		if b.ListingID == listingID {
			b := b
			result = append(result, &b)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r bargainRepo) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.Bargain, int, error) {
	r.s.mu.Lock()
	var result []*entity.Bargain
	for _, b := range r.s.data.bargains {
		if b.IsParticipant(userID) {
			b := b
			result = append(result, &b)
		}
	}
	r.s.mu.Unlock()

	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return page(result, limit, offset), len(result), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
