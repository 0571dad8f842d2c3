package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/campus-market/internal/domain/repository"
)

// Store реализует repository.UnitOfWork поверх sqlx. Запросы пишутся с
// плейсхолдерами ? и переписываются под драйвер через Rebind.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Listings() repository.ListingRepository { return &ListingRepository{q: s.db} }
func (s *Store) Orders() repository.OrderRepository     { return &OrderRepository{q: s.db} }
func (s *Store) Bargains() repository.BargainRepository { return &BargainRepository{q: s.db} }

// Do выполняет fn в одной транзакции БД.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return withTransaction(ctx, s.db, func(tx *sqlx.Tx) error {
		return fn(ctx, txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx *sqlx.Tx
}

func (r txRepositories) Listings() repository.ListingRepository { return &ListingRepository{q: r.tx} }
func (r txRepositories) Orders() repository.OrderRepository     { return &OrderRepository{q: r.tx} }
func (r txRepositories) Bargains() repository.BargainRepository { return &BargainRepository{q: r.tx} }

// withTransaction выполняет функцию внутри транзакции с правильной обработкой ошибок
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// getOne читает одну строку в T; при отсутствии строки возвращает notFoundErr.
func getOne[T any](ctx context.Context, q sqlx.ExtContext, notFoundErr error, query string, args ...interface{}) (*T, error) {
	var row T
	if err := sqlx.GetContext(ctx, q, &row, q.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, err
	}
	return &row, nil
}

// execAffected выполняет запрос и возвращает число затронутых строк.
func execAffected(ctx context.Context, q sqlx.ExtContext, query string, args ...interface{}) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
