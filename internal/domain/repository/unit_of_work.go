package repository

import "context"

// Repositories набор репозиториев, разделяющих одну транзакцию.
type Repositories interface {
	Listings() ListingRepository
	Orders() OrderRepository
	Bargains() BargainRepository
}

// UnitOfWork выполняет fn атомарно: все изменения через переданные
// репозитории фиксируются вместе или откатываются при ошибке.
// Методы Repositories вне Do работают без транзакции и годятся для чтения.
type UnitOfWork interface {
	Repositories
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
