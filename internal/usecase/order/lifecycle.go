// Package order реализует жизненный цикл сделки: оформление, оплату, передачу
// товара, возврат и спор. Каждая операция выполняется одной единицей работы,
// в которой сделка и доступность товара меняются вместе.
package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/raulk/clock"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/metrics"
	"github.com/ignatzorin/campus-market/internal/usecase/listing"
)

// Notifier доставляет системное уведомление пользователю.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, kind, title, content string, relatedID uuid.UUID) error
}

// Deps общие зависимости операций над сделками. Notifier может быть nil.
type Deps struct {
	UoW      repository.UnitOfWork
	Notifier Notifier
	Clock    clock.Clock
}

func (d Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now().UTC()
	}
	return d.Clock.Now().UTC()
}

// applyFunc проверяет и применяет переход к сделке внутри единицы работы.
type applyFunc func(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error

// transition читает сделку, применяет apply и сохраняет её в одной транзакции.
// Конкурентное изменение той же сделки приводит к ErrConcurrentUpdate.
func (d Deps) transition(ctx context.Context, action string, orderID uuid.UUID, now time.Time, apply applyFunc) (order *entity.Order, err error) {
	defer func() { metrics.ObserveOrder(action, err) }()

	err = d.UoW.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := apply(ctx, repos, o, now); err != nil {
			return err
		}
		if err := repos.Orders().Update(ctx, o); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// releaseCancelled возвращает товар отменённой сделки в продажу и снимает
// привязку принятого предложения цены, чтобы покупатель мог снова оформить
// заказ по согласованной цене.
func releaseCancelled(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error {
	if err := listing.Release(ctx, repos.Listings(), o.ListingID); err != nil {
		return err
	}
	if o.BargainID == nil {
		return nil
	}

	b, err := repos.Bargains().FindByID(ctx, *o.BargainID)
	if err != nil {
		return err
	}
	if !b.DetachOrder(o.ID, now) {
		return nil
	}
	return repos.Bargains().Update(ctx, b)
}

// notify вызывается после фиксации транзакции. Ошибка доставки только логируется.
func (d Deps) notify(ctx context.Context, userID uuid.UUID, kind, title string, o *entity.Order) {
	if d.Notifier == nil {
		return
	}
	content := "Заказ " + o.OrderNo + ": " + title
	if err := d.Notifier.Notify(ctx, userID, kind, title, content, o.ID); err != nil {
		logger.WithComponent("order").WithFields(logrus.Fields{
			"order_id": o.ID,
			"user_id":  userID,
			"error":    err,
		}).Warn("не удалось отправить уведомление")
	}
}

// notifyBoth уведомляет покупателя и продавца.
func (d Deps) notifyBoth(ctx context.Context, kind, title string, o *entity.Order) {
	d.notify(ctx, o.BuyerID, kind, title, o)
	d.notify(ctx, o.SellerID, kind, title, o)
}
