package order

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/ignatzorin/campus-market/internal/domain/entity"
	"github.com/ignatzorin/campus-market/internal/domain/repository"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

// DefaultSweepBatch число сделок, обрабатываемых за один проход.
const DefaultSweepBatch = 500

// SweepResult итог прохода очистки.
type SweepResult struct {
	Scanned   int
	Cancelled int
	// Skipped сделки, которые успели оплатить или отменить между выборкой и отменой.
	Skipped int
	Failed  int
}

type SweepExpiredUseCase struct {
	deps  Deps
	batch int
}

func NewSweepExpiredUseCase(deps Deps, batch int) *SweepExpiredUseCase {
	if batch <= 0 {
		batch = DefaultSweepBatch
	}
	return &SweepExpiredUseCase{deps: deps, batch: batch}
}

// Execute отменяет сделки PENDING, созданные строго раньше now-timeout.
// Каждая сделка отменяется отдельной транзакцией через ту же проверку, что и
// ручная отмена; ошибка по одной сделке не прерывает проход. Остаток сверх
// batch обрабатывается следующим проходом.
func (uc *SweepExpiredUseCase) Execute(ctx context.Context, now time.Time, timeout time.Duration) (SweepResult, error) {
	var result SweepResult
	log := logger.WithComponent("sweeper")

	cutoff := now.Add(-timeout)
	expired, err := uc.deps.UoW.Orders().FindExpiredPending(ctx, cutoff, uc.batch)
	if err != nil {
		return result, err
	}
	result.Scanned = len(expired)

	var errs error
	for _, candidate := range expired {
		if ctx.Err() != nil {
			errs = multierr.Append(errs, ctx.Err())
			break
		}

		o, err := uc.deps.transition(ctx, "expire", candidate.ID, now,
			func(ctx context.Context, repos repository.Repositories, o *entity.Order, now time.Time) error {
				if err := o.Expire(now); err != nil {
					return err
				}
				return releaseCancelled(ctx, repos, o, now)
			})
		switch {
		case err == nil:
			result.Cancelled++
			uc.deps.notifyBoth(ctx, entity.NotificationOrder, "Заказ отменён: истёк срок оплаты", o)
		case apperror.IsInvalidState(err):
			result.Skipped++
			log.WithField("order_id", candidate.ID).Debug("сделка изменилась до отмены, пропускаем")
		default:
			result.Failed++
			log.WithFields(logrus.Fields{
				"order_id": candidate.ID,
				"error":    err,
			}).Error("не удалось отменить просроченную сделку")
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", candidate.ID, err))
		}
	}

	return result, errs
}
