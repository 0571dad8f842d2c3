// Package scheduler запускает фоновые задачи сервиса.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raulk/clock"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/campus-market/internal/goroutine"
	"github.com/ignatzorin/campus-market/internal/logger"
	"github.com/ignatzorin/campus-market/internal/metrics"
	"github.com/ignatzorin/campus-market/internal/usecase/order"
)

// ErrSweepInProgress предыдущий проход ещё не завершён.
var ErrSweepInProgress = errors.New("scheduler: проход очистки уже выполняется")

// Sweeper отменяет просроченные неоплаченные сделки.
type Sweeper interface {
	Execute(ctx context.Context, now time.Time, timeout time.Duration) (order.SweepResult, error)
}

// ExpirySweeper периодически отменяет сделки, не оплаченные за timeout.
// Ошибки прохода только логируются, повтор происходит на следующем тике.
type ExpirySweeper struct {
	sweeper  Sweeper
	clock    clock.Clock
	interval time.Duration
	timeout  time.Duration

	running sync.Mutex
	log     *logrus.Entry
}

func NewExpirySweeper(sweeper Sweeper, clk clock.Clock, interval, timeout time.Duration) *ExpirySweeper {
	if clk == nil {
		clk = clock.New()
	}
	return &ExpirySweeper{
		sweeper:  sweeper,
		clock:    clk,
		interval: interval,
		timeout:  timeout,
		log:      logger.WithComponent("sweeper"),
	}
}

// Start запускает цикл в отдельной горутине. Первый проход выполняется сразу,
// чтобы после простоя сервиса просроченные сделки не ждали целый интервал.
// Цикл останавливается вместе с ctx.
func (s *ExpirySweeper) Start(ctx context.Context) {
	ticker := s.clock.Ticker(s.interval)
	s.log.WithFields(logrus.Fields{
		"interval": s.interval.String(),
		"timeout":  s.timeout.String(),
	}).Info("очистка просроченных сделок запущена")

	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		defer ticker.Stop()
		s.tick(ctx)
		for {
			select {
			case <-ctx.Done():
				s.log.Info("очистка просроченных сделок остановлена")
				return
			case <-ticker.C:
				goroutine.SafeGoWithContext(ctx, s.tick)
			}
		}
	})
}

func (s *ExpirySweeper) tick(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSweepInProgress) {
		s.log.WithError(err).Error("проход очистки завершился с ошибками")
	}
}

// RunOnce выполняет один проход. Если предыдущий проход не завершён,
// возвращает ErrSweepInProgress не дожидаясь его.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (order.SweepResult, error) {
	if !s.running.TryLock() {
		metrics.Measures.SweepSkipped.Inc()
		s.log.Warn("предыдущий проход очистки ещё выполняется, тик пропущен")
		return order.SweepResult{}, ErrSweepInProgress
	}
	defer s.running.Unlock()

	start := s.clock.Now()
	result, err := s.sweeper.Execute(ctx, start.UTC(), s.timeout)
	metrics.ObserveSweep(result.Cancelled, result.Failed, s.clock.Now().Sub(start))

	s.log.WithFields(logrus.Fields{
		"scanned":   result.Scanned,
		"cancelled": result.Cancelled,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}).Info("проход очистки завершён")

	return result, err
}
