// Package metrics экспортирует счётчики жизненного цикла сделок в Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ignatzorin/campus-market/internal/pkg/apperror"
)

const pre = "campus_market_"

var sweepBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Measures группирует все метрики сервиса.
var Measures = struct {
	OrderTransitions *prometheus.CounterVec
	BargainActions   *prometheus.CounterVec
	SweepCancelled   prometheus.Counter
	SweepFailed      prometheus.Counter
	SweepSkipped     prometheus.Counter
	SweepDuration    prometheus.Histogram
}{
	OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "order_transitions_total",
		Help: "Переходы сделок по действию и результату.",
	}, []string{"action", "result"}),
	BargainActions: prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: pre + "bargain_actions_total",
		Help: "Действия с предложениями цены по результату.",
	}, []string{"action", "result"}),
	SweepCancelled: prometheus.NewCounter(prometheus.CounterOpts{
		Name: pre + "sweep_cancelled_total",
		Help: "Сделки, отменённые по таймауту оплаты.",
	}),
	SweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
		Name: pre + "sweep_failed_total",
		Help: "Сделки, которые не удалось отменить при очистке.",
	}),
	SweepSkipped: prometheus.NewCounter(prometheus.CounterOpts{
		Name: pre + "sweep_skipped_total",
		Help: "Тики очистки, пропущенные из-за незавершённого прохода.",
	}),
	SweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    pre + "sweep_duration_seconds",
		Buckets: sweepBuckets,
		Help:    "Длительность прохода очистки просроченных сделок.",
	}),
}

func init() {
	prometheus.MustRegister(
		Measures.OrderTransitions,
		Measures.BargainActions,
		Measures.SweepCancelled,
		Measures.SweepFailed,
		Measures.SweepSkipped,
		Measures.SweepDuration,
	)
}

// ObserveOrder учитывает попытку перехода сделки.
func ObserveOrder(action string, err error) {
	Measures.OrderTransitions.WithLabelValues(action, result(err)).Inc()
}

// ObserveBargain учитывает действие с предложением цены.
func ObserveBargain(action string, err error) {
	Measures.BargainActions.WithLabelValues(action, result(err)).Inc()
}

// ObserveSweep учитывает итог прохода очистки.
func ObserveSweep(cancelled, failed int, took time.Duration) {
	Measures.SweepCancelled.Add(float64(cancelled))
	Measures.SweepFailed.Add(float64(failed))
	Measures.SweepDuration.Observe(took.Seconds())
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// result сводит ошибку к метке: ok или код apperror в нижнем регистре.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperror.CodeOf(err) {
	case apperror.ErrCodeNotFound:
		return "not_found"
	case apperror.ErrCodeForbidden:
		return "forbidden"
	case apperror.ErrCodeInvalidState:
		return "invalid_state"
	case apperror.ErrCodeListingUnavailable:
		return "listing_unavailable"
	case apperror.ErrCodeSelfTransaction:
		return "self_transaction"
	case apperror.ErrCodeValidation:
		return "validation"
	default:
		return "error"
	}
}
