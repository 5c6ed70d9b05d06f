package order

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

const (
	defaultConfirmDelay     = 2 * time.Second
	defaultConfirmInterval  = time.Second
	defaultConfirmBatchSize = 100
)

var (
	confirmRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_order_confirm_runs_total",
		Help: "Total number of auto-confirm runs grouped by result.",
	}, []string{"result"})
	confirmPromotedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bakery_order_confirm_promoted_total",
		Help: "Total number of orders promoted from pending to confirmed.",
	})
	confirmLastPromoted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bakery_order_confirm_last_promoted",
		Help: "Number of orders promoted during the last run.",
	})
)

// ConfirmOptions задает параметры воркера автоподтверждения заказов.
type ConfirmOptions struct {
	Logger    *log.Entry
	Delay     time.Duration
	Interval  time.Duration
	BatchSize int
}

// ConfirmOption настраивает ConfirmWorker.
type ConfirmOption func(*ConfirmOptions)

// WithLogger задает logger для воркера.
func WithLogger(logger *log.Entry) ConfirmOption {
	return func(opts *ConfirmOptions) {
		opts.Logger = logger
	}
}

// WithDelay задает минимальный возраст pending-заказа перед подтверждением.
func WithDelay(delay time.Duration) ConfirmOption {
	return func(opts *ConfirmOptions) {
		opts.Delay = delay
	}
}

// WithInterval задает интервал между проходами воркера.
func WithInterval(interval time.Duration) ConfirmOption {
	return func(opts *ConfirmOptions) {
		opts.Interval = interval
	}
}

// WithBatchSize задает максимум заказов за один проход.
func WithBatchSize(batchSize int) ConfirmOption {
	return func(opts *ConfirmOptions) {
		opts.BatchSize = batchSize
	}
}

// ConfirmWorker периодически подтверждает pending-заказы, достигшие
// возраста Delay. Заказ, который администратор уже взял в работу,
// воркер не трогает: выборка ограничена статусом pending, а гонка со
// сменой статуса разрешается через version conflict.
type ConfirmWorker struct {
	service   *Service
	orders    domain.OrderRepository
	logger    *log.Entry
	delay     time.Duration
	interval  time.Duration
	batchSize int
}

// NewConfirmWorker создает воркер автоподтверждения.
func NewConfirmWorker(service *Service, orders domain.OrderRepository, options ...ConfirmOption) *ConfirmWorker {
	opts := ConfirmOptions{
		Delay:     defaultConfirmDelay,
		Interval:  defaultConfirmInterval,
		BatchSize: defaultConfirmBatchSize,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "order-confirm-worker")
	}

	if opts.Delay <= 0 {
		opts.Delay = defaultConfirmDelay
	}
	if opts.Interval <= 0 {
		opts.Interval = defaultConfirmInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultConfirmBatchSize
	}

	return &ConfirmWorker{
		service:   service,
		orders:    orders,
		logger:    logger,
		delay:     opts.Delay,
		interval:  opts.Interval,
		batchSize: opts.BatchSize,
	}
}

// Run запускает периодическое подтверждение до отмены ctx.
func (w *ConfirmWorker) Run(ctx context.Context) {
	if w.orders == nil || w.service == nil {
		w.logger.Warn("order confirm worker is disabled: dependencies are nil")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.confirm(ctx, time.Now().UTC())
		}
	}
}

func (w *ConfirmWorker) confirm(ctx context.Context, now time.Time) {
	promoted, err := w.ConfirmDue(ctx, now)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		confirmRunsTotal.WithLabelValues("error").Inc()
		w.logger.WithError(err).Warn("order confirm run failed")
		return
	}

	confirmRunsTotal.WithLabelValues("ok").Inc()
	confirmLastPromoted.Set(float64(promoted))
	if promoted > 0 {
		w.logger.WithField("promoted", promoted).Info("pending orders confirmed")
	}
}

// ConfirmDue подтверждает все pending-заказы старше delay относительно now.
// Возвращает число подтверждённых заказов.
func (w *ConfirmWorker) ConfirmDue(ctx context.Context, now time.Time) (int, error) {
	if now.IsZero() {
		now = time.Now().UTC()
	}
	cutoff := now.Add(-w.delay)

	promoted := 0
	for {
		if err := ctx.Err(); err != nil {
			return promoted, err
		}

		due, err := w.orders.ListPendingBefore(cutoff, w.batchSize)
		if err != nil {
			return promoted, err
		}
		if len(due) == 0 {
			return promoted, nil
		}

		progressed := false
		for _, order := range due {
			if _, err := w.service.UpdateStatus(order.ID, domain.OrderStatusConfirmed); err != nil {
				// Администратор мог увести заказ дальше между выборкой и записью.
				if domain.IsInvalidTransition(err) || domain.IsVersionConflict(err) {
					w.logger.WithError(err).WithField("order_id", order.ID).Debug("order left pending state, skipping")
					continue
				}
				return promoted, err
			}
			promoted++
			progressed = true
			confirmPromotedTotal.Inc()
		}

		// Выборка не уменьшилась и ни один заказ не подтверждён — выходим,
		// чтобы не зациклиться на заказах, которые невозможно перевести.
		if !progressed {
			return promoted, nil
		}
		if len(due) < w.batchSize {
			return promoted, nil
		}
	}
}
