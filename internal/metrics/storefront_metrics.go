package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics содержит метрики витрины: checkout и жизненный цикл заказов.
type StorefrontMetrics struct {
	// Счётчики checkout
	checkoutStarted   prometheus.Counter
	checkoutCompleted prometheus.Counter
	checkoutFailed    prometheus.Counter
	checkoutRejected  prometheus.Counter

	// Гистограмма времени оформления заказа
	checkoutDuration prometheus.Histogram

	// Переходы статусов по статусу назначения
	statusTransitions *prometheus.CounterVec
	// Отклонённые переходы (запрещённые по таблице переходов)
	invalidTransitions prometheus.Counter

	// События timeline
	timelineEvents prometheus.Counter
	// Обновления кэша каталога
	catalogRefreshes prometheus.Counter
}

// NewStorefrontMetrics создаёт новый экземпляр метрик витрины.
func NewStorefrontMetrics() *StorefrontMetrics {
	return newStorefrontMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStorefrontMetricsWithRegisterer(registerer prometheus.Registerer) *StorefrontMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StorefrontMetrics{
		checkoutStarted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_checkout_started_total",
			Help: "Total number of checkout attempts started",
		}),
		checkoutCompleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_checkout_completed_total",
			Help: "Total number of checkouts completed successfully",
		}),
		checkoutFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_checkout_failed_total",
			Help: "Total number of checkouts failed on remote persistence",
		}),
		checkoutRejected: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_checkout_rejected_total",
			Help: "Total number of checkouts rejected by validation",
		}),
		checkoutDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "bakery_checkout_duration_seconds",
			Help:    "Duration of checkout operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		statusTransitions: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "bakery_order_status_transitions_total",
			Help: "Total number of persisted order status transitions grouped by target status",
		}, []string{"status"}),
		invalidTransitions: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_order_invalid_transitions_total",
			Help: "Total number of rejected order status transitions",
		}),
		timelineEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_timeline_events_total",
			Help: "Total number of order timeline events recorded",
		}),
		catalogRefreshes: registerCounter(registerer, prometheus.CounterOpts{
			Name: "bakery_catalog_refreshes_total",
			Help: "Total number of catalog snapshot refreshes",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordCheckoutStarted увеличивает счётчик начатых checkout.
func (m *StorefrontMetrics) RecordCheckoutStarted() {
	m.checkoutStarted.Inc()
}

// RecordCheckoutCompleted увеличивает счётчик успешных checkout.
func (m *StorefrontMetrics) RecordCheckoutCompleted() {
	m.checkoutCompleted.Inc()
}

// RecordCheckoutFailed увеличивает счётчик checkout, упавших на записи в хранилище.
func (m *StorefrontMetrics) RecordCheckoutFailed() {
	m.checkoutFailed.Inc()
}

// RecordCheckoutRejected увеличивает счётчик checkout, отклонённых валидацией.
func (m *StorefrontMetrics) RecordCheckoutRejected() {
	m.checkoutRejected.Inc()
}

// RecordCheckoutDuration записывает время оформления заказа.
func (m *StorefrontMetrics) RecordCheckoutDuration(duration time.Duration) {
	m.checkoutDuration.Observe(duration.Seconds())
}

// RecordStatusTransition фиксирует успешный переход в указанный статус.
func (m *StorefrontMetrics) RecordStatusTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// RecordInvalidTransition увеличивает счётчик отклонённых переходов.
func (m *StorefrontMetrics) RecordInvalidTransition() {
	m.invalidTransitions.Inc()
}

// RecordTimelineEvent увеличивает счётчик событий timeline.
func (m *StorefrontMetrics) RecordTimelineEvent() {
	m.timelineEvents.Inc()
}

// RecordCatalogRefresh увеличивает счётчик обновлений кэша каталога.
func (m *StorefrontMetrics) RecordCatalogRefresh() {
	m.catalogRefreshes.Inc()
}
