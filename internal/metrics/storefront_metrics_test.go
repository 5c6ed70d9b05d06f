package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestStorefrontMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newStorefrontMetricsWithRegisterer(registry)

	m.RecordCheckoutStarted()
	m.RecordCheckoutStarted()
	m.RecordCheckoutCompleted()
	m.RecordCheckoutFailed()
	m.RecordCheckoutRejected()
	m.RecordTimelineEvent()
	m.RecordCatalogRefresh()

	if got := testutil.ToFloat64(m.checkoutStarted); got != 2 {
		t.Errorf("checkoutStarted = %v, ожидалось 2", got)
	}
	if got := testutil.ToFloat64(m.checkoutCompleted); got != 1 {
		t.Errorf("checkoutCompleted = %v, ожидалось 1", got)
	}
	if got := testutil.ToFloat64(m.checkoutFailed); got != 1 {
		t.Errorf("checkoutFailed = %v, ожидалось 1", got)
	}
	if got := testutil.ToFloat64(m.checkoutRejected); got != 1 {
		t.Errorf("checkoutRejected = %v, ожидалось 1", got)
	}
	if got := testutil.ToFloat64(m.timelineEvents); got != 1 {
		t.Errorf("timelineEvents = %v, ожидалось 1", got)
	}
	if got := testutil.ToFloat64(m.catalogRefreshes); got != 1 {
		t.Errorf("catalogRefreshes = %v, ожидалось 1", got)
	}
}

func TestStorefrontMetrics_StatusTransitions(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newStorefrontMetricsWithRegisterer(registry)

	m.RecordStatusTransition("confirmed")
	m.RecordStatusTransition("confirmed")
	m.RecordStatusTransition("ready")
	m.RecordInvalidTransition()

	if got := testutil.ToFloat64(m.statusTransitions.WithLabelValues("confirmed")); got != 2 {
		t.Errorf("transitions(confirmed) = %v, ожидалось 2", got)
	}
	if got := testutil.ToFloat64(m.statusTransitions.WithLabelValues("ready")); got != 1 {
		t.Errorf("transitions(ready) = %v, ожидалось 1", got)
	}
	if got := testutil.ToFloat64(m.invalidTransitions); got != 1 {
		t.Errorf("invalidTransitions = %v, ожидалось 1", got)
	}
}

func TestStorefrontMetrics_ReRegisterReturnsExisting(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newStorefrontMetricsWithRegisterer(registry)
	second := newStorefrontMetricsWithRegisterer(registry)

	first.RecordCheckoutStarted()
	second.RecordCheckoutStarted()

	if got := testutil.ToFloat64(first.checkoutStarted); got != 2 {
		t.Errorf("checkoutStarted = %v, ожидалось 2 (коллектор должен быть общим)", got)
	}
}

func TestStorefrontMetrics_DurationObserved(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newStorefrontMetricsWithRegisterer(registry)

	m.RecordCheckoutDuration(150 * time.Millisecond)
	m.RecordCheckoutDuration(300 * time.Millisecond)

	if got := testutil.CollectAndCount(m.checkoutDuration); got != 1 {
		t.Errorf("ожидалась одна серия гистограммы, получено %d", got)
	}
}
