package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/vladislavdragonenkov/bakery/internal/health"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
	"github.com/vladislavdragonenkov/bakery/internal/service/auth"
	"github.com/vladislavdragonenkov/bakery/internal/service/cart"
	"github.com/vladislavdragonenkov/bakery/internal/service/catalog"
	"github.com/vladislavdragonenkov/bakery/internal/service/checkout"
	"github.com/vladislavdragonenkov/bakery/internal/service/geo"
	"github.com/vladislavdragonenkov/bakery/internal/service/httpapi"
	"github.com/vladislavdragonenkov/bakery/internal/service/identity"
	"github.com/vladislavdragonenkov/bakery/internal/service/idempotency"
	"github.com/vladislavdragonenkov/bakery/internal/service/order"
	"github.com/vladislavdragonenkov/bakery/internal/version"
)

// Run собирает зависимости и запускает HTTP API, служебный listener
// и фоновые воркеры. Блокируется до отмены ctx или фатальной ошибки сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Kafka опционален: без брокеров события просто не публикуются.
	kafkaProducer, err := initKafkaProducer(cfg.KafkaBrokers, logger)
	if err != nil {
		logger.Warn("events will not be published")
	}
	defer closeKafka(kafkaProducer, logger)

	m := metrics.NewStorefrontMetrics()

	catalogStore := catalog.NewStore(deps.Products, m, logger.WithField("component", "catalog"))
	if err := catalogStore.Refresh(); err != nil {
		logger.WithError(err).Warn("initial catalog refresh failed, serving empty catalog")
	}

	carts := cart.NewManager()
	geocoder := geo.NewMockGeocoder()
	orderSvc := order.NewService(deps.Orders, deps.Timeline, m, kafkaProducer, logger.WithField("component", "order-service"))
	checkoutSvc := checkout.NewService(deps.Orders, deps.Timeline, geocoder, m, kafkaProducer, logger.WithField("component", "checkout"))
	gate := auth.NewGate(identity.NewMockProvider(), deps.Profiles, deps.Sessions, logger.WithField("component", "auth-gate"))

	handler := httpapi.NewHandler(
		gate,
		catalogStore,
		deps.Products,
		carts,
		checkoutSvc,
		orderSvc,
		geocoder,
		deps.Profiles,
		deps.Idempotency,
		logger.WithField("component", "http-api"),
	)

	confirmWorker := order.NewConfirmWorker(
		orderSvc,
		deps.Orders,
		order.WithLogger(logger.WithField("component", "confirm-worker")),
		order.WithDelay(cfg.ConfirmDelay),
		order.WithInterval(cfg.ConfirmInterval),
	)
	go confirmWorker.Run(ctx)

	cleanupWorker := idempotency.NewCleanupWorker(
		deps.Idempotency,
		idempotency.WithLogger(logger.WithField("component", "idempotency-cleanup")),
	)
	go cleanupWorker.Run(ctx)

	healthHandler := healthcheck.NewHandler(version.Current().Version)
	if deps.PgStore != nil {
		healthHandler.Register("postgres", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.PgStore.Ping(checkCtx)
		})
	}

	opsSrv := startOpsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(handler),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(opsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(opsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startOpsServer запускает служебный listener: метрики и health-пробы.
func startOpsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("ops server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
