package integration

import (
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/service/checkout"
	"github.com/vladislavdragonenkov/bakery/internal/service/geo"
	"github.com/vladislavdragonenkov/bakery/internal/service/order"
	"github.com/vladislavdragonenkov/bakery/internal/storage/memory"
)

// OrderLifecycleTestSuite проверяет полный путь заказа:
// оформление → автоподтверждение → админские переходы до доставки.
type OrderLifecycleTestSuite struct {
	suite.Suite
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	checkout *checkout.Service
	service  *order.Service
	worker   *order.ConfirmWorker
}

func (suite *OrderLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	suite.orders = memory.NewOrderRepository()
	suite.timeline = memory.NewTimelineRepository()

	suite.checkout = checkout.NewService(
		suite.orders,
		suite.timeline,
		geo.NewMockGeocoder(),
		nil,
		nil,
		logger,
	)
	suite.service = order.NewService(suite.orders, suite.timeline, nil, nil, logger)
	suite.worker = order.NewConfirmWorker(
		suite.service,
		suite.orders,
		order.WithLogger(logger),
		order.WithDelay(2*time.Second),
	)
}

func (suite *OrderLifecycleTestSuite) placeOrder() domain.Order {
	cart := domain.NewCart()
	cart.Add(domain.Product{
		ID:        "p-1",
		Name:      "Roti Tawar",
		Price:     15000,
		Category:  domain.CategoryBread,
		Available: true,
	})
	cart.Add(domain.Product{
		ID:        "p-3",
		Name:      "Tiramisu Cake",
		Price:     85000,
		Category:  domain.CategoryCake,
		Available: true,
	})

	placed, err := suite.checkout.Checkout(context.Background(), cart, domain.CustomerInfo{
		Name:    "Budi Santoso",
		Phone:   "+62-812-0000-0001",
		Address: "Jl. Sudirman No. 1, Jakarta",
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), domain.OrderStatusPending, placed.Status)
	require.Equal(suite.T(), int64(100000), placed.TotalPrice)
	require.Equal(suite.T(), 0, cart.Len(), "корзина должна очищаться после оформления")

	return placed
}

func (suite *OrderLifecycleTestSuite) TestFullLifecycle() {
	t := suite.T()
	placed := suite.placeOrder()

	// Свежий pending-заказ воркер не трогает.
	promoted, err := suite.worker.ConfirmDue(context.Background(), placed.CreatedAt.Add(time.Second))
	require.NoError(t, err)
	require.Zero(t, promoted)

	// После задержки заказ подтверждается автоматически.
	promoted, err = suite.worker.ConfirmDue(context.Background(), placed.CreatedAt.Add(5*time.Second))
	require.NoError(t, err)
	require.Equal(t, 1, promoted)

	confirmed, err := suite.service.Get(placed.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)

	// Админ доводит заказ до доставки.
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
		domain.OrderStatusDelivered,
	} {
		updated, err := suite.service.UpdateStatus(placed.ID, status)
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}

	final, err := suite.service.Get(placed.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusDelivered, final.Status)
	require.Equal(t, int64(4), final.Version)

	// Timeline: создание + четыре смены статуса.
	events, err := suite.service.Timeline(placed.ID)
	require.NoError(t, err)
	require.Len(t, events, 5)
	require.Equal(t, domain.TimelineEventOrderCreated, events[0].Type)
	require.Equal(t, domain.OrderStatusDelivered, events[4].Status)
}

func (suite *OrderLifecycleTestSuite) TestInvalidTransitionLeavesOrderIntact() {
	t := suite.T()
	placed := suite.placeOrder()

	_, err := suite.service.UpdateStatus(placed.ID, domain.OrderStatusDelivered)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := suite.service.Get(placed.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPending, got.Status)
	require.Zero(t, got.Version)
}

func (suite *OrderLifecycleTestSuite) TestDeliveredIsTerminal() {
	t := suite.T()
	placed := suite.placeOrder()

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusConfirmed,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
		domain.OrderStatusDelivered,
	} {
		_, err := suite.service.UpdateStatus(placed.ID, status)
		require.NoError(t, err)
	}

	for _, status := range []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusConfirmed,
		domain.OrderStatusPreparing,
		domain.OrderStatusReady,
	} {
		_, err := suite.service.UpdateStatus(placed.ID, status)
		require.ErrorIs(t, err, domain.ErrInvalidTransition)
	}
}

func (suite *OrderLifecycleTestSuite) TestConfirmWorkerSkipsNonPending() {
	t := suite.T()
	placed := suite.placeOrder()

	_, err := suite.service.UpdateStatus(placed.ID, domain.OrderStatusPreparing)
	require.NoError(t, err)

	promoted, err := suite.worker.ConfirmDue(context.Background(), placed.CreatedAt.Add(time.Hour))
	require.NoError(t, err)
	require.Zero(t, promoted)

	got, err := suite.service.Get(placed.ID)
	require.NoError(t, err)
	require.Equal(t, domain.OrderStatusPreparing, got.Status)
}

func TestOrderLifecycleSuite(t *testing.T) {
	suite.Run(t, new(OrderLifecycleTestSuite))
}
