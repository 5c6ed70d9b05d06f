package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

const defaultGeoTimeout = 800 * time.Millisecond

// Service оформляет заказ из корзины: валидация данных покупателя,
// best-effort геолокация, запись в хранилище и только потом очистка корзины.
// Любая ошибка до успешной записи оставляет корзину нетронутой.
type Service struct {
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	geocoder domain.Geocoder
	logger   *log.Entry
	metrics  *metrics.StorefrontMetrics
	producer *kafka.Producer // опционален: nil отключает публикацию событий

	geoTimeout time.Duration
	// now и newOrderID подменяются в тестах
	now        func() time.Time
	newOrderID func(time.Time) string
}

// NewService создаёт сервис оформления заказа.
// geocoder, metrics и producer могут быть nil.
func NewService(
	orders domain.OrderRepository,
	timeline domain.TimelineRepository,
	geocoder domain.Geocoder,
	m *metrics.StorefrontMetrics,
	producer *kafka.Producer,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "checkout")
	}
	return &Service{
		orders:     orders,
		timeline:   timeline,
		geocoder:   geocoder,
		logger:     logger,
		metrics:    m,
		producer:   producer,
		geoTimeout: defaultGeoTimeout,
		now:        func() time.Time { return time.Now().UTC() },
		newOrderID: NewOrderID,
	}
}

// NewOrderID генерирует идентификатор заказа из момента оформления.
func NewOrderID(at time.Time) string {
	return fmt.Sprintf("ORD-%d", at.UnixMilli())
}

// Checkout превращает корзину в заказ. Последовательность:
// валидация покупателя → снапшот позиций → геолокация (best-effort) →
// запись заказа → timeline и события → очистка корзины.
func (s *Service) Checkout(ctx context.Context, cart *domain.Cart, customer domain.CustomerInfo) (domain.Order, error) {
	start := s.now()
	if s.metrics != nil {
		s.metrics.RecordCheckoutStarted()
		defer func() {
			s.metrics.RecordCheckoutDuration(time.Since(start))
		}()
	}

	if err := customer.Validate(); err != nil {
		if s.metrics != nil {
			s.metrics.RecordCheckoutRejected()
		}
		return domain.Order{}, err
	}

	lines := cart.Lines()
	if len(lines) == 0 {
		if s.metrics != nil {
			s.metrics.RecordCheckoutRejected()
		}
		return domain.Order{}, domain.ErrCartEmpty
	}

	s.attachCoordinates(ctx, &customer)

	now := s.now()
	order := domain.Order{
		ID:         s.newOrderID(now),
		Lines:      lines,
		Customer:   customer,
		TotalPrice: cart.TotalPrice(),
		Status:     domain.OrderStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		if s.metrics != nil {
			s.metrics.RecordCheckoutRejected()
		}
		return domain.Order{}, errors.Join(errs...)
	}

	if err := s.orders.Create(order); err != nil {
		if s.metrics != nil {
			s.metrics.RecordCheckoutFailed()
		}
		s.logger.WithError(err).WithField("order_id", order.ID).Error("failed to persist order")
		return domain.Order{}, err
	}

	s.appendCreatedEvent(&order)
	s.publishCreatedEvent(&order)

	// Корзина очищается последней: до этой точки любая ошибка
	// оставляет её содержимое доступным для повторной попытки.
	cart.Clear()

	if s.metrics != nil {
		s.metrics.RecordCheckoutCompleted()
	}
	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
		"lines":       len(order.Lines),
	}).Info("order placed")

	return order, nil
}

// attachCoordinates дополняет данные покупателя координатами, если
// геосервис доступен. Отказ или таймаут геосервиса не блокируют checkout.
func (s *Service) attachCoordinates(ctx context.Context, customer *domain.CustomerInfo) {
	if s.geocoder == nil || customer.HasCoordinates() {
		return
	}

	geoCtx, cancel := context.WithTimeout(ctx, s.geoTimeout)
	defer cancel()

	coords, err := s.geocoder.Locate(geoCtx)
	if err != nil {
		s.logger.WithError(err).Debug("geolocation unavailable, continuing without coordinates")
		return
	}

	lat := coords.Latitude
	lon := coords.Longitude
	customer.Latitude = &lat
	customer.Longitude = &lon
}

func (s *Service) appendCreatedEvent(order *domain.Order) {
	if s.timeline == nil {
		return
	}
	event := domain.TimelineEvent{
		OrderID:  order.ID,
		Type:     domain.TimelineEventOrderCreated,
		Status:   order.Status,
		Occurred: order.CreatedAt,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("append timeline event failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

// publishCreatedEvent публикует событие создания заказа в Kafka (если producer настроен)
func (s *Service) publishCreatedEvent(order *domain.Order) {
	if s.producer == nil {
		return
	}

	event := kafka.NewOrderEvent(
		kafka.EventTypeOrderCreated,
		order.ID,
		order.Customer.Name,
		string(order.Status),
		order.TotalPrice,
		map[string]interface{}{
			"lines": len(order.Lines),
		},
	)
	if err := s.producer.PublishOrderEvent(event); err != nil {
		// Kafka опциональна: заказ уже сохранён, ошибку только логируем
		s.logger.WithError(err).WithField("order_id", order.ID).Warn("failed to publish order event to kafka")
	}
}
