package order

import (
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

// Service управляет жизненным циклом заказов: чтение и переходы статусов.
// Все изменения сначала сохраняются в хранилище, и только после успешной
// записи становятся видимыми читателям.
type Service struct {
	orders   domain.OrderRepository
	timeline domain.TimelineRepository
	logger   *log.Entry
	metrics  *metrics.StorefrontMetrics
	producer *kafka.Producer // опционален: nil отключает публикацию событий
}

// NewService создаёт сервис заказов. metrics и producer могут быть nil.
func NewService(
	orders domain.OrderRepository,
	timeline domain.TimelineRepository,
	m *metrics.StorefrontMetrics,
	producer *kafka.Producer,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.WithField("component", "order-service")
	}
	return &Service{
		orders:   orders,
		timeline: timeline,
		logger:   logger,
		metrics:  m,
		producer: producer,
	}
}

// List возвращает заказы по убыванию времени создания.
// limit <= 0 означает "без ограничения".
func (s *Service) List(limit int) ([]domain.Order, error) {
	return s.orders.List(limit)
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// Timeline возвращает события жизненного цикла заказа.
func (s *Service) Timeline(orderID string) ([]domain.TimelineEvent, error) {
	if _, err := s.orders.Get(orderID); err != nil {
		return nil, err
	}
	return s.timeline.List(orderID)
}

// UpdateStatus переводит заказ в новый статус. Запрещённый по таблице
// переходов статус отклоняется с ErrInvalidTransition до обращения к
// хранилищу. Возвращает заказ после успешного сохранения.
func (s *Service) UpdateStatus(orderID string, newStatus domain.OrderStatus) (domain.Order, error) {
	if !newStatus.Valid() {
		return domain.Order{}, domain.ErrStatusUnknown
	}

	order, err := s.orders.Get(orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if order.Status == newStatus {
		// Повторный перевод в текущий статус — no-op, не ошибка.
		return order, nil
	}

	if !domain.CanTransition(order.Status, newStatus) {
		if s.metrics != nil {
			s.metrics.RecordInvalidTransition()
		}
		s.logger.WithFields(log.Fields{
			"order_id": orderID,
			"from":     order.Status,
			"to":       newStatus,
		}).Warn("status transition rejected")
		return domain.Order{}, domain.ErrInvalidTransition
	}

	if err := s.persistStatus(&order, newStatus); err != nil {
		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordStatusTransition(string(newStatus))
	}
	s.appendTimeline(order.ID, domain.TimelineEventOrderStatusChanged, newStatus, order.UpdatedAt)
	s.publishStatusEvent(&order)

	return order, nil
}

// persistStatus сохраняет новый статус с retry при version conflict.
// При конфликте перезагружает свежую версию, повторно проверяет переход
// и пробует снова с exponential backoff.
func (s *Service) persistStatus(order *domain.Order, newStatus domain.OrderStatus) error {
	const maxRetries = 3
	const baseDelay = 10 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		previousStatus := order.Status
		order.Status = newStatus
		order.UpdatedAt = time.Now().UTC()
		prevVersion := order.Version

		if err := s.orders.Save(*order); err != nil {
			if domain.IsVersionConflict(err) && attempt < maxRetries-1 {
				s.logger.WithFields(log.Fields{
					"order_id": order.ID,
					"attempt":  attempt + 1,
					"version":  order.Version,
				}).Warn("version conflict detected, retrying")

				fresh, loadErr := s.orders.Get(order.ID)
				if loadErr != nil {
					s.logger.WithError(loadErr).WithField("order_id", order.ID).Error("failed to reload order after conflict")
					return loadErr
				}
				*order = fresh

				// Конкурент мог уже увести заказ дальше по жизненному циклу.
				if order.Status == newStatus {
					return nil
				}
				if !domain.CanTransition(order.Status, newStatus) {
					return domain.ErrInvalidTransition
				}

				delay := baseDelay * time.Duration(1<<uint(attempt))
				time.Sleep(delay)
				continue
			}

			order.Status = previousStatus
			s.logger.WithError(err).WithFields(log.Fields{
				"order_id": order.ID,
				"attempt":  attempt + 1,
			}).Error("failed to persist status")
			return err
		}

		order.Version = prevVersion + 1
		return nil
	}

	return domain.ErrOrderVersionConflict
}

func (s *Service) appendTimeline(orderID, eventType string, status domain.OrderStatus, occurred time.Time) {
	if s.timeline == nil {
		return
	}
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Status:   status,
		Occurred: occurred,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("append timeline event failed")
		return
	}
	if s.metrics != nil {
		s.metrics.RecordTimelineEvent()
	}
}

// publishStatusEvent публикует событие смены статуса в Kafka (если producer настроен)
func (s *Service) publishStatusEvent(order *domain.Order) {
	if s.producer == nil {
		return
	}

	eventType := kafka.EventTypeOrderStatusChanged
	switch order.Status {
	case domain.OrderStatusConfirmed:
		eventType = kafka.EventTypeOrderConfirmed
	case domain.OrderStatusDelivered:
		eventType = kafka.EventTypeOrderDelivered
	}

	event := kafka.NewOrderEvent(eventType, order.ID, order.Customer.Name, string(order.Status), order.TotalPrice, nil)
	if err := s.producer.PublishOrderEvent(event); err != nil {
		// Логируем ошибку, но не прерываем операцию — Kafka опциональна
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id":   order.ID,
			"event_type": eventType,
		}).Warn("failed to publish order event to kafka")
	}
}
