package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderConfirmed     EventType = "order.confirmed"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderDelivered     EventType = "order.delivered"
)

// Topics для Kafka
const (
	TopicOrderEvents = "bakery.order.events"
)

// OrderEvent представляет событие жизненного цикла заказа
type OrderEvent struct {
	EventType    EventType              `json:"event_type"`
	OrderID      string                 `json:"order_id"`
	CustomerName string                 `json:"customer_name"`
	Status       string                 `json:"status"`
	TotalPrice   int64                  `json:"total_price"`
	Timestamp    time.Time              `json:"timestamp"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// NewOrderEvent создает новое событие заказа
func NewOrderEvent(eventType EventType, orderID, customerName, status string, totalPrice int64, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:    eventType,
		OrderID:      orderID,
		CustomerName: customerName,
		Status:       status,
		TotalPrice:   totalPrice,
		Timestamp:    time.Now(),
		Metadata:     metadata,
	}
}
