package domain

import "time"

// OrderStatus описывает жизненный цикл заказа пекарни.
type OrderStatus string

const (
	// OrderStatusPending — заказ создан, подтверждение ещё не получено.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusConfirmed — заказ принят пекарней.
	OrderStatusConfirmed OrderStatus = "confirmed"
	// OrderStatusPreparing — заказ готовится.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusReady — заказ собран и готов к доставке.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusDelivered — заказ доставлен покупателю; терминальный статус.
	OrderStatusDelivered OrderStatus = "delivered"
)

// Valid проверяет, что статус относится к поддерживаемым значениям.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivered:
		return true
	default:
		return false
	}
}

// allowedTransitions задаёт единственные разрешённые переходы статусов.
// pending → confirmed выполняется автоматически воркером подтверждения,
// остальные переходы инициирует администратор. Переход pending → preparing
// разрешён, чтобы администратор мог взять заказ в работу до автоподтверждения.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusPreparing},
	OrderStatusConfirmed: {OrderStatusPreparing},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusDelivered},
	OrderStatusDelivered: nil,
}

// CanTransition сообщает, разрешён ли переход from → to.
// Любой обратный переход и любой пропуск шага запрещены.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderLine — позиция заказа, снапшот товара на момент оформления.
type OrderLine struct {
	ProductID   string
	ProductName string
	// Price — цена за единицу на момент оформления.
	Price    int64
	Quantity int32
	// TotalPrice — price * quantity, фиксируется при создании.
	TotalPrice int64
}

// Order агрегирует оформленный заказ. Содержимое неизменяемо после создания,
// мутирует только статус (и служебные Version/UpdatedAt).
type Order struct {
	ID         string
	Lines      []OrderLine
	Customer   CustomerInfo
	TotalPrice int64
	Status     OrderStatus
	// Version используется для optimistic locking при сохранении.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if err := o.Customer.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrLinesRequired)
	}
	if !o.Status.Valid() {
		errs = append(errs, ErrStatusUnknown)
	}

	// Сверяем итог заказа с суммой позиций: price * quantity.
	var calc int64
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.Price < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
		if line.TotalPrice != line.Price*int64(line.Quantity) {
			errs = append(errs, ErrLineTotalMismatch)
		}
		calc += line.Price * int64(line.Quantity)
	}
	if calc != o.TotalPrice {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
