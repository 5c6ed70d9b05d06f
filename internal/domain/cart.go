package domain

import "sync"

// CartItem связывает товар с количеством. В корзине не бывает двух позиций
// с одним product ID, количество всегда >= 1.
type CartItem struct {
	Product  Product
	Quantity int32
}

// Cart — in-memory агрегат корзины. Позиции хранятся в порядке добавления.
// Агрегат безопасен для конкурентного чтения; мутации выполняет один
// владелец (сессия), но мьютекс защищает от гонок при реактивных чтениях.
type Cart struct {
	mu    sync.RWMutex
	items []CartItem
}

// NewCart создаёт пустую корзину.
func NewCart() *Cart {
	return &Cart{}
}

// Add добавляет товар: если позиция уже есть, увеличивает количество на 1,
// иначе вставляет новую позицию с количеством 1. Операция всегда успешна.
func (c *Cart) Add(product Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, CartItem{Product: product, Quantity: 1})
}

// Remove удаляет позицию по product ID; если позиции нет — no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// SetQuantity выставляет количество для позиции. Количество <= 0 удаляет
// позицию целиком: это осознанное проектное решение, инвариант "quantity >= 1"
// никогда не нарушается для присутствующих позиций.
func (c *Cart) SetQuantity(productID string, quantity int32) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// TotalItems возвращает суммарное количество единиц товара в корзине.
func (c *Cart) TotalItems() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int32
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice возвращает сумму price*quantity по всем позициям.
func (c *Cart) TotalPrice() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	for _, item := range c.items {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// Clear опустошает корзину.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Len возвращает количество позиций (не единиц) в корзине.
func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Items возвращает копию позиций, чтобы избежать непредсказуемых мутаций извне.
func (c *Cart) Items() []CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Lines формирует снапшот позиций для заказа: значения копируются,
// последующие изменения каталога не затрагивают исторические заказы.
func (c *Cart) Lines() []OrderLine {
	c.mu.RLock()
	defer c.mu.RUnlock()

	lines := make([]OrderLine, 0, len(c.items))
	for _, item := range c.items {
		lines = append(lines, OrderLine{
			ProductID:   item.Product.ID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
			TotalPrice:  item.Product.Price * int64(item.Quantity),
		})
	}
	return lines
}
