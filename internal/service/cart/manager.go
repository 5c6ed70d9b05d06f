package cart

import (
	"sync"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// Manager раздаёт корзины по токену сессии. Корзина живёт в памяти и
// умирает вместе с сессией; у каждой сессии ровно одна корзина.
type Manager struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

// NewManager создаёт менеджер корзин.
func NewManager() *Manager {
	return &Manager{
		carts: make(map[string]*domain.Cart),
	}
}

// Cart возвращает корзину сессии, создавая пустую при первом обращении.
func (m *Manager) Cart(token string) *domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.carts[token]
	if !ok {
		c = domain.NewCart()
		m.carts[token] = c
	}
	return c
}

// Drop удаляет корзину сессии. Вызывается при logout и истечении сессии.
func (m *Manager) Drop(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, token)
}

// Len возвращает количество активных корзин.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.carts)
}
