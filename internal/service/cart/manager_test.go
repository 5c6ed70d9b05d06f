package cart

import (
	"sync"
	"testing"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func TestManager_SameTokenSameCart(t *testing.T) {
	m := NewManager()

	first := m.Cart("token-1")
	first.Add(domain.Product{ID: "p-1", Name: "Roti Tawar", Price: 15000})

	second := m.Cart("token-1")
	if second.TotalItems() != 1 {
		t.Errorf("expected shared cart with 1 item, got %d", second.TotalItems())
	}
}

func TestManager_DifferentTokensIsolated(t *testing.T) {
	m := NewManager()

	m.Cart("token-1").Add(domain.Product{ID: "p-1", Price: 15000})

	if got := m.Cart("token-2").TotalItems(); got != 0 {
		t.Errorf("expected empty cart for another session, got %d items", got)
	}
}

func TestManager_Drop(t *testing.T) {
	m := NewManager()

	m.Cart("token-1").Add(domain.Product{ID: "p-1", Price: 15000})
	m.Drop("token-1")

	if got := m.Cart("token-1").TotalItems(); got != 0 {
		t.Errorf("expected fresh cart after drop, got %d items", got)
	}
	if m.Len() != 1 {
		t.Errorf("expected 1 cart after re-create, got %d", m.Len())
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	m := NewManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Cart("token-1").Add(domain.Product{ID: "p-1", Price: 15000})
		}()
	}
	wg.Wait()

	if got := m.Cart("token-1").TotalItems(); got != 50 {
		t.Errorf("expected 50 items, got %d", got)
	}
}
