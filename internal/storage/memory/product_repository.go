package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// productRepositoryInMemory хранит каталог в памяти (для разработки/тестов).
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
	// order сохраняет порядок добавления, чтобы List был стабильным.
	order []string
}

// NewProductRepository создаёт in-memory реализацию ProductRepository.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

// NewProductRepositoryWith наполняет репозиторий начальными товарами.
func NewProductRepositoryWith(products []domain.Product) domain.ProductRepository {
	repo := &productRepositoryInMemory{
		items: make(map[string]domain.Product, len(products)),
	}
	for _, p := range products {
		repo.items[p.ID] = p
		repo.order = append(repo.order, p.ID)
	}
	return repo
}

// List возвращает товары в порядке добавления в каталог.
func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.items[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}

// Get возвращает товар или ErrProductNotFound.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

// Create добавляет новый товар в конец каталога.
func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrProductExists
	}
	r.items[product.ID] = product
	r.order = append(r.order, product.ID)
	return nil
}

// Update перезаписывает существующий товар, сохраняя его позицию в каталоге.
func (r *productRepositoryInMemory) Update(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; !exists {
		return domain.ErrProductNotFound
	}
	r.items[product.ID] = product
	return nil
}

// Delete удаляет товар из каталога.
func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[id]; !exists {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)

	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
