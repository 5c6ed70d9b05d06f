package catalog

import (
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/metrics"
)

// Store — кэш каталога поверх ProductRepository. Витрина читает снапшот,
// Refresh подтягивает свежие данные из хранилища. Фильтрация выполняется
// локально и не обращается к хранилищу.
type Store struct {
	mu       sync.RWMutex
	products []domain.Product

	repo    domain.ProductRepository
	logger  *log.Entry
	metrics *metrics.StorefrontMetrics
}

// NewStore создаёт кэш каталога. metrics может быть nil (для тестов).
func NewStore(repo domain.ProductRepository, m *metrics.StorefrontMetrics, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.WithField("component", "catalog")
	}
	return &Store{
		repo:    repo,
		logger:  logger,
		metrics: m,
	}
}

// Refresh перечитывает каталог из хранилища и заменяет снапшот.
// При ошибке предыдущий снапшот остаётся нетронутым.
func (s *Store) Refresh() error {
	products, err := s.repo.List()
	if err != nil {
		s.logger.WithError(err).Warn("catalog refresh failed")
		return err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RecordCatalogRefresh()
	}
	s.logger.WithField("products", len(products)).Debug("catalog refreshed")
	return nil
}

// Products возвращает копию текущего снапшота каталога.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get возвращает товар из снапшота или ErrProductNotFound.
func (s *Store) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// Filter применяет селектор категории и поисковый запрос к снапшоту.
// Сначала фильтруется категория, затем запрос; порядок позиций каталога
// сохраняется. Функция чистая относительно своих аргументов: повторный
// вызов с теми же параметрами возвращает тот же результат.
func (s *Store) Filter(category domain.Category, query string) []domain.Product {
	return Filter(s.Products(), category, query)
}

// Filter отбирает товары: пустая категория означает "все категории",
// пустой запрос не фильтрует. Поиск — подстрока без учёта регистра по
// имени и описанию; запрос сравнивается как есть, включая пробелы.
func Filter(products []domain.Product, category domain.Category, query string) []domain.Product {
	query = strings.ToLower(query)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories возвращает отсортированный список категорий, встречающихся в снапшоте.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[domain.Category]struct{})
	for _, p := range s.products {
		seen[p.Category] = struct{}{}
	}

	out := make([]domain.Category, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
