package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// profileRepositoryInMemory хранит профили в памяти (для разработки/тестов).
type profileRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Profile
	// byEmail индексирует профили по нормализованному email.
	byEmail map[string]string
}

// NewProfileRepository создаёт in-memory реализацию ProfileRepository.
func NewProfileRepository() domain.ProfileRepository {
	return &profileRepositoryInMemory{
		items:   make(map[string]domain.Profile),
		byEmail: make(map[string]string),
	}
}

// Create добавляет профиль; email уникален без учёта регистра.
func (r *profileRepositoryInMemory) Create(profile domain.Profile) error {
	email := normalizeEmail(profile.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return domain.ErrEmailTaken
	}
	r.items[profile.ID] = profile
	r.byEmail[email] = profile.ID
	return nil
}

// Get возвращает профиль или ErrProfileNotFound.
func (r *profileRepositoryInMemory) Get(id string) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.items[id]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return profile, nil
}

// GetByEmail возвращает профиль по email или ErrProfileNotFound.
func (r *profileRepositoryInMemory) GetByEmail(email string) (domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return domain.Profile{}, domain.ErrProfileNotFound
	}
	return r.items[id], nil
}

// List возвращает профили, отсортированные по времени создания и email.
func (r *profileRepositoryInMemory) List() ([]domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Profile, 0, len(r.items))
	for _, profile := range r.items {
		result = append(result, profile)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Email < result[j].Email
	})

	return result, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ domain.ProfileRepository = (*profileRepositoryInMemory)(nil)
