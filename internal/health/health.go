package health

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status представляет статус компонента
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check — результат одной проверки зависимости.
type Check struct {
	Name       string `json:"name"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Response агрегирует результаты всех проверок.
type Response struct {
	Status        Status           `json:"status"`
	Timestamp     time.Time        `json:"timestamp"`
	Checks        map[string]Check `json:"checks,omitempty"`
	Version       string           `json:"version,omitempty"`
	UptimeSeconds int64            `json:"uptime_seconds"`
}

// CheckFunc проверяет одну зависимость: nil означает, что она доступна.
type CheckFunc func() error

// Handler выполняет зарегистрированные проверки и отдаёт их по HTTP.
type Handler struct {
	mu        sync.RWMutex
	checks    map[string]CheckFunc
	version   string
	startTime time.Time
}

// NewHandler создаёт health handler с указанной версией сборки.
func NewHandler(version string) *Handler {
	return &Handler{
		checks:    make(map[string]CheckFunc),
		version:   version,
		startTime: time.Now(),
	}
}

// Register добавляет проверку зависимости под именем name.
func (h *Handler) Register(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = fn
}

func (h *Handler) runChecks() (map[string]Check, Status) {
	h.mu.RLock()
	fns := make(map[string]CheckFunc, len(h.checks))
	for name, fn := range h.checks {
		fns[name] = fn
	}
	h.mu.RUnlock()

	results := make(map[string]Check, len(fns))
	overall := StatusHealthy
	for name, fn := range fns {
		start := time.Now()
		err := fn()
		check := Check{
			Name:       name,
			Status:     StatusHealthy,
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
			overall = StatusUnhealthy
		}
		results[name] = check
	}

	return results, overall
}

// ServeHTTP отдаёт полный отчёт по зависимостям.
func (h *Handler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	checks, overall := h.runChecks()

	response := Response{
		Status:        overall,
		Timestamp:     time.Now(),
		Checks:        checks,
		Version:       h.version,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	}

	statusCode := http.StatusOK
	if overall == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(response)
}

// LivenessHandler всегда отвечает 200: процесс жив.
func LivenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// ReadinessHandler отвечает 503, если хотя бы одна зависимость недоступна.
func (h *Handler) ReadinessHandler(w http.ResponseWriter, _ *http.Request) {
	_, overall := h.runChecks()
	if overall == StatusUnhealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
