package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/service/auth"
	"github.com/vladislavdragonenkov/bakery/internal/service/cart"
	"github.com/vladislavdragonenkov/bakery/internal/service/catalog"
	"github.com/vladislavdragonenkov/bakery/internal/service/checkout"
	"github.com/vladislavdragonenkov/bakery/internal/service/order"
)

const (
	idempotencyHeader = "Idempotency-Key"
	idempotencyTTL    = 24 * time.Hour
)

// Handler обслуживает HTTP API витрины и админ-панели.
type Handler struct {
	gate        *auth.Gate
	catalog     *catalog.Store
	products    domain.ProductRepository
	carts       *cart.Manager
	checkout    *checkout.Service
	orders      *order.Service
	geocoder    domain.Geocoder
	profiles    domain.ProfileRepository
	idempotency domain.IdempotencyRepository
	logger      *log.Entry
}

// NewHandler собирает handler из сервисов. idempotency может быть nil —
// тогда заголовок Idempotency-Key игнорируется.
func NewHandler(
	gate *auth.Gate,
	catalogStore *catalog.Store,
	products domain.ProductRepository,
	carts *cart.Manager,
	checkoutSvc *checkout.Service,
	orders *order.Service,
	geocoder domain.Geocoder,
	profiles domain.ProfileRepository,
	idempotency domain.IdempotencyRepository,
	logger *log.Entry,
) *Handler {
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	return &Handler{
		gate:        gate,
		catalog:     catalogStore,
		products:    products,
		carts:       carts,
		checkout:    checkoutSvc,
		orders:      orders,
		geocoder:    geocoder,
		profiles:    profiles,
		idempotency: idempotency,
		logger:      logger,
	}
}

// Register регистрирует identity и профиль с ролью user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	profile, err := h.gate.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapProfile(profile))
}

// Login проверяет учётные данные и выдаёт сессию с зоной доступа.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	session, profile, err := h.gate.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	area, err := auth.AreaFor(session.Role)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		Token:     session.Token,
		Area:      string(area),
		ExpiresAt: session.ExpiresAt.Format(time.RFC3339),
		Profile:   mapProfile(profile),
	})
}

// Logout отзывает сессию и её корзину.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "valid session token required")
		return
	}

	if err := h.gate.SignOut(r.Context(), session.Token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		writeDomainError(w, err)
		return
	}
	h.carts.Drop(session.Token)

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts возвращает каталог с фильтрами category и q.
// Перед ответом снапшот обновляется; при отказе хранилища отдаётся
// предыдущий снапшот, если он не пуст.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	category, ok := parseCategory(r.URL.Query().Get("category"))
	if !ok {
		writeError(w, http.StatusBadRequest, "validation_failed", "unknown category")
		return
	}

	if err := h.catalog.Refresh(); err != nil && len(h.catalog.Products()) == 0 {
		writeError(w, http.StatusBadGateway, "storage_error", err.Error())
		return
	}

	products := h.catalog.Filter(category, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, mapProducts(products))
}

func parseCategory(raw string) (domain.Category, bool) {
	switch raw {
	case "", "all":
		return "", true
	default:
		c := domain.Category(raw)
		return c, c.Valid()
	}
}

// GetCart возвращает корзину текущей сессии.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, mapCart(h.carts.Cart(session.Token)))
}

// AddCartItem добавляет товар в корзину: повторное добавление
// увеличивает количество на 1.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "product_id is required")
		return
	}

	product, err := h.catalog.Get(req.ProductID)
	if err != nil {
		// Снапшот мог устареть: пробуем обновить и поискать ещё раз
		if refreshErr := h.catalog.Refresh(); refreshErr == nil {
			product, err = h.catalog.Get(req.ProductID)
		}
		if err != nil {
			writeDomainError(w, err)
			return
		}
	}

	c := h.carts.Cart(session.Token)
	c.Add(product)
	writeJSON(w, http.StatusOK, mapCart(c))
}

// UpdateCartItem выставляет количество позиции; quantity <= 0 удаляет её.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())
	productID := chi.URLParam(r, "productID")

	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	c := h.carts.Cart(session.Token)
	c.SetQuantity(productID, req.Quantity)
	writeJSON(w, http.StatusOK, mapCart(c))
}

// RemoveCartItem удаляет позицию из корзины.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())

	c := h.carts.Cart(session.Token)
	c.Remove(chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, mapCart(c))
}

// ClearCart опустошает корзину сессии.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())

	h.carts.Cart(session.Token).Clear()
	w.WriteHeader(http.StatusNoContent)
}

// SuggestAddress определяет координаты клиента и подбирает адрес доставки
// для предзаполнения формы оформления. При отказе геолокации клиент
// заполняет адрес вручную.
func (h *Handler) SuggestAddress(w http.ResponseWriter, r *http.Request) {
	if h.geocoder == nil {
		writeError(w, http.StatusServiceUnavailable, "geo_unavailable", domain.ErrGeoUnavailable.Error())
		return
	}

	coords, err := h.geocoder.Locate(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "geo_unavailable", err.Error())
		return
	}

	address, err := h.geocoder.ReverseGeocode(r.Context(), coords)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "geo_unavailable", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, AddressSuggestionResponse{
		Address:   address,
		Latitude:  coords.Latitude,
		Longitude: coords.Longitude,
	})
}

// CreateOrder оформляет заказ из корзины сессии. Заголовок Idempotency-Key
// защищает от повторного создания: повтор с тем же ключом и телом
// возвращает сохранённый ответ.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionFromContext(r.Context())

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	var req CheckoutRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	key := r.Header.Get(idempotencyHeader)
	if key != "" && h.idempotency != nil {
		if done := h.claimIdempotencyKey(w, key, body); done {
			return
		}
	}

	customer := domain.CustomerInfo{
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	placed, err := h.checkout.Checkout(r.Context(), h.carts.Cart(session.Token), customer)
	if err != nil {
		h.recordIdempotentFailure(key, err)
		writeDomainError(w, err)
		return
	}

	response := mapOrder(placed)
	if key != "" && h.idempotency != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if markErr := h.idempotency.MarkDone(key, payload, http.StatusCreated); markErr != nil {
				h.logger.WithError(markErr).WithField("key", key).Warn("failed to mark idempotency key done")
			}
		}
	}

	writeJSON(w, http.StatusCreated, response)
}

// claimIdempotencyKey пытается захватить ключ. Возвращает true, если ответ
// уже записан (повтор, конфликт хэша или незавершённая обработка).
func (h *Handler) claimIdempotencyKey(w http.ResponseWriter, key string, body []byte) bool {
	hash := requestHash(body)

	record, err := h.idempotency.CreateProcessing(key, hash, time.Now().UTC().Add(idempotencyTTL))
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		writeError(w, http.StatusUnprocessableEntity, "idempotency_mismatch", "idempotency key reused with a different request body")
	case errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists):
		if record.Status == domain.IdempotencyStatusProcessing {
			writeError(w, http.StatusConflict, "conflict", "request with this idempotency key is still processing")
			return true
		}
		// Повтор завершённого запроса: отдаём сохранённый ответ как есть
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(record.HTTPStatus)
		_, _ = w.Write(record.ResponseBody)
	default:
		writeDomainError(w, err)
	}
	return true
}

// recordIdempotentFailure сохраняет ответ об ошибке под ключом так, чтобы
// повтор вернул тот же статус, что получил оригинальный запрос.
func (h *Handler) recordIdempotentFailure(key string, cause error) {
	if key == "" || h.idempotency == nil {
		return
	}
	status, code := domainErrorStatus(cause)
	payload, _ := json.Marshal(ErrorResponse{Error: code, Message: cause.Error()})
	if err := h.idempotency.MarkFailed(key, payload, status); err != nil {
		h.logger.WithError(err).WithField("key", key).Warn("failed to mark idempotency key failed")
	}
}

func requestHash(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// ListOrders возвращает заказы по убыванию времени создания.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "validation_failed", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	orders, err := h.orders.List(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	placed, err := h.orders.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(placed))
}

// UpdateOrderStatus переводит заказ в новый статус (админ-панель).
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	updated, err := h.orders.UpdateStatus(chi.URLParam(r, "id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(updated))
}

// ListUsers возвращает все профили (админ-панель).
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profiles.List()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		out[i] = mapProfile(p)
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateProduct добавляет товар в каталог (админ-панель).
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product := domain.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    domain.Category(req.Category),
		Available:   req.Available,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		writeDomainError(w, errs[0])
		return
	}

	if err := h.products.Create(product); err != nil {
		writeDomainError(w, err)
		return
	}
	h.refreshCatalog()

	writeJSON(w, http.StatusCreated, mapProduct(product))
}

// UpdateProduct перезаписывает товар (админ-панель).
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	product := domain.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    domain.Category(req.Category),
		Available:   req.Available,
	}

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		writeDomainError(w, errs[0])
		return
	}

	if err := h.products.Update(product); err != nil {
		writeDomainError(w, err)
		return
	}
	h.refreshCatalog()

	writeJSON(w, http.StatusOK, mapProduct(product))
}

// DeleteProduct удаляет товар из каталога (админ-панель).
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	h.refreshCatalog()

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) refreshCatalog() {
	if err := h.catalog.Refresh(); err != nil {
		h.logger.WithError(err).Warn("catalog refresh after admin change failed")
	}
}
