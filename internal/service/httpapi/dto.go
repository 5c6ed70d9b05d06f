package httpapi

import (
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token     string          `json:"token"`
	Area      string          `json:"area"`
	ExpiresAt string          `json:"expires_at"`
	Profile   ProfileResponse `json:"profile"`
}

type ProfileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

type ProductRequest struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image,omitempty"`
	Category    string `json:"category"`
	Available   bool   `json:"available"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int32  `json:"quantity,omitempty"`
}

type CartItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int32           `json:"quantity"`
}

type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int32              `json:"total_items"`
	TotalPrice int64              `json:"total_price"`
}

type CheckoutRequest struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// AddressSuggestionResponse — предзаполнение формы доставки по геолокации.
type AddressSuggestionResponse struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type OrderLineResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
	Quantity    int32  `json:"quantity"`
	TotalPrice  int64  `json:"total_price"`
}

type OrderResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Phone      string              `json:"phone"`
	Address    string              `json:"address"`
	Latitude   *float64            `json:"latitude,omitempty"`
	Longitude  *float64            `json:"longitude,omitempty"`
	Items      []OrderLineResponse `json:"items"`
	TotalPrice int64               `json:"total_price"`
	Status     string              `json:"status"`
	CreatedAt  string              `json:"created_at"`
	UpdatedAt  string              `json:"updated_at"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func mapProduct(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    string(p.Category),
		Available:   p.Available,
	}
}

func mapProducts(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	return out
}

func mapProfile(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func mapCart(cart *domain.Cart) CartResponse {
	items := cart.Items()
	out := CartResponse{
		Items:      make([]CartItemResponse, len(items)),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
	for i, item := range items {
		out.Items[i] = CartItemResponse{
			Product:  mapProduct(item.Product),
			Quantity: item.Quantity,
		}
	}
	return out
}

func mapOrder(o domain.Order) OrderResponse {
	items := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		items[i] = OrderLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
			TotalPrice:  line.TotalPrice,
		}
	}
	return OrderResponse{
		ID:         o.ID,
		Name:       o.Customer.Name,
		Phone:      o.Customer.Phone,
		Address:    o.Customer.Address,
		Latitude:   o.Customer.Latitude,
		Longitude:  o.Customer.Longitude,
		Items:      items,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:  o.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func mapOrders(orders []domain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	return out
}
