package geo

import (
	"context"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

// MockGeocoder — конфигурируемая заглушка Geocoder для тестов и dev-среды.
type MockGeocoder struct {
	Coords     domain.Coordinates
	Address    string
	LocateErr  error
	ReverseErr error

	LocateCalls  int
	ReverseCalls int
}

// NewMockGeocoder возвращает mock с успешным сценарием по умолчанию:
// координаты центра Джакарты и фиксированный адрес.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{
		Coords:  domain.Coordinates{Latitude: -6.2088, Longitude: 106.8456},
		Address: "Jl. Sudirman No. 1, Jakarta",
	}
}

// Locate возвращает заранее настроенные координаты или ошибку и считает вызовы.
func (m *MockGeocoder) Locate(ctx context.Context) (domain.Coordinates, error) {
	m.LocateCalls++
	if m.LocateErr != nil {
		return domain.Coordinates{}, m.LocateErr
	}
	if err := ctx.Err(); err != nil {
		return domain.Coordinates{}, err
	}
	return m.Coords, nil
}

// ReverseGeocode возвращает заранее настроенный адрес или ошибку и считает вызовы.
func (m *MockGeocoder) ReverseGeocode(ctx context.Context, coords domain.Coordinates) (string, error) {
	m.ReverseCalls++
	if m.ReverseErr != nil {
		return "", m.ReverseErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.Address, nil
}

var _ domain.Geocoder = (*MockGeocoder)(nil)
