package geo

import (
	"context"
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func TestMockGeocoder_Locate(t *testing.T) {
	m := NewMockGeocoder()

	coords, err := m.Locate(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if coords.Latitude == 0 || coords.Longitude == 0 {
		t.Error("expected non-zero default coordinates")
	}
	if m.LocateCalls != 1 {
		t.Errorf("expected 1 call, got %d", m.LocateCalls)
	}
}

func TestMockGeocoder_LocateError(t *testing.T) {
	m := NewMockGeocoder()
	m.LocateErr = domain.ErrGeoUnavailable

	_, err := m.Locate(context.Background())
	if !errors.Is(err, domain.ErrGeoUnavailable) {
		t.Errorf("expected ErrGeoUnavailable, got %v", err)
	}
}

func TestMockGeocoder_CanceledContext(t *testing.T) {
	m := NewMockGeocoder()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Locate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := m.ReverseGeocode(ctx, m.Coords); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMockGeocoder_ReverseGeocode(t *testing.T) {
	m := NewMockGeocoder()

	addr, err := m.ReverseGeocode(context.Background(), m.Coords)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if addr == "" {
		t.Error("expected non-empty address")
	}
	if m.ReverseCalls != 1 {
		t.Errorf("expected 1 call, got %d", m.ReverseCalls)
	}
}
