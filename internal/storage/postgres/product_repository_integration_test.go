package postgres

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func TestProductRepository_PostgresCRUD(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	bread := domain.Product{
		ID:          "p-bread",
		Name:        "Roti Tawar",
		Description: "Хлеб для тостов",
		Price:       15000,
		Image:       "https://cdn.example.com/roti-tawar.jpg",
		Category:    domain.CategoryBread,
		Available:   true,
	}
	cake := domain.Product{
		ID:        "p-cake",
		Name:      "Tiramisu Cake",
		Price:     85000,
		Category:  domain.CategoryCake,
		Available: true,
	}

	if err := repo.Create(bread); err != nil {
		t.Fatalf("create bread: %v", err)
	}
	if err := repo.Create(cake); err != nil {
		t.Fatalf("create cake: %v", err)
	}

	got, err := repo.Get(bread.ID)
	if err != nil {
		t.Fatalf("get bread: %v", err)
	}
	if got != bread {
		t.Fatalf("unexpected product after round trip: %+v", got)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}

	bread.Price = 17000
	bread.Available = false
	if err := repo.Update(bread); err != nil {
		t.Fatalf("update bread: %v", err)
	}
	updated, err := repo.Get(bread.ID)
	if err != nil {
		t.Fatalf("get updated bread: %v", err)
	}
	if updated.Price != 17000 || updated.Available {
		t.Fatalf("unexpected product after update: %+v", updated)
	}

	if err := repo.Delete(cake.ID); err != nil {
		t.Fatalf("delete cake: %v", err)
	}
	if _, err := repo.Get(cake.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound after delete, got %v", err)
	}
}

func TestProductRepository_PostgresErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	base := domain.Product{
		ID:        "p-dup",
		Name:      "Croissant",
		Price:     12000,
		Category:  domain.CategoryBread,
		Available: true,
	}
	if err := repo.Create(base); err != nil {
		t.Fatalf("create base product: %v", err)
	}

	if err := repo.Create(base); !errors.Is(err, domain.ErrProductExists) {
		t.Fatalf("expected ErrProductExists on duplicate create, got %v", err)
	}
	if _, err := repo.Get("missing-product"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.Update(domain.Product{ID: "missing-product", Name: "x", Price: 1, Category: domain.CategoryBread}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on update missing, got %v", err)
	}
	if err := repo.Delete("missing-product"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound on delete missing, got %v", err)
	}
}
