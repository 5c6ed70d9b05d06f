package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
)

func TestProfileRepository_PostgresCreateGetAndList(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProfileRepository(store)

	now := time.Now().UTC().Round(time.Microsecond)
	admin := domain.Profile{
		ID:        "profile-admin",
		Email:     "admin@bakery.test",
		FullName:  "Siti Rahayu",
		Role:      domain.RoleAdmin,
		CreatedAt: now.Add(-time.Minute),
	}
	user := domain.Profile{
		ID:        "profile-user",
		Email:     "budi@example.com",
		Role:      domain.RoleUser,
		CreatedAt: now,
	}

	if err := repo.Create(admin); err != nil {
		t.Fatalf("create admin profile: %v", err)
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("create user profile: %v", err)
	}

	got, err := repo.Get(admin.ID)
	if err != nil {
		t.Fatalf("get admin profile: %v", err)
	}
	if got.Email != admin.Email || got.Role != domain.RoleAdmin || got.FullName != admin.FullName {
		t.Fatalf("unexpected profile payload: %+v", got)
	}

	// Email lookup is case-insensitive: stored lowercased, queried lowercased.
	byEmail, err := repo.GetByEmail("  BUDI@Example.com ")
	if err != nil {
		t.Fatalf("get profile by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("unexpected profile by email: %+v", byEmail)
	}

	all, err := repo.List()
	if err != nil {
		t.Fatalf("list profiles: %v", err)
	}
	if len(all) != 2 || all[0].ID != admin.ID {
		t.Fatalf("expected 2 profiles ordered by created_at, got %+v", all)
	}
}

func TestProfileRepository_PostgresErrors(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProfileRepository(store)

	base := domain.Profile{
		ID:        "profile-dup",
		Email:     "dup@example.com",
		Role:      domain.RoleUser,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(base); err != nil {
		t.Fatalf("create base profile: %v", err)
	}

	clone := base
	clone.ID = "profile-dup-2"
	clone.Email = "DUP@example.com"
	if err := repo.Create(clone); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken on duplicate email, got %v", err)
	}

	if _, err := repo.Get("missing-profile"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if _, err := repo.GetByEmail("missing@example.com"); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound by email, got %v", err)
	}
}
