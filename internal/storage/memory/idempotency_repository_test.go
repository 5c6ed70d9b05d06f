package memory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/bakery/internal/domain"
	"github.com/vladislavdragonenkov/bakery/internal/storage/memory"
)

func TestIdempotencyRepository_CreateAndReplay(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	ttl := time.Now().UTC().Add(time.Hour)

	record, err := repo.CreateProcessing("key-1", "hash-1", ttl)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if record.Status != domain.IdempotencyStatusProcessing {
		t.Fatalf("expected processing, got %s", record.Status)
	}

	// Повтор с тем же хэшем возвращает существующую запись.
	_, err = repo.CreateProcessing("key-1", "hash-1", ttl)
	if !errors.Is(err, domain.ErrIdempotencyKeyAlreadyExists) {
		t.Fatalf("expected ErrIdempotencyKeyAlreadyExists, got %v", err)
	}

	// Повтор с другим телом запроса — конфликт.
	_, err = repo.CreateProcessing("key-1", "hash-2", ttl)
	if !errors.Is(err, domain.ErrIdempotencyHashMismatch) {
		t.Fatalf("expected ErrIdempotencyHashMismatch, got %v", err)
	}
}

func TestIdempotencyRepository_MarkDone(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	if _, err := repo.CreateProcessing("key-1", "hash-1", time.Now().UTC().Add(time.Hour)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := repo.MarkDone("key-1", []byte(`{"id":"ORD-1"}`), 201); err != nil {
		t.Fatalf("mark done failed: %v", err)
	}

	record, err := repo.Get("key-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if record.Status != domain.IdempotencyStatusDone {
		t.Fatalf("expected done, got %s", record.Status)
	}
	if record.HTTPStatus != 201 {
		t.Fatalf("expected status 201, got %d", record.HTTPStatus)
	}
	if string(record.ResponseBody) != `{"id":"ORD-1"}` {
		t.Fatalf("unexpected response body: %s", record.ResponseBody)
	}
}

func TestIdempotencyRepository_DeleteExpired(t *testing.T) {
	repo := memory.NewIdempotencyRepository()
	now := time.Now().UTC()

	if _, err := repo.CreateProcessing("expired", "h", now.Add(-time.Minute)); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := repo.CreateProcessing("fresh", "h", now.Add(time.Hour)); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := repo.DeleteExpired(now, 100)
	if err != nil {
		t.Fatalf("delete expired failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}

	if _, err := repo.Get("fresh"); err != nil {
		t.Fatalf("fresh record must survive: %v", err)
	}
	if _, err := repo.Get("expired"); !errors.Is(err, domain.ErrIdempotencyKeyNotFound) {
		t.Fatalf("expected expired record removed, got %v", err)
	}
}
