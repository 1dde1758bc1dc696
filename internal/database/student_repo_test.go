package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jalan-exam/scanserver/internal/models"
)

func TestStudentRepository_UpsertAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	student := &models.Student{StudentNumber: "20250001234", Username: "jdelacruz"}
	if err := repo.Upsert(ctx, student); err != nil {
		t.Fatalf("Failed to upsert student: %v", err)
	}

	got, err := repo.GetByNumber(ctx, "20250001234")
	if err != nil {
		t.Fatalf("Failed to get student: %v", err)
	}
	if got.Username != "jdelacruz" {
		t.Errorf("Expected username jdelacruz, got %s", got.Username)
	}

	// Upserting the same number replaces the username instead of failing.
	student.Username = "juandelacruz"
	if err := repo.Upsert(ctx, student); err != nil {
		t.Fatalf("Failed to re-upsert student: %v", err)
	}
	got, _ = repo.GetByNumber(ctx, "20250001234")
	if got.Username != "juandelacruz" {
		t.Errorf("Expected updated username, got %s", got.Username)
	}

	students, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("Failed to list students: %v", err)
	}
	if len(students) != 1 {
		t.Errorf("Expected 1 student, got %d", len(students))
	}
}

func TestStudentRepository_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStudentRepository(db)

	_, err := repo.GetByNumber(context.Background(), "00000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
