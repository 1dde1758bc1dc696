package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jalan-exam/scanserver/internal/models"
)

func insertTestKey(t *testing.T, db *DB) *models.AnswerKey {
	t.Helper()
	repo := NewAnswerKeyRepository(db)
	key := models.NewAnswerKey("HIS303-FINAL", "Mr. Ocampo", []string{"A", "B", "C"})
	if err := repo.Insert(context.Background(), key); err != nil {
		t.Fatalf("Failed to insert answer key: %v", err)
	}
	return key
}

func TestScanResultRepository_InsertAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanResultRepository(db)
	ctx := context.Background()
	key := insertTestKey(t, db)

	result := models.NewScanResult(key.ID, "20250001234", "jdelacruz", []string{"A", "B", ""}, 2, 3, 1)
	if err := repo.Insert(ctx, result); err != nil {
		t.Fatalf("Failed to insert scan result: %v", err)
	}

	results, err := repo.ListByAnswerKey(ctx, key.ID)
	if err != nil {
		t.Fatalf("Failed to list scan results: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	got := results[0]
	if got.StudentNumber != "20250001234" || got.Score != 2 || got.Page != 1 {
		t.Errorf("Round-trip mismatch: %+v", got)
	}
	if len(got.Answers) != 3 || got.Answers[2] != "" {
		t.Errorf("Answers did not round-trip: %v", got.Answers)
	}
}

func TestScanResultRepository_ListUnknownNumbers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanResultRepository(db)
	ctx := context.Background()
	key := insertTestKey(t, db)

	for _, number := range []string{"UNKNOWN", "UNKNOWN 2", "20250009999"} {
		result := models.NewScanResult(key.ID, number, "", []string{"A", "", ""}, 1, 3, 1)
		if err := repo.Insert(ctx, result); err != nil {
			t.Fatalf("Failed to insert scan result: %v", err)
		}
	}

	unknowns, err := repo.ListUnknownNumbers(ctx, key.ID)
	if err != nil {
		t.Fatalf("Failed to list unknowns: %v", err)
	}
	if len(unknowns) != 2 {
		t.Errorf("Expected 2 unknown labels, got %v", unknowns)
	}
}

func TestScanResultRepository_UpdateStudent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanResultRepository(db)
	ctx := context.Background()
	key := insertTestKey(t, db)

	result := models.NewScanResult(key.ID, "UNKNOWN", "", []string{"A", "B", "C"}, 3, 3, 2)
	if err := repo.Insert(ctx, result); err != nil {
		t.Fatalf("Failed to insert scan result: %v", err)
	}

	if err := repo.UpdateStudent(ctx, result.ID, "20250005678", "msantos"); err != nil {
		t.Fatalf("Failed to update student: %v", err)
	}

	results, _ := repo.ListByAnswerKey(ctx, key.ID)
	if results[0].StudentNumber != "20250005678" || results[0].Username != "msantos" {
		t.Errorf("Student reassignment not persisted: %+v", results[0])
	}

	if err := repo.UpdateStudent(ctx, "missing", "1", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestScanResultRepository_CountByAnswerKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewScanResultRepository(db)
	ctx := context.Background()
	key := insertTestKey(t, db)

	count, err := repo.CountByAnswerKey(ctx, key.ID)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0, got %d", count)
	}

	for page := 1; page <= 3; page++ {
		result := models.NewScanResult(key.ID, "UNKNOWN", "", []string{}, 0, 3, page)
		if err := repo.Insert(ctx, result); err != nil {
			t.Fatalf("Failed to insert: %v", err)
		}
	}

	count, err = repo.CountByAnswerKey(ctx, key.ID)
	if err != nil {
		t.Fatalf("Failed to count: %v", err)
	}
	if count != 3 {
		t.Errorf("Expected 3, got %d", count)
	}
}
