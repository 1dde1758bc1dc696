package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jalan-exam/scanserver/internal/models"
)

type StudentRepository struct {
	db *DB
}

func NewStudentRepository(db *DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Upsert inserts or replaces a roster entry keyed by student number.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (student_number, username) VALUES (?, ?)
		ON CONFLICT(student_number) DO UPDATE SET username = excluded.username`
	if r.db.dbType == "postgres" {
		query = `
		INSERT INTO students (student_number, username) VALUES ($1, $2)
		ON CONFLICT (student_number) DO UPDATE SET username = EXCLUDED.username`
	}

	if _, err := r.db.conn.ExecContext(ctx, query, student.StudentNumber, student.Username); err != nil {
		return fmt.Errorf("failed to upsert student: %w", err)
	}
	return nil
}

func (r *StudentRepository) GetByNumber(ctx context.Context, studentNumber string) (*models.Student, error) {
	query := "SELECT student_number, username FROM students WHERE student_number = ?"
	if r.db.dbType == "postgres" {
		query = "SELECT student_number, username FROM students WHERE student_number = $1"
	}

	student := &models.Student{}
	err := r.db.conn.QueryRowContext(ctx, query, studentNumber).Scan(&student.StudentNumber, &student.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %s: %w", studentNumber, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return student, nil
}

func (r *StudentRepository) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.conn.QueryContext(ctx, "SELECT student_number, username FROM students ORDER BY student_number")
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student := &models.Student{}
		if err := rows.Scan(&student.StudentNumber, &student.Username); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, student)
	}
	return students, rows.Err()
}
