package models

import (
	"time"

	"github.com/google/uuid"
)

// Answer key lifecycle. Keys are created pending, become usable for
// scanning once approved, and are hidden from scanning when archived.
const (
	AnswerKeyPending  = "pending"
	AnswerKeyApproved = "approved"
	AnswerKeyArchived = "archived"
)

type AnswerKey struct {
	ID             string    `json:"id"`
	ExamCode       string    `json:"exam_code"`
	TeacherName    string    `json:"teacher_name"`
	Answers        []string  `json:"answers"`
	TotalQuestions int       `json:"total_questions"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewAnswerKey(examCode, teacherName string, answers []string) *AnswerKey {
	return &AnswerKey{
		ID:             uuid.New().String(),
		ExamCode:       examCode,
		TeacherName:    teacherName,
		Answers:        answers,
		TotalQuestions: len(answers),
		Status:         AnswerKeyPending,
		CreatedAt:      time.Now(),
	}
}

// Scannable reports whether sheets may be graded against this key.
func (k *AnswerKey) Scannable() bool {
	return k.Status == AnswerKeyApproved
}
