package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanResult is one graded page of an uploaded sheet batch. StudentNumber
// holds the decoded identifier, or an UNKNOWN label assigned at scan time
// when the ID block could not be read.
type ScanResult struct {
	ID             string    `json:"id"`
	AnswerKeyID    string    `json:"answer_key_id"`
	StudentNumber  string    `json:"student_number"`
	Username       string    `json:"username"`
	Answers        []string  `json:"answers"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	Page           int       `json:"page"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewScanResult(answerKeyID, studentNumber, username string, answers []string, score, totalQuestions, page int) *ScanResult {
	return &ScanResult{
		ID:             uuid.New().String(),
		AnswerKeyID:    answerKeyID,
		StudentNumber:  studentNumber,
		Username:       username,
		Answers:        answers,
		Score:          score,
		TotalQuestions: totalQuestions,
		Page:           page,
		CreatedAt:      time.Now(),
	}
}
