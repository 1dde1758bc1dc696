// Package scoring grades decoded answer sheets against a stored answer key.
// Grading policy lives here, outside the decoder: the decoder reports what
// was marked (including multi-marks as comma-joined symbols) and this
// package decides what that is worth.
package scoring

import "strings"

// Score counts the questions where the student's answer matches the key.
// Comparison is case-insensitive and ignores surrounding whitespace. Empty
// answers, unreadable answers, and multi-marks (comma-joined, which can
// never equal a single-symbol key entry) all count as incorrect. The key's
// length decides how many questions are graded.
func Score(studentAnswers, correctAnswers []string) int {
	score := 0
	for i, correct := range correctAnswers {
		var student string
		if i < len(studentAnswers) {
			student = studentAnswers[i]
		}
		student = strings.ToUpper(strings.TrimSpace(student))
		correct = strings.ToUpper(strings.TrimSpace(correct))
		if student != "" && correct != "" && student == correct {
			score++
		}
	}
	return score
}
