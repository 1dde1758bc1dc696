package scoring

import "testing"

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		student []string
		correct []string
		want    int
	}{
		{
			name:    "perfect",
			student: []string{"A", "B", "C", "D"},
			correct: []string{"A", "B", "C", "D"},
			want:    4,
		},
		{
			name:    "case insensitive with whitespace",
			student: []string{" a ", "b", "C"},
			correct: []string{"A", "B", "c"},
			want:    3,
		},
		{
			name:    "empty answers are incorrect",
			student: []string{"", "B", ""},
			correct: []string{"A", "B", "C"},
			want:    1,
		},
		{
			name:    "multi-marks are incorrect",
			student: []string{"A,C", "B"},
			correct: []string{"A", "B"},
			want:    1,
		},
		{
			name:    "short student slice grades remaining as wrong",
			student: []string{"A"},
			correct: []string{"A", "B", "C"},
			want:    1,
		},
		{
			name:    "extra student answers beyond the key are ignored",
			student: []string{"A", "B", "C", "D"},
			correct: []string{"A", "B"},
			want:    2,
		},
		{
			name:    "empty key",
			student: []string{"A"},
			correct: nil,
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Score(tt.student, tt.correct); got != tt.want {
				t.Errorf("Score() = %d, want %d", got, tt.want)
			}
		})
	}
}
