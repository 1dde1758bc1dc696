package scanning

import (
	"fmt"
	"regexp"
	"strconv"
)

var unknownPattern = regexp.MustCompile(`^UNKNOWN( (\d+))?$`)

// nextUnknownSuffix picks the first unused UNKNOWN suffix given the labels
// already stored for an exam. The bare "UNKNOWN" label counts as suffix 0.
func nextUnknownSuffix(existing []string) int {
	next := 0
	for _, number := range existing {
		m := unknownPattern.FindStringSubmatch(number)
		if m == nil {
			continue
		}
		if m[2] == "" {
			if next < 1 {
				next = 1
			}
			continue
		}
		if v, err := strconv.Atoi(m[2]); err == nil && v+1 > next {
			next = v + 1
		}
	}
	return next
}

func unknownLabel(suffix int) string {
	if suffix == 0 {
		return "UNKNOWN"
	}
	return fmt.Sprintf("UNKNOWN %d", suffix)
}
