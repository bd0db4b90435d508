package config

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestDistance is the largest edit distance still offered as a typo fix.
const maxSuggestDistance = 2

// suggest returns a ` (did you mean "x"?)` hint naming the closest option to
// value, or an empty string when nothing is close enough.
func suggest(value string, options ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}

	best, bestDistance := "", maxSuggestDistance+1

	for _, option := range options {
		if d := levenshtein.ComputeDistance(value, option); d < bestDistance {
			best, bestDistance = option, d
		}
	}

	if best == "" {
		return ""
	}

	return fmt.Sprintf(" (did you mean %q?)", best)
}
