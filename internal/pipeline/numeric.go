package pipeline

import (
	"strconv"
	"strings"
)

// parseFloat converts a reported value to a float, tolerating the formatting
// noise financial sources carry: thousands separators, currency symbols, and
// percent signs are stripped before conversion. Non-numeric or empty input
// yields nil, never an error.
func parseFloat(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case string:
		s := strings.NewReplacer(",", "", "$", "", "%", "").Replace(strings.TrimSpace(n))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
