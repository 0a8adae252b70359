package pipeline

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// ExtractJSON locates and parses a JSON object embedded in model output.
// It takes the span from the first '{' to the last '}', strips any markdown
// code fences wrapping it, and attempts to parse. The greedy span is
// deliberate leniency for JSON wrapped in prose; when it fails to parse
// (usually because unrelated braces follow the object), the first balanced
// brace object is tried instead. Returns nil when no object can be
// recovered. Malformed JSON is an expected case, never an error.
func ExtractJSON(text string) map[string]any {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil
	}

	span := stripFences(text[start : end+1])

	var parsed map[string]any
	err := json.Unmarshal([]byte(span), &parsed)
	if err == nil {
		return parsed
	}
	zap.L().Debug("pipeline: greedy json span failed to parse", zap.Error(err))

	// Retry on the first balanced object only.
	balanced := balancedSpan(text[start:])
	if balanced == "" || balanced == span {
		return nil
	}
	if err := json.Unmarshal([]byte(stripFences(balanced)), &parsed); err != nil {
		zap.L().Debug("pipeline: balanced json span failed to parse", zap.Error(err))
		return nil
	}
	return parsed
}

// stripFences removes ```json / ``` markers that models wrap around JSON.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// balancedSpan returns the substring from the leading '{' to its matching
// close brace, honoring strings and escapes. Returns "" if the braces never
// balance.
func balancedSpan(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[:i+1]
				}
			}
		}
	}
	return ""
}
