package model

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	cusipAlnum = regexp.MustCompile(`^[0-9A-Z]{9}$`)
	cusipShape = regexp.MustCompile(`^[0-9A-Z]{8}[0-9]$`)
)

// FormatCUSIP normalizes a CUSIP to its canonical uppercase form.
func FormatCUSIP(cusip string) string {
	return strings.ToUpper(strings.TrimSpace(cusip))
}

// ValidateCUSIP checks the 9-character CUSIP format: 8 alphanumeric
// characters followed by a check digit. It does not verify the check digit
// arithmetic.
func ValidateCUSIP(cusip string) error {
	c := FormatCUSIP(cusip)
	if c == "" {
		return eris.New("model: cusip cannot be empty")
	}
	if len(c) != 9 {
		return eris.Errorf("model: cusip must be 9 characters (got %d)", len(c))
	}
	if !cusipAlnum.MatchString(c) {
		return eris.New("model: cusip must contain only alphanumeric characters")
	}
	if !cusipShape.MatchString(c) {
		return eris.New("model: cusip must be 8 alphanumeric characters followed by 1 digit")
	}
	return nil
}
