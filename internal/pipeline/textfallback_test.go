package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromText_Prose(t *testing.T) {
	text := `The bond CUSIP 912828Z29 was issued by US Treasury. ` +
		`Coupon Rate: 4.5% with a maturity date 2030-12-15. ` +
		`Yield: 4.7%. Credit rating: AA+ from S&P. Par value: $5,000 per bond.`

	attrs := extractFromText(text, FallbackPatterns)

	assert.Equal(t, "4.5%", attrs["coupon_rate"].Value)
	assert.Equal(t, "2030-12-15", attrs["maturity_date"].Value)
	assert.Equal(t, "4.7%", attrs["yield"].Value)
	assert.Equal(t, "AA+", attrs["credit_rating"].Value)
	assert.Equal(t, "US Treasury", attrs["issuer"].Value)
	assert.Equal(t, "5,000", attrs["par_value"].Value)
}

func TestExtractFromText_CaseInsensitive(t *testing.T) {
	attrs := extractFromText("COUPON RATE: 3.25%", FallbackPatterns)
	assert.Equal(t, "3.25%", attrs["coupon_rate"].Value)
}

func TestExtractFromText_NoMatchesAbsent(t *testing.T) {
	attrs := extractFromText("nothing useful in this reply", FallbackPatterns)
	assert.Empty(t, attrs)
	assert.NotContains(t, attrs, "coupon_rate")
}

func TestExtractFromText_FirstMatchWins(t *testing.T) {
	attrs := extractFromText("coupon: 2.0% and later coupon: 9.9%", FallbackPatterns)
	assert.Equal(t, "2.0%", attrs["coupon_rate"].Value)
}

func TestLoadPatternOverrides_ReplaceAndAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	content := `
- name: coupon_rate
  pattern: 'interest rate[\s:]+(\d+\.?\d*%)'
- name: call_date
  pattern: 'callable on[\s:]+(\d{4}-\d{2}-\d{2})'
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	patterns, err := LoadPatternOverrides(path)
	require.NoError(t, err)
	assert.Len(t, patterns, len(FallbackPatterns)+1)

	attrs := extractFromText("Interest Rate: 6.1%. Callable on 2028-01-01.", patterns)
	assert.Equal(t, "6.1%", attrs["coupon_rate"].Value)
	assert.Equal(t, "2028-01-01", attrs["call_date"].Value)

	// The replaced entry no longer matches the default label.
	attrs = extractFromText("Coupon Rate: 4.5%", patterns)
	assert.NotContains(t, attrs, "coupon_rate")
}

func TestLoadPatternOverrides_MissingFile(t *testing.T) {
	_, err := LoadPatternOverrides(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadPatternOverrides_BadRegexp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- name: broken\n  pattern: '(['\n"), 0o644))
	_, err := LoadPatternOverrides(path)
	assert.Error(t, err)
}
