package pipeline

import (
	"os"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/cusip-cli/internal/model"
)

// AttributePattern is one entry in the text-fallback grammar: a label
// alternation followed by a capturing group for the value.
type AttributePattern struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	re *regexp.Regexp
}

// FallbackPatterns is the default pattern table for pulling attributes out of
// unstructured prose when no JSON can be recovered. Order is the application
// order; the first match in the text wins per attribute.
var FallbackPatterns = compilePatterns([]AttributePattern{
	{Name: "maturity_date", Pattern: `(?:maturity date|matures on)[\s:]+(\d{4}-\d{2}-\d{2}|\w+ \d{1,2},? \d{4})`},
	{Name: "coupon_rate", Pattern: `(?:coupon rate|coupon)[\s:]+(\d+\.?\d*%)`},
	{Name: "yield", Pattern: `(?:yield|ytm)[\s:]+(\d+\.?\d*%)`},
	{Name: "credit_rating", Pattern: `(?:credit rating|rating)[\s:]+([A-Z][A-Za-z0-9+\-]+)`},
	{Name: "issuer", Pattern: `(?:issuer|issued by)[\s:]+([A-Z][A-Za-z0-9\s,\.]+?)(?:\.|,|\n|$)`},
	{Name: "par_value", Pattern: `(?:par value|face value)[\s:]+\$?([\d,]+\.?\d*)`},
})

func compilePatterns(patterns []AttributePattern) []AttributePattern {
	for i := range patterns {
		patterns[i].re = regexp.MustCompile(`(?i)` + patterns[i].Pattern)
	}
	return patterns
}

// LoadPatternOverrides reads a YAML pattern file and merges it over the
// default table: same-name entries replace the default, new names append.
// The file holds a list of {name, pattern} entries.
func LoadPatternOverrides(path string) ([]AttributePattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read pattern file")
	}
	var overrides []AttributePattern
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrap(err, "pipeline: parse pattern file")
	}

	merged := make([]AttributePattern, len(FallbackPatterns))
	copy(merged, FallbackPatterns)
	for _, o := range overrides {
		re, err := regexp.Compile(`(?i)` + o.Pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "pipeline: pattern %q", o.Name)
		}
		o.re = re
		replaced := false
		for i := range merged {
			if merged[i].Name == o.Name {
				merged[i] = o
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, o)
		}
	}
	return merged, nil
}

// extractFromText applies the pattern table to raw response text. Attributes
// with no match are simply absent from the result; this path never fails.
func extractFromText(text string, patterns []AttributePattern) map[string]model.AttributeValue {
	attributes := make(map[string]model.AttributeValue)
	for _, p := range patterns {
		match := p.re.FindStringSubmatch(text)
		if len(match) < 2 {
			continue
		}
		attributes[p.Name] = model.AttributeValue{Value: strings.TrimSpace(match[1])}
	}
	if len(attributes) > 0 {
		zap.L().Debug("pipeline: text fallback extracted attributes",
			zap.Int("count", len(attributes)))
	}
	return attributes
}
