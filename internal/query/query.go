// Package query implements the upstream collaborator of the analysis
// pipeline: it builds the lookup prompt for a CUSIP, optionally pre-fetches
// web search results, calls the configured LLM provider, and returns the raw
// response text with its citation sources.
package query

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/cusip-cli/internal/model"
)

// Service looks up financial attributes for a CUSIP and returns the
// provider's raw reply. Implementations must be safe for concurrent use.
type Service interface {
	Query(ctx context.Context, cusip string, attributes []string, trace func(string)) (*Response, error)
}

// Response is the provider's reply: opaque natural-language/JSON-mixed text
// plus pre-vetted citation URLs.
type Response struct {
	Text    string
	Sources []string
}

// defaultAttributes is requested when the caller does not name any.
var defaultAttributes = []string{
	"maturity date",
	"weighted average maturity (WAM)",
	"coupon rate",
	"yield",
	"credit rating",
	"issuer name",
	"security type",
	"par value",
}

// prepare normalizes the query inputs shared by all providers.
func prepare(cusip string, attributes []string) (string, []string, error) {
	c := model.FormatCUSIP(cusip)
	if c == "" {
		return "", nil, eris.New("query: valid cusip is required")
	}
	if len(attributes) == 0 {
		attributes = defaultAttributes
	}
	return c, attributes, nil
}

// mergeSources unions two source lists preserving first-seen order.
func mergeSources(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var merged []string
	for _, s := range append(append([]string{}, a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		merged = append(merged, s)
	}
	return merged
}
