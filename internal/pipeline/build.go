package pipeline

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/cusip-cli/internal/model"
)

// buildResultFromJSON maps a parsed response object into an AnalysisResult.
// Missing optional keys are fine; it fails only when "attributes" is present
// but not a mapping, which the caller routes to the text fallback.
func buildResultFromJSON(cusip string, parsed map[string]any, sources []string, rawResponse string) (model.AnalysisResult, error) {
	attributes := make(map[string]model.AttributeValue)
	if rawAttrs, ok := parsed["attributes"]; ok {
		attrMap, ok := rawAttrs.(map[string]any)
		if !ok {
			return model.AnalysisResult{}, eris.New("pipeline: response attributes is not a mapping")
		}
		for name, raw := range attrMap {
			attributes[name] = model.NormalizeAttribute(raw)
		}
	}

	var maturities []model.MaturityPoint
	if rawList, ok := parsed["maturities"].([]any); ok {
		for _, raw := range rawList {
			entry, ok := raw.(map[string]any)
			if !ok {
				zap.L().Warn("pipeline: skipping malformed maturity entry",
					zap.String("cusip", cusip))
				continue
			}
			date, _ := entry["date"].(string)
			source, _ := entry["source"].(string)
			point, err := model.NewMaturityPoint(cusip, date,
				parseFloat(entry["years_to_maturity"]),
				parseFloat(entry["principal_amount"]),
				source)
			if err != nil {
				zap.L().Warn("pipeline: skipping malformed maturity entry",
					zap.String("cusip", cusip), zap.Error(err))
				continue
			}
			maturities = append(maturities, point)
		}
	}

	// WAM resolution: a reported calculated_wam_years wins; otherwise compute
	// from the maturity list. A reported value of exactly 0 is treated as
	// absent and recomputed, matching the original system's behavior.
	wamYears := parseFloat(parsed["calculated_wam_years"])
	if (wamYears == nil || *wamYears == 0) && len(maturities) > 0 {
		wamYears = ComputeWAM(maturities)
	}

	var totalPrincipal *float64
	if wamYears != nil && *wamYears != 0 {
		total := sumPrincipal(maturities)
		totalPrincipal = &total
	}

	result := model.AnalysisResult{
		CUSIP:          cusip,
		Attributes:     attributes,
		WAMYears:       wamYears,
		TotalPrincipal: totalPrincipal,
		Maturities:     maturities,
		Sources:        mergeSources(sources, parsed["sources"]),
		RawResponse:    rawResponse,
		Metadata:       map[string]any{"parsing_method": "json"},
	}
	result.FinalizeDerived()
	return result, nil
}

// mergeSources unions the collaborator's citations with any sources array in
// the parsed JSON, deduplicated and sorted for stable output.
func mergeSources(sources []string, rawJSONSources any) []string {
	seen := make(map[string]bool, len(sources))
	for _, s := range sources {
		if s != "" {
			seen[s] = true
		}
	}
	if list, ok := rawJSONSources.([]any); ok {
		for _, raw := range list {
			if s, ok := raw.(string); ok && s != "" {
				seen[s] = true
			}
		}
	}
	if len(seen) == 0 {
		return nil
	}
	merged := make([]string, 0, len(seen))
	for s := range seen {
		merged = append(merged, s)
	}
	sort.Strings(merged)
	return merged
}
