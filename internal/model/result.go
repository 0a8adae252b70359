package model

// AnalysisResult is the pipeline's output for one CUSIP query. Constructed
// once per request and never mutated after return; each caller owns its own
// instance.
type AnalysisResult struct {
	CUSIP          string                    `json:"cusip"`
	Attributes     map[string]AttributeValue `json:"attributes,omitempty"`
	WAMYears       *float64                  `json:"wam_years,omitempty"`
	WAMMonths      *float64                  `json:"wam_months,omitempty"`
	TotalPrincipal *float64                  `json:"total_principal,omitempty"`
	MaturityCount  int                       `json:"maturity_count"`
	Maturities     []MaturityPoint           `json:"maturities,omitempty"`
	Sources        []string                  `json:"sources,omitempty"`
	RawResponse    string                    `json:"raw_response,omitempty"`
	Error          string                    `json:"error,omitempty"`
	Metadata       map[string]any            `json:"metadata,omitempty"`
}

// FinalizeDerived fills in the derived fields: WAMMonths from WAMYears when
// not independently supplied, and MaturityCount from the maturity list.
func (r *AnalysisResult) FinalizeDerived() {
	if r.WAMMonths == nil && r.WAMYears != nil {
		months := *r.WAMYears * 12
		r.WAMMonths = &months
	}
	r.MaturityCount = len(r.Maturities)
}

// IsSuccess reports whether the analysis produced usable data: at least one
// attribute was extracted and no error was recorded.
func (r *AnalysisResult) IsSuccess() bool {
	return len(r.Attributes) > 0 && r.Error == ""
}

// ErrorResult builds a failed result carrying a human-readable message.
func ErrorResult(cusip, msg string) AnalysisResult {
	return AnalysisResult{CUSIP: cusip, Error: msg}
}
