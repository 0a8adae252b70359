package model

import "github.com/rotisserie/eris"

// MaturityPoint is a single maturity/principal pair extracted for a CUSIP.
// Points are owned by the AnalysisResult that created them and are not
// mutated after construction. MaturityDate is kept as free-form text; the
// upstream sources report dates in too many shapes to parse reliably.
type MaturityPoint struct {
	CUSIP           string   `json:"cusip"`
	MaturityDate    string   `json:"maturity_date,omitempty"`
	YearsToMaturity *float64 `json:"years_to_maturity,omitempty"`
	PrincipalAmount *float64 `json:"principal_amount,omitempty"`
	Source          string   `json:"source,omitempty"`
}

// NewMaturityPoint constructs a MaturityPoint. The CUSIP is required;
// everything else is optional.
func NewMaturityPoint(cusip, date string, years, principal *float64, source string) (MaturityPoint, error) {
	if cusip == "" {
		return MaturityPoint{}, eris.New("model: maturity point requires a cusip")
	}
	return MaturityPoint{
		CUSIP:           cusip,
		MaturityDate:    date,
		YearsToMaturity: years,
		PrincipalAmount: principal,
		Source:          source,
	}, nil
}
