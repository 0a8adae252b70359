package pipeline

import "github.com/sells-group/cusip-cli/internal/model"

// ComputeWAM returns the principal-weighted average maturity in years:
//
//	WAM = Σ(years_i × principal_i) / Σ(principal_i)
//
// summed over maturities where both fields are present. A point missing
// either value contributes to neither sum. Returns nil when no point
// qualifies or the principal sum is zero.
func ComputeWAM(maturities []model.MaturityPoint) *float64 {
	var weighted, principal float64
	for _, m := range maturities {
		if m.YearsToMaturity == nil || m.PrincipalAmount == nil {
			continue
		}
		weighted += *m.YearsToMaturity * *m.PrincipalAmount
		principal += *m.PrincipalAmount
	}
	if principal <= 0 {
		return nil
	}
	wam := weighted / principal
	return &wam
}

// sumPrincipal totals the non-nil principal amounts across maturities.
func sumPrincipal(maturities []model.MaturityPoint) float64 {
	var total float64
	for _, m := range maturities {
		if m.PrincipalAmount != nil {
			total += *m.PrincipalAmount
		}
	}
	return total
}
