package pipeline

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/cusip-cli/internal/model"
)

func mat(t *testing.T, years, principal *float64) model.MaturityPoint {
	t.Helper()
	p, err := model.NewMaturityPoint("912828Z29", "", years, principal, "")
	require.NoError(t, err)
	return p
}

func fp(f float64) *float64 { return &f }

func TestComputeWAM_TwoMaturities(t *testing.T) {
	maturities := []model.MaturityPoint{
		mat(t, fp(5), fp(1000000)),
		mat(t, fp(10), fp(2000000)),
	}
	wam := ComputeWAM(maturities)
	require.NotNil(t, wam)
	assert.InDelta(t, 25.0/3.0, *wam, 1e-9)
}

func TestComputeWAM_Empty(t *testing.T) {
	assert.Nil(t, ComputeWAM(nil))
	assert.Nil(t, ComputeWAM([]model.MaturityPoint{}))
}

func TestComputeWAM_AllPrincipalMissing(t *testing.T) {
	maturities := []model.MaturityPoint{
		mat(t, fp(5), nil),
		mat(t, fp(10), nil),
	}
	assert.Nil(t, ComputeWAM(maturities))
}

func TestComputeWAM_ZeroPrincipal(t *testing.T) {
	assert.Nil(t, ComputeWAM([]model.MaturityPoint{mat(t, fp(5), fp(0))}))
}

func TestComputeWAM_IncompletePointExcludedFromBothSums(t *testing.T) {
	maturities := []model.MaturityPoint{
		mat(t, fp(5), fp(1000)),
		mat(t, nil, fp(9999999)), // missing years: contributes to neither sum
		mat(t, fp(30), nil),      // missing principal: contributes to neither sum
	}
	wam := ComputeWAM(maturities)
	require.NotNil(t, wam)
	assert.InDelta(t, 5.0, *wam, 1e-9)
}

func TestComputeWAM_MatchesArithmeticDefinition(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.IntN(8)
		var maturities []model.MaturityPoint
		var weighted, principal float64
		for i := 0; i < n; i++ {
			years := 0.5 + rng.Float64()*30
			amount := 1000 + rng.Float64()*1e7
			weighted += years * amount
			principal += amount
			maturities = append(maturities, mat(t, fp(years), fp(amount)))
		}
		wam := ComputeWAM(maturities)
		require.NotNil(t, wam)
		assert.InDelta(t, weighted/principal, *wam, 1e-9)
	}
}

func TestSumPrincipal(t *testing.T) {
	maturities := []model.MaturityPoint{
		mat(t, fp(5), fp(1000)),
		mat(t, nil, fp(500)),
		mat(t, fp(2), nil),
	}
	assert.InDelta(t, 1500.0, sumPrincipal(maturities), 1e-9)
}
