package probability

import (
	"math"
	"testing"

	"github.com/bcdannyboy/sdequant/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func call(strike float64) PathPayoff {
	return Terminal(func(x float64) float64 { return math.Max(x-strike, 0) })
}

func gbm(t testing.TB) *models.GeometricBrownianMotion {
	p, err := models.NewGeometricBrownianMotion(0.05, 0.2)
	require.NoError(t, err)
	return p
}

func TestPriceSingleStepEulerCall(t *testing.T) {
	// One Euler step gives S_T = S0 (1 + r + sigma Z), so the exact price is
	// e^-r E[(5 + 20 Z)^+].
	n := distuv.UnitNormal
	want := math.Exp(-0.05) * (5*n.CDF(0.25) + 20*n.Prob(0.25))

	pricer := NewMonteCarloPricer(models.NewEngine())
	cfg := models.NewSimulationConfig(100, 0, 1, 1, 1_000_000, true).WithSeed(1)
	est, err := pricer.Price(gbm(t), cfg, 0.05, call(100))
	require.NoError(t, err)

	se, ok := est.Error()
	require.True(t, ok)
	assert.InDelta(t, want, est.Price(), 3*se)
	assert.Equal(t, 1_000_000, est.NumSimulations())
}

func TestPriceConvergesToBlackScholes(t *testing.T) {
	pricer := NewMonteCarloPricer(models.NewEngine())
	cfg := models.NewSimulationConfig(100, 0, 1, 100, 100_000, true).WithSeed(2)

	est, err := pricer.Price(gbm(t), cfg, 0.05, call(100))
	require.NoError(t, err)

	se, ok := est.Error()
	require.True(t, ok)
	assert.InDelta(t, 10.4506, est.Price(), 3*se)
}

func TestErrorHalvesWhenSimulationsQuadruple(t *testing.T) {
	pricer := NewMonteCarloPricer(models.NewEngine())
	p := gbm(t)

	var ratios []float64
	for seed := uint64(0); seed < 4; seed++ {
		small, err := pricer.Price(p, models.NewSimulationConfig(100, 0, 1, 1, 20_000, true).WithSeed(seed), 0.05, call(100))
		require.NoError(t, err)
		large, err := pricer.Price(p, models.NewSimulationConfig(100, 0, 1, 1, 80_000, true).WithSeed(seed+100), 0.05, call(100))
		require.NoError(t, err)

		a, _ := small.Error()
		b, _ := large.Error()
		ratios = append(ratios, a/b)
	}
	mean := 0.0
	for _, r := range ratios {
		mean += r
	}
	mean /= float64(len(ratios))
	assert.InDelta(t, 2.0, mean, 0.1)
}

func TestSingleSimulationHasNoError(t *testing.T) {
	pricer := NewMonteCarloPricer(nil)
	est, err := pricer.Price(gbm(t), models.NewSimulationConfig(100, 0, 1, 4, 1, false), 0.05, call(100))
	require.NoError(t, err)

	_, ok := est.Error()
	assert.False(t, ok)
	lo, hi := est.ConfidenceInterval(1.96)
	assert.Equal(t, est.Price(), lo)
	assert.Equal(t, est.Price(), hi)
}

func TestPriceTrajectoriesDiscountsOverHorizon(t *testing.T) {
	abm, err := models.NewArithmeticBrownianMotion(0, 0)
	require.NoError(t, err)
	// Deterministic paths shifted in time: discounting uses end - start.
	tr, err := models.EulerMaruyama(abm, models.NewSimulationConfig(7, 2, 4, 3, 5, false))
	require.NoError(t, err)

	est, err := NewMonteCarloPricer(nil).PriceTrajectories(tr, 0.1, PathPayoffFunc(func(path []float64) float64 {
		return path[len(path)-1]
	}))
	require.NoError(t, err)

	assert.InDelta(t, 7*math.Exp(-0.2), est.Price(), 1e-12)
	se, ok := est.Error()
	assert.True(t, ok)
	assert.InDelta(t, 0, se, 1e-12)
	assert.Len(t, est.Discounted(), 5)
}

func TestPriceTrajectoriesRejectsNonFinitePayoff(t *testing.T) {
	abm, err := models.NewArithmeticBrownianMotion(0, 0)
	require.NoError(t, err)
	tr, err := models.EulerMaruyama(abm, models.NewSimulationConfig(-1, 0, 1, 2, 4, false))
	require.NoError(t, err)

	est, err := NewMonteCarloPricer(nil).PriceTrajectories(tr, 0.05, PathPayoffFunc(func(path []float64) float64 {
		return math.Log(path[len(path)-1])
	}))
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.ErrorContains(t, err, "path 0")
	assert.Nil(t, est)
}

func TestPriceRejectsInvalidInput(t *testing.T) {
	pricer := NewMonteCarloPricer(nil)
	cfg := models.NewSimulationConfig(100, 0, 1, 4, 10, false)

	est, err := pricer.Price(gbm(t), cfg, 0.05, nil)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.Nil(t, est)

	est, err = pricer.Price(gbm(t), cfg, math.NaN(), call(100))
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
	assert.Nil(t, est)

	bad := models.NewSimulationConfig(100, 1, 0, 4, 10, false)
	est, err = pricer.Price(gbm(t), bad, 0.05, call(100))
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
	assert.Nil(t, est)
}

func TestPriceRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("test")
	require.NoError(t, m.Register(reg))

	pricer := NewMonteCarloPricer(models.NewEngine())
	pricer.Metrics = m
	for i := 0; i < 2; i++ {
		_, err := pricer.Price(gbm(t), models.NewSimulationConfig(100, 0, 1, 2, 50, false), 0.05, call(100))
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PricingsTotal))
	assert.Equal(t, 100.0, testutil.ToFloat64(m.PathsTotal))
	assert.Error(t, m.Register(reg))
}
