package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcdannyboy/sdequant/models"
	"github.com/bcdannyboy/sdequant/positions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarios = `
scenarios:
  - name: bs-call
    process:
      kind: gbm
      params: {mu: 0.05, sigma: 0.2}
    simulation:
      initial_value: 100
      num_steps: 50
      num_simulations: 1000
      parallel: true
      seed: 7
    rate: 0.05
    valuation: 2024-01-01
    expiry: 2025-01-01
    day_count: ACT/360
    option: {style: european, type: call, strike: 100}
    analytic: {model: black_scholes_73, volatility: 0.2}
  - name: fcir-asian
    process:
      kind: fractional_cox_ingersoll_ross
      params: {kappa: 2, theta: 0.04, sigma: 0.1}
      hurst: 0.7
    simulation:
      initial_value: 0.04
      start_time: 0
      end_time: 2
      num_steps: 24
      num_simulations: 200
    curve: {beta0: 0.0806, beta1: -0.0031, beta2: -0.0625, lambda: 1.58}
    option: {style: asian, type: put, strike_flag: floating, averaging: geometric_continuous}
`

func TestParseScenarios(t *testing.T) {
	got, err := Parse([]byte(scenarios))
	require.NoError(t, err)
	require.Len(t, got, 2)

	bs := got[0]
	cfg, err := bs.SimulationConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.0, cfg.StartTime)
	assert.InDelta(t, 366.0/360.0, cfg.EndTime, 1e-12)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.True(t, cfg.Parallel)

	p, err := bs.Process.Build()
	require.NoError(t, err)
	assert.IsType(t, &models.GeometricBrownianMotion{}, p)

	payoff, err := bs.Payoff()
	require.NoError(t, err)
	assert.Equal(t, 10.0, payoff.PathPayoff([]float64{100, 110}))

	analytic, err := bs.AnalyticPricer()
	require.NoError(t, err)
	assert.InDelta(t, 366.0/360.0, analytic.TimeToMaturity(), 1e-12)

	fcir := got[1]
	p, err = fcir.Process.Build()
	require.NoError(t, err)
	fp, ok := p.(models.FractionalProcess)
	require.True(t, ok)
	assert.Equal(t, 0.7, fp.Hurst())

	r, err := fcir.DiscountRate()
	require.NoError(t, err)
	assert.InDelta(t, fcir.Curve.SpotRateAt(2), r, 1e-12)

	payoff, err = fcir.Payoff()
	require.NoError(t, err)
	asian, ok := payoff.(*positions.AsianOption)
	require.True(t, ok)
	assert.Equal(t, positions.GeometricContinuous, asian.Method)
	assert.Equal(t, positions.Floating, asian.StrikeFlag)
}

func TestParseRejectsInvalidScenarios(t *testing.T) {
	tests := map[string]string{
		"empty": `scenarios: []`,
		"unknown process": `
scenarios:
  - process: {kind: heston}
    simulation: {initial_value: 1, end_time: 1, num_steps: 1, num_simulations: 1}`,
		"bad hurst": `
scenarios:
  - process: {kind: fbm, hurst: 1.5}
    simulation: {initial_value: 0, end_time: 1, num_steps: 4, num_simulations: 1}`,
		"zero steps": `
scenarios:
  - process: {kind: bm}
    simulation: {initial_value: 0, end_time: 1, num_steps: 0, num_simulations: 1}`,
		"expiry before valuation": `
scenarios:
  - process: {kind: bm}
    simulation: {initial_value: 0, num_steps: 1, num_simulations: 1}
    valuation: 2024-06-01
    expiry: 2024-01-01`,
		"duplicate names": `
scenarios:
  - name: a
    process: {kind: bm}
    simulation: {initial_value: 0, end_time: 1, num_steps: 1, num_simulations: 1}
  - name: a
    process: {kind: bm}
    simulation: {initial_value: 0, end_time: 1, num_steps: 1, num_simulations: 1}`,
		"analytic asian": `
scenarios:
  - process: {kind: gbm, params: {sigma: 0.2}}
    simulation: {initial_value: 100, num_steps: 1, num_simulations: 1}
    valuation: 2024-01-01
    expiry: 2025-01-01
    option: {style: asian, type: call, strike: 100}
    analytic: {volatility: 0.2}`,
		"floating european": `
scenarios:
  - process: {kind: gbm, params: {sigma: 0.2}}
    simulation: {initial_value: 100, end_time: 1, num_steps: 1, num_simulations: 1}
    option: {type: call, strike_flag: floating}`,
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidScenario)
		})
	}
}

func TestProcessSpecTimeFunctions(t *testing.T) {
	p, err := ProcessSpec{Kind: "hull_white", Params: map[string]float64{
		"alpha": 0.5, "sigma": 0.01, "theta": 0.02, "theta_slope": 0.001,
	}}.Build()
	require.NoError(t, err)
	assert.InDelta(t, 0.02+0.002-0.5*0.04, p.Drift(0.04, 2), 1e-12)

	for _, kind := range ProcessKinds() {
		spec := ProcessSpec{Kind: kind, Params: map[string]float64{"sigma": 0.1, "theta": 0.01, "alpha": 0.1}, Hurst: 0.6}
		p, err := spec.Build()
		require.NoError(t, err, kind)
		assert.False(t, math.IsNaN(p.Diffusion(0.05, 0.5)), kind)
	}
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvSeed:      "42",
		EnvWorkers:   "3",
		EnvLogLevel:  "debug",
		EnvLogFormat: "json",
		EnvLogFile:   "/tmp/sdequant.log",
	}
	e, err := FromEnv(func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, uint64(42), e.Seed)
	assert.Equal(t, 3, e.Workers)
	assert.Equal(t, "debug", e.Log.Level)
	assert.Equal(t, "json", e.Log.Format)
	assert.Equal(t, "/tmp/sdequant.log", e.Log.FilePath)

	defaults, err := FromEnv(func(string) string { return "" })
	require.NoError(t, err)
	assert.Equal(t, uint64(0), defaults.Seed)
	assert.GreaterOrEqual(t, defaults.Workers, 1)

	for k, v := range map[string]string{EnvSeed: "-1", EnvWorkers: "0", EnvLogLevel: "loud", EnvLogFormat: "xml"} {
		_, err := FromEnv(func(key string) string {
			if key == k {
				return v
			}
			return ""
		})
		assert.ErrorIs(t, err, ErrInvalidSetting, k)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SDEQUANT_SEED=99\nSDEQUANT_WORKERS=2\n"), 0o644))
	t.Setenv(EnvSeed, "")
	os.Unsetenv(EnvSeed)
	t.Setenv(EnvWorkers, "")
	os.Unsetenv(EnvWorkers)

	e, err := LoadEnv(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(99), e.Seed)
	assert.Equal(t, 2, e.Workers)

	_, err = LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarios), 0o644))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "bs-call", got[0].Name)
	assert.Equal(t, "fcir-asian", got[1].Name)
}
