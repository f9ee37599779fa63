package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessCoefficients(t *testing.T) {
	abm, err := NewArithmeticBrownianMotion(0.1, 0.3)
	require.NoError(t, err)
	gbm, err := NewGeometricBrownianMotion(0.05, 0.2)
	require.NoError(t, err)
	cir, err := NewCoxIngersollRoss(2, 0.05, 0.1)
	require.NoError(t, err)
	ou, err := NewOrnsteinUhlenbeck(1.5, 0.02, 0.01)
	require.NoError(t, err)
	hl, err := NewHoLee(func(t float64) float64 { return 0.01 * t }, 0.02)
	require.NoError(t, err)
	hw, err := NewHullWhite(0.5, 0.02, Constant(0.03))
	require.NoError(t, err)
	ev, err := NewExtendedVasicek(Constant(0.4), func(t float64) float64 { return 0.01 + t }, Constant(0.02))
	require.NoError(t, err)

	tests := []struct {
		name      string
		process   Process
		x, t      float64
		drift     float64
		diffusion float64
	}{
		{"standard", NewStandardBrownianMotion(), 3, 1, 0, 1},
		{"arithmetic", abm, 3, 1, 0.1, 0.3},
		{"geometric", gbm, 100, 1, 5, 20},
		{"cir", cir, 0.04, 0, 2 * (0.05 - 0.04), 0.1 * math.Sqrt(0.04)},
		{"ornstein-uhlenbeck", ou, 0.05, 0, 1.5 * (0.02 - 0.05), 0.01},
		{"ho-lee", hl, 0.5, 2, 0.02, 0.02},
		{"hull-white", hw, 0.04, 3, 0.03 - 0.5*0.04, 0.02},
		{"extended vasicek", ev, 0.1, 0.5, 0.02 - 0.4*0.1, 0.51},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.drift, tt.process.Drift(tt.x, tt.t), 1e-12)
			assert.InDelta(t, tt.diffusion, tt.process.Diffusion(tt.x, tt.t), 1e-12)
		})
	}
}

func TestCIRFullTruncation(t *testing.T) {
	cir, err := NewCoxIngersollRoss(2, 0.05, 0.3)
	require.NoError(t, err)

	// Negative state: diffusion sees zero, drift sees the raw value.
	assert.Equal(t, 0.0, cir.Diffusion(-0.01, 0))
	assert.InDelta(t, 2*(0.05+0.01), cir.Drift(-0.01, 0), 1e-12)
	assert.Equal(t, 0.0, cir.Truncate(-0.01))
	assert.Equal(t, 0.02, cir.Truncate(0.02))

	fcir, err := NewFractionalCoxIngersollRoss(2, 0.05, 0.3, 0.7)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fcir.Diffusion(-1, 0))
	assert.Equal(t, 0.7, fcir.Hurst())

	var _ Truncator = cir
	var _ Truncator = fcir
	var _ FractionalProcess = fcir
}

func TestCIRFeller(t *testing.T) {
	ok, err := NewCoxIngersollRoss(2, 0.05, 0.1)
	require.NoError(t, err)
	assert.True(t, ok.FellerSatisfied())

	violated, err := NewCoxIngersollRoss(0.5, 0.01, 0.5)
	require.NoError(t, err)
	assert.False(t, violated.FellerSatisfied())
}

func TestBlackDermanToyDrift(t *testing.T) {
	sigma := func(t float64) float64 { return 0.2 + 0.1*t }
	bdt, err := NewBlackDermanToy(Constant(0.01), sigma)
	require.NoError(t, err)

	x, ts := 0.05, 1.0
	s := sigma(ts)
	want := x * (0.01 + 0.1/s*math.Log(x) + 0.5*s*s)
	assert.InDelta(t, want, bdt.Drift(x, ts), 1e-8)
	assert.InDelta(t, s*x, bdt.Diffusion(x, ts), 1e-12)
	assert.Equal(t, 0.0, bdt.Drift(0, ts))
	assert.Equal(t, 0.0, bdt.Drift(-0.01, ts))
}

func TestProcessConstructorsRejectInvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		err  func() error
	}{
		{"negative gbm sigma", func() error { _, err := NewGeometricBrownianMotion(0.05, -0.2); return err }},
		{"nan abm sigma", func() error { _, err := NewArithmeticBrownianMotion(0, math.NaN()); return err }},
		{"negative cir kappa", func() error { _, err := NewCoxIngersollRoss(-1, 0.05, 0.1); return err }},
		{"negative ou kappa", func() error { _, err := NewOrnsteinUhlenbeck(-1, 0, 0.1); return err }},
		{"hurst zero", func() error { _, err := NewFractionalBrownianMotion(0); return err }},
		{"hurst one", func() error { _, err := NewFractionalBrownianMotion(1); return err }},
		{"fou hurst", func() error { _, err := NewFractionalOrnsteinUhlenbeck(1, 0, 0.1, 1.2); return err }},
		{"fcir hurst", func() error { _, err := NewFractionalCoxIngersollRoss(1, 0.05, 0.1, -0.1); return err }},
		{"nil ho-lee theta", func() error { _, err := NewHoLee(nil, 0.01); return err }},
		{"nil hull-white theta", func() error { _, err := NewHullWhite(0.1, 0.01, nil); return err }},
		{"nil vasicek alpha", func() error { _, err := NewExtendedVasicek(nil, Constant(0.01), Constant(0)); return err }},
		{"nil bdt sigma", func() error { _, err := NewBlackDermanToy(Constant(0), nil); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err(), ErrInvalidParameter)
		})
	}
}

func TestExtendedVasicekNamesFirstMissingFunction(t *testing.T) {
	for i := 0; i < 20; i++ {
		_, err := NewExtendedVasicek(nil, nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alpha")
	}
	_, err := NewExtendedVasicek(Constant(0.1), nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sigma")
}
