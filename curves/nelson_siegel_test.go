package curves

import (
	"math"
	"testing"
	"time"

	"github.com/bcdannyboy/sdequant/daycount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var valuation = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

func testCurve(t *testing.T) *NelsonSiegel {
	ns, err := NewNelsonSiegel(0.0806, -0.0031, -0.0625, 1.58)
	require.NoError(t, err)
	return ns
}

func TestNelsonSiegelLimits(t *testing.T) {
	ns := testCurve(t)

	// Short end tends to beta0 + beta1, long end to beta0.
	assert.InDelta(t, 0.0806-0.0031, ns.SpotRateAt(1e-9), 1e-8)
	assert.InDelta(t, 0.0806-0.0031, ns.ForwardRateAt(0), 1e-12)
	assert.InDelta(t, 0.0806, ns.SpotRateAt(1e4), 1e-4)
	assert.InDelta(t, 0.0806, ns.ForwardRateAt(1e4), 1e-8)
}

func TestNelsonSiegelSpotIsAverageForward(t *testing.T) {
	ns := testCurve(t)
	const tau = 5.0

	// Trapezoidal integral of the forward curve.
	n := 10000
	h := tau / float64(n)
	sum := 0.5 * (ns.ForwardRateAt(0) + ns.ForwardRateAt(tau))
	for i := 1; i < n; i++ {
		sum += ns.ForwardRateAt(float64(i) * h)
	}
	assert.InDelta(t, sum*h/tau, ns.SpotRateAt(tau), 1e-8)
}

func TestNelsonSiegelDates(t *testing.T) {
	ns := testCurve(t)
	date := valuation.AddDate(0, 0, 730)
	tau := 730.0 / 365.0

	spot, err := ns.SpotRate(valuation, date)
	require.NoError(t, err)
	assert.InDelta(t, ns.SpotRateAt(tau), spot, 1e-12)

	fwd, err := ns.ForwardRate(valuation, date)
	require.NoError(t, err)
	assert.InDelta(t, ns.ForwardRateAt(tau), fwd, 1e-12)

	df, err := ns.DiscountFactor(valuation, date)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-spot*tau), df, 1e-12)
	assert.Less(t, df, 1.0)

	ns.Basis = daycount.Actual360
	spot360, err := ns.SpotRate(valuation, date)
	require.NoError(t, err)
	assert.InDelta(t, ns.SpotRateAt(730.0/360.0), spot360, 1e-12)
}

func TestNelsonSiegelRejectsPastDates(t *testing.T) {
	ns := testCurve(t)

	_, err := ns.SpotRate(valuation, valuation)
	assert.ErrorIs(t, err, daycount.ErrDateOrder)
	_, err = ns.ForwardRate(valuation, valuation.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, daycount.ErrDateOrder)
	_, err = ns.DiscountFactor(valuation, valuation.AddDate(-1, 0, 0))
	assert.ErrorIs(t, err, daycount.ErrDateOrder)
}

func TestNelsonSiegelValidation(t *testing.T) {
	_, err := NewNelsonSiegel(0.05, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidModel)
	_, err = NewNelsonSiegel(math.NaN(), 0, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestNelsonSiegelCalibrateNotImplemented(t *testing.T) {
	ns := testCurve(t)
	fitted, err := ns.Calibrate([]Quote{{Date: valuation.AddDate(1, 0, 0), Rate: 0.05}})
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.NotErrorIs(t, err, ErrInvalidModel)
	assert.Nil(t, fitted)
}
