package positions

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

const (
	maxIterations = 100
	epsilon       = 1e-8
)

var ErrNoConvergence = errors.New("implied volatility did not converge")

// ImpliedVolatility finds the volatility at which m prices the option at
// target. Newton steps on vega are tried first; Nelder-Mead on the squared
// pricing error takes over when vega vanishes or Newton stalls.
func ImpliedVolatility(m GBSM, target, k, t float64, flag TypeFlag) (float64, error) {
	if _, err := m.Evaluate(GreekPrice, k, t, flag); err != nil {
		return 0, err
	}
	if !(target > 0) || math.IsInf(target, 0) {
		return 0, fmt.Errorf("%w: target price must be positive, got %v", ErrInvalidContract, target)
	}

	if sigma, ok := newtonImpliedVol(m, target, k, t, flag); ok {
		return sigma, nil
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			diff := m.WithVolatility(math.Abs(x[0])+1e-12).evaluate(GreekPrice, k, t, flag) - target
			return diff * diff
		},
	}
	result, err := optimize.Minimize(problem, []float64{0.5}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	sigma := math.Abs(result.X[0])
	if math.Sqrt(result.F) > 1e-6*math.Max(1, target) {
		return 0, fmt.Errorf("%w: residual %v at sigma %v", ErrNoConvergence, math.Sqrt(result.F), sigma)
	}
	return sigma, nil
}

func newtonImpliedVol(m GBSM, target, k, t float64, flag TypeFlag) (float64, bool) {
	sigma := 0.5 // Initial guess
	for i := 0; i < maxIterations; i++ {
		model := m.WithVolatility(sigma)
		diff := model.evaluate(GreekPrice, k, t, flag) - target
		if math.Abs(diff) < epsilon {
			return sigma, true
		}
		vega := model.evaluate(GreekVega, k, t, flag)
		if vega < epsilon {
			return 0, false
		}
		sigma -= diff / vega
		if sigma <= 0 {
			sigma = 0.0001 // Avoid negative volatility
		}
	}
	return 0, false
}
