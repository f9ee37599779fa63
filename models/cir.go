package models

import (
	"fmt"
	"math"
)

// CoxIngersollRoss: dX = kappa(theta - X)dt + sigma sqrt(X) dW
//
// Discretized with full truncation: the diffusion evaluates sqrt(max(x,0))
// while the drift and the carried state keep the raw, possibly negative, x.
type CoxIngersollRoss struct {
	Kappa float64 // Mean reversion speed
	Theta float64 // Long-run mean
	Sigma float64 // Volatility
}

func NewCoxIngersollRoss(kappa, theta, sigma float64) (*CoxIngersollRoss, error) {
	if err := checkVolatility("sigma", sigma); err != nil {
		return nil, err
	}
	if kappa < 0 {
		return nil, fmt.Errorf("%w: kappa must be non-negative, got %v", ErrInvalidParameter, kappa)
	}
	return &CoxIngersollRoss{Kappa: kappa, Theta: theta, Sigma: sigma}, nil
}

func (c *CoxIngersollRoss) Drift(x, _ float64) float64 {
	return c.Kappa * (c.Theta - x)
}

func (c *CoxIngersollRoss) Diffusion(x, _ float64) float64 {
	return c.Sigma * math.Sqrt(c.Truncate(x))
}

func (c *CoxIngersollRoss) Truncate(x float64) float64 {
	return math.Max(x, 0)
}

// FellerSatisfied reports whether 2 kappa theta >= sigma^2.
func (c *CoxIngersollRoss) FellerSatisfied() bool {
	return 2*c.Kappa*c.Theta >= c.Sigma*c.Sigma
}

// FractionalCoxIngersollRoss is the CIR dynamics driven by fractional
// Gaussian noise. Truncation follows CoxIngersollRoss.
type FractionalCoxIngersollRoss struct {
	CoxIngersollRoss
	H float64 // Hurst exponent
}

func NewFractionalCoxIngersollRoss(kappa, theta, sigma, hurst float64) (*FractionalCoxIngersollRoss, error) {
	cir, err := NewCoxIngersollRoss(kappa, theta, sigma)
	if err != nil {
		return nil, err
	}
	if err := checkHurst(hurst); err != nil {
		return nil, err
	}
	return &FractionalCoxIngersollRoss{CoxIngersollRoss: *cir, H: hurst}, nil
}

func (f *FractionalCoxIngersollRoss) Hurst() float64 { return f.H }
