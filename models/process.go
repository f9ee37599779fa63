package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidParameter = errors.New("invalid process parameter")
	ErrInvalidConfig    = errors.New("invalid simulation config")
	ErrFactorization    = errors.New("covariance factorization failed")
)

// Process is a one-dimensional SDE dX = drift(X,t)dt + diffusion(X,t)dW.
type Process interface {
	Drift(x, t float64) float64
	Diffusion(x, t float64) float64
}

// FractionalProcess is driven by fractional Gaussian noise instead of
// independent increments.
type FractionalProcess interface {
	Process
	Hurst() float64
}

// Truncator reports the value a process feeds into its square root.
type Truncator interface {
	Truncate(x float64) float64
}

// TimeFunc is a deterministic function of time, used for the
// time-dependent terms of the short rate models.
type TimeFunc func(t float64) float64

// Constant returns a TimeFunc that ignores t.
func Constant(v float64) TimeFunc {
	return func(float64) float64 { return v }
}

func checkVolatility(name string, sigma float64) error {
	if sigma < 0 || math.IsNaN(sigma) || math.IsInf(sigma, 0) {
		return fmt.Errorf("%w: %s must be a finite non-negative volatility, got %v", ErrInvalidParameter, name, sigma)
	}
	return nil
}

func checkHurst(h float64) error {
	if !(h > 0 && h < 1) {
		return fmt.Errorf("%w: hurst exponent must be in (0,1), got %v", ErrInvalidParameter, h)
	}
	return nil
}

func checkTimeFunc(name string, f TimeFunc) error {
	if f == nil {
		return fmt.Errorf("%w: %s is nil", ErrInvalidParameter, name)
	}
	return nil
}
