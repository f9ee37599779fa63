package models

import "math"

// HoLee: dX = theta(t)dt + sigma dW
type HoLee struct {
	Theta TimeFunc // Drift term fitted to the initial curve
	Sigma float64  // Volatility
}

func NewHoLee(theta TimeFunc, sigma float64) (*HoLee, error) {
	if err := checkTimeFunc("theta", theta); err != nil {
		return nil, err
	}
	if err := checkVolatility("sigma", sigma); err != nil {
		return nil, err
	}
	return &HoLee{Theta: theta, Sigma: sigma}, nil
}

func (h *HoLee) Drift(_, t float64) float64     { return h.Theta(t) }
func (h *HoLee) Diffusion(_, _ float64) float64 { return h.Sigma }

// HullWhite: dX = (theta(t) - alpha X)dt + sigma dW
type HullWhite struct {
	Alpha float64  // Mean reversion speed
	Sigma float64  // Volatility
	Theta TimeFunc // Drift term fitted to the initial curve
}

func NewHullWhite(alpha, sigma float64, theta TimeFunc) (*HullWhite, error) {
	if err := checkTimeFunc("theta", theta); err != nil {
		return nil, err
	}
	if err := checkVolatility("sigma", sigma); err != nil {
		return nil, err
	}
	return &HullWhite{Alpha: alpha, Sigma: sigma, Theta: theta}, nil
}

func (h *HullWhite) Drift(x, t float64) float64     { return h.Theta(t) - h.Alpha*x }
func (h *HullWhite) Diffusion(_, _ float64) float64 { return h.Sigma }

// ExtendedVasicek: dX = (theta(t) - alpha(t) X)dt + sigma(t) dW
type ExtendedVasicek struct {
	Alpha TimeFunc
	Sigma TimeFunc
	Theta TimeFunc
}

func NewExtendedVasicek(alpha, sigma, theta TimeFunc) (*ExtendedVasicek, error) {
	for _, term := range []struct {
		name string
		f    TimeFunc
	}{{"alpha", alpha}, {"sigma", sigma}, {"theta", theta}} {
		if err := checkTimeFunc(term.name, term.f); err != nil {
			return nil, err
		}
	}
	return &ExtendedVasicek{Alpha: alpha, Sigma: sigma, Theta: theta}, nil
}

func (e *ExtendedVasicek) Drift(x, t float64) float64     { return e.Theta(t) - e.Alpha(t)*x }
func (e *ExtendedVasicek) Diffusion(_, t float64) float64 { return e.Sigma(t) }

// BlackDermanToy models the short rate through
//
//	d ln X = (theta(t) + sigma'(t)/sigma(t) ln X)dt + sigma(t) dW
//
// and is simulated on X itself, so Drift and Diffusion carry the Ito terms.
type BlackDermanToy struct {
	Theta TimeFunc
	Sigma TimeFunc
}

const bdtBump = 1e-5

func NewBlackDermanToy(theta, sigma TimeFunc) (*BlackDermanToy, error) {
	if err := checkTimeFunc("theta", theta); err != nil {
		return nil, err
	}
	if err := checkTimeFunc("sigma", sigma); err != nil {
		return nil, err
	}
	return &BlackDermanToy{Theta: theta, Sigma: sigma}, nil
}

// sigmaPrime is a central difference of the volatility function.
func (b *BlackDermanToy) sigmaPrime(t float64) float64 {
	return (b.Sigma(t+bdtBump) - b.Sigma(t-bdtBump)) / (2 * bdtBump)
}

func (b *BlackDermanToy) Drift(x, t float64) float64 {
	// ln x is undefined for a non-positive rate.
	if x <= 0 {
		return 0
	}
	sigma := b.Sigma(t)
	var logTerm float64
	if sigma != 0 {
		logTerm = b.sigmaPrime(t) / sigma * math.Log(x)
	}
	return x * (b.Theta(t) + logTerm + 0.5*sigma*sigma)
}

func (b *BlackDermanToy) Diffusion(x, t float64) float64 {
	return b.Sigma(t) * x
}
