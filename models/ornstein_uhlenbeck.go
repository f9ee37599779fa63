package models

import "fmt"

// OrnsteinUhlenbeck: dX = kappa(mu - X)dt + sigma dW
type OrnsteinUhlenbeck struct {
	Kappa float64 // Mean reversion speed
	Mu    float64 // Long-run mean
	Sigma float64 // Volatility
}

func NewOrnsteinUhlenbeck(kappa, mu, sigma float64) (*OrnsteinUhlenbeck, error) {
	if err := checkVolatility("sigma", sigma); err != nil {
		return nil, err
	}
	if kappa < 0 {
		return nil, fmt.Errorf("%w: kappa must be non-negative, got %v", ErrInvalidParameter, kappa)
	}
	return &OrnsteinUhlenbeck{Kappa: kappa, Mu: mu, Sigma: sigma}, nil
}

func (o *OrnsteinUhlenbeck) Drift(x, _ float64) float64     { return o.Kappa * (o.Mu - x) }
func (o *OrnsteinUhlenbeck) Diffusion(_, _ float64) float64 { return o.Sigma }

// FractionalOrnsteinUhlenbeck is the OU dynamics driven by fractional
// Gaussian noise.
type FractionalOrnsteinUhlenbeck struct {
	OrnsteinUhlenbeck
	H float64 // Hurst exponent
}

func NewFractionalOrnsteinUhlenbeck(kappa, mu, sigma, hurst float64) (*FractionalOrnsteinUhlenbeck, error) {
	ou, err := NewOrnsteinUhlenbeck(kappa, mu, sigma)
	if err != nil {
		return nil, err
	}
	if err := checkHurst(hurst); err != nil {
		return nil, err
	}
	return &FractionalOrnsteinUhlenbeck{OrnsteinUhlenbeck: *ou, H: hurst}, nil
}

func (f *FractionalOrnsteinUhlenbeck) Hurst() float64 { return f.H }
