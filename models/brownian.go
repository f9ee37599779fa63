package models

// StandardBrownianMotion: dX = dW
type StandardBrownianMotion struct{}

func NewStandardBrownianMotion() *StandardBrownianMotion {
	return &StandardBrownianMotion{}
}

func (b *StandardBrownianMotion) Drift(_, _ float64) float64     { return 0 }
func (b *StandardBrownianMotion) Diffusion(_, _ float64) float64 { return 1 }

// ArithmeticBrownianMotion: dX = mu dt + sigma dW
type ArithmeticBrownianMotion struct {
	Mu    float64 // Drift
	Sigma float64 // Volatility
}

func NewArithmeticBrownianMotion(mu, sigma float64) (*ArithmeticBrownianMotion, error) {
	if err := checkVolatility("sigma", sigma); err != nil {
		return nil, err
	}
	return &ArithmeticBrownianMotion{Mu: mu, Sigma: sigma}, nil
}

func (a *ArithmeticBrownianMotion) Drift(_, _ float64) float64     { return a.Mu }
func (a *ArithmeticBrownianMotion) Diffusion(_, _ float64) float64 { return a.Sigma }

// GeometricBrownianMotion: dX = mu X dt + sigma X dW
type GeometricBrownianMotion struct {
	Mu    float64 // Drift, the risk-free rate under the pricing measure
	Sigma float64 // Volatility
}

func NewGeometricBrownianMotion(mu, sigma float64) (*GeometricBrownianMotion, error) {
	if err := checkVolatility("sigma", sigma); err != nil {
		return nil, err
	}
	return &GeometricBrownianMotion{Mu: mu, Sigma: sigma}, nil
}

func (g *GeometricBrownianMotion) Drift(x, _ float64) float64     { return g.Mu * x }
func (g *GeometricBrownianMotion) Diffusion(x, _ float64) float64 { return g.Sigma * x }

// FractionalBrownianMotion is B_H(t), the zero-drift process whose
// increments are fractional Gaussian noise with Hurst exponent H.
type FractionalBrownianMotion struct {
	H float64 // Hurst exponent
}

func NewFractionalBrownianMotion(hurst float64) (*FractionalBrownianMotion, error) {
	if err := checkHurst(hurst); err != nil {
		return nil, err
	}
	return &FractionalBrownianMotion{H: hurst}, nil
}

func (f *FractionalBrownianMotion) Drift(_, _ float64) float64     { return 0 }
func (f *FractionalBrownianMotion) Diffusion(_, _ float64) float64 { return 1 }
func (f *FractionalBrownianMotion) Hurst() float64                 { return f.H }
