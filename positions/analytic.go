package positions

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Greek selects a quantity computed by GBSM.Evaluate.
type Greek int

const (
	GreekPrice Greek = iota
	GreekDelta
	GreekGamma
	GreekTheta
	GreekVega
	GreekRho
	GreekVanna
	GreekCharm
	GreekLambda
	GreekZomma
	GreekSpeed
	GreekColor
	GreekVomma
	GreekUltima
)

var greekNames = [...]string{
	"price", "delta", "gamma", "theta", "vega", "rho", "vanna",
	"charm", "lambda", "zomma", "speed", "color", "vomma", "ultima",
}

func (g Greek) String() string {
	if g >= 0 && int(g) < len(greekNames) {
		return greekNames[g]
	}
	return fmt.Sprintf("Greek(%d)", int(g))
}

// AllGreeks lists every Greek in declaration order.
func AllGreeks() []Greek {
	out := make([]Greek, len(greekNames))
	for i := range out {
		out[i] = Greek(i)
	}
	return out
}

// GBSM is the generalised Black-Scholes-Merton model with cost of carry b.
// Theta, Charm and Color are calendar-time decays (minus the derivative with
// respect to time to maturity).
type GBSM struct {
	Name        string
	Spot        float64 // spot or forward price
	Rate        float64
	CostOfCarry float64
	Volatility  float64

	// carryTracksRate is set when b moves one for one with r, which changes rho.
	carryTracksRate bool
}

func newGBSM(name string, s, r, b, v float64, tracks bool) (GBSM, error) {
	m := GBSM{Name: name, Spot: s, Rate: r, CostOfCarry: b, Volatility: v, carryTracksRate: tracks}
	if !(s > 0) || math.IsInf(s, 0) {
		return GBSM{}, fmt.Errorf("%w: %s underlying must be positive, got %v", ErrInvalidContract, name, s)
	}
	if !(v > 0) || math.IsInf(v, 0) {
		return GBSM{}, fmt.Errorf("%w: %s volatility must be positive, got %v", ErrInvalidContract, name, v)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) || math.IsNaN(b) || math.IsInf(b, 0) {
		return GBSM{}, fmt.Errorf("%w: %s rates must be finite", ErrInvalidContract, name)
	}
	return m, nil
}

// BlackScholes73 prices stock options without dividends (b = r).
func BlackScholes73(s, r, v float64) (GBSM, error) {
	return newGBSM("BlackScholes73", s, r, r, v, true)
}

// Merton73 prices stock options with continuous dividend yield q.
func Merton73(s, r, q, v float64) (GBSM, error) {
	return newGBSM("Merton73", s, r, r-q, v, true)
}

// Black76 prices options on futures (b = 0).
func Black76(f, r, v float64) (GBSM, error) {
	return newGBSM("Black76", f, r, 0, v, false)
}

// Asay82 prices margined futures options (b = 0, r = 0).
func Asay82(f, v float64) (GBSM, error) {
	return newGBSM("Asay82", f, 0, 0, v, false)
}

// GarmanKohlhagen83 prices currency options with foreign rate rf.
func GarmanKohlhagen83(s, r, rf, v float64) (GBSM, error) {
	return newGBSM("GarmanKohlhagen83", s, r, r-rf, v, true)
}

// WithVolatility returns a copy of m using v.
func (m GBSM) WithVolatility(v float64) GBSM {
	m.Volatility = v
	return m
}

// Evaluate computes greek for strike k and time to maturity t in years.
func (m GBSM) Evaluate(greek Greek, k, t float64, flag TypeFlag) (float64, error) {
	if err := checkStrike(k); err != nil {
		return 0, err
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: time to maturity must be positive, got %v", ErrInvalidContract, t)
	}
	if flag != Call && flag != Put {
		return 0, fmt.Errorf("%w: %v", ErrInvalidContract, flag)
	}
	if greek < 0 || int(greek) >= len(greekNames) {
		return 0, fmt.Errorf("%w: unknown greek %v", ErrInvalidContract, greek)
	}
	return m.evaluate(greek, k, t, flag), nil
}

// evaluate assumes validated inputs.
func (m GBSM) evaluate(greek Greek, k, t float64, flag TypeFlag) float64 {
	s, r, b, v := m.Spot, m.Rate, m.CostOfCarry, m.Volatility
	n := distuv.UnitNormal

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (b+0.5*v*v)*t) / (v * sqrtT)
	d2 := d1 - v*sqrtT
	carry := math.Exp((b - r) * t)
	disc := math.Exp(-r * t)
	pdf := n.Prob(d1)

	call := flag == Call
	price := func() float64 {
		if call {
			return s*carry*n.CDF(d1) - k*disc*n.CDF(d2)
		}
		return k*disc*n.CDF(-d2) - s*carry*n.CDF(-d1)
	}
	delta := func() float64 {
		if call {
			return carry * n.CDF(d1)
		}
		return carry * (n.CDF(d1) - 1)
	}
	gamma := carry * pdf / (s * v * sqrtT)
	vega := s * carry * pdf * sqrtT

	switch greek {
	case GreekPrice:
		return price()
	case GreekDelta:
		return delta()
	case GreekGamma:
		return gamma
	case GreekVega:
		return vega
	case GreekTheta:
		decay := -s * carry * pdf * v / (2 * sqrtT)
		if call {
			return decay - (b-r)*s*carry*n.CDF(d1) - r*k*disc*n.CDF(d2)
		}
		return decay + (b-r)*s*carry*n.CDF(-d1) + r*k*disc*n.CDF(-d2)
	case GreekRho:
		if !m.carryTracksRate {
			return -t * price()
		}
		if call {
			return t * k * disc * n.CDF(d2)
		}
		return -t * k * disc * n.CDF(-d2)
	case GreekVanna:
		return -carry * pdf * d2 / v
	case GreekCharm:
		drift := pdf * (b/(v*sqrtT) - d2/(2*t))
		if call {
			return -carry * (drift + (b-r)*n.CDF(d1))
		}
		return -carry * (drift - (b-r)*n.CDF(-d1))
	case GreekLambda:
		return delta() * s / price()
	case GreekZomma:
		return gamma * (d1*d2 - 1) / v
	case GreekSpeed:
		return -gamma / s * (1 + d1/(v*sqrtT))
	case GreekColor:
		return gamma * (r - b + b*d1/(v*sqrtT) + (1-d1*d2)/(2*t))
	case GreekVomma:
		return vega * d1 * d2 / v
	case GreekUltima:
		return -vega / (v * v) * (d1*d2*(1-d1*d2) + d1*d1 + d2*d2)
	}
	return math.NaN()
}
