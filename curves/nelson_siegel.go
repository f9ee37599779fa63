package curves

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bcdannyboy/sdequant/daycount"
)

var (
	ErrNotImplemented = errors.New("curves: not implemented")
	ErrInvalidModel   = errors.New("curves: invalid model parameters")
)

// Quote is an observed zero rate used for calibration.
type Quote struct {
	Date time.Time
	Rate float64
}

// NelsonSiegel (1987) yield curve. Rates are continuously compounded
// decimals.
type NelsonSiegel struct {
	Beta0  float64 `yaml:"beta0"`
	Beta1  float64 `yaml:"beta1"`
	Beta2  float64 `yaml:"beta2"`
	Lambda float64 `yaml:"lambda"`

	Basis daycount.Convention `yaml:"basis"`
}

func NewNelsonSiegel(beta0, beta1, beta2, lambda float64) (*NelsonSiegel, error) {
	ns := &NelsonSiegel{Beta0: beta0, Beta1: beta1, Beta2: beta2, Lambda: lambda, Basis: daycount.DefaultBasis}
	if err := ns.Validate(); err != nil {
		return nil, err
	}
	return ns, nil
}

func (ns *NelsonSiegel) Validate() error {
	for _, v := range []float64{ns.Beta0, ns.Beta1, ns.Beta2} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: betas must be finite", ErrInvalidModel)
		}
	}
	if !(ns.Lambda > 0) || math.IsInf(ns.Lambda, 0) {
		return fmt.Errorf("%w: lambda must be positive, got %v", ErrInvalidModel, ns.Lambda)
	}
	return nil
}

// tau is the year fraction to a date strictly after valuation.
func (ns *NelsonSiegel) tau(valuation, date time.Time) (float64, error) {
	basis := ns.Basis
	if basis == "" {
		basis = daycount.DefaultBasis
	}
	tau, err := daycount.YearFraction(valuation, date, basis)
	if err != nil {
		return 0, err
	}
	if tau <= 0 {
		return 0, fmt.Errorf("%w: %s is not after %s", daycount.ErrDateOrder, date.Format(time.DateOnly), valuation.Format(time.DateOnly))
	}
	return tau, nil
}

func (ns *NelsonSiegel) ForwardRateAt(tau float64) float64 {
	term1 := math.Exp(-tau / ns.Lambda)
	term2 := tau / ns.Lambda * term1
	return ns.Beta0 + ns.Beta1*term1 + ns.Beta2*term2
}

func (ns *NelsonSiegel) SpotRateAt(tau float64) float64 {
	term1 := ns.Lambda * (1 - math.Exp(-tau/ns.Lambda)) / tau
	term2 := term1 - math.Exp(-tau/ns.Lambda)
	return ns.Beta0 + ns.Beta1*term1 + ns.Beta2*term2
}

// ForwardRate is the instantaneous forward rate at date seen from valuation.
func (ns *NelsonSiegel) ForwardRate(valuation, date time.Time) (float64, error) {
	tau, err := ns.tau(valuation, date)
	if err != nil {
		return 0, err
	}
	return ns.ForwardRateAt(tau), nil
}

func (ns *NelsonSiegel) SpotRate(valuation, date time.Time) (float64, error) {
	tau, err := ns.tau(valuation, date)
	if err != nil {
		return 0, err
	}
	return ns.SpotRateAt(tau), nil
}

func (ns *NelsonSiegel) DiscountFactor(valuation, date time.Time) (float64, error) {
	tau, err := ns.tau(valuation, date)
	if err != nil {
		return 0, err
	}
	return math.Exp(-ns.SpotRateAt(tau) * tau), nil
}

// Calibrate fitting to market quotes is not supported yet.
func (ns *NelsonSiegel) Calibrate(quotes []Quote) (*NelsonSiegel, error) {
	return nil, fmt.Errorf("%w: nelson-siegel calibration to %d quotes", ErrNotImplemented, len(quotes))
}
