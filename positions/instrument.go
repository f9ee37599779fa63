package positions

import (
	"time"

	"github.com/bcdannyboy/sdequant/models"
	"github.com/bcdannyboy/sdequant/probability"
)

// Instrument is anything that can report a present value.
type Instrument interface {
	Price() float64
	// Error is the statistical error of Price when the pricer provides one.
	Error() (float64, bool)
	ValuationDate() time.Time
	InstrumentType() string
}

// Valuation is a Monte Carlo estimate bound to the contract it priced.
type Valuation struct {
	estimate  *probability.Estimate
	valuation time.Time
	kind      string
}

func (v *Valuation) Price() float64                  { return v.estimate.Price() }
func (v *Valuation) Error() (float64, bool)          { return v.estimate.Error() }
func (v *Valuation) ValuationDate() time.Time        { return v.valuation }
func (v *Valuation) InstrumentType() string          { return v.kind }
func (v *Valuation) Estimate() *probability.Estimate { return v.estimate }

func priceMonteCarlo(
	pricer *probability.MonteCarloPricer,
	process models.Process,
	cfg models.SimulationConfig,
	r float64,
	payoff probability.PathPayoff,
	contract OptionContract,
	kind string,
) (*Valuation, error) {
	if pricer == nil {
		pricer = probability.NewMonteCarloPricer(nil)
	}
	est, err := pricer.Price(process, cfg, r, payoff)
	if err != nil {
		return nil, err
	}
	return &Valuation{estimate: est, valuation: contract.Valuation, kind: kind}, nil
}
