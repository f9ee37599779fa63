package positions

import (
	"time"

	"github.com/bcdannyboy/sdequant/daycount"
)

// AnalyticPricer values a European vanilla option in closed form. It never
// reports a statistical error.
type AnalyticPricer struct {
	Option *EuropeanVanillaOption
	Model  GBSM
	Basis  daycount.Convention

	t float64
}

func NewAnalyticPricer(option *EuropeanVanillaOption, model GBSM, basis daycount.Convention) (*AnalyticPricer, error) {
	if err := option.Validate(); err != nil {
		return nil, err
	}
	if err := checkStrike(option.Strike); err != nil {
		return nil, err
	}
	t, err := option.TimeToMaturity(basis)
	if err != nil {
		return nil, err
	}
	p := &AnalyticPricer{Option: option, Model: model, Basis: basis, t: t}
	if _, err := model.Evaluate(GreekPrice, option.Strike, t, option.Flag); err != nil {
		return nil, err
	}
	return p, nil
}

// TimeToMaturity is the year fraction the pricer evaluates at.
func (p *AnalyticPricer) TimeToMaturity() float64 { return p.t }

func (p *AnalyticPricer) Greek(g Greek) float64 {
	return p.Model.evaluate(g, p.Option.Strike, p.t, p.Option.Flag)
}

func (p *AnalyticPricer) Price() float64 { return p.Greek(GreekPrice) }

func (p *AnalyticPricer) Error() (float64, bool) { return 0, false }

func (p *AnalyticPricer) ValuationDate() time.Time { return p.Option.Valuation }

func (p *AnalyticPricer) InstrumentType() string { return "european_vanilla_option" }

// Report returns the price and every Greek keyed by name.
func (p *AnalyticPricer) Report() map[string]float64 {
	out := make(map[string]float64, len(greekNames))
	for _, g := range AllGreeks() {
		out[g.String()] = p.Greek(g)
	}
	return out
}

// ImpliedVolatility backs out the model volatility that reproduces price.
func (p *AnalyticPricer) ImpliedVolatility(price float64) (float64, error) {
	return ImpliedVolatility(p.Model, price, p.Option.Strike, p.t, p.Option.Flag)
}
