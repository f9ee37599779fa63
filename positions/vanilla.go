package positions

import (
	"time"

	"github.com/bcdannyboy/sdequant/models"
	"github.com/bcdannyboy/sdequant/probability"
)

type EuropeanVanillaOption struct {
	OptionContract
	Strike float64
}

func NewEuropeanVanillaOption(strike float64, expiry, valuation time.Time, flag TypeFlag) (*EuropeanVanillaOption, error) {
	if err := checkStrike(strike); err != nil {
		return nil, err
	}
	contract, err := NewOptionContract(flag, Fixed, valuation, expiry)
	if err != nil {
		return nil, err
	}
	return &EuropeanVanillaOption{OptionContract: contract, Strike: strike}, nil
}

func (o *EuropeanVanillaOption) Payoff(underlying float64) float64 {
	return intrinsic(o.Flag, underlying, o.Strike)
}

// PathPayoff pays on the terminal value of path.
func (o *EuropeanVanillaOption) PathPayoff(path []float64) float64 {
	return o.Payoff(path[len(path)-1])
}

func (o *EuropeanVanillaOption) PriceMonteCarlo(pricer *probability.MonteCarloPricer, process models.Process, cfg models.SimulationConfig, r float64) (*Valuation, error) {
	return priceMonteCarlo(pricer, process, cfg, r, o, o.OptionContract, "european_vanilla_option")
}
