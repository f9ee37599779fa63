package probability

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/bcdannyboy/sdequant/models"
	"gonum.org/v1/gonum/stat"
)

// PathPayoff values one simulated path.
type PathPayoff interface {
	PathPayoff(path []float64) float64
}

// PathPayoffFunc adapts a plain function to PathPayoff.
type PathPayoffFunc func(path []float64) float64

func (f PathPayoffFunc) PathPayoff(path []float64) float64 { return f(path) }

// Terminal wraps a payoff on the last value of a path.
func Terminal(payoff func(x float64) float64) PathPayoff {
	return PathPayoffFunc(func(path []float64) float64 {
		return payoff(path[len(path)-1])
	})
}

// MonteCarloPricer discounts payoffs over Euler-Maruyama trajectories.
// It keeps no state between calls; Metrics and Logger are optional.
type MonteCarloPricer struct {
	Engine  *models.Engine
	Metrics *Metrics
	Logger  *slog.Logger
}

func NewMonteCarloPricer(engine *models.Engine) *MonteCarloPricer {
	return &MonteCarloPricer{Engine: engine, Logger: slog.Default()}
}

func (p *MonteCarloPricer) engine() *models.Engine {
	if p.Engine == nil {
		return models.DefaultEngine()
	}
	return p.Engine
}

func (p *MonteCarloPricer) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

// Price simulates process under cfg and returns the discounted mean payoff
// with its standard error. Discounting uses T = end_time - start_time.
func (p *MonteCarloPricer) Price(process models.Process, cfg models.SimulationConfig, r float64, payoff PathPayoff) (*Estimate, error) {
	if err := checkPricingInputs(r, payoff); err != nil {
		return nil, err
	}

	start := time.Now()
	tr, err := p.engine().Simulate(process, cfg)
	if err != nil {
		return nil, err
	}

	est, err := p.PriceTrajectories(tr, r, payoff)
	if err != nil {
		return nil, err
	}
	p.Metrics.observe(est.NumSimulations(), time.Since(start))
	return est, nil
}

// PriceTrajectories prices payoff over already simulated trajectories.
func (p *MonteCarloPricer) PriceTrajectories(tr *models.Trajectories, r float64, payoff PathPayoff) (*Estimate, error) {
	if err := checkPricingInputs(r, payoff); err != nil {
		return nil, err
	}
	if tr == nil || tr.Len() == 0 {
		return nil, fmt.Errorf("%w: no trajectories to price", models.ErrInvalidParameter)
	}

	discount := math.Exp(-r * tr.Horizon())
	discounted := make([]float64, tr.Len())
	bad := -1
	tr.Each(func(i int, path []float64) {
		v := payoff.PathPayoff(path) * discount
		if bad < 0 && (math.IsNaN(v) || math.IsInf(v, 0)) {
			bad = i
		}
		discounted[i] = v
	})
	if bad >= 0 {
		return nil, fmt.Errorf("%w: payoff of path %d is %v", models.ErrInvalidParameter, bad, discounted[bad])
	}

	est := newEstimate(discounted)
	p.logger().Debug("priced monte carlo estimate",
		"simulations", est.NumSimulations(),
		"price", est.price,
		"std_error", est.stdErr,
		"discount", discount)
	return est, nil
}

func checkPricingInputs(r float64, payoff PathPayoff) error {
	if payoff == nil {
		return fmt.Errorf("%w: nil payoff", models.ErrInvalidParameter)
	}
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return fmt.Errorf("%w: discount rate must be finite, got %v", models.ErrInvalidParameter, r)
	}
	return nil
}

// Estimate is a Monte Carlo price together with its statistical error.
type Estimate struct {
	price   float64
	stdErr  float64
	hasErr  bool
	samples []float64
}

// newEstimate takes ownership of discounted.
func newEstimate(discounted []float64) *Estimate {
	e := &Estimate{samples: discounted}
	n := len(discounted)
	if n == 1 {
		e.price = discounted[0]
		return e
	}
	mean, std := stat.MeanStdDev(discounted, nil)
	e.price = mean
	e.stdErr = std / math.Sqrt(float64(n))
	e.hasErr = true
	return e
}

func (e *Estimate) Price() float64 { return e.price }

// Error is the standard error of Price. It is absent for a single path.
func (e *Estimate) Error() (float64, bool) { return e.stdErr, e.hasErr }

func (e *Estimate) NumSimulations() int { return len(e.samples) }

// Discounted returns a copy of the per-path discounted payoffs.
func (e *Estimate) Discounted() []float64 {
	return append([]float64(nil), e.samples...)
}

// ConfidenceInterval is Price -/+ z standard errors. Without an error the
// interval collapses to the price.
func (e *Estimate) ConfidenceInterval(z float64) (lo, hi float64) {
	if !e.hasErr {
		return e.price, e.price
	}
	return e.price - z*e.stdErr, e.price + z*e.stdErr
}
