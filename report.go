package main

import (
	"math"
	"sort"

	"github.com/bcdannyboy/sdequant/config"
	"github.com/bcdannyboy/sdequant/models"
	"github.com/bcdannyboy/sdequant/probability"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Reported figures are rounded to this many decimal places.
const precision = 6

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// number marshals as null when the value is not finite.
type number = decimal.NullDecimal

func round(x float64) number {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return number{}
	}
	return number{Decimal: decimal.NewFromFloat(x).Round(precision), Valid: true}
}

type Point struct {
	T number `json:"t"`
	X number `json:"x"`
}

type SimulationReport struct {
	Scenario    string            `json:"scenario"`
	Process     string            `json:"process"`
	Paths       int               `json:"paths"`
	Steps       int               `json:"steps"`
	Seed        uint64            `json:"seed"`
	Horizon     number            `json:"horizon"`
	Terminal    TerminalSummary   `json:"terminal"`
	MeanPath    []Point           `json:"mean_path"`
	Percentiles map[string]number `json:"terminal_percentiles"`
	RealizedVol map[string]number `json:"realized_volatility,omitempty"`
}

type TerminalSummary struct {
	Mean   number `json:"mean"`
	StdDev number `json:"std_dev"`
	Min    number `json:"min"`
	Max    number `json:"max"`
}

type PriceReport struct {
	Scenario    string            `json:"scenario"`
	Process     string            `json:"process"`
	Simulations int               `json:"simulations"`
	Seed        uint64            `json:"seed"`
	Rate        number            `json:"discount_rate"`
	Price       number            `json:"price"`
	StdErr      *number           `json:"std_err,omitempty"`
	Interval    []number          `json:"confidence_interval,omitempty"`
	Confidence  number            `json:"confidence"`
	VaR         number            `json:"value_at_risk"`
	ES          number            `json:"expected_shortfall"`
	Analytic    map[string]number `json:"analytic,omitempty"`
	ImpliedVol  *number           `json:"implied_volatility,omitempty"`
}

var reportedPercentiles = []struct {
	name string
	p    float64
}{
	{"p05", 0.05},
	{"p25", 0.25},
	{"p50", 0.50},
	{"p75", 0.75},
	{"p95", 0.95},
}

// seeded falls back to the environment seed when the scenario sets none.
func (a *app) seeded(s config.Scenario) config.Scenario {
	if s.Simulation.Seed == 0 {
		s.Simulation.Seed = a.settings.Seed
	}
	return s
}

func (a *app) simulate(s config.Scenario) (SimulationReport, error) {
	s = a.seeded(s)
	process, err := s.Process.Build()
	if err != nil {
		return SimulationReport{}, err
	}
	cfg, err := s.SimulationConfig()
	if err != nil {
		return SimulationReport{}, err
	}
	tr, err := a.engine.Simulate(process, cfg)
	if err != nil {
		return SimulationReport{}, err
	}

	times, mean := tr.Times(), tr.MeanPath()
	points := make([]Point, len(times))
	for i := range times {
		points[i] = Point{T: round(times[i]), X: round(mean[i])}
	}

	terminal := tr.TerminalValues()
	sort.Float64s(terminal)
	m, sd := tr.TerminalStats()
	percentiles := make(map[string]number, len(reportedPercentiles))
	for _, q := range reportedPercentiles {
		percentiles[q.name] = round(stat.Quantile(q.p, stat.Empirical, terminal, nil))
	}

	var realized map[string]number
	if a.barSteps > 0 {
		realized = make(map[string]number)
		for _, est := range models.VolatilityEstimators() {
			v, err := tr.RealizedVolatility(est, a.barSteps)
			if err != nil {
				a.log.Warn("realized volatility skipped", "scenario", s.Name, "estimator", est, "error", err)
				continue
			}
			realized[est.String()] = round(v)
		}
	}

	a.log.Debug("scenario simulated", "scenario", s.Name, "paths", tr.Len(), "steps", tr.NumSteps())
	return SimulationReport{
		Scenario: s.Name,
		Process:  s.Process.Kind,
		Paths:    tr.Len(),
		Steps:    tr.NumSteps(),
		Seed:     cfg.Seed,
		Horizon:  round(tr.Horizon()),
		Terminal: TerminalSummary{
			Mean:   round(m),
			StdDev: round(sd),
			Min:    round(terminal[0]),
			Max:    round(terminal[len(terminal)-1]),
		},
		MeanPath:    points,
		Percentiles: percentiles,
		RealizedVol: realized,
	}, nil
}

func (a *app) price(pricer *probability.MonteCarloPricer, s config.Scenario) (PriceReport, error) {
	s = a.seeded(s)
	process, err := s.Process.Build()
	if err != nil {
		return PriceReport{}, err
	}
	cfg, err := s.SimulationConfig()
	if err != nil {
		return PriceReport{}, err
	}
	r, err := s.DiscountRate()
	if err != nil {
		return PriceReport{}, err
	}
	payoff, err := s.Payoff()
	if err != nil {
		return PriceReport{}, err
	}
	est, err := pricer.Price(process, cfg, r, payoff)
	if err != nil {
		return PriceReport{}, err
	}

	rep := PriceReport{
		Scenario:    s.Name,
		Process:     s.Process.Kind,
		Simulations: est.NumSimulations(),
		Seed:        cfg.Seed,
		Rate:        round(r),
		Price:       round(est.Price()),
		Confidence:  round(a.confidence),
	}
	if se, ok := est.Error(); ok {
		stderr := round(se)
		rep.StdErr = &stderr
		z := distuv.UnitNormal.Quantile(0.5 + a.confidence/2)
		lo, hi := est.ConfidenceInterval(z)
		rep.Interval = []number{round(lo), round(hi)}
	}

	// Risk is measured against paying the fair premium for the payoff.
	v, err := est.ValueAtRisk(est.Price(), a.confidence)
	if err != nil {
		return PriceReport{}, err
	}
	es, err := est.ExpectedShortfall(est.Price(), a.confidence)
	if err != nil {
		return PriceReport{}, err
	}
	rep.VaR, rep.ES = round(v), round(es)

	if s.Analytic != nil {
		ap, err := s.AnalyticPricer()
		if err != nil {
			return PriceReport{}, err
		}
		rep.Analytic = make(map[string]number)
		for k, x := range ap.Report() {
			rep.Analytic[k] = round(x)
		}
		if iv, err := ap.ImpliedVolatility(est.Price()); err == nil {
			n := round(iv)
			rep.ImpliedVol = &n
		} else {
			a.log.Warn("implied volatility not found", "scenario", s.Name, "price", est.Price(), "error", err)
		}
	}
	return rep, nil
}
