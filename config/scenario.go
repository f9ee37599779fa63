package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bcdannyboy/sdequant/curves"
	"github.com/bcdannyboy/sdequant/daycount"
	"github.com/bcdannyboy/sdequant/models"
	"github.com/bcdannyboy/sdequant/positions"
	"github.com/bcdannyboy/sdequant/probability"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("invalid scenario")

// File is the top level of a scenario YAML document.
type File struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// OptionSpec describes the contract priced by a scenario.
type OptionSpec struct {
	Style      string  `yaml:"style"` // european or asian
	Type       string  `yaml:"type"`
	Strike     float64 `yaml:"strike"`
	StrikeFlag string  `yaml:"strike_flag,omitempty"`
	Averaging  string  `yaml:"averaging,omitempty"`
}

// AnalyticSpec selects a closed-form benchmark for a european option.
type AnalyticSpec struct {
	Model       string  `yaml:"model"`
	Volatility  float64 `yaml:"volatility"`
	Dividend    float64 `yaml:"dividend,omitempty"`
	ForeignRate float64 `yaml:"foreign_rate,omitempty"`
}

type Scenario struct {
	Name       string                  `yaml:"name"`
	Process    ProcessSpec             `yaml:"process"`
	Simulation models.SimulationConfig `yaml:"simulation"`

	// Rate discounts payoffs unless Curve is set, in which case the curve
	// spot rate to expiry is used.
	Rate  float64              `yaml:"rate"`
	Curve *curves.NelsonSiegel `yaml:"curve,omitempty"`

	// Valuation and Expiry (YYYY-MM-DD) set end_time from the day count.
	Valuation string `yaml:"valuation,omitempty"`
	Expiry    string `yaml:"expiry,omitempty"`
	DayCount  string `yaml:"day_count,omitempty"`

	Option   *OptionSpec   `yaml:"option,omitempty"`
	Analytic *AnalyticSpec `yaml:"analytic,omitempty"`
}

// LoadFile reads and validates every scenario in path.
func LoadFile(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) ([]Scenario, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	if len(f.Scenarios) == 0 {
		return nil, fmt.Errorf("%w: no scenarios", ErrInvalidScenario)
	}
	seen := make(map[string]bool, len(f.Scenarios))
	for i := range f.Scenarios {
		s := &f.Scenarios[i]
		if s.Name == "" {
			s.Name = fmt.Sprintf("scenario-%d", i+1)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidScenario, s.Name)
		}
		seen[s.Name] = true
		if err := s.Validate(); err != nil {
			return nil, err
		}
	}
	return f.Scenarios, nil
}

func (s *Scenario) Validate() error {
	if _, err := s.Process.Build(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
	}
	if _, err := s.SimulationConfig(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
	}
	if s.Curve != nil {
		if err := s.Curve.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
		}
	}
	if s.Option != nil {
		if _, err := s.Payoff(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
		}
	}
	if s.Analytic != nil {
		if _, err := s.AnalyticPricer(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidScenario, s.Name, err)
		}
	}
	return nil
}

func (s *Scenario) Basis() (daycount.Convention, error) {
	return daycount.ParseConvention(s.DayCount)
}

func (s *Scenario) dates() (valuation, expiry time.Time, ok bool, err error) {
	if s.Valuation == "" && s.Expiry == "" {
		return time.Time{}, time.Time{}, false, nil
	}
	valuation, err = time.Parse(time.DateOnly, s.Valuation)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("valuation: %w", err)
	}
	expiry, err = time.Parse(time.DateOnly, s.Expiry)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("expiry: %w", err)
	}
	return valuation, expiry, true, nil
}

// SimulationConfig returns the run configuration. With dates, start_time is
// 0 and end_time is the year fraction from valuation to expiry.
func (s *Scenario) SimulationConfig() (models.SimulationConfig, error) {
	cfg := s.Simulation
	valuation, expiry, ok, err := s.dates()
	if err != nil {
		return models.SimulationConfig{}, err
	}
	if ok {
		basis, err := s.Basis()
		if err != nil {
			return models.SimulationConfig{}, err
		}
		t, err := daycount.YearFraction(valuation, expiry, basis)
		if err != nil {
			return models.SimulationConfig{}, err
		}
		cfg.StartTime, cfg.EndTime = 0, t
	}
	return cfg, cfg.Validate()
}

// DiscountRate is the rate used to discount payoffs.
func (s *Scenario) DiscountRate() (float64, error) {
	if s.Curve == nil {
		return s.Rate, nil
	}
	valuation, expiry, ok, err := s.dates()
	if err != nil {
		return 0, err
	}
	if ok {
		return s.Curve.SpotRate(valuation, expiry)
	}
	cfg, err := s.SimulationConfig()
	if err != nil {
		return 0, err
	}
	return s.Curve.SpotRateAt(cfg.Horizon()), nil
}

func (s *Scenario) contract() (positions.OptionContract, error) {
	flag, err := positions.ParseTypeFlag(s.Option.Type)
	if err != nil {
		return positions.OptionContract{}, err
	}
	strikeFlag := positions.Fixed
	switch strings.ToLower(s.Option.StrikeFlag) {
	case "", "fixed":
	case "floating":
		strikeFlag = positions.Floating
	default:
		return positions.OptionContract{}, fmt.Errorf("%w: strike flag %q", positions.ErrInvalidContract, s.Option.StrikeFlag)
	}
	valuation, expiry, ok, err := s.dates()
	if err != nil {
		return positions.OptionContract{}, err
	}
	if !ok {
		// Undated scenarios price on the simulation grid alone.
		valuation = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		expiry = valuation.AddDate(0, 0, 1)
	}
	return positions.NewOptionContract(flag, strikeFlag, valuation, expiry)
}

// Payoff builds the scenario's option as a path payoff.
func (s *Scenario) Payoff() (probability.PathPayoff, error) {
	if s.Option == nil {
		return nil, fmt.Errorf("%w: %s has no option", ErrInvalidScenario, s.Name)
	}
	contract, err := s.contract()
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(s.Option.Style) {
	case "", "european":
		if contract.StrikeFlag == positions.Floating {
			return nil, fmt.Errorf("%w: european options have a fixed strike", positions.ErrInvalidContract)
		}
		return positions.NewEuropeanVanillaOption(s.Option.Strike, contract.Expiry, contract.Valuation, contract.Flag)
	case "asian":
		method, err := positions.ParseAveragingMethod(orDefault(s.Option.Averaging, "arithmetic_discrete"))
		if err != nil {
			return nil, err
		}
		return positions.NewAsianOption(contract, method, s.Option.Strike)
	}
	return nil, fmt.Errorf("%w: unknown option style %q", positions.ErrInvalidContract, s.Option.Style)
}

// AnalyticPricer builds the closed-form benchmark for a dated european
// option scenario.
func (s *Scenario) AnalyticPricer() (*positions.AnalyticPricer, error) {
	if s.Analytic == nil || s.Option == nil {
		return nil, fmt.Errorf("%w: %s has no analytic benchmark", ErrInvalidScenario, s.Name)
	}
	payoff, err := s.Payoff()
	if err != nil {
		return nil, err
	}
	option, ok := payoff.(*positions.EuropeanVanillaOption)
	if !ok {
		return nil, fmt.Errorf("%w: analytic benchmarks price european options only", ErrInvalidScenario)
	}
	if _, _, dated, err := s.dates(); err != nil || !dated {
		return nil, fmt.Errorf("%w: analytic benchmarks need valuation and expiry dates", ErrInvalidScenario)
	}
	r, err := s.DiscountRate()
	if err != nil {
		return nil, err
	}
	x0, v := s.Simulation.InitialValue, s.Analytic.Volatility

	var model positions.GBSM
	switch strings.ToLower(s.Analytic.Model) {
	case "black_scholes_73", "bs73", "":
		model, err = positions.BlackScholes73(x0, r, v)
	case "merton_73":
		model, err = positions.Merton73(x0, r, s.Analytic.Dividend, v)
	case "black_76":
		model, err = positions.Black76(x0, r, v)
	case "asay_82":
		model, err = positions.Asay82(x0, v)
	case "garman_kohlhagen_83":
		model, err = positions.GarmanKohlhagen83(x0, r, s.Analytic.ForeignRate, v)
	default:
		return nil, fmt.Errorf("%w: unknown analytic model %q", ErrInvalidScenario, s.Analytic.Model)
	}
	if err != nil {
		return nil, err
	}
	basis, err := s.Basis()
	if err != nil {
		return nil, err
	}
	return positions.NewAnalyticPricer(option, model, basis)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
