package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bcdannyboy/sdequant/models"
)

// ProcessSpec names a process and its parameters. Time-dependent terms are
// linear: theta(t) = theta + theta_slope*t, and likewise for alpha and sigma.
type ProcessSpec struct {
	Kind   string             `yaml:"kind"`
	Params map[string]float64 `yaml:"params"`
	Hurst  float64            `yaml:"hurst,omitempty"`
}

type processBuilder func(p params, hurst float64) (models.Process, error)

var processBuilders = map[string]processBuilder{
	"standard_brownian_motion": func(params, float64) (models.Process, error) {
		return models.NewStandardBrownianMotion(), nil
	},
	"arithmetic_brownian_motion": func(p params, _ float64) (models.Process, error) {
		return models.NewArithmeticBrownianMotion(p.get("mu"), p.get("sigma"))
	},
	"geometric_brownian_motion": func(p params, _ float64) (models.Process, error) {
		return models.NewGeometricBrownianMotion(p.get("mu"), p.get("sigma"))
	},
	"fractional_brownian_motion": func(_ params, h float64) (models.Process, error) {
		return models.NewFractionalBrownianMotion(h)
	},
	"cox_ingersoll_ross": func(p params, _ float64) (models.Process, error) {
		return models.NewCoxIngersollRoss(p.get("kappa"), p.get("theta"), p.get("sigma"))
	},
	"fractional_cox_ingersoll_ross": func(p params, h float64) (models.Process, error) {
		return models.NewFractionalCoxIngersollRoss(p.get("kappa"), p.get("theta"), p.get("sigma"), h)
	},
	"ornstein_uhlenbeck": func(p params, _ float64) (models.Process, error) {
		return models.NewOrnsteinUhlenbeck(p.get("kappa"), p.get("mu"), p.get("sigma"))
	},
	"fractional_ornstein_uhlenbeck": func(p params, h float64) (models.Process, error) {
		return models.NewFractionalOrnsteinUhlenbeck(p.get("kappa"), p.get("mu"), p.get("sigma"), h)
	},
	"ho_lee": func(p params, _ float64) (models.Process, error) {
		return models.NewHoLee(p.linear("theta"), p.get("sigma"))
	},
	"hull_white": func(p params, _ float64) (models.Process, error) {
		return models.NewHullWhite(p.get("alpha"), p.get("sigma"), p.linear("theta"))
	},
	"extended_vasicek": func(p params, _ float64) (models.Process, error) {
		return models.NewExtendedVasicek(p.linear("alpha"), p.linear("sigma"), p.linear("theta"))
	},
	"black_derman_toy": func(p params, _ float64) (models.Process, error) {
		return models.NewBlackDermanToy(p.linear("theta"), p.linear("sigma"))
	},
}

var processAliases = map[string]string{
	"bm":   "standard_brownian_motion",
	"abm":  "arithmetic_brownian_motion",
	"gbm":  "geometric_brownian_motion",
	"fbm":  "fractional_brownian_motion",
	"cir":  "cox_ingersoll_ross",
	"fcir": "fractional_cox_ingersoll_ross",
	"ou":   "ornstein_uhlenbeck",
	"fou":  "fractional_ornstein_uhlenbeck",
	"bdt":  "black_derman_toy",
}

// ProcessKinds lists the canonical process names.
func ProcessKinds() []string {
	kinds := make([]string, 0, len(processBuilders))
	for k := range processBuilders {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build constructs the process.
func (s ProcessSpec) Build() (models.Process, error) {
	kind := strings.ToLower(strings.TrimSpace(s.Kind))
	if alias, ok := processAliases[kind]; ok {
		kind = alias
	}
	build, ok := processBuilders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown process kind %q", models.ErrInvalidParameter, s.Kind)
	}
	p, err := build(params(s.Params), s.Hurst)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", kind, err)
	}
	return p, nil
}

type params map[string]float64

func (p params) get(name string) float64 { return p[name] }

func (p params) linear(name string) models.TimeFunc {
	level, slope := p[name], p[name+"_slope"]
	if slope == 0 {
		return models.Constant(level)
	}
	return func(t float64) float64 { return level + slope*t }
}
