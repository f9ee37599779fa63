package models

import (
	"fmt"
	"math"
)

// SimulationConfig describes one Euler-Maruyama run.
type SimulationConfig struct {
	InitialValue   float64 `yaml:"initial_value" json:"initial_value"`
	StartTime      float64 `yaml:"start_time" json:"start_time"`
	EndTime        float64 `yaml:"end_time" json:"end_time"`
	NumSteps       int     `yaml:"num_steps" json:"num_steps"`
	NumSimulations int     `yaml:"num_simulations" json:"num_simulations"`
	Parallel       bool    `yaml:"parallel" json:"parallel"`
	Seed           uint64  `yaml:"seed" json:"seed"`
}

func NewSimulationConfig(x0, t0, tn float64, steps, sims int, parallel bool) SimulationConfig {
	return SimulationConfig{
		InitialValue:   x0,
		StartTime:      t0,
		EndTime:        tn,
		NumSteps:       steps,
		NumSimulations: sims,
		Parallel:       parallel,
	}
}

// WithSeed returns a copy of c using seed for the per-path streams.
func (c SimulationConfig) WithSeed(seed uint64) SimulationConfig {
	c.Seed = seed
	return c
}

func (c SimulationConfig) Validate() error {
	switch {
	case c.NumSteps < 1:
		return fmt.Errorf("%w: num_steps must be >= 1, got %d", ErrInvalidConfig, c.NumSteps)
	case c.NumSimulations < 1:
		return fmt.Errorf("%w: num_simulations must be >= 1, got %d", ErrInvalidConfig, c.NumSimulations)
	case math.IsNaN(c.StartTime) || math.IsNaN(c.EndTime) || math.IsInf(c.StartTime, 0) || math.IsInf(c.EndTime, 0):
		return fmt.Errorf("%w: time bounds must be finite", ErrInvalidConfig)
	case !(c.StartTime < c.EndTime):
		return fmt.Errorf("%w: start_time %v must be before end_time %v", ErrInvalidConfig, c.StartTime, c.EndTime)
	case math.IsNaN(c.InitialValue) || math.IsInf(c.InitialValue, 0):
		return fmt.Errorf("%w: initial_value must be finite", ErrInvalidConfig)
	}
	return nil
}

// Horizon is end_time - start_time.
func (c SimulationConfig) Horizon() float64 {
	return c.EndTime - c.StartTime
}

func (c SimulationConfig) Dt() float64 {
	return (c.EndTime - c.StartTime) / float64(c.NumSteps)
}

// Times returns the grid start_time + i*dt for i in 0..num_steps. The last
// point is pinned to end_time so rounding never moves the horizon.
func (c SimulationConfig) Times() []float64 {
	dt := c.Dt()
	times := make([]float64, c.NumSteps+1)
	for i := range times {
		times[i] = c.StartTime + float64(i)*dt
	}
	times[c.NumSteps] = c.EndTime
	return times
}
