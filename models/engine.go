package models

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"
)

// Engine runs the Euler-Maruyama scheme over many independent paths.
//
// Path i always draws from its own stream seeded by (cfg.Seed, i), so the
// result does not depend on Parallel, Workers or scheduling order.
type Engine struct {
	Workers int          // Goroutines used when cfg.Parallel; <= 0 means GOMAXPROCS
	Factors *FactorCache // Shared fractional noise factors
	Logger  *slog.Logger
}

type EngineOption func(*Engine)

func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.Workers = n }
}

func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.Logger = l }
}

// WithFactorCache shares c between engines.
func WithFactorCache(c *FactorCache) EngineOption {
	return func(e *Engine) { e.Factors = c }
}

func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		Workers: runtime.GOMAXPROCS(0),
		Factors: NewFactorCache(),
		Logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.Factors != nil && e.Factors.Logger == nil {
		e.Factors.Logger = e.Logger
	}
	return e
}

var (
	sharedFactors = NewFactorCache()

	defaultEngine     *Engine
	defaultEngineOnce sync.Once
)

// DefaultEngine is the process-wide engine used by EulerMaruyama.
func DefaultEngine() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine()
	})
	return defaultEngine
}

// EulerMaruyama simulates p on the default engine.
func EulerMaruyama(p Process, cfg SimulationConfig) (*Trajectories, error) {
	return DefaultEngine().Simulate(p, cfg)
}

// pathSeed derives the seed of path index from the run seed (splitmix64).
func pathSeed(seed uint64, index int) uint64 {
	z := seed + uint64(index+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func newPathRand(seed uint64, index int) *rand.Rand {
	return rand.New(rand.NewSource(pathSeed(seed, index)))
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func (e *Engine) workers() int {
	if e.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return e.Workers
}

// Simulate produces cfg.NumSimulations paths of p on the cfg time grid.
func (e *Engine) Simulate(p Process, cfg SimulationConfig) (*Trajectories, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil process", ErrInvalidParameter)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	steps := cfg.NumSteps
	sims := cfg.NumSimulations
	dt := cfg.Dt()

	var factor *NoiseFactor
	if fp, ok := p.(FractionalProcess); ok {
		cache := e.Factors
		if cache == nil {
			cache = sharedFactors
		}
		f, err := cache.Get(fp.Hurst(), steps, dt)
		if err != nil {
			return nil, err
		}
		factor = f
	}

	start := time.Now()
	times := cfg.Times()
	backing := make([]float64, sims*(steps+1))
	paths := make([][]float64, sims)
	for i := range paths {
		lo, hi := i*(steps+1), (i+1)*(steps+1)
		paths[i] = backing[lo:hi:hi]
	}

	sim := pathSimulator{
		process: p,
		factor:  factor,
		x0:      cfg.InitialValue,
		t0:      cfg.StartTime,
		dt:      dt,
		sqrtDt:  math.Sqrt(dt),
		steps:   steps,
		seed:    cfg.Seed,
	}

	workers := 1
	if cfg.Parallel {
		workers = e.workers()
		if workers > sims {
			workers = sims
		}
	}

	if workers == 1 {
		sim.run(paths, 0, sims)
	} else {
		var wg sync.WaitGroup
		simulationsPerWorker := sims / workers
		remainder := sims % workers
		lo := 0
		for w := 0; w < workers; w++ {
			hi := lo + simulationsPerWorker
			if w < remainder {
				hi++
			}
			wg.Add(1)
			go func(lo, hi int) {
				defer wg.Done()
				sim.run(paths, lo, hi)
			}(lo, hi)
			lo = hi
		}
		wg.Wait()
	}

	e.logger().Debug("simulated trajectories",
		"process", fmt.Sprintf("%T", p),
		"steps", steps, "simulations", sims,
		"parallel", cfg.Parallel, "workers", workers,
		"fractional", factor != nil,
		"duration", time.Since(start))

	return newTrajectories(times, paths), nil
}

type pathSimulator struct {
	process Process
	factor  *NoiseFactor
	x0      float64
	t0      float64
	dt      float64
	sqrtDt  float64
	steps   int
	seed    uint64
}

// run fills paths[lo:hi]. Each worker owns its scratch buffers and every
// path its own generator; the factor is only read.
func (s pathSimulator) run(paths [][]float64, lo, hi int) {
	var iid, noise []float64
	if s.factor != nil {
		iid = make([]float64, s.steps)
		noise = make([]float64, s.steps)
	}
	for i := lo; i < hi; i++ {
		s.path(paths[i], newPathRand(s.seed, i), iid, noise)
	}
}

func (s pathSimulator) path(dst []float64, rng *rand.Rand, iid, noise []float64) {
	if s.factor != nil {
		for j := range iid {
			iid[j] = rng.NormFloat64()
		}
		s.factor.Correlate(noise, iid)
	}

	dst[0] = s.x0
	for i := 0; i < s.steps; i++ {
		t := s.t0 + float64(i)*s.dt
		var z float64
		if noise != nil {
			z = noise[i]
		} else {
			z = rng.NormFloat64()
		}
		x := dst[i]
		dst[i+1] = x + s.process.Drift(x, t)*s.dt + s.process.Diffusion(x, t)*s.sqrtDt*z
	}
}
