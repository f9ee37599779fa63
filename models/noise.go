package models

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/mat"
)

// NoiseFactor turns i.i.d. standard normals into fractional Gaussian noise
// for one (hurst, steps, dt) grid. It is never mutated after construction
// and is shared read-only by every path generator.
type NoiseFactor struct {
	hurst float64
	steps int
	dt    float64
	lower *mat.TriDense
}

func (f *NoiseFactor) Hurst() float64 { return f.hurst }
func (f *NoiseFactor) Steps() int     { return f.steps }

// Correlate writes L*z into dst. Both slices must have length Steps().
func (f *NoiseFactor) Correlate(dst, z []float64) {
	out := mat.NewVecDense(f.steps, dst)
	out.MulVec(f.lower, mat.NewVecDense(f.steps, z))
}

// fgnAutocovariance is the lag-k autocovariance of unit fractional Gaussian noise.
func fgnAutocovariance(hurst float64, k int) float64 {
	h2 := 2 * hurst
	kf := float64(k)
	return 0.5 * (math.Pow(math.Abs(kf+1), h2) - 2*math.Pow(math.Abs(kf), h2) + math.Pow(math.Abs(kf-1), h2))
}

// NewNoiseFactor builds and factors the steps x steps covariance of the
// normalized increments z_i, where sqrt(dt)*z_i is the fBM increment over
// step i: Cov(z_i, z_j) = gamma(|i-j|) * dt^(2H-1).
func NewNoiseFactor(hurst float64, steps int, dt float64) (*NoiseFactor, error) {
	if err := checkHurst(hurst); err != nil {
		return nil, err
	}
	if steps < 1 || !(dt > 0) {
		return nil, fmt.Errorf("%w: steps=%d dt=%v", ErrInvalidConfig, steps, dt)
	}

	scale := math.Pow(dt, 2*hurst-1)
	cov := mat.NewSymDense(steps, nil)
	for i := 0; i < steps; i++ {
		for j := i; j < steps; j++ {
			cov.SetSym(i, j, fgnAutocovariance(hurst, j-i)*scale)
		}
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return nil, fmt.Errorf("%w: hurst=%v steps=%d", ErrFactorization, hurst, steps)
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	return &NoiseFactor{hurst: hurst, steps: steps, dt: dt, lower: &lower}, nil
}

type factorKey struct {
	hurst float64
	steps int
	dt    float64
}

type factorEntry struct {
	once   sync.Once
	factor *NoiseFactor
	err    error
}

// FactorCache hands out one NoiseFactor per (hurst, steps, dt). Concurrent
// callers asking for the same key wait on a single factorization.
type FactorCache struct {
	Logger *slog.Logger

	mu      sync.Mutex
	entries map[factorKey]*factorEntry
	builds  atomic.Int64
}

func NewFactorCache() *FactorCache {
	return &FactorCache{entries: make(map[factorKey]*factorEntry)}
}

func (c *FactorCache) Get(hurst float64, steps int, dt float64) (*NoiseFactor, error) {
	key := factorKey{hurst: hurst, steps: steps, dt: dt}

	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[factorKey]*factorEntry)
	}
	entry, ok := c.entries[key]
	if !ok {
		entry = &factorEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.once.Do(func() {
		start := time.Now()
		entry.factor, entry.err = NewNoiseFactor(hurst, steps, dt)
		c.builds.Add(1)
		if c.Logger != nil {
			c.Logger.Debug("built fractional noise factor",
				"hurst", hurst, "steps", steps, "dt", dt,
				"duration", time.Since(start), "error", entry.err)
		}
	})
	return entry.factor, entry.err
}

// Builds is the number of factorizations performed so far.
func (c *FactorCache) Builds() int {
	return int(c.builds.Load())
}

// Len is the number of cached keys, including failed ones.
func (c *FactorCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
