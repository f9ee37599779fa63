package models

import (
	"gonum.org/v1/gonum/stat"
)

// Trajectories is the immutable output of one simulation: the time grid
// and one path per simulation index. Accessors return copies.
type Trajectories struct {
	times []float64
	paths [][]float64
}

// newTrajectories takes ownership of times and paths.
func newTrajectories(times []float64, paths [][]float64) *Trajectories {
	return &Trajectories{times: times, paths: paths}
}

// Len is the number of simulated paths.
func (t *Trajectories) Len() int { return len(t.paths) }

// NumSteps is the number of steps per path.
func (t *Trajectories) NumSteps() int { return len(t.times) - 1 }

func (t *Trajectories) Times() []float64 {
	return append([]float64(nil), t.times...)
}

// Horizon is the length of the time grid.
func (t *Trajectories) Horizon() float64 {
	return t.times[len(t.times)-1] - t.times[0]
}

// Path returns a copy of path i.
func (t *Trajectories) Path(i int) []float64 {
	return append([]float64(nil), t.paths[i]...)
}

// Paths returns a deep copy of every path.
func (t *Trajectories) Paths() [][]float64 {
	out := make([][]float64, len(t.paths))
	for i, p := range t.paths {
		out[i] = append([]float64(nil), p...)
	}
	return out
}

// Each calls fn for every path in index order. path is a scratch copy
// reused between calls, so fn may modify it but must not retain it.
func (t *Trajectories) Each(fn func(i int, path []float64)) {
	buf := make([]float64, len(t.times))
	for i, p := range t.paths {
		copy(buf, p)
		fn(i, buf)
	}
}

// TerminalValues is the last column across all paths.
func (t *Trajectories) TerminalValues() []float64 {
	last := len(t.times) - 1
	out := make([]float64, len(t.paths))
	for i, p := range t.paths {
		out[i] = p[last]
	}
	return out
}

// MeanPath is the elementwise average across paths.
func (t *Trajectories) MeanPath() []float64 {
	mean := make([]float64, len(t.times))
	if len(t.paths) == 0 {
		return mean
	}
	for _, p := range t.paths {
		for j, v := range p {
			mean[j] += v
		}
	}
	n := float64(len(t.paths))
	for j := range mean {
		mean[j] /= n
	}
	return mean
}

// TerminalStats returns the mean and sample standard deviation of the
// terminal values.
func (t *Trajectories) TerminalStats() (mean, stddev float64) {
	return stat.MeanStdDev(t.TerminalValues(), nil)
}

// Filter returns a new Trajectories holding copies of the paths for which
// keep reports true, in their original order.
func (t *Trajectories) Filter(keep func(path []float64) bool) *Trajectories {
	var paths [][]float64
	for _, p := range t.paths {
		if keep(p) {
			paths = append(paths, append([]float64(nil), p...))
		}
	}
	return newTrajectories(t.Times(), paths)
}
