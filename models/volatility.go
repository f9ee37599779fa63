package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bar is the open, high, low and close over consecutive grid points.
type Bar struct {
	Open, High, Low, Close float64
}

// Bars groups path i into bars of stepsPerBar steps. Bar j covers grid
// points j*stepsPerBar through (j+1)*stepsPerBar, so each bar opens at the
// previous close. A trailing partial bar is dropped.
func (t *Trajectories) Bars(i, stepsPerBar int) ([]Bar, error) {
	if i < 0 || i >= len(t.paths) {
		return nil, fmt.Errorf("%w: path index %d out of range [0, %d)", ErrInvalidParameter, i, len(t.paths))
	}
	if stepsPerBar < 1 || stepsPerBar > t.NumSteps() {
		return nil, fmt.Errorf("%w: steps per bar must be in [1, %d], got %d", ErrInvalidParameter, t.NumSteps(), stepsPerBar)
	}
	return bars(t.paths[i], stepsPerBar), nil
}

func bars(path []float64, stepsPerBar int) []Bar {
	n := (len(path) - 1) / stepsPerBar
	out := make([]Bar, n)
	for j := range out {
		seg := path[j*stepsPerBar : (j+1)*stepsPerBar+1]
		b := Bar{Open: seg[0], High: seg[0], Low: seg[0], Close: seg[len(seg)-1]}
		for _, v := range seg[1:] {
			b.High = math.Max(b.High, v)
			b.Low = math.Min(b.Low, v)
		}
		out[j] = b
	}
	return out
}

type VolatilityEstimator int

const (
	CloseToClose VolatilityEstimator = iota
	Parkinson
	GarmanKlass
	RogersSatchell
	YangZhang
)

var estimatorNames = [...]string{"close_to_close", "parkinson", "garman_klass", "rogers_satchell", "yang_zhang"}

func (e VolatilityEstimator) String() string {
	if e >= 0 && int(e) < len(estimatorNames) {
		return estimatorNames[e]
	}
	return fmt.Sprintf("VolatilityEstimator(%d)", int(e))
}

// VolatilityEstimators lists every estimator.
func VolatilityEstimators() []VolatilityEstimator {
	return []VolatilityEstimator{CloseToClose, Parkinson, GarmanKlass, RogersSatchell, YangZhang}
}

// RealizedVolatility estimates the volatility per unit time of the paths
// from bars of stepsPerBar steps. The per-bar variance is averaged across
// paths and scaled by the bar length. Every value must be positive.
func (t *Trajectories) RealizedVolatility(est VolatilityEstimator, stepsPerBar int) (float64, error) {
	if len(t.paths) == 0 {
		return 0, fmt.Errorf("%w: no paths", ErrInvalidParameter)
	}
	if stepsPerBar < 1 || stepsPerBar > t.NumSteps() {
		return 0, fmt.Errorf("%w: steps per bar must be in [1, %d], got %d", ErrInvalidParameter, t.NumSteps(), stepsPerBar)
	}
	nBars := t.NumSteps() / stepsPerBar
	if nBars < 2 && (est == CloseToClose || est == YangZhang) {
		return 0, fmt.Errorf("%w: %s needs at least two bars, got %d", ErrInvalidParameter, est, nBars)
	}

	variances := make([]float64, len(t.paths))
	for i, p := range t.paths {
		for _, v := range p {
			if !(v > 0) {
				return 0, fmt.Errorf("%w: %s needs positive paths, path %d reaches %v", ErrInvalidParameter, est, i, v)
			}
		}
		v, err := barVariance(est, bars(p, stepsPerBar))
		if err != nil {
			return 0, err
		}
		variances[i] = v
	}

	barLength := t.Horizon() * float64(stepsPerBar) / float64(t.NumSteps())
	return math.Sqrt(math.Max(stat.Mean(variances, nil), 0) / barLength), nil
}

// barVariance is the mean per-bar variance of log prices.
func barVariance(est VolatilityEstimator, bs []Bar) (float64, error) {
	n := len(bs)
	switch est {
	case CloseToClose:
		returns := make([]float64, n)
		for i, b := range bs {
			returns[i] = math.Log(b.Close / b.Open)
		}
		return stat.Variance(returns, nil), nil

	case Parkinson:
		sum := 0.0
		for _, b := range bs {
			hl := math.Log(b.High / b.Low)
			sum += hl * hl
		}
		return sum / (4 * float64(n) * math.Ln2), nil

	case GarmanKlass:
		sum := 0.0
		for _, b := range bs {
			hl := math.Log(b.High / b.Low)
			co := math.Log(b.Close / b.Open)
			sum += 0.5*hl*hl - (2*math.Ln2-1)*co*co
		}
		return sum / float64(n), nil

	case RogersSatchell:
		return rogersSatchell(bs), nil

	case YangZhang:
		overnight := make([]float64, n-1)
		openClose := make([]float64, n)
		for i, b := range bs {
			openClose[i] = math.Log(b.Close / b.Open)
			if i > 0 {
				overnight[i-1] = math.Log(b.Open / bs[i-1].Close)
			}
		}
		k := 0.34 / (1.34 + float64(n+1)/float64(n-1))
		var on float64
		if len(overnight) > 1 {
			on = stat.Variance(overnight, nil)
		}
		return on + k*stat.Variance(openClose, nil) + (1-k)*rogersSatchell(bs), nil
	}
	return 0, fmt.Errorf("%w: unknown volatility estimator %d", ErrInvalidParameter, int(est))
}

func rogersSatchell(bs []Bar) float64 {
	sum := 0.0
	for _, b := range bs {
		sum += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return sum / float64(len(bs))
}
