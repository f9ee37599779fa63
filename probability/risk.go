package probability

import (
	"fmt"
	"sort"

	"github.com/bcdannyboy/sdequant/models"
	"gonum.org/v1/gonum/stat"
)

// losses returns the sorted losses of a long position bought at premium
// whose discounted values are given.
func losses(discounted []float64, premium float64) []float64 {
	out := make([]float64, len(discounted))
	for i, v := range discounted {
		out[i] = premium - v
	}
	sort.Float64s(out)
	return out
}

func checkConfidence(confidence float64) error {
	if !(confidence > 0 && confidence < 1) {
		return fmt.Errorf("%w: confidence must be in (0,1), got %v", models.ErrInvalidParameter, confidence)
	}
	return nil
}

// ValueAtRisk is the loss not exceeded with probability confidence.
func ValueAtRisk(discounted []float64, premium, confidence float64) (float64, error) {
	if err := checkConfidence(confidence); err != nil {
		return 0, err
	}
	if len(discounted) == 0 {
		return 0, fmt.Errorf("%w: no samples", models.ErrInvalidParameter)
	}
	return stat.Quantile(confidence, stat.Empirical, losses(discounted, premium), nil), nil
}

// ExpectedShortfall is the mean loss at or beyond the VaR.
func ExpectedShortfall(discounted []float64, premium, confidence float64) (float64, error) {
	v, err := ValueAtRisk(discounted, premium, confidence)
	if err != nil {
		return 0, err
	}
	l := losses(discounted, premium)
	i := sort.SearchFloat64s(l, v)
	return stat.Mean(l[i:], nil), nil
}

func (e *Estimate) ValueAtRisk(premium, confidence float64) (float64, error) {
	return ValueAtRisk(e.samples, premium, confidence)
}

func (e *Estimate) ExpectedShortfall(premium, confidence float64) (float64, error) {
	return ExpectedShortfall(e.samples, premium, confidence)
}
