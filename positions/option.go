package positions

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bcdannyboy/sdequant/daycount"
	"github.com/bcdannyboy/sdequant/models"
)

var ErrInvalidContract = errors.New("invalid option contract")

type TypeFlag int

const (
	Call TypeFlag = iota
	Put
)

func (f TypeFlag) String() string {
	switch f {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("TypeFlag(%d)", int(f))
}

func ParseTypeFlag(s string) (TypeFlag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: unknown option type %q", ErrInvalidContract, s)
}

type StrikeFlag int

const (
	Fixed StrikeFlag = iota
	Floating
)

func (f StrikeFlag) String() string {
	if f == Floating {
		return "floating"
	}
	return "fixed"
}

// OptionContract holds the terms shared by every option style.
type OptionContract struct {
	Flag       TypeFlag
	StrikeFlag StrikeFlag
	Valuation  time.Time
	Expiry     time.Time
}

func NewOptionContract(flag TypeFlag, strikeFlag StrikeFlag, valuation, expiry time.Time) (OptionContract, error) {
	c := OptionContract{Flag: flag, StrikeFlag: strikeFlag, Valuation: valuation, Expiry: expiry}
	if err := c.Validate(); err != nil {
		return OptionContract{}, err
	}
	return c, nil
}

func (c OptionContract) Validate() error {
	if c.Flag != Call && c.Flag != Put {
		return fmt.Errorf("%w: %v", ErrInvalidContract, c.Flag)
	}
	if c.StrikeFlag != Fixed && c.StrikeFlag != Floating {
		return fmt.Errorf("%w: strike flag %d", ErrInvalidContract, int(c.StrikeFlag))
	}
	if !c.Expiry.After(c.Valuation) {
		return fmt.Errorf("%w: expiry %s must be after valuation %s",
			ErrInvalidContract, c.Expiry.Format(time.DateOnly), c.Valuation.Format(time.DateOnly))
	}
	return nil
}

// TimeToMaturity is the year fraction from valuation to expiry.
func (c OptionContract) TimeToMaturity(basis daycount.Convention) (float64, error) {
	return daycount.YearFraction(c.Valuation, c.Expiry, basis)
}

// SimulationConfig builds a run over [0, time to maturity].
func (c OptionContract) SimulationConfig(x0 float64, steps, sims int, parallel bool, basis daycount.Convention) (models.SimulationConfig, error) {
	t, err := c.TimeToMaturity(basis)
	if err != nil {
		return models.SimulationConfig{}, err
	}
	cfg := models.NewSimulationConfig(x0, 0, t, steps, sims, parallel)
	return cfg, cfg.Validate()
}

func checkStrike(strike float64) error {
	if !(strike > 0) || math.IsInf(strike, 0) {
		return fmt.Errorf("%w: strike must be positive, got %v", ErrInvalidContract, strike)
	}
	return nil
}

func intrinsic(flag TypeFlag, underlying, strike float64) float64 {
	if flag == Call {
		return math.Max(underlying-strike, 0)
	}
	return math.Max(strike-underlying, 0)
}
