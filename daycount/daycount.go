package daycount

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrDateOrder         = errors.New("daycount: end date before start date")
	ErrUnknownConvention = errors.New("daycount: unknown convention")
)

// Convention names a day count basis.
type Convention string

const (
	Actual360   Convention = "ACT/360"
	Actual365F  Convention = "ACT/365F"
	Actual36525 Convention = "ACT/365.25"
	Thirty360E  Convention = "30E/360"
)

const DefaultBasis = Actual365F

// ParseConvention accepts the usual spellings, case-insensitively.
func ParseConvention(s string) (Convention, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ACT/365F", "ACT/365", "ACT365F":
		return Actual365F, nil
	case "ACT/360", "ACT360":
		return Actual360, nil
	case "ACT/365.25":
		return Actual36525, nil
	case "30E/360", "30/360":
		return Thirty360E, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownConvention, s)
}

// civil drops the clock time so DST shifts never produce fractional days.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days is the number of calendar days from start to end.
func Days(start, end time.Time) int {
	return int(civil(end).Sub(civil(start)).Hours() / 24)
}

// YearFraction computes the year fraction between two dates using the
// given convention.
func YearFraction(start, end time.Time, convention Convention) (float64, error) {
	if civil(end).Before(civil(start)) {
		return 0, fmt.Errorf("%w: %s before %s", ErrDateOrder, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	switch convention {
	case Actual360:
		return float64(Days(start, end)) / 360.0, nil
	case Actual365F:
		return float64(Days(start, end)) / 365.0, nil
	case Actual36525:
		return float64(Days(start, end)) / 365.25, nil
	case Thirty360E:
		// D1 and D2 are capped at 30
		d1 := start.Day()
		if d1 > 30 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 > 30 {
			d2 = 30
		}
		y1, m1 := start.Year(), int(start.Month())
		y2, m2 := end.Year(), int(end.Month())
		return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownConvention, string(convention))
}
