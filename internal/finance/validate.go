package finance

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrNoData         = errors.New("no price data for the requested range")
	ErrMissingValue   = errors.New("contains null values")
	ErrNonFinite      = errors.New("price is not a finite number")
	ErrNegativeVolume = errors.New("volume is negative")
	ErrVolumeType     = errors.New("volume is not a whole number")
	ErrUnordered      = errors.New("dates are not in ascending order")
	ErrDuplicateDate  = errors.New("duplicate date")
)

// ValidationError pinpoints the first row that failed the integrity gate.
type ValidationError struct {
	Row   int
	Date  string
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d (%s): %v", e.Row, e.Date, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %s %v", e.Row, e.Date, e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate runs the integrity gate over raw provider rows and returns the immutable series.
// Nothing is repaired: the first violation rejects the whole series.
func Validate(symbol string, records []Record) (*PriceSeries, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}
	bars := make([]Bar, 0, len(records))
	for i, r := range records {
		day := r.Date.Format("2006-01-02")
		fail := func(field string, err error) error {
			return &ValidationError{Row: i, Date: day, Field: field, Err: err}
		}
		if r.Date.IsZero() {
			return nil, fail("date", ErrMissingValue)
		}
		prices := []struct {
			name string
			v    *float64
		}{{"open", r.Open}, {"high", r.High}, {"low", r.Low}, {"close", r.Close}}
		for _, p := range prices {
			if p.v == nil {
				return nil, fail(p.name, ErrMissingValue)
			}
			if math.IsNaN(*p.v) || math.IsInf(*p.v, 0) {
				return nil, fail(p.name, ErrNonFinite)
			}
		}
		if r.Volume == nil {
			return nil, fail("volume", ErrMissingValue)
		}
		vol := *r.Volume
		if math.IsNaN(vol) || math.IsInf(vol, 0) || vol != math.Trunc(vol) {
			return nil, fail("volume", ErrVolumeType)
		}
		if vol < 0 {
			return nil, fail("volume", ErrNegativeVolume)
		}
		if len(bars) > 0 {
			prev := bars[len(bars)-1].Date
			switch {
			case r.Date.Equal(prev):
				return nil, fail("", ErrDuplicateDate)
			case r.Date.Before(prev):
				return nil, fail("", ErrUnordered)
			}
		}
		bars = append(bars, Bar{
			Date:   r.Date,
			Open:   *r.Open,
			High:   *r.High,
			Low:    *r.Low,
			Close:  *r.Close,
			Volume: int64(vol),
		})
	}
	return &PriceSeries{Symbol: strings.ToUpper(symbol), Bars: bars}, nil
}
