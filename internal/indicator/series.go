package indicator

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrBadWindow   = errors.New("window must be positive")
	ErrMalformed   = errors.New("malformed input")
	ErrLenMismatch = errors.New("close and volume lengths differ")
)

// Series is a derived line aligned to the price series' dates.
// Undefined points hold 0 with Defined[i] == false.
type Series struct {
	Name    string
	Dates   []time.Time
	Values  []float64
	Defined []bool
}

func newSeries(n int) Series {
	return Series{Values: make([]float64, n), Defined: make([]bool, n)}
}

func (s Series) Len() int { return len(s.Values) }

// At returns the value at i and whether it is defined.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.Values) || !s.Defined[i] {
		return 0, false
	}
	return s.Values[i], true
}

func (s *Series) set(i int, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	s.Values[i] = v
	s.Defined[i] = true
}

func checkFinite(name string, xs []float64) error {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s[%d] = %v: %w", name, i, x, ErrMalformed)
		}
	}
	return nil
}
