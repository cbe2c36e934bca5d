package indicator

import (
	"fmt"
	"log"

	"chartAnalystBot/internal/finance"
)

// Result holds the lines one indicator contributes to the chart, in drawing order.
type Result struct {
	Kind  Kind
	Lines []Series
}

// Failure reports an indicator that was omitted.
type Failure struct {
	Kind Kind
	Err  error
}

func (f Failure) Error() string { return fmt.Sprintf("Error adding indicator %s: %v", f.Kind, f.Err) }

func (f Failure) Unwrap() error { return f.Err }

type computeFunc func(s *finance.PriceSeries) ([]Series, error)

// computations maps each kind to its pure computation. A new indicator is a new
// Kind plus an entry here.
var computations = map[Kind]computeFunc{
	SMA20: func(s *finance.PriceSeries) ([]Series, error) {
		line, err := SMA(s.Closes(), Window)
		line.Name = "SMA (20)"
		return []Series{line}, err
	},
	EMA20: func(s *finance.PriceSeries) ([]Series, error) {
		line, err := EMA(s.Closes(), emaSpan)
		line.Name = "EMA (20)"
		return []Series{line}, err
	},
	Bollinger20: func(s *finance.PriceSeries) ([]Series, error) {
		upper, lower, err := Bollinger(s.Closes(), Window, BandStdDevs)
		upper.Name, lower.Name = "BB Upper", "BB Lower"
		return []Series{upper, lower}, err
	},
	VWAPCum: func(s *finance.PriceSeries) ([]Series, error) {
		line, err := VWAP(s.Closes(), s.Volumes())
		line.Name = "VWAP"
		return []Series{line}, err
	},
}

// Computer is what the session needs from the engine.
type Computer interface {
	Compute(s *finance.PriceSeries, kinds []Kind) ([]Result, []Failure)
}

// Engine computes indicators from scratch on every call.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Compute runs each selected indicator in isolation. A failing indicator is left
// out of the results and reported; the rest are still computed.
func (e *Engine) Compute(s *finance.PriceSeries, kinds []Kind) ([]Result, []Failure) {
	var (
		results  []Result
		failures []Failure
	)
	for _, k := range kinds {
		lines, err := computeOne(s, k)
		if err != nil {
			log.Printf("indicator: %s omitted: %v", k, err)
			failures = append(failures, Failure{Kind: k, Err: err})
			continue
		}
		results = append(results, Result{Kind: k, Lines: lines})
	}
	return results, failures
}

func computeOne(s *finance.PriceSeries, k Kind) (lines []Series, err error) {
	defer func() {
		if r := recover(); r != nil {
			lines, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	fn, ok := computations[k]
	if !ok {
		return nil, fmt.Errorf("unsupported indicator %s", k)
	}
	if s == nil {
		return nil, fmt.Errorf("no price series: %w", ErrMalformed)
	}
	lines, err = fn(s)
	if err != nil {
		return nil, err
	}
	dates := s.Dates()
	for i := range lines {
		lines[i].Dates = dates
	}
	return lines, nil
}
