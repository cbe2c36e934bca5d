package chart

import (
	"fmt"
	"time"

	"chartAnalystBot/internal/finance"
	"chartAnalystBot/internal/indicator"
)

type LayerKind int

const (
	LayerCandlestick LayerKind = iota + 1
	LayerLine
)

func (k LayerKind) String() string {
	switch k {
	case LayerCandlestick:
		return "candlestick"
	case LayerLine:
		return "line"
	default:
		return fmt.Sprintf("LayerKind(%d)", int(k))
	}
}

// Layer is one drawable element. Candlestick layers carry Candles; line layers carry Values/Defined.
type Layer struct {
	Kind    LayerKind
	Name    string
	Dates   []time.Time
	Candles []finance.Bar
	Values  []float64
	Defined []bool
}

// Spec is a renderer-agnostic chart: the candlestick first, overlays after it in selection order.
type Spec struct {
	Title       string
	XAxisTitle  string
	YAxisTitle  string
	RangeSlider bool
	Layers      []Layer
}

// Build assembles the chart for a series and the indicator results, in the order given.
// All slices are copied, so repeated builds from the same inputs are deeply equal.
func Build(s *finance.PriceSeries, results []indicator.Result) *Spec {
	spec := &Spec{
		Title:       "Candlestick Chart for " + s.Symbol,
		XAxisTitle:  "Date",
		YAxisTitle:  "Price",
		RangeSlider: false,
		Layers: []Layer{{
			Kind:    LayerCandlestick,
			Name:    "Candlestick",
			Dates:   s.Dates(),
			Candles: s.Head(s.Len()),
		}},
	}
	for _, r := range results {
		for _, line := range r.Lines {
			spec.Layers = append(spec.Layers, Layer{
				Kind:    LayerLine,
				Name:    line.Name,
				Dates:   append([]time.Time(nil), line.Dates...),
				Values:  append([]float64(nil), line.Values...),
				Defined: append([]bool(nil), line.Defined...),
			})
		}
	}
	return spec
}

// LayerNames lists layer names in drawing order.
func (s *Spec) LayerNames() []string {
	out := make([]string, len(s.Layers))
	for i, l := range s.Layers {
		out[i] = l.Name
	}
	return out
}
