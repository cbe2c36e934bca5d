package chart

import (
	"errors"

	"github.com/vicanso/go-charts/v2"
)

var (
	ErrNoCandles     = errors.New("chart has no candlestick layer")
	ErrTooFewPoints  = errors.New("not enough data points")
	ErrLayerMismatch = errors.New("layer length does not match the candlestick layer")
)

// Renderer turns a chart specification into raster bytes.
type Renderer interface {
	Render(spec *Spec) ([]byte, error)
}

// PNGRenderer draws a Spec with go-charts. go-charts has no candle primitive, so the
// candlestick layer is drawn as its close line inside a high/low envelope.
type PNGRenderer struct {
	Width  int
	Height int
}

func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 1200
	}
	if height <= 0 {
		height = 700
	}
	return &PNGRenderer{Width: width, Height: height}
}

func (r *PNGRenderer) Render(spec *Spec) ([]byte, error) {
	if spec == nil || len(spec.Layers) == 0 || spec.Layers[0].Kind != LayerCandlestick {
		return nil, ErrNoCandles
	}
	candles := spec.Layers[0].Candles
	if len(candles) < 2 {
		return nil, ErrTooFewPoints
	}
	n := len(candles)
	null := charts.GetNullValue()

	high := make([]float64, n)
	closes := make([]float64, n)
	low := make([]float64, n)
	yMin, yMax := candles[0].Low, candles[0].High
	for i, c := range candles {
		high[i], closes[i], low[i] = c.High, c.Close, c.Low
		yMin, yMax = min(yMin, c.Low), max(yMax, c.High)
	}
	values := [][]float64{closes, high, low}
	names := []string{"Close", "High", "Low"}

	for _, l := range spec.Layers[1:] {
		if len(l.Values) != n || len(l.Defined) != n {
			return nil, ErrLayerMismatch
		}
		line := make([]float64, n)
		for i, v := range l.Values {
			if !l.Defined[i] {
				line[i] = null
				continue
			}
			line[i] = v
			yMin, yMax = min(yMin, v), max(yMax, v)
		}
		values = append(values, line)
		names = append(names, l.Name)
	}

	pad := (yMax - yMin) * 0.05
	if pad < yMax*0.002 {
		pad = yMax * 0.002
	}
	yMin -= pad
	if yMin < 0 {
		yMin = 0
	}
	yMax += pad

	x := make([]string, n)
	for i, c := range candles {
		x[i] = c.Date.Format("2006-01-02")
	}
	split := 12
	if n <= 30 {
		split = 6
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
	}
	painter, err := charts.Render(charts.ChartOption{SeriesList: seriesList},
		charts.TitleTextOptionFunc(spec.Title, spec.XAxisTitle+" / "+spec.YAxisTitle),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: x, BoundaryGap: charts.FalseFlag(), SplitNumber: split}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 6}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names, Left: charts.PositionRight}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(r.Width),
		charts.HeightOptionFunc(r.Height),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}
