package chart

import (
	"bytes"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"chartAnalystBot/internal/finance"
	"chartAnalystBot/internal/indicator"
	"chartAnalystBot/internal/storage"
)

func tradingYear(n int) *finance.PriceSeries {
	s := &finance.PriceSeries{Symbol: "AAPL"}
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 150 + 20*math.Sin(float64(i)/15)
		s.Bars = append(s.Bars, finance.Bar{Date: d, Open: c - 0.5, High: c + 2, Low: c - 2, Close: c, Volume: int64(1e6 + i)})
		d = d.AddDate(0, 0, 1)
		for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
	}
	return s
}

func buildFor(t *testing.T, s *finance.PriceSeries, labels ...string) *Spec {
	t.Helper()
	kinds, err := indicator.ParseSelection(labels)
	if err != nil {
		t.Fatal(err)
	}
	results, failures := indicator.NewEngine().Compute(s, kinds)
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	return Build(s, results)
}

func TestBuild_SMAandVWAPGivesThreeLayers(t *testing.T) {
	spec := buildFor(t, tradingYear(252), "20-Day SMA", "VWAP")
	want := []string{"Candlestick", "SMA (20)", "VWAP"}
	if got := spec.LayerNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("layers = %v, want %v", got, want)
	}
	if spec.Layers[0].Kind != LayerCandlestick || len(spec.Layers[0].Candles) != 252 {
		t.Errorf("first layer must be the full candlestick, got %v with %d candles", spec.Layers[0].Kind, len(spec.Layers[0].Candles))
	}
	if spec.RangeSlider {
		t.Error("range slider should be disabled by default")
	}
}

func TestBuild_PreservesSelectionOrder(t *testing.T) {
	spec := buildFor(t, tradingYear(60), "VWAP", "bb", "ema")
	want := []string{"Candlestick", "VWAP", "BB Upper", "BB Lower", "EMA (20)"}
	if got := spec.LayerNames(); !reflect.DeepEqual(got, want) {
		t.Fatalf("layers = %v, want %v", got, want)
	}
}

func TestBuild_NoIndicatorsStillHasCandles(t *testing.T) {
	spec := Build(tradingYear(10), nil)
	if len(spec.Layers) != 1 || spec.Layers[0].Kind != LayerCandlestick {
		t.Fatalf("unexpected layers %v", spec.LayerNames())
	}
}

func TestBuild_Deterministic(t *testing.T) {
	s := tradingYear(120)
	kinds := []indicator.Kind{indicator.Bollinger20, indicator.SMA20, indicator.VWAPCum}
	results, _ := indicator.NewEngine().Compute(s, kinds)
	a := Build(s, results)
	b := Build(s, results)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("repeated builds differ")
	}
	a.Layers[1].Values[30] = -1
	if b.Layers[1].Values[30] == -1 || results[0].Lines[0].Values[30] == -1 {
		t.Fatal("builds share backing arrays")
	}
}

func TestPNGRenderer_Render(t *testing.T) {
	spec := buildFor(t, tradingYear(80), "sma", "bb", "vwap")
	img, err := NewPNGRenderer(800, 500).Render(spec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Fatalf("output is not a PNG (%d bytes)", len(img))
	}
}

func TestPNGRenderer_Rejects(t *testing.T) {
	r := NewPNGRenderer(0, 0)
	if _, err := r.Render(nil); err != ErrNoCandles {
		t.Errorf("nil spec err = %v", err)
	}
	if _, err := r.Render(Build(tradingYear(1), nil)); err != ErrTooFewPoints {
		t.Errorf("single bar err = %v", err)
	}
	spec := Build(tradingYear(5), nil)
	spec.Layers = append(spec.Layers, Layer{Kind: LayerLine, Name: "bad", Values: []float64{1}, Defined: []bool{true}})
	if _, err := r.Render(spec); err != ErrLayerMismatch {
		t.Errorf("mismatch err = %v", err)
	}
}

func TestFormatUsageText(t *testing.T) {
	stats := map[string]*storage.UsageStats{
		storage.CategoryAnalysis: {Count: 1, Commands: map[string]int{"/analyze": 1}},
		storage.CategoryData:     {Count: 3, Commands: map[string]int{"/fetch": 3}},
	}
	out := FormatUsageText(stats, 7)
	if !strings.Contains(out, "Total commands: 4") {
		t.Errorf("missing total in %q", out)
	}
	if strings.Index(out, "AI Analysis") > strings.Index(out, "Price Data") {
		t.Errorf("categories not sorted: %q", out)
	}
	if _, err := MakeUsageChart(nil, 7); err == nil {
		t.Error("expected error for empty stats")
	}
}
