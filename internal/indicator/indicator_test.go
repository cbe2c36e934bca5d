package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"chartAnalystBot/internal/finance"
)

const eps = 1e-9

func closesWave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i)*0.1
	}
	return out
}

func series(closes []float64, volumes []int64) *finance.PriceSeries {
	s := &finance.PriceSeries{Symbol: "TEST"}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Bars = append(s.Bars, finance.Bar{
			Date: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: volumes[i],
		})
	}
	return s
}

func constVolumes(n int, v int64) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSMA_MatchesWindowMean(t *testing.T) {
	closes := closesWave(60)
	s, err := SMA(closes, 20)
	if err != nil {
		t.Fatal(err)
	}
	for i := range closes {
		v, ok := s.At(i)
		if i < 19 {
			if ok {
				t.Fatalf("SMA defined at %d before window fills", i)
			}
			continue
		}
		sum := 0.0
		for j := i - 19; j <= i; j++ {
			sum += closes[j]
		}
		if !ok || math.Abs(v-sum/20) > eps {
			t.Fatalf("SMA[%d] = %v (ok=%v), want %v", i, v, ok, sum/20)
		}
	}
}

func TestSMA_ShortSeriesAllUndefined(t *testing.T) {
	s, err := SMA(closesWave(5), 20)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < s.Len(); i++ {
		if _, ok := s.At(i); ok {
			t.Fatalf("point %d should be undefined", i)
		}
	}
}

func TestEMA_AdjustedWeights(t *testing.T) {
	closes := closesWave(40)
	s, err := EMA(closes, 20)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := s.At(0); !ok || v != closes[0] {
		t.Fatalf("EMA[0] = %v (ok=%v), want %v", v, ok, closes[0])
	}
	decay := 1 - 2.0/21
	for _, i := range []int{1, 7, 39} {
		var num, den float64
		for k := 0; k <= i; k++ {
			w := math.Pow(decay, float64(k))
			num += w * closes[i-k]
			den += w
		}
		v, ok := s.At(i)
		if !ok || math.Abs(v-num/den) > 1e-7 {
			t.Errorf("EMA[%d] = %v, want %v", i, v, num/den)
		}
	}
}

func TestBollinger_WidthIsFourSigma(t *testing.T) {
	closes := closesWave(50)
	upper, lower, err := Bollinger(closes, 20, 2)
	if err != nil {
		t.Fatal(err)
	}
	for i := range closes {
		u, okU := upper.At(i)
		l, okL := lower.At(i)
		if i < 19 {
			if okU || okL {
				t.Fatalf("bands defined at %d before window fills", i)
			}
			continue
		}
		w := closes[i-19 : i+1]
		mean := 0.0
		for _, c := range w {
			mean += c
		}
		mean /= 20
		ss := 0.0
		for _, c := range w {
			ss += (c - mean) * (c - mean)
		}
		sigma := math.Sqrt(ss / 19)
		if math.Abs((u-l)-4*sigma) > 1e-7 {
			t.Fatalf("width at %d = %v, want %v", i, u-l, 4*sigma)
		}
	}
}

func TestVWAP_Cumulative(t *testing.T) {
	closes := []float64{10, 11, 12, 13}
	vols := []int64{0, 0, 100, 300}
	s, err := VWAP(closes, vols)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, ok := s.At(i); ok {
			t.Errorf("VWAP[%d] should be undefined with zero cumulative volume", i)
		}
		if math.IsNaN(s.Values[i]) {
			t.Errorf("VWAP[%d] leaked NaN", i)
		}
	}
	if v, _ := s.At(2); v != 12 {
		t.Errorf("VWAP[2] = %v, want 12", v)
	}
	want := (12*100 + 13*300) / 400.0
	if v, _ := s.At(3); math.Abs(v-want) > eps {
		t.Errorf("VWAP[3] = %v, want %v", v, want)
	}
}

func TestEngine_IsolatesFailures(t *testing.T) {
	n := 30
	vols := constVolumes(n, 1000)
	vols[10] = -1
	s := series(closesWave(n), vols)

	results, failures := NewEngine().Compute(s, []Kind{SMA20, VWAPCum, Bollinger20})
	if len(failures) != 1 || failures[0].Kind != VWAPCum {
		t.Fatalf("failures = %+v, want only VWAP", failures)
	}
	if !errors.Is(failures[0], ErrMalformed) {
		t.Errorf("failure err = %v, want ErrMalformed", failures[0].Err)
	}
	if len(results) != 2 || results[0].Kind != SMA20 || results[1].Kind != Bollinger20 {
		t.Fatalf("results = %+v, want SMA then Bollinger", results)
	}
	if len(results[1].Lines) != 2 || results[1].Lines[0].Name != "BB Upper" || results[1].Lines[1].Name != "BB Lower" {
		t.Errorf("unexpected Bollinger lines: %+v", results[1].Lines)
	}
	if len(results[0].Lines[0].Dates) != n {
		t.Errorf("dates not aligned: %d", len(results[0].Lines[0].Dates))
	}
}

func TestEngine_RecoversPanics(t *testing.T) {
	saved := computations[EMA20]
	computations[EMA20] = func(*finance.PriceSeries) ([]Series, error) { panic("boom") }
	defer func() { computations[EMA20] = saved }()

	s := series(closesWave(25), constVolumes(25, 10))
	results, failures := NewEngine().Compute(s, []Kind{EMA20, SMA20})
	if len(failures) != 1 || failures[0].Kind != EMA20 {
		t.Fatalf("failures = %+v", failures)
	}
	if len(results) != 1 || results[0].Kind != SMA20 {
		t.Fatalf("results = %+v", results)
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		in      []string
		want    []Kind
		wantErr bool
	}{
		{[]string{"20-Day SMA", "VWAP"}, []Kind{SMA20, VWAPCum}, false},
		{[]string{"vwap", "bb", "sma", "vwap"}, []Kind{VWAPCum, Bollinger20, SMA20}, false},
		{[]string{"EMA", ""}, []Kind{EMA20}, false},
		{[]string{"rsi"}, nil, true},
	}
	for _, tt := range tests {
		got, err := ParseSelection(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseSelection(%v) err = %v", tt.in, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("ParseSelection(%v) = %v, want %v", tt.in, got, tt.want)
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseSelection(%v)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
