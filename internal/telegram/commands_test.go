package telegram

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"chartAnalystBot/internal/finance"
	"chartAnalystBot/internal/indicator"
	"chartAnalystBot/internal/session"
	"chartAnalystBot/internal/storage"
)

func TestParseFetchArgs(t *testing.T) {
	now := time.Date(2024, 12, 14, 15, 30, 0, 0, time.UTC)
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		symbol     string
		start, end string
		want       finance.FetchRequest
		wantErr    bool
	}{
		{"defaults to last year", "aapl", "", "", finance.FetchRequest{Symbol: "AAPL", Start: day(2023, 12, 15), End: day(2024, 12, 15)}, false},
		{"explicit range", "MSFT", "2023-01-01", "2024-12-14", finance.FetchRequest{Symbol: "MSFT", Start: day(2023, 1, 1), End: day(2024, 12, 14)}, false},
		{"start only", "spy", "2024-06-01", "", finance.FetchRequest{Symbol: "SPY", Start: day(2024, 6, 1), End: day(2024, 12, 15)}, false},
		{"inverted", "AAPL", "2024-12-14", "2024-01-01", finance.FetchRequest{}, true},
		{"bad date", "AAPL", "2024-13-40", "", finance.FetchRequest{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFetchArgs(tt.symbol, tt.start, tt.end, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseIndicatorArgs(t *testing.T) {
	tests := []struct {
		arg     string
		want    []indicator.Kind
		wantErr bool
	}{
		{"vwap sma", []indicator.Kind{indicator.VWAPCum, indicator.SMA20}, false},
		{"20-Day SMA, VWAP", []indicator.Kind{indicator.SMA20, indicator.VWAPCum}, false},
		{"ema ema bb", []indicator.Kind{indicator.EMA20, indicator.Bollinger20}, false},
		{"none", []indicator.Kind{}, false},
		{"rsi", nil, true},
	}
	for _, tt := range tests {
		got, err := parseIndicatorArgs(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.arg, got, tt.want)
		}
	}
}

func TestCommandRouting(t *testing.T) {
	if got := commandName("/Analyze@chart_bot now"); got != "/analyze" {
		t.Errorf("commandName = %q", got)
	}
	if got := commandName("hello"); got != "" {
		t.Errorf("plain text gave %q", got)
	}
	cases := map[string]string{
		"/fetch":      storage.CategoryData,
		"/indicators": storage.CategoryIndicators,
		"/chart":      storage.CategoryCharts,
		"/analyse":    storage.CategoryAnalysis,
		"/help":       storage.CategoryOther,
	}
	for cmd, want := range cases {
		if got := commandCategory(cmd); got != want {
			t.Errorf("commandCategory(%s) = %s, want %s", cmd, got, want)
		}
	}
	if !reFetch.MatchString("/fetch BRK-B 2023-01-01") || reFetch.MatchString("/fetch") {
		t.Error("reFetch mismatch")
	}
	if !reAnalyze.MatchString("/analyse") || !reUsage.MatchString("/usage 30") {
		t.Error("command regex mismatch")
	}
}

func TestStatusText(t *testing.T) {
	snap := session.Snapshot{
		State:     session.ChartReady,
		Symbol:    "AAPL",
		Rows:      252,
		Selection: []indicator.Kind{indicator.SMA20, indicator.VWAPCum},
		Warnings:  []indicator.Failure{{Kind: indicator.EMA20, Err: indicator.ErrMalformed}},
	}
	txt := statusText(snap)
	for _, want := range []string{"AAPL", "252 rows", indicator.SMA20.String(), "Error adding indicator"} {
		if !strings.Contains(txt, want) {
			t.Errorf("status text missing %q:\n%s", want, txt)
		}
	}
}
