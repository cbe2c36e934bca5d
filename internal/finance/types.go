package finance

import (
	"time"
)

// Record is one daily row exactly as a provider returned it. A nil field is a null cell.
type Record struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *float64
}

// Bar is a validated daily OHLCV row.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries is a validated daily series, ascending by date with unique dates.
// It is never mutated after Validate returns it.
type PriceSeries struct {
	Symbol string
	Bars   []Bar
}

// FetchRequest is the resolved user input for a price-series fetch.
type FetchRequest struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Date
	}
	return out
}

func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

func (s *PriceSeries) Volumes() []int64 {
	out := make([]int64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Head returns a copy of up to n leading bars, for previews.
func (s *PriceSeries) Head(n int) []Bar {
	if n > len(s.Bars) {
		n = len(s.Bars)
	}
	out := make([]Bar, n)
	copy(out, s.Bars[:n])
	return out
}

// yahooChartResp mirrors Yahoo v8 chart response (trimmed to needed fields).
// Quote cells are pointers so that nulls survive decoding.
type yahooChartResp struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol           string `json:"symbol"`
				ExchangeTimezone string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch cache entry
type fetchCacheEntry struct {
	createdAt time.Time
	records   []Record
}

const fetchCacheTTL = 60 * time.Second
