package finance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Provider returns raw daily rows for a symbol; it never validates or repairs them.
type Provider interface {
	FetchDaily(ctx context.Context, req FetchRequest) ([]Record, error)
	Name() string
}

var ErrUnknownSymbol = errors.New("symbol not found")

// YahooProvider fetches daily bars from the Yahoo v8 chart endpoint, rotating hosts on failure.
type YahooProvider struct {
	Client   *http.Client
	Hosts    []string
	Scheme   string
	Backoffs []time.Duration
}

func NewYahooProvider(proxyURL string) *YahooProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooProvider{
		Client:   &http.Client{Timeout: 30 * time.Second, Transport: transport},
		Hosts:    []string{"query1.finance.yahoo.com", "query2.finance.yahoo.com"},
		Scheme:   "https",
		Backoffs: []time.Duration{200 * time.Millisecond, 500 * time.Millisecond, 1 * time.Second},
	}
}

func (p *YahooProvider) Name() string { return "yahoo" }

func (p *YahooProvider) FetchDaily(ctx context.Context, req FetchRequest) ([]Record, error) {
	sym := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if sym == "" {
		return nil, errors.New("empty symbol")
	}
	if !req.End.After(req.Start) {
		return nil, fmt.Errorf("end %s is not after start %s", req.End.Format("2006-01-02"), req.Start.Format("2006-01-02"))
	}
	yc, err := p.fetchChart(ctx, sym, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if yc.Chart.Error != nil {
		if yc.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%s: %w", sym, ErrUnknownSymbol)
		}
		return nil, fmt.Errorf("yahoo api error: %s", yc.Chart.Error.Description)
	}
	if len(yc.Chart.Result) == 0 {
		return nil, fmt.Errorf("%s: %w", sym, ErrUnknownSymbol)
	}
	res := yc.Chart.Result[0]
	loc := exchangeLocation(res.Meta.ExchangeTimezone)
	out := make([]Record, len(res.Timestamp))
	if len(res.Indicators.Quote) == 0 {
		// shape mismatch is left for the validation gate
		for i, ts := range res.Timestamp {
			out[i] = Record{Date: tradingDay(ts, loc)}
		}
		return out, nil
	}
	q := res.Indicators.Quote[0]
	at := func(col []*float64, i int) *float64 {
		if i >= len(col) {
			return nil
		}
		return col[i]
	}
	for i, ts := range res.Timestamp {
		out[i] = Record{
			Date:   tradingDay(ts, loc),
			Open:   at(q.Open, i),
			High:   at(q.High, i),
			Low:    at(q.Low, i),
			Close:  at(q.Close, i),
			Volume: at(q.Volume, i),
		}
	}
	return out, nil
}
