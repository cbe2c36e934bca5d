package finance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// fetchChart fetches the daily chart document for one symbol, retrying across hosts with backoff.
func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, start, end time.Time) (*yahooChartResp, error) {
	scheme := p.Scheme
	if scheme == "" {
		scheme = "https"
	}
	var lastErr error
	for attempt := 0; attempt < len(p.Backoffs)+1; attempt++ {
		for _, host := range p.Hosts {
			u := fmt.Sprintf("%s://%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=div,splits",
				scheme, host, url.PathEscape(symbol), start.Unix(), end.Unix())
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return nil, err
			}
			req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Safari/605.1.15")
			req.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
			req.Header.Set("Accept-Language", "en-US,en;q=0.9")
			req.Header.Set("Referer", fmt.Sprintf("https://finance.yahoo.com/quote/%s/chart", symbol))
			resp, err := p.Client.Do(req)
			if err != nil {
				if ctx.Err() != nil {
					return nil, fmt.Errorf("yahoo fetch: %w", ctx.Err())
				}
				lastErr = err
				continue
			}
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("failed to read yahoo response: %w", readErr)
				continue
			}
			if resp.StatusCode == http.StatusTooManyRequests || strings.HasPrefix(string(body), "Edge: Too Many Requests") {
				lastErr = fmt.Errorf("yahoo %s returned 429: Edge: Too Many Requests", host)
				continue
			}
			if resp.StatusCode == http.StatusNotFound {
				// Yahoo answers unknown tickers with 404 and a chart.error document
				var yc yahooChartResp
				if err := json.Unmarshal(body, &yc); err == nil && yc.Chart.Error != nil {
					return &yc, nil
				}
				return nil, fmt.Errorf("%s: %w", symbol, ErrUnknownSymbol)
			}
			if resp.StatusCode != http.StatusOK {
				lastErr = fmt.Errorf("yahoo %s returned %d: %s", host, resp.StatusCode, preview(body))
				continue
			}
			if strings.HasPrefix(string(body), "<") || strings.HasPrefix(string(body), "Edge:") {
				lastErr = fmt.Errorf("yahoo returned non-json body: %s", preview(body))
				continue
			}
			var yc yahooChartResp
			if err := json.Unmarshal(body, &yc); err != nil {
				lastErr = fmt.Errorf("failed to parse yahoo json: %v; body: %s", err, preview(body))
				continue
			}
			return &yc, nil
		}
		if attempt < len(p.Backoffs) {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("yahoo fetch: %w", ctx.Err())
			case <-time.After(p.Backoffs[attempt]):
			}
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("yahoo: no hosts configured")
	}
	return nil, lastErr
}

func preview(body []byte) string {
	s := string(body)
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}
