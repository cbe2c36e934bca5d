package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaProvider reads daily bars from the Alpaca market data API (IEX feed).
type AlpacaProvider struct {
	data barsClient
}

func NewAlpacaProvider(apiKey, apiSecret string) *AlpacaProvider {
	return &AlpacaProvider{
		data: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (p *AlpacaProvider) Name() string { return "alpaca" }

func (p *AlpacaProvider) FetchDaily(ctx context.Context, req FetchRequest) ([]Record, error) {
	sym := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if sym == "" {
		return nil, errors.New("empty symbol")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := p.data.GetBars(sym, marketdata.GetBarsRequest{
		TimeFrame:  marketdata.OneDay,
		Adjustment: marketdata.Split,
		Start:      req.Start,
		End:        req.End,
		Feed:       marketdata.IEX,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca bars %s: %w", sym, err)
	}
	loc := getEasternTime()
	out := make([]Record, len(bars))
	for i, b := range bars {
		open, high, low, cl, vol := b.Open, b.High, b.Low, b.Close, float64(b.Volume)
		out[i] = Record{
			Date:   tradingDay(b.Timestamp.Unix(), loc),
			Open:   &open,
			High:   &high,
			Low:    &low,
			Close:  &cl,
			Volume: &vol,
		}
	}
	return out, nil
}
