package telegram

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"chartAnalystBot/internal/finance"
	"chartAnalystBot/internal/indicator"
	"chartAnalystBot/internal/session"
	"chartAnalystBot/internal/storage"
)

var (
	// /fetch SYMBOL [START] [END]
	reFetch = regexp.MustCompile(`^/fetch(?:@[\w_]+)?\s+([A-Za-z0-9\.^_=+-]+)(?:\s+(\d{4}-\d{2}-\d{2}))?(?:\s+(\d{4}-\d{2}-\d{2}))?$`)
	// /indicators [sma ema bb vwap]
	reIndicators = regexp.MustCompile(`^/indicators(?:@[\w_]+)?(?:\s+(.+))?$`)
	reChart      = regexp.MustCompile(`^/chart(?:@[\w_]+)?$`)
	reAnalyze    = regexp.MustCompile(`^/analy[sz]e(?:@[\w_]+)?$`)
	reStatus     = regexp.MustCompile(`^/status(?:@[\w_]+)?$`)
	reReset      = regexp.MustCompile(`^/reset(?:@[\w_]+)?$`)
	// /usage [days]
	reUsage = regexp.MustCompile(`^/usage(?:@[\w_]+)?(?:\s+(\d+))?$`)
	reHelp  = regexp.MustCompile(`^/(help|start)(?:@[\w_]+)?$`)
)

const dateLayout = "2006-01-02"

// parseFetchArgs resolves symbol and date bounds. Without dates the range is the
// year up to and including today; End is exclusive.
func parseFetchArgs(symbol, start, end string, now time.Time) (finance.FetchRequest, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	req := finance.FetchRequest{
		Symbol: strings.ToUpper(strings.TrimSpace(symbol)),
		End:    today.AddDate(0, 0, 1),
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return req, fmt.Errorf("bad end date %q: %w", end, err)
		}
		req.End = t
	}
	req.Start = req.End.AddDate(-1, 0, 0)
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return req, fmt.Errorf("bad start date %q: %w", start, err)
		}
		req.Start = t
	}
	if !req.End.After(req.Start) {
		return req, fmt.Errorf("start %s must be before end %s", req.Start.Format(dateLayout), req.End.Format(dateLayout))
	}
	return req, nil
}

// parseIndicatorArgs splits "sma, vwap bb" style input, keeping order.
func parseIndicatorArgs(arg string) ([]indicator.Kind, error) {
	arg = strings.TrimSpace(arg)
	if strings.EqualFold(arg, "none") {
		return []indicator.Kind{}, nil
	}
	var items []string
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if _, err := indicator.ParseKind(part); err == nil {
			items = append(items, part)
			continue
		}
		items = append(items, strings.Fields(part)...)
	}
	return indicator.ParseSelection(items)
}

func commandCategory(cmd string) string {
	switch cmd {
	case "/fetch":
		return storage.CategoryData
	case "/indicators":
		return storage.CategoryIndicators
	case "/chart":
		return storage.CategoryCharts
	case "/analyze", "/analyse":
		return storage.CategoryAnalysis
	default:
		return storage.CategoryOther
	}
}

func commandName(txt string) string {
	f := strings.Fields(txt)
	if len(f) == 0 || !strings.HasPrefix(f[0], "/") {
		return ""
	}
	name, _, _ := strings.Cut(f[0], "@")
	return strings.ToLower(name)
}

func selectionText(kinds []indicator.Kind) string {
	if len(kinds) == 0 {
		return "none"
	}
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

func statusText(snap session.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s\n", snap.State)
	if snap.Symbol != "" {
		fmt.Fprintf(&b, "Symbol: %s (%s → %s, %d rows)\n", snap.Symbol,
			snap.Request.Start.Format(dateLayout), snap.Request.End.Format(dateLayout), snap.Rows)
	}
	fmt.Fprintf(&b, "Indicators: %s\n", selectionText(snap.Selection))
	for _, w := range snap.Warnings {
		fmt.Fprintf(&b, "⚠️ %s\n", w.Error())
	}
	if snap.Failure != nil {
		fmt.Fprintf(&b, "Last error: %s\n", snap.Failure.Message())
	}
	return b.String()
}

func previewText(snap session.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Stock data loaded successfully! %s: %d rows\n\nFirst rows:\n", snap.Symbol, snap.Rows)
	b.WriteString("Date        Open     High     Low      Close    Volume\n")
	for _, bar := range snap.Preview {
		fmt.Fprintf(&b, "%s  %-8.2f %-8.2f %-8.2f %-8.2f %d\n",
			bar.Date.Format(dateLayout), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}
	return b.String()
}

const helpText = "Commands\n\n" +
	"- /fetch SYMBOL [START] [END] - Load daily prices (dates YYYY-MM-DD, default: last year)\n" +
	"- /indicators [sma ema bb vwap | none] - Show or set overlays, in the order given\n" +
	"- /chart - Candlestick chart with the selected indicators\n" +
	"- /analyze - AI buy/hold/sell recommendation from the chart\n" +
	"- /status - Current session state\n" +
	"- /reset - Discard the loaded data and selection\n" +
	"- /usage [days] - Command usage statistics (default: 7, max: 90)\n" +
	"\nIndicators: 20-Day SMA, 20-Day EMA, 20-Day Bollinger Bands, VWAP."
