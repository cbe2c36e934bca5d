package indicator

import (
	"fmt"
	"strings"
)

// Kind identifies one of the supported overlays.
type Kind int

const (
	SMA20 Kind = iota + 1
	EMA20
	Bollinger20
	VWAPCum
)

const (
	Window      = 20
	BandStdDevs = 2.0
	emaSpan     = Window
)

var kindLabels = map[Kind]string{
	SMA20:       "20-Day SMA",
	EMA20:       "20-Day EMA",
	Bollinger20: "20-Day Bollinger Bands",
	VWAPCum:     "VWAP",
}

var kindAliases = map[string]Kind{
	"sma":                    SMA20,
	"sma20":                  SMA20,
	"20-day sma":             SMA20,
	"ema":                    EMA20,
	"ema20":                  EMA20,
	"20-day ema":             EMA20,
	"bb":                     Bollinger20,
	"bollinger":              Bollinger20,
	"20-day bollinger bands": Bollinger20,
	"vwap":                   VWAPCum,
}

func (k Kind) String() string {
	if l, ok := kindLabels[k]; ok {
		return l
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// AllKinds lists the supported indicators in menu order.
func AllKinds() []Kind { return []Kind{SMA20, EMA20, Bollinger20, VWAPCum} }

func DefaultSelection() []Kind { return []Kind{SMA20} }

func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown indicator %q", s)
	}
	return k, nil
}

// ParseSelection keeps the user's order and drops repeats.
func ParseSelection(items []string) ([]Kind, error) {
	out := make([]Kind, 0, len(items))
	seen := map[Kind]bool{}
	for _, it := range items {
		if strings.TrimSpace(it) == "" {
			continue
		}
		k, err := ParseKind(it)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}
