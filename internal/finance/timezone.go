package finance

import "time"

// getEasternTime returns America/New_York, falling back to fixed EST if tzdata is missing.
func getEasternTime() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", -5*3600)
	}
	return loc
}

// exchangeLocation resolves the exchange timezone Yahoo reports, defaulting to US Eastern.
func exchangeLocation(name string) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return getEasternTime()
}

// tradingDay maps a bar timestamp to its calendar date on the exchange, as midnight UTC.
func tradingDay(ts int64, loc *time.Location) time.Time {
	t := time.Unix(ts, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
