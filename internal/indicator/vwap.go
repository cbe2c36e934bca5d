package indicator

import "fmt"

// VWAP is the cumulative volume-weighted close. Points where cumulative volume
// is still zero are undefined.
func VWAP(closes []float64, volumes []int64) (Series, error) {
	if len(closes) != len(volumes) {
		return Series{}, ErrLenMismatch
	}
	if err := checkFinite("close", closes); err != nil {
		return Series{}, err
	}
	out := newSeries(len(closes))
	var pv, vol float64
	for i, c := range closes {
		if volumes[i] < 0 {
			return Series{}, fmt.Errorf("volume[%d] = %d: %w", i, volumes[i], ErrMalformed)
		}
		pv += c * float64(volumes[i])
		vol += float64(volumes[i])
		if vol == 0 {
			continue
		}
		out.set(i, pv/vol)
	}
	return out, nil
}
