package indicator

import (
	"gonum.org/v1/gonum/stat"
)

// SMA is the trailing simple moving average over n closes, undefined for the first n-1 points.
func SMA(closes []float64, n int) (Series, error) {
	if n <= 0 {
		return Series{}, ErrBadWindow
	}
	if err := checkFinite("close", closes); err != nil {
		return Series{}, err
	}
	out := newSeries(len(closes))
	for i := n - 1; i < len(closes); i++ {
		out.set(i, stat.Mean(closes[i-n+1:i+1], nil))
	}
	return out, nil
}

// EMA is the adjusted exponentially weighted mean with alpha = 2/(span+1).
// Every point is defined; early points weight the few closes seen so far.
func EMA(closes []float64, span int) (Series, error) {
	if span <= 0 {
		return Series{}, ErrBadWindow
	}
	if err := checkFinite("close", closes); err != nil {
		return Series{}, err
	}
	decay := 1 - 2/(float64(span)+1)
	out := newSeries(len(closes))
	var num, den float64
	for i, c := range closes {
		num = c + decay*num
		den = 1 + decay*den
		out.set(i, num/den)
	}
	return out, nil
}

// Bollinger returns the upper and lower bands at k sample standard deviations around SMA(n).
func Bollinger(closes []float64, n int, k float64) (upper, lower Series, err error) {
	if n <= 1 {
		return Series{}, Series{}, ErrBadWindow
	}
	if err := checkFinite("close", closes); err != nil {
		return Series{}, Series{}, err
	}
	upper, lower = newSeries(len(closes)), newSeries(len(closes))
	for i := n - 1; i < len(closes); i++ {
		mean, std := stat.MeanStdDev(closes[i-n+1:i+1], nil)
		upper.set(i, mean+k*std)
		lower.set(i, mean-k*std)
	}
	return upper, lower, nil
}
