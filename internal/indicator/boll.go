package indicator

import "math"

// Bollinger computes mid/upper/lower bands over a rolling window using the
// population standard deviation, plus width% (band spread relative to mid)
// and %B (close position inside the bands). Width is undefined when the mid
// is zero, %B when the bands collapse.
func Bollinger(closes []float64, window int, dev float64) (mid, upper, lower, widthPct, pctB []float64) {
	n := len(closes)
	mid = undefinedSeries(n)
	upper = undefinedSeries(n)
	lower = undefinedSeries(n)
	widthPct = undefinedSeries(n)
	pctB = undefinedSeries(n)
	if window <= 0 || n < window {
		return
	}

	for i := window - 1; i < n; i++ {
		mean := 0.0
		for j := i - window + 1; j <= i; j++ {
			mean += closes[j]
		}
		mean /= float64(window)

		variance := 0.0
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - mean
			variance += d * d
		}
		variance /= float64(window)
		std := math.Sqrt(variance)

		mid[i] = mean
		upper[i] = mean + dev*std
		lower[i] = mean - dev*std
		if mean != 0 {
			widthPct[i] = 100 * ((upper[i] - lower[i]) / mean)
		}
		if upper[i] != lower[i] {
			pctB[i] = (closes[i] - lower[i]) / (upper[i] - lower[i])
		}
	}
	return
}
