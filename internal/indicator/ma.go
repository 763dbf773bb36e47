package indicator

// SMA is the arithmetic mean of the trailing window, defined from index
// window-1 on. Running sum keeps it linear.
func SMA(xs []float64, window int) []float64 {
	out := undefinedSeries(len(xs))
	if window <= 0 || len(xs) < window {
		return out
	}
	running := 0.0
	for _, v := range xs[:window] {
		running += v
	}
	out[window-1] = running / float64(window)
	for i := window; i < len(xs); i++ {
		running += xs[i] - xs[i-window]
		out[i] = running / float64(window)
	}
	return out
}

// EMA with alpha = 2/(period+1), seeded with the first input value.
func EMA(xs []float64, period int) []float64 {
	out := undefinedSeries(len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2 / float64(period+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// Wilder smoothing: seeded at index period-1 with the plain mean of the
// first period values, then out[i] = out[i-1] + (x[i]-out[i-1])/period.
// Used by RSI and ATR.
func Wilder(xs []float64, period int) []float64 {
	out := undefinedSeries(len(xs))
	if period <= 0 || len(xs) < period {
		return out
	}
	seed := 0.0
	for _, v := range xs[:period] {
		seed += v
	}
	out[period-1] = seed / float64(period)
	alpha := 1 / float64(period)
	for i := period; i < len(xs); i++ {
		out[i] = out[i-1] + alpha*(xs[i]-out[i-1])
	}
	return out
}

// PctFrom is the percent distance of close from a moving-average series.
// Undefined where the MA is undefined or zero.
func PctFrom(closes, ma []float64) []float64 {
	out := undefinedSeries(len(ma))
	for i, m := range ma {
		if Defined(m) && m != 0 {
			out[i] = 100 * (closes[i]/m - 1)
		}
	}
	return out
}

// TrendPct is the bar-over-bar percent change of an MA series, used to
// express slope.
func TrendPct(ma []float64) []float64 {
	out := undefinedSeries(len(ma))
	for i := 1; i < len(ma); i++ {
		if Defined(ma[i]) && Defined(ma[i-1]) && ma[i-1] != 0 {
			out[i] = 100 * (ma[i]/ma[i-1] - 1)
		}
	}
	return out
}
