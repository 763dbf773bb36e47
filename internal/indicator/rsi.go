package indicator

// RSI, Wilder variant. Per-bar gain/loss from close deltas, both smoothed
// with Wilder averaging. When the average loss is exactly zero the value is
// 100 (the mathematical limit of 100-100/(1+RS) as RS grows), not undefined.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	au := Wilder(gains, period)
	ad := Wilder(losses, period)

	out := undefinedSeries(n)
	for i := 0; i < n; i++ {
		if !Defined(au[i]) || !Defined(ad[i]) {
			continue
		}
		if ad[i] == 0 {
			out[i] = 100
			continue
		}
		rs := au[i] / ad[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// StochRSI locates the current RSI inside its own trailing window:
// (RSI - min) / (max - min), 0 when the window is flat. Undefined unless
// every RSI value in the window is defined.
func StochRSI(rsi []float64, window int) []float64 {
	out := undefinedSeries(len(rsi))
	for i := window - 1; i < len(rsi); i++ {
		lo, hi := rsi[i], rsi[i]
		full := true
		for j := i - window + 1; j <= i; j++ {
			if !Defined(rsi[j]) {
				full = false
				break
			}
			if rsi[j] < lo {
				lo = rsi[j]
			}
			if rsi[j] > hi {
				hi = rsi[j]
			}
		}
		if !full {
			continue
		}
		if hi == lo {
			out[i] = 0
		} else {
			out[i] = (rsi[i] - lo) / (hi - lo)
		}
	}
	return out
}
