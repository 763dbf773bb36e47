package indicator

import "math"

// ATR is the Wilder smoothing of true range. TR for the first bar is
// high-low (no previous close), afterwards the usual
// max(high-low, |high-prevClose|, |low-prevClose|).
// ATR% is 100*ATR/close; a flat series legitimately has ATR% == 0.
func ATR(highs, lows, closes []float64, period int) (atr, atrPct []float64) {
	n := len(closes)
	trs := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == 0 {
			trs[i] = highs[i] - lows[i]
			continue
		}
		tr := highs[i] - lows[i]
		if hc := math.Abs(highs[i] - closes[i-1]); hc > tr {
			tr = hc
		}
		if lc := math.Abs(lows[i] - closes[i-1]); lc > tr {
			tr = lc
		}
		trs[i] = tr
	}

	atr = Wilder(trs, period)
	atrPct = undefinedSeries(n)
	for i := 0; i < n; i++ {
		if Defined(atr[i]) && closes[i] != 0 {
			atrPct[i] = 100 * (atr[i] / closes[i])
		}
	}
	return atr, atrPct
}
