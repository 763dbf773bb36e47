package indicator

// VWAP is the cumulative volume-weighted typical price from the start of the
// supplied window (no session reset), with dist = percent distance of close
// from it. Undefined until some volume has accumulated.
func VWAP(highs, lows, closes, volumes []float64) (vwap, dist []float64) {
	n := len(closes)
	vwap = undefinedSeries(n)
	dist = undefinedSeries(n)
	cumPV, cumV := 0.0, 0.0
	for i := 0; i < n; i++ {
		tp := (highs[i] + lows[i] + closes[i]) / 3
		cumPV += tp * volumes[i]
		cumV += volumes[i]
		if cumV > 0 {
			vwap[i] = cumPV / cumV
			dist[i] = 100 * (closes[i]/vwap[i] - 1)
		}
	}
	return vwap, dist
}

// RelVol is the current volume over its SMA; undefined while the SMA is
// undefined or zero.
func RelVol(volumes []float64, window int) []float64 {
	sma := SMA(volumes, window)
	out := undefinedSeries(len(volumes))
	for i := range volumes {
		if Defined(sma[i]) && sma[i] != 0 {
			out[i] = volumes[i] / sma[i]
		}
	}
	return out
}

// OBV adds volume on up closes, subtracts on down closes, carries on flat.
// Seeded at zero.
func OBV(closes, volumes []float64) []float64 {
	out := undefinedSeries(len(closes))
	if len(closes) == 0 {
		return out
	}
	running := 0.0
	out[0] = 0
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			running += volumes[i]
		} else if delta < 0 {
			running -= volumes[i]
		}
		out[i] = running
	}
	return out
}
