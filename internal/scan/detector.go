package scan

import (
	"breakout_bot/internal/helper"
	"breakout_bot/internal/indicator"
	"breakout_bot/internal/models"
)

// Rule thresholds for breakout20_v1. These are part of the strategy identity,
// not tunables: changing them means a new strategy id.
const (
	minWindow   = 60  // bail out before computing anything on tiny windows
	minEvalIdx  = 200 // SMA200 must be defined at the evaluation index
	hhvWindow   = 10
	rsiPeriod   = 14
	relVolMin   = 1.5
	rsiLow      = 55.0
	rsiHigh     = 85.0
	vwapDistLow = -1.0
	vwapDistHi  = 5.0
	sma20DistLo = 2.0
	sma20DistHi = 12.0

	bbWindow       = 20
	bbDev          = 2.0
	bbPctileWindow = 60
	bbPctileLow    = 3.0
	bbPctileHigh   = 75.0
	bbMinSamples   = 10
	stochRSIWindow = 14
	atrPeriod      = 14
	relVolFastWin  = 10
	relVolSlowWin  = 20
)

// Detector evaluates breakout20_v1 against the most recent bar of an
// ascending window. Stateless and pure: every call recomputes the full
// indicator set, so it is safe to share across workers.
type Detector struct{}

func NewDetector() *Detector { return &Detector{} }

// Evaluate returns a candidate for the latest bar when every rule holds.
// Insufficient history is a silent no-fire.
func (d *Detector) Evaluate(symbolID int64, ticker, timeframe string, bars []models.Candle) (*models.Candidate, bool) {
	if len(bars) < minWindow {
		return nil, false
	}

	n := len(bars)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	vols := make([]float64, n)
	for i, b := range bars {
		closes[i] = b.Close.InexactFloat64()
		highs[i] = b.High.InexactFloat64()
		lows[i] = b.Low.InexactFloat64()
		vols[i] = float64(b.Volume)
	}

	rsi := indicator.RSI(closes, rsiPeriod)
	_, _, macdHist := indicator.MACD(closes)
	sma20 := indicator.SMA(closes, 20)
	sma50 := indicator.SMA(closes, 50)
	sma200 := indicator.SMA(closes, 200)
	pctFromSMA20 := indicator.PctFrom(closes, sma20)
	pctFromSMA50 := indicator.PctFrom(closes, sma50)
	pctFromSMA200 := indicator.PctFrom(closes, sma200)
	vwap, vwapDist := indicator.VWAP(highs, lows, closes, vols)
	relVol20 := indicator.RelVol(vols, relVolSlowWin)
	volSpike10 := indicator.RelVol(vols, relVolFastWin)
	atr14, atrPct := indicator.ATR(highs, lows, closes, atrPeriod)
	_, _, _, bbWidth, bbPct := indicator.Bollinger(closes, bbWindow, bbDev)
	obv := indicator.OBV(closes, vols)
	stochRSI := indicator.StochRSI(rsi, stochRSIWindow)
	trendSMA20 := indicator.TrendPct(sma20)
	trendSMA50 := indicator.TrendPct(sma50)
	trendSMA200 := indicator.TrendPct(sma200)

	idx := n - 1
	if idx < minEvalIdx {
		return nil, false
	}

	// 1. breakout above the 10 highs immediately preceding the current bar
	hhv10 := helper.MaxSlice(highs[idx-hhvWindow : idx])
	breakout := closes[idx] > hhv10

	// 2. volume confirmation
	rv20 := orZero(relVol20[idx])
	volumeOK := rv20 >= relVolMin

	// 3-6. momentum filters; undefined values fall back to 0 and fail
	rsiVal := orZero(rsi[idx])
	rsiOK := rsiVal >= rsiLow && rsiVal <= rsiHigh

	histVal := orZero(macdHist[idx])
	histPrev := orZero(macdHist[idx-1])
	macdOK := histVal > 0 && histVal-histPrev > 0

	vwapVal := orZero(vwapDist[idx])
	vwapOK := vwapVal >= vwapDistLow && vwapVal <= vwapDistHi

	pctSMA20 := orZero(pctFromSMA20[idx])
	pctSMA50 := orZero(pctFromSMA50[idx])
	smaOK := pctSMA20 >= sma20DistLo && pctSMA20 <= sma20DistHi && pctSMA50 >= 0

	// 7. volatility regime: current width inside [p3, p75] of the trailing
	// 60-bar width window, needing at least 10 defined samples
	bbOK := false
	if idx >= bbPctileWindow-1 && indicator.Defined(bbWidth[idx]) {
		window := make([]float64, 0, bbPctileWindow)
		for _, w := range bbWidth[idx-bbPctileWindow+1 : idx+1] {
			if indicator.Defined(w) {
				window = append(window, w)
			}
		}
		if len(window) >= bbMinSamples {
			p3 := helper.Percentile(window, bbPctileLow)
			p75 := helper.Percentile(window, bbPctileHigh)
			bbOK = bbWidth[idx] >= p3 && bbWidth[idx] <= p75
		}
	}

	if !(breakout && volumeOK && rsiOK && macdOK && vwapOK && smaOK && bbOK) {
		return nil, false
	}

	bar := bars[idx]
	features := map[string]float64{
		"close":  closes[idx],
		"high":   highs[idx],
		"volume": vols[idx],
		"hhv10":  hhv10,
	}
	putFeature(features, "rsi14", rsi[idx])
	putFeature(features, "macd_hist", macdHist[idx])
	putFeature(features, "macd_hist_prev", macdHist[idx-1])
	putFeature(features, "rel_vol_20", relVol20[idx])
	putFeature(features, "vol_spike10", volSpike10[idx])
	putFeature(features, "vwap", vwap[idx])
	putFeature(features, "vwapdist", vwapDist[idx])
	putFeature(features, "pct_from_sma20", pctFromSMA20[idx])
	putFeature(features, "pct_from_sma50", pctFromSMA50[idx])
	putFeature(features, "pct_from_sma200", pctFromSMA200[idx])
	putFeature(features, "bb_width", bbWidth[idx])
	putFeature(features, "bb_pct", bbPct[idx])
	putFeature(features, "atr14", atr14[idx])
	putFeature(features, "atrp", atrPct[idx])
	putFeature(features, "obv", obv[idx])
	putFeature(features, "stochrsi14", stochRSI[idx])
	putFeature(features, "trendsma20pct", trendSMA20[idx])
	putFeature(features, "trendsma50pct", trendSMA50[idx])
	putFeature(features, "trendsma200pct", trendSMA200[idx])

	sess := SessionFlag(bar.TS)
	features["session_flag"] = float64(sess)

	return &models.Candidate{
		SymbolID:    symbolID,
		Ticker:      ticker,
		Timeframe:   timeframe,
		FiredAt:     bar.TS,
		Price:       bar.Close,
		Features:    features,
		SessionFlag: sess,
	}, true
}

// putFeature skips undefined values so the map stays JSON-serializable.
func putFeature(m map[string]float64, key string, v float64) {
	if indicator.Defined(v) {
		m[key] = v
	}
}

func orZero(v float64) float64 {
	if indicator.Defined(v) {
		return v
	}
	return 0
}
