package scan

import (
	"math"

	"breakout_bot/internal/indicator"
)

// ScoreInput carries the indicator values consulted by the composite score.
// Optional components use the undefined marker when their source indicator
// was not available.
type ScoreInput struct {
	Breakout     float64 // close/HHV10 - 1
	RelVol20     float64
	RSI          float64
	MACDHist     float64
	PctB         float64
	ATRPct       float64
	MTFConfirmed bool
}

// Score blends five additive sub-scores into a 0-100 composite:
// breakout 40, volume 25, momentum 20, multi-timeframe 10, risk 5.
// The raw sum can drift past 100 on extreme inputs, so it is clamped.
func Score(in ScoreInput) float64 {
	breakoutScore := 0.0
	if in.Breakout > 0 {
		breakoutScore = math.Min(in.Breakout/0.02, 1) * 40
	}

	volumeScore := 0.0
	if indicator.Defined(in.RelVol20) {
		volumeScore = math.Min(math.Max(in.RelVol20-1, 0), 1) * 25
	}

	bits := make([]float64, 0, 3)
	if indicator.Defined(in.RSI) {
		bits = append(bits, clamp01((in.RSI-50)/35))
	}
	if indicator.Defined(in.MACDHist) {
		if in.MACDHist > 0 {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}
	if indicator.Defined(in.PctB) {
		if in.PctB >= 0.3 && in.PctB <= 0.8 {
			bits = append(bits, 1)
		} else {
			bits = append(bits, 0)
		}
	}
	momentumScore := 0.0
	if len(bits) > 0 {
		sum := 0.0
		for _, b := range bits {
			sum += b
		}
		momentumScore = sum / float64(len(bits)) * 20
	}

	mtfScore := 0.0
	if in.MTFConfirmed {
		mtfScore = 10
	}

	riskScore := 0.0
	if indicator.Defined(in.ATRPct) {
		riskScore = (1 - math.Min(in.ATRPct/5, 1)) * 5
	}

	total := breakoutScore + volumeScore + momentumScore + mtfScore + riskScore
	return math.Min(math.Max(total, 0), 100)
}

func clamp01(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}
