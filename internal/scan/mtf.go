package scan

import (
	"context"

	"breakout_bot/internal/indicator"
	"breakout_bot/internal/models"
)

// CandleSource loads a newest-first bar window for a symbol/timeframe.
type CandleSource interface {
	GetCandles(ctx context.Context, symbolID int64, timeframe string, limit int) ([]models.Candle, error)
}

const mtfMinBars = 50

// Confirmer checks higher-timeframe alignment for a fired candidate:
//
//	15m: close > SMA20 and close > SMA50
//	1h:  close > SMA20 (strict)
//	4h:  close >= SMA20 (inclusive)
//
// The strict/inclusive split between 1h and 4h is intentional. Missing or
// short data on any resolution means "not confirmed", never an error.
type Confirmer struct {
	candles CandleSource
	windows map[string]int
}

func NewConfirmer(candles CandleSource) *Confirmer {
	return &Confirmer{
		candles: candles,
		windows: map[string]int{
			models.TF15m: 250,
			models.TF1h:  200,
			models.TF4h:  200,
		},
	}
}

func (c *Confirmer) Confirmed(ctx context.Context, symbolID int64) bool {
	c15, sma20x15, sma50x15, ok := c.latest(ctx, symbolID, models.TF15m)
	if !ok || !indicator.Defined(sma20x15) || !indicator.Defined(sma50x15) {
		return false
	}
	c1h, sma20x1h, _, ok := c.latest(ctx, symbolID, models.TF1h)
	if !ok || !indicator.Defined(sma20x1h) {
		return false
	}
	c4h, sma20x4h, _, ok := c.latest(ctx, symbolID, models.TF4h)
	if !ok || !indicator.Defined(sma20x4h) {
		return false
	}

	return c15 > sma20x15 && c15 > sma50x15 &&
		c1h > sma20x1h &&
		c4h >= sma20x4h
}

// latest returns the last close and its SMA20/SMA50 for one resolution.
// ok is false on load failure or fewer than mtfMinBars bars.
func (c *Confirmer) latest(ctx context.Context, symbolID int64, timeframe string) (close, sma20, sma50 float64, ok bool) {
	limit := c.windows[timeframe]
	if limit == 0 {
		limit = 200
	}
	bars, err := c.candles.GetCandles(ctx, symbolID, timeframe, limit)
	if err != nil || len(bars) < mtfMinBars {
		return 0, 0, 0, false
	}
	models.ReverseCandles(bars)

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close.InexactFloat64()
	}
	idx := len(closes) - 1
	return closes[idx], indicator.SMA(closes, 20)[idx], indicator.SMA(closes, 50)[idx], true
}
