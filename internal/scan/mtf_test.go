package scan

import (
	"context"
	"testing"
	"time"

	"breakout_bot/internal/models"

	"github.com/shopspring/decimal"
)

// fakeCandleSource serves canned windows keyed by timeframe, newest first,
// as the repo contract promises.
type fakeCandleSource struct {
	byTF map[string][]models.Candle
	err  error
}

func (f *fakeCandleSource) GetCandles(_ context.Context, _ int64, timeframe string, limit int) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	bars := f.byTF[timeframe]
	if len(bars) > limit {
		bars = bars[:limit]
	}
	out := make([]models.Candle, len(bars))
	copy(out, bars)
	return out, nil
}

// descCloses builds a newest-first window from ascending closes.
func descCloses(timeframe string, closes []float64) []models.Candle {
	base := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, 0, len(closes))
	for i := len(closes) - 1; i >= 0; i-- {
		c := decimal.NewFromFloat(closes[i])
		out = append(out, models.Candle{
			SymbolID:  1,
			Timeframe: timeframe,
			TS:        base.Add(time.Duration(i) * time.Hour),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		})
	}
	return out
}

func rising(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 0.1*float64(i)
	}
	return out
}

func flat(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100
	}
	return out
}

func TestConfirmerAllTimeframesAligned(t *testing.T) {
	src := &fakeCandleSource{byTF: map[string][]models.Candle{
		models.TF15m: descCloses(models.TF15m, rising(250)),
		models.TF1h:  descCloses(models.TF1h, rising(200)),
		models.TF4h:  descCloses(models.TF4h, rising(200)),
	}}
	if !NewConfirmer(src).Confirmed(context.Background(), 1) {
		t.Fatal("rising series on every timeframe should confirm")
	}
}

func TestConfirmerShortHistoryDenies(t *testing.T) {
	src := &fakeCandleSource{byTF: map[string][]models.Candle{
		models.TF15m: descCloses(models.TF15m, rising(250)),
		models.TF1h:  descCloses(models.TF1h, rising(200)),
		models.TF4h:  descCloses(models.TF4h, rising(49)), // below the floor
	}}
	if NewConfirmer(src).Confirmed(context.Background(), 1) {
		t.Fatal("confirmed despite too little 4h history")
	}
}

func TestConfirmerMissingResolutionDenies(t *testing.T) {
	src := &fakeCandleSource{byTF: map[string][]models.Candle{
		models.TF15m: descCloses(models.TF15m, rising(250)),
		models.TF4h:  descCloses(models.TF4h, rising(200)),
	}}
	if NewConfirmer(src).Confirmed(context.Background(), 1) {
		t.Fatal("confirmed with no 1h data at all")
	}
}

func TestConfirmerOneHourIsStrict(t *testing.T) {
	// flat 1h closes sit exactly on their SMA20; strict comparison denies
	src := &fakeCandleSource{byTF: map[string][]models.Candle{
		models.TF15m: descCloses(models.TF15m, rising(250)),
		models.TF1h:  descCloses(models.TF1h, flat(200)),
		models.TF4h:  descCloses(models.TF4h, rising(200)),
	}}
	if NewConfirmer(src).Confirmed(context.Background(), 1) {
		t.Fatal("1h close == SMA20 must not confirm")
	}
}

func TestConfirmerFourHourIsInclusive(t *testing.T) {
	// flat 4h closes sit exactly on their SMA20; inclusive comparison allows
	src := &fakeCandleSource{byTF: map[string][]models.Candle{
		models.TF15m: descCloses(models.TF15m, rising(250)),
		models.TF1h:  descCloses(models.TF1h, rising(200)),
		models.TF4h:  descCloses(models.TF4h, flat(200)),
	}}
	if !NewConfirmer(src).Confirmed(context.Background(), 1) {
		t.Fatal("4h close == SMA20 should still confirm")
	}
}
