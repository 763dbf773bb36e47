package main

import (
	"context"
	"flag"
	"math"
	"strings"
	"time"

	"breakout_bot/internal/helper"
	"breakout_bot/internal/models"
	"breakout_bot/internal/modules/config"
	"breakout_bot/internal/pg/candles"
	"breakout_bot/internal/pg/symbols"
	"breakout_bot/internal/pg/universe"
	"breakout_bot/pkg/db"
	"breakout_bot/pkg/logger"

	"github.com/shopspring/decimal"
)

// Seeds deterministic synthetic bars for local runs: no vendor account
// needed to exercise the scanner end to end.
func main() {
	var (
		tickersArg = flag.String("tickers", "TEST1,TEST2", "comma-separated tickers to seed")
		timeframe  = flag.String("timeframe", models.TF5m, "bar timeframe")
		bars       = flag.Int("bars", 400, "bars per ticker")
	)
	flag.Parse()

	logger.Init()
	logger.SetServiceName("breakout-backfill")

	ctx := context.Background()
	tf := helper.NormTF(*timeframe)

	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("config: %v", err)
	}
	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: cfg.DB})
	if err != nil {
		logger.Fatal("pool: %v", err)
	}
	if err = pool.Ping(ctx); err != nil {
		logger.Fatal("ping: %v", err)
	}
	manager := db.NewPgTxManager(pool)
	defer manager.Close()

	symbolRepo := symbols.New(manager)
	candleRepo := candles.New(manager)
	universeRepo := universe.New(manager)

	step := tfStep(tf)
	end := time.Now().UTC().Truncate(step)

	for _, ticker := range strings.Split(*tickersArg, ",") {
		ticker = strings.TrimSpace(ticker)
		if ticker == "" {
			continue
		}
		symbolID, err := symbolRepo.Ensure(ctx, ticker, "SYNTH")
		if err != nil {
			logger.Fatal("ensure %s: %v", ticker, err)
		}
		window := synthSeries(symbolID, tf, end, step, *bars)
		if err = candleRepo.InsertCandles(ctx, window); err != nil {
			logger.Fatal("insert %s: %v", ticker, err)
		}
		if err = universeRepo.SetStatus(ctx, symbolID, models.UniverseActive); err != nil {
			logger.Fatal("universe %s: %v", ticker, err)
		}
		logger.Info("seeded %s: %d bars of %s ending %s", ticker, *bars, tf, end.Format(time.RFC3339))
	}
}

func tfStep(timeframe string) time.Duration {
	switch timeframe {
	case models.TF1m:
		return time.Minute
	case models.TF5m:
		return 5 * time.Minute
	case models.TF15m:
		return 15 * time.Minute
	case models.TF1h:
		return time.Hour
	case models.TF4h:
		return 4 * time.Hour
	case models.TF1d:
		return 24 * time.Hour
	default:
		return 5 * time.Minute
	}
}

// synthSeries builds a slow sine drift around 100 with a mild uptrend, so
// most indicator features are defined but nothing fires by construction.
func synthSeries(symbolID int64, timeframe string, end time.Time, step time.Duration, n int) []models.Candle {
	out := make([]models.Candle, 0, n)
	for i := 0; i < n; i++ {
		ts := end.Add(-time.Duration(n-1-i) * step)
		base := 100 + 0.01*float64(i) + 1.2*math.Sin(float64(i)/9)
		high := base + 0.3
		low := base - 0.3
		vol := int64(1000 + 100*int64(i%7))

		out = append(out, models.Candle{
			SymbolID:   symbolID,
			Timeframe:  timeframe,
			TS:         ts,
			Open:       decimal.NewFromFloat(base - 0.1),
			High:       decimal.NewFromFloat(high),
			Low:        decimal.NewFromFloat(low),
			Close:      decimal.NewFromFloat(base),
			Volume:     vol,
			Source:     "synthetic",
			IsAdjusted: false,
		})
	}
	return out
}
