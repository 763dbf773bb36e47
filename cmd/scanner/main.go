package main

import (
	"context"
	"flag"
	"strings"

	"breakout_bot/internal/helper"
	"breakout_bot/internal/marketdata"
	"breakout_bot/internal/modules/config"
	"breakout_bot/internal/modules/postgres"
	"breakout_bot/internal/notify"
	"breakout_bot/internal/scan"
	"breakout_bot/pkg/logger"
	"breakout_bot/pkg/tracing"

	"go.uber.org/fx"
)

func main() {
	var (
		timeframe = flag.String("timeframe", "", "bar timeframe to scan (default from config)")
		tickers   = flag.String("tickers", "", "comma-separated tickers; empty means the active universe")
		history   = flag.Int("history", 0, "bars per detection window (default from config)")
	)
	flag.Parse()

	logger.Init()
	logger.SetServiceName("breakout-scanner")
	tracing.SetServiceName("breakout-scanner")

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			func(cfg *config.Config) scan.Request {
				if *history > 0 {
					cfg.Scan.HistoryLimit = *history
				}
				req := scan.Request{Timeframe: cfg.Scan.Timeframe}
				if *timeframe != "" {
					req.Timeframe = *timeframe
				}
				req.Timeframe = helper.NormTF(req.Timeframe)
				if *tickers != "" {
					for _, t := range strings.Split(*tickers, ",") {
						if t = strings.TrimSpace(t); t != "" {
							req.Tickers = append(req.Tickers, t)
						}
					}
				}
				return req
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if cfg.Jaeger.Host == "" {
				return nil
			}
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
		config.Module(),
		postgres.Module(),
		marketdata.Module(),
		notify.Module(),
		scan.Module(),
	)
	app.Run()
}
