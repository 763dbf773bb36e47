package scan

import (
	"context"

	"breakout_bot/internal/marketdata"
	"breakout_bot/internal/modules/config"
	"breakout_bot/internal/notify"
	"breakout_bot/internal/pg/candles"
	"breakout_bot/internal/pg/signals"
	"breakout_bot/internal/pg/symbols"
	"breakout_bot/internal/pg/universe"
	"breakout_bot/pkg/db"
	"breakout_bot/pkg/logger"

	"go.uber.org/fx"
)

// Request is the resolved CLI input for one scan run.
type Request struct {
	Timeframe string
	Tickers   []string
}

// fileFirstUniverse prefers the local override list, falling back to the
// ACTIVE universe table.
type fileFirstUniverse struct {
	cfg *config.Config
	db  *universe.Universe
}

func (u fileFirstUniverse) ActiveTickers(ctx context.Context) ([]string, error) {
	tickers, err := u.cfg.UniverseOverride()
	if err != nil {
		return nil, err
	}
	if len(tickers) > 0 {
		return tickers, nil
	}
	return u.db.ActiveTickers(ctx)
}

func Module() fx.Option {
	return fx.Module("scan",
		fx.Provide(
			func(cfg *config.Config, manager *db.PgTxManager, quotes *marketdata.Client, n notify.Notifier) *Scanner {
				return New(
					candles.New(manager),
					signals.New(manager),
					symbols.New(manager),
					fileFirstUniverse{cfg: cfg, db: universe.New(manager)},
					NewEstimator(quotes, cfg.Scan.QuoteTimeout),
					quotes,
					n,
					Options{
						HistoryLimit: cfg.Scan.HistoryLimit,
						Workers:      cfg.Scan.Workers,
					},
				)
			},
		),
		fx.Invoke(func(
			lc fx.Lifecycle,
			shutdowner fx.Shutdowner,
			s *Scanner,
			req Request,
			ctx context.Context,
		) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go func() {
						if _, err := s.RunForTimeframe(ctx, req.Timeframe, req.Tickers); err != nil {
							logger.Error("scan run failed: %v", err)
						}
						_ = shutdowner.Shutdown()
					}()
					return nil
				},
			})
		}),
	)
}
