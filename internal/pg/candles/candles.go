package candles

import (
	"context"
	"fmt"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Candles implement db store
type Candles struct {
	db *db.PgTxManager
}

// New instance
func New(manager *db.PgTxManager) *Candles {
	return &Candles{db: manager}
}

const selectWindow = `
SELECT symbol_id, timeframe, ts, open, high, low, close, volume, vwap, trade_count, source, is_adjusted
FROM candles
WHERE symbol_id = $1 AND timeframe = $2
ORDER BY ts DESC
LIMIT $3`

// GetCandles returns the most recent bars, newest first.
func (c *Candles) GetCandles(ctx context.Context, symbolID int64, timeframe string, limit int) (out []models.Candle, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Candles.GetCandles: %w", err)
		}
	}()

	rows, err := c.db.Conn().Query(ctx, selectWindow, symbolID, timeframe, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var bar models.Candle
		err = rows.Scan(
			&bar.SymbolID, &bar.Timeframe, &bar.TS,
			&bar.Open, &bar.High, &bar.Low, &bar.Close,
			&bar.Volume, &bar.VWAP, &bar.TradeCount,
			&bar.Source, &bar.IsAdjusted,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, bar)
	}
	return out, rows.Err()
}

const upsertCandle = `
INSERT INTO candles (symbol_id, timeframe, ts, open, high, low, close, volume, vwap, trade_count, source, is_adjusted)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (symbol_id, timeframe, ts) DO UPDATE SET
	open = EXCLUDED.open,
	high = EXCLUDED.high,
	low = EXCLUDED.low,
	close = EXCLUDED.close,
	volume = EXCLUDED.volume,
	vwap = EXCLUDED.vwap,
	trade_count = EXCLUDED.trade_count,
	source = EXCLUDED.source,
	is_adjusted = EXCLUDED.is_adjusted`

// InsertCandles upserts a batch inside one transaction. Re-ingesting the same
// window is a no-op apart from refreshed values.
func (c *Candles) InsertCandles(ctx context.Context, bars []models.Candle) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Candles.InsertCandles: %w", err)
		}
	}()

	return c.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		for _, bar := range bars {
			_, txErr := tx.Exec(ctxTx, upsertCandle,
				bar.SymbolID, bar.Timeframe, bar.TS,
				bar.Open, bar.High, bar.Low, bar.Close,
				bar.Volume, bar.VWAP, bar.TradeCount,
				bar.Source, bar.IsAdjusted,
			)
			if txErr != nil {
				return txErr
			}
		}
		return nil
	})
}

// CandleCount reports stored bars for one symbol/timeframe.
func (c *Candles) CandleCount(ctx context.Context, symbolID int64, timeframe string) (n int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Candles.CandleCount: %w", err)
		}
	}()

	err = c.db.Conn().QueryRow(ctx,
		`SELECT count(*) FROM candles WHERE symbol_id = $1 AND timeframe = $2`,
		symbolID, timeframe,
	).Scan(&n)
	return n, err
}
