package signals

import (
	"context"
	"errors"
	"fmt"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/db"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
)

// Signals implement db store
type Signals struct {
	db *db.PgTxManager
}

// New instance
func New(manager *db.PgTxManager) *Signals {
	return &Signals{db: manager}
}

const insertSignal = `
INSERT INTO signals (symbol_id, strategy, direction, fired_at, timeframe, confidence, entry_price, stop_loss, take_profit, features, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (symbol_id, timeframe, fired_at, strategy) DO NOTHING
RETURNING id`

const selectExisting = `
SELECT id FROM signals
WHERE symbol_id = $1 AND timeframe = $2 AND fired_at = $3 AND strategy = $4`

// Upsert stores a signal once per (symbol, timeframe, fired_at, strategy).
// On a duplicate it returns the existing id with inserted=false. The insert
// uses ON CONFLICT DO NOTHING so two concurrent scans cannot both insert.
func (s *Signals) Upsert(ctx context.Context, sig *models.Signal) (id int64, inserted bool, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Signals.Upsert: %w", err)
		}
	}()

	var features, metadata []byte
	features, err = sonic.Marshal(sig.Features)
	if err != nil {
		return 0, false, err
	}
	metadata, err = sonic.Marshal(sig.Metadata)
	if err != nil {
		return 0, false, err
	}

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		txErr := tx.QueryRow(ctxTx, insertSignal,
			sig.SymbolID, sig.Strategy, string(sig.Direction),
			sig.FiredAt, sig.Timeframe, sig.Confidence,
			sig.EntryPrice, sig.StopLoss, sig.TakeProfit,
			features, metadata,
		).Scan(&id)
		if txErr == nil {
			inserted = true
			return nil
		}
		if !errors.Is(txErr, pgx.ErrNoRows) {
			return txErr
		}
		// conflict: the row already exists, fetch its id
		return tx.QueryRow(ctxTx, selectExisting,
			sig.SymbolID, sig.Timeframe, sig.FiredAt, sig.Strategy,
		).Scan(&id)
	})
	if err != nil {
		return 0, false, err
	}
	return id, inserted, nil
}
