package symbols

import (
	"context"
	"errors"
	"fmt"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Symbols implement db store
type Symbols struct {
	db *db.PgTxManager
}

// New instance
func New(manager *db.PgTxManager) *Symbols {
	return &Symbols{db: manager}
}

// GetByTicker resolves a ticker. An unknown ticker is (nil, nil), not an
// error: the scanner skips it.
func (s *Symbols) GetByTicker(ctx context.Context, ticker string) (sym *models.Symbol, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Symbols.GetByTicker: %w", err)
		}
	}()

	sym = &models.Symbol{}
	err = s.db.Conn().QueryRow(ctx,
		`SELECT id, ticker, exchange FROM symbols WHERE ticker = $1`,
		ticker,
	).Scan(&sym.ID, &sym.Ticker, &sym.Exchange)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sym, nil
}

// Ensure inserts the ticker if missing and returns its id either way.
func (s *Symbols) Ensure(ctx context.Context, ticker, exchange string) (id int64, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Symbols.Ensure: %w", err)
		}
	}()

	err = s.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctxTx,
			`INSERT INTO symbols (ticker, exchange) VALUES ($1, $2)
			 ON CONFLICT (ticker) DO UPDATE SET exchange = EXCLUDED.exchange
			 RETURNING id`,
			ticker, exchange,
		).Scan(&id)
	})
	return id, err
}
