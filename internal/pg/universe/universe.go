package universe

import (
	"context"
	"fmt"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/db"

	"github.com/jackc/pgx/v5"
)

// Universe implement db store
type Universe struct {
	db *db.PgTxManager
}

// New instance
func New(manager *db.PgTxManager) *Universe {
	return &Universe{db: manager}
}

// ActiveTickers lists tickers currently eligible for scanning.
func (u *Universe) ActiveTickers(ctx context.Context) ([]string, error) {
	return u.ListByStatus(ctx, models.UniverseActive)
}

// ListByStatus lists tickers in one curation state.
func (u *Universe) ListByStatus(ctx context.Context, status string) (tickers []string, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Universe.ListByStatus: %w", err)
		}
	}()

	rows, err := u.db.Conn().Query(ctx,
		`SELECT s.ticker
		 FROM universe_symbols u
		 JOIN symbols s ON s.id = u.symbol_id
		 WHERE u.status = $1
		 ORDER BY s.ticker`,
		status,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t string
		if err = rows.Scan(&t); err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// SetStatus moves a symbol between curation states, inserting on first touch.
func (u *Universe) SetStatus(ctx context.Context, symbolID int64, status string) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("Universe.SetStatus: %w", err)
		}
	}()

	return u.db.RunMaster(ctx, func(ctxTx context.Context, tx pgx.Tx) error {
		_, txErr := tx.Exec(ctxTx,
			`INSERT INTO universe_symbols (symbol_id, status, refreshed_at)
			 VALUES ($1, $2, now())
			 ON CONFLICT (symbol_id) DO UPDATE SET status = EXCLUDED.status, refreshed_at = now()`,
			symbolID, status,
		)
		return txErr
	})
}
