package scan

import (
	"context"
	"time"

	"breakout_bot/internal/models"
	"breakout_bot/pkg/logger"
)

// QuoteSource fetches the current best bid/ask for a ticker.
type QuoteSource interface {
	NBBO(ctx context.Context, ticker string) (models.Quote, error)
}

// SpreadBps computes the quoted spread in basis points. ok is false when the
// midpoint is zero or the book is one-sided.
func SpreadBps(q models.Quote) (float64, bool) {
	mid := q.Mid()
	if mid == 0 || q.Bid == 0 || q.Ask == 0 {
		return 0, false
	}
	return ((q.Ask - q.Bid) / mid) * 10_000, true
}

// Estimator is a non-blocking enrichment: quote lookups carry a bounded
// timeout and any failure just omits the feature. A missing spread must
// never suppress a fired candidate.
type Estimator struct {
	quotes  QuoteSource
	timeout time.Duration
}

func NewEstimator(quotes QuoteSource, timeout time.Duration) *Estimator {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Estimator{quotes: quotes, timeout: timeout}
}

func (e *Estimator) SpreadBps(ctx context.Context, ticker string) (float64, bool) {
	if e == nil || e.quotes == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	q, err := e.quotes.NBBO(ctx, ticker)
	if err != nil {
		logger.Warn("nbbo fetch failed for %s: %v", ticker, err)
		return 0, false
	}
	return SpreadBps(q)
}
