package scan

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"breakout_bot/internal/helper"
	"breakout_bot/internal/indicator"
	"breakout_bot/internal/models"
	"breakout_bot/internal/notify"
	"breakout_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
)

// SymbolSource resolves a ticker to its storage identity.
type SymbolSource interface {
	GetByTicker(ctx context.Context, ticker string) (*models.Symbol, error)
}

// SignalStore persists fired signals. Upsert is the idempotent
// conditional-insert keyed by (symbol, timeframe, fired_at, strategy):
// it returns the existing id and inserted=false on a duplicate.
type SignalStore interface {
	Upsert(ctx context.Context, sig *models.Signal) (id int64, inserted bool, err error)
}

// UniverseSource supplies the curated tickers eligible for scanning.
type UniverseSource interface {
	ActiveTickers(ctx context.Context) ([]string, error)
}

// QuoteStreamer warms the quote cache in the background for the duration of
// a run, so spread lookups for fired candidates hit the cache instead of the
// REST endpoint.
type QuoteStreamer interface {
	StreamQuotes(ctx context.Context, tickers []string)
}

// Scanner runs breakout20_v1 over a ticker set for one timeframe.
// Evaluation is pure, so tickers are scanned by a bounded worker pool;
// the signal upsert is the only cross-worker coordination point.
type Scanner struct {
	candles  CandleSource
	signals  SignalStore
	symbols  SymbolSource
	universe UniverseSource

	detector *Detector
	confirm  *Confirmer
	spread   *Estimator
	stream   QuoteStreamer
	n        notify.Notifier

	historyLimit int
	workers      int
}

type Options struct {
	HistoryLimit int // bars per detection window, default 400
	Workers      int // parallel tickers, default 4
}

func New(
	candles CandleSource,
	signals SignalStore,
	symbols SymbolSource,
	universe UniverseSource,
	spread *Estimator,
	stream QuoteStreamer,
	n notify.Notifier,
	opts Options,
) *Scanner {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 400
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if n == nil {
		n = notify.NewStdout()
	}
	return &Scanner{
		candles:      candles,
		signals:      signals,
		symbols:      symbols,
		universe:     universe,
		detector:     NewDetector(),
		confirm:      NewConfirmer(candles),
		spread:       spread,
		stream:       stream,
		n:            n,
		historyLimit: opts.HistoryLimit,
		workers:      opts.Workers,
	}
}

// RunForTimeframe scans the given tickers (or the ACTIVE universe when nil)
// and stores fired signals. Returns the number of newly stored,
// non-duplicate signals. A per-ticker failure is logged and skipped; it
// never aborts the rest of the scan.
func (s *Scanner) RunForTimeframe(ctx context.Context, timeframe string, tickers []string) (int, error) {
	timeframe = helper.NormTF(timeframe)

	span, ctx := opentracing.StartSpanFromContext(ctx, "scan_run")
	span.SetTag("timeframe", timeframe)
	defer span.Finish()

	if len(tickers) == 0 {
		var err error
		tickers, err = s.universe.ActiveTickers(ctx)
		if err != nil {
			return 0, err
		}
	}
	if len(tickers) == 0 {
		logger.Info("scan %s: empty universe, nothing to do", timeframe)
		return 0, nil
	}

	if s.stream != nil {
		streamCtx, stopStream := context.WithCancel(ctx)
		defer stopStream()
		go s.stream.StreamQuotes(streamCtx, tickers)
	}

	started := time.Now()
	var stored atomic.Int64

	jobs := make(chan string)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ticker := range jobs {
				if s.scanTicker(ctx, timeframe, ticker) {
					stored.Add(1)
				}
			}
		}()
	}
	for _, t := range tickers {
		select {
		case jobs <- t:
		case <-ctx.Done():
			// stop feeding, let in-flight tickers finish
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	count := int(stored.Load())
	span.SetTag("stored", count)
	logger.Info("breakout20: stored %d signals for timeframe %s (%d tickers, %s)",
		count, timeframe, len(tickers), time.Since(started).Round(time.Millisecond))
	s.n.Sendf("scan %s done: %d new signals out of %d tickers", timeframe, count, len(tickers))
	return count, nil
}

// scanTicker evaluates one ticker end to end. Reports whether a new
// (non-duplicate) signal was stored.
func (s *Scanner) scanTicker(ctx context.Context, timeframe, ticker string) (storedNew bool) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("scan %s: panic on %s: %v", timeframe, ticker, p)
			storedNew = false
		}
	}()

	symbol, err := s.symbols.GetByTicker(ctx, ticker)
	if err != nil {
		logger.Warn("scan %s: symbol lookup %s: %v", timeframe, ticker, err)
		return false
	}
	if symbol == nil {
		return false
	}

	bars, err := s.candles.GetCandles(ctx, symbol.ID, timeframe, s.historyLimit)
	if err != nil {
		logger.Warn("scan %s: candles %s: %v", timeframe, ticker, err)
		return false
	}
	if len(bars) == 0 {
		return false
	}
	models.ReverseCandles(bars)

	candidate, fired := s.detector.Evaluate(symbol.ID, ticker, timeframe, bars)
	if !fired {
		return false
	}

	span, ctx := opentracing.StartSpanFromContext(ctx, "candidate")
	span.SetTag("ticker", ticker)
	defer span.Finish()

	confirmed := s.confirm.Confirmed(ctx, symbol.ID)
	if confirmed {
		candidate.Features["multitfconfirmation"] = 1
	} else {
		candidate.Features["multitfconfirmation"] = 0
	}

	if bps, ok := s.spread.SpreadBps(ctx, ticker); ok {
		candidate.Features["spread_bps"] = bps
	}

	candidate.Score = Score(ScoreInput{
		Breakout:     breakoutMagnitude(candidate.Features),
		RelVol20:     feature(candidate.Features, "rel_vol_20"),
		RSI:          feature(candidate.Features, "rsi14"),
		MACDHist:     feature(candidate.Features, "macd_hist"),
		PctB:         feature(candidate.Features, "bb_pct"),
		ATRPct:       feature(candidate.Features, "atrp"),
		MTFConfirmed: confirmed,
	})

	id, inserted, err := s.signals.Upsert(ctx, &models.Signal{
		SymbolID:   candidate.SymbolID,
		Strategy:   models.StrategyBreakout20,
		Direction:  models.DirectionLong,
		FiredAt:    candidate.FiredAt,
		Timeframe:  candidate.Timeframe,
		EntryPrice: candidate.Price,
		Features:   candidate.Features,
		Metadata: map[string]any{
			"session_flag": candidate.SessionFlag,
			"score":        candidate.Score,
		},
	})
	if err != nil {
		logger.Error("scan %s: upsert %s: %v", timeframe, ticker, err)
		return false
	}
	if !inserted {
		logger.Info("scan %s: %s already stored as signal %d", timeframe, ticker, id)
		return false
	}
	logger.Info("scan %s: %s fired at %s score=%.1f signal=%d",
		timeframe, ticker, candidate.FiredAt.Format(time.RFC3339), candidate.Score, id)
	return true
}

func breakoutMagnitude(features map[string]float64) float64 {
	close, hhv := features["close"], features["hhv10"]
	if hhv == 0 {
		return 0
	}
	return close/hhv - 1
}

// feature reads an optional feature, mapping absence to the undefined marker.
func feature(m map[string]float64, key string) float64 {
	if v, ok := m[key]; ok {
		return v
	}
	return indicator.Undefined()
}
