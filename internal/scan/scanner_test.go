package scan

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"breakout_bot/internal/models"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type fakeSymbols struct {
	byTicker map[string]*models.Symbol
	failFor  map[string]bool
}

func (f *fakeSymbols) GetByTicker(_ context.Context, ticker string) (*models.Symbol, error) {
	if f.failFor[ticker] {
		return nil, errors.New("symbol lookup failed")
	}
	return f.byTicker[ticker], nil
}

type fakeStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[string]int64
	stored []*models.Signal
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]int64)}
}

func (f *fakeStore) Upsert(_ context.Context, sig *models.Signal) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := fmt.Sprintf("%d|%s|%d|%s", sig.SymbolID, sig.Timeframe, sig.FiredAt.UnixNano(), sig.Strategy)
	if id, ok := f.rows[key]; ok {
		return id, false, nil
	}
	f.nextID++
	f.rows[key] = f.nextID
	f.stored = append(f.stored, sig)
	return f.nextID, true, nil
}

type fakeUniverse struct {
	tickers []string
	err     error
}

func (f *fakeUniverse) ActiveTickers(context.Context) ([]string, error) {
	return f.tickers, f.err
}

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (f *fakeNotifier) Send(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msg)
}
func (f *fakeNotifier) Sendf(format string, args ...any) { f.Send(fmt.Sprintf(format, args...)) }

// firingCandleSource: the scan timeframe gets the breakout window (newest
// first) and every confirmation timeframe a rising trend.
func firingCandleSource() *fakeCandleSource {
	fire := breakoutWindow(2000)
	models.ReverseCandles(fire)
	return &fakeCandleSource{byTF: map[string][]models.Candle{
		models.TF5m:  fire,
		models.TF15m: descCloses(models.TF15m, rising(250)),
		models.TF1h:  descCloses(models.TF1h, rising(200)),
		models.TF4h:  descCloses(models.TF4h, rising(200)),
	}}
}

// fakeStreamer records the ticker set it was started with, then parks until
// the run cancels its context.
type fakeStreamer struct {
	got chan []string
}

func (f *fakeStreamer) StreamQuotes(ctx context.Context, tickers []string) {
	select {
	case f.got <- tickers:
	default:
	}
	<-ctx.Done()
}

func newTestScanner(store *fakeStore, symbols SymbolSource, universe UniverseSource, n *fakeNotifier) *Scanner {
	return New(
		firingCandleSource(),
		store,
		symbols,
		universe,
		NewEstimator(&fakeQuoteSource{quote: models.Quote{Bid: 100, Ask: 100.1}}, time.Second),
		nil,
		n,
		Options{Workers: 2, HistoryLimit: 400},
	)
}

func TestScannerStoresFiredSignal(t *testing.T) {
	store := newFakeStore()
	n := &fakeNotifier{}
	s := newTestScanner(store, &fakeSymbols{byTicker: map[string]*models.Symbol{
		"TEST": {ID: 1, Ticker: "TEST"},
	}}, &fakeUniverse{}, n)

	count, err := s.RunForTimeframe(context.Background(), models.TF5m, []string{"TEST"})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("stored %d signals, want 1", count)
	}

	sig := store.stored[0]
	if sig.Strategy != models.StrategyBreakout20 {
		t.Fatalf("strategy = %q", sig.Strategy)
	}
	if sig.Direction != models.DirectionLong {
		t.Fatalf("direction = %q", sig.Direction)
	}
	if !sig.EntryPrice.Equal(decimal.NewFromFloat(102.8)) {
		t.Fatalf("entry price = %s", sig.EntryPrice)
	}
	if got := sig.Features["multitfconfirmation"]; got != 1 {
		t.Fatalf("multitfconfirmation = %v, want 1", got)
	}
	if got := sig.Features["spread_bps"]; !almostEqual(got, (0.1/100.05)*10_000, 1e-9) {
		t.Fatalf("spread_bps = %v", got)
	}
	score, ok := sig.Metadata["score"].(float64)
	if !ok || score <= 0 || score > 100 {
		t.Fatalf("metadata score = %v", sig.Metadata["score"])
	}
	if _, ok := sig.Metadata["session_flag"]; !ok {
		t.Fatal("metadata session_flag missing")
	}
	if len(n.msgs) != 1 {
		t.Fatalf("summary notifications = %d, want 1", len(n.msgs))
	}
}

func TestScannerIsIdempotent(t *testing.T) {
	store := newFakeStore()
	symbols := &fakeSymbols{byTicker: map[string]*models.Symbol{
		"TEST": {ID: 1, Ticker: "TEST"},
	}}
	s := newTestScanner(store, symbols, &fakeUniverse{}, &fakeNotifier{})

	first, err := s.RunForTimeframe(context.Background(), models.TF5m, []string{"TEST"})
	if err != nil || first != 1 {
		t.Fatalf("first run: count=%d err=%v", first, err)
	}
	second, err := s.RunForTimeframe(context.Background(), models.TF5m, []string{"TEST"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != 0 {
		t.Fatalf("second run stored %d signals, want 0", second)
	}
	if len(store.stored) != 1 {
		t.Fatalf("rows = %d, want 1", len(store.stored))
	}
}

func TestScannerIsolatesTickerFailures(t *testing.T) {
	store := newFakeStore()
	symbols := &fakeSymbols{
		byTicker: map[string]*models.Symbol{"TEST": {ID: 1, Ticker: "TEST"}},
		failFor:  map[string]bool{"BAD": true},
	}
	s := newTestScanner(store, symbols, &fakeUniverse{}, &fakeNotifier{})

	count, err := s.RunForTimeframe(context.Background(), models.TF5m, []string{"BAD", "TEST", "UNKNOWN"})
	if err != nil {
		t.Fatalf("a single bad ticker must not fail the run: %v", err)
	}
	if count != 1 {
		t.Fatalf("stored %d signals, want 1", count)
	}
}

func TestScannerFallsBackToUniverse(t *testing.T) {
	store := newFakeStore()
	symbols := &fakeSymbols{byTicker: map[string]*models.Symbol{
		"TEST": {ID: 1, Ticker: "TEST"},
	}}
	s := newTestScanner(store, symbols, &fakeUniverse{tickers: []string{"TEST"}}, &fakeNotifier{})

	count, err := s.RunForTimeframe(context.Background(), models.TF5m, nil)
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("stored %d signals, want 1", count)
	}
}

func TestScannerStartsQuoteStream(t *testing.T) {
	store := newFakeStore()
	symbols := &fakeSymbols{byTicker: map[string]*models.Symbol{
		"TEST": {ID: 1, Ticker: "TEST"},
	}}
	streamer := &fakeStreamer{got: make(chan []string, 1)}
	s := New(
		firingCandleSource(),
		store,
		symbols,
		&fakeUniverse{tickers: []string{"TEST"}},
		NewEstimator(&fakeQuoteSource{quote: models.Quote{Bid: 100, Ask: 100.1}}, time.Second),
		streamer,
		&fakeNotifier{},
		Options{Workers: 2, HistoryLimit: 400},
	)

	// tickers come from the universe fallback; the stream must get that
	// resolved set, not the empty argument
	if _, err := s.RunForTimeframe(context.Background(), models.TF5m, nil); err != nil {
		t.Fatalf("scan failed: %v", err)
	}

	select {
	case got := <-streamer.got:
		if len(got) != 1 || got[0] != "TEST" {
			t.Fatalf("stream started with %v, want [TEST]", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("quote stream was never started")
	}
}

func TestScannerNormalizesTimeframe(t *testing.T) {
	store := newFakeStore()
	symbols := &fakeSymbols{byTicker: map[string]*models.Symbol{
		"TEST": {ID: 1, Ticker: "TEST"},
	}}
	s := newTestScanner(store, symbols, &fakeUniverse{}, &fakeNotifier{})

	// vendor-style tag resolves to the canonical "5m" the store is keyed by
	count, err := s.RunForTimeframe(context.Background(), "candle5M", []string{"TEST"})
	if err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("stored %d signals, want 1", count)
	}
	if got := store.stored[0].Timeframe; got != models.TF5m {
		t.Fatalf("stored timeframe = %q, want %q", got, models.TF5m)
	}
}

func TestScannerUniverseErrorAborts(t *testing.T) {
	s := newTestScanner(newFakeStore(), &fakeSymbols{}, &fakeUniverse{err: errors.New("db down")}, &fakeNotifier{})
	if _, err := s.RunForTimeframe(context.Background(), models.TF5m, nil); err == nil {
		t.Fatal("expected the universe error to surface")
	}
}
