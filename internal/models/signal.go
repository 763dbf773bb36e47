package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategyBreakout20 is the detector id written to the signals table.
const StrategyBreakout20 = "breakout20_v1"

type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Session buckets, UTC reference frame (US regular hours 13:30-20:00).
const (
	SessionPre     = 0
	SessionRegular = 1
	SessionAfter   = 2
)

// Candidate is one fired evaluation of the latest bar. Ephemeral: the
// orchestrator enriches it (MTF, spread, score) and persists a Signal.
type Candidate struct {
	SymbolID    int64
	Ticker      string
	Timeframe   string
	FiredAt     time.Time
	Price       decimal.Decimal
	Features    map[string]float64
	SessionFlag int
	Score       float64
}

// Signal is the persisted row. Identity key is
// (symbol_id, timeframe, fired_at, strategy); rows are created once and
// never mutated afterwards.
type Signal struct {
	ID         int64
	SymbolID   int64
	Strategy   string
	Direction  Direction
	FiredAt    time.Time
	Timeframe  string
	Confidence *float64
	EntryPrice decimal.Decimal
	StopLoss   *decimal.Decimal
	TakeProfit *decimal.Decimal
	Features   map[string]float64
	Metadata   map[string]any
}
