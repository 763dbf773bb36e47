package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Timeframe tags as stored in the candles table.
const (
	TF1m  = "1m"
	TF5m  = "5m"
	TF15m = "15m"
	TF1h  = "1h"
	TF4h  = "4h"
	TF1d  = "1d"
)

// Candle is one OHLCV bar. Prices are exact decimals: breakout rules compare
// prices directly and float drift would move the fire/no-fire boundary.
type Candle struct {
	SymbolID   int64
	Timeframe  string
	TS         time.Time
	Open       decimal.Decimal
	High       decimal.Decimal
	Low        decimal.Decimal
	Close      decimal.Decimal
	Volume     int64
	VWAP       *decimal.Decimal
	TradeCount *int64
	Source     string
	IsAdjusted bool
}

// Symbol is the storage identity of a ticker.
type Symbol struct {
	ID       int64
	Ticker   string
	Exchange string
}

// ReverseCandles flips a newest-first window into ascending order in place.
// Repos return DESC (cheap LIMIT on the time index), the indicator layer
// wants ASC.
func ReverseCandles(cs []Candle) {
	for i, j := 0, len(cs)-1; i < j; i, j = i+1, j-1 {
		cs[i], cs[j] = cs[j], cs[i]
	}
}
