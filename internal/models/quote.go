package models

import "time"

// Quote is a best bid/ask snapshot from the market-data vendor.
type Quote struct {
	Ticker  string
	Bid     float64
	Ask     float64
	BidSize int64
	AskSize int64
	TS      time.Time
}

// Mid returns the quote midpoint, 0 when the book is empty.
func (q Quote) Mid() float64 {
	return (q.Ask + q.Bid) / 2
}
