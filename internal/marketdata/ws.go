package marketdata

import (
	"context"
	"encoding/json"
	"time"

	"breakout_bot/pkg/logger"
)

// StreamQuotes keeps the last-quote cache warm over one websocket. It
// redials with linear backoff and gives up after 8 consecutive failures;
// NBBO then degrades to REST on every call. Runs until ctx is cancelled.
func (c *Client) StreamQuotes(ctx context.Context, tickers []string) {
	if c.wsURL == "" || len(tickers) == 0 {
		return
	}

	retry := 0
	for {
		if ctx.Err() != nil {
			return
		}
		conn, _, err := c.wsDialer.Dial(c.wsURL, nil)
		if err != nil {
			retry++
			if retry > 8 {
				logger.Warn("quote stream: giving up after %d dial attempts: %v", retry-1, err)
				return
			}
			time.Sleep(time.Duration(300*retry) * time.Millisecond)
			continue
		}
		retry = 0

		_ = conn.WriteJSON(map[string]any{
			"method": "sub.nbbo",
			"param":  map[string]any{"tickers": tickers},
		})

		stopPing := make(chan struct{})
		go func() {
			t := time.NewTicker(15 * time.Second)
			defer t.Stop()
			for {
				select {
				case <-stopPing:
					return
				case <-ctx.Done():
					return
				case <-t.C:
					_ = conn.WriteJSON(map[string]string{"method": "ping"})
				}
			}
		}()

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				close(stopPing)
				_ = conn.Close()
				break
			}
			var frame struct {
				Channel string      `json:"channel"`
				Data    nbboPayload `json:"data"`
			}
			if err := json.Unmarshal(msg, &frame); err != nil || frame.Channel != "push.nbbo" {
				continue
			}
			if frame.Data.Ticker == "" || frame.Data.BidPrice <= 0 || frame.Data.AskPrice <= 0 {
				continue
			}
			c.setQuote(frame.Data.quote())
		}

		select {
		case <-ctx.Done():
			return
		default:
			time.Sleep(time.Second)
		}
	}
}
