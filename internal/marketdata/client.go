package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"breakout_bot/internal/models"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// maxQuoteAge bounds how stale a streamed quote may be before NBBO falls
// back to the REST endpoint.
const maxQuoteAge = 5 * time.Second

// Client talks to the quote vendor. Quotes arrive two ways: the websocket
// stream keeps a last-quote cache warm, and NBBO falls back to REST when the
// cache misses or is stale.
type Client struct {
	mu     sync.RWMutex
	quotes map[string]models.Quote

	http     *http.Client
	wsDialer *websocket.Dialer
	baseURL  string
	wsURL    string
	apiKey   string
}

func NewClient(baseURL, wsURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		quotes:   make(map[string]models.Quote),
		http:     &http.Client{Timeout: timeout},
		wsDialer: &websocket.Dialer{},
		baseURL:  baseURL,
		wsURL:    wsURL,
		apiKey:   apiKey,
	}
}

func (c *Client) setQuote(q models.Quote) {
	c.mu.Lock()
	c.quotes[q.Ticker] = q
	c.mu.Unlock()
}

func (c *Client) cachedQuote(ticker string) (models.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[ticker]
	if !ok || time.Since(q.TS) > maxQuoteAge {
		return models.Quote{}, false
	}
	return q, true
}

type nbboPayload struct {
	Ticker    string  `json:"ticker"`
	BidPrice  float64 `json:"bidPrice"`
	AskPrice  float64 `json:"askPrice"`
	BidSize   int64   `json:"bidSize"`
	AskSize   int64   `json:"askSize"`
	Timestamp int64   `json:"timestamp"` // unix millis
}

type nbboResp struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func (p nbboPayload) quote() models.Quote {
	return models.Quote{
		Ticker:  p.Ticker,
		Bid:     p.BidPrice,
		Ask:     p.AskPrice,
		BidSize: p.BidSize,
		AskSize: p.AskSize,
		TS:      time.UnixMilli(p.Timestamp),
	}
}

// NBBO returns the current best bid/ask, preferring the stream cache.
func (c *Client) NBBO(ctx context.Context, ticker string) (models.Quote, error) {
	if q, ok := c.cachedQuote(ticker); ok {
		return q, nil
	}

	url := fmt.Sprintf("%s/v1/nbbo/%s", c.baseURL, ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Quote{}, errors.Wrap(err, "build nbbo request")
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Quote{}, errors.Wrap(err, "nbbo request")
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return models.Quote{}, errors.Errorf("nbbo: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Quote{}, errors.Wrap(err, "read nbbo body")
	}
	var wrap nbboResp
	if err := json.Unmarshal(body, &wrap); err != nil {
		return models.Quote{}, errors.Wrap(err, "decode nbbo body")
	}
	if !wrap.Success {
		return models.Quote{}, errors.Errorf("nbbo: success=false code=%d", wrap.Code)
	}

	var payload nbboPayload
	if err := json.Unmarshal(wrap.Data, &payload); err != nil {
		return models.Quote{}, errors.Wrap(err, "decode nbbo payload")
	}
	q := payload.quote()
	c.setQuote(q)
	return q, nil
}
