// Package source fetches the current price of the tracked mattress from the
// retailer's product-data endpoint.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mhargreave/mattress-tracker/internal/httputil"
)

type ErrorKind string

const (
	KindNetwork ErrorKind = "network"
	KindParse   ErrorKind = "parse"
	KindTimeout ErrorKind = "timeout"
)

// Error classifies a fetch failure. Malformed upstream responses are an
// expected failure mode here, not an edge case, so parse problems get the
// same first-class treatment as transport ones.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string { return fmt.Sprintf("price fetch (%s): %v", e.Kind, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	url   string
	retry httputil.Retrier
	log   zerolog.Logger
}

func NewClient(productURL string, timeout time.Duration, log zerolog.Logger) *Client {
	l := log.With().Str("component", "price_source").Logger()
	return &Client{
		url: productURL,
		retry: httputil.Retrier{
			Client:      &http.Client{Timeout: timeout},
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
			Log:         l,
		},
		log: l,
	}
}

// FetchPrice returns the current product price. Failures carry a *Error
// whose Kind distinguishes network, timeout, and parse problems.
func (c *Client) FetchPrice(ctx context.Context) (decimal.Decimal, error) {
	resp, err := c.retry.Do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return decimal.Zero, &Error{Kind: classifyTransport(err), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, &Error{Kind: KindNetwork, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	var body struct {
		ProductData struct {
			Price struct {
				Value string `json:"value"`
			} `json:"price"`
		} `json:"productData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, &Error{Kind: KindParse, Err: fmt.Errorf("decode: %w", err)}
	}

	raw := body.ProductData.Price.Value
	if raw == "" {
		return decimal.Zero, &Error{Kind: KindParse, Err: errors.New("missing productData.price.value")}
	}

	// The value sometimes arrives display-formatted, e.g. "£1,399.00".
	cleaned := strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(raw), "£"), ",", "")
	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, &Error{Kind: KindParse, Err: fmt.Errorf("invalid price %q: %w", raw, err)}
	}
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &Error{Kind: KindParse, Err: fmt.Errorf("non-positive price %q", raw)}
	}

	c.log.Info().Str("price", price.StringFixed(2)).Msg("price fetched")
	return price, nil
}

func classifyTransport(err error) ErrorKind {
	var nerr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return KindTimeout
	}
	return KindNetwork
}
