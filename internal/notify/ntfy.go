// Package notify pushes price alerts to subscribers via ntfy.sh.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/mhargreave/mattress-tracker/internal/httputil"
)

type Sender struct {
	baseURL  string
	topic    string
	title    string
	priority string
	tags     string
	retry    httputil.Retrier
	log      zerolog.Logger
}

type Options struct {
	Title    string
	Priority string
	Tags     string
}

func NewSender(baseURL, topic string, opts Options, log zerolog.Logger) *Sender {
	if opts.Title == "" {
		opts.Title = "Mattress Price Alert"
	}
	if opts.Priority == "" {
		opts.Priority = "high"
	}
	if opts.Tags == "" {
		opts.Tags = "bed,money"
	}
	l := log.With().Str("component", "notifier").Logger()
	return &Sender{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		topic:    topic,
		title:    opts.Title,
		priority: opts.Priority,
		tags:     opts.Tags,
		retry: httputil.Retrier{
			Client:      &http.Client{Timeout: 10 * time.Second},
			MaxAttempts: 3,
			BaseDelay:   time.Second,
			MaxDelay:    5 * time.Second,
			Log:         l,
		},
		log: l,
	}
}

// Message renders the fixed alert template for a price.
func Message(price decimal.Decimal) string {
	return fmt.Sprintf("The mattress price is now £%s", price.StringFixed(2))
}

func (s *Sender) Enabled() bool {
	return s.topic != ""
}

// Notify publishes the alert. Failure is the caller's to report; a sent-but-
// unconfirmed alert never affects already-persisted history.
func (s *Sender) Notify(ctx context.Context, price decimal.Decimal) error {
	if !s.Enabled() {
		s.log.Debug().Msg("no topic configured, skipping notification")
		return nil
	}

	msg := Message(price)
	resp, err := s.retry.Do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			s.baseURL+"/"+s.topic, strings.NewReader(msg))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Title", s.title)
		req.Header.Set("Priority", s.priority)
		req.Header.Set("Tags", s.tags)
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("ntfy publish: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("ntfy publish: status %d", resp.StatusCode)
	}

	s.log.Info().Str("price", price.StringFixed(2)).Msg("notification sent")
	return nil
}
