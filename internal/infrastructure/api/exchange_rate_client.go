package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/marcos-lima-dev/finance-app/internal/domain/entity"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/logger"
	"github.com/marcos-lima-dev/finance-app/internal/infrastructure/resilience"
)

// DefaultRatesURL returns the latest rates quoted against one US dollar
const DefaultRatesURL = "https://api.exchangerate-api.com/v4/latest/USD"

// ExchangeRateClient fetches BRL conversion rates from exchangerate-api.com
type ExchangeRateClient struct {
	url        string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	log        logger.Logger
	now        func() time.Time
}

// Option customises an ExchangeRateClient
type Option func(*ExchangeRateClient)

// WithURL overrides the rates endpoint
func WithURL(url string) Option {
	return func(c *ExchangeRateClient) { c.url = url }
}

// WithRetry overrides the retry configuration
func WithRetry(cfg resilience.Config) Option {
	return func(c *ExchangeRateClient) { c.cfg = cfg }
}

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(c *ExchangeRateClient) { c.log = log }
}

// WithClock sets the time source used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(c *ExchangeRateClient) { c.now = now }
}

// NewExchangeRateClient creates a new exchange rate client
func NewExchangeRateClient(httpClient *http.Client, opts ...Option) *ExchangeRateClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}

	c := &ExchangeRateClient{
		url:        DefaultRatesURL,
		httpClient: httpClient,
		cb:         resilience.NewCircuitBreaker("exchange-rates", time.Minute),
		cfg:        resilience.DefaultConfig(),
		log:        logger.GetDefaultLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LatestResponse is the payload of the latest-rates endpoint
type LatestResponse struct {
	Base  string                     `json:"base"`
	Date  string                     `json:"date"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// FetchRates retrieves the current value of one USD and one EUR in BRL.
// Both rates are rounded to two decimal places.
func (c *ExchangeRateClient) FetchRates(ctx context.Context) (entity.RateSnapshot, error) {
	var latest LatestResponse

	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			return c.fetch(ctx, &latest)
		})
	})
	if err != nil {
		c.log.Warn("Exchange rate fetch failed", map[string]interface{}{
			"url":   c.url,
			"error": err.Error(),
		})
		return entity.RateSnapshot{}, fmt.Errorf("failed to fetch exchange rates: %w", err)
	}

	snapshot, err := toSnapshot(latest, c.now())
	if err != nil {
		return entity.RateSnapshot{}, err
	}

	c.log.Debug("Exchange rates fetched", map[string]interface{}{
		"usd":  snapshot.USD.String(),
		"eur":  snapshot.EUR.String(),
		"date": latest.Date,
	})
	return snapshot, nil
}

func (c *ExchangeRateClient) fetch(ctx context.Context, out *LatestResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return &resilience.Permanent{Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Add("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	switch {
	case resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("API returned error status: %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return &resilience.Permanent{Err: fmt.Errorf("API returned error status: %d, body: %s", resp.StatusCode, body)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &resilience.Permanent{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

// toSnapshot derives BRL-per-USD and BRL-per-EUR from USD-based quotes
func toSnapshot(latest LatestResponse, fetchedAt time.Time) (entity.RateSnapshot, error) {
	brl, ok := latest.Rates["BRL"]
	if !ok || !brl.IsPositive() {
		return entity.RateSnapshot{}, fmt.Errorf("invalid or missing BRL rate in response")
	}
	eur, ok := latest.Rates["EUR"]
	if !ok || !eur.IsPositive() {
		return entity.RateSnapshot{}, fmt.Errorf("invalid or missing EUR rate in response")
	}

	return entity.RateSnapshot{
		USD:       brl.Round(2),
		EUR:       brl.Div(eur).Round(2),
		FetchedAt: fetchedAt,
	}, nil
}
