package okx

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ImpulseScan/internal/domain/models"
	drepo "ImpulseScan/internal/domain/repository"
	xhttp "ImpulseScan/pkg/http"
)

const (
	instrumentsPath = "/api/v5/public/instruments"
	tickersPath     = "/api/v5/market/tickers"
	candlesPath     = "/api/v5/market/candles"
)

// APIError is a response whose envelope code is not "0".
type APIError struct {
	Code string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("okx error %s: %s", e.Code, e.Msg)
}

type envelope[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data T      `json:"data"`
}

// Client implements repository.MarketData against the OKX v5 public REST API.
type Client struct {
	baseURL string
	http    *xhttp.Client
	metrics drepo.Metrics
}

type Option func(*Client)

func WithMetrics(m drepo.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient overrides the transport, e.g. with a shorter timeout.
func WithHTTPClient(h *xhttp.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout), xhttp.WithHeader("User-Agent", "impulsescan")),
		metrics: drepo.NopMetrics{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ drepo.MarketData = (*Client)(nil)

func (c *Client) Instruments(ctx context.Context, instType string) ([]models.Instrument, error) {
	return get[[]models.Instrument](ctx, c, "instruments", instrumentsPath, map[string]string{
		"instType": instType,
	})
}

func (c *Client) Tickers(ctx context.Context, instType string) ([]models.Ticker, error) {
	return get[[]models.Ticker](ctx, c, "tickers", tickersPath, map[string]string{
		"instType": instType,
	})
}

// Candles returns up to limit records older than after (ms). after <= 0 asks
// for the newest records, which includes the still-forming candle.
func (c *Client) Candles(ctx context.Context, instID, bar string, after int64, limit int) ([][]string, error) {
	q := map[string]string{
		"instId": instID,
		"bar":    bar,
		"limit":  strconv.Itoa(limit),
	}
	if after > 0 {
		q["after"] = strconv.FormatInt(after, 10)
	}
	return get[[][]string](ctx, c, "candles", candlesPath, q)
}

func get[T any](ctx context.Context, c *Client, op, path string, query map[string]string) (T, error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordLatency("okx."+op, time.Since(start).Seconds())
	}()

	var env envelope[T]
	if err := c.http.GetJSON(ctx, c.baseURL+path, query, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("okx %s: %w", op, err)
	}
	if env.Code != "0" {
		var zero T
		return zero, fmt.Errorf("okx %s: %w", op, &APIError{Code: env.Code, Msg: env.Msg})
	}
	return env.Data, nil
}
