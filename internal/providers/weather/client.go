package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/KennelOS/backend/internal/infrastructure/tracing"
)

var (
	// ErrNotConfigured is returned when no API key is set
	ErrNotConfigured = errors.New("weather API key is not configured")
	// ErrMissingLocation is returned when a query names neither coordinates nor a city
	ErrMissingLocation = errors.New("missing location parameters")
	// ErrUpstream is returned when the weather service fails
	ErrUpstream = errors.New("weather upstream failed")
)

// Query selects a location by coordinates or by city name
type Query struct {
	Lat  string
	Lon  string
	City string
}

// params returns the upstream query parameters; coordinates win over city
func (q Query) params() (map[string]string, error) {
	switch {
	case q.Lat != "" && q.Lon != "":
		return map[string]string{"lat": q.Lat, "lon": q.Lon}, nil
	case q.City != "":
		return map[string]string{"q": q.City}, nil
	default:
		return nil, ErrMissingLocation
	}
}

// Config configures the weather client
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Retries int
	// RPS limits upstream calls per second; zero means unlimited
	RPS float64
}

// Client fetches current conditions from an OpenWeather compatible API
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	apiKey  string
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// New creates a weather client with circuit breaker and rate limiting
func New(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	restyClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("User-Agent", "KennelOS-Weather/1.0").
		SetJSONUnmarshaler(sonic.Unmarshal).
		SetTransport(retryClient.HTTPClient.Transport)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), int(cfg.RPS)+1)
	}

	breaker := resilience.New("weather", resilience.Settings{
		Probes:   1,
		Window:   time.Minute,
		Cooldown: 30 * time.Second,
		Trip: func(c resilience.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: limiter,
		breaker: breaker,
		apiKey:  cfg.APIKey,
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// WithMetrics records upstream calls
func (c *Client) WithMetrics(m *monitoring.Metrics) *Client {
	c.metrics = m
	return c
}

// Breaker exposes the circuit breaker state for health reporting
func (c *Client) Breaker() *resilience.Breaker {
	return c.breaker
}

// Current fetches current conditions in metric units. The upstream document
// is returned as decoded JSON.
func (c *Client) Current(ctx context.Context, q Query) (map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	params, err := q.params()
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	timer := monitoring.NewTimer(c.metrics, "weather")
	report, err := resilience.Execute(c.breaker, func() (map[string]interface{}, error) {
		var out map[string]interface{}
		resp, err := c.resty.R().
			SetContext(ctx).
			SetHeaders(tracing.Headers(ctx)).
			SetQueryParams(params).
			SetQueryParam("units", "metric").
			SetQueryParam("appid", c.apiKey).
			SetResult(&out).
			Get("/weather")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Status())
		}
		return out, nil
	})
	if err != nil {
		timer.Stop("error")
		c.logger.Warn("Weather fetch failed", zap.Any("query", params), zap.Error(err))
		if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return nil, err
	}
	timer.Stop("ok")
	return report, nil
}
