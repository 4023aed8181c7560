// Package upstream implements city.Provider against the cities JSON API.
//
// Contract:
//
//	GET {base}/cities/{cityId}/insights?apiKey=KEY
//	GET {base}/weather-predictions?cityIdentifier={cityId}&apiKey=KEY
//
// Any status other than 200 is reported as a *city.StatusError.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/i474232898/city-recipes/internal/city"
	"github.com/i474232898/city-recipes/internal/common"
	"github.com/i474232898/city-recipes/internal/metrics"
)

const (
	endpointInsights = "insights"
	endpointWeather  = "weather"
)

// Config holds the upstream connection settings.
type Config struct {
	BaseURL string
	APIKey  string

	// MaxRetries bounds retries of transport failures.
	MaxRetries int
	Backoff    time.Duration

	// CacheTTL enables the insights cache when positive.
	CacheTTL time.Duration
}

// Client talks to the upstream cities API.
type Client struct {
	baseURL string
	apiKey  string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	cache   *insightsCache
	log     zerolog.Logger
}

// NewClient creates a Client sharing the given http.Client.
func NewClient(httpClient *http.Client, cfg Config, log zerolog.Logger) *Client {
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpCfg: HTTPClientConfig{
			Client: httpClient,
			Backoff: BackoffConfig{
				MaxRetries:      cfg.MaxRetries,
				InitialInterval: backoff,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: newCircuitBreaker("cities-api"),
		log:     log.With().Str("component", "upstream").Logger(),
	}
	if cfg.CacheTTL > 0 {
		c.cache = newInsightsCache(cfg.CacheTTL, time.Now)
	}
	return c
}

// Insights fetches coordinates, population and notable facts for a city.
func (c *Client) Insights(ctx context.Context, cityID string) (city.Insights, error) {
	if c.cache != nil {
		if ins, ok := c.cache.get(cityID); ok {
			metrics.UpstreamCacheHits.Inc()
			return ins, nil
		}
	}

	values := url.Values{}
	values.Set("apiKey", c.apiKey)
	u := fmt.Sprintf("%s/cities/%s/insights?%s", c.baseURL, url.PathEscape(cityID), values.Encode())

	var ins city.Insights
	if err := c.getJSON(ctx, endpointInsights, u, &ins); err != nil {
		return city.Insights{}, err
	}

	if c.cache != nil {
		c.cache.put(cityID, ins)
	}
	return ins, nil
}

// WeatherPredictions fetches the forecast reports for a city.
func (c *Client) WeatherPredictions(ctx context.Context, cityID string) ([]city.WeatherReport, error) {
	values := url.Values{}
	values.Set("cityIdentifier", cityID)
	values.Set("apiKey", c.apiKey)
	u := fmt.Sprintf("%s/weather-predictions?%s", c.baseURL, values.Encode())

	var reports []city.WeatherReport
	if err := c.getJSON(ctx, endpointWeather, u, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// SweepCache evicts expired insights and returns the number removed.
func (c *Client) SweepCache() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.sweep()
}

// CacheSize returns the number of cached insights entries.
func (c *Client) CacheSize() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.size()
}

func (c *Client) getJSON(ctx context.Context, endpoint, u string, out any) error {
	buildRequest := func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	start := time.Now()
	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.circuit, endpoint, buildRequest)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
		c.log.Debug().Err(err).Str("url", common.RedactURL(u)).Dur("took", time.Since(start)).Msg("upstream request failed")
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.log.Debug().Str("url", common.RedactURL(u)).Dur("took", time.Since(start)).Msg("upstream request")
	return nil
}

func outcome(err error) string {
	var statusErr *city.StatusError
	switch {
	case errors.As(err, &statusErr):
		return "status_" + strconv.Itoa(statusErr.Code)
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	default:
		return "transport_error"
	}
}
