package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/i474232898/class-weather/internal/course"
	"github.com/i474232898/class-weather/internal/observability"
	"github.com/i474232898/class-weather/internal/upstream"
)

// ErrUpstreamUnreachable is returned when the catalog could not be asked at
// all. Unlike a not-found answer it is never cached.
var ErrUpstreamUnreachable = errors.New("course catalog unreachable")

// Client reads course schedules from the catalog's XML explorer API.
type Client struct {
	baseURL string
	httpCfg upstream.Config
	circuit *gobreaker.CircuitBreaker
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewClient creates a catalog client rooted at baseURL, e.g.
// http://courses.illinois.edu/cisapp/explorer/schedule.
func NewClient(client *http.Client, baseURL, userAgent string, metrics *observability.Metrics, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: upstream.Config{
			Client:    client,
			Backoff:   upstream.DefaultBackoff(),
			UserAgent: userAgent,
		},
		circuit: upstream.NewBreaker("catalog"),
		metrics: metrics,
		logger:  logger,
	}
}

// WithRateLimit throttles catalog requests to rps per second with the given
// burst. A non-positive rps leaves the client unthrottled.
func (c *Client) WithRateLimit(rps float64, burst int) *Client {
	if rps <= 0 {
		c.httpCfg.Limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.httpCfg.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// Fetch issues one lookup for the course. A non-success status becomes a
// NotFound result rather than an error so it can be cached.
func (c *Client) Fetch(ctx context.Context, term course.Term, key course.Key) (Result, error) {
	u := fmt.Sprintf("%s/%d/%s/%s/%d.xml?mode=cascade",
		c.baseURL, term.Year, term.Season, url.PathEscape(key.Subject), key.Number)

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	start := time.Now()
	resp, err := upstream.Do(ctx, c.httpCfg, c.circuit, buildRequest)
	c.metrics.CatalogRequestDuration.Observe(time.Since(start).Seconds())

	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) {
		c.metrics.CatalogRequests.WithLabelValues("not_found").Inc()
		c.logger.Info("course not in catalog",
			zap.String("course", key.String()),
			zap.String("term", term.String()),
			zap.Int("status", statusErr.Code))
		return NotFound(key), nil
	}
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("%w: %s %s: %v", ErrUpstreamUnreachable, term, key, err)
	}
	defer resp.Body.Close()

	sections, err := ParseSections(resp.Body)
	if err != nil {
		c.metrics.CatalogRequests.WithLabelValues("error").Inc()
		return Result{}, fmt.Errorf("%s %s: %w", term, key, err)
	}

	c.metrics.CatalogRequests.WithLabelValues("ok").Inc()
	return Result{Sections: sections}, nil
}
