package openligadb

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/logging"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/metrics"
	"github.com/1olp1/fch-tippspiel-23-local-version/internal/platform/resilience"
	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL      = "https://api.openligadb.de"
	defaultLeague       = "bl1"
	defaultLeagueID     = 4608
	defaultSeason       = 2023
	defaultTeamID       = 199
	defaultTeamName     = "1. FC Heidenheim 1846"
	defaultRetryBackoff = time.Second
	maxResponseBytes    = 4 << 20
)

var errTransient = crerr.New("openligadb transient failure")

// errNoContent is returned for empty or null bodies, which the provider uses
// for "nothing found".
var errNoContent = stderrors.New("openligadb returned no content")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	League         string
	LeagueID       int64
	Season         int
	TeamID         int64
	TeamName       string
	Location       *time.Location
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	league       string
	leagueID     int64
	season       int
	teamID       int64
	teamName     string
	location     *time.Location
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.Group[[]byte]
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	location := cfg.Location
	if location == nil {
		location = time.UTC
	}
	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = defaultRetryBackoff
	}

	breaker := resilience.NewCircuitBreakerFromConfig("openligadb", cfg.CircuitBreaker)
	breaker.OnStateChange(func(name string, from, to resilience.CircuitState) {
		metrics.RecordCircuitTransition(name, to.String())
		logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
	})

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		league:       firstNonEmpty(cfg.League, defaultLeague),
		leagueID:     firstPositive(cfg.LeagueID, defaultLeagueID),
		season:       int(firstPositive(int64(cfg.Season), defaultSeason)),
		teamID:       firstPositive(cfg.TeamID, defaultTeamID),
		teamName:     firstNonEmpty(cfg.TeamName, defaultTeamName),
		location:     location,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: retryBackoff,
		logger:       logger,
		breaker:      breaker,
	}
}

// doJSON fetches path and decodes it into target. Concurrent calls for the
// same path share one request.
func (c *Client) doJSON(ctx context.Context, endpoint, path string, target any) error {
	started := time.Now()
	raw, err, _ := c.flight.Do(path, func() ([]byte, error) {
		var body []byte
		execErr := c.breaker.Execute(func() error {
			var reqErr error
			body, reqErr = c.executeRequest(ctx, c.baseURL+path)
			return reqErr
		}, isCircuitFailure)
		return body, execErr
	})
	if err != nil {
		metrics.RecordProviderRequest(endpoint, requestStatus(err), time.Since(started))
		return err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		metrics.RecordProviderRequest(endpoint, "empty", time.Since(started))
		return errNoContent
	}
	if err := sonic.Unmarshal(trimmed, target); err != nil {
		metrics.RecordProviderRequest(endpoint, "decode_error", time.Since(started))
		return fmt.Errorf("decode %s payload: %w", endpoint, err)
	}

	metrics.RecordProviderRequest(endpoint, "ok", time.Since(started))
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusNotFound:
				return nil, errNoContent
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "openligadb request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(body, maxResponseBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func isCircuitFailure(err error) bool {
	return stderrors.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func requestStatus(err error) string {
	switch {
	case stderrors.Is(err, resilience.ErrCircuitOpen):
		return "circuit_open"
	case stderrors.Is(err, errNoContent):
		return "empty"
	case stderrors.Is(err, errTransient):
		return "transient"
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func escape(segment string) string {
	return url.PathEscape(segment)
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(value, fallback int64) int64 {
	if value > 0 {
		return value
	}
	return fallback
}
