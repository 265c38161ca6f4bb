package esplora

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/beutel-network/beutel-daemon/pkg/circuitbreaker"
	"github.com/beutel-network/beutel-daemon/pkg/explorer"
	"github.com/beutel-network/beutel-daemon/pkg/util"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	// DefaultRequestTimeout ...
	DefaultRequestTimeout = 15 * time.Second
	// DefaultRateLimit is the max number of requests per second.
	DefaultRateLimit = 10
)

// DefaultURLs are the mempool.space endpoints for every supported network.
var DefaultURLs = map[string]string{
	"mainnet":  "https://mempool.space/api",
	"testnet3": "https://mempool.space/testnet/api",
	"testnet4": "https://mempool.space/testnet4/api",
	"signet":   "https://mempool.space/signet/api",
}

// Config holds the parameters of an esplora service.
type Config struct {
	URL            string
	RequestTimeout time.Duration
	RateLimit      int
}

func (c Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("explorer url must not be empty")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("explorer url must be an http(s) endpoint")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

type esplora struct {
	apiURL  string
	client  *util.HTTPClient
	limiter ratelimit.Limiter
	breaker *gobreaker.CircuitBreaker
}

type response struct {
	status int
	body   string
}

// NewService returns a new esplora service as an explorer.Service interface.
// No request is made at construction time.
func NewService(cfg Config) (explorer.Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	timeout := cfg.RequestTimeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	rateLimit := cfg.RateLimit
	if rateLimit == 0 {
		rateLimit = DefaultRateLimit
	}

	return &esplora{
		apiURL:  strings.TrimSuffix(cfg.URL, "/"),
		client:  util.NewHTTPClient(timeout),
		limiter: ratelimit.New(rateLimit),
		breaker: circuitbreaker.NewCircuitBreaker("esplora"),
	}, nil
}

func (e *esplora) get(ctx context.Context, path string) (int, string, error) {
	return e.request(ctx, http.MethodGet, path, "", nil)
}

// request throttles the call and runs it through the circuit breaker. Only
// transport errors and 5xx responses count as failures, the caller deals
// with any other status.
func (e *esplora) request(
	ctx context.Context, method, path, body string, header map[string]string,
) (int, string, error) {
	e.limiter.Take()
	// The limiter may have blocked for a while.
	if err := ctx.Err(); err != nil {
		return 0, "", err
	}

	res, err := e.breaker.Execute(func() (interface{}, error) {
		status, resp, err := e.client.NewHTTPRequest(
			ctx, method, e.apiURL+path, body, header,
		)
		if err != nil {
			return nil, err
		}
		if status >= http.StatusInternalServerError {
			return nil, fmt.Errorf("status %d: %s", status, strings.TrimSpace(resp))
		}
		return response{status, resp}, nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return 0, "", err
		}
		return 0, "", fmt.Errorf("%w: %s %s: %s", explorer.ErrServiceUnavailable, method, path, err)
	}

	r := res.(response)
	return r.status, r.body, nil
}

func unexpectedStatus(path string, status int, body string) error {
	return fmt.Errorf("%s: unexpected status %d: %s", path, status, strings.TrimSpace(body))
}
