package chainrest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"cca_wallet/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	accountsPath = "/cosmos/auth/v1beta1/accounts"
	balancesPath = "/cosmos/bank/v1beta1/balances/"
)

// StatusError is a non-2xx answer from a chain REST endpoint.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Message)
}

// Client implements port.ChainRESTClient over the Cosmos SDK REST gateway.
type Client struct {
	client  *fasthttp.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// Options tunes a Client. A zero RateLimit disables limiting.
type Options struct {
	Timeout    time.Duration
	RateLimit  float64
	BurstLimit int
}

// NewClient creates a new instance of Client.
func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.BurstLimit
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return &Client{
		client: &fasthttp.Client{
			Name:                "cca_wallet",
			MaxIdleConnDuration: 30 * time.Second,
		},
		timeout: opts.Timeout,
		limiter: limiter,
		logger:  logger.Named("ChainRESTClient"),
	}
}

// ListAccounts implements port.ChainRESTClient.
func (c *Client) ListAccounts(ctx context.Context, baseURL string) ([]string, error) {
	requestURL := strings.TrimRight(baseURL, "/") + accountsPath

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var resp accountsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal accounts response", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal accounts response from %s: %w", requestURL, err)
	}

	addresses := make([]string, len(resp.Accounts))
	for i, raw := range resp.Accounts {
		var acc accountEntry
		if err := json.Unmarshal(raw, &acc); err != nil {
			c.logger.Debug("Skipping undecodable account entry", zap.Int("index", i), zap.Error(err))
			continue
		}
		addresses[i] = acc.Address
	}

	c.logger.Debug("Accounts listed", zap.String("url", requestURL), zap.Int("count", len(addresses)))
	return addresses, nil
}

// GetBalances implements port.ChainRESTClient.
func (c *Client) GetBalances(ctx context.Context, baseURL string, address string) ([]entity.Coin, error) {
	if address == "" {
		return nil, entity.ErrAddressRequired
	}
	requestURL := strings.TrimRight(baseURL, "/") + balancesPath + url.PathEscape(address)

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var resp balancesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("Failed to unmarshal balances response", zap.String("url", requestURL), zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal balances response from %s: %w", requestURL, err)
	}

	coins := make([]entity.Coin, 0, len(resp.Balances))
	for _, b := range resp.Balances {
		coins = append(coins, entity.Coin{Denom: b.Denom, Amount: b.Amount})
	}
	return coins, nil
}

type result struct {
	status int
	body   []byte
	err    error
}

// get performs a GET and returns the body of a 2xx response. The request
// itself is bounded by the client timeout; ctx cancellation returns at once.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.logger.Debug("Requesting chain REST endpoint", zap.String("url", requestURL))
	done := make(chan result, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		defer fasthttp.ReleaseRequest(req)
		req.SetRequestURI(requestURL)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/json")

		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseResponse(resp)

		err := c.client.DoDeadline(req, resp, deadline)
		done <- result{
			status: resp.StatusCode(),
			body:   append([]byte(nil), resp.Body()...),
			err:    err,
		}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if r.err != nil {
		c.logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(r.err))
		return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, r.err)
	}
	if r.status < 200 || r.status >= 300 {
		statusErr := &StatusError{URL: requestURL, StatusCode: r.status}
		var gw errorResponse
		if json.Unmarshal(r.body, &gw) == nil && gw.Message != "" {
			statusErr.Message = gw.Message
		}
		c.logger.Error("Chain REST request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", r.status),
			zap.ByteString("responseBody", r.body),
		)
		return nil, statusErr
	}
	return r.body, nil
}
