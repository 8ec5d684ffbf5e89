package thirdparty

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	walletCommon "github.com/status-im/nftstory/services/wallet/common"
)

const maxErrorBodyLength = 512

// Creds sets the authentication of an outgoing request.
type Creds interface {
	apply(req *http.Request)
}

type BasicCreds struct {
	User     string
	Password string
}

func (c *BasicCreds) apply(req *http.Request) {
	req.SetBasicAuth(c.User, c.Password)
}

type BearerCreds struct {
	Token string
}

func (c *BearerCreds) apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Token)
}

// HTTPStatusError is returned for any reply outside of the 2xx range.
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

type HTTPClient struct {
	client  *http.Client
	limiter *rate.Limiter
}

type HTTPClientOption func(*HTTPClient)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) HTTPClientOption {
	return func(c *HTTPClient) {
		c.client.Timeout = timeout
	}
}

// WithRateLimit paces requests to at most rps per second. Requests wait, they are never dropped.
func WithRateLimit(rps float64, burst int) HTTPClientOption {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func NewHTTPClient(opts ...HTTPClientOption) *HTTPClient {
	c := &HTTPClient{
		client: &http.Client{
			Timeout: walletCommon.ProviderRequestTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) DoGetRequest(ctx context.Context, rawURL string, params url.Values, creds Creds) ([]byte, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.do(ctx, req, creds)
}

func (c *HTTPClient) DoPostRequest(ctx context.Context, rawURL string, payload any, creds Creds) ([]byte, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payloadJSON))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req, creds)
}

func (c *HTTPClient) do(ctx context.Context, req *http.Request, creds Creds) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if creds != nil {
		creds.apply(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			Body:       Truncate(string(body), maxErrorBodyLength),
		}
	}

	return body, nil
}

// Truncate shortens s to at most n bytes without splitting a UTF-8 sequence.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
