// Package httpx is the shared JSON request helper used by the backend service
// clients. GETs are retried with exponential backoff; writes are issued once
// because the backends make no idempotency promises.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/campusbites/campusbites-client/pkg/config"
	pkgerrors "github.com/campusbites/campusbites-client/pkg/errors"
	"github.com/sethvargo/go-retry"
)

const responseBodyReadLimit int64 = 1 << 20

type Client struct {
	httpClient    *http.Client
	retryAttempts uint64
	retryBaseWait time.Duration
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New builds the request helper from config.
func New(cfg config.HTTPConfig, opts ...Option) *Client {
	client := &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		retryAttempts: cfg.RetryAttempts,
		retryBaseWait: cfg.RetryBaseWait,
	}
	if client.retryBaseWait <= 0 {
		client.retryBaseWait = 200 * time.Millisecond
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// GetJSON issues a GET and decodes the response into out. Transient failures
// (network errors, 5xx) are retried up to the configured attempt count.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewExponential(c.retryBaseWait))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.do(ctx, http.MethodGet, url, nil, out)
		if err == nil {
			return nil
		}
		if typed := pkgerrors.As(err); typed != nil && pkgerrors.MetadataFor(typed.Code()).Retryable {
			return retry.RetryableError(err)
		}
		return err
	})
}

// PostJSON issues a single non-retried POST.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	return c.do(ctx, http.MethodPost, url, in, out)
}

// PutJSON issues a single non-retried PUT.
func (c *Client) PutJSON(ctx context.Context, url string, in, out any) error {
	return c.do(ctx, http.MethodPut, url, in, out)
}

// PatchJSON issues a single non-retried PATCH.
func (c *Client) PatchJSON(ctx context.Context, url string, in, out any) error {
	return c.do(ctx, http.MethodPatch, url, in, out)
}

func (c *Client) do(ctx context.Context, method, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, fmt.Sprintf("%s %s", method, url))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp, method, url)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUnavailable, err, fmt.Sprintf("decoding %s %s response", method, url))
	}
	return nil
}

func statusError(resp *http.Response, method, url string) error {
	msg := fmt.Sprintf("%s %s returned %d", method, url, resp.StatusCode)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, msg)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msg)
	case resp.StatusCode == http.StatusConflict:
		return pkgerrors.New(pkgerrors.CodeConflict, msg)
	case resp.StatusCode >= 500:
		return pkgerrors.New(pkgerrors.CodeUnavailable, msg)
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, msg)
	}
}
