package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/localmart/localmart-client/pkg/errors"
	"github.com/localmart/localmart-client/pkg/logger"
	"github.com/localmart/localmart-client/pkg/metrics"
	"github.com/localmart/localmart-client/pkg/types"
)

const responseBodyReadLimit int64 = 1 << 20

// TokenSource supplies the bearer token attached to every request. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client issues JSON requests against the commerce API and unwraps the
// `{success, data, error}` envelope. It owns no state beyond its transport.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	tokens     TokenSource
	metrics    *metrics.RequestMetrics
	log        *logger.Logger
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

// WithTokenSource attaches an Authorization token provider.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithMetrics enables per-request metric collection.
func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger attaches a structured logger for request outcomes.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(ua)
		if trimmed != "" {
			c.userAgent = trimmed
		}
	}
}

// NewClient builds an API client rooted at the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		userAgent:  "localmart-client/1.0",
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return client, nil
}

// call describes one logical API operation.
type call struct {
	resource  string
	operation string
	method    string
	path      string
	query     url.Values
	body      any
	out       any
}

func (c *Client) do(ctx context.Context, req call) error {
	requestID := uuid.NewString()
	start := time.Now()
	err := c.execute(ctx, req, requestID)
	elapsed := time.Since(start)

	c.metrics.ObserveDuration(req.resource, req.operation, elapsed)
	if err != nil {
		code := string(pkgerrors.CodeNetwork)
		if typed := pkgerrors.As(err); typed != nil {
			code = string(typed.Code())
		}
		c.metrics.IncFailure(req.resource, req.operation, code)
		if c.log != nil {
			c.log.Warn(c.logContext(ctx, req, requestID), "api request failed")
		}
		return err
	}

	c.metrics.IncSuccess(req.resource, req.operation)
	if c.log != nil {
		c.log.Debug(c.logContext(ctx, req, requestID), "api request completed")
	}
	return nil
}

// logContext carries the request id sent as X-Request-ID, so client logs and
// server logs correlate on the same value.
func (c *Client) logContext(ctx context.Context, req call, requestID string) context.Context {
	ctx = c.log.WithFields(ctx, map[string]any{
		"resource":  req.resource,
		"operation": req.operation,
	})
	return c.log.WithRequestID(ctx, requestID)
}

func (c *Client) execute(ctx context.Context, req call, requestID string) error {
	var body io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "marshal request body")
		}
		body = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL + "/" + strings.TrimLeft(req.path, "/")
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "build request")
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.method != http.MethodGet {
		httpReq.Header.Set("Idempotency-Key", uuid.NewString())
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve access token")
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read response body")
	}

	var envelope types.Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &envelope); err != nil {
			if resp.StatusCode < 200 || resp.StatusCode > 299 {
				code := pkgerrors.FromStatus(resp.StatusCode)
				return pkgerrors.New(code, pkgerrors.MetadataFor(code).PublicMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode response envelope")
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !envelope.Success {
		code := pkgerrors.FromStatus(resp.StatusCode)
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			code = pkgerrors.CodeServer
		}
		return pkgerrors.New(code, envelopeMessage(envelope, code))
	}

	if req.out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, req.out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode response data")
	}
	return nil
}

// envelopeMessage prefers the server-reported error text over the generic
// public message for the code.
func envelopeMessage(envelope types.Envelope, code pkgerrors.Code) string {
	if msg := strings.TrimSpace(envelope.Error); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(envelope.Message); msg != "" {
		return msg
	}
	return pkgerrors.MetadataFor(code).PublicMessage
}
