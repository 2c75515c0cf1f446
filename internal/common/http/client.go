// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	apperrors "gigdial/internal/common/errors"
	"gigdial/internal/common/metrics"
	"gigdial/internal/common/observability"

	"go.opentelemetry.io/otel/attribute"
)

// Client is a JSON client for the GigDial backend. Every call is bounded by
// the configured timeout as well as the caller's context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// Request describes one backend call. Endpoint is the low-cardinality name
// used for metrics and spans, Path the concrete URL path.
type Request struct {
	Endpoint string
	Method   string
	Path     string
	Token    string
	Body     interface{}
}

// GetJSON performs a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, endpoint, path, token string, out interface{}) error {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodGet, Path: path, Token: token}, out)
}

// PostJSON performs a POST with body encoded as JSON and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, endpoint, path, token string, body, out interface{}) error {
	return c.Do(ctx, Request{Endpoint: endpoint, Method: http.MethodPost, Path: path, Token: token, Body: body}, out)
}

// Do executes req. Failures are returned as *errors.StandardError:
// transport errors as UPSTREAM_UNAVAILABLE, deadline as UPSTREAM_TIMEOUT,
// non-2xx via NewUpstreamStatusError and bad bodies as UPSTREAM_DECODE_FAILED.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) (err error) {
	ctx, span := observability.StartSpan(ctx, "upstream."+req.Endpoint,
		attribute.String("http.method", req.Method),
		attribute.String("http.path", req.Path),
	)
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.UpstreamRequestDuration.WithLabelValues(req.Endpoint).Observe(time.Since(start).Seconds())
		metrics.UpstreamRequestsTotal.WithLabelValues(req.Endpoint, outcome).Inc()
		observability.EndSpan(span, err)
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		raw, mErr := json.Marshal(req.Body)
		if mErr != nil {
			outcome = "encode_error"
			return apperrors.NewInvalidInputError(fmt.Sprintf("encode request body: %v", mErr))
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		outcome = "request_error"
		return apperrors.NewUpstreamUnavailableError(req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			outcome = "timeout"
			return apperrors.NewUpstreamTimeoutError(req.Path)
		}
		outcome = "transport_error"
		return apperrors.NewUpstreamUnavailableError(req.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		outcome = fmt.Sprintf("status_%d", resp.StatusCode)
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return apperrors.NewUpstreamStatusError(req.Path, resp.StatusCode, string(snippet))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(ctx, err) {
			outcome = "timeout"
			return apperrors.NewUpstreamTimeoutError(req.Path)
		}
		outcome = "decode_error"
		return apperrors.NewUpstreamDecodeError(req.Path, err)
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
