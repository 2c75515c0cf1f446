// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gigdial/internal/common/errors"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client wraps the Zeebe gRPC client.
type Client struct {
	client zbc.Client
	config *ClientConfig
}

// ClientConfig holds configuration for the Camunda/Zeebe client.
type ClientConfig struct {
	GatewayAddress         string
	UsePlaintextConnection bool
	ConnectionTimeout      time.Duration
	RetryConfig            *RetryConfig
}

// RetryConfig defines retry behaviour for the initial broker handshake.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Connect creates a client and verifies the broker topology, retrying
// transient failures with exponential backoff.
func Connect(ctx context.Context, config *ClientConfig) (*Client, error) {
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.ConnectionTimeout == 0 {
		config.ConnectionTimeout = 10 * time.Second
	}

	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         config.GatewayAddress,
		UsePlaintextConnection: config.UsePlaintextConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{client: zeebeClient, config: config}
	err = c.withRetry(ctx, "topology", func(ctx context.Context) error {
		return c.HealthCheck(ctx)
	})
	if err != nil {
		zeebeClient.Close()
		return nil, err
	}
	return c, nil
}

// Zeebe returns the raw client used to open job workers.
func (c *Client) Zeebe() zbc.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}

// HealthCheck performs a topology request against the broker.
func (c *Client) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.ConnectionTimeout)
	defer cancel()

	if _, err := c.client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

func (c *Client) withRetry(ctx context.Context, operation string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= c.config.RetryConfig.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !isRetryableZeebeError(lastErr) || attempt == c.config.RetryConfig.MaxRetries {
			return mapZeebeError(lastErr, operation, attempt)
		}

		delay := c.config.RetryConfig.BaseDelay * time.Duration(1<<attempt)
		if delay > c.config.RetryConfig.MaxDelay {
			delay = c.config.RetryConfig.MaxDelay
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("operation %s cancelled after %d attempts: %w", operation, attempt+1, ctx.Err())
		}
	}
	return mapZeebeError(lastErr, operation, c.config.RetryConfig.MaxRetries)
}

func isRetryableZeebeError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
	} {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// mapZeebeError converts broker errors into StandardErrors.
func mapZeebeError(err error, operation string, attempt int) error {
	msg := fmt.Sprintf("zeebe %s failed", operation)
	if attempt > 0 {
		msg += fmt.Sprintf(" after %d attempts", attempt+1)
	}
	wrapped := fmt.Errorf("%s: %w", msg, err)

	lower := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline exceeded"):
		return errors.NewUpstreamTimeoutError("zeebe." + operation)
	case strings.Contains(lower, "permission denied") || strings.Contains(lower, "unauthenticated"):
		return errors.NewAuthenticationError(wrapped.Error())
	default:
		return errors.NewUpstreamUnavailableError("zeebe."+operation, wrapped)
	}
}
