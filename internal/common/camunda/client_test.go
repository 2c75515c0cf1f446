package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	apperrors "gigdial/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRetryableZeebeError(t *testing.T) {
	assert.True(t, isRetryableZeebeError(errors.New("rpc error: code = Unavailable")))
	assert.True(t, isRetryableZeebeError(errors.New("context deadline exceeded")))
	assert.False(t, isRetryableZeebeError(errors.New("permission denied")))
}

func TestMapZeebeError(t *testing.T) {
	assert.True(t, apperrors.HasCode(mapZeebeError(errors.New("deadline exceeded"), "topology", 0), apperrors.ErrCodeUpstreamTimeout))
	assert.True(t, apperrors.HasCode(mapZeebeError(errors.New("Unauthenticated"), "topology", 0), apperrors.ErrCodeAuthentication))
	assert.True(t, apperrors.HasCode(mapZeebeError(errors.New("connection refused"), "topology", 2), apperrors.ErrCodeUpstreamUnavailable))
}

func TestWithRetry(t *testing.T) {
	c := &Client{config: &ClientConfig{RetryConfig: &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}}}

	attempts := 0
	err := c.withRetry(context.Background(), "topology", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)

	attempts = 0
	err = c.withRetry(context.Background(), "topology", func(context.Context) error {
		attempts++
		return errors.New("permission denied")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
