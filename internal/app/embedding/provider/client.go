package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"verse-embed/internal/app/common"
	"verse-embed/internal/app/embedding/retry"
	apperrors "verse-embed/internal/app/errors"
	"verse-embed/internal/config"
)

// Client adds retry with backoff on top of an EmbeddingProvider
type Client struct {
	provider EmbeddingProvider
	policy   retry.Policy
	logger   common.Logger
	timeout  time.Duration
}

// NewClient builds a client whose retry policy comes from cfg
func NewClient(p EmbeddingProvider, cfg config.RetryConfig, logger common.Logger) *Client {
	return NewClientWithPolicy(p, retry.DefaultPolicy(cfg.MaxAttempts, cfg.RateLimitBase, cfg.FixedDelay, Classify), logger)
}

// NewClientWithPolicy builds a client with an explicit policy
func NewClientWithPolicy(p EmbeddingProvider, policy retry.Policy, logger common.Logger) *Client {
	if logger == nil {
		logger = common.NopLogger{}
	}
	if policy.Classify == nil {
		policy.Classify = Classify
	}
	return &Client{provider: p, policy: policy, logger: logger}
}

// WithTimeout bounds every single attempt. An attempt that times out is
// retried like any transient failure.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

// Embed returns the vector for text or an *apperrors.EmbeddingError
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperrors.EmbeddingError{Kind: apperrors.EmbeddingPermanent, Err: apperrors.ErrEmptyText}
	}

	info := c.provider.GetProviderInfo()
	policy := c.policy
	onRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, class retry.Class, wait time.Duration, err error) {
		c.logger.Warn("embedding attempt failed, retrying",
			"provider", info.Name,
			"attempt", attempt,
			"max_attempts", policy.MaxAttempts,
			"class", class.String(),
			"wait", wait,
			"error", err)
		if onRetry != nil {
			onRetry(attempt, class, wait, err)
		}
	}

	return retry.Do(ctx, policy, func(ctx context.Context) ([]float32, error) {
		attemptCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		vec, err := c.provider.GenerateEmbedding(attemptCtx, text)
		if err != nil {
			if ctx.Err() == nil && attemptCtx.Err() != nil {
				return nil, fmt.Errorf("request timed out after %s", c.timeout)
			}
			return nil, err
		}
		if len(vec) == 0 {
			return nil, apperrors.ErrEmptyResponse
		}
		return vec, nil
	})
}

// Info returns metadata about the wrapped provider
func (c *Client) Info() ProviderInfo {
	return c.provider.GetProviderInfo()
}
