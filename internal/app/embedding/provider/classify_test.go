package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"

	"verse-embed/internal/app/embedding/retry"
	apperrors "verse-embed/internal/app/errors"
)

func TestClassify(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected retry.Class
	}{
		{"openai 429", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, retry.RateLimited},
		{"openai 401", &openai.APIError{HTTPStatusCode: 401, Message: "bad key"}, retry.Permanent},
		{"openai 400", &openai.APIError{HTTPStatusCode: 400}, retry.Permanent},
		{"openai 500", &openai.APIError{HTTPStatusCode: 500}, retry.Transient},
		{"openai request error 503", &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("unavailable")}, retry.Transient},
		{"gemini 429", genai.APIError{Code: 429, Message: "RESOURCE_EXHAUSTED"}, retry.RateLimited},
		{"gemini 403", genai.APIError{Code: 403}, retry.Permanent},
		{"wrapped 429", fmt.Errorf("call failed: %w", &openai.APIError{HTTPStatusCode: 429}), retry.RateLimited},
		{"rate_limit message", errors.New("rate_limit_exceeded"), retry.RateLimited},
		{"429 in message", errors.New("status 429 too many requests"), retry.RateLimited},
		{"network", errors.New("connection reset by peer"), retry.Transient},
		{"empty response", apperrors.ErrEmptyResponse, retry.Permanent},
		{"dimension", apperrors.Wrap(apperrors.ErrDimensionMismatch, "x"), retry.Permanent},
		{"cancelled", context.Canceled, retry.Permanent},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), retry.Permanent},
		{"nil", nil, retry.Permanent},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.err))
		})
	}
}
