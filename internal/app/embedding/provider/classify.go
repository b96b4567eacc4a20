package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"verse-embed/internal/app/embedding/retry"
	apperrors "verse-embed/internal/app/errors"
)

// Classify maps a provider error to its retry class
func Classify(err error) retry.Class {
	if err == nil {
		return retry.Permanent
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, apperrors.ErrEmptyText) || errors.Is(err, apperrors.ErrEmptyResponse) ||
		errors.Is(err, apperrors.ErrDimensionMismatch) || errors.Is(err, apperrors.ErrMissingAPIKey) {
		return retry.Permanent
	}

	if status, ok := statusCode(err); ok {
		switch status {
		case http.StatusTooManyRequests:
			return retry.RateLimited
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
			return retry.Permanent
		}
		if status >= 500 {
			return retry.Transient
		}
	}

	if IsRateLimit(err) {
		return retry.RateLimited
	}
	return retry.Transient
}

// IsRateLimit reports whether err looks like a rate limit response
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	if status, ok := statusCode(err); ok && status == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "429")
}

func statusCode(err error) (int, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return apiErr.HTTPStatusCode, true
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return reqErr.HTTPStatusCode, true
	}

	var geminiErr genai.APIError
	if errors.As(err, &geminiErr) && geminiErr.Code != 0 {
		return geminiErr.Code, true
	}

	return 0, false
}
