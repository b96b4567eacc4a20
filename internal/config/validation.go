package config

import (
	"strings"
	"time"

	apperrors "verse-embed/internal/app/errors"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 || timeout > 30*time.Minute {
		return apperrors.OutOfRange(name+" timeout", time.Nanosecond, 30*time.Minute)
	}
	return nil
}

// ValidateRetries validates the attempt count
func ValidateRetries(attempts int, name string) error {
	if attempts < 1 || attempts > 10 {
		return apperrors.OutOfRange(name+" max attempts", 1, 10)
	}
	return nil
}

// ValidateRetryDelay validates retry delay
func ValidateRetryDelay(delay time.Duration, name string) error {
	if delay < 0 || delay > time.Minute {
		return apperrors.OutOfRange(name+" retry delay", time.Duration(0), time.Minute)
	}
	return nil
}

// ValidateAPIKey validates API key format. Format errors match apperrors.ErrInvalidAPIKey.
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return apperrors.RequiredField(keyType + " API key")
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return apperrors.Wrap(apperrors.ErrInvalidAPIKey, "OpenAI key must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return apperrors.Wrap(apperrors.ErrInvalidAPIKey, "OpenAI key too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return apperrors.Wrap(apperrors.ErrInvalidAPIKey, "Gemini key must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return apperrors.Wrap(apperrors.ErrInvalidAPIKey, "Gemini key too short")
		}
	}

	return nil
}

// ValidateRetryConfig validates the embedding client retry settings
func ValidateRetryConfig(retry RetryConfig) error {
	if err := ValidateRetries(retry.MaxAttempts, "embedding"); err != nil {
		return err
	}
	if err := ValidateRetryDelay(retry.RateLimitBase, "rate limit"); err != nil {
		return err
	}
	return ValidateRetryDelay(retry.FixedDelay, "transient")
}
