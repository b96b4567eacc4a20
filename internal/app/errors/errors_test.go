package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, "write embeddings.json")

	assert.EqualError(t, err, "write embeddings.json: disk full")
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestSentinelMatching(t *testing.T) {
	err := fmt.Errorf("openai: %w", ErrEmptyResponse)

	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.NotErrorIs(t, err, ErrEmptyText)
}

func TestIsFatal(t *testing.T) {
	testCases := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"nil", nil, false},
		{"corpus load", &CorpusLoadError{Path: "x.json", Err: ErrFileNotFound}, true},
		{"intermediate write", &WriteError{Label: "intermediate_100", Err: ErrFileWriteFailed}, false},
		{"final write", &WriteError{Label: "final", Final: true, Err: ErrFileWriteFailed}, true},
		{"wrapped final write", fmt.Errorf("run: %w", &WriteError{Final: true, Err: ErrFileWriteFailed}), true},
		{"interrupted run", fmt.Errorf("run interrupted after 2 of 6 records: %w", context.Canceled), false},
		{"embedding exhausted", &EmbeddingError{Kind: EmbeddingExhausted, Attempts: 3, Err: context.DeadlineExceeded}, false},
		{"unknown", stderrors.New("boom"), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.fatal, IsFatal(tc.err))
		})
	}
}

func TestEmbeddingErrorMessage(t *testing.T) {
	err := &EmbeddingError{Kind: EmbeddingExhausted, Attempts: 3, Err: stderrors.New("429 rate limit")}

	assert.Equal(t, "embedding exhausted after 3 attempt(s): 429 rate limit", err.Error())
}

func TestFieldErrors(t *testing.T) {
	assert.EqualError(t, RequiredField("OpenAI API key"), "OpenAI API key is required")
	assert.EqualError(t, InvalidField("VEMBED_CHECKPOINT_INTERVAL", "not a number"), "VEMBED_CHECKPOINT_INTERVAL is invalid: not a number")
	assert.EqualError(t, OutOfRange("embedding max attempts", 1, 10), "embedding max attempts out of range (must be between 1 and 10)")
}
