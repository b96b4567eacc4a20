package testutil

import (
	"context"
	"crypto/sha256"
	"sync"
)

// FakeEmbedder returns deterministic vectors and can be scripted to fail
type FakeEmbedder struct {
	mu        sync.Mutex
	dimension int
	failures  map[string]error
	dims      map[string]int
	calls     []string
	onCall    func(n int, text string)
}

// NewFakeEmbedder creates an embedder producing vectors of dimension
func NewFakeEmbedder(dimension int) *FakeEmbedder {
	return &FakeEmbedder{
		dimension: dimension,
		failures:  make(map[string]error),
		dims:      make(map[string]int),
	}
}

// FailOn makes Embed return err for text
func (f *FakeEmbedder) FailOn(text string, err error) *FakeEmbedder {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[text] = err
	return f
}

// DimensionFor overrides the vector length returned for text
func (f *FakeEmbedder) DimensionFor(text string, dimension int) *FakeEmbedder {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dims[text] = dimension
	return f
}

// OnCall registers a hook run before each call with the 1-based call number
func (f *FakeEmbedder) OnCall(hook func(n int, text string)) *FakeEmbedder {
	f.onCall = hook
	return f
}

// Embed implements the embedder contract
func (f *FakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	n := len(f.calls)
	err := f.failures[text]
	dim, ok := f.dims[text]
	if !ok {
		dim = f.dimension
	}
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(n, text)
	}
	if err != nil {
		return nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	return DeterministicVector(text, dim), nil
}

// Calls returns the texts Embed was called with, in order
func (f *FakeEmbedder) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// DeterministicVector derives a vector of length dim from text
func DeterministicVector(text string, dim int) []float32 {
	hash := sha256.Sum256([]byte(text))
	vec := make([]float32, dim)
	for i := range vec {
		vec[i] = float32(hash[i%len(hash)])/127.5 - 1
	}
	return vec
}
