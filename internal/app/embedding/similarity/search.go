package similarity

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"verse-embed/internal/app/storage/snapshot"
)

// TextMatchSimilarity is the fixed score of substring matches
const TextMatchSimilarity = 0.5

// Result is one ranked verse
type Result struct {
	snapshot.IndexEntry
	Similarity float32 `json:"similarity"`
}

// Embedder embeds a search query
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TopK ranks every row of the dataset against query and returns the best k
func TopK(calc SimilarityCalculator, query []float32, ds *snapshot.Dataset, k int) ([]Result, error) {
	if calc == nil {
		calc = NewCosineSimilarityCalculator()
	}

	results := make([]Result, 0, len(ds.Matrix))
	for i, row := range ds.Matrix {
		score, err := calc.Calculate(query, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		results = append(results, Result{IndexEntry: ds.Index[i], Similarity: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	return truncate(results, k), nil
}

// TextSearch returns the first k verses whose translation or transliteration
// contains query case-insensitively, or whose Sanskrit contains it exactly
func TextSearch(query string, index []snapshot.IndexEntry, k int) []Result {
	lowerQuery := strings.ToLower(query)

	matches := lo.Filter(index, func(e snapshot.IndexEntry, _ int) bool {
		return strings.Contains(strings.ToLower(e.Translation), lowerQuery) ||
			strings.Contains(strings.ToLower(e.Transliteration), lowerQuery) ||
			strings.Contains(e.Sanskrit, query)
	})

	results := lo.Map(truncate(matches, k), func(e snapshot.IndexEntry, _ int) Result {
		return Result{IndexEntry: e, Similarity: TextMatchSimilarity}
	})
	return results
}

// Outcome is the result of Search
type Outcome struct {
	Query    string
	Semantic bool
	Results  []Result
	Err      error
}

// Search embeds query and ranks the dataset, falling back to TextSearch when
// the query cannot be embedded or compared
func Search(ctx context.Context, embedder Embedder, query string, ds *snapshot.Dataset, k int) Outcome {
	vec, err := embedder.Embed(ctx, query)
	if err == nil {
		var results []Result
		results, err = TopK(nil, vec, ds, k)
		if err == nil {
			return Outcome{Query: query, Semantic: true, Results: results}
		}
	}

	return Outcome{
		Query:   query,
		Results: TextSearch(query, ds.Index, k),
		Err:     err,
	}
}

func truncate[T any](items []T, k int) []T {
	if k > 0 && len(items) > k {
		return items[:k]
	}
	return items
}
