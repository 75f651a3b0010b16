package search

import (
	"context"
	"fmt"
	"strings"

	"forkify/internal/recipe"
)

// Source defines the remote lookup a Search runs against.
type Source interface {
	Search(ctx context.Context, query string) ([]recipe.Summary, error)
}

// Search holds a query and the results fetched for it.
type Search struct {
	Query  string           `json:"query"`
	Result []recipe.Summary `json:"result"`
}

// New creates a Search for the trimmed query.
func New(query string) *Search {
	return &Search{Query: strings.TrimSpace(query)}
}

// GetResults fetches the results for the query from src.
func (s *Search) GetResults(ctx context.Context, src Source) error {
	results, err := src.Search(ctx, s.Query)
	if err != nil {
		return fmt.Errorf("search %q: %w", s.Query, err)
	}
	s.Result = results
	return nil
}
