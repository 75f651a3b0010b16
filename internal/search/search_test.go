package search

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forkify/internal/recipe"
)

type stubSource struct {
	results  []recipe.Summary
	err      error
	received string
}

func (s *stubSource) Search(ctx context.Context, query string) ([]recipe.Summary, error) {
	s.received = query
	return s.results, s.err
}

func summaries(n int) []recipe.Summary {
	out := make([]recipe.Summary, n)
	for i := range out {
		out[i] = recipe.Summary{ID: fmt.Sprint(i), Title: fmt.Sprintf("Recipe %d", i)}
	}
	return out
}

func TestGetResults(t *testing.T) {
	src := &stubSource{results: summaries(3)}
	s := New("  pizza ")

	require.NoError(t, s.GetResults(context.Background(), src))
	assert.Equal(t, "pizza", src.received)
	assert.Len(t, s.Result, 3)
}

func TestGetResults_Error(t *testing.T) {
	boom := errors.New("boom")
	s := New("pizza")

	err := s.GetResults(context.Background(), &stubSource{err: boom})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, s.Result)
}

func TestPaginate(t *testing.T) {
	results := summaries(28)

	first := Paginate(results, 1, 10)
	assert.Len(t, first.Results, 10)
	assert.Equal(t, 3, first.Pages)
	assert.False(t, first.HasPrev())
	assert.Equal(t, 2, first.Next)

	middle := Paginate(results, 2, 10)
	assert.Equal(t, "10", middle.Results[0].ID)
	assert.Equal(t, 1, middle.Prev)
	assert.Equal(t, 3, middle.Next)

	last := Paginate(results, 3, 10)
	assert.Len(t, last.Results, 8)
	assert.Equal(t, 2, last.Prev)
	assert.False(t, last.HasNext())
}

func TestPaginate_SinglePageHasNoButtons(t *testing.T) {
	p := Paginate(summaries(4), 1, 10)
	assert.Len(t, p.Results, 4)
	assert.False(t, p.HasPrev())
	assert.False(t, p.HasNext())
}

func TestPaginate_ClampsPage(t *testing.T) {
	results := summaries(15)

	assert.Equal(t, 2, Paginate(results, 9, 10).Page)
	assert.Equal(t, 1, Paginate(results, -1, 10).Page)

	empty := Paginate(nil, 3, 10)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.Pages)
	assert.Empty(t, empty.Results)
}

func TestLimitTitle(t *testing.T) {
	assert.Equal(t, "Pasta with tomato ...", LimitTitle("Pasta with tomato and spinach", 17))
	assert.Equal(t, "Pizza", LimitTitle("Pizza", 17))
	assert.Equal(t, "Supercalifragilis ...", LimitTitle("Supercalifragilisticexpialidocious", 17))
	assert.Equal(t, "Crème brûlée à la ...", LimitTitle("Crème brûlée à la française", 17))
}
