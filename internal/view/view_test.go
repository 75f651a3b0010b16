package view

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

func render(t *testing.T, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Templates().ExecuteTemplate(&buf, name, data))
	return buf.String()
}

func TestRenderResults(t *testing.T) {
	results := make([]recipe.Summary, 12)
	for i := range results {
		results[i] = recipe.Summary{ID: fmt.Sprint(i), Title: "Pasta with tomato and spinach", Publisher: "Closet Cooking"}
	}
	page := search.Paginate(results, 1, 10)

	out := render(t, "results", ResultsData{Query: "pasta", Page: &page, SelectedID: "3"})

	assert.Equal(t, 10, strings.Count(out, `class="results__link`))
	assert.Equal(t, 1, strings.Count(out, "results__link--active"))
	assert.Contains(t, out, "Pasta with tomato ...")
	assert.Contains(t, out, `data-goto="2"`)
	assert.NotContains(t, out, "results__btn--prev")
}

func TestRenderResults_Empty(t *testing.T) {
	page := search.Paginate(nil, 1, 10)

	out := render(t, "results", ResultsData{Query: "<b>x</b>", Page: &page})
	assert.Contains(t, out, "No recipes found")
	assert.NotContains(t, out, "<b>x</b>")
}

func TestRenderRecipe(t *testing.T) {
	rec := &recipe.Recipe{
		ID:       "47746",
		Title:    "Best Pizza Dough Ever",
		Author:   "101 Cookbooks",
		Servings: 1,
		Time:     15,
		Ingredients: []recipe.Ingredient{
			{Count: 2.5, Unit: "cup", Ingredient: "flour"},
			{Count: 0, Unit: "tsp", Ingredient: "salt"},
		},
	}

	out := render(t, "recipe", RecipeData{Recipe: rec, Liked: true})

	assert.Contains(t, out, "2 1/2")
	assert.Contains(t, out, `<div class="recipe__count">?</div>`)
	assert.Contains(t, out, "Unlike")
	assert.Contains(t, out, "disabled")
	assert.Contains(t, out, "/recipes/47746/list")
}

func TestRenderListAndLikes(t *testing.T) {
	out := render(t, "list", []list.Item{{ID: "abc", Count: 1.5, Unit: "tsp", Ingredient: "salt"}})
	assert.Contains(t, out, `data-itemid="abc"`)
	assert.Contains(t, out, `value="1.5"`)

	out = render(t, "likes", []likes.Like(nil))
	assert.Contains(t, out, "visibility: hidden")

	out = render(t, "likes", []likes.Like{{ID: "1", Title: "Curry", Author: "BBC"}})
	assert.NotContains(t, out, "visibility: hidden")
	assert.Contains(t, out, "Curry")
}

func TestRenderPage(t *testing.T) {
	out := render(t, "page.tmpl", Page{Query: "pizza", Error: "Something went wrong with search"})
	assert.Contains(t, out, `value="pizza"`)
	assert.Contains(t, out, "Something went wrong with search")
}
