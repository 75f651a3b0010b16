// Package view renders the application state as HTML fragments. It holds no
// business logic: every template receives model data and prints it.
package view

import (
	"embed"
	"html/template"

	"forkify/internal/likes"
	"forkify/internal/list"
	"forkify/internal/recipe"
	"forkify/internal/search"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Funcs are the helpers available to every template.
var Funcs = template.FuncMap{
	"formatCount": recipe.FormatCount,
	"limitTitle": func(title string) string {
		return search.LimitTitle(title, search.DefaultTitleLimit)
	},
}

// Templates parses the embedded templates.
func Templates() *template.Template {
	return template.Must(template.New("forkify").Funcs(Funcs).ParseFS(templateFS, "templates/*.tmpl"))
}

// Page is everything the full page renders.
type Page struct {
	Query      string
	Results    *search.Page
	SelectedID string
	Recipe     *recipe.Recipe
	Liked      bool
	List       []list.Item
	Likes      []likes.Like
	Error      string
}

// ResultsData is the search results fragment input.
type ResultsData struct {
	Query      string
	Page       *search.Page
	SelectedID string
}

// RecipeData is the recipe fragment input.
type RecipeData struct {
	Recipe *recipe.Recipe
	Liked  bool
}

// ResultsData returns the results fragment input for the page.
func (p Page) ResultsData() ResultsData {
	return ResultsData{Query: p.Query, Page: p.Results, SelectedID: p.SelectedID}
}

// RecipeData returns the recipe fragment input for the page.
func (p Page) RecipeData() RecipeData {
	return RecipeData{Recipe: p.Recipe, Liked: p.Liked}
}
