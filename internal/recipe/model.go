package recipe

import (
	"errors"
	"math"
)

// ErrMinServings is returned when a recipe would drop below one serving.
var ErrMinServings = errors.New("servings cannot go below 1")

// Direction is the way UpdateServings moves the serving count.
type Direction string

const (
	Increase Direction = "inc"
	Decrease Direction = "dec"
)

// Summary represents a single search hit.
type Summary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Publisher string `json:"publisher"`
	Image     string `json:"image"`
}

// Ingredient is one structured line of a recipe.
type Ingredient struct {
	Count      float64 `json:"count"`
	Unit       string  `json:"unit"`
	Ingredient string  `json:"ingredient"`
}

// Recipe represents a fetched recipe with its derived fields.
type Recipe struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Img         string       `json:"img"`
	URL         string       `json:"url"`
	Ingredients []Ingredient `json:"ingredients"`
	Time        int          `json:"time"`
	Servings    int          `json:"servings"`
}

// CalcTime estimates 15 minutes for every 3 ingredients.
func (r *Recipe) CalcTime() {
	periods := math.Ceil(float64(len(r.Ingredients)) / 3)
	r.Time = int(periods) * 15
}

// CalcServings sets the default serving count.
func (r *Recipe) CalcServings() {
	r.Servings = 4
}

// UpdateServings moves the serving count by one and rescales every ingredient.
func (r *Recipe) UpdateServings(dir Direction) error {
	newServings := r.Servings + 1
	if dir == Decrease {
		newServings = r.Servings - 1
	}
	return r.ScaleTo(newServings)
}

// ScaleTo rescales the ingredients to an explicit serving count.
func (r *Recipe) ScaleTo(servings int) error {
	if servings < 1 {
		return ErrMinServings
	}
	if r.Servings < 1 {
		r.CalcServings()
	}
	factor := float64(servings) / float64(r.Servings)
	for i := range r.Ingredients {
		r.Ingredients[i].Count *= factor
	}
	r.Servings = servings
	return nil
}
