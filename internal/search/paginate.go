package search

import (
	"strings"
	"unicode/utf8"

	"forkify/internal/recipe"
)

// DefaultPerPage is the number of results shown on one page.
const DefaultPerPage = 10

// DefaultTitleLimit is the title length the results list shortens to.
const DefaultTitleLimit = 17

// Page is one window over a result list plus the buttons to move around it.
type Page struct {
	Results []recipe.Summary `json:"results"`
	Page    int              `json:"page"`
	Pages   int              `json:"pages"`
	Total   int              `json:"total"`
	Prev    int              `json:"prev,omitempty"`
	Next    int              `json:"next,omitempty"`
}

// HasPrev reports whether a "previous page" button is shown.
func (p Page) HasPrev() bool { return p.Prev > 0 }

// HasNext reports whether a "next page" button is shown.
func (p Page) HasNext() bool { return p.Next > 0 }

// Paginate returns the results for page, clamping page into range.
func Paginate(results []recipe.Summary, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(results)
	pages := (total + perPage - 1) / perPage

	if page > pages {
		page = pages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * perPage
	end := page * perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	p := Page{
		Results: results[start:end],
		Page:    page,
		Pages:   pages,
		Total:   total,
	}

	switch {
	case page == 1 && pages > 1:
		p.Next = page + 1
	case page < pages:
		p.Prev = page - 1
		p.Next = page + 1
	case page == pages && pages > 1:
		p.Prev = page - 1
	}
	return p
}

// LimitTitle shortens title to whole words fitting in limit characters and
// marks the cut with " ...".
func LimitTitle(title string, limit int) string {
	if utf8.RuneCountInString(title) <= limit {
		return title
	}

	var kept []string
	length := 0
	for _, word := range strings.Fields(title) {
		n := utf8.RuneCountInString(word)
		if length+n > limit {
			break
		}
		kept = append(kept, word)
		length += n
	}
	if len(kept) == 0 {
		return string([]rune(title)[:limit]) + " ..."
	}
	return strings.Join(kept, " ") + " ..."
}
