// Package pagination slices ordered result sets into numbered pages.
package pagination

import (
	"github.com/HarishV14/Local-library/pkg/errcodes"
)

// Page is one page of a result set. Numbers start at 1.
type Page struct {
	Number      int  `json:"page"`
	PerPage     int  `json:"per_page"`
	Total       int  `json:"total"`
	NumPages    int  `json:"num_pages"`
	Offset      int  `json:"-"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Paginate locates page number within total results. The first page always
// exists, even for an empty result; any page past the last is not found.
func Paginate(number, perPage, total int) (Page, error) {
	if perPage < 1 {
		perPage = 1
	}
	if number < 1 {
		return Page{}, errcodes.NotFound("Page")
	}

	numPages := (total + perPage - 1) / perPage
	if numPages == 0 {
		numPages = 1
	}
	if number > numPages {
		return Page{}, errcodes.NotFound("Page")
	}

	return Page{
		Number:      number,
		PerPage:     perPage,
		Total:       total,
		NumPages:    numPages,
		Offset:      (number - 1) * perPage,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
	}, nil
}

// Limit is the number of rows to fetch for the page.
func (p Page) Limit() int {
	return p.PerPage
}

// Response is the list payload shared by every paginated view.
type Response[T any] struct {
	Page
	Results []T `json:"results"`
}

func NewResponse[T any](page Page, results []T) Response[T] {
	if results == nil {
		results = []T{}
	}
	return Response[T]{Page: page, Results: results}
}

// Query is bound from the page query parameter.
type Query struct {
	Page int `query:"page" json:"page" default:"1" validate:"min=1"`
}
