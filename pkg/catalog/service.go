// Package catalog serves the library home page and mounts the catalog views.
package catalog

import (
	"context"

	"github.com/HarishV14/Local-library/pkg/authors"
	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/genres"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Word whose occurrences in book titles are counted on the home page.
const titleWord = "the"

// Counts are the catalog totals shown on the home page.
type Counts struct {
	Books              int `json:"num_books"`
	Instances          int `json:"num_instances"`
	InstancesAvailable int `json:"num_instances_available"`
	Authors            int `json:"num_authors"`
	Genres             int `json:"num_genres"`
	BooksContainingThe int `json:"num_books_containing_the"`
}

type Service struct {
	bookService   *books.Service
	loanService   *loans.Service
	authorService *authors.Service
	genreService  *genres.Service
}

func NewService(db bun.IDB) *Service {
	return &Service{
		bookService:   books.NewService(db),
		loanService:   loans.NewService(db),
		authorService: authors.NewService(db),
		genreService:  genres.NewService(db),
	}
}

func (svc *Service) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	var err error

	if counts.Books, err = svc.bookService.CountBooks(ctx, books.CountBooksOptions{}); err != nil {
		return Counts{}, errors.WithStack(err)
	}
	word := titleWord
	if counts.BooksContainingThe, err = svc.bookService.CountBooks(ctx, books.CountBooksOptions{TitleContains: &word}); err != nil {
		return Counts{}, errors.WithStack(err)
	}
	if counts.Instances, err = svc.loanService.CountInstances(ctx); err != nil {
		return Counts{}, errors.WithStack(err)
	}
	if counts.InstancesAvailable, err = svc.loanService.CountInstances(ctx, models.LoanStatusAvailable); err != nil {
		return Counts{}, errors.WithStack(err)
	}
	if counts.Authors, err = svc.authorService.CountAuthors(ctx); err != nil {
		return Counts{}, errors.WithStack(err)
	}
	if counts.Genres, err = svc.genreService.CountGenres(ctx); err != nil {
		return Counts{}, errors.WithStack(err)
	}

	return counts, nil
}
