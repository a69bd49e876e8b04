package admin

import (
	"context"
	"strconv"

	"github.com/HarishV14/Local-library/pkg/authors"
	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/htmlutil"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type AuthorPayload struct {
	FirstName   *string             `json:"first_name" validate:"omitempty,max=100" mod:"trim"`
	LastName    *string             `json:"last_name" validate:"omitempty,max=100" mod:"trim"`
	DateOfBirth *string             `json:"date_of_birth" validate:"omitempty,date"`
	DateOfDeath *string             `json:"date_of_death" validate:"omitempty,date"`
	Books       []BookInlinePayload `json:"books" validate:"omitempty,dive" mod:"dive"`
}

// BookInlinePayload edits a book from its author's page. Rows without an
// id are new books; Delete removes the book.
type BookInlinePayload struct {
	ID         *int    `json:"id" validate:"omitempty,min=1"`
	Delete     bool    `json:"delete"`
	Title      *string `json:"title" validate:"omitempty,max=200" mod:"trim"`
	Summary    *string `json:"summary" validate:"omitempty,max=1000" mod:"trim"`
	ISBN       *string `json:"isbn" validate:"omitempty,isbn" mod:"trim"`
	LanguageID *int    `json:"language_id" validate:"omitempty,min=0"`
}

func authorAdmin() *ModelAdmin[*models.Author] {
	return &ModelAdmin[*models.Author]{
		Name:              "author",
		VerboseName:       "author",
		VerboseNamePlural: "authors",
		ListDisplay: []Column[*models.Author]{
			{Name: "last_name"},
			{Name: "first_name"},
			{Name: "date_of_birth"},
			{Name: "date_of_death"},
		},
		Fieldsets: []Fieldset{{
			Fields: [][]string{
				{"first_name"},
				{"last_name"},
				{"date_of_birth", "date_of_death"},
			},
		}},
		Inlines: []Inline{{
			Model:       "book",
			VerboseName: "books",
			Style:       Stacked,
			Fields:      []string{"title", "summary", "isbn", "language_id"},
		}},

		newRecord: func() *models.Author { return &models.Author{} },
		list: func(ctx context.Context, db bun.IDB, params ListParams, limit, offset int) ([]*models.Author, int, error) {
			opts := authors.ListAuthorsOptions{Limit: &limit, Offset: &offset}
			if params.Q != "" {
				opts.Search = &params.Q
			}
			return authors.NewService(db).ListAuthorsWithTotal(ctx, opts)
		},
		retrieve: func(ctx context.Context, db bun.IDB, id string) (*models.Author, error) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return nil, errcodes.NotFound("Author")
			}
			return authors.NewService(db).RetrieveAuthor(ctx, authors.RetrieveAuthorOptions{ID: &n, WithBooks: true})
		},
		save: saveAuthor,
		remove: func(ctx context.Context, db bun.IDB, author *models.Author) error {
			return authors.NewService(db).DeleteAuthor(ctx, author.ID)
		},
		children: func(a *models.Author) map[string][]Record {
			rows := make([]Record, len(a.Books))
			for i, b := range a.Books {
				rows[i] = b
			}
			return map[string][]Record{"book": rows}
		},
	}
}

func saveAuthor(c echo.Context, db bun.IDB, author *models.Author, isNew bool) error {
	ctx := c.Request().Context()

	params := AuthorPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	var ch changes
	ch.setString(&author.FirstName, params.FirstName, "first_name")
	ch.setString(&author.LastName, params.LastName, "last_name")
	if err := ch.setDate(&author.DateOfBirth, params.DateOfBirth, "date_of_birth"); err != nil {
		return err
	}
	if err := ch.setDate(&author.DateOfDeath, params.DateOfDeath, "date_of_death"); err != nil {
		return err
	}
	if err := validateRecord(c, author); err != nil {
		return err
	}

	svc := authors.NewService(db)
	if isNew {
		if err := svc.CreateAuthor(ctx, author); err != nil {
			return err
		}
	} else if err := svc.UpdateAuthor(ctx, author, authors.UpdateAuthorOptions{Columns: ch}); err != nil {
		return err
	}

	return saveAuthorBooks(c, db, author, params.Books)
}

func saveAuthorBooks(c echo.Context, db bun.IDB, author *models.Author, rows []BookInlinePayload) error {
	ctx := c.Request().Context()
	svc := books.NewService(db)

	for _, row := range rows {
		book := &models.Book{AuthorID: &author.ID}
		if row.ID != nil {
			existing, err := svc.RetrieveBook(ctx, books.RetrieveBookOptions{ID: row.ID})
			if err != nil {
				return err
			}
			if existing.AuthorID == nil || *existing.AuthorID != author.ID {
				return errcodes.ValidationError("Book " + strconv.Itoa(*row.ID) + " is not by this author.")
			}
			book = existing
		}

		if row.Delete {
			if row.ID == nil {
				continue
			}
			if err := svc.DeleteBook(ctx, book.ID); err != nil {
				return err
			}
			continue
		}

		var ch changes
		ch.setString(&book.Title, row.Title, "title")
		if row.Summary != nil {
			summary := htmlutil.StripTags(*row.Summary)
			ch.setString(&book.Summary, &summary, "summary")
		}
		ch.setString(&book.ISBN, row.ISBN, "isbn")
		ch.setRef(&book.LanguageID, row.LanguageID, "language_id")
		if err := validateRecord(c, book); err != nil {
			return err
		}

		if row.ID == nil {
			if err := svc.CreateBook(ctx, book); err != nil {
				return err
			}
			continue
		}
		if err := svc.UpdateBook(ctx, book, books.UpdateBookOptions{Columns: ch}); err != nil {
			return err
		}
	}
	return nil
}
