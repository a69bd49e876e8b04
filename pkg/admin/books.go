package admin

import (
	"context"
	"strconv"

	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/htmlutil"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type BookPayload struct {
	Title      *string                 `json:"title" validate:"omitempty,max=200" mod:"trim"`
	AuthorID   *int                    `json:"author_id" validate:"omitempty,min=0"`
	Summary    *string                 `json:"summary" validate:"omitempty,max=1000" mod:"trim"`
	ISBN       *string                 `json:"isbn" validate:"omitempty,isbn" mod:"trim"`
	LanguageID *int                    `json:"language_id" validate:"omitempty,min=0"`
	Genre      *[]int                  `json:"genre" validate:"omitempty,dive,min=1"`
	Instances  []InstanceInlinePayload `json:"instances" validate:"omitempty,dive" mod:"dive"`
}

// InstanceInlinePayload edits a copy from its book's page.
type InstanceInlinePayload struct {
	ID         *string `json:"id" validate:"omitempty,uuid"`
	Delete     bool    `json:"delete"`
	Imprint    *string `json:"imprint" validate:"omitempty,max=200" mod:"trim"`
	DueBack    *string `json:"due_back" validate:"omitempty,date"`
	Status     *string `json:"status" validate:"omitempty,loan_status"`
	BorrowerID *int    `json:"borrower_id" validate:"omitempty,min=0"`
}

func bookAdmin() *ModelAdmin[*models.Book] {
	return &ModelAdmin[*models.Book]{
		Name:              "book",
		VerboseName:       "book",
		VerboseNamePlural: "books",
		ListDisplay: []Column[*models.Book]{
			{Name: "title"},
			{Name: "author", Label: "author", Value: func(b *models.Book) any {
				if b.Author == nil {
					return nil
				}
				return b.Author.String()
			}},
			{Name: "display_genre", Label: "genre", Value: func(b *models.Book) any {
				return b.DisplayGenre()
			}},
		},
		Fieldsets: []Fieldset{{
			Fields: [][]string{
				{"title"},
				{"author_id"},
				{"summary"},
				{"isbn"},
				{"language_id"},
				{"genre"},
			},
		}},
		Inlines: []Inline{{
			Model:       "bookinstance",
			VerboseName: "book instances",
			Style:       Tabular,
			Fields:      []string{"id", "imprint", "due_back", "status", "borrower_id"},
		}},

		newRecord: func() *models.Book { return &models.Book{} },
		list: func(ctx context.Context, db bun.IDB, params ListParams, limit, offset int) ([]*models.Book, int, error) {
			opts := books.ListBooksOptions{Limit: &limit, Offset: &offset}
			if params.Q != "" {
				opts.TitleContains = &params.Q
			}
			return books.NewService(db).ListBooksWithTotal(ctx, opts)
		},
		retrieve: func(ctx context.Context, db bun.IDB, id string) (*models.Book, error) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return nil, errcodes.NotFound("Book")
			}
			return books.NewService(db).RetrieveBook(ctx, books.RetrieveBookOptions{ID: &n, WithInstances: true})
		},
		save: saveBook,
		remove: func(ctx context.Context, db bun.IDB, book *models.Book) error {
			return books.NewService(db).DeleteBook(ctx, book.ID)
		},
		children: func(b *models.Book) map[string][]Record {
			rows := make([]Record, len(b.Instances))
			for i, bi := range b.Instances {
				rows[i] = bi
			}
			return map[string][]Record{"bookinstance": rows}
		},
		extraValues: func(b *models.Book) map[string]any {
			ids := []int{}
			for _, g := range b.Genres() {
				ids = append(ids, g.ID)
			}
			return map[string]any{"genre": ids}
		},
	}
}

func saveBook(c echo.Context, db bun.IDB, book *models.Book, isNew bool) error {
	ctx := c.Request().Context()

	params := BookPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	var ch changes
	ch.setString(&book.Title, params.Title, "title")
	ch.setRef(&book.AuthorID, params.AuthorID, "author_id")
	if params.Summary != nil {
		summary := htmlutil.StripTags(*params.Summary)
		ch.setString(&book.Summary, &summary, "summary")
	}
	ch.setString(&book.ISBN, params.ISBN, "isbn")
	ch.setRef(&book.LanguageID, params.LanguageID, "language_id")
	if params.Genre != nil {
		book.BookGenres = books.GenreLinks(*params.Genre)
	}
	if err := validateRecord(c, book); err != nil {
		return err
	}

	svc := books.NewService(db)
	if isNew {
		if err := svc.CreateBook(ctx, book); err != nil {
			return err
		}
	} else {
		err := svc.UpdateBook(ctx, book, books.UpdateBookOptions{
			Columns:      ch,
			UpdateGenres: params.Genre != nil,
		})
		if err != nil {
			return err
		}
	}

	return saveBookInstances(c, db, book, params.Instances)
}

func saveBookInstances(c echo.Context, db bun.IDB, book *models.Book, rows []InstanceInlinePayload) error {
	ctx := c.Request().Context()
	svc := loans.NewService(db)

	for _, row := range rows {
		instance := &models.BookInstance{BookID: &book.ID}
		isNew := row.ID == nil
		if !isNew {
			id, err := uuid.Parse(*row.ID)
			if err != nil {
				return errcodes.NotFound("Book instance")
			}
			existing, err := svc.RetrieveInstance(ctx, loans.RetrieveInstanceOptions{ID: &id})
			if err != nil {
				return err
			}
			if existing.BookID == nil || *existing.BookID != book.ID {
				return errcodes.ValidationError("Book instance " + id.String() + " is not a copy of this book.")
			}
			instance = existing
		}

		if row.Delete {
			if isNew {
				continue
			}
			if err := svc.DeleteInstance(ctx, instance.ID); err != nil {
				return err
			}
			continue
		}

		ch, err := applyInstance(instance, instanceFields{
			Imprint:    row.Imprint,
			DueBack:    row.DueBack,
			Status:     row.Status,
			BorrowerID: row.BorrowerID,
		})
		if err != nil {
			return err
		}
		if err := validateRecord(c, instance); err != nil {
			return err
		}

		if isNew {
			if err := svc.CreateInstance(ctx, instance); err != nil {
				return err
			}
			continue
		}
		if err := svc.UpdateInstance(ctx, instance, loans.UpdateInstanceOptions{Columns: ch}); err != nil {
			return err
		}
	}
	return nil
}
