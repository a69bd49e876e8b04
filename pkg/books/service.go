package books

import (
	"context"
	"database/sql"
	"slices"
	"strings"
	"time"

	"github.com/HarishV14/Local-library/pkg/database"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID   *int
	ISBN *string

	// WithInstances loads the book's copies with their borrowers.
	WithInstances bool
}

type ListBooksOptions struct {
	Limit         *int
	Offset        *int
	AuthorID      *int
	GenreID       *int
	LanguageID    *int
	TitleContains *string

	includeTotal bool
}

type CountBooksOptions struct {
	// TitleContains matches titles containing the word, ignoring case.
	TitleContains *string
}

type UpdateBookOptions struct {
	Columns      []string
	UpdateGenres bool
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// CreateBook inserts the book and links the genres in book.BookGenres.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) error {
	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = book.CreatedAt

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.
			NewInsert().
			Model(book).
			Returning("*").
			Exec(ctx)
		if err != nil {
			return mapWriteError(err)
		}

		return insertGenres(ctx, tx, book)
	})
	return errors.WithStack(err)
}

func insertGenres(ctx context.Context, tx bun.Tx, book *models.Book) error {
	if len(book.BookGenres) == 0 {
		return nil
	}
	for _, bg := range book.BookGenres {
		bg.BookID = book.ID
	}
	_, err := tx.
		NewInsert().
		Model(&book.BookGenres).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errcodes.ValidationError("Select a valid genre.")
		}
		if database.IsUniqueViolation(err) {
			return errcodes.ValidationError("A genre can only be added once.")
		}
		return errors.WithStack(err)
	}
	return nil
}

func mapWriteError(err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return errcodes.Conflict("A book with this ISBN already exists.")
	case database.IsForeignKeyViolation(err):
		return errcodes.ValidationError("Select a valid author and language.")
	default:
		return errors.WithStack(err)
	}
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Relation("Author").
		Relation("Language").
		Relation("BookGenres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.ISBN != nil {
		q = q.Where("b.isbn = ?", *opts.ISBN)
	}
	if opts.WithInstances {
		q = q.
			Relation("Instances", func(sq *bun.SelectQuery) *bun.SelectQuery {
				return sq.OrderExpr("bi.due_back ASC NULLS LAST").Order("bi.imprint ASC")
			}).
			Relation("Instances.Borrower")
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	var books []*models.Book
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&books).
		Relation("Author").
		Relation("BookGenres", func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.Order("bg.id ASC")
		}).
		Relation("BookGenres.Genre").
		Order("b.id ASC")

	if opts.AuthorID != nil {
		q = q.Where("b.author_id = ?", *opts.AuthorID)
	}
	if opts.LanguageID != nil {
		q = q.Where("b.language_id = ?", *opts.LanguageID)
	}
	if opts.GenreID != nil {
		q = q.Where("b.id IN (SELECT book_id FROM book_genres WHERE genre_id = ?)", *opts.GenreID)
	}
	if opts.TitleContains != nil {
		q = q.Where("b.title LIKE ? ESCAPE '\\'", containsPattern(*opts.TitleContains))
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// CountBooks counts books. SQLite's LIKE ignores ASCII case, which gives
// the case-insensitive title match.
func (svc *Service) CountBooks(ctx context.Context, opts CountBooksOptions) (int, error) {
	q := svc.db.NewSelect().
		Model((*models.Book)(nil))

	if opts.TitleContains != nil {
		q = q.Where("b.title LIKE ? ESCAPE '\\'", containsPattern(*opts.TitleContains))
	}

	count, err := q.Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) UpdateBook(ctx context.Context, book *models.Book, opts UpdateBookOptions) error {
	if len(opts.Columns) == 0 && !opts.UpdateGenres {
		return nil
	}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if opts.UpdateGenres {
			// Replace the previous genres with the ones on the book.
			_, err := tx.
				NewDelete().
				Model((*models.BookGenre)(nil)).
				Where("book_id = ?", book.ID).
				Exec(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if err := insertGenres(ctx, tx, book); err != nil {
				return err
			}
		}

		book.UpdatedAt = time.Now()
		columns := append(slices.Clone(opts.Columns), "updated_at")

		res, err := tx.
			NewUpdate().
			Model(book).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return mapWriteError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Book")
		}

		return nil
	})
	return errors.WithStack(err)
}

// DeleteBook deletes a book and its genre links. A book that still has
// copies can't be deleted.
func (svc *Service) DeleteBook(ctx context.Context, bookID int) error {
	res, err := svc.db.NewDelete().
		Model((*models.Book)(nil)).
		Where("id = ?", bookID).
		Exec(ctx)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return errcodes.Conflict("This book still has copies. Delete them first.")
		}
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book")
	}
	return nil
}

// GenreLinks builds BookGenres for the given genre ids, dropping duplicates.
func GenreLinks(genreIDs []int) []*models.BookGenre {
	seen := make(map[int]bool, len(genreIDs))
	links := make([]*models.BookGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, &models.BookGenre{GenreID: id})
	}
	return links
}

func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
