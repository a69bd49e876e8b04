// Package seed loads catalog fixtures from YAML into the database.
package seed

import (
	"context"
	"database/sql"
	"io"
	"strings"

	"github.com/HarishV14/Local-library/pkg/authors"
	"github.com/HarishV14/Local-library/pkg/binder"
	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/genres"
	"github.com/HarishV14/Local-library/pkg/htmlutil"
	"github.com/HarishV14/Local-library/pkg/languages"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"
)

type Fixture struct {
	Authors []Author `yaml:"authors"`
}

type Author struct {
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	DateOfBirth string `yaml:"date_of_birth"`
	DateOfDeath string `yaml:"date_of_death"`
	Books       []Book `yaml:"books"`
}

type Book struct {
	Title    string   `yaml:"title"`
	Summary  string   `yaml:"summary"`
	ISBN     string   `yaml:"isbn"`
	Language string   `yaml:"language"`
	Genres   []string `yaml:"genres"`
	Copies   []Copy   `yaml:"copies"`
}

// Copy is one book instance. DueInDays is relative to the day the fixture
// is applied; Borrower is a username.
type Copy struct {
	Imprint   string `yaml:"imprint"`
	Status    string `yaml:"status"`
	DueInDays *int   `yaml:"due_in_days"`
	Borrower  string `yaml:"borrower"`
}

// Result counts the records created by Apply.
type Result struct {
	Authors   int
	Books     int
	Instances int
	Skipped   int
}

// Load decodes a fixture, rejecting unknown keys.
func Load(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	f := &Fixture{}
	if err := dec.Decode(f); err != nil {
		return nil, errors.Wrap(err, "failed to decode fixture")
	}
	for _, a := range f.Authors {
		for _, b := range a.Books {
			if strings.TrimSpace(b.ISBN) == "" {
				return nil, errors.Errorf("book %q has no isbn", b.Title)
			}
		}
	}
	return f, nil
}

// Apply writes the fixture in one transaction. Books whose ISBN already
// exists are skipped, so a fixture can be applied more than once. Records
// are checked against the same validations as API input.
func Apply(ctx context.Context, db *bun.DB, f *Fixture, today models.Date) (Result, error) {
	var result Result
	log := logger.FromContext(ctx)

	check, err := binder.New()
	if err != nil {
		return Result{}, err
	}

	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		s := &seeder{
			tx:      tx,
			today:   today,
			check:   check,
			authors: authors.NewService(tx),
			books:   books.NewService(tx),
			genres:  genres.NewService(tx),
			langs:   languages.NewService(tx),
			loans:   loans.NewService(tx),
			result:  &result,
		}
		for _, a := range f.Authors {
			if err := s.author(ctx, a); err != nil {
				return errors.Wrapf(err, "author %s %s", a.FirstName, a.LastName)
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, errors.WithStack(err)
	}

	log.Info("fixture applied", logger.Data{
		"authors":   result.Authors,
		"books":     result.Books,
		"instances": result.Instances,
		"skipped":   result.Skipped,
	})
	return result, nil
}

type seeder struct {
	tx      bun.Tx
	today   models.Date
	check   *binder.Binder
	authors *authors.Service
	books   *books.Service
	genres  *genres.Service
	langs   *languages.Service
	loans   *loans.Service
	result  *Result
}

func (s *seeder) author(ctx context.Context, a Author) error {
	author := &models.Author{}
	err := s.tx.NewSelect().
		Model(author).
		Where("a.first_name = ? AND a.last_name = ?", a.FirstName, a.LastName).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		author = &models.Author{FirstName: a.FirstName, LastName: a.LastName}
		if author.DateOfBirth, err = parseDate(a.DateOfBirth); err != nil {
			return err
		}
		if author.DateOfDeath, err = parseDate(a.DateOfDeath); err != nil {
			return err
		}
		if err := s.check.Check(author); err != nil {
			return err
		}
		if err := s.authors.CreateAuthor(ctx, author); err != nil {
			return err
		}
		s.result.Authors++
	} else if err != nil {
		return errors.WithStack(err)
	}

	for _, b := range a.Books {
		if err := s.book(ctx, author, b); err != nil {
			return errors.Wrapf(err, "book %q", b.Title)
		}
	}
	return nil
}

func (s *seeder) book(ctx context.Context, author *models.Author, b Book) error {
	if strings.TrimSpace(b.ISBN) == "" {
		return errcodes.ValidationError(`"isbn" is required`)
	}
	_, err := s.books.RetrieveBook(ctx, books.RetrieveBookOptions{ISBN: &b.ISBN})
	if err == nil {
		s.result.Skipped++
		return nil
	}
	if !errors.Is(err, errcodes.NotFound("Book")) {
		return err
	}

	book := &models.Book{
		Title:    b.Title,
		AuthorID: &author.ID,
		Summary:  htmlutil.StripTags(b.Summary),
		ISBN:     b.ISBN,
	}
	if b.Language != "" {
		language, err := s.langs.FindOrCreateLanguage(ctx, b.Language)
		if err != nil {
			return err
		}
		book.LanguageID = &language.ID
	}
	ids := make([]int, 0, len(b.Genres))
	for _, name := range b.Genres {
		genre, err := s.genres.FindOrCreateGenre(ctx, name)
		if err != nil {
			return err
		}
		ids = append(ids, genre.ID)
	}
	book.BookGenres = books.GenreLinks(ids)

	if err := s.check.Check(book); err != nil {
		return err
	}
	if err := s.books.CreateBook(ctx, book); err != nil {
		return err
	}
	s.result.Books++

	for _, cp := range b.Copies {
		if err := s.copy(ctx, book, cp); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) copy(ctx context.Context, book *models.Book, cp Copy) error {
	instance := &models.BookInstance{
		BookID:  &book.ID,
		Imprint: cp.Imprint,
		Status:  models.LoanStatusMaintenance,
	}
	if cp.Status != "" {
		status, err := models.ParseLoanStatus(cp.Status)
		if err != nil {
			return errors.WithStack(err)
		}
		instance.Status = status
	}
	if cp.DueInDays != nil {
		due := s.today.AddDays(*cp.DueInDays)
		instance.DueBack = &due
	}
	if cp.Borrower != "" {
		user := &models.User{}
		err := s.tx.NewSelect().
			Model(user).
			Where("u.username = ? COLLATE NOCASE", cp.Borrower).
			Scan(ctx)
		if err != nil {
			return errors.Wrapf(err, "borrower %q", cp.Borrower)
		}
		instance.BorrowerID = &user.ID
	}

	if err := s.check.Check(instance); err != nil {
		return err
	}
	if err := s.loans.CreateInstance(ctx, instance); err != nil {
		return err
	}
	s.result.Instances++
	return nil
}

func parseDate(s string) (*models.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
