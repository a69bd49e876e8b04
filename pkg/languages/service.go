package languages

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

type RetrieveLanguageOptions struct {
	ID   *int
	Name *string
}

type ListLanguagesOptions struct {
	Limit  *int
	Offset *int

	includeTotal bool
}

type UpdateLanguageOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

func (svc *Service) CreateLanguage(ctx context.Context, language *models.Language) error {
	now := time.Now()
	if language.CreatedAt.IsZero() {
		language.CreatedAt = now
	}
	language.UpdatedAt = language.CreatedAt
	language.Name = strings.TrimSpace(language.Name)

	_, err := svc.db.
		NewInsert().
		Model(language).
		Returning("*").
		Exec(ctx)
	if database.IsUniqueViolation(err) {
		return errcodes.Conflict("A language with this name already exists.")
	}
	return errors.WithStack(err)
}

func (svc *Service) RetrieveLanguage(ctx context.Context, opts RetrieveLanguageOptions) (*models.Language, error) {
	language := &models.Language{}

	q := svc.db.
		NewSelect().
		Model(language).
		ColumnExpr("l.*").
		ColumnExpr("(SELECT COUNT(*) FROM books b WHERE b.language_id = l.id) AS book_count")

	if opts.ID != nil {
		q = q.Where("l.id = ?", *opts.ID)
	}
	if opts.Name != nil {
		q = q.Where("l.name = ? COLLATE NOCASE", strings.TrimSpace(*opts.Name))
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Language")
		}
		return nil, errors.WithStack(err)
	}

	return language, nil
}

// FindOrCreateLanguage matches on name without regard to case.
func (svc *Service) FindOrCreateLanguage(ctx context.Context, name string) (*models.Language, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errcodes.ValidationError("Language name cannot be empty.")
	}

	language, err := svc.RetrieveLanguage(ctx, RetrieveLanguageOptions{Name: &name})
	if err == nil {
		return language, nil
	}
	if !errors.Is(err, errcodes.NotFound("Language")) {
		return nil, err
	}

	language = &models.Language{Name: name}
	if err := svc.CreateLanguage(ctx, language); err != nil {
		return nil, err
	}
	return language, nil
}

func (svc *Service) ListLanguages(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, error) {
	l, _, err := svc.listLanguagesWithTotal(ctx, opts)
	return l, errors.WithStack(err)
}

func (svc *Service) ListLanguagesWithTotal(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, int, error) {
	opts.includeTotal = true
	return svc.listLanguagesWithTotal(ctx, opts)
}

func (svc *Service) listLanguagesWithTotal(ctx context.Context, opts ListLanguagesOptions) ([]*models.Language, int, error) {
	var languages []*models.Language
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&languages).
		ColumnExpr("l.*").
		ColumnExpr("(SELECT COUNT(*) FROM books b WHERE b.language_id = l.id) AS book_count").
		Order("l.name ASC")

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

	return languages, total, nil
}

func (svc *Service) UpdateLanguage(ctx context.Context, language *models.Language, opts UpdateLanguageOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	language.UpdatedAt = time.Now()
	columns := append(slices.Clone(opts.Columns), "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(language).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return errcodes.Conflict("A language with this name already exists.")
		}
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Language")
	}
	return nil
}

// DeleteLanguage deletes a language. Books written in it keep no language.
func (svc *Service) DeleteLanguage(ctx context.Context, languageID int) error {
	res, err := svc.db.NewDelete().
		Model((*models.Language)(nil)).
		Where("id = ?", languageID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Language")
	}
	return nil
}
