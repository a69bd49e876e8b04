package loans

import (
	"context"
	"database/sql"
	"slices"
	"time"

	"github.com/HarishV14/Local-library/pkg/database"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveInstanceOptions struct {
	ID *uuid.UUID
}

type ListInstancesOptions struct {
	Limit      *int
	Offset     *int
	BookID     *int
	BorrowerID *int
	Statuses   []models.LoanStatus

	// DueFrom and DueBefore bound due_back to [DueFrom, DueBefore).
	DueFrom   *models.Date
	DueBefore *models.Date
	// HasDueBack filters on whether a due date is set at all.
	HasDueBack *bool

	includeTotal bool
}

type UpdateInstanceOptions struct {
	Columns []string
}

type Service struct {
	db bun.IDB
}

func NewService(db bun.IDB) *Service {
	return &Service{db}
}

// CreateInstance inserts a copy, generating its id when unset. New copies
// default to maintenance.
func (svc *Service) CreateInstance(ctx context.Context, instance *models.BookInstance) error {
	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	instance.UpdatedAt = instance.CreatedAt

	if instance.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return errors.WithStack(err)
		}
		instance.ID = id
	}
	if instance.Status == "" {
		instance.Status = models.LoanStatusMaintenance
	}
	if !instance.Status.Valid() {
		return errcodes.ValidationError("Select a valid status.")
	}

	_, err := svc.db.
		NewInsert().
		Model(instance).
		Returning("*").
		Exec(ctx)
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if database.IsForeignKeyViolation(err) {
		return errcodes.ValidationError("Select a valid book and borrower.")
	}
	return errors.WithStack(err)
}

func (svc *Service) RetrieveInstance(ctx context.Context, opts RetrieveInstanceOptions) (*models.BookInstance, error) {
	instance := &models.BookInstance{}

	q := svc.db.
		NewSelect().
		Model(instance).
		Relation("Book").
		Relation("Borrower")

	if opts.ID != nil {
		q = q.Where("bi.id = ?", opts.ID.String())
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book instance")
		}
		return nil, errors.WithStack(err)
	}

	return instance, nil
}

func (svc *Service) ListInstances(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, error) {
	i, _, err := svc.listInstancesWithTotal(ctx, opts)
	return i, errors.WithStack(err)
}

func (svc *Service) ListInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	opts.includeTotal = true
	return svc.listInstancesWithTotal(ctx, opts)
}

func (svc *Service) listInstancesWithTotal(ctx context.Context, opts ListInstancesOptions) ([]*models.BookInstance, int, error) {
	var instances []*models.BookInstance
	var total int
	var err error

	// Copies without a due date sort last; ties keep insertion order.
	q := svc.db.
		NewSelect().
		Model(&instances).
		Relation("Book").
		Relation("Borrower").
		OrderExpr("bi.due_back ASC NULLS LAST").
		Order("bi.created_at ASC")

	q = applyFilters(q, opts)

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

	return instances, total, nil
}

func applyFilters(q *bun.SelectQuery, opts ListInstancesOptions) *bun.SelectQuery {
	if opts.BookID != nil {
		q = q.Where("bi.book_id = ?", *opts.BookID)
	}
	if opts.BorrowerID != nil {
		q = q.Where("bi.borrower_id = ?", *opts.BorrowerID)
	}
	if len(opts.Statuses) > 0 {
		q = q.Where("bi.status IN (?)", bun.In(opts.Statuses))
	}
	if opts.DueFrom != nil {
		q = q.Where("bi.due_back >= ?", *opts.DueFrom)
	}
	if opts.DueBefore != nil {
		q = q.Where("bi.due_back < ?", *opts.DueBefore)
	}
	if opts.HasDueBack != nil {
		if *opts.HasDueBack {
			q = q.Where("bi.due_back IS NOT NULL")
		} else {
			q = q.Where("bi.due_back IS NULL")
		}
	}
	return q
}

// CountInstances counts copies, optionally limited to some statuses.
func (svc *Service) CountInstances(ctx context.Context, statuses ...models.LoanStatus) (int, error) {
	q := svc.db.NewSelect().
		Model((*models.BookInstance)(nil))

	if len(statuses) > 0 {
		q = q.Where("bi.status IN (?)", bun.In(statuses))
	}

	count, err := q.Count(ctx)
	return count, errors.WithStack(err)
}

func (svc *Service) UpdateInstance(ctx context.Context, instance *models.BookInstance, opts UpdateInstanceOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	if !instance.Status.Valid() {
		return errcodes.ValidationError("Select a valid status.")
	}

	instance.UpdatedAt = time.Now()
	columns := append(slices.Clone(opts.Columns), "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(instance).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapWriteError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}

func (svc *Service) DeleteInstance(ctx context.Context, id uuid.UUID) error {
	res, err := svc.db.NewDelete().
		Model((*models.BookInstance)(nil)).
		Where("id = ?", id.String()).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Book instance")
	}
	return nil
}
