package admin

import (
	"context"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type InstancePayload struct {
	ID         *string `json:"id" validate:"omitempty,uuid"`
	BookID     *int    `json:"book_id" validate:"omitempty,min=0"`
	Imprint    *string `json:"imprint" validate:"omitempty,max=200" mod:"trim"`
	DueBack    *string `json:"due_back" validate:"omitempty,date"`
	Status     *string `json:"status" validate:"omitempty,loan_status"`
	BorrowerID *int    `json:"borrower_id" validate:"omitempty,min=0"`
}

// instanceFields are the attributes shared by the instance form and the
// inline rows on a book's page.
type instanceFields struct {
	Imprint    *string
	DueBack    *string
	Status     *string
	BorrowerID *int
}

func applyInstance(instance *models.BookInstance, f instanceFields) (changes, error) {
	var ch changes
	if instance.Status == "" {
		instance.Status = models.LoanStatusMaintenance
	}
	ch.setString(&instance.Imprint, f.Imprint, "imprint")
	if err := ch.setDate(&instance.DueBack, f.DueBack, "due_back"); err != nil {
		return nil, err
	}
	if f.Status != nil {
		status, err := models.ParseLoanStatus(*f.Status)
		if err != nil {
			return nil, errcodes.ValidationError("Select a valid status.")
		}
		instance.Status = status
		ch = append(ch, "status")
	}
	ch.setRef(&instance.BorrowerID, f.BorrowerID, "borrower_id")
	return ch, nil
}

func instanceAdmin() *ModelAdmin[*models.BookInstance] {
	return &ModelAdmin[*models.BookInstance]{
		Name:              "bookinstance",
		VerboseName:       "book instance",
		VerboseNamePlural: "book instances",
		ListDisplay: []Column[*models.BookInstance]{
			{Name: "id"},
			{Name: "book", Label: "book", Value: func(bi *models.BookInstance) any {
				if bi.Book == nil {
					return nil
				}
				return bi.Book.Title
			}},
			{Name: "status", Label: "status", Value: func(bi *models.BookInstance) any {
				return bi.Status.Label()
			}},
			{Name: "borrower", Label: "borrower", Value: func(bi *models.BookInstance) any {
				if bi.Borrower == nil {
					return nil
				}
				return bi.Borrower.Username
			}},
			{Name: "due_back"},
		},
		ListFilter: []Filter{
			statusFilter(),
			dateFilter("due_back", "due back"),
		},
		Fieldsets: []Fieldset{
			{Fields: [][]string{{"book_id"}, {"imprint"}, {"id"}}},
			{Name: "Availability", Fields: [][]string{{"status"}, {"due_back"}}},
		},

		newRecord: func() *models.BookInstance { return &models.BookInstance{} },
		list: func(ctx context.Context, db bun.IDB, params ListParams, limit, offset int) ([]*models.BookInstance, int, error) {
			opts := loans.ListInstancesOptions{Limit: &limit, Offset: &offset}
			if params.Status != "" {
				status, err := models.ParseLoanStatus(params.Status)
				if err != nil {
					return nil, 0, errcodes.ValidationError("Select a valid status.")
				}
				opts.Statuses = []models.LoanStatus{status}
			}
			r := dateRange(params.DueBack, models.Today())
			opts.DueFrom = r.From
			opts.DueBefore = r.Before
			opts.HasDueBack = r.Has
			return loans.NewService(db).ListInstancesWithTotal(ctx, opts)
		},
		retrieve: func(ctx context.Context, db bun.IDB, id string) (*models.BookInstance, error) {
			u, err := uuid.Parse(id)
			if err != nil {
				return nil, errcodes.NotFound("Book instance")
			}
			return loans.NewService(db).RetrieveInstance(ctx, loans.RetrieveInstanceOptions{ID: &u})
		},
		save: saveInstance,
		remove: func(ctx context.Context, db bun.IDB, instance *models.BookInstance) error {
			return loans.NewService(db).DeleteInstance(ctx, instance.ID)
		},
	}
}

func saveInstance(c echo.Context, db bun.IDB, instance *models.BookInstance, isNew bool) error {
	ctx := c.Request().Context()

	params := InstancePayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	if params.ID != nil {
		if !isNew {
			return errcodes.ValidationError("The id of a book instance can't be changed.")
		}
		instance.ID = uuid.MustParse(*params.ID)
	}

	ch, err := applyInstance(instance, instanceFields{
		Imprint:    params.Imprint,
		DueBack:    params.DueBack,
		Status:     params.Status,
		BorrowerID: params.BorrowerID,
	})
	if err != nil {
		return err
	}
	ch.setRef(&instance.BookID, params.BookID, "book_id")
	if err := validateRecord(c, instance); err != nil {
		return err
	}

	svc := loans.NewService(db)
	if isNew {
		return svc.CreateInstance(ctx, instance)
	}
	return svc.UpdateInstance(ctx, instance, loans.UpdateInstanceOptions{Columns: ch})
}
