package loans

import (
	"net/http"
	"time"

	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/HarishV14/Local-library/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PerPage is the page size of both borrowed-book views.
const PerPage = 10

// Item is a book copy as rendered by the catalog views.
type Item struct {
	*models.BookInstance
	Book        *BookRef     `json:"book,omitempty"`
	Borrower    *BorrowerRef `json:"borrower,omitempty"`
	Display     string       `json:"display"`
	StatusLabel string       `json:"status_label"`
	IsOverdue   bool         `json:"is_overdue"`
}

type BookRef struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type BorrowerRef struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// NewItem renders instance, judging overdue copies against now.
func NewItem(instance *models.BookInstance, now time.Time) Item {
	item := Item{
		BookInstance: instance,
		Display:      instance.String(),
		StatusLabel:  instance.Status.Label(),
		IsOverdue:    instance.IsOverdue(now),
	}
	if b := instance.Book; b != nil {
		item.Book = &BookRef{ID: b.ID, Title: b.Title, URL: b.AbsoluteURL()}
	}
	if u := instance.Borrower; u != nil {
		item.Borrower = &BorrowerRef{ID: u.ID, Username: u.Username}
	}
	return item
}

type handler struct {
	loanService *Service
}

// myBooks lists the copies on loan to the caller.
func (h *handler) myBooks(c echo.Context) error {
	user := auth.UserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}
	return h.listOnLoan(c, &user.ID)
}

// borrowed lists every copy on loan, for staff.
func (h *handler) borrowed(c echo.Context) error {
	return h.listOnLoan(c, nil)
}

func (h *handler) listOnLoan(c echo.Context, borrowerID *int) error {
	ctx := c.Request().Context()

	params := pagination.Query{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	limit := PerPage
	offset := (params.Page - 1) * PerPage
	instances, total, err := h.loanService.ListInstancesWithTotal(ctx, ListInstancesOptions{
		Limit:      &limit,
		Offset:     &offset,
		BorrowerID: borrowerID,
		Statuses:   []models.LoanStatus{models.LoanStatusOnLoan},
	})
	if err != nil {
		return errors.WithStack(err)
	}

	page, err := pagination.Paginate(params.Page, PerPage, total)
	if err != nil {
		return err
	}

	now := time.Now()
	items := make([]Item, len(instances))
	for i, bi := range instances {
		items[i] = NewItem(bi, now)
	}

	return errors.WithStack(c.JSON(http.StatusOK, pagination.NewResponse(page, items)))
}
