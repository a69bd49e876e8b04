package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// LoanStatus is the lifecycle state of a single copy of a book.
type LoanStatus string

const (
	LoanStatusMaintenance LoanStatus = "maintenance"
	LoanStatusOnLoan      LoanStatus = "on_loan"
	LoanStatusAvailable   LoanStatus = "available"
	LoanStatusReserved    LoanStatus = "reserved"
)

// LoanStatuses lists every status in display order.
var LoanStatuses = []LoanStatus{
	LoanStatusMaintenance,
	LoanStatusOnLoan,
	LoanStatusAvailable,
	LoanStatusReserved,
}

var loanStatusLabels = map[LoanStatus]string{
	LoanStatusMaintenance: "Maintenance",
	LoanStatusOnLoan:      "On loan",
	LoanStatusAvailable:   "Available",
	LoanStatusReserved:    "Reserved",
}

// Single letter codes used by older exports of the catalog.
var legacyLoanStatusCodes = map[string]LoanStatus{
	"m": LoanStatusMaintenance,
	"o": LoanStatusOnLoan,
	"a": LoanStatusAvailable,
	"r": LoanStatusReserved,
}

// ParseLoanStatus accepts a status name or a legacy single letter code.
func ParseLoanStatus(s string) (LoanStatus, error) {
	if status, ok := legacyLoanStatusCodes[s]; ok {
		return status, nil
	}
	status := LoanStatus(s)
	if !status.Valid() {
		return "", errors.Errorf("unknown loan status %q", s)
	}
	return status, nil
}

func (s LoanStatus) Valid() bool {
	_, ok := loanStatusLabels[s]
	return ok
}

func (s LoanStatus) Label() string {
	return loanStatusLabels[s]
}

type BookInstance struct {
	bun.BaseModel `bun:"table:book_instances,alias:bi" tstype:"-"`

	ID         uuid.UUID  `bun:",pk,type:text" json:"id"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	BookID     *int       `json:"book_id"`
	Book       *Book      `bun:"rel:belongs-to,join:book_id=id" json:"book,omitempty" tstype:"Book"`
	Imprint    string     `bun:",notnull" json:"imprint" validate:"required,max=200"`
	DueBack    *Date      `json:"due_back" tstype:"string"`
	Status     LoanStatus `bun:",notnull" json:"status" validate:"required,max=11"`
	BorrowerID *int       `json:"borrower_id"`
	Borrower   *User      `bun:"rel:belongs-to,join:borrower_id=id" json:"borrower,omitempty" tstype:"User"`
}

// String renders the copy as "<id> (<book title>)".
func (bi *BookInstance) String() string {
	title := ""
	if bi.Book != nil {
		title = bi.Book.Title
	}
	return fmt.Sprintf("%s (%s)", bi.ID, title)
}

// IsOverdue reports whether the copy was due back before today's date.
func (bi *BookInstance) IsOverdue(now time.Time) bool {
	return bi.DueBack != nil && bi.DueBack.Before(DateOf(now))
}
