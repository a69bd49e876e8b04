package models

import (
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

type Author struct {
	bun.BaseModel `bun:"table:authors,alias:a" tstype:"-"`

	ID          int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	FirstName   string    `bun:",notnull" json:"first_name" validate:"required,max=100"`
	LastName    string    `bun:",notnull" json:"last_name" validate:"required,max=100"`
	DateOfBirth *Date     `json:"date_of_birth"`
	DateOfDeath *Date     `json:"date_of_death" label:"died"`
	Books       []*Book   `bun:"rel:has-many,join:id=author_id" json:"books,omitempty" tstype:"Book[]"`
}

// String renders the author as "Last, First".
func (a *Author) String() string {
	return fmt.Sprintf("%s, %s", a.LastName, a.FirstName)
}

func (a *Author) AbsoluteURL() string {
	return fmt.Sprintf("/catalog/author/%d", a.ID)
}
