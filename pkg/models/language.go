package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l" tstype:"-"`

	ID        int       `bun:",pk,autoincrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `bun:",notnull" json:"name" validate:"required,max=200"`
	BookCount int       `bun:",scanonly" json:"book_count"`
}

func (l *Language) String() string {
	return l.Name
}
