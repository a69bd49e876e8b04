package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// displayGenreLimit is the number of genres shown in list columns.
const displayGenreLimit = 3

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b" tstype:"-"`

	ID         int             `bun:",pk,autoincrement" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Title      string          `bun:",notnull" json:"title" validate:"required,max=200"`
	AuthorID   *int            `json:"author_id,omitempty"`
	Author     *Author         `bun:"rel:belongs-to,join:author_id=id" json:"author,omitempty" tstype:"Author"`
	Summary    string          `bun:",notnull" json:"summary" validate:"required,max=1000"`
	ISBN       string          `bun:"isbn,notnull" json:"isbn" label:"ISBN" validate:"required,max=13"`
	LanguageID *int            `json:"language_id,omitempty"`
	Language   *Language       `bun:"rel:belongs-to,join:language_id=id" json:"language,omitempty" tstype:"Language"`
	BookGenres []*BookGenre    `bun:"rel:has-many,join:id=book_id" json:"-"`
	Instances  []*BookInstance `bun:"rel:has-many,join:id=book_id" json:"instances,omitempty" tstype:"BookInstance[]"`
}

func (b *Book) String() string {
	return b.Title
}

func (b *Book) AbsoluteURL() string {
	return fmt.Sprintf("/catalog/book/%d", b.ID)
}

// Genres returns the genres loaded through the BookGenres relation.
func (b *Book) Genres() []*Genre {
	genres := make([]*Genre, 0, len(b.BookGenres))
	for _, bg := range b.BookGenres {
		if bg.Genre != nil {
			genres = append(genres, bg.Genre)
		}
	}
	return genres
}

// DisplayGenre joins the names of the first few genres for list columns,
// where a many-to-many field can't be shown directly.
func (b *Book) DisplayGenre() string {
	genres := b.Genres()
	if len(genres) > displayGenreLimit {
		genres = genres[:displayGenreLimit]
	}
	names := make([]string, len(genres))
	for i, g := range genres {
		names[i] = g.Name
	}
	return strings.Join(names, ", ")
}
