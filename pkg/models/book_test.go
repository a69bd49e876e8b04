package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookFieldMetadata(t *testing.T) {
	t.Parallel()
	book := &Book{}
	assert.Equal(t, "title", FieldLabel(book, "title"))
	assert.Equal(t, "summary", FieldLabel(book, "summary"))
	assert.Equal(t, "ISBN", FieldLabel(book, "isbn"))
	assert.Equal(t, "author", FieldLabel(book, "author"))
	assert.Equal(t, "language", FieldLabel(book, "language_id"))
	assert.Equal(t, 200, FieldMaxLength(book, "title"))
	assert.Equal(t, 1000, FieldMaxLength(book, "summary"))
	assert.Equal(t, 13, FieldMaxLength(book, "isbn"))

	f, ok := LookupField(book, "isbn")
	assert.True(t, ok)
	assert.True(t, f.Required)

	_, ok = LookupField(book, "book_genres")
	assert.False(t, ok)
}

func TestBookStringAndURL(t *testing.T) {
	t.Parallel()
	book := &Book{ID: 12, Title: "Dune"}
	assert.Equal(t, "Dune", book.String())
	assert.Contains(t, book.AbsoluteURL(), "12")
	assert.Equal(t, "/catalog/book/12", book.AbsoluteURL())
}

func TestBookDisplayGenre(t *testing.T) {
	t.Parallel()

	t.Run("no genres", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", (&Book{}).DisplayGenre())
	})

	t.Run("first three genres", func(t *testing.T) {
		t.Parallel()
		book := &Book{BookGenres: []*BookGenre{
			{Genre: &Genre{Name: "Fantasy"}},
			{Genre: &Genre{Name: "Horror"}},
			{Genre: nil},
			{Genre: &Genre{Name: "Poetry"}},
			{Genre: &Genre{Name: "Science Fiction"}},
		}}
		assert.Equal(t, "Fantasy, Horror, Poetry", book.DisplayGenre())
		assert.Len(t, book.Genres(), 4)
	})
}

func TestGenreAndLanguage(t *testing.T) {
	t.Parallel()
	genre := &Genre{Name: "Science Fiction"}
	assert.Equal(t, "Science Fiction", genre.String())
	assert.Equal(t, "name", FieldLabel(genre, "name"))
	assert.Equal(t, 200, FieldMaxLength(genre, "name"))

	language := &Language{Name: "English"}
	assert.Equal(t, "English", language.String())
	assert.Equal(t, "name", FieldLabel(language, "name"))
	assert.Equal(t, 200, FieldMaxLength(language, "name"))
}
