package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorFieldLabels(t *testing.T) {
	t.Parallel()
	author := &Author{}
	assert.Equal(t, "first name", FieldLabel(author, "first_name"))
	assert.Equal(t, "last name", FieldLabel(author, "last_name"))
	assert.Equal(t, "date of birth", FieldLabel(author, "date_of_birth"))
	assert.Equal(t, "died", FieldLabel(author, "date_of_death"))
	assert.Equal(t, "", FieldLabel(author, "nickname"))
}

func TestAuthorFieldMaxLengths(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 100, FieldMaxLength(Author{}, "first_name"))
	assert.Equal(t, 100, FieldMaxLength(Author{}, "last_name"))
	assert.Equal(t, 0, FieldMaxLength(Author{}, "date_of_birth"))
}

func TestAuthorString(t *testing.T) {
	t.Parallel()
	author := &Author{FirstName: "Bob", LastName: "Big"}
	assert.Equal(t, "Big, Bob", author.String())
}

func TestAuthorAbsoluteURL(t *testing.T) {
	t.Parallel()
	author := &Author{ID: 7}
	assert.Equal(t, "/catalog/author/7", author.AbsoluteURL())
}
