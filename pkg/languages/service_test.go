package languages

import (
	"context"
	"testing"

	"github.com/HarishV14/Local-library/internal/testgen"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testgen.NewDB(t)
	svc := NewService(db)

	english := &models.Language{Name: " English "}
	require.NoError(t, svc.CreateLanguage(ctx, english))
	assert.Equal(t, "English", english.Name)
	assert.NotZero(t, english.ID)

	t.Run("rejects a duplicate name in another case", func(t *testing.T) {
		err := svc.CreateLanguage(ctx, &models.Language{Name: "ENGLISH"})
		var ec *errcodes.Error
		require.ErrorAs(t, err, &ec)
		assert.Equal(t, "conflict", ec.Code)
	})

	t.Run("find or create reuses the match", func(t *testing.T) {
		found, err := svc.FindOrCreateLanguage(ctx, "english")
		require.NoError(t, err)
		assert.Equal(t, english.ID, found.ID)
	})
}

func TestDeleteLanguage_UnsetsBooks(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := testgen.NewDB(t)
	svc := NewService(db)

	farsi := testgen.CreateLanguage(t, db, "Farsi")
	book := testgen.CreateBook(t, db, "Shahnameh", nil)
	book.LanguageID = &farsi.ID
	_, err := db.NewUpdate().Model(book).Column("language_id").WherePK().Exec(ctx)
	require.NoError(t, err)

	languages, total, err := svc.ListLanguagesWithTotal(ctx, ListLanguagesOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, languages[0].BookCount)

	require.NoError(t, svc.DeleteLanguage(ctx, farsi.ID))

	reloaded := &models.Book{}
	require.NoError(t, db.NewSelect().Model(reloaded).Where("b.id = ?", book.ID).Scan(ctx))
	assert.Nil(t, reloaded.LanguageID)

	assert.ErrorIs(t, svc.DeleteLanguage(ctx, farsi.ID), errcodes.NotFound("Language"))
}
