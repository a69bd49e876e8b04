package admin

import (
	"context"
	"strconv"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/genres"
	"github.com/HarishV14/Local-library/pkg/languages"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// NamePayload edits the models that are only a name.
type NamePayload struct {
	Name *string `json:"name" validate:"omitempty,max=200" mod:"trim"`
}

func displayColumn[T Record](label string) Column[T] {
	return Column[T]{Name: "display", Label: label, Value: func(r T) any { return r.String() }}
}

func nameFieldsets() []Fieldset {
	return []Fieldset{{Fields: [][]string{{"name"}}}}
}

func genreAdmin() *ModelAdmin[*models.Genre] {
	return &ModelAdmin[*models.Genre]{
		Name:              "genre",
		VerboseName:       "genre",
		VerboseNamePlural: "genres",
		ListDisplay:       []Column[*models.Genre]{displayColumn[*models.Genre]("genre")},
		Fieldsets:         nameFieldsets(),

		newRecord: func() *models.Genre { return &models.Genre{} },
		list: func(ctx context.Context, db bun.IDB, params ListParams, limit, offset int) ([]*models.Genre, int, error) {
			opts := genres.ListGenresOptions{Limit: &limit, Offset: &offset}
			if params.Q != "" {
				opts.Search = &params.Q
			}
			return genres.NewService(db).ListGenresWithTotal(ctx, opts)
		},
		retrieve: func(ctx context.Context, db bun.IDB, id string) (*models.Genre, error) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return nil, errcodes.NotFound("Genre")
			}
			return genres.NewService(db).RetrieveGenre(ctx, genres.RetrieveGenreOptions{ID: &n})
		},
		save: func(c echo.Context, db bun.IDB, genre *models.Genre, isNew bool) error {
			params := NamePayload{}
			if err := c.Bind(&params); err != nil {
				return errors.WithStack(err)
			}
			var ch changes
			ch.setString(&genre.Name, params.Name, "name")
			if err := validateRecord(c, genre); err != nil {
				return err
			}

			svc := genres.NewService(db)
			if isNew {
				return svc.CreateGenre(c.Request().Context(), genre)
			}
			return svc.UpdateGenre(c.Request().Context(), genre, genres.UpdateGenreOptions{Columns: ch})
		},
		remove: func(ctx context.Context, db bun.IDB, genre *models.Genre) error {
			return genres.NewService(db).DeleteGenre(ctx, genre.ID)
		},
	}
}

func languageAdmin() *ModelAdmin[*models.Language] {
	return &ModelAdmin[*models.Language]{
		Name:              "language",
		VerboseName:       "language",
		VerboseNamePlural: "languages",
		ListDisplay:       []Column[*models.Language]{displayColumn[*models.Language]("language")},
		Fieldsets:         nameFieldsets(),

		newRecord: func() *models.Language { return &models.Language{} },
		list: func(ctx context.Context, db bun.IDB, _ ListParams, limit, offset int) ([]*models.Language, int, error) {
			return languages.NewService(db).ListLanguagesWithTotal(ctx, languages.ListLanguagesOptions{Limit: &limit, Offset: &offset})
		},
		retrieve: func(ctx context.Context, db bun.IDB, id string) (*models.Language, error) {
			n, err := strconv.Atoi(id)
			if err != nil {
				return nil, errcodes.NotFound("Language")
			}
			return languages.NewService(db).RetrieveLanguage(ctx, languages.RetrieveLanguageOptions{ID: &n})
		},
		save: func(c echo.Context, db bun.IDB, language *models.Language, isNew bool) error {
			params := NamePayload{}
			if err := c.Bind(&params); err != nil {
				return errors.WithStack(err)
			}
			var ch changes
			ch.setString(&language.Name, params.Name, "name")
			if err := validateRecord(c, language); err != nil {
				return err
			}

			svc := languages.NewService(db)
			if isNew {
				return svc.CreateLanguage(c.Request().Context(), language)
			}
			return svc.UpdateLanguage(c.Request().Context(), language, languages.UpdateLanguageOptions{Columns: ch})
		},
		remove: func(ctx context.Context, db bun.IDB, language *models.Language) error {
			return languages.NewService(db).DeleteLanguage(ctx, language.ID)
		},
	}
}
