// Package testgen builds in-memory databases and catalog records for tests.
package testgen

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HarishV14/Local-library/pkg/migrations"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plain-text password of every user made by CreateUser.
const Password = "1X<ISRUkw+tuK"

var isbnCounter atomic.Int64

// NewDB opens a migrated in-memory database that is closed with the test.
func NewDB(t testing.TB) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CreateUser inserts an active user with the given role and loads the
// role's permissions.
func CreateUser(t testing.TB, db *bun.DB, username, roleName string) *models.User {
	t.Helper()
	ctx := context.Background()

	role := &models.Role{}
	err := db.NewSelect().
		Model(role).
		Relation("Permissions").
		Where("r.name = ?", roleName).
		Scan(ctx)
	require.NoError(t, err)

	// Minimum cost keeps tests fast; production hashing uses auth.BcryptCost.
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		CreatedAt:    now,
		UpdatedAt:    now,
		Username:     username,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	user.Role = role
	return user
}

func CreateAuthor(t testing.TB, db *bun.DB, first, last string) *models.Author {
	t.Helper()

	now := time.Now()
	author := &models.Author{
		CreatedAt: now,
		UpdatedAt: now,
		FirstName: first,
		LastName:  last,
	}
	_, err := db.NewInsert().Model(author).Exec(context.Background())
	require.NoError(t, err)
	return author
}

func CreateGenre(t testing.TB, db *bun.DB, name string) *models.Genre {
	t.Helper()

	now := time.Now()
	genre := &models.Genre{CreatedAt: now, UpdatedAt: now, Name: name}
	_, err := db.NewInsert().Model(genre).Exec(context.Background())
	require.NoError(t, err)
	return genre
}

func CreateLanguage(t testing.TB, db *bun.DB, name string) *models.Language {
	t.Helper()

	now := time.Now()
	language := &models.Language{CreatedAt: now, UpdatedAt: now, Name: name}
	_, err := db.NewInsert().Model(language).Exec(context.Background())
	require.NoError(t, err)
	return language
}

// CreateBook inserts a book with a unique ISBN, linking the given genres.
// author may be nil.
func CreateBook(t testing.TB, db *bun.DB, title string, author *models.Author, genres ...*models.Genre) *models.Book {
	t.Helper()
	ctx := context.Background()

	now := time.Now()
	book := &models.Book{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     title,
		Summary:   "My book summary",
		ISBN:      fmt.Sprintf("978%010d", isbnCounter.Add(1)),
	}
	if author != nil {
		book.AuthorID = &author.ID
		book.Author = author
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)

	for _, g := range genres {
		bg := &models.BookGenre{BookID: book.ID, GenreID: g.ID, Genre: g}
		_, err = db.NewInsert().Model(bg).Exec(ctx)
		require.NoError(t, err)
		book.BookGenres = append(book.BookGenres, bg)
	}

	return book
}

// InstanceOptions configures CreateInstance. Zero values mean an available
// copy with no borrower and no due date.
type InstanceOptions struct {
	Imprint  string
	Status   models.LoanStatus
	DueBack  *models.Date
	Borrower *models.User
}

func CreateInstance(t testing.TB, db *bun.DB, book *models.Book, opts InstanceOptions) *models.BookInstance {
	t.Helper()

	if opts.Imprint == "" {
		opts.Imprint = "Unlikely Imprint, 2016"
	}
	if opts.Status == "" {
		opts.Status = models.LoanStatusAvailable
	}

	now := time.Now()
	bi := &models.BookInstance{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
		BookID:    &book.ID,
		Book:      book,
		Imprint:   opts.Imprint,
		DueBack:   opts.DueBack,
		Status:    opts.Status,
	}
	if opts.Borrower != nil {
		bi.BorrowerID = &opts.Borrower.ID
		bi.Borrower = opts.Borrower
	}
	_, err := db.NewInsert().Model(bi).Exec(context.Background())
	require.NoError(t, err)
	return bi
}

// DaysFromToday returns today's date shifted by n days.
func DaysFromToday(n int) *models.Date {
	d := models.Today().AddDays(n)
	return &d
}
