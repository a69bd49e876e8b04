package testutils

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/authors"
	"github.com/HarishV14/Local-library/pkg/books"
	"github.com/HarishV14/Local-library/pkg/loans"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type handler struct {
	db *bun.DB
}

type createUserRequest struct {
	Username string  `json:"username" validate:"required"`
	Password string  `json:"password" validate:"required"`
	Email    *string `json:"email"`
	Role     string  `json:"role" default:"admin" validate:"oneof=admin librarian member"`
}

type createUserResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// createUser creates a user with the requested role.
// POST /test/users.
func (h *handler) createUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	role := &models.Role{}
	err := h.db.NewSelect().
		Model(role).
		Where("name = ?", req.Role).
		Scan(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get role")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		RoleID:       role.ID,
		IsActive:     true,
	}
	_, err = h.db.NewInsert().Model(user).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to create user")
	}

	return errors.WithStack(c.JSON(http.StatusCreated, createUserResponse{
		ID:       user.ID,
		Username: user.Username,
	}))
}

type deleteResponse struct {
	Deleted int `json:"deleted"`
}

// deleteAllUsers deletes every user. Copies they borrowed lose their
// borrower.
// DELETE /test/users.
func (h *handler) deleteAllUsers(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.db.NewDelete().
		Model((*models.User)(nil)).
		Where("1=1").
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to delete users")
	}

	deleted, _ := result.RowsAffected()

	return errors.WithStack(c.JSON(http.StatusOK, deleteResponse{Deleted: int(deleted)}))
}

type createBookRequest struct {
	Title           string   `json:"title" validate:"required"`
	AuthorFirstName string   `json:"author_first_name" default:"Test"`
	AuthorLastName  string   `json:"author_last_name" default:"Author"`
	ISBN            string   `json:"isbn" default:"9780000000000"`
	Copies          []string `json:"copies" validate:"dive,loan_status"`
	BorrowerID      *int     `json:"borrower_id"`
}

type createBookResponse struct {
	ID          int      `json:"id"`
	AuthorID    int      `json:"author_id"`
	InstanceIDs []string `json:"instance_ids"`
}

// createBook creates a book, its author and one copy per status in Copies.
// On loan copies are lent to BorrowerID, due back in a week.
// POST /test/books.
func (h *handler) createBook(c echo.Context) error {
	ctx := c.Request().Context()

	var req createBookRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}

	resp := createBookResponse{InstanceIDs: []string{}}
	err := h.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		author := &models.Author{FirstName: req.AuthorFirstName, LastName: req.AuthorLastName}
		if err := authors.NewService(tx).CreateAuthor(ctx, author); err != nil {
			return err
		}

		book := &models.Book{
			Title:    req.Title,
			AuthorID: &author.ID,
			Summary:  "Created for testing.",
			ISBN:     req.ISBN,
		}
		if err := books.NewService(tx).CreateBook(ctx, book); err != nil {
			return err
		}

		loanService := loans.NewService(tx)
		for _, s := range req.Copies {
			status, err := models.ParseLoanStatus(s)
			if err != nil {
				return errors.WithStack(err)
			}
			instance := &models.BookInstance{
				BookID:  &book.ID,
				Imprint: "Test Imprint",
				Status:  status,
			}
			if status == models.LoanStatusOnLoan {
				due := models.Today().AddDays(7)
				instance.DueBack = &due
				instance.BorrowerID = req.BorrowerID
			}
			if err := loanService.CreateInstance(ctx, instance); err != nil {
				return err
			}
			resp.InstanceIDs = append(resp.InstanceIDs, instance.ID.String())
		}

		resp.ID = book.ID
		resp.AuthorID = author.ID
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusCreated, resp))
}

// deleteCatalog removes every catalog record.
// DELETE /test/catalog.
func (h *handler) deleteCatalog(c echo.Context) error {
	ctx := c.Request().Context()

	deleted := 0
	for _, model := range []interface{}{
		(*models.BookInstance)(nil),
		(*models.BookGenre)(nil),
		(*models.Book)(nil),
		(*models.Author)(nil),
		(*models.Genre)(nil),
		(*models.Language)(nil),
	} {
		result, err := h.db.NewDelete().Model(model).Where("1=1").Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to delete catalog")
		}
		n, _ := result.RowsAffected()
		deleted += int(n)
	}

	return errors.WithStack(c.JSON(http.StatusOK, deleteResponse{Deleted: deleted}))
}
