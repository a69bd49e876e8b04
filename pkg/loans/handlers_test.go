package loans

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/HarishV14/Local-library/internal/testgen"
	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemResponse struct {
	ID          string `json:"id"`
	Display     string `json:"display"`
	Status      string `json:"status"`
	StatusLabel string `json:"status_label"`
	IsOverdue   bool   `json:"is_overdue"`
	DueBack     string `json:"due_back"`
	Book        struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"book"`
	Borrower struct {
		Username string `json:"username"`
	} `json:"borrower"`
}

type listResponse struct {
	Page     int            `json:"page"`
	Total    int            `json:"total"`
	NumPages int            `json:"num_pages"`
	HasNext  bool           `json:"has_next"`
	Results  []itemResponse `json:"results"`
}

func TestHandlerMyBooks_OnlyCallersLoansByDueDate(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{loanService: NewService(db)}

	member := testgen.CreateUser(t, db, "member1", models.RoleMember)
	other := testgen.CreateUser(t, db, "member2", models.RoleMember)
	book := testgen.CreateBook(t, db, "Test Book", nil)

	// Interleave due dates and borrowers so the order is by due date only.
	for i := 0; i < 30; i++ {
		borrower := member
		if i%2 == 1 {
			borrower = other
		}
		status := models.LoanStatusOnLoan
		if i%3 == 0 {
			status = models.LoanStatusMaintenance
		}
		testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
			Imprint:  fmt.Sprintf("Imprint %d", i),
			Status:   status,
			DueBack:  testgen.DaysFromToday((i*7)%30 - 10),
			Borrower: borrower,
		})
	}

	c, rec := testgen.NewContext(t, http.MethodGet, "/catalog/mybooks", "")
	c.Set(auth.ContextKeyUser, member)
	require.NoError(t, h.myBooks(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	// Even i that aren't multiples of 3: 2, 4, 8, 10, 14, 16, 20, 22, 26, 28.
	assert.Equal(t, 10, resp.Total)
	assert.Equal(t, 1, resp.NumPages)
	require.Len(t, resp.Results, 10)

	last := ""
	for _, item := range resp.Results {
		assert.Equal(t, "member1", item.Borrower.Username)
		assert.Equal(t, string(models.LoanStatusOnLoan), item.Status)
		assert.Equal(t, "On loan", item.StatusLabel)
		assert.Equal(t, item.DueBack < models.Today().String(), item.IsOverdue)
		assert.Equal(t, item.ID+" (Test Book)", item.Display)
		assert.LessOrEqual(t, last, item.DueBack)
		last = item.DueBack
	}
}

func TestHandlerMyBooks_PagesOfTen(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{loanService: NewService(db)}

	member := testgen.CreateUser(t, db, "member1", models.RoleMember)
	book := testgen.CreateBook(t, db, "Test Book", nil)
	for i := 0; i < 12; i++ {
		testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
			Status: models.LoanStatusOnLoan, DueBack: testgen.DaysFromToday(i), Borrower: member,
		})
	}

	c, rec := testgen.NewContext(t, http.MethodGet, "/catalog/mybooks?page=2", "")
	c.Set(auth.ContextKeyUser, member)
	require.NoError(t, h.myBooks(c))

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Page)
	assert.Equal(t, 2, resp.NumPages)
	assert.False(t, resp.HasNext)
	assert.Len(t, resp.Results, 2)

	c, _ = testgen.NewContext(t, http.MethodGet, "/catalog/mybooks?page=3", "")
	c.Set(auth.ContextKeyUser, member)
	assert.ErrorIs(t, h.myBooks(c), errcodes.NotFound("Page"))
}

func TestHandlerBorrowed_AllBorrowers(t *testing.T) {
	t.Parallel()
	db := testgen.NewDB(t)
	h := &handler{loanService: NewService(db)}

	member := testgen.CreateUser(t, db, "member1", models.RoleMember)
	other := testgen.CreateUser(t, db, "member2", models.RoleMember)
	book := testgen.CreateBook(t, db, "Test Book", nil)
	testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
		Status: models.LoanStatusOnLoan, DueBack: testgen.DaysFromToday(4), Borrower: member,
	})
	testgen.CreateInstance(t, db, book, testgen.InstanceOptions{
		Status: models.LoanStatusOnLoan, DueBack: testgen.DaysFromToday(-4), Borrower: other,
	})
	testgen.CreateInstance(t, db, book, testgen.InstanceOptions{Status: models.LoanStatusReserved})

	c, rec := testgen.NewContext(t, http.MethodGet, "/catalog/borrowed", "")
	require.NoError(t, h.borrowed(c))

	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "member2", resp.Results[0].Borrower.Username)
	assert.True(t, resp.Results[0].IsOverdue)
	assert.Equal(t, "member1", resp.Results[1].Borrower.Username)
	assert.False(t, resp.Results[1].IsOverdue)
}
