package pagination

import (
	"testing"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		number  int
		perPage int
		total   int
		want    Page
	}{
		{
			name: "empty result", number: 1, perPage: 10, total: 0,
			want: Page{Number: 1, PerPage: 10, Total: 0, NumPages: 1},
		},
		{
			name: "first of several", number: 1, perPage: 2, total: 5,
			want: Page{Number: 1, PerPage: 2, Total: 5, NumPages: 3, HasNext: true},
		},
		{
			name: "middle", number: 2, perPage: 2, total: 5,
			want: Page{Number: 2, PerPage: 2, Total: 5, NumPages: 3, Offset: 2, HasNext: true, HasPrevious: true},
		},
		{
			name: "last partial page", number: 3, perPage: 2, total: 5,
			want: Page{Number: 3, PerPage: 2, Total: 5, NumPages: 3, Offset: 4, HasPrevious: true},
		},
		{
			name: "exact fit", number: 2, perPage: 10, total: 20,
			want: Page{Number: 2, PerPage: 10, Total: 20, NumPages: 2, Offset: 10, HasPrevious: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Paginate(tt.number, tt.perPage, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	t.Parallel()

	_, err := Paginate(4, 2, 5)
	assert.ErrorIs(t, err, errcodes.NotFound("Page"))

	_, err = Paginate(2, 10, 0)
	assert.ErrorIs(t, err, errcodes.NotFound("Page"))

	_, err = Paginate(0, 10, 3)
	assert.ErrorIs(t, err, errcodes.NotFound("Page"))
}

func TestNewResponse(t *testing.T) {
	t.Parallel()

	page, err := Paginate(1, 2, 0)
	require.NoError(t, err)

	b, err := json.Marshal(NewResponse[string](page, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":1,"per_page":2,"total":0,"num_pages":1,"has_next":false,"has_previous":false,"results":[]}`, string(b))
}
