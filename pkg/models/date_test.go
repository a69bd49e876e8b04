package models

import (
	"testing"
	"time"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateScan(t *testing.T) {
	t.Parallel()

	var d Date
	require.NoError(t, d.Scan("2024-02-29"))
	assert.Equal(t, NewDate(2024, time.February, 29), d)

	require.NoError(t, d.Scan([]byte("2023-12-01 00:00:00+00:00")))
	assert.Equal(t, "2023-12-01", d.String())

	require.NoError(t, d.Scan(time.Date(2020, time.May, 4, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2020-05-04", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
	assert.Error(t, d.Scan("not a date"))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	type payload struct {
		DueBack *Date `json:"due_back"`
	}

	d := NewDate(2024, time.January, 5)
	b, err := json.Marshal(payload{DueBack: &d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"due_back":"2024-01-05"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due_back":"2025-07-14"}`), &p))
	require.NotNil(t, p.DueBack)
	assert.Equal(t, NewDate(2025, time.July, 14), *p.DueBack)

	p = payload{}
	require.NoError(t, json.Unmarshal([]byte(`{"due_back":null}`), &p))
	assert.Nil(t, p.DueBack)
}

func TestDateOrdering(t *testing.T) {
	t.Parallel()
	a := NewDate(2024, time.January, 31)
	b := a.AddDays(1)
	assert.Equal(t, "2024-02-01", b.String())
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}
