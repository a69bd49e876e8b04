// Package admin is the back office: a registry describing how each catalog
// model is listed, filtered and edited, and the JSON API built from it.
package admin

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
)

// PerPage is the page size of admin change lists.
const PerPage = 100

// Inline styles.
const (
	Stacked = "stacked"
	Tabular = "tabular"
)

// Record is a model instance shown in the back office.
type Record interface {
	String() string
}

// Column is one list display column. A nil Value reads the attribute with
// the column's name.
type Column[T Record] struct {
	Name  string
	Label string
	Value func(T) any
}

// Fieldset groups form fields under an optional heading. Each entry of
// Fields is one form row; several names on a row are shown side by side.
type Fieldset struct {
	Name   string     `json:"name"`
	Fields [][]string `json:"fields"`
}

// Inline edits child records on the parent's page.
type Inline struct {
	Model       string   `json:"model"`
	VerboseName string   `json:"verbose_name"`
	Style       string   `json:"style"`
	Fields      []string `json:"fields"`
}

type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Filter is a list filter shown beside the change list.
type Filter struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Choices []Choice `json:"choices"`
}

// ModelAdmin describes one model's back office pages.
type ModelAdmin[T Record] struct {
	Name              string
	VerboseName       string
	VerboseNamePlural string
	ListDisplay       []Column[T]
	ListFilter        []Filter
	Fieldsets         []Fieldset
	Inlines           []Inline

	// newRecord returns an empty record, used for creates and field
	// metadata.
	newRecord func() T
	list      func(ctx context.Context, db bun.IDB, params ListParams, limit, offset int) ([]T, int, error)
	// retrieve loads a record along with its inline children.
	retrieve func(ctx context.Context, db bun.IDB, id string) (T, error)
	// save binds the request payload onto record and writes it, including
	// inline children. isNew is set for creates.
	save func(c echo.Context, db bun.IDB, record T, isNew bool) error
	// children returns the inline rows of record by inline model name.
	children func(record T) map[string][]Record
	// extraValues adds form values that aren't plain attributes.
	extraValues func(record T) map[string]any
	remove      func(ctx context.Context, db bun.IDB, record T) error
}

// Description is the registry entry of a model as served by GET /admin.
type Description struct {
	Name              string       `json:"name"`
	VerboseName       string       `json:"verbose_name"`
	VerboseNamePlural string       `json:"verbose_name_plural"`
	URL               string       `json:"url"`
	ListDisplay       []ColumnView `json:"list_display"`
	ListFilter        []Filter     `json:"list_filter"`
	Fieldsets         []Fieldset   `json:"fieldsets"`
	Inlines           []Inline     `json:"inlines"`
}

type ColumnView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

// entry is the type-erased view of a ModelAdmin held by the Site.
type entry interface {
	describe() Description
	changeList(ctx context.Context, db bun.IDB, params ListParams) (ChangeList, error)
	detail(ctx context.Context, db bun.IDB, id string) (Detail, error)
	write(c echo.Context, db bun.IDB, id string) (string, error)
	delete(ctx context.Context, db bun.IDB, id string) error
}

func (ma *ModelAdmin[T]) describe() Description {
	d := Description{
		Name:              ma.Name,
		VerboseName:       ma.VerboseName,
		VerboseNamePlural: ma.VerboseNamePlural,
		URL:               "/admin/" + ma.Name,
		ListDisplay:       ma.columnViews(),
		ListFilter:        ma.ListFilter,
		Fieldsets:         ma.Fieldsets,
		Inlines:           ma.Inlines,
	}
	if d.ListFilter == nil {
		d.ListFilter = []Filter{}
	}
	if d.Inlines == nil {
		d.Inlines = []Inline{}
	}
	return d
}

func (ma *ModelAdmin[T]) columnViews() []ColumnView {
	views := make([]ColumnView, len(ma.ListDisplay))
	for i, col := range ma.ListDisplay {
		label := col.Label
		if label == "" {
			label = fieldMeta(ma.newRecord(), col.Name).Label
		}
		views[i] = ColumnView{Name: col.Name, Label: label}
	}
	return views
}

func (ma *ModelAdmin[T]) hasFilter(name string) bool {
	for _, f := range ma.ListFilter {
		if f.Name == name {
			return true
		}
	}
	return false
}

// recordValues flattens record into its JSON attributes.
func recordValues(record any) (map[string]any, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		return nil, errors.WithStack(err)
	}
	return values, nil
}

func recordID(values map[string]any) string {
	if id, ok := values["id"]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return ""
}

// fieldMeta describes a form field, falling back to the name for fields
// that aren't model attributes.
func fieldMeta(model any, name string) models.Field {
	if f, ok := models.LookupField(model, name); ok {
		return f
	}
	return models.Field{Name: name, Label: strings.ReplaceAll(name, "_", " ")}
}
