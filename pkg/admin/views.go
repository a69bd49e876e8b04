package admin

import (
	"context"
	"database/sql"

	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/pagination"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// ListParams are the change list query parameters.
type ListParams struct {
	Page    int    `query:"page" default:"1" validate:"min=1"`
	Q       string `query:"q" validate:"max=100" mod:"trim"`
	Status  string `query:"status" validate:"omitempty,loan_status"`
	DueBack string `query:"due_back" validate:"omitempty,oneof=any today past_7_days this_month this_year no_date has_date"`
}

// Row is one change list row.
type Row struct {
	ID      string         `json:"id"`
	Display string         `json:"display"`
	URL     string         `json:"url"`
	Values  map[string]any `json:"values"`
}

// FilterView is a list filter with the choice currently applied.
type FilterView struct {
	Filter
	Selected string `json:"selected"`
}

type ChangeList struct {
	pagination.Page
	Columns []ColumnView `json:"columns"`
	Filters []FilterView `json:"filters"`
	Results []Row        `json:"results"`
}

// FieldView is a form field with its current value.
type FieldView struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	MaxLength int    `json:"max_length,omitempty"`
	Required  bool   `json:"required"`
	Value     any    `json:"value"`
}

type FieldsetView struct {
	Name string        `json:"name"`
	Rows [][]FieldView `json:"rows"`
}

type InlineView struct {
	Inline
	Rows []Row `json:"rows"`
}

// Detail is the change form of a record.
type Detail struct {
	Model     string         `json:"model"`
	ID        string         `json:"id"`
	Display   string         `json:"display"`
	Fieldsets []FieldsetView `json:"fieldsets"`
	Inlines   []InlineView   `json:"inlines"`
}

func (ma *ModelAdmin[T]) changeList(ctx context.Context, db bun.IDB, params ListParams) (ChangeList, error) {
	selected := map[string]string{"status": params.Status, "due_back": params.DueBack}
	for name, value := range selected {
		if value != "" && !ma.hasFilter(name) {
			return ChangeList{}, errcodes.UnknownParameter(name)
		}
	}

	offset := (params.Page - 1) * PerPage
	records, total, err := ma.list(ctx, db, params, PerPage, offset)
	if err != nil {
		return ChangeList{}, errors.WithStack(err)
	}

	page, err := pagination.Paginate(params.Page, PerPage, total)
	if err != nil {
		return ChangeList{}, err
	}

	cl := ChangeList{
		Page:    page,
		Columns: ma.columnViews(),
		Filters: make([]FilterView, len(ma.ListFilter)),
		Results: make([]Row, len(records)),
	}
	for i, f := range ma.ListFilter {
		cl.Filters[i] = FilterView{Filter: f, Selected: selected[f.Name]}
	}
	for i, record := range records {
		row, err := ma.row(record)
		if err != nil {
			return ChangeList{}, err
		}
		cl.Results[i] = row
	}
	return cl, nil
}

// row projects record onto the list display columns.
func (ma *ModelAdmin[T]) row(record T) (Row, error) {
	values, err := recordValues(record)
	if err != nil {
		return Row{}, err
	}
	id := recordID(values)
	row := Row{
		ID:      id,
		Display: record.String(),
		URL:     "/admin/" + ma.Name + "/" + id,
		Values:  make(map[string]any, len(ma.ListDisplay)),
	}
	for _, col := range ma.ListDisplay {
		if col.Value != nil {
			row.Values[col.Name] = col.Value(record)
		} else {
			row.Values[col.Name] = values[col.Name]
		}
	}
	return row, nil
}

func (ma *ModelAdmin[T]) detail(ctx context.Context, db bun.IDB, id string) (Detail, error) {
	record, err := ma.retrieve(ctx, db, id)
	if err != nil {
		return Detail{}, err
	}

	values, err := recordValues(record)
	if err != nil {
		return Detail{}, err
	}
	if ma.extraValues != nil {
		for k, v := range ma.extraValues(record) {
			values[k] = v
		}
	}

	d := Detail{
		Model:     ma.Name,
		ID:        recordID(values),
		Display:   record.String(),
		Fieldsets: make([]FieldsetView, len(ma.Fieldsets)),
		Inlines:   make([]InlineView, len(ma.Inlines)),
	}
	for i, fs := range ma.Fieldsets {
		view := FieldsetView{Name: fs.Name, Rows: make([][]FieldView, len(fs.Fields))}
		for j, names := range fs.Fields {
			for _, name := range names {
				meta := fieldMeta(record, name)
				view.Rows[j] = append(view.Rows[j], FieldView{
					Name:      name,
					Label:     meta.Label,
					MaxLength: meta.MaxLength,
					Required:  meta.Required,
					Value:     values[name],
				})
			}
		}
		d.Fieldsets[i] = view
	}

	var children map[string][]Record
	if ma.children != nil {
		children = ma.children(record)
	}
	for i, inline := range ma.Inlines {
		view := InlineView{Inline: inline, Rows: []Row{}}
		for _, child := range children[inline.Model] {
			childValues, err := recordValues(child)
			if err != nil {
				return Detail{}, err
			}
			childID := recordID(childValues)
			row := Row{
				ID:      childID,
				Display: child.String(),
				URL:     "/admin/" + inline.Model + "/" + childID,
				Values:  make(map[string]any, len(inline.Fields)),
			}
			for _, name := range inline.Fields {
				row.Values[name] = childValues[name]
			}
			view.Rows = append(view.Rows, row)
		}
		d.Inlines[i] = view
	}

	return d, nil
}

// write creates a record when id is empty and updates it otherwise. The
// record and its inline children are written in one transaction.
func (ma *ModelAdmin[T]) write(c echo.Context, db bun.IDB, id string) (string, error) {
	ctx := c.Request().Context()
	var savedID string

	err := db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		record := ma.newRecord()
		isNew := id == ""
		if !isNew {
			var err error
			record, err = ma.retrieve(ctx, tx, id)
			if err != nil {
				return err
			}
		}

		if err := ma.save(c, tx, record, isNew); err != nil {
			return err
		}

		values, err := recordValues(record)
		if err != nil {
			return err
		}
		savedID = recordID(values)
		return nil
	})
	if err != nil {
		return "", errors.WithStack(err)
	}
	return savedID, nil
}

func (ma *ModelAdmin[T]) delete(ctx context.Context, db bun.IDB, id string) error {
	if ma.remove == nil {
		return errcodes.Forbidden("Deleting " + ma.VerboseNamePlural)
	}
	record, err := ma.retrieve(ctx, db, id)
	if err != nil {
		return err
	}
	return ma.remove(ctx, db, record)
}
