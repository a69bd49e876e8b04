package admin

import (
	"github.com/HarishV14/Local-library/pkg/errcodes"
	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/labstack/echo/v4"
)

// changes collects the columns touched by a payload.
type changes []string

func (ch *changes) setString(dst *string, src *string, column string) {
	if src == nil {
		return
	}
	*dst = *src
	*ch = append(*ch, column)
}

// setRef sets a nullable foreign key. Zero clears it.
func (ch *changes) setRef(dst **int, src *int, column string) {
	if src == nil {
		return
	}
	if *src == 0 {
		*dst = nil
	} else {
		v := *src
		*dst = &v
	}
	*ch = append(*ch, column)
}

// setDate sets a nullable date. The empty string clears it.
func (ch *changes) setDate(dst **models.Date, src *string, column string) error {
	if src == nil {
		return nil
	}
	if *src == "" {
		*dst = nil
	} else {
		d, err := models.ParseDate(*src)
		if err != nil {
			return errcodes.ValidationError("Enter a valid date for " + column + ".")
		}
		*dst = &d
	}
	*ch = append(*ch, column)
	return nil
}

type structValidator interface {
	Validate(i interface{}, c echo.Context) error
}

// validateRecord checks a record against its model's validate tags after a
// payload has been applied.
func validateRecord(c echo.Context, record any) error {
	if v, ok := c.Echo().Binder.(structValidator); ok {
		return v.Validate(record, c)
	}
	return nil
}
