package binder

import (
	"regexp"

	"github.com/HarishV14/Local-library/pkg/models"
	"github.com/go-playground/validator/v10"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
	isbnRE = regexp.MustCompile(`^(\d{9}[\dX]|\d{13})$`)
)

// dateValidator accepts YYYY-MM-DD or the empty string, which clears a date.
// Pair it with `ne=` when a date is required.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateRE.MatchString(value)
}

// isbnValidator accepts a 10 or 13 character ISBN without separators.
func isbnValidator(fl validator.FieldLevel) bool {
	return isbnRE.MatchString(fl.Field().String())
}

// loanStatusValidator accepts status names and legacy status codes.
func loanStatusValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, err := models.ParseLoanStatus(value)
	return err == nil
}
