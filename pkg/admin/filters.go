package admin

import (
	"time"

	"github.com/HarishV14/Local-library/pkg/models"
)

// Date filter choices.
const (
	DateAny       = "any"
	DateToday     = "today"
	DatePast7Days = "past_7_days"
	DateThisMonth = "this_month"
	DateThisYear  = "this_year"
	DateNoDate    = "no_date"
	DateHasDate   = "has_date"
)

var dateChoices = []Choice{
	{DateAny, "Any date"},
	{DateToday, "Today"},
	{DatePast7Days, "Past 7 days"},
	{DateThisMonth, "This month"},
	{DateThisYear, "This year"},
	{DateNoDate, "No date"},
	{DateHasDate, "Has date"},
}

// DateRange is the due date window selected by a date filter choice. From
// is inclusive and Before exclusive; Has filters on the date being set.
type DateRange struct {
	From   *models.Date
	Before *models.Date
	Has    *bool
}

// dateRange resolves a date filter choice relative to today. Unknown
// choices and "any" select everything.
func dateRange(choice string, today models.Date) DateRange {
	tomorrow := today.AddDays(1)
	t := today.Time()
	switch choice {
	case DateToday:
		return DateRange{From: &today, Before: &tomorrow}
	case DatePast7Days:
		from := today.AddDays(-7)
		return DateRange{From: &from, Before: &tomorrow}
	case DateThisMonth:
		from := models.NewDate(t.Year(), t.Month(), 1)
		before := models.NewDate(t.Year(), t.Month()+1, 1)
		return DateRange{From: &from, Before: &before}
	case DateThisYear:
		from := models.NewDate(t.Year(), time.January, 1)
		before := models.NewDate(t.Year()+1, time.January, 1)
		return DateRange{From: &from, Before: &before}
	case DateNoDate:
		has := false
		return DateRange{Has: &has}
	case DateHasDate:
		has := true
		return DateRange{Has: &has}
	default:
		return DateRange{}
	}
}

func dateFilter(name, label string) Filter {
	return Filter{Name: name, Label: label, Choices: dateChoices}
}

func statusFilter() Filter {
	choices := make([]Choice, len(models.LoanStatuses))
	for i, s := range models.LoanStatuses {
		choices[i] = Choice{Value: string(s), Label: s.Label()}
	}
	return Filter{Name: "status", Label: "status", Choices: choices}
}
