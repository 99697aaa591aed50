package normalize

import (
	"errors"
	"fmt"
	"strings"

	"ForecastDash/internal/domain/models"
)

var (
	ErrNoYearColumn   = errors.New("no year column")
	ErrAmbiguousValue = errors.New("ambiguous value column")
	ErrNoRows         = errors.New("no rows with a usable year")
	ErrUnreadable     = errors.New("unreadable csv")
)

// SchemaError reports that the required columns of a file could not be identified.
type SchemaError struct {
	Source  string
	Role    models.Role
	Columns []string
	Err     error
}

func (e *SchemaError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	switch {
	case errors.Is(e.Err, ErrNoYearColumn):
		return fmt.Sprintf("could not find a Year column in %s (columns: %s); make sure it has a 'Year' column",
			src, strings.Join(e.Columns, ", "))
	case errors.Is(e.Err, ErrAmbiguousValue):
		return fmt.Sprintf("could not tell which column of %s holds the %s values (columns: %s); name it %s",
			src, e.Role, strings.Join(e.Columns, ", "), suggestedName(e.Role))
	case errors.Is(e.Err, ErrNoRows):
		return fmt.Sprintf("%s has no rows with a usable year", src)
	default:
		return fmt.Sprintf("%s: %v", src, e.Err)
	}
}

func (e *SchemaError) Unwrap() error { return e.Err }

// Kind is a short label for metrics and API error params.
func (e *SchemaError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrNoYearColumn):
		return "no_year"
	case errors.Is(e.Err, ErrAmbiguousValue):
		return "ambiguous_value"
	case errors.Is(e.Err, ErrNoRows):
		return "no_rows"
	default:
		return "unreadable"
	}
}

func suggestedName(r models.Role) string {
	if r == models.RoleForecast {
		return "'Forecast'"
	}
	return "'Inflation_YoY'"
}
