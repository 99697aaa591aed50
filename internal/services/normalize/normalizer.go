// Package normalize maps loosely named CSV columns onto canonical Year/Value series.
package normalize

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"ForecastDash/internal/domain/models"
	xutil "ForecastDash/pkg/util"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	YearSynonyms = []string{"year", "years", "date", "time", "period"}

	HistorySynonyms = []string{
		"inflation", "inflation_yoy", "headline_inflation", "value", "rate",
		"yoy", "inflation_yoy_percent", "inflation_yoy_%",
	}

	ForecastSynonyms = []string{"forecast", "pred", "prediction", "yhat", "predicted"}
)

// missingValues are read as NA by the CSV loader.
var missingValues = []string{"", "NA", "N/A", "NaN", "nan", "null", "NULL", "<nil>", "-"}

// Options controls a single normalization.
type Options struct {
	Source        string
	Role          models.Role
	ValueColumn   string
	YearSynonyms  []string
	ValueSynonyms []string
}

// DefaultOptions returns the synonym sets for role with the generic "Value" output column.
func DefaultOptions(role models.Role) Options {
	opts := Options{
		Role:         role,
		ValueColumn:  models.ColumnValue,
		YearSynonyms: YearSynonyms,
	}
	if role == models.RoleForecast {
		opts.ValueSynonyms = ForecastSynonyms
	} else {
		opts.ValueSynonyms = HistorySynonyms
	}
	return opts
}

func (o Options) withDefaults() Options {
	def := DefaultOptions(o.Role)
	if o.ValueColumn == "" {
		o.ValueColumn = def.ValueColumn
	}
	if len(o.YearSynonyms) == 0 {
		o.YearSynonyms = def.YearSynonyms
	}
	if len(o.ValueSynonyms) == 0 {
		o.ValueSynonyms = def.ValueSynonyms
	}
	return o
}

// ReadCSV loads raw CSV into a dataframe with type detection.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(missingValues),
	)
	if df.Err != nil {
		return df, fmt.Errorf("%w: %v", ErrUnreadable, df.Err)
	}
	return df, nil
}

// NormalizeCSV reads r and normalizes it.
func NormalizeCSV(r io.Reader, opts Options) (*models.TimeSeries, error) {
	df, err := ReadCSV(r)
	if err != nil {
		return nil, &SchemaError{Source: opts.Source, Role: opts.Role, Err: err}
	}
	return Normalize(df, opts)
}

// Normalize locates the year and value columns of df and returns a sorted series.
func Normalize(df dataframe.DataFrame, opts Options) (*models.TimeSeries, error) {
	opts = opts.withDefaults()
	names := df.Names()
	headers := headerNames(names)
	fail := func(err error) error {
		return &SchemaError{Source: opts.Source, Role: opts.Role, Columns: names, Err: err}
	}

	yearCol, ok := findColumn(names, headers, opts.YearSynonyms, "")
	if !ok {
		return nil, fail(ErrNoYearColumn)
	}

	valueCol, ok := findColumn(names, headers, opts.ValueSynonyms, yearCol)
	if !ok {
		if len(names) != 2 {
			return nil, fail(ErrAmbiguousValue)
		}
		valueCol = otherColumn(names, yearCol)
	}

	years := yearValues(df.Col(yearCol))
	values := floatValues(df.Col(valueCol))

	rows := make([]models.Point, 0, len(years))
	for i, y := range years {
		if y == nil {
			continue
		}
		rows = append(rows, models.Point{Year: *y, Value: values[i]})
	}
	if len(rows) == 0 {
		return nil, fail(ErrNoRows)
	}

	return &models.TimeSeries{
		Name:        opts.Source,
		ValueColumn: opts.ValueColumn,
		SourceYear:  headers[yearCol],
		SourceValue: headers[valueCol],
		Points:      dedupeSorted(rows),
	}, nil
}

// IsSchemaError reports whether err is a normalization failure.
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// findColumn returns the first column, in file order, whose normalized header is a synonym.
func findColumn(names []string, headers map[string]string, synonyms []string, skip string) (string, bool) {
	set := make(map[string]struct{}, len(synonyms))
	for _, s := range synonyms {
		set[xutil.NormalizeKey(s)] = struct{}{}
	}
	for _, n := range names {
		if n == skip {
			continue
		}
		if _, ok := set[xutil.NormalizeKey(headers[n])]; ok {
			return n, true
		}
	}
	return "", false
}

// headerNames maps each dataframe column back to its CSV header. The CSV loader
// renames repeated headers to name_0, name_1, ...; those map back to name.
func headerNames(names []string) map[string]string {
	groups := make(map[string][]int)
	for _, n := range names {
		i := strings.LastIndex(n, "_")
		if i <= 0 {
			continue
		}
		idx, err := strconv.Atoi(n[i+1:])
		if err != nil || idx < 0 {
			continue
		}
		groups[n[:i]] = append(groups[n[:i]], idx)
	}

	out := make(map[string]string, len(names))
	for _, n := range names {
		out[n] = n
	}
	for base, idxs := range groups {
		if len(idxs) < 2 || !contiguous(idxs) {
			continue
		}
		for _, idx := range idxs {
			out[base+"_"+strconv.Itoa(idx)] = base
		}
	}
	return out
}

func contiguous(idxs []int) bool {
	seen := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		seen[i] = true
	}
	for i := range idxs {
		if !seen[i] {
			return false
		}
	}
	return true
}

func otherColumn(names []string, col string) string {
	for _, n := range names {
		if n != col {
			return n
		}
	}
	return ""
}

func isNumeric(s series.Series) bool {
	t := s.Type()
	return t == series.Int || t == series.Float
}

// yearValues coerces a column to integer years; nil marks an unusable cell.
func yearValues(s series.Series) []*int {
	out := make([]*int, s.Len())
	if isNumeric(s) {
		for i, f := range s.Float() {
			if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
				continue
			}
			y := int(f)
			out[i] = &y
		}
		return out
	}
	for i, rec := range s.Records() {
		if s.Elem(i).IsNA() {
			continue
		}
		if y, ok := xutil.ParseYear(rec); ok {
			out[i] = &y
		}
	}
	return out
}

func floatValues(s series.Series) []*float64 {
	out := make([]*float64, s.Len())
	if isNumeric(s) {
		for i, f := range s.Float() {
			if math.IsNaN(f) {
				continue
			}
			out[i] = models.Float(f)
		}
		return out
	}
	for i, rec := range s.Records() {
		if s.Elem(i).IsNA() {
			continue
		}
		if f, ok := parseFloat(rec); ok {
			out[i] = models.Float(f)
		}
	}
	return out
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// dedupeSorted sorts by year and keeps the last occurrence of a repeated year.
func dedupeSorted(rows []models.Point) []models.Point {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Year < rows[j].Year })
	out := rows[:0]
	for _, r := range rows {
		if n := len(out); n > 0 && out[n-1].Year == r.Year {
			out[n-1] = r
			continue
		}
		out = append(out, r)
	}
	return out
}
