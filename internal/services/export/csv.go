package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"ForecastDash/internal/domain/models"
)

// WriteSeriesCSV writes a normalized series as Year,<value column>. Missing values are empty.
func WriteSeriesCSV(w io.Writer, ts *models.TimeSeries) error {
	valueCol := models.ColumnValue
	if ts != nil && ts.ValueColumn != "" {
		valueCol = ts.ValueColumn
	}
	records := make([][]string, 0, ts.Len())
	if ts != nil {
		for _, p := range ts.Points {
			records = append(records, []string{strconv.Itoa(p.Year), formatFloat(p.Value)})
		}
	}
	return writeCSV(w, []string{models.ColumnYear, valueCol}, records)
}

// WriteMergedCSV writes the merged view as Year,History,Forecast,Set.
func WriteMergedCSV(w io.Writer, view *models.MergedView, historyCol, forecastCol string) error {
	records := make([][]string, 0, len(view.Rows))
	for _, r := range view.Rows {
		records = append(records, []string{
			strconv.Itoa(r.Year),
			formatFloat(r.History),
			formatFloat(r.Forecast),
			r.Set,
		})
	}
	return writeCSV(w, mergedHeader(historyCol, forecastCol), records)
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, rec := range records {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func mergedHeader(historyCol, forecastCol string) []string {
	if historyCol == "" {
		historyCol = "History"
	}
	if forecastCol == "" {
		forecastCol = models.ColumnForecast
	}
	return []string{models.ColumnYear, historyCol, forecastCol, models.ColumnSet}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
