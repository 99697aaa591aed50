package export

import (
	"fmt"
	"io"

	"ForecastDash/internal/domain/models"

	"github.com/xuri/excelize/v2"
)

const mergedSheet = "Merged"

// WriteMergedXLSX writes the merged view to a single-sheet workbook.
func WriteMergedXLSX(w io.Writer, view *models.MergedView, historyCol, forecastCol string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", mergedSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := mergedHeader(historyCol, forecastCol)
	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(mergedSheet, "A1", &row); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range view.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{r.Year, cellValue(r.History), cellValue(r.Forecast), r.Set}
		if err := f.SetSheetRow(mergedSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func cellValue(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
