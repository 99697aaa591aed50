package usecase

import (
	"fmt"
	"math"
	"strconv"

	"ForecastDash/internal/domain/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	mergeHistory  = "History"
	mergeForecast = "Forecast"
)

// Merge outer-joins history and forecast on Year and tags each row.
// Rows up to the last history year are History; later rows are Forecast.
func Merge(history, forecast *models.TimeSeries) (*models.MergedView, error) {
	maxHist, ok := history.MaxYear()
	if !ok {
		return nil, fmt.Errorf("merge: history is empty")
	}

	var rows []models.MergedRow
	if forecast.Len() == 0 {
		rows = make([]models.MergedRow, 0, history.Len())
		for _, p := range history.Points {
			rows = append(rows, models.MergedRow{Year: p.Year, History: p.Value})
		}
	} else {
		joined := toFrame(history, mergeHistory).
			OuterJoin(toFrame(forecast, mergeForecast), models.ColumnYear).
			Arrange(dataframe.Sort(models.ColumnYear))
		if joined.Err != nil {
			return nil, fmt.Errorf("merge: %w", joined.Err)
		}
		rows = fromFrame(joined)
	}

	for i := range rows {
		if rows[i].Year <= maxHist {
			rows[i].Set = models.SetHistory
		} else {
			rows[i].Set = models.SetForecast
		}
	}
	return &models.MergedView{MaxHistoryYear: maxHist, Rows: rows}, nil
}

func toFrame(ts *models.TimeSeries, valueName string) dataframe.DataFrame {
	years := make([]int, ts.Len())
	vals := make([]string, ts.Len())
	for i, p := range ts.Points {
		years[i] = p.Year
		vals[i] = "NaN"
		if p.Value != nil {
			vals[i] = strconv.FormatFloat(*p.Value, 'g', -1, 64)
		}
	}
	return dataframe.New(
		series.New(years, series.Int, models.ColumnYear),
		series.New(vals, series.Float, valueName),
	)
}

func fromFrame(df dataframe.DataFrame) []models.MergedRow {
	years := df.Col(models.ColumnYear).Float()
	hist := df.Col(mergeHistory).Float()
	fc := df.Col(mergeForecast).Float()

	rows := make([]models.MergedRow, len(years))
	for i := range years {
		rows[i] = models.MergedRow{
			Year:     int(years[i]),
			History:  optional(hist[i]),
			Forecast: optional(fc[i]),
		}
	}
	return rows
}

func optional(f float64) *float64 {
	if math.IsNaN(f) {
		return nil
	}
	return models.Float(f)
}
