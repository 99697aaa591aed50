package export

import (
	"bytes"
	"strings"
	"testing"

	"ForecastDash/internal/domain/models"
	"ForecastDash/internal/services/normalize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSeriesCSVRoundTrip(t *testing.T) {
	src := "Date,Rate\n2021-06-30,0.123456789\n2019-01-01,-1.5\n2020-01-01,NA\n"
	opts := normalize.DefaultOptions(models.RoleHistory)
	first, err := normalize.NormalizeCSV(strings.NewReader(src), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, first))
	assert.True(t, strings.HasPrefix(buf.String(), "Year,Value\n"))

	second, err := normalize.NormalizeCSV(&buf, opts)
	require.NoError(t, err)
	assert.Equal(t, first.Points, second.Points)
}

func TestSeriesCSVUsesValueColumn(t *testing.T) {
	ts := &models.TimeSeries{
		ValueColumn: models.ColumnForecast,
		Points:      []models.Point{{Year: 2024, Value: models.Float(2.5)}, {Year: 2025}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, ts))
	assert.Equal(t, "Year,Forecast\n2024,2.5\n2025,\n", buf.String())
}

func mergedView() *models.MergedView {
	return &models.MergedView{
		MaxHistoryYear: 2021,
		Rows: []models.MergedRow{
			{Year: 2020, History: models.Float(1), Set: models.SetHistory},
			{Year: 2021, History: models.Float(2), Set: models.SetHistory},
			{Year: 2022, Forecast: models.Float(3), Set: models.SetForecast},
		},
	}
}

func TestMergedCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMergedCSV(&buf, mergedView(), models.ColumnHistory, models.ColumnForecast))

	want := "Year,Inflation_YoY,Forecast,Set\n2020,1,,History\n2021,2,,History\n2022,,3,Forecast\n"
	assert.Equal(t, want, buf.String())
}

func TestMergedXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMergedXLSX(&buf, mergedView(), models.ColumnHistory, models.ColumnForecast))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Merged")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Year", "Inflation_YoY", "Forecast", "Set"}, rows[0])
	assert.Equal(t, "2020", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "Forecast", rows[3][3])
	assert.Equal(t, "3", rows[3][2])
}

func TestNormalizeFormat(t *testing.T) {
	cases := map[string]Format{"": FormatCSV, "CSV": FormatCSV, "excel": FormatXLSX, "xls": FormatXLSX, "xlsx": FormatXLSX}
	for in, want := range cases {
		got, err := NormalizeFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := NormalizeFormat("pdf")
	assert.Error(t, err)
}
