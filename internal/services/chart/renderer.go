// Package chart renders the dashboard overview as a PNG line chart.
package chart

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"ForecastDash/internal/domain/models"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	colorHistory  = drawing.ColorFromHex("1f77b4")
	colorProxy    = drawing.ColorFromHex("ff7f0e")
	colorForecast = drawing.ColorFromHex("d62728")
	colorTrain    = drawing.ColorFromHex("2ca02c").WithAlpha(24)
	colorTest     = drawing.ColorFromHex("ffa500").WithAlpha(24)
)

// Options controls labels and canvas size.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	Width  int
	Height int
}

// DefaultOptions mirrors the overview tab of the inflation dashboard.
func DefaultOptions() Options {
	return Options{
		Title:  "History, model proxy, and forecast",
		XLabel: "Year",
		YLabel: "Inflation YoY (%)",
		Width:  1100,
		Height: 500,
	}
}

// Input is everything the overview chart draws.
type Input struct {
	History  []models.Point
	Proxy    []models.Point
	Forecast []models.Point
}

// RenderOverview writes the overview chart as PNG to w.
func RenderOverview(w io.Writer, in Input, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}

	if len(in.History) == 0 {
		return fmt.Errorf("render overview: history has no years")
	}
	hx, hy := xy(in.History)
	px, py := xy(in.Proxy)
	fx, fy := xy(in.Forecast)

	// Axes follow the years even when every value is missing.
	histLo, maxHist := yearBounds(in.History)
	minYear, maxYear := histLo, maxHist
	if flo, fhi := yearBounds(in.Forecast); len(in.Forecast) > 0 {
		if flo < minYear {
			minYear = flo
		}
		if fhi > maxYear {
			maxYear = fhi
		}
	}
	lo, hi := valueBounds(hy, py, fy)

	var ser []gochart.Series
	ser = append(ser, band("Train period", float64(histLo), float64(maxHist), hi, colorTrain))
	if len(in.Forecast) > 0 && maxYear > maxHist {
		ser = append(ser, band("Test/Forecast period", float64(maxHist+1), float64(maxYear), hi, colorTest))
	}

	if len(hx) > 0 {
		ser = append(ser, gochart.ContinuousSeries{
			Name:    "Actual (History)",
			XValues: hx,
			YValues: hy,
			Style:   gochart.Style{StrokeColor: colorHistory, StrokeWidth: 2},
		})
	}
	if len(px) > 0 {
		ser = append(ser, gochart.ContinuousSeries{
			Name:    "Model (in-sample, proxy)",
			XValues: px,
			YValues: py,
			Style: gochart.Style{
				StrokeColor:     colorProxy,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}
	if len(fx) > 0 {
		ser = append(ser, gochart.ContinuousSeries{
			Name:    "Forecast",
			XValues: fx,
			YValues: fy,
			Style: gochart.Style{
				StrokeColor: colorForecast,
				StrokeWidth: 2,
				DotColor:    colorForecast,
				DotWidth:    4,
			},
		})
		ser = append(ser, gochart.AnnotationSeries{Annotations: lastLabels(fx, fy, 3)})
	}

	graph := gochart.Chart{
		Title:  opts.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:           opts.XLabel,
			Range:          &gochart.ContinuousRange{Min: float64(minYear) - 0.5, Max: float64(maxYear) + 0.5},
			ValueFormatter: yearFormatter,
			GridMajorStyle: gochart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1},
		},
		YAxis: gochart.YAxis{
			Name:           opts.YLabel,
			Range:          &gochart.ContinuousRange{Min: lo, Max: hi},
			GridMajorStyle: gochart.Style{StrokeColor: drawing.ColorFromHex("dddddd"), StrokeWidth: 1},
		},
		Series: ser,
	}
	graph.Elements = []gochart.Renderable{gochart.LegendLeft(&graph)}

	if err := graph.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render overview: %w", err)
	}
	return nil
}

func xy(points []models.Point) ([]float64, []float64) {
	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Value == nil || math.IsNaN(*p.Value) || math.IsInf(*p.Value, 0) {
			continue
		}
		xs = append(xs, float64(p.Year))
		ys = append(ys, *p.Value)
	}
	return xs, ys
}

func yearBounds(points []models.Point) (int, int) {
	if len(points) == 0 {
		return 0, 0
	}
	lo, hi := points[0].Year, points[0].Year
	for _, p := range points {
		if p.Year < lo {
			lo = p.Year
		}
		if p.Year > hi {
			hi = p.Year
		}
	}
	return lo, hi
}

// valueBounds pads the y-range by 10% and never returns an empty range.
func valueBounds(sets ...[]float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, set := range sets {
		for _, v := range set {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if math.IsInf(lo, 0) {
		return 0, 1
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}

// band draws a filled rectangle from the top of the plot down to the axis.
func band(name string, from, to, top float64, color drawing.Color) gochart.ContinuousSeries {
	if to <= from {
		from, to = from-0.5, from+0.5
	}
	return gochart.ContinuousSeries{
		Name:    name,
		XValues: []float64{from, to},
		YValues: []float64{top, top},
		Style: gochart.Style{
			StrokeWidth: 0,
			StrokeColor: color,
			FillColor:   color,
		},
	}
}

func lastLabels(xs, ys []float64, n int) []gochart.Value2 {
	start := len(xs) - n
	if start < 0 {
		start = 0
	}
	out := make([]gochart.Value2, 0, len(xs)-start)
	for i := start; i < len(xs); i++ {
		out = append(out, gochart.Value2{
			XValue: xs[i],
			YValue: ys[i],
			Label:  strconv.Itoa(int(xs[i])),
		})
	}
	return out
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		if f != math.Trunc(f) {
			return ""
		}
		return strconv.Itoa(int(f))
	}
	return ""
}
