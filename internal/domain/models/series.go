package models

// Canonical column names produced by normalization.
const (
	ColumnYear     = "Year"
	ColumnValue    = "Value"
	ColumnHistory  = "Inflation_YoY"
	ColumnForecast = "Forecast"
	ColumnSet      = "Set"
)

// Row tags of a merged view.
const (
	SetHistory  = "History"
	SetForecast = "Forecast"
)

// Role tells the normalizer which value synonyms apply.
type Role string

const (
	RoleHistory  Role = "history"
	RoleForecast Role = "forecast"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	return r == RoleHistory || r == RoleForecast
}

// Point is a single yearly observation. A nil Value is missing.
type Point struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// TimeSeries is a normalized yearly series: ascending, unique years.
type TimeSeries struct {
	Name        string  `json:"name"`
	ValueColumn string  `json:"value_column"`
	SourceYear  string  `json:"source_year_column"`
	SourceValue string  `json:"source_value_column"`
	Points      []Point `json:"points"`
}

// Len returns the number of points.
func (s *TimeSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Years returns the year of every point.
func (s *TimeSeries) Years() []int {
	out := make([]int, 0, s.Len())
	if s == nil {
		return out
	}
	for _, p := range s.Points {
		out = append(out, p.Year)
	}
	return out
}

// MinYear and MaxYear return false on an empty series.
func (s *TimeSeries) MinYear() (int, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	return s.Points[0].Year, true
}

func (s *TimeSeries) MaxYear() (int, bool) {
	if s.Len() == 0 {
		return 0, false
	}
	return s.Points[len(s.Points)-1].Year, true
}

// Valid returns only the points that carry a value.
func (s *TimeSeries) Valid() []Point {
	out := make([]Point, 0, s.Len())
	if s == nil {
		return out
	}
	for _, p := range s.Points {
		if p.Value != nil {
			out = append(out, p)
		}
	}
	return out
}

// Head returns up to n leading points.
func (s *TimeSeries) Head(n int) []Point {
	if s.Len() <= n {
		return s.pointsOrEmpty()
	}
	return s.Points[:n]
}

func (s *TimeSeries) pointsOrEmpty() []Point {
	if s == nil || s.Points == nil {
		return []Point{}
	}
	return s.Points
}

// Float returns a pointer to v, for building points.
func Float(v float64) *float64 { return &v }
