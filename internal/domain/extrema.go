package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExtremumPoint is a primary-series sample attaining the minimum or maximum.
type ExtremumPoint struct {
	Time  time.Time       `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// Extrema holds the global minimum and maximum of a series. Min and Max are
// nil when the series has no numeric values. Points is keyed by the decimal
// string of the value.
type Extrema struct {
	Min    *decimal.Decimal           `json:"min,omitempty"`
	Max    *decimal.Decimal           `json:"max,omitempty"`
	Points map[string][]ExtremumPoint `json:"points"`
}

// MinPoints returns the points attaining the minimum.
func (e Extrema) MinPoints() []ExtremumPoint {
	if e.Min == nil {
		return nil
	}
	return e.Points[e.Min.String()]
}

// MaxPoints returns the points attaining the maximum.
func (e Extrema) MaxPoints() []ExtremumPoint {
	if e.Max == nil {
		return nil
	}
	return e.Points[e.Max.String()]
}

// ExtractExtrema scans points with a numeric value for the global minimum and
// maximum display value. Ties are all kept, in order of first occurrence.
func ExtractExtrema(points []RawPoint) Extrema {
	result := Extrema{Points: map[string][]ExtremumPoint{}}

	valued := make([]ExtremumPoint, 0, len(points))
	for _, p := range points {
		v, ok := p.Value.Rounded()
		if !ok {
			continue
		}
		valued = append(valued, ExtremumPoint{Time: p.Timestamp.DateTimeOffset, Value: v})
		if result.Min == nil || v.LessThan(*result.Min) {
			result.Min = &v
		}
		if result.Max == nil || v.GreaterThan(*result.Max) {
			result.Max = &v
		}
	}
	if len(valued) == 0 {
		return result
	}

	for _, p := range valued {
		var key string
		switch {
		case p.Value.Equal(*result.Min):
			key = result.Min.String()
		case p.Value.Equal(*result.Max):
			key = result.Max.String()
		default:
			continue
		}
		result.Points[key] = append(result.Points[key], p)
	}
	return result
}
