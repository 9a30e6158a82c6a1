package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FieldVisitDescription identifies one field visit at a location.
type FieldVisitDescription struct {
	Identifier string
	StartTime  time.Time
	EndTime    time.Time
}

// QuantityWithDisplay is a measured quantity with its store-rounded display.
type QuantityWithDisplay struct {
	Unit    string
	Display string
	Numeric *float64
}

// DischargeSummary is the summary of one discharge activity.
type DischargeSummary struct {
	MeasurementID        string
	MeasurementStartTime time.Time
	Discharge            *QuantityWithDisplay
	MeasurementGrade     string
	Publish              bool
}

// FieldVisitData is the retrieved payload of one field visit.
type FieldVisitData struct {
	VisitIdentifier    string
	DischargeSummaries []DischargeSummary
}

// measurement grade -> relative error, per USGS measurement rating criteria.
var gradeError = map[string]decimal.Decimal{
	"excellent": decimal.RequireFromString("0.02"),
	"good":      decimal.RequireFromString("0.05"),
	"fair":      decimal.RequireFromString("0.08"),
	"poor":      decimal.RequireFromString("0.08"),
}

// ExtractFieldVisitMeasurements flattens a visit's discharge activities into
// measurements. Activities without a numeric discharge are skipped; an
// unknown grade yields a zero-width error band.
func ExtractFieldVisitMeasurements(data FieldVisitData) []FieldVisitMeasurement {
	out := make([]FieldVisitMeasurement, 0, len(data.DischargeSummaries))
	for _, s := range data.DischargeSummaries {
		if s.Discharge == nil {
			continue
		}
		discharge, ok := DisplayValue{Display: s.Discharge.Display, Numeric: s.Discharge.Numeric}.Rounded()
		if !ok {
			continue
		}
		rel := gradeError[strings.ToLower(strings.TrimSpace(s.MeasurementGrade))]
		delta := discharge.Mul(rel)
		out = append(out, FieldVisitMeasurement{
			MeasurementNumber:    s.MeasurementID,
			Discharge:            discharge,
			ErrorMinDischarge:    discharge.Sub(delta),
			ErrorMaxDischarge:    discharge.Add(delta),
			MeasurementStartDate: s.MeasurementStartTime,
			Publish:              s.Publish,
		})
	}
	return out
}
