package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// DiscreteKind identifies the discrete overlay attached to a report.
type DiscreteKind string

const (
	DiscreteNone              DiscreteKind = "none"
	DiscreteGroundwaterLevels DiscreteKind = "groundwater_levels"
	DiscreteFieldVisits       DiscreteKind = "field_visit_measurements"
	DiscreteWaterQuality      DiscreteKind = "water_quality"
)

// Discrete is the closed set of discrete overlays: GroundwaterLevels,
// FieldVisitMeasurements or WaterQualitySamples. A nil Discrete is "none".
type Discrete interface {
	Kind() DiscreteKind
	isDiscrete()
}

// KindOf returns the kind of d, DiscreteNone for nil.
func KindOf(d Discrete) DiscreteKind {
	if d == nil {
		return DiscreteNone
	}
	return d.Kind()
}

// WaterLevelRecord is one NWIS groundwater level measurement.
type WaterLevelRecord struct {
	SiteNumber       string          `json:"siteNumber"`
	Date             time.Time       `json:"date"`
	GroundWaterLevel decimal.Decimal `json:"groundWaterLevel"`
	ParameterCode    string          `json:"parameterCode,omitempty"`
}

// GroundwaterLevels is the overlay of groundwater primary series.
type GroundwaterLevels []WaterLevelRecord

func (GroundwaterLevels) Kind() DiscreteKind { return DiscreteGroundwaterLevels }
func (GroundwaterLevels) isDiscrete()        {}

// FieldVisitMeasurement is one discharge measurement made during a field visit.
type FieldVisitMeasurement struct {
	MeasurementNumber    string          `json:"measurementNumber"`
	Discharge            decimal.Decimal `json:"discharge"`
	ErrorMinDischarge    decimal.Decimal `json:"errorMinDischarge"`
	ErrorMaxDischarge    decimal.Decimal `json:"errorMaxDischarge"`
	MeasurementStartDate time.Time       `json:"measurementStartDate"`
	Publish              bool            `json:"publish"`
}

// FieldVisitMeasurements is the overlay of discharge primary series.
type FieldVisitMeasurements []FieldVisitMeasurement

func (FieldVisitMeasurements) Kind() DiscreteKind { return DiscreteFieldVisits }
func (FieldVisitMeasurements) isDiscrete()        {}

// WaterQualitySample is one NWIS water-quality result.
type WaterQualitySample struct {
	RecordNumber        string          `json:"recordNumber"`
	SampleStartDateTime time.Time       `json:"sampleStartDateTime"`
	ParameterCode       string          `json:"parameterCode"`
	Value               decimal.Decimal `json:"value"`
	RemarkCode          string          `json:"remarkCode,omitempty"`
}

// WaterQualitySamples is the overlay of other primary series.
type WaterQualitySamples []WaterQualitySample

func (WaterQualitySamples) Kind() DiscreteKind { return DiscreteWaterQuality }
func (WaterQualitySamples) isDiscrete()        {}

// MarshalJSON flattens the optional slots and the discrete overlay into the
// field names consumed by the report renderer.
func (r Report) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"reportMetadata":          r.Metadata,
		"primarySeriesQualifiers": r.PrimarySeriesQualifiers,
		"primarySeriesApprovals":  r.PrimarySeriesApprovals,
	}
	if r.MaxMinData != nil {
		out["maxMinData"] = r.MaxMinData
	}
	for _, slot := range SeriesSlots {
		if s := r.Series[slot]; s != nil {
			out[slot.String()] = s
		}
	}
	switch d := r.Discrete.(type) {
	case GroundwaterLevels:
		out["gwlevel"] = []WaterLevelRecord(d)
	case FieldVisitMeasurements:
		out["fieldVisitMeasurements"] = []FieldVisitMeasurement(d)
	case WaterQualitySamples:
		out["waterQuality"] = []WaterQualitySample(d)
	}
	return json.Marshal(out)
}
