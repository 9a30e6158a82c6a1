package aquarius

import (
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
)

// AQUARIUS Publish API response types.

type timeSeriesDescriptionList struct {
	TimeSeriesDescriptions []timeSeriesDescription `json:"TimeSeriesDescriptions"`
}

type timeSeriesDescription struct {
	UniqueID                    string  `json:"UniqueId"`
	Identifier                  string  `json:"Identifier"`
	Parameter                   string  `json:"Parameter"`
	Unit                        string  `json:"Unit"`
	UTCOffset                   float64 `json:"UtcOffset"`
	LocationIdentifier          string  `json:"LocationIdentifier"`
	ComputationIdentifier       string  `json:"ComputationIdentifier"`
	ComputationPeriodIdentifier string  `json:"ComputationPeriodIdentifier"`
}

func (d timeSeriesDescription) toDomain() domain.SeriesDescription {
	return domain.SeriesDescription{
		UniqueID:                    d.UniqueID,
		Identifier:                  d.Identifier,
		Parameter:                   d.Parameter,
		Unit:                        d.Unit,
		UTCOffset:                   d.UTCOffset,
		LocationIdentifier:          d.LocationIdentifier,
		ComputationIdentifier:       d.ComputationIdentifier,
		ComputationPeriodIdentifier: d.ComputationPeriodIdentifier,
	}
}

type parameterList struct {
	Parameters []parameterMetadata `json:"Parameters"`
}

type parameterMetadata struct {
	Identifier          string `json:"Identifier"`
	DisplayName         string `json:"DisplayName"`
	UnitGroupIdentifier string `json:"UnitGroupIdentifier"`
}

type statisticalDateTimeOffset struct {
	DateTimeOffset            time.Time `json:"DateTimeOffset"`
	RepresentsEndOfTimePeriod bool      `json:"RepresentsEndOfTimePeriod"`
}

// toDomain moves an end-of-period stamp (24:00 of a day) back into the
// period it closes.
func (t statisticalDateTimeOffset) toDomain() domain.StatisticalTime {
	at := t.DateTimeOffset
	if t.RepresentsEndOfTimePeriod {
		at = at.Add(-time.Nanosecond)
	}
	return domain.StatisticalTime{
		DateTimeOffset:            at,
		RepresentsEndOfTimePeriod: t.RepresentsEndOfTimePeriod,
	}
}

type doubleWithDisplay struct {
	Unit    string   `json:"Unit,omitempty"`
	Display string   `json:"Display"`
	Numeric *float64 `json:"Numeric"`
}

type timeSeriesPoint struct {
	Timestamp statisticalDateTimeOffset `json:"Timestamp"`
	Value     doubleWithDisplay         `json:"Value"`
}

type statisticalTimeRange struct {
	StartTime statisticalDateTimeOffset `json:"StartTime"`
	EndTime   statisticalDateTimeOffset `json:"EndTime"`
}

type qualifier struct {
	Identifier string    `json:"Identifier"`
	StartTime  time.Time `json:"StartTime"`
	EndTime    time.Time `json:"EndTime"`
	User       string    `json:"User"`
}

type approval struct {
	ApprovalLevel    int       `json:"ApprovalLevel"`
	LevelDescription string    `json:"LevelDescription"`
	StartTime        time.Time `json:"StartTime"`
	EndTime          time.Time `json:"EndTime"`
}

type gapTolerance struct {
	StartTime          time.Time `json:"StartTime"`
	EndTime            time.Time `json:"EndTime"`
	ToleranceInMinutes *float64  `json:"ToleranceInMinutes"`
}

type timeSeriesData struct {
	UniqueID      string                `json:"UniqueId"`
	Parameter     string                `json:"Parameter"`
	Unit          string                `json:"Unit"`
	TimeRange     *statisticalTimeRange `json:"TimeRange"`
	Points        []timeSeriesPoint     `json:"Points"`
	Qualifiers    []qualifier           `json:"Qualifiers"`
	Approvals     []approval            `json:"Approvals"`
	GapTolerances []gapTolerance        `json:"GapTolerances"`
}

// toDomain keeps nil slices nil so absent parts stay absent.
func (d timeSeriesData) toDomain() *domain.RawSeriesPayload {
	p := &domain.RawSeriesPayload{Unit: d.Unit, Parameter: d.Parameter}
	if d.TimeRange != nil {
		p.TimeRange = &domain.TimeRange{
			StartTime: d.TimeRange.StartTime.toDomain(),
			EndTime:   d.TimeRange.EndTime.toDomain(),
		}
	}
	if d.Points != nil {
		p.Points = make([]domain.RawPoint, len(d.Points))
		for i, pt := range d.Points {
			p.Points[i] = domain.RawPoint{
				Timestamp: pt.Timestamp.toDomain(),
				Value:     domain.DisplayValue{Display: pt.Value.Display, Numeric: pt.Value.Numeric},
			}
		}
	}
	if d.Qualifiers != nil {
		p.Qualifiers = make([]domain.Qualifier, len(d.Qualifiers))
		for i, q := range d.Qualifiers {
			p.Qualifiers[i] = domain.Qualifier(q)
		}
	}
	if d.Approvals != nil {
		p.Approvals = make([]domain.Approval, len(d.Approvals))
		for i, a := range d.Approvals {
			p.Approvals[i] = domain.Approval(a)
		}
	}
	if d.GapTolerances != nil {
		p.GapTolerances = make([]domain.GapTolerance, len(d.GapTolerances))
		for i, g := range d.GapTolerances {
			p.GapTolerances[i] = domain.GapTolerance(g)
		}
	}
	return p
}

type qualifierList struct {
	Qualifiers []qualifierMetadata `json:"Qualifiers"`
}

type qualifierMetadata struct {
	Identifier  string `json:"Identifier"`
	Code        string `json:"Code"`
	DisplayName string `json:"DisplayName"`
}

type locationDescriptionList struct {
	LocationDescriptions []locationDescription `json:"LocationDescriptions"`
}

type locationDescription struct {
	Identifier string `json:"Identifier"`
	Name       string `json:"Name"`
	UniqueID   string `json:"UniqueId"`
}

type fieldVisitDescriptionList struct {
	FieldVisitDescriptions []fieldVisitDescription `json:"FieldVisitDescriptions"`
}

type fieldVisitDescription struct {
	Identifier string    `json:"Identifier"`
	StartTime  time.Time `json:"StartTime"`
	EndTime    time.Time `json:"EndTime"`
}

type fieldVisitData struct {
	VisitIdentifier     string              `json:"VisitIdentifier"`
	DischargeActivities []dischargeActivity `json:"DischargeActivities"`
}

type dischargeActivity struct {
	DischargeSummary *dischargeSummary `json:"DischargeSummary"`
}

type dischargeSummary struct {
	MeasurementID        string             `json:"MeasurementId"`
	MeasurementStartTime time.Time          `json:"MeasurementStartTime"`
	Discharge            *doubleWithDisplay `json:"Discharge"`
	MeasurementGrade     string             `json:"MeasurementGrade"`
	Publish              bool               `json:"Publish"`
}

func (d fieldVisitData) toDomain() domain.FieldVisitData {
	out := domain.FieldVisitData{VisitIdentifier: d.VisitIdentifier}
	for _, a := range d.DischargeActivities {
		s := a.DischargeSummary
		if s == nil {
			continue
		}
		summary := domain.DischargeSummary{
			MeasurementID:        s.MeasurementID,
			MeasurementStartTime: s.MeasurementStartTime,
			MeasurementGrade:     s.MeasurementGrade,
			Publish:              s.Publish,
		}
		if s.Discharge != nil {
			summary.Discharge = &domain.QuantityWithDisplay{
				Unit:    s.Discharge.Unit,
				Display: s.Discharge.Display,
				Numeric: s.Discharge.Numeric,
			}
		}
		out.DischargeSummaries = append(out.DischargeSummaries, summary)
	}
	return out
}
