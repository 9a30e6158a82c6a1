package domain

import (
	"strings"
	"time"
)

// SeriesSlot names one of the eight optional series of a report.
type SeriesSlot int

const (
	FirstStatDerived SeriesSlot = iota
	SecondStatDerived
	ThirdStatDerived
	FourthStatDerived
	FirstReference
	SecondReference
	ThirdReference
	Comparison
)

// SeriesSlots lists every optional slot in report order.
var SeriesSlots = []SeriesSlot{
	FirstStatDerived, SecondStatDerived, ThirdStatDerived, FourthStatDerived,
	FirstReference, SecondReference, ThirdReference, Comparison,
}

func (s SeriesSlot) String() string {
	switch s {
	case FirstStatDerived:
		return "firstStatDerived"
	case SecondStatDerived:
		return "secondStatDerived"
	case ThirdStatDerived:
		return "thirdStatDerived"
	case FourthStatDerived:
		return "fourthStatDerived"
	case FirstReference:
		return "firstReferenceTimeSeries"
	case SecondReference:
		return "secondReferenceTimeSeries"
	case ThirdReference:
		return "thirdReferenceTimeSeries"
	case Comparison:
		return "comparisonSeries"
	default:
		return "unknown"
	}
}

// ReportRequest is a validated report request.
type ReportRequest struct {
	PrimaryIdentifier string
	Optional          [8]string // indexed by SeriesSlot
	Window            Window

	ExcludeDiscrete     bool
	ExcludeMinMax       bool
	ExcludeZeroNegative bool
}

// OptionalIdentifier returns the trimmed identifier requested for slot.
func (r ReportRequest) OptionalIdentifier(slot SeriesSlot) string {
	return strings.TrimSpace(r.Optional[slot])
}

// Identifiers returns the primary identifier followed by every non-blank
// optional identifier.
func (r ReportRequest) Identifiers() []string {
	ids := []string{r.PrimaryIdentifier}
	for _, slot := range SeriesSlots {
		if id := r.OptionalIdentifier(slot); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ReportMetadata is the descriptive header of a report. Optional series
// labels are empty when their identifier was not described.
type ReportMetadata struct {
	Title          string    `json:"title"`
	RequestingUser string    `json:"requestingUser,omitempty"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	Timezone       string    `json:"timezone"`

	PrimarySeriesLabel             string `json:"primarySeriesLabel"`
	FirstStatDerivedLabel          string `json:"firstStatDerivedLabel,omitempty"`
	SecondStatDerivedLabel         string `json:"secondStatDerivedLabel,omitempty"`
	ThirdStatDerivedLabel          string `json:"thirdStatDerivedLabel,omitempty"`
	FourthStatDerivedLabel         string `json:"fourthStatDerivedLabel,omitempty"`
	FirstReferenceTimeSeriesLabel  string `json:"firstReferenceTimeSeriesLabel,omitempty"`
	SecondReferenceTimeSeriesLabel string `json:"secondReferenceTimeSeriesLabel,omitempty"`
	ThirdReferenceTimeSeriesLabel  string `json:"thirdReferenceTimeSeriesLabel,omitempty"`
	ComparisonSeriesLabel          string `json:"comparisonSeriesLabel,omitempty"`

	QualifierMetadata map[string]QualifierMetadata `json:"qualifierMetadata,omitempty"`
	StationName       string                       `json:"stationName"`
	StationID         string                       `json:"stationId"`
	Inverted          bool                         `json:"isInverted"`

	ExcludeDiscrete     bool `json:"excludeDiscrete"`
	ExcludeMinMax       bool `json:"excludeMinMax"`
	ExcludeZeroNegative bool `json:"excludeZeroNegative"`

	SimsURL      string `json:"simsUrl,omitempty"`
	WaterdataURL string `json:"waterdataUrl,omitempty"`
}

// Label returns the label of an optional slot.
func (m ReportMetadata) Label(slot SeriesSlot) string {
	return *m.labelField(slot)
}

func (m *ReportMetadata) setLabel(slot SeriesSlot, label string) {
	*m.labelField(slot) = label
}

func (m *ReportMetadata) labelField(slot SeriesSlot) *string {
	switch slot {
	case FirstStatDerived:
		return &m.FirstStatDerivedLabel
	case SecondStatDerived:
		return &m.SecondStatDerivedLabel
	case ThirdStatDerived:
		return &m.ThirdStatDerivedLabel
	case FourthStatDerived:
		return &m.FourthStatDerivedLabel
	case FirstReference:
		return &m.FirstReferenceTimeSeriesLabel
	case SecondReference:
		return &m.SecondReferenceTimeSeriesLabel
	case ThirdReference:
		return &m.ThirdReferenceTimeSeriesLabel
	default:
		return &m.ComparisonSeriesLabel
	}
}

// Report is the assembled DV hydrograph report.
type Report struct {
	Metadata                ReportMetadata
	PrimarySeriesQualifiers []Qualifier
	PrimarySeriesApprovals  []Approval
	MaxMinData              *Extrema
	Series                  [8]*CorrectedSeries // indexed by SeriesSlot
	Discrete                Discrete
}

// SeriesFor returns the corrected series of slot, or nil.
func (r Report) SeriesFor(slot SeriesSlot) *CorrectedSeries {
	return r.Series[slot]
}
