package domain

import (
	"strings"
	"time"
)

const (
	dailyComputationPeriod   = "daily"
	instantaneousComputation = "instantaneous"
)

// SeriesDescription is the store's descriptive record for one time series.
type SeriesDescription struct {
	UniqueID                    string
	Identifier                  string
	Parameter                   string
	Unit                        string
	UTCOffset                   float64 // hours east of UTC
	LocationIdentifier          string
	ComputationIdentifier       string
	ComputationPeriodIdentifier string
}

// IsDaily reports whether the series holds daily values.
func (d SeriesDescription) IsDaily() bool {
	return strings.EqualFold(d.ComputationPeriodIdentifier, dailyComputationPeriod) &&
		!strings.EqualFold(d.ComputationIdentifier, instantaneousComputation)
}

// Location returns the fixed zone for the series' UTC offset.
func (d SeriesDescription) Location() *time.Location {
	return ZoneForOffset(d.UTCOffset)
}

// ZoneForOffset builds a fixed zone from an offset in hours.
func ZoneForOffset(hours float64) *time.Location {
	return time.FixedZone(TimezoneName(hours), int(hours*3600))
}

// StatisticalTime is a point timestamp. DateTimeOffset is the nominal
// timepoint: adapters move end-of-period stamps back into their period.
type StatisticalTime struct {
	DateTimeOffset            time.Time
	RepresentsEndOfTimePeriod bool
}

// DisplayValue pairs a raw numeric value with its store-rounded display string.
// A nil Numeric marks a gap.
type DisplayValue struct {
	Display string
	Numeric *float64
}

// RawPoint is one sample of a RawSeriesPayload.
type RawPoint struct {
	Timestamp StatisticalTime
	Value     DisplayValue
}

// TimeRange is the period covered by a payload.
type TimeRange struct {
	StartTime StatisticalTime
	EndTime   StatisticalTime
}

// Qualifier flags a period of a series, e.g. "ESTIMATED".
type Qualifier struct {
	Identifier string    `json:"identifier"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	User       string    `json:"user,omitempty"`
}

// Approval is the approval level applied to a period of a series.
type Approval struct {
	ApprovalLevel    int       `json:"approvalLevel"`
	LevelDescription string    `json:"levelDescription"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
}

// GapTolerance is the configured tolerance for a period of a series.
type GapTolerance struct {
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	ToleranceInMinutes *float64  `json:"toleranceInMinutes,omitempty"`
}

// RawSeriesPayload is the retrieved data of one series. Nil slices and a nil
// TimeRange mean the store did not return that part.
type RawSeriesPayload struct {
	Unit          string
	Parameter     string
	TimeRange     *TimeRange
	Points        []RawPoint
	Qualifiers    []Qualifier
	Approvals     []Approval
	GapTolerances []GapTolerance
}

// SeriesQuery selects the data to retrieve for one series.
type SeriesQuery struct {
	Identifier    string
	Window        Window
	Location      *time.Location
	Daily         bool
	EndOfPeriod   bool
	CorrectedOnly bool
	Filter        string
}

// InstantRange is a closed interval of instants.
type InstantRange struct {
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// CorrectedSeries is the display-ready view of one optional series.
type CorrectedSeries struct {
	StartTime        *DisplayTime   `json:"startTime,omitempty"`
	EndTime          *DisplayTime   `json:"endTime,omitempty"`
	Unit             string         `json:"unit"`
	Type             string         `json:"type"`
	Points           []DisplayPoint `json:"points,omitempty"`
	EstimatedPeriods []InstantRange `json:"estimatedPeriods,omitempty"`
	Gaps             []DataGap      `json:"gaps,omitempty"`
	GapTolerances    []GapTolerance `json:"gapTolerances,omitempty"`
	Approvals        []Approval     `json:"approvals,omitempty"`
	VolumetricFlow   bool           `json:"isVolumetricFlow"`
}

// LocationDescription is the registry entry of a monitoring location.
type LocationDescription struct {
	Identifier string
	Name       string
	UniqueID   string
}

// QualifierMetadata describes a qualifier code.
type QualifierMetadata struct {
	Identifier  string `json:"identifier"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// VolumetricFlowUnitGroup is the unit group of flow parameters.
const VolumetricFlowUnitGroup = "Volumetric Flow"

// IsVolumetricFlow reports whether parameter belongs to the volumetric flow
// unit group in groups (parameter identifier -> unit group identifier).
func IsVolumetricFlow(groups map[string]string, parameter string) bool {
	if groups == nil || parameter == "" {
		return false
	}
	return groups[parameter] == VolumetricFlowUnitGroup
}
