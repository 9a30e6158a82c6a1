package domain

import (
	"fmt"
	"math"
	"net/url"
)

// Links holds the base URLs of the external site pages linked from a report.
type Links struct {
	SimsBaseURL      string
	WaterdataBaseURL string
}

// MetadataInput gathers everything BuildMetadata reads.
type MetadataInput struct {
	Request        ReportRequest
	Descriptions   map[string]SeriesDescription
	Primary        SeriesDescription
	Qualifiers     map[string]QualifierMetadata
	Location       LocationDescription
	Classification Classification
	RequestingUser string
	Title          string
	Links          Links
}

// BuildMetadata assembles the report header. Start and end come from the
// request window, not from the retrieved data, so the renderer's headings
// match what was asked for.
func BuildMetadata(in MetadataInput) ReportMetadata {
	m := ReportMetadata{
		Title:               in.Title,
		RequestingUser:      in.RequestingUser,
		StartDate:           in.Request.Window.Start.UTC(),
		EndDate:             in.Request.Window.End.UTC(),
		Timezone:            TimezoneName(in.Primary.UTCOffset),
		PrimarySeriesLabel:  in.Primary.Identifier,
		QualifierMetadata:   in.Qualifiers,
		StationName:         in.Location.Name,
		StationID:           in.Location.Identifier,
		Inverted:            in.Classification.Inverted(),
		ExcludeDiscrete:     in.Request.ExcludeDiscrete,
		ExcludeMinMax:       in.Request.ExcludeMinMax,
		ExcludeZeroNegative: in.Request.ExcludeZeroNegative,
	}

	for _, slot := range SeriesSlots {
		id := in.Request.OptionalIdentifier(slot)
		if id == "" {
			continue
		}
		if desc, ok := in.Descriptions[id]; ok {
			m.setLabel(slot, desc.Identifier)
		}
	}

	m.SimsURL = SiteURL(in.Links.SimsBaseURL, m.StationID)
	m.WaterdataURL = SiteURL(in.Links.WaterdataBaseURL, m.StationID)
	return m
}

// TimezoneName names the fixed zone of an offset in hours. Whole-hour
// offsets use the IANA Etc names, whose sign is inverted.
func TimezoneName(hours float64) string {
	if hours == 0 {
		return "Etc/GMT"
	}
	if hours == math.Trunc(hours) {
		if hours < 0 {
			return fmt.Sprintf("Etc/GMT+%d", int(-hours))
		}
		return fmt.Sprintf("Etc/GMT-%d", int(hours))
	}

	sign := "+"
	if hours < 0 {
		sign = "-"
	}
	minutes := int(math.Round(math.Abs(hours) * 60))
	return fmt.Sprintf("UTC%s%02d:%02d", sign, minutes/60, minutes%60)
}

// SiteURL links a station page, or returns "" when either part is missing.
func SiteURL(base, stationID string) string {
	if base == "" || stationID == "" {
		return ""
	}
	return base + "?site_no=" + url.QueryEscape(stationID)
}
