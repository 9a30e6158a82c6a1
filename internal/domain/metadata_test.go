package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimezoneName(t *testing.T) {
	tests := []struct {
		hours    float64
		expected string
	}{
		{-4, "Etc/GMT+4"},
		{0, "Etc/GMT"},
		{5, "Etc/GMT-5"},
		{-3.5, "UTC-03:30"},
		{5.75, "UTC+05:45"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimezoneName(tt.hours))
		})
	}
}

func TestZoneForOffset(t *testing.T) {
	loc := ZoneForOffset(-4)
	_, offset := time.Date(2018, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -4*3600, offset)
	assert.Equal(t, "Etc/GMT+4", loc.String())
}

func TestSiteURL(t *testing.T) {
	assert.Equal(t, "https://sims.example/site?site_no=01646500", SiteURL("https://sims.example/site", "01646500"))
	assert.Equal(t, "https://wd.example/?site_no=a+b", SiteURL("https://wd.example/", "a b"))
	assert.Empty(t, SiteURL("", "01646500"))
	assert.Empty(t, SiteURL("https://sims.example/site", ""))
}

func TestBuildMetadata(t *testing.T) {
	window := Window{
		Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2018, 3, 31, 23, 59, 59, 999999999, time.UTC),
	}
	req := ReportRequest{
		PrimaryIdentifier: "primary-uid",
		Window:            window,
		ExcludeMinMax:     true,
	}
	req.Optional[FirstStatDerived] = "  stat1-uid  "
	req.Optional[Comparison] = "missing-uid"

	in := MetadataInput{
		Request: req,
		Descriptions: map[string]SeriesDescription{
			"primary-uid": {Identifier: "Discharge.ft^3/s@01646500"},
			"stat1-uid":   {Identifier: "Discharge.ft^3/s.Mean@01646500"},
		},
		Primary:        SeriesDescription{Identifier: "Discharge.ft^3/s@01646500", UTCOffset: -5},
		Qualifiers:     map[string]QualifierMetadata{"ESTIMATED": {Identifier: "ESTIMATED", Code: "E", DisplayName: "Estimated"}},
		Location:       LocationDescription{Identifier: "01646500", Name: "POTOMAC RIVER NEAR WASH, DC"},
		Classification: ClassifyParameter("WaterLevel, BelowLSD"),
		RequestingUser: "jdoe",
		Title:          "DV Hydrograph",
		Links:          Links{SimsBaseURL: "https://sims.example/site"},
	}

	m := BuildMetadata(in)

	assert.Equal(t, "DV Hydrograph", m.Title)
	assert.Equal(t, "jdoe", m.RequestingUser)
	assert.Equal(t, window.Start, m.StartDate)
	assert.Equal(t, window.End, m.EndDate)
	assert.Equal(t, "Etc/GMT+5", m.Timezone)
	assert.Equal(t, "Discharge.ft^3/s@01646500", m.PrimarySeriesLabel)
	assert.Equal(t, "Discharge.ft^3/s.Mean@01646500", m.Label(FirstStatDerived))
	assert.Empty(t, m.Label(Comparison), "undescribed identifiers have no label")
	assert.Empty(t, m.Label(SecondReference))
	assert.Equal(t, "01646500", m.StationID)
	assert.Equal(t, "POTOMAC RIVER NEAR WASH, DC", m.StationName)
	assert.True(t, m.Inverted)
	assert.True(t, m.ExcludeMinMax)
	assert.False(t, m.ExcludeDiscrete)
	assert.Len(t, m.QualifierMetadata, 1)
	assert.Equal(t, "https://sims.example/site?site_no=01646500", m.SimsURL)
	assert.Empty(t, m.WaterdataURL)
}
