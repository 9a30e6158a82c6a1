package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GapExtent describes where a gap sits relative to the retrieved points.
type GapExtent string

const (
	GapContained GapExtent = "CONTAINED"
	GapOverStart GapExtent = "OVER_START"
	GapOverEnd   GapExtent = "OVER_END"
	GapOverAll   GapExtent = "OVER_ALL"
)

// DataGap is a run of points without numeric values. StartTime is the last
// valued point before the run and EndTime the first valued point after it;
// either is nil when the run touches the edge of the retrieved data.
type DataGap struct {
	StartTime       *DisplayTime     `json:"startTime,omitempty"`
	EndTime         *DisplayTime     `json:"endTime,omitempty"`
	DurationInHours *decimal.Decimal `json:"durationInHours,omitempty"`
	GapExtent       GapExtent        `json:"gapExtent"`
}

// GapListBuilder is the default gap detector.
type GapListBuilder struct{}

// BuildGapList returns the gaps of points in input order.
func (GapListBuilder) BuildGapList(points []RawPoint, daily bool, loc *time.Location) []DataGap {
	var (
		gaps      []DataGap
		lastValid *StatisticalTime
		inGap     bool
		gapStart  *StatisticalTime
	)

	for i := range points {
		p := points[i]
		if _, ok := p.Value.Rounded(); !ok {
			if !inGap {
				inGap = true
				gapStart = lastValid
			}
			continue
		}
		if inGap {
			extent := GapContained
			if gapStart == nil {
				extent = GapOverStart
			}
			gaps = append(gaps, newDataGap(gapStart, &p.Timestamp, extent, daily, loc))
			inGap = false
		}
		lastValid = &points[i].Timestamp
	}

	if inGap {
		extent := GapOverEnd
		if gapStart == nil {
			extent = GapOverAll
		}
		gaps = append(gaps, newDataGap(gapStart, nil, extent, daily, loc))
	}
	return gaps
}

func newDataGap(start, end *StatisticalTime, extent GapExtent, daily bool, loc *time.Location) DataGap {
	gap := DataGap{GapExtent: extent}
	if start != nil {
		t := ResolveTime(*start, daily, loc)
		gap.StartTime = &t
	}
	if end != nil {
		t := ResolveTime(*end, daily, loc)
		gap.EndTime = &t
	}
	if start != nil && end != nil {
		hours := decimal.NewFromFloat(end.DateTimeOffset.Sub(start.DateTimeOffset).Hours()).Round(2)
		gap.DurationInHours = &hours
	}
	return gap
}
