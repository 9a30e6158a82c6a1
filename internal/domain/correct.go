package domain

import "time"

// EstimatedQualifier is the qualifier identifier marking estimated values.
const EstimatedQualifier = "ESTIMATED"

// GapDetector computes the data gaps of a series.
type GapDetector interface {
	BuildGapList(points []RawPoint, daily bool, loc *time.Location) []DataGap
}

// EstimatedPeriods returns the ranges of qualifiers marked ESTIMATED, in input order.
func EstimatedPeriods(qualifiers []Qualifier) []InstantRange {
	periods := make([]InstantRange, 0, len(qualifiers))
	for _, q := range qualifiers {
		if q.Identifier != EstimatedQualifier {
			continue
		}
		periods = append(periods, InstantRange{StartTime: q.StartTime, EndTime: q.EndTime})
	}
	return periods
}

// CorrectSeries builds the corrected view of a retrieved payload.
// A nil gaps detector skips gap detection.
func CorrectSeries(payload RawSeriesPayload, daily, volumetricFlow bool, loc *time.Location, gaps GapDetector) CorrectedSeries {
	out := CorrectedSeries{
		Unit:           payload.Unit,
		Type:           payload.Parameter,
		Approvals:      payload.Approvals,
		GapTolerances:  payload.GapTolerances,
		VolumetricFlow: volumetricFlow,
	}

	if payload.TimeRange != nil {
		start := ResolveTime(payload.TimeRange.StartTime, daily, loc)
		end := ResolveTime(payload.TimeRange.EndTime, daily, loc)
		out.StartTime = &start
		out.EndTime = &end
	}
	if payload.Points != nil {
		out.Points = ProjectPoints(payload.Points, daily, loc)
	}
	if payload.Qualifiers != nil {
		out.EstimatedPeriods = EstimatedPeriods(payload.Qualifiers)
	}
	if gaps != nil {
		if found := gaps.BuildGapList(payload.Points, daily, loc); len(found) > 0 {
			out.Gaps = found
		}
	}
	return out
}
