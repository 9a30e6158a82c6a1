// Package domain models the DV hydrograph report: time-series payloads
// retrieved from an AQUARIUS-style time-series store, the corrected series
// views derived from them, and the discrete-data overlays (groundwater
// levels, field-visit discharge measurements, water-quality samples)
// attached to a report.
//
// # Time-Series Conventions
//
// Timestamps:
//
//	Every point carries an instant plus a "represents end of time period"
//	flag. Daily values (DVs) are stamped at 24:00 of the day they summarize,
//	which is 00:00 of the following day everywhere else. When a daily point
//	is flagged as end-of-period, its display date is the calendar date of the
//	instant one nanosecond earlier. Instantaneous points keep their instant.
//
//	A series is daily when its computation period identifier is "Daily"
//	(case-insensitive) and its computation identifier is not "Instantaneous".
//	Dates are always resolved in the series' fixed UTC offset, never in the
//	server's local zone.
//
// Values:
//
//	Points carry a numeric value and a display string already rounded by the
//	store. Display values are the display string parsed as an exact decimal;
//	when the display string is not numeric the numeric value is rounded to
//	[DisplayPrecision] places. Points without a numeric value are gap markers
//	and never become display points.
//
// Time zones:
//
//	UTC offsets are hours east of UTC. Report metadata names fixed-offset
//	zones the IANA "Etc" way, where the sign is inverted: -4h is "Etc/GMT+4".
//
// # Parameter Classification
//
//	The primary series' parameter picks the discrete overlay. Recognized
//	groundwater parameters (see [LookupGroundwaterParameter]) attach NWIS
//	groundwater levels; "Discharge" attaches field-visit measurements; any
//	other parameter attaches water-quality samples when its name and unit
//	resolve to an NWIS parameter code via [ResolveParameterCode].
package domain
