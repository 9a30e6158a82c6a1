package domain

import (
	"encoding/json"
	"math"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DisplayPrecision is the number of decimal places kept when a point has no
// numeric display string.
const DisplayPrecision = 3

const dateLayout = "2006-01-02"

// parallelThreshold is the point count above which projection fans out.
const parallelThreshold = 2048

// DisplayTime is either a calendar date (daily series) or an instant.
type DisplayTime struct {
	Time  time.Time
	Daily bool
}

// DateOf returns the date-only DisplayTime for y-m-d.
func DateOf(year int, month time.Month, day int) DisplayTime {
	return DisplayTime{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Daily: true}
}

// InstantOf returns an instant DisplayTime.
func InstantOf(t time.Time) DisplayTime {
	return DisplayTime{Time: t}
}

func (t DisplayTime) String() string {
	if t.Daily {
		return t.Time.Format(dateLayout)
	}
	return t.Time.UTC().Format(time.RFC3339Nano)
}

func (t DisplayTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DisplayTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if d, err := time.Parse(dateLayout, s); err == nil {
		*t = DisplayTime{Time: d, Daily: true}
		return nil
	}
	v, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = DisplayTime{Time: v}
	return nil
}

// ResolveTime applies the timestamp rule: the raw instant for instantaneous
// series, the calendar date in loc for daily series. The instant is taken as
// already adjusted to the nominal timepoint.
func ResolveTime(ts StatisticalTime, daily bool, loc *time.Location) DisplayTime {
	if !daily {
		return InstantOf(ts.DateTimeOffset)
	}
	if loc == nil {
		loc = time.UTC
	}
	local := ts.DateTimeOffset.In(loc)
	return DateOf(local.Year(), local.Month(), local.Day())
}

// Rounded returns the display value of v, and false when v has no numeric value.
func (v DisplayValue) Rounded() (decimal.Decimal, bool) {
	if v.Numeric == nil || math.IsNaN(*v.Numeric) || math.IsInf(*v.Numeric, 0) {
		return decimal.Decimal{}, false
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(v.Display)); err == nil {
		return d, true
	}
	return decimal.NewFromFloat(*v.Numeric).Round(DisplayPrecision), true
}

// DisplayPoint is one display-ready sample.
type DisplayPoint struct {
	Time  DisplayTime     `json:"time"`
	Value decimal.Decimal `json:"value"`
}

// ProjectPoints converts raw samples into display points, dropping samples
// without a numeric value. Output order follows input order.
func ProjectPoints(points []RawPoint, daily bool, loc *time.Location) []DisplayPoint {
	if len(points) < parallelThreshold {
		return projectChunk(points, daily, loc)
	}

	workers := runtime.GOMAXPROCS(0)
	size := (len(points) + workers - 1) / workers
	chunks := make([][]DisplayPoint, 0, workers)
	for start := 0; start < len(points); start += size {
		chunks = append(chunks, nil)
	}

	var wg sync.WaitGroup
	for i := range chunks {
		start := i * size
		end := min(start+size, len(points))
		wg.Add(1)
		go func() {
			defer wg.Done()
			chunks[i] = projectChunk(points[start:end], daily, loc)
		}()
	}
	wg.Wait()

	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	out := make([]DisplayPoint, 0, total)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func projectChunk(points []RawPoint, daily bool, loc *time.Location) []DisplayPoint {
	out := make([]DisplayPoint, 0, len(points))
	for _, p := range points {
		value, ok := p.Value.Rounded()
		if !ok {
			continue
		}
		out = append(out, DisplayPoint{
			Time:  ResolveTime(p.Timestamp, daily, loc),
			Value: value,
		})
	}
	return out
}
