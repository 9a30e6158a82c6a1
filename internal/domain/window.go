package domain

import (
	"errors"
	"fmt"
	"time"
)

// Window is the requested report period. End is inclusive.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Period is a requested range of calendar dates. Exactly one of the date
// pair, LastMonths or WaterYear is used, in that order of precedence.
type Period struct {
	StartDate  time.Time
	EndDate    time.Time
	LastMonths int
	WaterYear  int
}

var errNoPeriod = errors.New("one of startDate/endDate, lastMonths or waterYear is required")

// Dates resolves the period to its first and last calendar date.
func (p Period) Dates() (time.Time, time.Time, error) {
	switch {
	case !p.StartDate.IsZero() || !p.EndDate.IsZero():
		if p.StartDate.IsZero() || p.EndDate.IsZero() {
			return time.Time{}, time.Time{}, errors.New("startDate and endDate must be given together")
		}
		if p.EndDate.Before(p.StartDate) {
			return time.Time{}, time.Time{}, fmt.Errorf("endDate %s is before startDate %s",
				p.EndDate.Format(dateLayout), p.StartDate.Format(dateLayout))
		}
		return truncateDate(p.StartDate), truncateDate(p.EndDate), nil
	case p.LastMonths > 0:
		end := truncateDate(clock.Now().UTC())
		return end.AddDate(0, -p.LastMonths, 0), end, nil
	case p.WaterYear > 0:
		start := time.Date(p.WaterYear-1, time.October, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(p.WaterYear, time.September, 30, 0, 0, 0, 0, time.UTC)
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, errNoPeriod
	}
}

// Window converts the period to instants: the first date at 00:00 UTC and
// the last date at 23:59:59.999999999 UTC.
func (p Period) Window() (Window, error) {
	start, end, err := p.Dates()
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: endOfDay(end)}, nil
}

// FiveYearWindow ends on the last date of the period and starts at the end
// of the same date five years earlier.
func (p Period) FiveYearWindow() (Window, error) {
	_, end, err := p.Dates()
	if err != nil {
		return Window{}, err
	}
	return Window{Start: endOfDay(end.AddDate(-5, 0, 0)), End: endOfDay(end)}, nil
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 23, 59, 59, 999999999, time.UTC)
}
