package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
)

const dateLayout = "2006-01-02"

// slotParams maps each optional slot to its query parameter.
var slotParams = map[domain.SeriesSlot]string{
	domain.FirstStatDerived:  "firstStatDerivedIdentifier",
	domain.SecondStatDerived: "secondStatDerivedIdentifier",
	domain.ThirdStatDerived:  "thirdStatDerivedIdentifier",
	domain.FourthStatDerived: "fourthStatDerivedIdentifier",
	domain.FirstReference:    "firstReferenceIdentifier",
	domain.SecondReference:   "secondReferenceIdentifier",
	domain.ThirdReference:    "thirdReferenceIdentifier",
	domain.Comparison:        "comparisonTimeseriesIdentifier",
}

var statDerivedSlots = []domain.SeriesSlot{
	domain.FirstStatDerived, domain.SecondStatDerived, domain.ThirdStatDerived, domain.FourthStatDerived,
}

// requestError is a client error in the query string.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// parseRequest validates a report query. The five-year variant requires a
// stat-derived identifier and widens the window to five years.
func parseRequest(q url.Values, fiveYear bool) (domain.ReportRequest, error) {
	var req domain.ReportRequest

	req.PrimaryIdentifier = strings.TrimSpace(q.Get("primaryTimeseriesIdentifier"))
	if req.PrimaryIdentifier == "" {
		return req, badRequest("primaryTimeseriesIdentifier is required")
	}
	for slot, param := range slotParams {
		req.Optional[slot] = strings.TrimSpace(q.Get(param))
	}
	if fiveYear && !hasStatDerived(req) {
		return req, badRequest("at least one stat derived identifier is required")
	}

	period, err := parsePeriod(q)
	if err != nil {
		return req, err
	}
	if fiveYear {
		req.Window, err = period.FiveYearWindow()
	} else {
		req.Window, err = period.Window()
	}
	if err != nil {
		return req, badRequest("%s", err)
	}

	for param, dst := range map[string]*bool{
		"excludeDiscrete":     &req.ExcludeDiscrete,
		"excludeMinMax":       &req.ExcludeMinMax,
		"excludeZeroNegative": &req.ExcludeZeroNegative,
	} {
		if *dst, err = parseFlag(q, param); err != nil {
			return req, err
		}
	}
	return req, nil
}

func hasStatDerived(req domain.ReportRequest) bool {
	for _, slot := range statDerivedSlots {
		if req.OptionalIdentifier(slot) != "" {
			return true
		}
	}
	return false
}

func parsePeriod(q url.Values) (domain.Period, error) {
	var p domain.Period
	var err error
	if p.StartDate, err = parseDate(q, "startDate"); err != nil {
		return p, err
	}
	if p.EndDate, err = parseDate(q, "endDate"); err != nil {
		return p, err
	}
	if p.LastMonths, err = parsePositive(q, "lastMonths"); err != nil {
		return p, err
	}
	if p.WaterYear, err = parsePositive(q, "waterYear"); err != nil {
		return p, err
	}
	return p, nil
}

func parseDate(q url.Values, param string) (time.Time, error) {
	s := q.Get(param)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, badRequest("%s must be a date in YYYY-MM-DD form", param)
	}
	return t, nil
}

func parsePositive(q url.Values, param string) (int, error) {
	s := q.Get(param)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, badRequest("%s must be a positive integer", param)
	}
	return n, nil
}

func parseFlag(q url.Values, param string) (bool, error) {
	s := q.Get(param)
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, badRequest("%s must be true or false", param)
	}
	return v, nil
}

func isRequestError(err error) bool {
	var re *requestError
	return errors.As(err, &re)
}
