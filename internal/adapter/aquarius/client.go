package aquarius

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"github.com/go-resty/resty/v2"
)

// queryTimeLayout is the ISO 8601 form the Publish API accepts for QueryFrom/QueryTo.
const queryTimeLayout = "2006-01-02T15:04:05.0000000Z07:00"

const source = "aquarius"

// ErrLocationNotFound is returned when the location registry has no entry
// for an identifier.
var ErrLocationNotFound = errors.New("location not found")

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// Client reads time series, field visits and reference lists from the
// AQUARIUS Publish API.
type Client struct {
	http    *resty.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates a Publish API client.
func NewClient(cfg Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		http.SetHeader("X-Authentication-Token", cfg.Token)
	}

	return &Client{http: http, logger: logger, metrics: metrics}
}

// CheckReadiness reports whether the Publish API answers.
func (c *Client) CheckReadiness(ctx context.Context) error {
	return c.get(ctx, "version", "/version", nil, nil)
}

// SeriesDescriptions looks up descriptions by unique id, keyed by unique id.
func (c *Client) SeriesDescriptions(ctx context.Context, ids []string) (map[string]domain.SeriesDescription, error) {
	var out timeSeriesDescriptionList
	params := url.Values{"TimeSeriesUniqueIds": {strings.Join(ids, ",")}}
	if err := c.get(ctx, "descriptions", "/GetTimeSeriesDescriptionListByUniqueId", params, &out); err != nil {
		return nil, err
	}

	descriptions := make(map[string]domain.SeriesDescription, len(out.TimeSeriesDescriptions))
	for _, d := range out.TimeSeriesDescriptions {
		descriptions[d.UniqueID] = d.toDomain()
	}
	return descriptions, nil
}

// ParameterUnitGroups maps every parameter identifier to its unit group.
func (c *Client) ParameterUnitGroups(ctx context.Context) (map[string]string, error) {
	var out parameterList
	if err := c.get(ctx, "parameters", "/GetParameterList", nil, &out); err != nil {
		return nil, err
	}

	groups := make(map[string]string, len(out.Parameters))
	for _, p := range out.Parameters {
		groups[p.Identifier] = p.UnitGroupIdentifier
	}
	return groups, nil
}

// SeriesData retrieves corrected or raw points of one series. A 404 from
// the store yields a nil payload.
func (c *Client) SeriesData(ctx context.Context, q domain.SeriesQuery) (*domain.RawSeriesPayload, error) {
	path, operation := "/GetTimeSeriesCorrectedData", "corrected_data"
	if !q.CorrectedOnly {
		path, operation = "/GetTimeSeriesRawData", "raw_data"
	}

	from, to := queryRange(q.Window, q.Location, q.Daily, q.EndOfPeriod)
	params := url.Values{
		"TimeSeriesUniqueId": {q.Identifier},
		"QueryFrom":          {from.Format(queryTimeLayout)},
		"QueryTo":            {to.Format(queryTimeLayout)},
		"ApplyRounding":      {"true"},
		"IncludeGapMarkers":  {"true"},
	}
	if q.Filter != "" {
		params.Set("GetParts", q.Filter)
	}

	var out timeSeriesData
	err := c.get(ctx, operation, path, params, &out)
	var status *statusError
	if errors.As(err, &status) && status.code == 404 {
		c.logger.Debug("time series not found", "identifier", q.Identifier)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

// queryRange converts a report window to store query bounds in loc. Daily
// values are stamped at the end of their day, so a daily query runs to
// midnight after the last date; so does an end-of-period query.
func queryRange(w domain.Window, loc *time.Location, daily, endOfPeriod bool) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	start, end := w.Start.UTC(), w.End.UTC()
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	if daily || endOfPeriod {
		return from, time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, loc)
	}
	return from, time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999999999, loc)
}

// QualifierList returns every qualifier known to the store, keyed by identifier.
func (c *Client) QualifierList(ctx context.Context) (map[string]domain.QualifierMetadata, error) {
	var out qualifierList
	if err := c.get(ctx, "qualifiers", "/GetQualifierList", nil, &out); err != nil {
		return nil, err
	}

	all := make(map[string]domain.QualifierMetadata, len(out.Qualifiers))
	for _, q := range out.Qualifiers {
		all[q.Identifier] = domain.QualifierMetadata(q)
	}
	return all, nil
}

// QualifierMetadata resolves the qualifiers applied to a series.
func (c *Client) QualifierMetadata(ctx context.Context, qualifiers []domain.Qualifier) (map[string]domain.QualifierMetadata, error) {
	all, err := c.QualifierList(ctx)
	if err != nil {
		return nil, err
	}
	return selectQualifiers(all, qualifiers), nil
}

// selectQualifiers picks the metadata of the qualifiers applied. Unknown
// identifiers are skipped.
func selectQualifiers(all map[string]domain.QualifierMetadata, applied []domain.Qualifier) map[string]domain.QualifierMetadata {
	out := make(map[string]domain.QualifierMetadata)
	for _, q := range applied {
		if m, ok := all[q.Identifier]; ok {
			out[q.Identifier] = m
		}
	}
	return out
}

// LocationByIdentifier looks up a location by its identifier.
func (c *Client) LocationByIdentifier(ctx context.Context, id string) (domain.LocationDescription, error) {
	var out locationDescriptionList
	params := url.Values{"LocationIdentifier": {id}}
	if err := c.get(ctx, "locations", "/GetLocationDescriptionList", params, &out); err != nil {
		return domain.LocationDescription{}, err
	}
	if len(out.LocationDescriptions) == 0 {
		return domain.LocationDescription{}, fmt.Errorf("%w: %s", ErrLocationNotFound, id)
	}

	l := out.LocationDescriptions[0]
	return domain.LocationDescription{Identifier: l.Identifier, Name: l.Name, UniqueID: l.UniqueID}, nil
}

// FieldVisitDescriptions lists the visits to a location within the window.
func (c *Client) FieldVisitDescriptions(ctx context.Context, locationID string, loc *time.Location, w domain.Window) ([]domain.FieldVisitDescription, error) {
	from, to := queryRange(w, loc, false, false)
	params := url.Values{
		"LocationIdentifier": {locationID},
		"QueryFrom":          {from.Format(queryTimeLayout)},
		"QueryTo":            {to.Format(queryTimeLayout)},
	}

	var out fieldVisitDescriptionList
	if err := c.get(ctx, "field_visits", "/GetFieldVisitDescriptionList", params, &out); err != nil {
		return nil, err
	}

	visits := make([]domain.FieldVisitDescription, len(out.FieldVisitDescriptions))
	for i, v := range out.FieldVisitDescriptions {
		visits[i] = domain.FieldVisitDescription(v)
	}
	return visits, nil
}

// FieldVisitData retrieves the discharge activities of one visit.
func (c *Client) FieldVisitData(ctx context.Context, visitID string) (domain.FieldVisitData, error) {
	params := url.Values{
		"FieldVisitIdentifier": {visitID},
		"Activities":           {"Discharge"},
	}

	var out fieldVisitData
	if err := c.get(ctx, "field_visit_data", "/GetFieldVisitData", params, &out); err != nil {
		return domain.FieldVisitData{}, err
	}
	return out.toDomain(), nil
}

type statusError struct {
	operation string
	code      int
	body      string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("aquarius %s: status %d: %s", e.operation, e.code, e.body)
}

// get issues a GET and decodes the JSON body into out, which may be nil.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	start := time.Now()
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Get(path)
	c.metrics.UpstreamDuration.WithLabelValues(source, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("aquarius %s: %w", operation, err)
	}
	if resp.IsError() {
		return &statusError{operation: operation, code: resp.StatusCode(), body: resp.String()}
	}
	return nil
}
