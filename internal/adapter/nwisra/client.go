// Package nwisra reads discrete groundwater and water-quality data, and the
// AQUARIUS-to-NWIS parameter alias tables, from the NWIS-RA service.
package nwisra

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

const source = "nwisra"

const (
	dateLayout = "2006-01-02"
	localTime  = "2006-01-02 15:04" // no offset: local to the site
)

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Client is an NWIS-RA client.
type Client struct {
	http    *resty.Client
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewClient creates an NWIS-RA client.
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

	return &Client{http: http, logger: logger, metrics: metrics}
}

type gwLevelResponse struct {
	Records []gwLevelRecord `json:"records"`
}

type gwLevelRecord struct {
	SiteNumber       string `json:"siteNumber"`
	Date             string `json:"date"`
	GroundWaterLevel string `json:"groundWaterLevel"`
	ParameterCode    string `json:"parameterCode"`
}

type qwResponse struct {
	Records []qwRecord `json:"records"`
}

type qwRecord struct {
	RecordNumber        string `json:"recordNumber"`
	SampleStartDateTime string `json:"sampleStartDateTime"`
	ParameterCode       string `json:"parameterCode"`
	ResultValue         string `json:"resultValue"`
	RemarkCode          string `json:"remarkCode"`
}

type aliasResponse[T any] struct {
	Records []T `json:"records"`
}

// GroundwaterLevels returns the levels of parameter p measured at a site
// within the window. Records with an unreadable date or level are skipped.
func (c *Client) GroundwaterLevels(ctx context.Context, w domain.Window, siteID string, p domain.GroundwaterParameter, loc *time.Location) ([]domain.WaterLevelRecord, error) {
	var out gwLevelResponse
	params := windowParams(w, siteID)
	params.Set("parameterCode", p.Code)
	if err := c.get(ctx, "gwlevels", "/gwlevels", params, &out); err != nil {
		return nil, err
	}

	records := make([]domain.WaterLevelRecord, 0, len(out.Records))
	for _, r := range out.Records {
		date, err := parseTime(r.Date, loc)
		if err != nil {
			c.logger.Warn("skipping groundwater level with bad date", "site", siteID, "date", r.Date, "error", err)
			continue
		}
		level, err := decimal.NewFromString(strings.TrimSpace(r.GroundWaterLevel))
		if err != nil {
			c.logger.Warn("skipping groundwater level with bad value", "site", siteID, "value", r.GroundWaterLevel, "error", err)
			continue
		}
		code := r.ParameterCode
		if code == "" {
			code = p.Code
		}
		records = append(records, domain.WaterLevelRecord{
			SiteNumber:       r.SiteNumber,
			Date:             date,
			GroundWaterLevel: level,
			ParameterCode:    code,
		})
	}
	return records, nil
}

// WaterQualitySamples returns the samples of one NWIS parameter code taken
// at a site within the window.
func (c *Client) WaterQualitySamples(ctx context.Context, w domain.Window, siteID, parameterCode string, loc *time.Location) ([]domain.WaterQualitySample, error) {
	var out qwResponse
	params := windowParams(w, siteID)
	params.Set("parameterCode", parameterCode)
	if err := c.get(ctx, "qwdata", "/qwdata", params, &out); err != nil {
		return nil, err
	}

	samples := make([]domain.WaterQualitySample, 0, len(out.Records))
	for _, r := range out.Records {
		at, err := parseTime(r.SampleStartDateTime, loc)
		if err != nil {
			c.logger.Warn("skipping water quality sample with bad time", "site", siteID, "time", r.SampleStartDateTime, "error", err)
			continue
		}
		value, err := decimal.NewFromString(strings.TrimSpace(r.ResultValue))
		if err != nil {
			c.logger.Warn("skipping water quality sample with bad value", "site", siteID, "value", r.ResultValue, "error", err)
			continue
		}
		samples = append(samples, domain.WaterQualitySample{
			RecordNumber:        r.RecordNumber,
			SampleStartDateTime: at,
			ParameterCode:       r.ParameterCode,
			Value:               value,
			RemarkCode:          r.RemarkCode,
		})
	}
	return samples, nil
}

// ParameterNameAliases returns the AQUARIUS parameter name to NWIS name table.
func (c *Client) ParameterNameAliases(ctx context.Context) ([]domain.ParameterAlias, error) {
	var out aliasResponse[domain.ParameterAlias]
	if err := c.get(ctx, "name_aliases", "/parameters/aliases/name", nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// ParameterUnitAliases returns the (unit, NWIS name) to parameter code table.
func (c *Client) ParameterUnitAliases(ctx context.Context) ([]domain.UnitAlias, error) {
	var out aliasResponse[domain.UnitAlias]
	if err := c.get(ctx, "unit_aliases", "/parameters/aliases/unit", nil, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// windowParams queries by the calendar dates of the window.
func windowParams(w domain.Window, siteID string) url.Values {
	return url.Values{
		"siteNumber": {siteID},
		"startDate":  {w.Start.UTC().Format(dateLayout)},
		"endDate":    {w.End.UTC().Format(dateLayout)},
	}
}

// parseTime reads an RFC 3339 instant, or a date or local time in loc.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(localTime, s, loc); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateLayout, s, loc)
}

// get issues a GET and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, operation, path string, params url.Values, out any) error {
	start := time.Now()
	req := c.http.R().SetContext(ctx).SetResult(out)
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Get(path)
	c.metrics.UpstreamDuration.WithLabelValues(source, operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("nwisra %s: %w", operation, err)
	}
	if resp.IsError() {
		return fmt.Errorf("nwisra %s: status %d: %s", operation, resp.StatusCode(), resp.String())
	}
	return nil
}
