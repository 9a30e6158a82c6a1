package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/aqcu/dvhydrograph-report/internal/adapter/http"
	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type fakeBuilder struct {
	err   error
	calls int
	req   domain.ReportRequest
	user  string
	title string
}

func (f *fakeBuilder) BuildReport(_ context.Context, req domain.ReportRequest, user, title string) (domain.Report, error) {
	f.calls++
	f.req, f.user, f.title = req, user, title
	if f.err != nil {
		return domain.Report{}, f.err
	}
	return domain.Report{Metadata: domain.ReportMetadata{StationID: "01646500", RequestingUser: user, Title: title}}, nil
}

type fakePublisher struct {
	err        error
	reportType string
	published  []domain.Report
}

func (f *fakePublisher) Publish(_ context.Context, reportType string, r domain.Report) error {
	f.reportType = reportType
	f.published = append(f.published, r)
	return f.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(readyErr error) *httpadapter.Server {
	return httpadapter.NewServer(":0", &fakeBuilder{}, nil, &mockReadiness{err: readyErr}, quietLogger())
}

func get(srv http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(newTestServer(nil), "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	rec := get(newTestServer(nil), "/readyz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", decode(t, rec)["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	rec := get(newTestServer(fmt.Errorf("aquarius unreachable")), "/readyz", nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "aquarius unreachable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(newTestServer(nil), "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestDVHydrographReport(t *testing.T) {
	builder := &fakeBuilder{}
	publisher := &fakePublisher{}
	srv := httpadapter.NewServer(":0", builder, publisher, &mockReadiness{}, quietLogger())

	rec := get(srv, "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=primary-id"+
		"&firstStatDerivedIdentifier=stat-1&comparisonTimeseriesIdentifier=%20cmp%20"+
		"&startDate=2018-01-01&endDate=2018-03-31&excludeDiscrete=true",
		http.Header{"X-Remote-User": {"jdoe"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "DV Hydrograph", builder.title)
	assert.Equal(t, "jdoe", builder.user)
	assert.Equal(t, "primary-id", builder.req.PrimaryIdentifier)
	assert.Equal(t, "stat-1", builder.req.OptionalIdentifier(domain.FirstStatDerived))
	assert.Equal(t, "cmp", builder.req.OptionalIdentifier(domain.Comparison))
	assert.True(t, builder.req.ExcludeDiscrete)
	assert.False(t, builder.req.ExcludeMinMax)
	assert.Equal(t, time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC), builder.req.Window.Start)
	assert.Equal(t, time.Date(2018, 3, 31, 23, 59, 59, 999999999, time.UTC), builder.req.Window.End)

	metadata, ok := decode(t, rec)["reportMetadata"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "01646500", metadata["stationId"])

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "dvhydrograph", publisher.reportType)
}

func TestFiveYearReport(t *testing.T) {
	builder := &fakeBuilder{}
	srv := httpadapter.NewServer(":0", builder, nil, &mockReadiness{}, quietLogger())

	rec := get(srv, "/reports/fiveyeargwsum/rawData?primaryTimeseriesIdentifier=primary-id"+
		"&thirdStatDerivedIdentifier=stat-3&startDate=2018-01-01&endDate=2018-03-31", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Five Year GW Summary", builder.title)
	assert.Equal(t, "unknown", builder.user)
	assert.Equal(t, time.Date(2013, 3, 31, 23, 59, 59, 999999999, time.UTC), builder.req.Window.Start)
	assert.Equal(t, time.Date(2018, 3, 31, 23, 59, 59, 999999999, time.UTC), builder.req.Window.End)
}

func TestReportBadRequest(t *testing.T) {
	tests := map[string]string{
		"missing primary":             "/reports/dvhydrograph/rawData?startDate=2018-01-01&endDate=2018-03-31",
		"missing period":              "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p",
		"bad date":                    "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p&startDate=01/01/2018&endDate=2018-03-31",
		"end before start":            "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p&startDate=2018-03-31&endDate=2018-01-01",
		"bad flag":                    "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p&lastMonths=3&excludeMinMax=maybe",
		"bad lastMonths":              "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p&lastMonths=-2",
		"five year without stat":      "/reports/fiveyeargwsum/rawData?primaryTimeseriesIdentifier=p&waterYear=2018",
		"five year with only refs id": "/reports/fiveyeargwsum/rawData?primaryTimeseriesIdentifier=p&firstReferenceIdentifier=r&waterYear=2018",
	}

	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			builder := &fakeBuilder{}
			srv := httpadapter.NewServer(":0", builder, nil, &mockReadiness{}, quietLogger())

			rec := get(srv, target, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
			assert.Zero(t, builder.calls)
		})
	}
}

func TestReportBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"primary not found", fmt.Errorf("%w: p", report.ErrPrimaryNotFound), http.StatusNotFound},
		{"no primary data", fmt.Errorf("%w: p", report.ErrNoPrimaryData), http.StatusNotFound},
		{"upstream failure", errors.New("get parameter list: status 500"), http.StatusBadGateway},
		{"deadline", fmt.Errorf("get primary series data: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			publisher := &fakePublisher{}
			srv := httpadapter.NewServer(":0", &fakeBuilder{err: tt.err}, publisher, &mockReadiness{}, quietLogger())

			rec := get(srv, "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p&waterYear=2018", nil)

			assert.Equal(t, tt.want, rec.Code)
			assert.Empty(t, publisher.published)
		})
	}
}

func TestReportPublishFailureStillReturnsReport(t *testing.T) {
	publisher := &fakePublisher{err: errors.New("broker down")}
	srv := httpadapter.NewServer(":0", &fakeBuilder{}, publisher, &mockReadiness{}, quietLogger())

	rec := get(srv, "/reports/dvhydrograph/rawData?primaryTimeseriesIdentifier=p&waterYear=2018", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, publisher.published, 1)
}
