package nwisra

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	minus5     = domain.ZoneForOffset(-5)
	testWindow = domain.Window{
		Start: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2018, 3, 31, 23, 59, 59, 999999999, time.UTC),
	}
)

func testClient(baseURL string) *Client {
	return NewClient(
		Config{BaseURL: baseURL, Timeout: 5 * time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
	)
}

func serveJSON(t *testing.T, path, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GroundwaterLevels(t *testing.T) {
	srv := serveJSON(t, "/gwlevels", `{"records": [
		{"siteNumber": "394829074053502", "date": "2018-02-14", "groundWaterLevel": "12.34", "parameterCode": "72019"},
		{"siteNumber": "394829074053502", "date": "2018-03-01T10:30:00-05:00", "groundWaterLevel": "12.50"},
		{"siteNumber": "394829074053502", "date": "sometime", "groundWaterLevel": "1"},
		{"siteNumber": "394829074053502", "date": "2018-03-02", "groundWaterLevel": "dry"}
	]}`, func(r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "394829074053502", q.Get("siteNumber"))
		assert.Equal(t, "72019", q.Get("parameterCode"))
		assert.Equal(t, "2018-01-01", q.Get("startDate"))
		assert.Equal(t, "2018-03-31", q.Get("endDate"))
	})

	param, ok := domain.LookupGroundwaterParameter("WaterLevel, BelowLSD")
	require.True(t, ok)

	got, err := testClient(srv.URL).GroundwaterLevels(context.Background(), testWindow, "394829074053502", param, minus5)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, time.Date(2018, 2, 14, 0, 0, 0, 0, minus5), got[0].Date)
	assert.Equal(t, "12.34", got[0].GroundWaterLevel.String())
	assert.Equal(t, "72019", got[0].ParameterCode)
	assert.Equal(t, "72019", got[1].ParameterCode, "missing code defaults to the requested parameter")
	assert.True(t, got[1].Date.Equal(time.Date(2018, 3, 1, 15, 30, 0, 0, time.UTC)))
}

func TestClient_WaterQualitySamples(t *testing.T) {
	srv := serveJSON(t, "/qwdata", `{"records": [
		{"recordNumber": "01800123", "sampleStartDateTime": "2018-02-14 09:15", "parameterCode": "00095", "resultValue": "412", "remarkCode": "E"}
	]}`, func(r *http.Request) {
		assert.Equal(t, "00095", r.URL.Query().Get("parameterCode"))
	})

	got, err := testClient(srv.URL).WaterQualitySamples(context.Background(), testWindow, "01646500", "00095", minus5)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "01800123", got[0].RecordNumber)
	assert.Equal(t, time.Date(2018, 2, 14, 9, 15, 0, 0, minus5), got[0].SampleStartDateTime)
	assert.Equal(t, "412", got[0].Value.String())
	assert.Equal(t, "E", got[0].RemarkCode)
}

func TestClient_AliasTables(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/parameters/aliases/name", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records": [{"alias": "Discharge-ish", "name": "Streamflow"}]}`))
	})
	mux.HandleFunc("/parameters/aliases/unit", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"records": [{"alias": "ft3/s", "name": "Streamflow", "code": "P001"}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := testClient(srv.URL)

	names, err := c.ParameterNameAliases(context.Background())
	require.NoError(t, err)
	units, err := c.ParameterUnitAliases(context.Background())
	require.NoError(t, err)

	code, ok := domain.ResolveParameterCode("Discharge-ish", "ft3/s", names, units)
	assert.True(t, ok)
	assert.Equal(t, "P001", code)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ParameterNameAliases(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestParseTime(t *testing.T) {
	got, err := parseTime("2018-02-14", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2018, 2, 14, 0, 0, 0, 0, time.UTC), got)

	_, err = parseTime("14/02/2018", minus5)
	assert.Error(t, err)
}
