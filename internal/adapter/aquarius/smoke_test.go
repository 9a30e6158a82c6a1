//go:build aquarius

package aquarius

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit a real Publish API and require AQUARIUS_URL and AQUARIUS_TOKEN.
// Run with: go test -tags=aquarius ./internal/adapter/aquarius/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	baseURL := os.Getenv("AQUARIUS_URL")
	if baseURL == "" {
		t.Fatal("AQUARIUS_URL must be set to run smoke tests")
	}
	return NewClient(
		Config{BaseURL: baseURL, Token: os.Getenv("AQUARIUS_TOKEN"), Timeout: 30 * time.Second, RetryCount: 1},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NewMetricsForTesting(),
	)
}

func TestSmoke_Readiness(t *testing.T) {
	require.NoError(t, smokeClient(t).CheckReadiness(context.Background()))
}

func TestSmoke_ParameterUnitGroups(t *testing.T) {
	groups, err := smokeClient(t).ParameterUnitGroups(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Volumetric Flow", groups["Discharge"])
}

func TestSmoke_QualifierList(t *testing.T) {
	all, err := smokeClient(t).QualifierList(context.Background())
	require.NoError(t, err)
	assert.Contains(t, all, "ESTIMATED")
}
