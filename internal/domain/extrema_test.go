package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryPoints(now time.Time) []RawPoint {
	return []RawPoint{
		rawPoint(now.AddDate(0, 0, -6), false, "654.321", numeric(123.456)),
		rawPoint(now.AddDate(0, 0, -2), false, "321.987", numeric(789.123)),
		rawPoint(now, false, "987.654", numeric(456.789)),
		rawPoint(now.AddDate(0, 0, -4), false, "321.987", numeric(789.123)),
		rawPoint(now.AddDate(0, 0, -5), false, "321.987", numeric(789.123)),
		rawPoint(now.AddDate(0, 0, -12), false, "EMPTY", nil),
	}
}

func TestExtractExtrema(t *testing.T) {
	now := time.Date(2018, 3, 17, 10, 0, 0, 0, time.UTC)
	e := ExtractExtrema(primaryPoints(now))

	require.NotNil(t, e.Min)
	require.NotNil(t, e.Max)
	assert.Equal(t, "321.987", e.Min.String())
	assert.Equal(t, "987.654", e.Max.String())

	minPoints := e.MinPoints()
	require.Len(t, minPoints, 3)
	assert.Equal(t, now.AddDate(0, 0, -2), minPoints[0].Time)
	assert.Equal(t, now.AddDate(0, 0, -4), minPoints[1].Time)
	assert.Equal(t, now.AddDate(0, 0, -5), minPoints[2].Time)

	maxPoints := e.MaxPoints()
	require.Len(t, maxPoints, 1)
	assert.Equal(t, now, maxPoints[0].Time)
	assert.Len(t, e.Points, 2)
}

func TestExtractExtrema_Empty(t *testing.T) {
	for name, points := range map[string][]RawPoint{
		"nil":         nil,
		"all gaps":    {rawPoint(time.Now(), false, "EMPTY", nil)},
		"zero-length": {},
	} {
		t.Run(name, func(t *testing.T) {
			e := ExtractExtrema(points)
			assert.Nil(t, e.Min)
			assert.Nil(t, e.Max)
			assert.Empty(t, e.Points)
			assert.Empty(t, e.MinPoints())
			assert.Empty(t, e.MaxPoints())
		})
	}
}

func TestExtractExtrema_SingleValue(t *testing.T) {
	now := time.Date(2018, 3, 17, 10, 0, 0, 0, time.UTC)
	e := ExtractExtrema([]RawPoint{
		rawPoint(now, false, "1.50", numeric(1.5)),
		rawPoint(now.Add(time.Hour), false, "1.5", numeric(1.5)),
	})

	require.NotNil(t, e.Min)
	assert.True(t, e.Min.Equal(*e.Max))
	assert.Len(t, e.MinPoints(), 2, "equal min and max share one group")
}

func TestExtractExtrema_Bounds(t *testing.T) {
	now := time.Date(2018, 3, 17, 10, 0, 0, 0, time.UTC)
	points := primaryPoints(now)
	e := ExtractExtrema(points)

	for _, p := range points {
		v, ok := p.Value.Rounded()
		if !ok {
			continue
		}
		assert.True(t, e.Min.LessThanOrEqual(v))
		assert.True(t, e.Max.GreaterThanOrEqual(v))
	}
}

func TestExtractExtrema_TiesKeepInputOrder(t *testing.T) {
	t1 := time.Date(2018, 3, 16, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	e := ExtractExtrema([]RawPoint{
		rawPoint(t2, false, "5", numeric(5)),
		rawPoint(t1, false, "5", numeric(5)),
		rawPoint(t1, false, "1", numeric(1)),
	})

	maxPoints := e.MaxPoints()
	require.Len(t, maxPoints, 2)
	assert.Equal(t, t2, maxPoints[0].Time)
	assert.Equal(t, t1, maxPoints[1].Time)
	require.Len(t, e.MinPoints(), 1)
}
