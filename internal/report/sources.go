package report

import (
	"context"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
)

// DescriptionSource looks up series descriptions by unique identifier.
// Identifiers without a description are absent from the result.
type DescriptionSource interface {
	SeriesDescriptions(ctx context.Context, ids []string) (map[string]domain.SeriesDescription, error)
}

// ParameterSource returns the unit group of every parameter, keyed by parameter identifier.
type ParameterSource interface {
	ParameterUnitGroups(ctx context.Context) (map[string]string, error)
}

// SeriesSource retrieves the data of one series. A nil payload with a nil
// error means the store returned nothing.
type SeriesSource interface {
	SeriesData(ctx context.Context, q domain.SeriesQuery) (*domain.RawSeriesPayload, error)
}

// QualifierSource resolves qualifier codes to their descriptions.
type QualifierSource interface {
	QualifierMetadata(ctx context.Context, qualifiers []domain.Qualifier) (map[string]domain.QualifierMetadata, error)
}

// LocationSource looks up a monitoring location.
type LocationSource interface {
	LocationByIdentifier(ctx context.Context, id string) (domain.LocationDescription, error)
}

// FieldVisitSource lists field visits and retrieves their measurements.
type FieldVisitSource interface {
	FieldVisitDescriptions(ctx context.Context, locationID string, loc *time.Location, w domain.Window) ([]domain.FieldVisitDescription, error)
	FieldVisitData(ctx context.Context, visitID string) (domain.FieldVisitData, error)
}

// DiscreteSource retrieves NWIS discrete data and the alias tables used to
// resolve parameter codes.
type DiscreteSource interface {
	GroundwaterLevels(ctx context.Context, w domain.Window, siteID string, p domain.GroundwaterParameter, loc *time.Location) ([]domain.WaterLevelRecord, error)
	WaterQualitySamples(ctx context.Context, w domain.Window, siteID, parameterCode string, loc *time.Location) ([]domain.WaterQualitySample, error)
	ParameterNameAliases(ctx context.Context) ([]domain.ParameterAlias, error)
	ParameterUnitAliases(ctx context.Context) ([]domain.UnitAlias, error)
}

// Sources bundles the collaborators a Builder reads from.
type Sources struct {
	Descriptions DescriptionSource
	Parameters   ParameterSource
	Series       SeriesSource
	Gaps         domain.GapDetector
	Qualifiers   QualifierSource
	Locations    LocationSource
	FieldVisits  FieldVisitSource
	Discrete     DiscreteSource
}
