package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPrimaryNotFound is returned when the primary identifier has no series description.
	ErrPrimaryNotFound = errors.New("primary time series not found")
	// ErrNoPrimaryData is returned when the store returns nothing for the primary series.
	ErrNoPrimaryData = errors.New("no data for primary time series")
)

// visitFetchLimit bounds concurrent field visit data requests per report.
const visitFetchLimit = 4

// Builder assembles DV hydrograph reports from its collaborators. A Builder
// holds no request state and is safe for concurrent use.
type Builder struct {
	src     Sources
	links   domain.Links
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Builder reading from src.
func New(src Sources, links domain.Links, logger *slog.Logger, metrics *observability.Metrics) *Builder {
	return &Builder{
		src:     src,
		links:   links,
		logger:  logger,
		metrics: metrics,
	}
}

// BuildReport builds the report for req. It fails when the primary series
// cannot be described or retrieved, or when the discrete overlay cannot be
// retrieved; optional series that cannot be built are left out.
func (b *Builder) BuildReport(ctx context.Context, req domain.ReportRequest, requestingUser, title string) (domain.Report, error) {
	start := time.Now()
	b.metrics.BuildsInFlight.Inc()
	defer b.metrics.BuildsInFlight.Dec()

	report, err := b.build(ctx, req, requestingUser, title)
	b.metrics.ReportBuilds.WithLabelValues(buildOutcome(err)).Inc()
	if err != nil {
		return domain.Report{}, err
	}

	b.metrics.ReportBuildDuration.Observe(time.Since(start).Seconds())
	b.metrics.DiscreteBranch.WithLabelValues(string(domain.KindOf(report.Discrete))).Inc()
	b.logger.Info("report built",
		"primary", req.PrimaryIdentifier,
		"station", report.Metadata.StationID,
		"discrete", domain.KindOf(report.Discrete),
		"duration", time.Since(start),
	)
	return report, nil
}

func (b *Builder) build(ctx context.Context, req domain.ReportRequest, requestingUser, title string) (domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	b.logger.Debug("get time series descriptions", "count", len(req.Identifiers()))
	descriptions, err := b.src.Descriptions.SeriesDescriptions(ctx, req.Identifiers())
	if err != nil {
		return domain.Report{}, fmt.Errorf("get series descriptions: %w", err)
	}

	b.logger.Debug("get parameter unit groups")
	unitGroups, err := b.src.Parameters.ParameterUnitGroups(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("get parameter list: %w", err)
	}

	b.logger.Debug("get primary time series description")
	primary, ok := descriptions[req.PrimaryIdentifier]
	if !ok {
		return domain.Report{}, fmt.Errorf("%w: %s", ErrPrimaryNotFound, req.PrimaryIdentifier)
	}
	loc := primary.Location()
	classification := domain.ClassifyParameter(primary.Parameter)

	b.logger.Debug("get primary time series data", "daily", primary.IsDaily(), "parameter", primary.Parameter)
	payload, err := b.src.Series.SeriesData(ctx, domain.SeriesQuery{
		Identifier:    req.PrimaryIdentifier,
		Window:        req.Window,
		Location:      loc,
		Daily:         primary.IsDaily(),
		CorrectedOnly: true,
	})
	if err != nil {
		return domain.Report{}, fmt.Errorf("get primary series data: %w", err)
	}
	if payload == nil {
		return domain.Report{}, fmt.Errorf("%w: %s", ErrNoPrimaryData, req.PrimaryIdentifier)
	}

	b.logger.Debug("set report metadata")
	metadata, err := b.metadata(ctx, req, descriptions, primary, payload, classification, requestingUser, title)
	if err != nil {
		return domain.Report{}, err
	}

	var extrema *domain.Extrema
	if payload.Points != nil {
		b.logger.Debug("compute primary series extrema", "points", len(payload.Points))
		e := domain.ExtractExtrema(payload.Points)
		extrema = &e
	}

	// Each unit of work writes only its own result; results are merged into
	// the report after Wait.
	var (
		series   [8]*domain.CorrectedSeries
		discrete domain.Discrete
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, slot := range domain.SeriesSlots {
		id := req.OptionalIdentifier(slot)
		if id == "" {
			continue
		}
		g.Go(func() error {
			series[slot] = b.optionalSeries(gctx, slot, id, req.Window, descriptions, unitGroups)
			return nil
		})
	}
	g.Go(func() error {
		d, err := b.discrete(gctx, req, primary, classification, metadata.StationID, loc)
		if err != nil {
			return err
		}
		discrete = d
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.Report{}, err
	}

	return domain.Report{
		Metadata:                metadata,
		PrimarySeriesQualifiers: payload.Qualifiers,
		PrimarySeriesApprovals:  payload.Approvals,
		MaxMinData:              extrema,
		Series:                  series,
		Discrete:                discrete,
	}, nil
}

func (b *Builder) metadata(
	ctx context.Context,
	req domain.ReportRequest,
	descriptions map[string]domain.SeriesDescription,
	primary domain.SeriesDescription,
	payload *domain.RawSeriesPayload,
	classification domain.Classification,
	requestingUser, title string,
) (domain.ReportMetadata, error) {
	qualifiers, err := b.src.Qualifiers.QualifierMetadata(ctx, payload.Qualifiers)
	if err != nil {
		return domain.ReportMetadata{}, fmt.Errorf("get qualifier metadata: %w", err)
	}
	location, err := b.src.Locations.LocationByIdentifier(ctx, primary.LocationIdentifier)
	if err != nil {
		return domain.ReportMetadata{}, fmt.Errorf("get location %s: %w", primary.LocationIdentifier, err)
	}

	return domain.BuildMetadata(domain.MetadataInput{
		Request:        req,
		Descriptions:   descriptions,
		Primary:        primary,
		Qualifiers:     qualifiers,
		Location:       location,
		Classification: classification,
		RequestingUser: requestingUser,
		Title:          title,
		Links:          b.links,
	}), nil
}

// optionalSeries builds one optional slot, or returns nil when the slot
// cannot be built.
func (b *Builder) optionalSeries(
	ctx context.Context,
	slot domain.SeriesSlot,
	id string,
	window domain.Window,
	descriptions map[string]domain.SeriesDescription,
	unitGroups map[string]string,
) *domain.CorrectedSeries {
	desc, ok := descriptions[id]
	if !ok {
		b.logger.Debug("optional series not described, skipping", "slot", slot.String(), "identifier", id)
		b.metrics.OptionalSeries.WithLabelValues(slot.String(), "absent").Inc()
		return nil
	}

	b.logger.Debug("set optional series data", "slot", slot.String(), "identifier", id)
	daily := desc.IsDaily()
	loc := desc.Location()
	payload, err := b.src.Series.SeriesData(ctx, domain.SeriesQuery{
		Identifier:    id,
		Window:        window,
		Location:      loc,
		Daily:         daily,
		CorrectedOnly: true,
	})
	if err != nil {
		if ctx.Err() == nil {
			b.logger.Warn("optional series fetch failed, skipping", "slot", slot.String(), "identifier", id, "error", err)
		}
		b.metrics.OptionalSeries.WithLabelValues(slot.String(), "error").Inc()
		return nil
	}
	if payload == nil {
		b.metrics.OptionalSeries.WithLabelValues(slot.String(), "absent").Inc()
		return nil
	}

	corrected := domain.CorrectSeries(*payload, daily, domain.IsVolumetricFlow(unitGroups, payload.Parameter), loc, b.src.Gaps)
	b.metrics.OptionalSeries.WithLabelValues(slot.String(), "present").Inc()
	return &corrected
}

// discrete attaches the overlay picked by the primary parameter. Field visit
// measurements are attached even when discrete data is excluded.
func (b *Builder) discrete(
	ctx context.Context,
	req domain.ReportRequest,
	primary domain.SeriesDescription,
	classification domain.Classification,
	stationID string,
	loc *time.Location,
) (domain.Discrete, error) {
	switch classification.Kind {
	case domain.ParameterGroundwater:
		if req.ExcludeDiscrete {
			return nil, nil
		}
		b.logger.Debug("set groundwater levels", "station", stationID, "parameter", classification.Groundwater.Code)
		records, err := b.src.Discrete.GroundwaterLevels(ctx, req.Window, stationID, classification.Groundwater, loc)
		if err != nil {
			return nil, fmt.Errorf("get groundwater levels: %w", err)
		}
		return domain.GroundwaterLevels(records), nil

	case domain.ParameterDischarge:
		b.logger.Debug("set field visit measurements", "station", stationID)
		measurements, err := b.fieldVisitMeasurements(ctx, req.Window, stationID, loc)
		if err != nil {
			return nil, err
		}
		return domain.FieldVisitMeasurements(measurements), nil

	default:
		if req.ExcludeDiscrete {
			return nil, nil
		}
		code, ok, err := b.parameterCode(ctx, primary.Parameter, primary.Unit)
		if err != nil {
			return nil, err
		}
		if !ok {
			b.logger.Debug("no NWIS parameter code, skipping water quality", "parameter", primary.Parameter, "unit", primary.Unit)
			return nil, nil
		}
		b.logger.Debug("set water quality samples", "station", stationID, "parameter_code", code)
		samples, err := b.src.Discrete.WaterQualitySamples(ctx, req.Window, stationID, code, loc)
		if err != nil {
			return nil, fmt.Errorf("get water quality samples: %w", err)
		}
		return domain.WaterQualitySamples(samples), nil
	}
}

func (b *Builder) parameterCode(ctx context.Context, name, unit string) (string, bool, error) {
	names, err := b.src.Discrete.ParameterNameAliases(ctx)
	if err != nil {
		return "", false, fmt.Errorf("get parameter name aliases: %w", err)
	}
	units, err := b.src.Discrete.ParameterUnitAliases(ctx)
	if err != nil {
		return "", false, fmt.Errorf("get parameter unit aliases: %w", err)
	}
	code, ok := domain.ResolveParameterCode(name, unit, names, units)
	return code, ok, nil
}

// fieldVisitMeasurements fetches every visit in the window and flattens their
// measurements in visit order.
func (b *Builder) fieldVisitMeasurements(ctx context.Context, window domain.Window, stationID string, loc *time.Location) ([]domain.FieldVisitMeasurement, error) {
	visits, err := b.src.FieldVisits.FieldVisitDescriptions(ctx, stationID, loc, window)
	if err != nil {
		return nil, fmt.Errorf("get field visit descriptions: %w", err)
	}

	perVisit := make([][]domain.FieldVisitMeasurement, len(visits))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(visitFetchLimit)
	for i, visit := range visits {
		g.Go(func() error {
			data, err := b.src.FieldVisits.FieldVisitData(gctx, visit.Identifier)
			if err != nil {
				return fmt.Errorf("get field visit %s: %w", visit.Identifier, err)
			}
			perVisit[i] = domain.ExtractFieldVisitMeasurements(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]domain.FieldVisitMeasurement, 0, len(visits))
	for _, m := range perVisit {
		out = append(out, m...)
	}
	return out, nil
}

func buildOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrPrimaryNotFound), errors.Is(err, ErrNoPrimaryData):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
