package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/report"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	reportType        = "dvhydrograph"
	dvHydrographTitle = "DV Hydrograph"
	fiveYearTitle     = "Five Year GW Summary"
	remoteUserHeader  = "X-Remote-User"
	unknownUser       = "unknown"
)

// ReportBuilder builds one report.
type ReportBuilder interface {
	BuildReport(ctx context.Context, req domain.ReportRequest, requestingUser, title string) (domain.Report, error)
}

// ReportPublisher hands a built report to the renderer.
type ReportPublisher interface {
	Publish(ctx context.Context, reportType string, r domain.Report) error
}

// Server exposes the report endpoints alongside health, readiness and
// metrics routes.
type Server struct {
	httpServer *http.Server
	builder    ReportBuilder
	publisher  ReportPublisher
	logger     *slog.Logger
}

// NewServer creates the HTTP server. publisher may be nil.
func NewServer(addr string, builder ReportBuilder, publisher ReportPublisher, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		builder:   builder,
		publisher: publisher,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /reports/dvhydrograph/rawData", s.handleReport(dvHydrographTitle, false))
	mux.HandleFunc("GET /reports/fiveyeargwsum/rawData", s.handleReport(fiveYearTitle, true))

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleReport(title string, fiveYear bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := parseRequest(r.URL.Query(), fiveYear)
		if err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		user := requestingUser(r)
		rpt, err := s.builder.BuildReport(r.Context(), req, user, title)
		if err != nil {
			status := errorStatus(err)
			if status >= http.StatusInternalServerError {
				s.logger.Error("report build failed", "primary", req.PrimaryIdentifier, "error", err)
			}
			sharedobs.WriteJSON(w, status, map[string]string{"error": err.Error()})
			return
		}

		// A failed publish does not fail the request; the report is still returned.
		if s.publisher != nil {
			if err := s.publisher.Publish(r.Context(), reportType, rpt); err != nil {
				s.logger.Error("report publish failed", "station", rpt.Metadata.StationID, "error", err)
			}
		}

		sharedobs.WriteJSON(w, http.StatusOK, rpt)
	}
}

func requestingUser(r *http.Request) string {
	if u := r.Header.Get(remoteUserHeader); u != "" {
		return u
	}
	return unknownUser
}

func errorStatus(err error) int {
	switch {
	case isRequestError(err):
		return http.StatusBadRequest
	case errors.Is(err, report.ErrPrimaryNotFound), errors.Is(err, report.ErrNoPrimaryData):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
