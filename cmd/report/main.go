package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aqcu/dvhydrograph-report/internal/adapter/aquarius"
	httpadapter "github.com/aqcu/dvhydrograph-report/internal/adapter/http"
	kafkaadapter "github.com/aqcu/dvhydrograph-report/internal/adapter/kafka"
	"github.com/aqcu/dvhydrograph-report/internal/adapter/nwisra"
	"github.com/aqcu/dvhydrograph-report/internal/config"
	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"github.com/aqcu/dvhydrograph-report/internal/report"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	aq := aquarius.NewClient(aquarius.Config{
		BaseURL:    cfg.AquariusURL,
		Token:      cfg.AquariusToken,
		Timeout:    cfg.AquariusTimeout,
		RetryCount: cfg.AquariusRetryCount,
	}, logger, metrics)
	lookups := aquarius.NewCachedLookups(aq, cfg.LookupCacheSize, metrics)

	nw := nwisra.NewCachedClient(nwisra.NewClient(nwisra.Config{
		BaseURL:    cfg.NwisraURL,
		Timeout:    cfg.NwisraTimeout,
		RetryCount: cfg.NwisraRetryCount,
	}, logger, metrics), metrics)

	builder := report.New(report.Sources{
		Descriptions: aq,
		Parameters:   aq,
		Series:       aq,
		Gaps:         domain.GapListBuilder{},
		Qualifiers:   lookups,
		Locations:    lookups,
		FieldVisits:  aq,
		Discrete:     nw,
	}, domain.Links{
		SimsBaseURL:      cfg.SimsURL,
		WaterdataBaseURL: cfg.WaterdataURL,
	}, logger, metrics)

	// Publishing is feature-flagged via REPORT_PUBLISH_ENABLED.
	var (
		publisher httpadapter.ReportPublisher
		closer    *kafkaadapter.Publisher
	)
	if cfg.PublishEnabled {
		closer = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaReportTopic, logger, metrics)
		publisher = closer
		logger.Info("report publishing enabled", "topic", cfg.KafkaReportTopic)
	} else {
		logger.Info("report publishing disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, builder, publisher, aq, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
