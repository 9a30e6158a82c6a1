package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqcu/dvhydrograph-report/internal/domain"
	"github.com/aqcu/dvhydrograph-report/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	maxAttempts    = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 2 * time.Second
)

// messageWriter is the subset of *kafkago.Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher hands built reports to the render topic.
type Publisher struct {
	writer  messageWriter
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a producer for topic.
func NewPublisher(brokers []string, topic string, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger, metrics: metrics}
}

// Publish writes one report, retrying transient failures with backoff.
func (p *Publisher) Publish(ctx context.Context, reportType string, report domain.Report) error {
	msg, err := serializeToMessage(reportType, report)
	if err != nil {
		return err
	}

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		err = p.writer.WriteMessages(ctx, msg)
		if err == nil {
			p.metrics.ReportsPublished.Inc()
			return nil
		}
		if attempt == maxAttempts || ctx.Err() != nil {
			break
		}
		p.logger.Warn("report publish failed, retrying", "station", report.Metadata.StationID, "attempt", attempt, "backoff", backoff, "error", err)
		if !retry.SleepWithContext(ctx, backoff) {
			break
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}

	p.metrics.PublishErrors.Inc()
	return fmt.Errorf("publish report: %w", err)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage keys the message by station so one station's reports
// stay ordered on a partition.
func serializeToMessage(reportType string, report domain.Report) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(report.Metadata.StationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "report_type", Value: []byte(reportType)},
			{Key: "requesting_user", Value: []byte(report.Metadata.RequestingUser)},
		},
	}, nil
}
