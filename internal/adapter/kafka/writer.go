package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/usgs-station-import/internal/config"
	"github.com/couchcryptid/usgs-station-import/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes accepted stations to a Kafka topic, keyed by site number.
// It implements pipeline.Loader and pipeline.Flusher.
type Writer struct {
	writer    *kafkago.Writer
	pending   []kafkago.Message
	batchSize int
	published int
	logger    *slog.Logger
}

// NewWriter creates a Kafka producer for the configured station topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{
		writer:    w,
		pending:   make([]kafkago.Message, 0, cfg.KafkaBatchSize),
		batchSize: cfg.KafkaBatchSize,
		logger:    logger,
	}
}

// Load queues a station and publishes the queue once it reaches the batch size.
func (w *Writer) Load(ctx context.Context, s domain.Station) error {
	msg, err := serializeToMessage(s, domain.Now())
	if err != nil {
		return err
	}
	w.pending = append(w.pending, msg)
	if len(w.pending) < w.batchSize {
		return nil
	}
	return w.Flush(ctx)
}

// Flush publishes every queued station in a single WriteMessages call.
func (w *Writer) Flush(ctx context.Context) error {
	if len(w.pending) == 0 {
		return nil
	}
	if err := w.writer.WriteMessages(ctx, w.pending...); err != nil {
		return fmt.Errorf("publish %d stations to %s: %w", len(w.pending), w.writer.Topic, err)
	}
	w.published += len(w.pending)
	w.logger.Debug("stations published", "topic", w.writer.Topic, "count", len(w.pending), "total", w.published)
	w.pending = w.pending[:0]
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Station into a Kafka message.
func serializeToMessage(s domain.Station, importedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize station: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(s.ID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "agency", Value: []byte(domain.AgencyUSGS)},
			{Key: "imported_at", Value: []byte(importedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
