package repository

import (
	"context"
	"time"

	"EliteScan/internal/domain/models"
	pkgkafka "EliteScan/pkg/kafka"
)

// resultEvent is the Kafka payload for one qualifying setup.
type resultEvent struct {
	ScanID    string    `json:"scan_id"`
	ScannedAt time.Time `json:"scanned_at"`
	models.ResultRecord
}

// KafkaResultSink publishes one message per result, keyed by symbol.
type KafkaResultSink struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaResultSink(p *pkgkafka.Producer, topic string) *KafkaResultSink {
	return &KafkaResultSink{producer: p, topic: topic}
}

func (s *KafkaResultSink) Save(ctx context.Context, report *models.ScanReport) error {
	if report == nil || len(report.Results) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, 0, len(report.Results))
	for _, r := range report.Results {
		msgs = append(msgs, pkgkafka.Message{
			Key:     []byte(r.Symbol),
			Value:   resultEvent{ScanID: report.ID, ScannedAt: report.FinishedAt, ResultRecord: r},
			Headers: map[string]string{"scan_id": report.ID, "setup": r.Setup},
		})
	}
	return s.producer.PublishBatch(ctx, s.topic, msgs)
}

func (s *KafkaResultSink) Close() error {
	return s.producer.Close()
}
