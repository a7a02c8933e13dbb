package sink

import (
	"context"
	"encoding/json"
	"time"

	"pricewatch/internal/market"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// statusKey keys connectivity and error messages so they share a partition.
var statusKey = []byte("status")

// KafkaPublisher emits one message per committed asset update, keyed by asset
// id so a partitioned topic preserves per-asset ordering.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewKafkaPublisher(writer *kafka.Writer, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, logger: logger}
}

func (p *KafkaPublisher) CatalogReplaced(assets []market.Asset) {
	msgs := make([]kafka.Message, 0, len(assets))
	for _, a := range assets {
		payload, err := json.Marshal(a)
		if err != nil {
			p.logger.Warn("failed to encode asset", zap.String("id", a.ID), zap.Error(err))
			continue
		}
		msgs = append(msgs, kafka.Message{Key: []byte(a.ID), Value: payload})
	}
	p.write(msgs...)
}

func (p *KafkaPublisher) AssetUpdated(asset market.Asset) {
	payload, err := json.Marshal(asset)
	if err != nil {
		p.logger.Warn("failed to encode asset", zap.String("id", asset.ID), zap.Error(err))
		return
	}
	p.write(kafka.Message{Key: []byte(asset.ID), Value: payload})
}

func (p *KafkaPublisher) ConnectionChanged(connected bool) {
	payload, _ := json.Marshal(map[string]any{"connected": connected})
	p.write(kafka.Message{Key: statusKey, Value: payload})
}

func (p *KafkaPublisher) StreamError(message string) {
	payload, _ := json.Marshal(map[string]any{"error": message})
	p.write(kafka.Message{Key: statusKey, Value: payload})
}

func (p *KafkaPublisher) write(msgs ...kafka.Message) {
	if len(msgs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		p.logger.Warn("kafka write failed", zap.Error(err))
	}
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
