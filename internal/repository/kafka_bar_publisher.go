package repository

import (
	"context"
	"fmt"

	"StockAccess/internal/domain/models"
	pkgkafka "StockAccess/pkg/kafka"
	applogger "StockAccess/pkg/logger"
)

// batchPublisher is satisfied by *kafka.Producer.
type batchPublisher interface {
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaBarPublisher sends one JSON message per bar, keyed by symbol.
type KafkaBarPublisher struct {
	producer batchPublisher
	topic    string
	mode     string
	l        *applogger.Logger
}

func NewKafkaBarPublisher(producer batchPublisher, topic, mode string) *KafkaBarPublisher {
	return &KafkaBarPublisher{producer: producer, topic: topic, mode: mode}
}

// SetLogger injects a structured logger.
func (p *KafkaBarPublisher) SetLogger(l *applogger.Logger) { p.l = l }

func (p *KafkaBarPublisher) Name() string { return "kafka" }

type barMessage struct {
	Symbol    string  `json:"symbol"`
	Mode      string  `json:"mode"`
	TradeDate string  `json:"trade_date"`
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

func (p *KafkaBarPublisher) WriteBars(ctx context.Context, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(bars))
	for i, b := range bars {
		msgs[i] = pkgkafka.Message{
			Key: []byte(b.Symbol),
			Value: barMessage{
				Symbol:    b.Symbol,
				Mode:      p.mode,
				TradeDate: b.TradeDate,
				Timestamp: b.Timestamp.Unix(),
				Open:      b.Open,
				High:      b.High,
				Low:       b.Low,
				Close:     b.Close,
				Volume:    b.Volume,
			},
		}
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		if p.l != nil {
			p.l.Error("kafka publish_bars error",
				applogger.String("topic", p.topic),
				applogger.Int("bars", len(bars)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("publish bars: %w", err)
	}
	if p.l != nil {
		p.l.Info("kafka publish_bars ok", applogger.String("topic", p.topic), applogger.Int("bars", len(bars)))
	}
	return nil
}

func (p *KafkaBarPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	return p.producer.Close()
}
