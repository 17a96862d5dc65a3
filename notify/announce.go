package notify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/dailyyoga/syndict/logger"
	"github.com/dailyyoga/syndict/routine"
)

// Announcer publishes change notifications to the topic the Kafka
// notifier consumes. Whatever updates the backing rules store calls
// Announce afterwards so running dictionaries pick the change up
// without waiting for the next poll tick.
type Announcer struct {
	logger logger.Logger

	topic  string
	p      *kafka.Producer
	runner routine.Runner

	done   chan struct{}
	closed atomic.Bool
}

// NewAnnouncer creates a Kafka-backed announcer
func NewAnnouncer(log logger.Logger, cfg *AnnouncerConfig) (*Announcer, error) {
	if cfg == nil {
		cfg = DefaultAnnouncerConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(cfg.BuildConfigMap())
	if err != nil {
		return nil, ErrConnection(err)
	}

	a := &Announcer{
		logger: log,
		topic:  cfg.Topic,
		p:      producer,
		runner: routine.New(log),
		done:   make(chan struct{}),
	}
	a.runner.GoNamed("kafka-announce-events", a.drainEvents)

	log.Info("kafka announcer initialized",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return a, nil
}

// Announce publishes one notification and waits for broker delivery
// The payload is informational only; consumers ignore it. A nil payload
// is replaced with the current timestamp for humans tailing the topic.
func (a *Announcer) Announce(ctx context.Context, payload []byte) error {
	if a.closed.Load() {
		return ErrClosed
	}
	if len(payload) == 0 {
		payload = []byte(time.Now().UTC().Format(time.RFC3339))
	}

	deliveryCh := make(chan kafka.Event, 1)
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &a.topic, Partition: kafka.PartitionAny},
		Value:          payload,
	}
	if err := a.p.Produce(msg, deliveryCh); err != nil {
		return ErrAnnounce(err)
	}

	select {
	case e := <-deliveryCh:
		m, ok := e.(*kafka.Message)
		if !ok {
			return ErrAnnounce(fmt.Errorf("unexpected delivery event %T", e))
		}
		if m.TopicPartition.Error != nil {
			return ErrAnnounce(m.TopicPartition.Error)
		}
		a.logger.Debug("change notification delivered",
			zap.String("topic", a.topic),
			zap.Int32("partition", m.TopicPartition.Partition),
			zap.Int64("offset", int64(m.TopicPartition.Offset)),
		)
		return nil
	case <-ctx.Done():
		return ErrAnnounce(ctx.Err())
	}
}

// Close flushes outstanding messages and closes the producer
func (a *Announcer) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	close(a.done)
	a.runner.Wait()

	remaining := a.p.Flush(10000) // 10 seconds
	if remaining > 0 {
		a.logger.Warn("announcer closed with undelivered messages", zap.Int("remaining", remaining))
	}
	a.p.Close()
	a.logger.Info("kafka announcer closed", zap.String("topic", a.topic))
	return nil
}

// drainEvents logs producer-level errors that arrive outside a
// delivery channel
func (a *Announcer) drainEvents() {
	for {
		select {
		case <-a.done:
			return
		case e := <-a.p.Events():
			switch ev := e.(type) {
			case kafka.Error:
				if ev.Code() == kafka.ErrAllBrokersDown {
					a.logger.Error("all kafka brokers are down", zap.Error(ev))
					continue
				}
				a.logger.Warn("kafka announcer error", zap.Int("code", int(ev.Code())), zap.String("error", ev.String()))
			default:
				a.logger.Debug("received unknown event", zap.String("type", fmt.Sprintf("%T", ev)))
			}
		}
	}
}
