package notify

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"go.uber.org/zap"

	"github.com/dailyyoga/syndict/logger"
	"github.com/dailyyoga/syndict/routine"
)

// pollTimeoutMs bounds one Poll call so the loop can observe
// cancellation and Close between events
const pollTimeoutMs = 500

// KafkaNotifier fires the handler for every message on the subscribed
// topics. Message payloads are ignored: the message itself is the
// signal, and the triggered probe decides whether anything changed.
type KafkaNotifier struct {
	logger logger.Logger

	config *KafkaConfig
	c      *kafka.Consumer
	runner routine.Runner

	started atomic.Bool
	closed  atomic.Bool
}

// NewKafka creates a Kafka-backed notifier
// The consumer connects lazily; an unreachable broker surfaces as error
// events in the poll loop, not here.
func NewKafka(log logger.Logger, cfg *KafkaConfig) (*KafkaNotifier, error) {
	if cfg == nil {
		cfg = DefaultKafkaConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	consumer, err := kafka.NewConsumer(cfg.BuildConfigMap())
	if err != nil {
		return nil, ErrConnection(err)
	}
	if err := consumer.SubscribeTopics(cfg.Topics, nil); err != nil {
		consumer.Close()
		return nil, ErrSubscribe(cfg.Topics, err)
	}

	return &KafkaNotifier{
		logger: log,
		config: cfg,
		c:      consumer,
		runner: routine.New(log),
	}, nil
}

// Start launches the consume loop
func (n *KafkaNotifier) Start(ctx context.Context, handler Handler) error {
	if n.closed.Load() {
		return ErrClosed
	}
	if !n.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	n.runner.GoNamedWithContext(ctx, "kafka-notify", func(ctx context.Context) {
		n.consumeLoop(ctx, handler)
	})

	n.logger.Info("kafka notifier started",
		zap.String("group_id", n.config.GroupID),
		zap.Strings("topics", n.config.Topics),
	)
	return nil
}

// Close stops the consume loop and closes the consumer
func (n *KafkaNotifier) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	// the loop checks the closed flag between polls, so wait for it to
	// exit before tearing the consumer down
	n.runner.Wait()
	n.c.Close()
	n.logger.Info("kafka notifier closed", zap.String("group_id", n.config.GroupID))
	return nil
}

func (n *KafkaNotifier) consumeLoop(ctx context.Context, handler Handler) {
	for !n.closed.Load() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := n.c.Poll(pollTimeoutMs)
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			n.logger.Debug("change notification received",
				zap.String("topic", *e.TopicPartition.Topic),
				zap.Int32("partition", e.TopicPartition.Partition),
				zap.Int64("offset", int64(e.TopicPartition.Offset)),
			)
			handler(ctx)
		case kafka.Error:
			// broker outages are survivable: librdkafka reconnects on its
			// own and the dictionary's poll loop covers the gap
			if e.Code() == kafka.ErrAllBrokersDown {
				n.logger.Error("all kafka brokers are down", zap.Error(e))
				continue
			}
			n.logger.Warn("kafka notifier error", zap.Int("code", int(e.Code())), zap.String("error", e.String()))
		case kafka.OffsetsCommitted:
			if e.Error != nil {
				n.logger.Warn("failed to commit offsets", zap.Error(e.Error))
			}
		default:
			n.logger.Debug("received unknown event", zap.String("type", fmt.Sprintf("%T", e)))
		}
	}
}
