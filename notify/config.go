package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// KafkaConfig is the configuration for the Kafka notifier
type KafkaConfig struct {
	// kafka connection config
	Brokers []string `mapstructure:"brokers"`
	GroupID string   `mapstructure:"group_id"`
	Topics  []string `mapstructure:"topics"`

	// Auto offset reset policy: "earliest" or "latest"
	// Notifications are only meaningful when fresh, so the default skips
	// whatever was published while no consumer was running.
	// default: "latest"
	AutoOffsetReset string `mapstructure:"auto_offset_reset"`

	// Session timeout
	// default: 30s
	SessionTimeout time.Duration `mapstructure:"session_timeout"`

	// Max poll interval - maximum time between two polls
	// default: 120s
	MaxPollInterval time.Duration `mapstructure:"max_poll_interval"`

	// Security protocol: "PLAINTEXT", "SASL_PLAINTEXT", "SASL_SSL"
	// only support PLAINTEXT for now
	// default: "PLAINTEXT"
	SecurityProtocol string `mapstructure:"security_protocol"`

	// Debug Model - enable consumer debug logs
	Debug bool `mapstructure:"debug"`
}

// DefaultKafkaConfig returns the default Kafka notifier configuration
func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		AutoOffsetReset:  "latest",
		SessionTimeout:   30 * time.Second,
		MaxPollInterval:  120 * time.Second,
		SecurityProtocol: "PLAINTEXT",
	}
}

// MergeDefaults fills zero-value fields from the default configuration
func (c *KafkaConfig) MergeDefaults() *KafkaConfig {
	defaults := DefaultKafkaConfig()
	if c.AutoOffsetReset == "" {
		c.AutoOffsetReset = defaults.AutoOffsetReset
	}
	if c.SessionTimeout == 0 {
		c.SessionTimeout = defaults.SessionTimeout
	}
	if c.MaxPollInterval == 0 {
		c.MaxPollInterval = defaults.MaxPollInterval
	}
	if c.SecurityProtocol == "" {
		c.SecurityProtocol = defaults.SecurityProtocol
	}
	return c
}

// Validate validates the configuration
func (c *KafkaConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrInvalidConfig("brokers are required")
	}
	if c.GroupID == "" {
		return ErrInvalidConfig("group_id is required")
	}
	if len(c.Topics) == 0 {
		return ErrInvalidConfig("topics are required")
	}
	if c.AutoOffsetReset != "earliest" && c.AutoOffsetReset != "latest" {
		return ErrInvalidConfig(
			fmt.Sprintf("invalid auto_offset_reset: %s, must be either 'earliest' or 'latest'", c.AutoOffsetReset),
		)
	}
	if c.SessionTimeout <= 0 {
		return ErrInvalidConfig("session_timeout must be greater than 0")
	}
	if c.MaxPollInterval <= 0 {
		return ErrInvalidConfig("max_poll_interval must be greater than 0")
	}
	return nil
}

// BuildConfigMap builds the librdkafka configuration
// Offsets are auto-committed: a notification replayed after a rebalance
// only causes a redundant probe, so exact delivery is not worth manual
// commit bookkeeping.
func (c *KafkaConfig) BuildConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers":       strings.Join(c.Brokers, ","),
		"group.id":                c.GroupID,
		"auto.offset.reset":       strings.ToLower(c.AutoOffsetReset), // latest, earliest
		"enable.auto.commit":      true,
		"auto.commit.interval.ms": 5000,
		"session.timeout.ms":      int(c.SessionTimeout.Milliseconds()),
		"max.poll.interval.ms":    int(c.MaxPollInterval.Milliseconds()),
		"security.protocol":       c.SecurityProtocol,
	}

	if c.Debug {
		_ = configMap.SetKey("debug", "consumer,cgrp,topic,fetch")
	}

	return configMap
}

// AnnouncerConfig is the configuration for the Kafka announcer
type AnnouncerConfig struct {
	// kafka cluster brokers
	Brokers []string `mapstructure:"brokers"`

	// Topic is the notification topic to publish to
	Topic string `mapstructure:"topic"`

	// Optional: kafka client id
	// Used to identify this producer in Kafka Broker logs and metrics.
	ClientID string `mapstructure:"client_id"`

	// Acks message confirmation mechanism: "all", "1" or "0"
	// Notifications are cheap to lose but cheaper to keep, so the
	// default waits for the full ISR.
	// default: "all"
	Acks string `mapstructure:"acks"`

	// Max retries for the kafka producer
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`

	// Security protocol: "PLAINTEXT", "SASL_PLAINTEXT", "SASL_SSL"
	// only support PLAINTEXT for now
	// default: "PLAINTEXT"
	SecurityProtocol string `mapstructure:"security_protocol"`
}

// DefaultAnnouncerConfig returns the default announcer configuration
func DefaultAnnouncerConfig() *AnnouncerConfig {
	return &AnnouncerConfig{
		Acks:             "all",
		MaxRetries:       3,
		SecurityProtocol: "PLAINTEXT",
	}
}

// MergeDefaults fills zero-value fields from the default configuration
func (c *AnnouncerConfig) MergeDefaults() *AnnouncerConfig {
	defaults := DefaultAnnouncerConfig()
	if c.Acks == "" {
		c.Acks = defaults.Acks
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.SecurityProtocol == "" {
		c.SecurityProtocol = defaults.SecurityProtocol
	}
	return c
}

// Validate validates the configuration
func (c *AnnouncerConfig) Validate() error {
	if len(c.Brokers) == 0 {
		return ErrInvalidConfig("brokers are required")
	}
	if c.Topic == "" {
		return ErrInvalidConfig("topic is required")
	}
	if c.MaxRetries < 0 {
		return ErrInvalidConfig("max_retries must not be negative")
	}
	return nil
}

// BuildConfigMap builds the librdkafka configuration
func (c *AnnouncerConfig) BuildConfigMap() *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(c.Brokers, ","),
		"acks":              strings.ToLower(c.Acks),
		"retries":           c.MaxRetries,
		"security.protocol": c.SecurityProtocol,
	}

	if c.ClientID != "" {
		_ = configMap.SetKey("client.id", c.ClientID)
	}

	return configMap
}

// CronConfig is the configuration for the cron notifier
type CronConfig struct {
	// Spec is the cron schedule in the 6-field format with seconds
	// Example: "0 */5 * * * *" (every five minutes)
	Spec string `mapstructure:"spec"`
}

// Validate validates the configuration
func (c *CronConfig) Validate() error {
	if c.Spec == "" {
		return ErrInvalidConfig("spec is required")
	}
	return nil
}

// FileWatchConfig is the configuration for the file watch notifier
type FileWatchConfig struct {
	// Path is the rules file to watch
	Path string `mapstructure:"path"`

	// Debounce collapses the event bursts editors and atomic writers
	// produce into a single notification
	// default: 200ms
	Debounce time.Duration `mapstructure:"debounce"`
}

// DefaultFileWatchConfig returns the default file watch configuration
func DefaultFileWatchConfig() *FileWatchConfig {
	return &FileWatchConfig{
		Debounce: 200 * time.Millisecond,
	}
}

// MergeDefaults fills zero-value fields from the default configuration
func (c *FileWatchConfig) MergeDefaults() *FileWatchConfig {
	defaults := DefaultFileWatchConfig()
	if c.Debounce == 0 {
		c.Debounce = defaults.Debounce
	}
	return c
}

// Validate validates the configuration
func (c *FileWatchConfig) Validate() error {
	if c.Path == "" {
		return ErrInvalidConfig("path is required")
	}
	if c.Debounce < 0 {
		return ErrInvalidConfig("debounce must not be negative")
	}
	return nil
}
