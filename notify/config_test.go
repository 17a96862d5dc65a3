package notify

import (
	"testing"
	"time"
)

func TestKafkaConfig_Validate(t *testing.T) {
	valid := func() *KafkaConfig {
		return (&KafkaConfig{
			Brokers: []string{"localhost:9092"},
			GroupID: "syndict",
			Topics:  []string{"synonym-changes"},
		}).MergeDefaults()
	}

	tests := []struct {
		name    string
		mutate  func(*KafkaConfig)
		wantErr bool
	}{
		{"valid", func(c *KafkaConfig) {}, false},
		{"no brokers", func(c *KafkaConfig) { c.Brokers = nil }, true},
		{"no group id", func(c *KafkaConfig) { c.GroupID = "" }, true},
		{"no topics", func(c *KafkaConfig) { c.Topics = nil }, true},
		{"bad offset reset", func(c *KafkaConfig) { c.AutoOffsetReset = "newest" }, true},
		{"negative session timeout", func(c *KafkaConfig) { c.SessionTimeout = -time.Second }, true},
		{"negative poll interval", func(c *KafkaConfig) { c.MaxPollInterval = -time.Second }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestKafkaConfig_MergeDefaults(t *testing.T) {
	cfg := (&KafkaConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "syndict",
		Topics:  []string{"synonym-changes"},
	}).MergeDefaults()

	if cfg.AutoOffsetReset != "latest" {
		t.Errorf("expected latest offset reset, got %s", cfg.AutoOffsetReset)
	}
	if cfg.SessionTimeout != 30*time.Second {
		t.Errorf("expected default session timeout, got %v", cfg.SessionTimeout)
	}
	if cfg.SecurityProtocol != "PLAINTEXT" {
		t.Errorf("expected PLAINTEXT, got %s", cfg.SecurityProtocol)
	}
}

func TestKafkaConfig_BuildConfigMap(t *testing.T) {
	cfg := (&KafkaConfig{
		Brokers: []string{"a:9092", "b:9092"},
		GroupID: "syndict",
		Topics:  []string{"synonym-changes"},
	}).MergeDefaults()

	cm := *cfg.BuildConfigMap()

	if got := cm["bootstrap.servers"]; got != "a:9092,b:9092" {
		t.Errorf("bootstrap.servers = %v", got)
	}
	if got := cm["enable.auto.commit"]; got != true {
		t.Errorf("expected auto commit on, got %v", got)
	}
	if got := cm["auto.offset.reset"]; got != "latest" {
		t.Errorf("auto.offset.reset = %v", got)
	}
	if _, ok := cm["debug"]; ok {
		t.Error("debug must be unset by default")
	}
}

func TestNewKafka_InvalidConfig(t *testing.T) {
	if _, err := NewKafka(nopLogger(t), nil); err == nil {
		t.Error("expected error for missing brokers")
	}
	if _, err := NewKafka(nopLogger(t), &KafkaConfig{Brokers: []string{"localhost:9092"}}); err == nil {
		t.Error("expected error for missing group id")
	}
}

func TestAnnouncerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *AnnouncerConfig
		wantErr bool
	}{
		{"valid", (&AnnouncerConfig{Brokers: []string{"localhost:9092"}, Topic: "synonym-changes"}).MergeDefaults(), false},
		{"no brokers", (&AnnouncerConfig{Topic: "synonym-changes"}).MergeDefaults(), true},
		{"no topic", (&AnnouncerConfig{Brokers: []string{"localhost:9092"}}).MergeDefaults(), true},
		{"negative retries", &AnnouncerConfig{Brokers: []string{"localhost:9092"}, Topic: "t", MaxRetries: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnnouncerConfig_BuildConfigMap(t *testing.T) {
	cfg := (&AnnouncerConfig{
		Brokers:  []string{"a:9092"},
		Topic:    "synonym-changes",
		ClientID: "updater-1",
	}).MergeDefaults()

	cm := *cfg.BuildConfigMap()

	if got := cm["acks"]; got != "all" {
		t.Errorf("acks = %v", got)
	}
	if got := cm["retries"]; got != 3 {
		t.Errorf("retries = %v", got)
	}
	if got := cm["client.id"]; got != "updater-1" {
		t.Errorf("client.id = %v", got)
	}
}

func TestCronConfig_Validate(t *testing.T) {
	if err := (&CronConfig{}).Validate(); err == nil {
		t.Error("expected error for empty spec")
	}
	if err := (&CronConfig{Spec: "0 */5 * * * *"}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFileWatchConfig_Validate(t *testing.T) {
	if err := (&FileWatchConfig{Debounce: time.Second}).Validate(); err == nil {
		t.Error("expected error for empty path")
	}
	if err := (&FileWatchConfig{Path: "rules.txt", Debounce: -time.Second}).Validate(); err == nil {
		t.Error("expected error for negative debounce")
	}
	cfg := (&FileWatchConfig{Path: "rules.txt"}).MergeDefaults()
	if cfg.Debounce != 200*time.Millisecond {
		t.Errorf("expected default debounce, got %v", cfg.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
