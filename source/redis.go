package source

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dailyyoga/syndict/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisConfig is the configuration for a Redis-backed source
type RedisConfig struct {
	// VersionKey holds the current dictionary version as an integer string
	// default: "synonym:version"
	VersionKey string `mapstructure:"version_key"`
	// RulesKey is a list holding one rule per element
	// default: "synonym:rules"
	RulesKey string `mapstructure:"rules_key"`
}

// DefaultRedisConfig returns the default configuration for the Redis source
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		VersionKey: "synonym:version",
		RulesKey:   "synonym:rules",
	}
}

// MergeDefaults fills zero-value fields from the default configuration
func (c *RedisConfig) MergeDefaults() *RedisConfig {
	defaults := DefaultRedisConfig()
	if c.VersionKey == "" {
		c.VersionKey = defaults.VersionKey
	}
	if c.RulesKey == "" {
		c.RulesKey = defaults.RulesKey
	}
	return c
}

type redisSource struct {
	logger logger.Logger
	client redis.UniversalClient
	config *RedisConfig
}

// NewRedis creates a source that reads dictionary versions and rules
// from Redis. The client is owned by the caller.
func NewRedis(log logger.Logger, client redis.UniversalClient, cfg *RedisConfig) Source {
	if cfg == nil {
		cfg = DefaultRedisConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	return &redisSource{
		logger: log,
		client: client,
		config: cfg,
	}
}

func (s *redisSource) Version(ctx context.Context) (int64, error) {
	val, err := s.client.Get(ctx, s.config.VersionKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, Protocol(fmt.Errorf("version key %q not found", s.config.VersionKey))
		}
		return 0, classify(err)
	}

	version, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, Protocol(fmt.Errorf("version key %q holds %q, want integer", s.config.VersionKey, val))
	}
	return version, nil
}

func (s *redisSource) Fetch(ctx context.Context) ([]string, error) {
	rules, err := s.client.LRange(ctx, s.config.RulesKey, 0, -1).Result()
	if err != nil {
		return nil, classify(err)
	}

	s.logger.Debug("fetched rules from redis", zap.Int("count", len(rules)))
	return rules, nil
}
