package source

import (
	"context"

	"github.com/dailyyoga/syndict/ch"
	"github.com/dailyyoga/syndict/logger"
	"go.uber.org/zap"
)

// ClickHouseConfig is the configuration for a ClickHouse-backed source
type ClickHouseConfig struct {
	// VersionQuery must return a single row whose first column is the
	// current dictionary version as Int64
	// example: SELECT max(version) AS version FROM synonym_version
	VersionQuery string `mapstructure:"version_query"`
	// RulesQuery must return one rule per row in its first column
	// example: SELECT words FROM synonym_rule FINAL WHERE enabled = 1
	RulesQuery string `mapstructure:"rules_query"`
}

// Validate validates the configuration for the ClickHouse source
func (c *ClickHouseConfig) Validate() error {
	if c == nil {
		return ErrInvalidConfig("clickhouse config is required")
	}
	if c.VersionQuery == "" {
		return ErrInvalidConfig("version_query is required")
	}
	if c.RulesQuery == "" {
		return ErrInvalidConfig("rules_query is required")
	}
	return nil
}

type clickhouseSource struct {
	logger logger.Logger
	client ch.Client
	config *ClickHouseConfig
}

// NewClickHouse creates a source that reads dictionary versions and
// rules from ClickHouse. The client is owned by the caller.
func NewClickHouse(log logger.Logger, client ch.Client, cfg *ClickHouseConfig) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &clickhouseSource{
		logger: log,
		client: client,
		config: cfg,
	}, nil
}

func (s *clickhouseSource) Version(ctx context.Context) (int64, error) {
	row := s.client.QueryRow(ctx, s.config.VersionQuery)
	if row == nil {
		return 0, Unavailable(ch.ErrConnectionClosed)
	}

	var version int64
	if err := row.Scan(&version); err != nil {
		return 0, classify(err)
	}
	return version, nil
}

func (s *clickhouseSource) Fetch(ctx context.Context) ([]string, error) {
	rows, err := s.client.Query(ctx, s.config.RulesQuery)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var rules []string
	for rows.Next() {
		var rule string
		if err := rows.Scan(&rule); err != nil {
			return nil, classify(err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	s.logger.Debug("fetched rules from clickhouse", zap.Int("count", len(rules)))
	return rules, nil
}
