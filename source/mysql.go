package source

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dailyyoga/syndict/db"
	"github.com/dailyyoga/syndict/logger"
	"go.uber.org/zap"
)

// MySQLConfig is the configuration for a MySQL-backed source
type MySQLConfig struct {
	// VersionQuery must return a single row whose first column is the
	// current dictionary version
	// example: SELECT MAX(version) AS version FROM synonym_version
	VersionQuery string `mapstructure:"version_query"`
	// RulesQuery must return one rule per row in its first column
	// example: SELECT words FROM synonym_rule WHERE enabled = 1
	RulesQuery string `mapstructure:"rules_query"`
}

// Validate validates the configuration for the MySQL source
func (c *MySQLConfig) Validate() error {
	if c == nil {
		return ErrInvalidConfig("mysql config is required")
	}
	if c.VersionQuery == "" {
		return ErrInvalidConfig("version_query is required")
	}
	if c.RulesQuery == "" {
		return ErrInvalidConfig("rules_query is required")
	}
	return nil
}

// ErrInvalidConfig invalid source config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("source: invalid config: %s", msg)
}

type mysqlSource struct {
	logger   logger.Logger
	database db.Database
	config   *MySQLConfig
}

// NewMySQL creates a source that reads dictionary versions and rules
// from MySQL. The database connection is owned by the caller.
func NewMySQL(log logger.Logger, database db.Database, cfg *MySQLConfig) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &mysqlSource{
		logger:   log,
		database: database,
		config:   cfg,
	}, nil
}

func (s *mysqlSource) Version(ctx context.Context) (int64, error) {
	gdb, err := s.database.DB()
	if err != nil {
		return 0, Unavailable(err)
	}

	var version sql.NullInt64
	row := gdb.WithContext(ctx).Raw(s.config.VersionQuery).Row()
	if err := row.Scan(&version); err != nil {
		if err == sql.ErrNoRows {
			return 0, Protocol(fmt.Errorf("version query returned no rows"))
		}
		return 0, classify(err)
	}
	if !version.Valid {
		return 0, Protocol(fmt.Errorf("version query returned NULL"))
	}
	return version.Int64, nil
}

func (s *mysqlSource) Fetch(ctx context.Context) ([]string, error) {
	gdb, err := s.database.DB()
	if err != nil {
		return nil, Unavailable(err)
	}

	rows, err := gdb.WithContext(ctx).Raw(s.config.RulesQuery).Rows()
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var rules []string
	for rows.Next() {
		var rule sql.NullString
		if err := rows.Scan(&rule); err != nil {
			return nil, classify(err)
		}
		// NULL rows carry no rule
		if !rule.Valid {
			continue
		}
		rules = append(rules, rule.String)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}

	s.logger.Debug("fetched rules from mysql", zap.Int("count", len(rules)))
	return rules, nil
}
