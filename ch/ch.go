// Package ch provides a read-only ClickHouse client for dictionary
// sources. Dictionaries are published into ClickHouse by an upstream
// pipeline; this package only queries them.
package ch

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client is the ClickHouse client interface for query operations
type Client interface {
	// Query executes a ClickHouse query and returns driver.Rows
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	// QueryRow executes a query that is expected to return at most one row
	QueryRow(ctx context.Context, query string, args ...any) driver.Row
	// Close closes the client and all associated resources
	Close() error
}
