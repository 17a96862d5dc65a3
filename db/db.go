// Package db manages MySQL connections for dictionary sources.
//
// It wraps gorm with pool settings tuned for low-frequency polling
// workloads and routes gorm's logging through the project logger.
package db

import (
	"context"

	"gorm.io/gorm"
)

// Database is the interface for the database
type Database interface {
	DB() (*gorm.DB, error)
	Ping(ctx context.Context) error
	Close() error
}
