package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dailyyoga/syndict/db"
	"github.com/dailyyoga/syndict/logger"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

const (
	testVersionQuery = "SELECT version FROM synonym_version LIMIT 1"
	testRulesQuery   = "SELECT words FROM synonym_rule"
)

func setupMySQLSource(t *testing.T) (Source, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(gmysql.New(gmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: glogger.Discard})
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	src, err := NewMySQL(logger.Nop(), db.FromGorm(logger.Nop(), gdb), &MySQLConfig{
		VersionQuery: testVersionQuery,
		RulesQuery:   testRulesQuery,
	})
	if err != nil {
		t.Fatalf("failed to create mysql source: %v", err)
	}
	return src, mock
}

// ============ Config Tests ============

func TestMySQLConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *MySQLConfig
		wantErr bool
	}{
		{"valid", &MySQLConfig{VersionQuery: "SELECT 1", RulesQuery: "SELECT 2"}, false},
		{"missing version query", &MySQLConfig{RulesQuery: "SELECT 2"}, true},
		{"missing rules query", &MySQLConfig{VersionQuery: "SELECT 1"}, true},
		{"nil", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ============ Version Tests ============

func TestMySQLSource_Version(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT version FROM synonym_version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(42))

	version, err := src.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if version != 42 {
		t.Errorf("expected version 42, got %d", version)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMySQLSource_Version_NoRows(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT version FROM synonym_version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	_, err := src.Version(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("expected ErrProtocol for empty version table, got %v", err)
	}
}

func TestMySQLSource_Version_Null(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT version FROM synonym_version").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(nil))

	_, err := src.Version(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("expected ErrProtocol for NULL version, got %v", err)
	}
}

func TestMySQLSource_Version_ConnectionError(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT version FROM synonym_version").
		WillReturnError(fmt.Errorf("dial tcp 127.0.0.1:3306: connect: connection refused"))

	_, err := src.Version(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for refused connection, got %v", err)
	}
}

func TestMySQLSource_Version_UnknownColumn(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT version FROM synonym_version").
		WillReturnError(fmt.Errorf("Error 1054 (42S22): Unknown column 'version' in 'field list'"))

	_, err := src.Version(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("expected ErrProtocol for schema mismatch, got %v", err)
	}
}

// ============ Fetch Tests ============

func TestMySQLSource_Fetch(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT words FROM synonym_rule").
		WillReturnRows(sqlmock.NewRows([]string{"words"}).
			AddRow("ipod, i-pod, i pod").
			AddRow(nil).
			AddRow("foo => bar"))

	rules, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules (NULL skipped), got %d: %v", len(rules), rules)
	}
	if rules[0] != "ipod, i-pod, i pod" || rules[1] != "foo => bar" {
		t.Errorf("unexpected rules: %v", rules)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestMySQLSource_Fetch_Empty(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT words FROM synonym_rule").
		WillReturnRows(sqlmock.NewRows([]string{"words"}))

	rules, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("expected no rules, got %v", rules)
	}
}

func TestMySQLSource_Fetch_QueryError(t *testing.T) {
	src, mock := setupMySQLSource(t)

	mock.ExpectQuery("SELECT words FROM synonym_rule").
		WillReturnError(fmt.Errorf("connection reset by peer"))

	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
