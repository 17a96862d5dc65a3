package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dailyyoga/syndict/logger"
)

func writeDictFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synonyms.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dictionary file: %v", err)
	}
	return path
}

// ============ Version Tests ============

func TestFileSource_Version(t *testing.T) {
	path := writeDictFile(t, "a, b\n")
	modTime := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("failed to set mtime: %v", err)
	}

	src, err := NewFile(logger.Nop(), &FileConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	version, err := src.Version(context.Background())
	if err != nil {
		t.Fatalf("Version returned error: %v", err)
	}
	if version != modTime.UnixNano() {
		t.Errorf("expected version %d, got %d", modTime.UnixNano(), version)
	}
}

func TestFileSource_Version_ChangesOnRewrite(t *testing.T) {
	path := writeDictFile(t, "a, b\n")
	src, err := NewFile(logger.Nop(), &FileConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	t1 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	os.Chtimes(path, t1, t1)
	v1, _ := src.Version(context.Background())

	t2 := t1.Add(time.Second)
	os.Chtimes(path, t2, t2)
	v2, _ := src.Version(context.Background())

	if v2 <= v1 {
		t.Errorf("expected version to advance after rewrite: %d then %d", v1, v2)
	}
}

func TestFileSource_Version_Missing(t *testing.T) {
	src, err := NewFile(logger.Nop(), &FileConfig{Path: filepath.Join(t.TempDir(), "absent.txt")})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	_, err = src.Version(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for missing file, got %v", err)
	}
}

func TestFileSource_Version_Directory(t *testing.T) {
	src, err := NewFile(logger.Nop(), &FileConfig{Path: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	_, err = src.Version(context.Background())
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("expected ErrProtocol for directory path, got %v", err)
	}
}

// ============ Fetch Tests ============

func TestFileSource_Fetch(t *testing.T) {
	path := writeDictFile(t, "ipod, i-pod\nfoo => bar\n")
	src, err := NewFile(logger.Nop(), &FileConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	rules, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rules) != 2 || rules[0] != "ipod, i-pod" || rules[1] != "foo => bar" {
		t.Errorf("unexpected rules: %v", rules)
	}
}

func TestFileSource_Fetch_CRLFAndBOM(t *testing.T) {
	path := writeDictFile(t, "\uFEFFipod, i-pod\r\nfoo => bar\r\n")
	src, err := NewFile(logger.Nop(), &FileConfig{Path: path})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	rules, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(rules) != 2 || rules[0] != "ipod, i-pod" || rules[1] != "foo => bar" {
		t.Errorf("unexpected rules: %v", rules)
	}
}

func TestFileSource_Fetch_Missing(t *testing.T) {
	src, err := NewFile(logger.Nop(), &FileConfig{Path: filepath.Join(t.TempDir(), "absent.txt")})
	if err != nil {
		t.Fatalf("failed to create file source: %v", err)
	}

	_, err = src.Fetch(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable for missing file, got %v", err)
	}
}

// ============ Line Splitting ============

func TestSplitLines_Empty(t *testing.T) {
	if rules := splitLines(nil); len(rules) != 0 {
		t.Errorf("expected no rules from empty data, got %v", rules)
	}
}

func TestSplitLines_KeepsInteriorBlanks(t *testing.T) {
	rules := splitLines([]byte("a, b\n\nc, d\n"))
	if len(rules) != 3 {
		t.Fatalf("expected 3 lines including the blank, got %v", rules)
	}
	if rules[1] != "" {
		t.Errorf("expected interior blank preserved, got %q", rules[1])
	}
}

func TestFileConfig_Validate(t *testing.T) {
	if err := (&FileConfig{}).Validate(); err == nil {
		t.Error("expected error for empty path")
	}
	var nilCfg *FileConfig
	if err := nilCfg.Validate(); err == nil {
		t.Error("expected error for nil config")
	}
}
