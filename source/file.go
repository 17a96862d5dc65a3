package source

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dailyyoga/syndict/logger"
	"go.uber.org/zap"
)

// FileConfig is the configuration for a filesystem-backed source
type FileConfig struct {
	// Path of the dictionary file
	Path string `mapstructure:"path"`
}

// Validate validates the configuration for the file source
func (c *FileConfig) Validate() error {
	if c == nil {
		return ErrInvalidConfig("file config is required")
	}
	if c.Path == "" {
		return ErrInvalidConfig("path is required")
	}
	return nil
}

type fileSource struct {
	logger logger.Logger
	config *FileConfig
}

// NewFile creates a source that reads a dictionary file from the local
// filesystem. The file's modification time in nanoseconds serves as the
// version token, so every rewrite of the file counts as a new version.
func NewFile(log logger.Logger, cfg *FileConfig) (Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &fileSource{
		logger: log,
		config: cfg,
	}, nil
}

func (s *fileSource) Version(ctx context.Context) (int64, error) {
	info, err := os.Stat(s.config.Path)
	if err != nil {
		return 0, Unavailable(err)
	}
	if info.IsDir() {
		return 0, Protocol(fmt.Errorf("%s is a directory, want a file", s.config.Path))
	}
	return info.ModTime().UnixNano(), nil
}

func (s *fileSource) Fetch(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.config.Path)
	if err != nil {
		return nil, Unavailable(err)
	}

	rules := splitLines(data)
	s.logger.Debug("fetched rules from file", zap.Int("count", len(rules)), zap.String("path", s.config.Path))
	return rules, nil
}

// splitLines splits raw dictionary bytes into rules, one per line
// A UTF-8 byte order mark is dropped, line endings may be LF or CRLF,
// and a trailing empty line from a final newline is not a rule
func splitLines(data []byte) []string {
	text := strings.TrimPrefix(string(data), "\uFEFF")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
