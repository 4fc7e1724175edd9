package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNotExists indicates the referenced file is absent from the upload
// directory.
var ErrNotExists = errors.New("stored file does not exist")

// Config describes where uploaded presentations land on disk.
type Config struct {
	// Dir is the directory files are written to. Created on demand.
	Dir string
	// BasePath is the public path prefix recorded on submissions, for
	// example "/uploads".
	BasePath string
}

// Service stores presentation files on the local filesystem.
type Service struct {
	dir      string
	basePath string
	logger   zerolog.Logger
}

// New constructs a local storage service rooted at cfg.Dir.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("storage directory must be provided")
	}

	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/uploads"
	}
	basePath = "/" + strings.Trim(basePath, "/")

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &Service{
		dir:      cfg.Dir,
		basePath: basePath,
		logger:   logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Save writes the reader contents under the given name and returns the
// public path recorded on the submission plus the number of bytes written.
func (s *Service) Save(ctx context.Context, name string, reader io.Reader) (string, int64, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	sanitized := SanitizeFileName(name)
	if sanitized == "" {
		return "", 0, fmt.Errorf("file name must not be empty")
	}

	target := filepath.Join(s.dir, sanitized)
	out, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}

	written, copyErr := io.Copy(out, reader)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(target)
		if copyErr != nil {
			return "", 0, fmt.Errorf("failed to write file: %w", copyErr)
		}
		return "", 0, fmt.Errorf("failed to write file: %w", closeErr)
	}

	publicPath := s.basePath + "/" + sanitized
	s.logger.Info().Str("path", publicPath).Int64("bytes", written).Msg("file stored")

	return publicPath, written, nil
}

// Resolve maps a public path back to the on-disk location, verifying the
// file still exists.
func (s *Service) Resolve(publicPath string) (string, error) {
	name := strings.TrimPrefix(publicPath, s.basePath)
	name = filepath.Base(strings.Trim(name, "/"))
	if name == "" || name == "." {
		return "", ErrNotExists
	}

	target := filepath.Join(s.dir, name)
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotExists
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	return target, nil
}

// BasePath returns the public prefix stored paths start with.
func (s *Service) BasePath() string {
	return s.basePath
}

// SanitizeFileName strips path components and maps unsafe characters so the
// result is always a plain file name.
func SanitizeFileName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}

	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, base)

	return strings.Trim(base, "-.")
}
