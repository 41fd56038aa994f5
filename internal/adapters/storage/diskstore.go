package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vocalis/intake/pkg/logger"
	"github.com/vocalis/intake/pkg/metrics"
)

// gitkeepName is preserved so the upload directory can live in version control.
const gitkeepName = ".gitkeep"

// DiskStore implements Store on a local flat directory.
type DiskStore struct {
	dir    string
	now    func() time.Time
	logger logger.Logger
}

// NewDiskStore creates a store rooted at dir. The directory is created on
// first save if missing.
func NewDiskStore(dir string, opts ...Option) *DiskStore {
	s := &DiskStore{
		dir:    dir,
		now:    time.Now,
		logger: logger.Get().Named("storage"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateFilename derives a name from the current timestamp with
// path-unsafe characters normalized: recording_<ts>.wav.
func (s *DiskStore) generateFilename() string {
	ts := s.now().UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.NewReplacer(":", "-", ".", "-").Replace(ts)
	return "recording_" + ts + ".wav"
}

// validateFilename rejects names carrying path-traversal sequences before
// any filesystem access.
func validateFilename(name string) error {
	if name == "" ||
		strings.Contains(name, "..") ||
		strings.Contains(name, "/") ||
		strings.Contains(name, "\\") {
		return ErrInvalidName
	}
	return nil
}

// Save implements Store. The bytes land in a temp file first and are
// renamed into place, so a failed write leaves nothing servable behind.
func (s *DiskStore) Save(ctx context.Context, data []byte) (Asset, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	filename := s.generateFilename()

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Asset{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return Asset{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Asset{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, filename)); err != nil {
		os.Remove(tmpName)
		return Asset{}, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	metrics.RecordUploadStored(len(data))
	s.logger.Info(ctx, "audio stored",
		logger.String("filename", filename),
		logger.Int("bytes", len(data)),
	)
	return Asset{Filename: filename, Size: len(data)}, nil
}

// Open implements Store.
func (s *DiskStore) Open(ctx context.Context, filename string) ([]byte, error) {
	if err := validateFilename(filename); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return data, nil
}

// Remove implements Store.
func (s *DiskStore) Remove(ctx context.Context, filename string) error {
	if err := validateFilename(filename); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.dir, filename))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err == nil {
		s.logger.Info(ctx, "audio deleted", logger.String("filename", filename))
	}
	return nil
}

// Sweep implements Store. A concurrent upload is safe: only files already
// past the age threshold are touched.
func (s *DiskStore) Sweep(ctx context.Context, maxAge time.Duration) (SweepResult, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SweepResult{}, nil
		}
		return SweepResult{}, fmt.Errorf("%w: %v", ErrSweep, err)
	}

	var result SweepResult
	now := s.now()

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == gitkeepName {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			result.Errors++
			continue
		}

		age := now.Sub(info.ModTime())
		if age <= maxAge {
			continue
		}

		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			s.logger.Error(ctx, "sweep could not delete file",
				logger.String("filename", name),
				logger.Error(err),
			)
			result.Errors++
			continue
		}
		result.Deleted = append(result.Deleted, name)
		s.logger.Info(ctx, "swept stale audio",
			logger.String("filename", name),
			logger.Duration("age", age),
		)
	}

	metrics.RecordSweep(len(result.Deleted), result.Errors, now)
	if remaining, err := os.ReadDir(s.dir); err == nil {
		metrics.UpdateAudioFileCount(len(remaining))
	}
	return result, nil
}
