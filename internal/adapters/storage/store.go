// Package storage persists uploaded audio assets in a single flat directory
// and reclaims stale ones.
package storage

import (
	"context"
	"time"
)

// Asset describes a stored audio file.
type Asset struct {
	Filename string
	Size     int
}

// SweepResult summarizes one retention sweep.
type SweepResult struct {
	Deleted []string
	Errors  int
}

// Store provides write/read/delete access to uploaded audio.
type Store interface {
	// Save writes data under a generated timestamp-derived name and
	// returns the stored asset. The write is atomic: no partially
	// written file is ever observable under its final name.
	Save(ctx context.Context, data []byte) (Asset, error)

	// Open returns the stored bytes for filename.
	// Returns ErrInvalidName before touching the filesystem when the
	// name carries path-traversal sequences, ErrNotFound when absent.
	Open(ctx context.Context, filename string) ([]byte, error)

	// Remove deletes filename. Absent files are success: deletion is
	// idempotent cleanup.
	Remove(ctx context.Context, filename string) error

	// Sweep deletes files older than maxAge. Per-file errors are counted
	// and never abort the sweep of remaining files.
	Sweep(ctx context.Context, maxAge time.Duration) (SweepResult, error)
}
