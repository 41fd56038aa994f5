package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/vocalis/intake/internal/adapters/storage"
	"github.com/vocalis/intake/pkg/logger"
)

func TestDiskStoreSaveOpen(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a disk store", t, func() {
		dir := t.TempDir()
		fixed := time.Date(2026, 8, 30, 10, 30, 45, 123_000_000, time.UTC)
		store := storage.NewDiskStore(dir, storage.WithClock(func() time.Time { return fixed }))

		Convey("When saving audio bytes", func() {
			asset, err := store.Save(ctx, []byte("wav-bytes"))

			Convey("Then the asset should carry a normalized timestamp name", func() {
				So(err, ShouldBeNil)
				So(asset.Filename, ShouldEqual, "recording_2026-08-30T10-30-45-123Z.wav")
				So(asset.Size, ShouldEqual, 9)
			})

			Convey("And the bytes should be readable back", func() {
				So(err, ShouldBeNil)
				data, err := store.Open(ctx, asset.Filename)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "wav-bytes")
			})

			Convey("And no temp files should remain", func() {
				So(err, ShouldBeNil)
				entries, err := os.ReadDir(dir)
				So(err, ShouldBeNil)
				for _, e := range entries {
					So(strings.HasPrefix(e.Name(), ".upload-"), ShouldBeFalse)
				}
			})
		})

		Convey("When opening a missing file", func() {
			_, err := store.Open(ctx, "recording_nope.wav")

			Convey("Then it should report not found", func() {
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestDiskStoreFilenameValidation(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a disk store with a canary file outside the upload dir", t, func() {
		base := t.TempDir()
		dir := filepath.Join(base, "uploads")
		So(os.MkdirAll(dir, 0o755), ShouldBeNil)
		canary := filepath.Join(base, "secret.txt")
		So(os.WriteFile(canary, []byte("secret"), 0o600), ShouldBeNil)

		store := storage.NewDiskStore(dir)

		unsafe := []string{
			"../secret.txt",
			"..\\secret.txt",
			"a/../secret.txt",
			"sub/file.wav",
			"..",
			"",
		}

		Convey("When opening with traversal sequences", func() {
			for _, name := range unsafe {
				_, err := store.Open(ctx, name)
				So(errors.Is(err, storage.ErrInvalidName), ShouldBeTrue)
			}

			Convey("Then the canary should be untouched", func() {
				data, err := os.ReadFile(canary)
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, "secret")
			})
		})

		Convey("When removing with traversal sequences", func() {
			for _, name := range unsafe {
				err := store.Remove(ctx, name)
				So(errors.Is(err, storage.ErrInvalidName), ShouldBeTrue)
			}

			Convey("Then the canary should still exist", func() {
				_, err := os.Stat(canary)
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestDiskStoreRemoveIdempotent(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given a stored file", t, func() {
		store := storage.NewDiskStore(t.TempDir())
		asset, err := store.Save(ctx, []byte("data"))
		So(err, ShouldBeNil)

		Convey("When deleting it twice", func() {
			So(store.Remove(ctx, asset.Filename), ShouldBeNil)
			So(store.Remove(ctx, asset.Filename), ShouldBeNil)

			Convey("Then both calls should succeed and the file should be gone", func() {
				_, err := store.Open(ctx, asset.Filename)
				So(errors.Is(err, storage.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestDiskStoreSweep(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	ctx := context.Background()

	Convey("Given files aged 1h, 25h and 30h plus a .gitkeep", t, func() {
		dir := t.TempDir()
		now := time.Now()
		store := storage.NewDiskStore(dir, storage.WithClock(func() time.Time { return now }))

		ages := map[string]time.Duration{
			"recording_young.wav": 1 * time.Hour,
			"recording_old.wav":   25 * time.Hour,
			"recording_older.wav": 30 * time.Hour,
		}
		for name, age := range ages {
			path := filepath.Join(dir, name)
			So(os.WriteFile(path, []byte("x"), 0o644), ShouldBeNil)
			mtime := now.Add(-age)
			So(os.Chtimes(path, mtime, mtime), ShouldBeNil)
		}
		So(os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0o644), ShouldBeNil)
		old := now.Add(-48 * time.Hour)
		So(os.Chtimes(filepath.Join(dir, ".gitkeep"), old, old), ShouldBeNil)

		Convey("When sweeping with a 24h threshold", func() {
			result, err := store.Sweep(ctx, 24*time.Hour)

			Convey("Then exactly the 25h and 30h files should be deleted", func() {
				So(err, ShouldBeNil)
				So(len(result.Deleted), ShouldEqual, 2)
				So(result.Deleted, ShouldContain, "recording_old.wav")
				So(result.Deleted, ShouldContain, "recording_older.wav")
				So(result.Errors, ShouldEqual, 0)

				_, err := os.Stat(filepath.Join(dir, "recording_young.wav"))
				So(err, ShouldBeNil)
				_, err = os.Stat(filepath.Join(dir, ".gitkeep"))
				So(err, ShouldBeNil)
			})
		})

		Convey("When sweeping an empty or missing directory", func() {
			empty := storage.NewDiskStore(filepath.Join(dir, "missing"))

			result, err := empty.Sweep(ctx, 24*time.Hour)

			Convey("Then the sweep should succeed with nothing deleted", func() {
				So(err, ShouldBeNil)
				So(len(result.Deleted), ShouldEqual, 0)
				So(result.Errors, ShouldEqual, 0)
			})
		})
	})
}
