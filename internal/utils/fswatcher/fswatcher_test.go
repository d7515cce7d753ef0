package fswatcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchPaths_FiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "alarms.json")
	if err := os.WriteFile(path, []byte(`{"alarms": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchPaths(ctx, []string{path}, 50*time.Millisecond, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte(`{"alarms": [{}]}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not fire after file write")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("WatchPaths returned %v, want context.Canceled", err)
	}
}

func TestWatchPaths_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	watchedPath := filepath.Join(dir, "alarms.json")
	siblingPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watchedPath, []byte(`{"alarms": []}`), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	go func() {
		_ = WatchPaths(ctx, []string{watchedPath}, 50*time.Millisecond, func() {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(siblingPath, []byte("scratch"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Fatal("watcher fired for a file it does not track")
	case <-time.After(300 * time.Millisecond):
	}
}
