package prefabs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWatcherReportsSpecEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "grunt.yaml")
	if err := os.WriteFile(path, []byte("name: grunt\nkind: chase\nalert_range: 50\n"), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	select {
	case got, ok := <-w.Events:
		if !ok {
			t.Fatalf("events channel closed before delivering")
		}
		if !strings.HasSuffix(got, "grunt.yaml") {
			t.Fatalf("expected event for grunt.yaml, got %q", got)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("no event within timeout")
	}
}

func TestWatcherCloseDuringEventBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	// Nobody drains Events here, so once the buffer fills the run goroutine
	// is parked mid-send when Close lands.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			name := filepath.Join(dir, fmt.Sprintf("spec%d.yaml", i))
			_ = os.WriteFile(name, []byte("name: x\n"), 0o644)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	<-done

	// Both channels must drain and close without a panic from the run
	// goroutine's pending sends.
	for range w.Events {
	}
	for range w.Errors {
	}
}
