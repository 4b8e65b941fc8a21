// Package confloader provides configuration loading mechanism.
package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	changed := make(chan string, 4)
	w.OnChange(func(p string) {
		changed <- p
	})

	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.StartAsync()

	// Give the watcher loop time to start before mutating the file.
	time.Sleep(50 * time.Millisecond)

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0600); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	select {
	case p := <-changed:
		if filepath.Base(p) != "config.yaml" {
			t.Errorf("unexpected changed path: %s", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}
