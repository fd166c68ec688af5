package producers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFilePlatformReadsInitialValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value.txt")
	if err := os.WriteFile(path, []byte("42\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := NewFilePlatform(path)
	if err != nil {
		t.Fatalf("NewFilePlatform() error = %v", err)
	}
	defer p.watcher.Close()

	if got := p.Value(); got != 42 {
		t.Errorf("Value() = %v, want 42", got)
	}
}

func TestFilePlatformReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value.txt")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatal(err)
	}

	var reloadErr error
	p, err := NewFilePlatform(path, WithFileErrorHandler(func(err error) { reloadErr = err }))
	if err != nil {
		t.Fatalf("NewFilePlatform() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runDone := make(chan error, 1)
	go func() { runDone <- p.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	if err := os.WriteFile(path, []byte("7"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if p.Value() == 7 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	<-runDone

	if got := p.Value(); got != 7 {
		t.Errorf("Value() = %v, want 7", got)
	}
	if reloadErr != nil {
		t.Errorf("unexpected reload error: %v", reloadErr)
	}
}

func TestNewFilePlatformRejectsNonInteger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "value.txt")
	if err := os.WriteFile(path, []byte("not-a-number"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFilePlatform(path); err == nil {
		t.Fatal("expected error for non-integer file contents")
	}
}
