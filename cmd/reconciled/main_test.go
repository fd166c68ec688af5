package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func buildReconciled(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping binary build in -short mode")
	}

	binPath := filepath.Join(t.TempDir(), "reconciled-test")
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("build failed: %v\n%s", err, output)
	}
	return binPath
}

func TestFsckCommandCleanBatch(t *testing.T) {
	bin := buildReconciled(t)

	obsFile := filepath.Join(t.TempDir(), "observations.yaml")
	doc := `
observations:
  - kind: mutation
    delta: -1
    lo: 0
    hi: 1
    source_kind: polling
    source_name: A
  - kind: mutation
    delta: -1
    lo: 2
    hi: 3
    source_kind: polling
    source_name: A
  - kind: assignment
    v_new: 8
    lo: 4
    hi: 5
    source_kind: record
    source_name: B
`
	if err := os.WriteFile(obsFile, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(bin, "fsck", obsFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("fsck failed: %v\noutput: %s", err, output)
	}
}

func TestFsckCommandReportsConflict(t *testing.T) {
	bin := buildReconciled(t)

	obsFile := filepath.Join(t.TempDir(), "observations.yaml")
	doc := `
observations:
  - kind: assignment
    v_new: 5
    lo: 0
    hi: 5
    source_kind: polling
    source_name: A
  - kind: assignment
    v_new: 7
    lo: 2
    hi: 7
    source_kind: polling
    source_name: B
`
	if err := os.WriteFile(obsFile, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	// Two incomparable assignments to different values fold to conflict,
	// which is not a structural issue fsck reports as a failure.
	cmd := exec.Command(bin, "fsck", obsFile)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("fsck failed: %v\noutput: %s", err, output)
	}
}

func TestSimulateCommandRunsCleanly(t *testing.T) {
	bin := buildReconciled(t)

	cmd := exec.Command(bin, "simulate", "--duration=200ms", "--poll-every=5ms")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("simulate failed: %v\noutput: %s", err, output)
	}
}
