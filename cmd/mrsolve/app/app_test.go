package app_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AllergicMushroom/RoadefChallenge2012/cmd/mrsolve/app"
)

// writeFile is a small helper for laying out instance/assignment
// fixtures under a temp dir for each CLI test.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// degenerateIdentityInstance is the spec's end-to-end scenario 1: one
// non-transient resource, two machines with zero move costs, one
// service, one process already optimally placed. The solver must
// return the assignment unchanged with total cost 0.
func degenerateIdentityInstance() (instancePath, assignmentPath string) {
	instance := strings.Join([]string{
		"1",
		"0 1",
		"2",
		"0 0 10 10 0 0",
		"0 1 10 10 0 0",
		"1",
		"1 0",
		"1",
		"0 5 1",
		"0",
		"1 1 1",
		"",
	}, "\n")
	return instance, "0"
}

func TestSolveDegenerateIdentityScenario(t *testing.T) {
	dir := t.TempDir()
	instanceBody, assignmentBody := degenerateIdentityInstance()
	instancePath := writeFile(t, dir, "instance.txt", instanceBody)
	assignmentPath := writeFile(t, dir, "initial.txt", assignmentBody)
	outputPath := filepath.Join(dir, "out.txt")

	root := app.NewRootCommand()
	root.SetArgs([]string{"solve", instancePath, assignmentPath, outputPath, "--deadline=2s"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("solve: %v", err)
	}

	got, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading solver output: %v", err)
	}
	if strings.TrimSpace(string(got)) != "0" {
		t.Errorf("solved assignment = %q, want \"0\" (unchanged, already optimal)", got)
	}
}

func TestCheckReportsValidityAndCost(t *testing.T) {
	dir := t.TempDir()
	instanceBody, assignmentBody := degenerateIdentityInstance()
	instancePath := writeFile(t, dir, "instance.txt", instanceBody)
	assignmentPath := writeFile(t, dir, "initial.txt", assignmentBody)
	candidatePath := writeFile(t, dir, "candidate.txt", "0")

	root := app.NewRootCommand()
	var out bytes.Buffer
	root.SetArgs([]string{"check", instancePath, assignmentPath, candidatePath})
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err != nil {
		t.Fatalf("check: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("check output = %q, want 2 lines (validity, cost)", out.String())
	}
	if lines[0] != "valid" {
		t.Errorf("validity line = %q, want \"valid\"", lines[0])
	}
	if lines[1] != "0" {
		t.Errorf("cost line = %q, want \"0\"", lines[1])
	}
}

func TestCheckRejectsWrongLengthCandidate(t *testing.T) {
	dir := t.TempDir()
	instanceBody, assignmentBody := degenerateIdentityInstance()
	instancePath := writeFile(t, dir, "instance.txt", instanceBody)
	assignmentPath := writeFile(t, dir, "initial.txt", assignmentBody)
	candidatePath := writeFile(t, dir, "candidate.txt", "0 1")

	root := app.NewRootCommand()
	root.SetArgs([]string{"check", instancePath, assignmentPath, candidatePath})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	if err := root.Execute(); err == nil {
		t.Error("expected an error for a candidate assignment of the wrong length")
	}
}
