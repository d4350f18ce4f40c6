package writer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/parse"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/writer"
)

func TestAssignmentFormatsOneLineNoTrailingSpace(t *testing.T) {
	var buf bytes.Buffer
	if err := writer.Assignment(&buf, []int{0, 1, 2}); err != nil {
		t.Fatalf("Assignment: %v", err)
	}
	if got, want := buf.String(), "0 1 2\n"; got != want {
		t.Errorf("Assignment output = %q, want %q", got, want)
	}
}

func TestAssignmentFileRoundTripsThroughParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solution.txt")
	want := []int{3, 1, 4, 1, 5}
	if err := writer.AssignmentFile(path, want); err != nil {
		t.Fatalf("AssignmentFile: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open written file: %v", err)
	}
	defer f.Close()

	got, err := parse.Assignment(f)
	if err != nil {
		t.Fatalf("parse.Assignment: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("round-tripped assignment = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("round-tripped assignment[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}
