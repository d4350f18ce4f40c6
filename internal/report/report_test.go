package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/report"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/solver"
)

func TestRecorderWriteProducesHTML(t *testing.T) {
	var rec report.Recorder
	rec.Record(solver.Progress{Iteration: 0, TotalCost: 100})
	rec.Record(solver.Progress{Iteration: 1, TotalCost: 80})
	rec.Record(solver.Progress{Iteration: 2, TotalCost: 80})

	var buf bytes.Buffer
	if err := rec.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<html") && !strings.Contains(out, "<!DOCTYPE") {
		t.Errorf("rendered output does not look like HTML: first 200 bytes = %q", out[:min(200, len(out))])
	}
}

func TestRecorderWriteHandlesNoPoints(t *testing.T) {
	var rec report.Recorder
	var buf bytes.Buffer
	if err := rec.Write(&buf); err != nil {
		t.Fatalf("Write with zero points: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("expected non-empty output even with no recorded points")
	}
}
