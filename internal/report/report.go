// Package report renders the solver's cost-over-iteration trajectory
// as an HTML chart, adapted from the retrieval pack's Pareto-front
// scatter plot into a single convergence line.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/solver"
)

// Recorder collects solver.Progress points; pass Recorder.Record as a
// solver.WithOnIteration callback, then call Write once the search
// finishes.
type Recorder struct {
	points []solver.Progress
}

// Record appends one progress point. Safe to pass directly as the
// callback argument to solver.WithOnIteration.
func (r *Recorder) Record(p solver.Progress) {
	r.points = append(r.points, p)
}

// Write renders the recorded trajectory as an HTML line chart to w. If
// no points were recorded (the solver hit its deadline before
// completing one iteration), it still renders a chart with no data
// points rather than failing.
func (r *Recorder) Write(w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Solver convergence",
			Subtitle: fmt.Sprintf("%d recorded iterations", len(r.points)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "total cost",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
	)

	xAxis := make([]int, len(r.points))
	data := make([]opts.LineData, len(r.points))
	for i, p := range r.points {
		xAxis[i] = p.Iteration
		data[i] = opts.LineData{Value: p.TotalCost}
	}

	line.SetXAxis(xAxis).
		AddSeries("total cost", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	return line.Render(w)
}

// WriteFile renders the recorded trajectory to an HTML file at path.
func (r *Recorder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: creating %s: %w", path, err)
	}
	defer f.Close()
	if err := r.Write(f); err != nil {
		return fmt.Errorf("report: writing %s: %w", path, err)
	}
	return nil
}
