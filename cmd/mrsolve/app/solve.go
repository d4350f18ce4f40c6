package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/fullcheck"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/parse"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/report"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/solver"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/writer"
)

func newSolveCommand() *cobra.Command {
	var deadline time.Duration
	var reportPath string

	cmd := &cobra.Command{
		Use:   "solve <instance-file> <initial-assignment-file> <output-file>",
		Short: "Search for an improved process-to-machine assignment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(args[0], args[1], args[2], deadline, reportPath)
		},
	}

	cmd.Flags().DurationVar(&deadline, "deadline", solver.DefaultDeadline, "wall-clock search budget")
	cmd.Flags().StringVar(&reportPath, "report", "", "optional path to write a convergence chart (HTML)")
	return cmd
}

func runSolve(instancePath, assignmentPath, outputPath string, deadline time.Duration, reportPath string) error {
	inst, err := parse.Load(instancePath, assignmentPath)
	if err != nil {
		return fmt.Errorf("mrsolve solve: %w", err)
	}

	initialReport := fullcheck.Check(inst, inst.Initial())
	klog.V(1).InfoS("initial assignment evaluated", "valid", initialReport.IsValid, "totalCost", initialReport.TotalCost)

	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	var recorder report.Recorder
	opts := []solver.Option{solver.WithOnIteration(recorder.Record)}

	result := solver.Run(ctx, inst, opts...)
	if result.DeadlineHit {
		klog.V(1).InfoS("solver stopped: deadline reached", "deadline", deadline)
	}

	finalReport := fullcheck.Check(inst, result.Assignment)
	klog.InfoS("solve finished", "valid", finalReport.IsValid, "initialCost", initialReport.TotalCost, "finalCost", finalReport.TotalCost)

	if reportPath != "" {
		if err := recorder.WriteFile(reportPath); err != nil {
			return fmt.Errorf("mrsolve solve: %w", err)
		}
	}

	if err := writer.AssignmentFile(outputPath, result.Assignment); err != nil {
		return fmt.Errorf("mrsolve solve: %w", err)
	}
	return nil
}
