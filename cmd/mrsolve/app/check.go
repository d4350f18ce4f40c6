package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/fullcheck"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/parse"
)

func openCandidate(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candidate assignment file: %w", err)
	}
	return f, nil
}

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <instance-file> <initial-assignment-file> <candidate-assignment-file>",
		Short: "Validate a candidate assignment and print its validity and total cost",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], args[2])
		},
	}
}

func runCheck(cmd *cobra.Command, instancePath, assignmentPath, candidatePath string) error {
	inst, err := parse.Load(instancePath, assignmentPath)
	if err != nil {
		return fmt.Errorf("mrsolve check: %w", err)
	}

	candidateFile, err := openCandidate(candidatePath)
	if err != nil {
		return fmt.Errorf("mrsolve check: %w", err)
	}
	defer candidateFile.Close()

	candidate, err := parse.Assignment(candidateFile)
	if err != nil {
		return fmt.Errorf("mrsolve check: %s: %w", candidatePath, err)
	}
	if len(candidate) != inst.NumProcesses() {
		return fmt.Errorf("mrsolve check: candidate assignment has %d entries, want %d (process count)", len(candidate), inst.NumProcesses())
	}

	rep := fullcheck.Check(inst, candidate)
	for _, kind := range rep.ViolatedConstraints {
		klog.InfoS("constraint violated", "kind", kind)
	}

	validity := "invalid"
	if rep.IsValid {
		validity = "valid"
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, validity)
	fmt.Fprintln(out, rep.TotalCost)

	klog.V(1).InfoS("cost breakdown",
		"loadCost", rep.LoadCost,
		"balanceCost", rep.BalanceCost,
		"processMoveCost", rep.ProcessMoveCost,
		"serviceMoveCost", rep.ServiceMoveCost,
		"machineMoveCost", rep.MachineMoveCost,
		"totalCost", rep.TotalCost,
	)
	return nil
}
