// Package fullcheck is the correctness oracle for the solver: given a
// complete assignment it recomputes per-machine resource usage from
// scratch and evaluates every constraint and every cost term. It is
// used once to bootstrap the solver's initial cost, once to report
// the solver's final cost, and as the ground-truth reference in
// tests that compare against the solver's incremental bookkeeping.
package fullcheck

import (
	"context"
	"runtime"
	"sync"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/microcheck"
)

// Report is the full cost breakdown plus a validity flag. Costs are
// always populated, even when IsValid is false: validity and cost are
// independent outputs, exactly as in the reference checker.
type Report struct {
	IsValid bool

	LoadCost        int64
	BalanceCost     int64
	ProcessMoveCost int64
	ServiceMoveCost int64
	MachineMoveCost int64
	TotalCost       int64

	// ViolatedConstraints holds one constraint-kind name per failure:
	// for each machine in id order "capacity" then "transient", then
	// for each service in id order "conflict", "spread", "dependency".
	// The failing machine or service id is not recorded. Empty when
	// IsValid is true.
	ViolatedConstraints []string
}

// Check recomputes usage from the given assignment and returns the
// full cost breakdown and validity. Equivalent to
// CheckContext(context.Background(), inst, assignment).
func Check(inst *instance.Instance, assignment []int) Report {
	return CheckContext(context.Background(), inst, assignment)
}

// CheckContext is Check with cooperative cancellation: on large
// instances the per-machine cost pass is split across a worker pool,
// and ctx is polled before each machine so a deadline set by the
// caller aborts promptly rather than after the whole pass completes.
func CheckContext(ctx context.Context, inst *instance.Instance, assignment []int) Report {
	usage := computeUsage(inst, assignment)

	var rep Report
	rep.LoadCost, rep.BalanceCost, rep.IsValid = machineCostsAndValidity(ctx, inst, assignment, usage)

	serviceValid, movedCount, distinctLocations := serviceState(inst, assignment)
	rep.IsValid = rep.IsValid && serviceValid

	rep.ProcessMoveCost = processMoveCost(inst, assignment)
	rep.ServiceMoveCost = serviceMoveCost(inst, movedCount)
	rep.MachineMoveCost = machineMoveCost(inst, assignment)
	rep.TotalCost = rep.LoadCost + rep.BalanceCost + rep.ProcessMoveCost + rep.ServiceMoveCost + rep.MachineMoveCost

	rep.ViolatedConstraints = violations(inst, assignment, usage, distinctLocations)
	if len(rep.ViolatedConstraints) > 0 {
		rep.IsValid = false
	}

	return rep
}

// computeUsage sums requirement[p][r] over every process currently on
// each machine, from scratch.
func computeUsage(inst *instance.Instance, assignment []int) [][]int64 {
	usage := make([][]int64, inst.NumMachines())
	for m := range usage {
		usage[m] = make([]int64, inst.NumResources())
	}
	for p := 0; p < inst.NumProcesses(); p++ {
		m := assignment[p]
		req := inst.Process(p).Requirement
		for r, v := range req {
			usage[m][r] += v
		}
	}
	return usage
}

// machineCostsAndValidity sums load and balance cost over every
// machine and reports whether every machine satisfies capacity and
// transient constraints. Work is fanned out across a worker pool
// sized to the host when the instance is large enough to benefit.
func machineCostsAndValidity(ctx context.Context, inst *instance.Instance, assignment []int, usage [][]int64) (loadCost, balanceCost int64, valid bool) {
	nM := inst.NumMachines()
	valid = true

	const parallelThreshold = 64
	workers := 1
	if nM >= parallelThreshold {
		workers = runtime.NumCPU()
		if workers > nM {
			workers = nM
		}
		if workers < 1 {
			workers = 1
		}
	}

	type partial struct {
		load, balance int64
		valid         bool
	}
	partials := make([]partial, workers)

	var wg sync.WaitGroup
	chunk := (nM + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo, hi := w*chunk, min((w+1)*chunk, nM)
		if lo >= hi {
			partials[w].valid = true
			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			p := partial{valid: true}
			for m := lo; m < hi; m++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				p.load += microcheck.MachineLoadCost(inst, m, usage[m])
				p.balance += microcheck.MachineBalanceCost(inst, m, usage[m])
				if !microcheck.CheckMachineCapacity(inst, m, usage[m]) {
					p.valid = false
				}
				if !microcheck.CheckMachineTransient(inst, assignment, m, usage[m]) {
					p.valid = false
				}
			}
			partials[w] = p
		}(w, lo, hi)
	}
	wg.Wait()

	for _, p := range partials {
		loadCost += p.load
		balanceCost += p.balance
		valid = valid && p.valid
	}
	return loadCost, balanceCost, valid
}

// serviceState evaluates the conflict, spread and dependency
// constraints for every service and returns whether all are
// satisfied, plus movedCount[s] and distinctLocations[s].
func serviceState(inst *instance.Instance, assignment []int) (valid bool, movedCount, distinctLocations []int) {
	nS := inst.NumServices()
	valid = true
	movedCount = make([]int, nS)
	distinctLocations = make([]int, nS)
	initial := inst.Initial()

	for s := 0; s < nS; s++ {
		svc := inst.Service(s)
		seenLoc := make(map[int]struct{}, len(svc.Processes))
		for _, p := range svc.Processes {
			if assignment[p] != initial[p] {
				movedCount[s]++
			}
			seenLoc[inst.Machine(assignment[p]).LocationID] = struct{}{}
		}
		distinctLocations[s] = len(seenLoc)

		if !microcheck.CheckServiceConflict(inst, assignment, s) {
			valid = false
		}
		if !microcheck.CheckServiceSpread(inst, s, distinctLocations[s]) {
			valid = false
		}
		if !microcheck.CheckServiceDependency(inst, assignment, s) {
			valid = false
		}
	}
	return valid, movedCount, distinctLocations
}

func processMoveCost(inst *instance.Instance, assignment []int) int64 {
	var cost int64
	initial := inst.Initial()
	for p := 0; p < inst.NumProcesses(); p++ {
		if assignment[p] != initial[p] {
			cost += inst.Process(p).MoveCost
		}
	}
	return cost * inst.Weights().ProcessMoveWeight
}

func serviceMoveCost(inst *instance.Instance, movedCount []int) int64 {
	var max int
	for _, c := range movedCount {
		if c > max {
			max = c
		}
	}
	return int64(max) * inst.Weights().ServiceMoveWeight
}

func machineMoveCost(inst *instance.Instance, assignment []int) int64 {
	var cost int64
	initial := inst.Initial()
	for p := 0; p < inst.NumProcesses(); p++ {
		from, to := initial[p], assignment[p]
		cost += inst.Machine(from).MoveCostTo[to]
	}
	return cost * inst.Weights().MachineMoveWeight
}

// violations re-walks every constraint kind and names each kind once
// per failing machine or service, for check-mode reporting. It runs
// once on every CheckContext call, separately from
// machineCostsAndValidity and serviceState.
func violations(inst *instance.Instance, assignment []int, usage [][]int64, distinctLocations []int) []string {
	var out []string
	for m := 0; m < inst.NumMachines(); m++ {
		if !microcheck.CheckMachineCapacity(inst, m, usage[m]) {
			out = append(out, "capacity")
		}
		if !microcheck.CheckMachineTransient(inst, assignment, m, usage[m]) {
			out = append(out, "transient")
		}
	}
	for s := 0; s < inst.NumServices(); s++ {
		if !microcheck.CheckServiceConflict(inst, assignment, s) {
			out = append(out, "conflict")
		}
		if !microcheck.CheckServiceSpread(inst, s, distinctLocations[s]) {
			out = append(out, "spread")
		}
		if !microcheck.CheckServiceDependency(inst, assignment, s) {
			out = append(out, "dependency")
		}
	}
	return out
}
