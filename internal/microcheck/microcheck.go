// Package microcheck implements the stateless per-machine and
// per-service feasibility predicates and cost contributions used by
// the solver's hot swap-evaluation path. Every function here is pure:
// given the current assignment and/or usage vectors it returns a
// boolean or an int64, and touches nothing outside its arguments.
package microcheck

import "github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"

// CheckMachineCapacity reports whether usage stays within m's hard
// capacity on every resource.
func CheckMachineCapacity(inst *instance.Instance, m int, usage []int64) bool {
	capacity := inst.Machine(m).Capacity
	for r, u := range usage {
		if u > capacity[r] {
			return false
		}
	}
	return true
}

// CheckServiceConflict reports whether no two processes of service s
// share a machine under assignment A. Uses a machine-id hash set, so
// it runs in O(|s|) rather than the reference's O(|s|^2) double loop.
func CheckServiceConflict(inst *instance.Instance, assignment []int, s int) bool {
	seen := make(map[int]struct{}, len(inst.Service(s).Processes))
	for _, p := range inst.Service(s).Processes {
		m := assignment[p]
		if _, dup := seen[m]; dup {
			return false
		}
		seen[m] = struct{}{}
	}
	return true
}

// CheckServiceSpread reports whether s's processes occupy at least
// SpreadMin distinct locations.
func CheckServiceSpread(inst *instance.Instance, s int, distinctLocations int) bool {
	return distinctLocations >= inst.Service(s).SpreadMin
}

// CheckServiceDependency reports whether, for every service s' that s
// depends on, every process of s sits in the same neighbourhood as
// some process of s'.
func CheckServiceDependency(inst *instance.Instance, assignment []int, s int) bool {
	svc := inst.Service(s)
	if len(svc.Dependencies) == 0 {
		return true
	}

	for _, dep := range svc.Dependencies {
		depNeighbourhoods := make(map[int]struct{}, len(inst.Service(dep).Processes))
		for _, dp := range inst.Service(dep).Processes {
			depNeighbourhoods[inst.Machine(assignment[dp]).NeighbourhoodID] = struct{}{}
		}

		for _, p := range svc.Processes {
			nh := inst.Machine(assignment[p]).NeighbourhoodID
			if _, ok := depNeighbourhoods[nh]; !ok {
				return false
			}
		}
	}
	return true
}

// CheckMachineTransient reports whether m's transient-resource usage
// stays within capacity once the footprint of processes that started
// on m but have since moved away is added back in. Those processes
// still occupy their transient allocation on the source machine for
// the duration of the move.
func CheckMachineTransient(inst *instance.Instance, assignment []int, m int, usage []int64) bool {
	transient := inst.TransientResources()
	if len(transient) == 0 {
		return true
	}

	departed := make([]int64, inst.NumResources())
	for _, p := range inst.InitialMachineProcesses(m) {
		if assignment[p] == m {
			continue
		}
		req := inst.Process(p).Requirement
		for _, r := range transient {
			departed[r] += req[r]
		}
	}

	capacity := inst.Machine(m).Capacity
	for _, r := range transient {
		if usage[r]+departed[r] > capacity[r] {
			return false
		}
	}
	return true
}

// CheckSwapConflict is the swap-probe fast path for the conflict
// constraint: it only re-checks the two services touched by the swap
// instead of every service in the instance.
func CheckSwapConflict(inst *instance.Instance, assignment []int, s1, s2 int) bool {
	if !CheckServiceConflict(inst, assignment, s1) {
		return false
	}
	if s2 != s1 && !CheckServiceConflict(inst, assignment, s2) {
		return false
	}
	return true
}

// MachineLoadCost is the weighted overuse of m's resources above their
// soft safety limit.
func MachineLoadCost(inst *instance.Instance, m int, usage []int64) int64 {
	mach := inst.Machine(m)
	var cost int64
	for r := 0; r < inst.NumResources(); r++ {
		if over := usage[r] - mach.SafetyLimit[r]; over > 0 {
			cost += inst.Resource(r).LoadCostWeight * over
		}
	}
	return cost
}

// MachineBalanceCost is the weighted sum, over every balance
// objective, of how far m's free capacity of R2 falls short of
// TargetRatio times its free capacity of R1.
func MachineBalanceCost(inst *instance.Instance, m int, usage []int64) int64 {
	mach := inst.Machine(m)
	var cost int64
	for b := 0; b < inst.NumBalanceObjectives(); b++ {
		bo := inst.BalanceObjective(b)
		freeR1 := mach.Capacity[bo.R1] - usage[bo.R1]
		freeR2 := mach.Capacity[bo.R2] - usage[bo.R2]
		need := bo.TargetRatio * freeR1
		if deficit := need - freeR2; deficit > 0 {
			cost += bo.Weight * deficit
		}
	}
	return cost
}
