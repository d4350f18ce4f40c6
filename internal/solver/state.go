// Package solver implements the incremental pair-swap local search.
// It owns the mutable assignment and every piece of derived state
// (usage, machineProcesses, locSpreadCount, distinctLocations,
// movedCount) that lets a candidate swap's feasibility and profit be
// evaluated in time proportional to the resources the swap touches,
// not to the size of the whole instance. The central invariant is
// that ApplySwap is its own inverse: applying the same Swap twice in
// a row restores every piece of derived state bit for bit.
package solver

import "github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"

// State is the solver's mutable view of one problem: the current
// assignment plus everything derived from it. The solver is the
// State's sole owner; nothing else may mutate it concurrently.
type State struct {
	inst *instance.Instance

	// Assignment is the current A[p] = m mapping. Exported so callers
	// (fullcheck, the writer, tests) can read the result directly;
	// only ApplySwap may mutate it.
	Assignment []int

	usage            [][]int64
	machineProcesses []map[int]struct{}
	locSpreadCount   [][]int
	distinctLocations []int
	movedCount        []int
}

// NewState builds the initial derived state for inst, starting from
// its initial assignment.
func NewState(inst *instance.Instance) *State {
	nM, nR, nS := inst.NumMachines(), inst.NumResources(), inst.NumServices()

	st := &State{
		inst:              inst,
		Assignment:        append([]int(nil), inst.Initial()...),
		usage:             make([][]int64, nM),
		machineProcesses:  make([]map[int]struct{}, nM),
		locSpreadCount:    make([][]int, nS),
		distinctLocations: make([]int, nS),
		movedCount:        make([]int, nS),
	}

	for m := 0; m < nM; m++ {
		st.usage[m] = make([]int64, nR)
		procs := inst.InitialMachineProcesses(m)
		set := make(map[int]struct{}, len(procs))
		for _, p := range procs {
			set[p] = struct{}{}
			req := inst.Process(p).Requirement
			for r, v := range req {
				st.usage[m][r] += v
			}
		}
		st.machineProcesses[m] = set
	}

	for s := 0; s < nS; s++ {
		st.locSpreadCount[s] = make([]int, inst.NumLocations())
		for _, p := range inst.Service(s).Processes {
			loc := inst.Machine(st.Assignment[p]).LocationID
			if st.locSpreadCount[s][loc] == 0 {
				st.distinctLocations[s]++
			}
			st.locSpreadCount[s][loc]++
		}
		// movedCount starts at 0: Assignment equals the initial
		// assignment until the first ApplySwap.
	}

	return st
}

// Usage returns machine m's current per-resource usage vector.
// Read-only; callers must not mutate the returned slice.
func (st *State) Usage(m int) []int64 { return st.usage[m] }

// DistinctLocations returns service s's current distinct-location
// count.
func (st *State) DistinctLocations(s int) int { return st.distinctLocations[s] }

// MovedCount returns the number of service s's processes currently
// off their initial machine.
func (st *State) MovedCount(s int) int { return st.movedCount[s] }

// MaxMovedCount returns max_s MovedCount(s), the quantity the
// service-move cost term penalizes.
func (st *State) MaxMovedCount() int {
	max := 0
	for _, c := range st.movedCount {
		if c > max {
			max = c
		}
	}
	return max
}

// MachineProcessCount returns how many processes currently sit on m.
func (st *State) MachineProcessCount(m int) int { return len(st.machineProcesses[m]) }

// HasProcess reports whether process p is currently recorded as being
// on machine m in the machineProcesses set.
func (st *State) HasProcess(m, p int) bool {
	_, ok := st.machineProcesses[m][p]
	return ok
}
