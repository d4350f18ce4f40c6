// Package instance holds the immutable, parsed view of a Machine
// Reassignment Problem: resources, machines, processes, services,
// balance objectives, move-cost weights and the initial assignment.
// Everything here is built once by New and never mutated afterwards;
// all derived, mutable search state lives in package solver.
package instance

import "fmt"

// Instance is the read-only model of one problem. All ids are dense
// array indices validated at construction time.
type Instance struct {
	resources []Resource
	machines  []Machine
	processes []Process
	services  []Service
	balance   []BalanceObjective
	weights   Weights
	initial   []int

	transientResources []int
	numLocations       int
	numNeighbourhoods  int

	// initialMachineProcesses[m] is the set of process ids assigned to
	// m in the initial assignment, precomputed once.
	initialMachineProcesses [][]int
}

// New assembles an Instance from its parsed parts, validating that
// every cross-reference (process.ServiceID, service.Dependencies,
// initial[p] as a machine id, balance objective resource ids) is in
// range. Service.Processes on the input services is ignored; New rebuilds
// Service.Processes from each process's declared ServiceID so callers
// only need to supply SpreadMin and Dependencies per service.
func New(resources []Resource, machines []Machine, processes []Process, services []Service, balance []BalanceObjective, weights Weights, initial []int) (*Instance, error) {
	nR, nM, nP, nS := len(resources), len(machines), len(processes), len(services)

	if len(initial) != nP {
		return nil, fmt.Errorf("instance: initial assignment has %d entries, want %d (process count)", len(initial), nP)
	}

	for m, mach := range machines {
		if len(mach.Capacity) != nR || len(mach.SafetyLimit) != nR {
			return nil, fmt.Errorf("instance: machine %d has %d/%d capacity/safety entries, want %d resources", m, len(mach.Capacity), len(mach.SafetyLimit), nR)
		}
		if len(mach.MoveCostTo) != nM {
			return nil, fmt.Errorf("instance: machine %d has %d move-cost entries, want %d machines", m, len(mach.MoveCostTo), nM)
		}
	}

	svcProcesses := make([][]int, nS)
	for p, proc := range processes {
		if proc.ServiceID < 0 || proc.ServiceID >= nS {
			return nil, fmt.Errorf("instance: process %d references out-of-range service %d", p, proc.ServiceID)
		}
		if len(proc.Requirement) != nR {
			return nil, fmt.Errorf("instance: process %d has %d requirement entries, want %d resources", p, len(proc.Requirement), nR)
		}
		svcProcesses[proc.ServiceID] = append(svcProcesses[proc.ServiceID], p)
	}

	out := make([]Service, nS)
	for s, svc := range services {
		for _, dep := range svc.Dependencies {
			if dep < 0 || dep >= nS {
				return nil, fmt.Errorf("instance: service %d depends on out-of-range service %d", s, dep)
			}
		}
		out[s] = Service{
			SpreadMin:    svc.SpreadMin,
			Processes:    svcProcesses[s],
			Dependencies: svc.Dependencies,
		}
	}

	for b, bo := range balance {
		if bo.R1 < 0 || bo.R1 >= nR || bo.R2 < 0 || bo.R2 >= nR {
			return nil, fmt.Errorf("instance: balance objective %d references out-of-range resource (%d,%d)", b, bo.R1, bo.R2)
		}
	}

	numLocations, numNeighbourhoods := 0, 0
	for _, mach := range machines {
		if mach.LocationID+1 > numLocations {
			numLocations = mach.LocationID + 1
		}
		if mach.NeighbourhoodID+1 > numNeighbourhoods {
			numNeighbourhoods = mach.NeighbourhoodID + 1
		}
	}

	initialMachineProcesses := make([][]int, nM)
	for p, m := range initial {
		if m < 0 || m >= nM {
			return nil, fmt.Errorf("instance: initial assignment for process %d references out-of-range machine %d", p, m)
		}
		initialMachineProcesses[m] = append(initialMachineProcesses[m], p)
	}

	var transient []int
	for r, res := range resources {
		if res.Transient {
			transient = append(transient, r)
		}
	}

	return &Instance{
		resources:               resources,
		machines:                machines,
		processes:               processes,
		services:                out,
		balance:                 balance,
		weights:                 weights,
		initial:                 initial,
		transientResources:      transient,
		numLocations:            numLocations,
		numNeighbourhoods:       numNeighbourhoods,
		initialMachineProcesses: initialMachineProcesses,
	}, nil
}

func (in *Instance) NumResources() int         { return len(in.resources) }
func (in *Instance) NumMachines() int          { return len(in.machines) }
func (in *Instance) NumProcesses() int         { return len(in.processes) }
func (in *Instance) NumServices() int          { return len(in.services) }
func (in *Instance) NumBalanceObjectives() int { return len(in.balance) }
func (in *Instance) NumLocations() int         { return in.numLocations }
func (in *Instance) NumNeighbourhoods() int    { return in.numNeighbourhoods }

func (in *Instance) Resource(r int) Resource { return in.resources[r] }
func (in *Instance) Machine(m int) Machine   { return in.machines[m] }
func (in *Instance) Process(p int) Process   { return in.processes[p] }
func (in *Instance) Service(s int) Service   { return in.services[s] }
func (in *Instance) BalanceObjective(b int) BalanceObjective {
	return in.balance[b]
}
func (in *Instance) Weights() Weights { return in.weights }

// Initial returns the problem's initial assignment. Callers must treat
// the returned slice as read-only; it is the instance's own backing
// array, not a copy.
func (in *Instance) Initial() []int { return in.initial }

// TransientResources returns the ids of resources flagged transient,
// in ascending order.
func (in *Instance) TransientResources() []int { return in.transientResources }

// InitialMachineProcesses returns the set of process ids assigned to m
// in the initial assignment. Read-only; callers that build their own
// mutable derived state should copy it.
func (in *Instance) InitialMachineProcesses(m int) []int {
	return in.initialMachineProcesses[m]
}
