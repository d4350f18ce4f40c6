package microcheck_test

import (
	"testing"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/microcheck"
)

func mustInstance(t *testing.T, resources []instance.Resource, machines []instance.Machine, processes []instance.Process, services []instance.Service, balance []instance.BalanceObjective, weights instance.Weights, initial []int) *instance.Instance {
	t.Helper()
	inst, err := instance.New(resources, machines, processes, services, balance, weights, initial)
	if err != nil {
		t.Fatalf("instance.New: %v", err)
	}
	return inst
}

func TestCheckMachineCapacity(t *testing.T) {
	inst := mustInstance(t,
		[]instance.Resource{{LoadCostWeight: 1}},
		[]instance.Machine{{Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0}}},
		nil, nil, nil, instance.Weights{}, nil)

	if !microcheck.CheckMachineCapacity(inst, 0, []int64{10}) {
		t.Error("usage at capacity should pass")
	}
	if microcheck.CheckMachineCapacity(inst, 0, []int64{11}) {
		t.Error("usage over capacity should fail")
	}
}

func TestCheckServiceConflict(t *testing.T) {
	inst := mustInstance(t,
		[]instance.Resource{{LoadCostWeight: 1}},
		[]instance.Machine{
			{Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0, 0}},
			{Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0, 0}},
		},
		[]instance.Process{
			{ServiceID: 0, Requirement: []int64{1}},
			{ServiceID: 0, Requirement: []int64{1}},
		},
		[]instance.Service{{SpreadMin: 1}},
		nil, instance.Weights{}, []int{0, 1})

	if !microcheck.CheckServiceConflict(inst, []int{0, 1}, 0) {
		t.Error("distinct machines should not conflict")
	}
	if microcheck.CheckServiceConflict(inst, []int{0, 0}, 0) {
		t.Error("same machine should conflict")
	}
}

func TestCheckServiceSpread(t *testing.T) {
	inst := mustInstance(t,
		[]instance.Resource{{LoadCostWeight: 1}},
		[]instance.Machine{{Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0}}},
		nil,
		[]instance.Service{{SpreadMin: 2}},
		nil, instance.Weights{}, nil)

	if microcheck.CheckServiceSpread(inst, 0, 1) {
		t.Error("distinctLocations below spreadMin should fail")
	}
	if !microcheck.CheckServiceSpread(inst, 0, 2) {
		t.Error("distinctLocations at spreadMin should pass")
	}
}

func TestCheckServiceDependency(t *testing.T) {
	machines := []instance.Machine{
		{NeighbourhoodID: 0, Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0, 0}},
		{NeighbourhoodID: 1, Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0, 0}},
	}
	processes := []instance.Process{
		{ServiceID: 0, Requirement: []int64{1}}, // dependent
		{ServiceID: 1, Requirement: []int64{1}}, // dependency
	}
	services := []instance.Service{
		{SpreadMin: 1, Dependencies: []int{1}},
		{SpreadMin: 1},
	}
	inst := mustInstance(t, []instance.Resource{{LoadCostWeight: 1}}, machines, processes, services, nil, instance.Weights{}, []int{0, 1})

	if microcheck.CheckServiceDependency(inst, []int{0, 1}, 0) {
		t.Error("different neighbourhoods should violate dependency")
	}
	if !microcheck.CheckServiceDependency(inst, []int{0, 0}, 0) {
		t.Error("same neighbourhood should satisfy dependency")
	}
}

func TestCheckMachineTransient(t *testing.T) {
	resources := []instance.Resource{{Transient: true, LoadCostWeight: 1}}
	machines := []instance.Machine{
		{Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0, 0}},
		{Capacity: []int64{10}, SafetyLimit: []int64{10}, MoveCostTo: []int64{0, 0}},
	}
	processes := []instance.Process{{ServiceID: 0, Requirement: []int64{6}}}
	services := []instance.Service{{SpreadMin: 1}}
	inst := mustInstance(t, resources, machines, processes, services, nil, instance.Weights{}, []int{0})

	// process 0 moved from machine 0 to machine 1: machine 0's transient
	// usage still counts the departed process's requirement.
	assignment := []int{1}
	if microcheck.CheckMachineTransient(inst, assignment, 0, []int64{0}) == false {
		t.Error("machine 0 at usage 0 plus departed 6 should still fit capacity 10")
	}

	// A further process requiring more than 4 would overflow machine 0's
	// remaining transient headroom (10 - 6 = 4).
	if microcheck.CheckMachineTransient(inst, assignment, 0, []int64{5}) {
		t.Error("machine 0 usage 5 plus departed 6 should exceed capacity 10")
	}
}

func TestMachineLoadCost(t *testing.T) {
	inst := mustInstance(t,
		[]instance.Resource{{LoadCostWeight: 2}},
		[]instance.Machine{{Capacity: []int64{10}, SafetyLimit: []int64{5}, MoveCostTo: []int64{0}}},
		nil, nil, nil, instance.Weights{}, nil)

	if got, want := microcheck.MachineLoadCost(inst, 0, []int64{8}), int64(6); got != want {
		t.Errorf("MachineLoadCost = %d, want %d", got, want)
	}
	if got, want := microcheck.MachineLoadCost(inst, 0, []int64{3}), int64(0); got != want {
		t.Errorf("MachineLoadCost (under safety limit) = %d, want %d", got, want)
	}
}

func TestMachineBalanceCost(t *testing.T) {
	inst := mustInstance(t,
		[]instance.Resource{{LoadCostWeight: 1}, {LoadCostWeight: 1}},
		[]instance.Machine{{Capacity: []int64{10, 10}, SafetyLimit: []int64{10, 10}, MoveCostTo: []int64{0}}},
		nil, nil,
		[]instance.BalanceObjective{{R1: 0, R2: 1, TargetRatio: 2, Weight: 3}},
		instance.Weights{}, nil)

	// free(r1)=10-2=8, free(r2)=10-9=1, need=2*8=16, deficit=15, cost=3*15=45
	got := microcheck.MachineBalanceCost(inst, 0, []int64{2, 9})
	if want := int64(45); got != want {
		t.Errorf("MachineBalanceCost = %d, want %d", got, want)
	}
}
