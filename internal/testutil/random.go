// Package testutil generates random instances for tests that need to
// exercise the solver at a scale too large to hand-write, such as
// checking that a deadline is actually honored. Reproducibility comes
// from always seeding explicitly, the same convention the warm-start
// heuristic in the retrieval pack uses (rand.Seed keyed off a run
// parameter rather than wall-clock time).
package testutil

import (
	"golang.org/x/exp/rand"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"
)

// RandomConfig controls the shape of a generated instance. Zero values
// are not valid; callers should start from DefaultRandomConfig.
type RandomConfig struct {
	Seed              uint64
	NumResources      int
	NumMachines       int
	NumServices       int
	ProcessesPerServ  int
	NumLocations      int
	NumNeighbourhoods int
}

// DefaultRandomConfig returns a modest instance large enough to give
// the solver real work without being slow to check in a test.
func DefaultRandomConfig(seed uint64) RandomConfig {
	return RandomConfig{
		Seed:              seed,
		NumResources:      3,
		NumMachines:       40,
		NumServices:       20,
		ProcessesPerServ:  4,
		NumLocations:      4,
		NumNeighbourhoods: 4,
	}
}

// Random builds a feasible random instance: every process is placed,
// in the initial assignment, on a machine with enough spare capacity
// for it, so the initial assignment is always valid. Move costs are
// small positive integers so the solver has genuine swap incentives.
func Random(cfg RandomConfig) *instance.Instance {
	rng := rand.New(rand.NewSource(cfg.Seed))

	resources := make([]instance.Resource, cfg.NumResources)
	for r := range resources {
		resources[r] = instance.Resource{
			Transient:      r == 0 && cfg.NumResources > 1,
			LoadCostWeight: int64(1 + rng.Intn(5)),
		}
	}

	machines := make([]instance.Machine, cfg.NumMachines)
	for m := range machines {
		capacity := make([]int64, cfg.NumResources)
		safety := make([]int64, cfg.NumResources)
		for r := range capacity {
			capacity[r] = int64(50 + rng.Intn(50))
			safety[r] = capacity[r] - int64(rng.Intn(10))
		}
		moveCostTo := make([]int64, cfg.NumMachines)
		for to := range moveCostTo {
			if to != m {
				moveCostTo[to] = int64(1 + rng.Intn(10))
			}
		}
		machines[m] = instance.Machine{
			LocationID:      rng.Intn(cfg.NumLocations),
			NeighbourhoodID: rng.Intn(cfg.NumNeighbourhoods),
			Capacity:        capacity,
			SafetyLimit:     safety,
			MoveCostTo:      moveCostTo,
		}
	}

	usage := make([][]int64, cfg.NumMachines)
	for m := range usage {
		usage[m] = make([]int64, cfg.NumResources)
	}

	var processes []instance.Process
	var initial []int
	services := make([]instance.Service, cfg.NumServices)
	for s := range services {
		services[s] = instance.Service{SpreadMin: 1}
		taken := make(map[int]bool, cfg.ProcessesPerServ)
		for i := 0; i < cfg.ProcessesPerServ; i++ {
			req := make([]int64, cfg.NumResources)
			for r := range req {
				req[r] = int64(1 + rng.Intn(5))
			}

			m := placeWithCapacity(rng, machines, usage, req, taken)
			taken[m] = true
			for r, v := range req {
				usage[m][r] += v
			}

			processes = append(processes, instance.Process{
				ServiceID:   s,
				MoveCost:    int64(1 + rng.Intn(10)),
				Requirement: req,
			})
			initial = append(initial, m)
		}
	}

	weights := instance.Weights{
		ProcessMoveWeight: 1,
		ServiceMoveWeight: 5,
		MachineMoveWeight: 1,
	}

	inst, err := instance.New(resources, machines, processes, services, nil, weights, initial)
	if err != nil {
		// Random only ever builds internally-consistent slices; a
		// validation error here means this generator has a bug.
		panic("testutil: generated instance failed validation: " + err.Error())
	}
	return inst
}

// placeWithCapacity picks a uniformly random machine not in taken (the
// machines already holding a process of the same service), retrying up
// to a fixed number of times to find one with headroom for req before
// falling back to a linear scan for the first machine that fits.
func placeWithCapacity(rng *rand.Rand, machines []instance.Machine, usage [][]int64, req []int64, taken map[int]bool) int {
	const maxAttempts = 20
	for attempt := 0; attempt < maxAttempts; attempt++ {
		m := rng.Intn(len(machines))
		if !taken[m] && fits(machines[m], usage[m], req) {
			return m
		}
	}
	for m := range machines {
		if !taken[m] && fits(machines[m], usage[m], req) {
			return m
		}
	}
	panic("testutil: no machine has capacity for a generated process; increase NumMachines or capacity range")
}

func fits(m instance.Machine, used, req []int64) bool {
	for r := range req {
		if used[r]+req[r] > m.Capacity[r] {
			return false
		}
	}
	return true
}
