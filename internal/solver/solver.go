package solver

import (
	"context"
	"time"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/fullcheck"
	"github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"
)

// totalCost recomputes the full cost of the current assignment via
// fullcheck. Only used for progress reporting, which is opt-in and
// off the hot path.
func (st *State) totalCost(inst *instance.Instance) int64 {
	return fullcheck.Check(inst, st.Assignment).TotalCost
}

// DefaultDeadline is the wall-clock budget used when the caller does
// not supply one, matching the reference's hard-coded 30 minutes
// (made a parameter here per the spec's own Open Question).
const DefaultDeadline = 30 * time.Minute

// Result is what Run hands back: the best assignment found and
// whether the search stopped because of the deadline rather than
// running out of improving swaps to try.
type Result struct {
	Assignment  []int
	DeadlineHit bool
}

// Progress is one data point recorded by an OnIteration hook: the
// total cost, per the full-checker, after a given round of the two
// alternating passes.
type Progress struct {
	Iteration int
	TotalCost int64
}

// Option configures a Run call beyond its required context and
// instance, following the Config-struct convention used elsewhere in
// this codebase for optional behavior.
type Option func(*runConfig)

type runConfig struct {
	onIteration func(Progress)
}

// WithOnIteration registers a callback invoked once per completed
// intra+best-fit round with the assignment's total cost, letting a
// caller (the report package's convergence chart) record the search's
// trajectory without the solver depending on it directly.
func WithOnIteration(f func(Progress)) Option {
	return func(c *runConfig) { c.onIteration = f }
}

// Run repeatedly alternates an intra-service first-improvement pass
// with an inter-service best-improvement-per-process pass until ctx
// is done or a full round applies no strictly profitable swap. It
// never fails: it returns the current assignment, which is the
// initial one only if no swap was applied. Swaps applied before the
// deadline stay applied, and the best-fit pass also applies
// zero-profit swaps, so the result can differ from the initial
// assignment even when no swap lowered the cost.
func Run(ctx context.Context, inst *instance.Instance, opts ...Option) Result {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	st := NewState(inst)

	for iteration := 0; ; iteration++ {
		select {
		case <-ctx.Done():
			return Result{Assignment: append([]int(nil), st.Assignment...), DeadlineHit: true}
		default:
		}

		improvedIntra, hitDeadline := st.swapProcessesIntraServices(ctx, inst)
		if hitDeadline {
			return Result{Assignment: append([]int(nil), st.Assignment...), DeadlineHit: true}
		}

		improvedBestFit, hitDeadline := st.swapProcessesBruteForceAsBestFit(ctx, inst)
		if hitDeadline {
			return Result{Assignment: append([]int(nil), st.Assignment...), DeadlineHit: true}
		}

		if cfg.onIteration != nil {
			cfg.onIteration(Progress{Iteration: iteration, TotalCost: st.totalCost(inst)})
		}

		if !improvedIntra && !improvedBestFit {
			return Result{Assignment: append([]int(nil), st.Assignment...), DeadlineHit: false}
		}
	}
}

// swapProcessesIntraServices is the cheap first-improvement pass: for
// every ordered pair (p1, p2) with p1 > p2 in the same service, apply
// the swap immediately the moment it is valid and profitable.
func (st *State) swapProcessesIntraServices(ctx context.Context, inst *instance.Instance) (improved bool, hitDeadline bool) {
	for s := 0; s < inst.NumServices(); s++ {
		procs := inst.Service(s).Processes
		for i := 0; i < len(procs); i++ {
			for j := 0; j < i; j++ {
				select {
				case <-ctx.Done():
					return improved, true
				default:
				}

				p1, p2 := procs[i], procs[j]
				if p1 == p2 || st.Assignment[p1] == st.Assignment[p2] {
					continue
				}
				if !st.IsSwapValid(p1, p2, true) {
					continue
				}
				if profit := st.GetSwapProfit(p1, p2); profit > 0 {
					st.ApplySwap(p1, p2)
					improved = true
				}
			}
		}
	}
	return improved, false
}

// swapProcessesBruteForceAsBestFit is the expensive best-improvement
// pass: for each p1 in index order, scan every p2 and apply the best
// valid swap found for that p1, provided its profit is non-negative
// (matching the reference, which seeds bestProfit at 0 and keeps a
// candidate only once profit >= bestProfit — so a zero-profit swap is
// applied exactly like a strictly profitable one). Ties go to the most
// recently examined candidate, matching the reference's `>=`
// comparison. improved only reports strictly profitable swaps, since a
// zero-profit swap leaves TotalCost unchanged.
func (st *State) swapProcessesBruteForceAsBestFit(ctx context.Context, inst *instance.Instance) (improved bool, hitDeadline bool) {
	nP := inst.NumProcesses()
	for p1 := 0; p1 < nP; p1++ {
		bestP2 := -1
		var bestProfit int64

		for p2 := 0; p2 < nP; p2++ {
			select {
			case <-ctx.Done():
				return improved, true
			default:
			}

			if p1 == p2 || st.Assignment[p1] == st.Assignment[p2] {
				continue
			}
			intra := inst.Process(p1).ServiceID == inst.Process(p2).ServiceID
			if !st.IsSwapValid(p1, p2, intra) {
				continue
			}
			profit := st.GetSwapProfit(p1, p2)
			if profit >= bestProfit {
				bestP2, bestProfit = p2, profit
			}
		}

		if bestP2 != -1 {
			st.ApplySwap(p1, bestP2)
			if bestProfit > 0 {
				improved = true
			}
		}
	}
	return improved, false
}
