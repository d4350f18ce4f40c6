// Package parse reads the ASCII instance and assignment file formats
// into an *instance.Instance. Both formats are whitespace-separated
// integers on newline-delimited records, parsed in a fixed order; see
// Instance for the exact grammar.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"k8s.io/klog/v2"

	"github.com/AllergicMushroom/RoadefChallenge2012/internal/instance"
)

const (
	recommendedMaxMachines          = 5000
	recommendedMaxProcesses         = 50000
	recommendedMaxResources         = 20
	recommendedMaxBalanceObjectives = 10
)

// lineScanner walks an instance file one logical record at a time,
// tracking a line number for error messages.
type lineScanner struct {
	sc   *bufio.Scanner
	line int
}

func newLineScanner(r io.Reader) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &lineScanner{sc: sc}
}

func (ls *lineScanner) next() (string, bool) {
	if !ls.sc.Scan() {
		return "", false
	}
	ls.line++
	return ls.sc.Text(), true
}

func (ls *lineScanner) fields() ([]string, error) {
	text, ok := ls.next()
	if !ok {
		return nil, fmt.Errorf("parse: unexpected end of file at line %d", ls.line+1)
	}
	return strings.Fields(text), nil
}

func (ls *lineScanner) ints(want int) ([]int64, error) {
	fields, err := ls.fields()
	if err != nil {
		return nil, err
	}
	if len(fields) < want {
		return nil, fmt.Errorf("parse: line %d has %d fields, want at least %d", ls.line, len(fields), want)
	}
	out := make([]int64, want)
	for i := 0; i < want; i++ {
		v, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse: line %d field %d (%q): %w", ls.line, i, fields[i], err)
		}
		out[i] = v
	}
	return out, nil
}

func (ls *lineScanner) count() (int, error) {
	fields, err := ls.fields()
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, fmt.Errorf("parse: line %d: expected a count, got an empty line", ls.line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("parse: line %d: invalid count %q: %w", ls.line, fields[0], err)
	}
	if n < 0 {
		return 0, fmt.Errorf("parse: line %d: negative count %d", ls.line, n)
	}
	return n, nil
}

// ParsedInstance holds the components read from an instance file,
// before they are combined with an initial assignment (read from a
// separate file) to build an *instance.Instance.
type ParsedInstance struct {
	Resources []instance.Resource
	Machines  []instance.Machine
	Services  []instance.Service
	Processes []instance.Process
	Balance   []instance.BalanceObjective
	Weights   instance.Weights
}

// Instance reads the instance-file format from r: resources, machines,
// services, processes, balance objectives (two lines each, the
// historical ROADEF quirk), then weights, always in that order.
func Instance(r io.Reader) (ParsedInstance, error) {
	ls := newLineScanner(r)

	nR, err := ls.count()
	if err != nil {
		return ParsedInstance{}, fmt.Errorf("parse: resources count: %w", err)
	}
	resources := make([]instance.Resource, nR)
	for i := 0; i < nR; i++ {
		vals, err := ls.ints(2)
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: resource %d: %w", i, err)
		}
		resources[i] = instance.Resource{Transient: vals[0] == 1, LoadCostWeight: vals[1]}
	}

	nM, err := ls.count()
	if err != nil {
		return ParsedInstance{}, fmt.Errorf("parse: machines count: %w", err)
	}
	machines := make([]instance.Machine, nM)
	for i := 0; i < nM; i++ {
		want := 2 + 2*nR + nM
		vals, err := ls.ints(want)
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: machine %d: %w", i, err)
		}
		neighbourhood, location := int(vals[0]), int(vals[1])
		capacity := append([]int64(nil), vals[2:2+nR]...)
		safety := append([]int64(nil), vals[2+nR:2+2*nR]...)
		moveCost := append([]int64(nil), vals[2+2*nR:2+2*nR+nM]...)
		machines[i] = instance.Machine{
			LocationID:      location,
			NeighbourhoodID: neighbourhood,
			Capacity:        capacity,
			SafetyLimit:     safety,
			MoveCostTo:      moveCost,
		}
	}

	nS, err := ls.count()
	if err != nil {
		return ParsedInstance{}, fmt.Errorf("parse: services count: %w", err)
	}
	services := make([]instance.Service, nS)
	for i := 0; i < nS; i++ {
		fields, err := ls.fields()
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: service %d: %w", i, err)
		}
		if len(fields) < 2 {
			return ParsedInstance{}, fmt.Errorf("parse: service %d: want at least 2 fields, got %d", i, len(fields))
		}
		spreadMin, err := strconv.Atoi(fields[0])
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: service %d spreadMin: %w", i, err)
		}
		nDep, err := strconv.Atoi(fields[1])
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: service %d nDep: %w", i, err)
		}
		if len(fields) < 2+nDep {
			return ParsedInstance{}, fmt.Errorf("parse: service %d: declares %d dependencies but line has only %d fields", i, nDep, len(fields)-2)
		}
		deps := make([]int, nDep)
		for j := 0; j < nDep; j++ {
			d, err := strconv.Atoi(fields[2+j])
			if err != nil {
				return ParsedInstance{}, fmt.Errorf("parse: service %d dependency %d: %w", i, j, err)
			}
			deps[j] = d
		}
		services[i] = instance.Service{SpreadMin: spreadMin, Dependencies: deps}
	}

	nP, err := ls.count()
	if err != nil {
		return ParsedInstance{}, fmt.Errorf("parse: processes count: %w", err)
	}
	processes := make([]instance.Process, nP)
	for i := 0; i < nP; i++ {
		want := 1 + nR + 1
		vals, err := ls.ints(want)
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: process %d: %w", i, err)
		}
		processes[i] = instance.Process{
			ServiceID:   int(vals[0]),
			Requirement: append([]int64(nil), vals[1:1+nR]...),
			MoveCost:    vals[1+nR],
		}
	}

	nB, err := ls.count()
	if err != nil {
		return ParsedInstance{}, fmt.Errorf("parse: balance objectives count: %w", err)
	}
	balance := make([]instance.BalanceObjective, nB)
	for i := 0; i < nB; i++ {
		// The historical quirk: each balance objective spans two
		// lines, "r1 r2 target" then "weight" on its own line.
		head, err := ls.ints(3)
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: balance objective %d (r1 r2 target line): %w", i, err)
		}
		tail, err := ls.ints(1)
		if err != nil {
			return ParsedInstance{}, fmt.Errorf("parse: balance objective %d (weight line): %w", i, err)
		}
		balance[i] = instance.BalanceObjective{
			R1:          int(head[0]),
			R2:          int(head[1]),
			TargetRatio: head[2],
			Weight:      tail[0],
		}
	}

	weightVals, err := ls.ints(3)
	if err != nil {
		return ParsedInstance{}, fmt.Errorf("parse: weights: %w", err)
	}
	weights := instance.Weights{
		ProcessMoveWeight: weightVals[0],
		ServiceMoveWeight: weightVals[1],
		MachineMoveWeight: weightVals[2],
	}

	warnSizeLimits(nM, nP, nR, nB)

	return ParsedInstance{
		Resources: resources,
		Machines:  machines,
		Services:  services,
		Processes: processes,
		Balance:   balance,
		Weights:   weights,
	}, nil
}

// Build combines a ParsedInstance with an initial assignment into an
// *instance.Instance, running the full cross-reference validation in
// instance.New.
func (pi ParsedInstance) Build(initial []int) (*instance.Instance, error) {
	return instance.New(pi.Resources, pi.Machines, pi.Processes, pi.Services, pi.Balance, pi.Weights, initial)
}

func warnSizeLimits(nM, nP, nR, nB int) {
	if nM > recommendedMaxMachines {
		klog.Warningf("parse: instance has %d machines, exceeding the recommended limit of %d", nM, recommendedMaxMachines)
	}
	if nP > recommendedMaxProcesses {
		klog.Warningf("parse: instance has %d processes, exceeding the recommended limit of %d", nP, recommendedMaxProcesses)
	}
	if nR > recommendedMaxResources {
		klog.Warningf("parse: instance has %d resources, exceeding the recommended limit of %d", nR, recommendedMaxResources)
	}
	if nB > recommendedMaxBalanceObjectives {
		klog.Warningf("parse: instance has %d balance objectives, exceeding the recommended limit of %d", nB, recommendedMaxBalanceObjectives)
	}
}

// Assignment reads the assignment-file format: a single line of
// space-separated machine ids, tolerating a trailing space.
func Assignment(r io.Reader) ([]int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("parse: reading assignment: %w", err)
		}
		return nil, fmt.Errorf("parse: assignment file is empty")
	}
	fields := strings.Fields(sc.Text())
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("parse: assignment field %d (%q): %w", i, f, err)
		}
		out[i] = v
	}
	return out, nil
}

// Load opens an instance file and an initial-assignment file by path
// and builds the combined *instance.Instance, the convenience path both
// CLI subcommands use for their instance and initial-assignment files.
func Load(instancePath, assignmentPath string) (*instance.Instance, error) {
	instFile, err := os.Open(instancePath)
	if err != nil {
		return nil, fmt.Errorf("parse: opening instance file: %w", err)
	}
	defer instFile.Close()

	parsed, err := Instance(instFile)
	if err != nil {
		return nil, fmt.Errorf("parse: %s: %w", instancePath, err)
	}

	assignFile, err := os.Open(assignmentPath)
	if err != nil {
		return nil, fmt.Errorf("parse: opening assignment file: %w", err)
	}
	defer assignFile.Close()

	initial, err := Assignment(assignFile)
	if err != nil {
		return nil, fmt.Errorf("parse: %s: %w", assignmentPath, err)
	}

	inst, err := parsed.Build(initial)
	if err != nil {
		return nil, fmt.Errorf("parse: %s + %s: %w", instancePath, assignmentPath, err)
	}
	return inst, nil
}
