package fsdgs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusTimeLimit
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusTimeLimit:
		return "TIME_LIMIT"
	case StatusFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// RawSolution is what a back end reports for a model: a status and, when
// optimal, one value per column.
type RawSolution struct {
	Status    Status
	Values    []float64
	Objective float64
	// Detail carries the back end's own status name.
	Detail string
}

type Solver interface {
	Name() string
	Solve(m *Model) (*RawSolution, error)
}

type Options struct {
	// TimeLimit bounds one solve; 0 means no limit.
	TimeLimit time.Duration
	Verbose   bool
}

// SolverNames lists the back ends NewSolver accepts, default first.
var SolverNames = []string{"highs", "lpsolve"}

func NewSolver(name string, opts Options) (Solver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "highs":
		return &HighsSolver{Options: opts}, nil
	case "lpsolve", "lp_solve", "golp":
		return &LPSolveSolver{Options: opts}, nil
	default:
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownSolver, name, strings.Join(SolverNames, ", "))
	}
}

// vacuousSolution is the optimum of an instance without groups or machines:
// every slot keeps its own group and nothing takes time.
func vacuousSolution(inst *Instance) *Solution {
	sol := &Solution{Sequence: identity(inst.NumGroups), Solver: "none"}
	if inst.NumGroups > 0 {
		sol.Assignment = mat.NewDense(inst.NumGroups, inst.NumGroups, nil)
		for i := range inst.NumGroups {
			sol.Assignment.Set(i, i, 1)
		}
	}
	return sol
}

// Solve formulates inst, runs solver on it and decodes the optimum.
// Infeasible and unbounded models yield ErrInfeasible and ErrUnbounded; any
// other non-optimal termination yields a *StatusError.
func Solve(inst *Instance, solver Solver) (*Solution, error) {
	f, err := BuildModel(inst)
	if errors.Is(err, ErrVacuous) {
		glog.V(1).Infof("instance %q is vacuous, makespan is 0", inst.Name)
		return vacuousSolution(inst), nil
	}
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("model %q: %d columns, %d rows, %d jobs", f.Model.Name, f.Model.NumCols(), f.Model.NumRows(), sum(inst.JobCounts))

	start := time.Now()
	raw, err := solver.Solve(f.Model)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", solver.Name(), err)
	}
	glog.V(1).Infof("%s finished in %v with status %v", solver.Name(), elapsed, raw.Status)

	switch raw.Status {
	case StatusOptimal:
	case StatusInfeasible:
		return nil, ErrInfeasible
	case StatusUnbounded:
		return nil, ErrUnbounded
	default:
		return nil, &StatusError{Solver: solver.Name(), Status: raw.Status, Detail: raw.Detail}
	}

	sol, err := f.decode(raw.Values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", solver.Name(), err)
	}
	sol.Objective = raw.Objective
	sol.Solver = solver.Name()
	sol.Elapsed = elapsed
	return sol, nil
}
