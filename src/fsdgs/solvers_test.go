package fsdgs

import (
	"bytes"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/draffensperger/golp"
	"github.com/google/go-cmp/cmp"
	"github.com/lanl/highs"
)

func TestNewSolver(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "highs"},
		{"highs", "highs"},
		{" HiGHS ", "highs"},
		{"lpsolve", "lpsolve"},
		{"lp_solve", "lpsolve"},
	}
	for _, tt := range tests {
		s, err := NewSolver(tt.name, Options{})
		if err != nil {
			t.Fatalf("NewSolver(%q) err = %v, want nil", tt.name, err)
		}
		if s.Name() != tt.want {
			t.Errorf("NewSolver(%q).Name() = %q, want %q", tt.name, s.Name(), tt.want)
		}
	}
	if _, err := NewSolver("gurobi", Options{}); !errors.Is(err, ErrUnknownSolver) {
		t.Errorf("NewSolver(gurobi) err = %v, want ErrUnknownSolver", err)
	}
}

func TestSolveStatusMapping(t *testing.T) {
	backendErr := errors.New("license expired")
	tests := []struct {
		name   string
		raw    *RawSolution
		err    error
		target error
		status Status
	}{
		{name: "infeasible", raw: &RawSolution{Status: StatusInfeasible}, target: ErrInfeasible},
		{name: "unbounded", raw: &RawSolution{Status: StatusUnbounded}, target: ErrUnbounded},
		{name: "time limit", raw: &RawSolution{Status: StatusTimeLimit, Detail: "Time limit reached"}, status: StatusTimeLimit},
		{name: "failed", raw: &RawSolution{Status: StatusFailed}, status: StatusFailed},
		{name: "backend error", err: backendErr, target: backendErr},
		{name: "short solution", raw: &RawSolution{Status: StatusOptimal, Values: []float64{1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Solve(ReferenceInstance(), &fakeSolver{raw: tt.raw, err: tt.err})
			if err == nil {
				t.Fatalf("Solve() err = nil, want error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Solve() err = %v, want %v", err, tt.target)
			}
			if tt.status != StatusUnknown {
				var statusErr *StatusError
				if !errors.As(err, &statusErr) || statusErr.Status != tt.status {
					t.Errorf("Solve() err = %v, want StatusError with %v", err, tt.status)
				}
			}
		})
	}
}

func TestSolveDecodesFakeOptimum(t *testing.T) {
	inst := ReferenceInstance()
	f, err := BuildModel(inst)
	if err != nil {
		t.Fatalf("BuildModel() err = %v, want nil", err)
	}
	fake := &fakeSolver{raw: &RawSolution{Status: StatusOptimal, Values: pointFor(t, inst, f, []int{1, 0}), Objective: 16}}
	sol, err := Solve(inst, fake)
	if err != nil {
		t.Fatalf("Solve() err = %v, want nil", err)
	}
	if diff := cmp.Diff([]int{1, 0}, sol.Sequence); diff != "" {
		t.Errorf("Sequence mismatch (-want +got):\n%s", diff)
	}
	if sol.Makespan != 16 || sol.Objective != 16 || sol.Solver != "fake" {
		t.Errorf("Solve() = %v, want makespan 16 from fake", sol)
	}
	if fake.model.NumCols() != f.Model.NumCols() {
		t.Errorf("solver saw %d columns, want %d", fake.model.NumCols(), f.Model.NumCols())
	}
	if err := Verify(inst, sol); err != nil {
		t.Errorf("Verify() err = %v, want nil", err)
	}
}

func TestSolveVacuousSkipsSolver(t *testing.T) {
	for _, inst := range []*Instance{NewInstance(0, 0), NewInstance(0, 2), NewInstance(3, 0)} {
		fake := &fakeSolver{err: errors.New("must not be called")}
		sol, err := Solve(inst, fake)
		if err != nil {
			t.Fatalf("Solve(%d x %d) err = %v, want nil", inst.NumGroups, inst.NumMachines, err)
		}
		if fake.model != nil {
			t.Errorf("Solve(%d x %d) called the solver", inst.NumGroups, inst.NumMachines)
		}
		if sol.Makespan != 0 {
			t.Errorf("Solve(%d x %d).Makespan = %v, want 0", inst.NumGroups, inst.NumMachines, sol.Makespan)
		}
		if err := Verify(inst, sol); err != nil {
			t.Errorf("Verify() err = %v, want nil", err)
		}
	}
}

func TestSolveRejectsInvalidData(t *testing.T) {
	inst := ReferenceInstance()
	inst.SetSetup(0, 0, []float64{1, 1})
	fake := &fakeSolver{}
	if _, err := Solve(inst, fake); !errors.Is(err, ErrInvalidData) {
		t.Errorf("Solve() err = %v, want ErrInvalidData", err)
	}
	if fake.model != nil {
		t.Errorf("Solve() called the solver on invalid data")
	}
}

func TestBackendStatus(t *testing.T) {
	lpSolve := []struct {
		in   golp.SolutionType
		want Status
	}{
		{golp.OPTIMAL, StatusOptimal},
		{golp.INFEASIBLE, StatusInfeasible},
		{golp.UNBOUNDED, StatusUnbounded},
		{golp.SUBOPTIMAL, StatusTimeLimit},
		{golp.TIMEOUT, StatusTimeLimit},
		{golp.NUMFAILURE, StatusFailed},
	}
	for _, tt := range lpSolve {
		if got := lpSolveStatus(tt.in); got != tt.want {
			t.Errorf("lpSolveStatus(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}

	hiGHS := []struct {
		in   highs.ModelStatus
		want Status
	}{
		{highs.Optimal, StatusOptimal},
		{highs.Infeasible, StatusInfeasible},
		{highs.Unbounded, StatusUnbounded},
		{highs.TimeLimit, StatusTimeLimit},
		{highs.UnboundedOrInfeasible, StatusFailed},
	}
	for _, tt := range hiGHS {
		if got := highsStatus(tt.in); got != tt.want {
			t.Errorf("highsStatus(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// The tests below run the real back ends.

func TestSolveWithTimeLimit(t *testing.T) {
	for _, name := range SolverNames {
		solver, err := NewSolver(name, Options{TimeLimit: 1500 * time.Millisecond})
		if err != nil {
			t.Fatalf("NewSolver(%q) err = %v, want nil", name, err)
		}
		t.Run(solver.Name(), func(t *testing.T) {
			sol, err := Solve(ReferenceInstance(), solver)
			if err != nil {
				t.Fatalf("Solve() err = %v, want nil", err)
			}
			if !approxEq(sol.Makespan, 16) {
				t.Errorf("Solve() makespan = %v, want 16", sol.Makespan)
			}
		})
	}
}

func TestWriteModel(t *testing.T) {
	f, err := BuildModel(ReferenceInstance())
	if err != nil {
		t.Fatalf("BuildModel() err = %v, want nil", err)
	}

	var lp bytes.Buffer
	if err := f.Model.WriteLP(&lp); err != nil {
		t.Fatalf("WriteLP() err = %v, want nil", err)
	}
	for _, want := range []string{"min: +Cmax;", "group_0: +W_0_0 +W_1_0 = 1;", "and_both_1_1_0:", "setup_1_1_0_1:", "int "} {
		if !strings.Contains(lp.String(), want) {
			t.Errorf("WriteLP() output lacks %q:\n%s", want, lp.String())
		}
	}

	var mps bytes.Buffer
	if err := f.Model.WriteMPS(&mps); err != nil {
		t.Fatalf("WriteMPS() err = %v, want nil", err)
	}
	for _, want := range []string{"ROWS", "COLUMNS", "MARKER", "ENDATA"} {
		if !strings.Contains(mps.String(), want) {
			t.Errorf("WriteMPS() output lacks %q:\n%s", want, mps.String())
		}
	}
}

func TestSolveReference(t *testing.T) {
	for _, solver := range backends(t) {
		t.Run(solver.Name(), func(t *testing.T) {
			inst := ReferenceInstance()
			sol, err := Solve(inst, solver)
			if err != nil {
				t.Fatalf("Solve() err = %v, want nil", err)
			}
			if !approxEq(sol.Makespan, 16) || !approxEq(sol.Objective, 16) {
				t.Errorf("Solve() makespan = %v, objective = %v, want 16", sol.Makespan, sol.Objective)
			}
			if diff := cmp.Diff([]int{1, 0}, sol.Sequence); diff != "" {
				t.Errorf("Sequence mismatch (-want +got):\n%s", diff)
			}
			if err := Verify(inst, sol); err != nil {
				t.Errorf("Verify() err = %v, want nil", err)
			}
		})
	}
}

func TestSolveIsIdempotent(t *testing.T) {
	for _, solver := range backends(t) {
		t.Run(solver.Name(), func(t *testing.T) {
			inst := ReferenceInstance()
			first, err := Solve(inst, solver)
			if err != nil {
				t.Fatalf("first Solve() err = %v, want nil", err)
			}
			second, err := Solve(inst, solver)
			if err != nil {
				t.Fatalf("second Solve() err = %v, want nil", err)
			}
			if !approxEq(first.Makespan, second.Makespan) {
				t.Errorf("makespans = %v and %v, want equal", first.Makespan, second.Makespan)
			}
		})
	}
}

func TestSolveMatchesEnumeration(t *testing.T) {
	for _, solver := range backends(t) {
		t.Run(solver.Name(), func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			for range 10 {
				inst := randomInstance(rng, 4, 3)
				sol, err := Solve(inst, solver)
				if err != nil {
					t.Fatalf("Solve() err = %v, want nil", err)
				}
				if want := bestByEnumeration(t, inst); !approxEq(sol.Makespan, want) {
					t.Errorf("Solve() makespan = %v, want %v\n%v", sol.Makespan, want, inst)
				}
				if err := Verify(inst, sol); err != nil {
					t.Errorf("Verify() err = %v, want nil", err)
				}
			}
		})
	}
}

func TestSolveMonotoneInSetups(t *testing.T) {
	for _, solver := range backends(t) {
		t.Run(solver.Name(), func(t *testing.T) {
			base, err := Solve(ReferenceInstance(), solver)
			if err != nil {
				t.Fatalf("Solve() err = %v, want nil", err)
			}
			slower := ReferenceInstance()
			slower.SetSetup(1, 0, []float64{2, 4})
			sol, err := Solve(slower, solver)
			if err != nil {
				t.Fatalf("Solve() err = %v, want nil", err)
			}
			// [1 0] now ends at 19, so [0 1] at 17 becomes optimal.
			if !approxEq(sol.Makespan, 17) || sol.Makespan < base.Makespan {
				t.Errorf("Solve() makespan = %v, want 17 (>= %v)", sol.Makespan, base.Makespan)
			}
		})
	}
}
