package fsdgs

import (
	"math"
	"math/rand"
	"testing"
)

func approxEq(x, y float64) bool {
	return math.Abs(x-y) < 1e-6
}

// fakeSolver returns a canned answer and records the model it was given.
type fakeSolver struct {
	raw   *RawSolution
	err   error
	model *Model
}

func (*fakeSolver) Name() string { return "fake" }

func (fs *fakeSolver) Solve(m *Model) (*RawSolution, error) {
	fs.model = m
	return fs.raw, fs.err
}

func backends(t *testing.T) []Solver {
	t.Helper()
	var solvers []Solver
	for _, name := range SolverNames {
		s, err := NewSolver(name, Options{})
		if err != nil {
			t.Fatalf("NewSolver(%q) err = %v, want nil", name, err)
		}
		solvers = append(solvers, s)
	}
	return solvers
}

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, perm := range permutations(n - 1) {
		for pos := 0; pos <= len(perm); pos++ {
			next := make([]int, 0, n)
			next = append(next, perm[:pos]...)
			next = append(next, n-1)
			next = append(next, perm[pos:]...)
			out = append(out, next)
		}
	}
	return out
}

// bestByEnumeration evaluates every sequence and returns the smallest makespan.
func bestByEnumeration(t *testing.T, inst *Instance) float64 {
	t.Helper()
	best := math.Inf(1)
	for _, perm := range permutations(inst.NumGroups) {
		sched, err := Evaluate(inst, perm)
		if err != nil {
			t.Fatalf("Evaluate(%v) err = %v, want nil", perm, err)
		}
		best = min(best, sched.Makespan)
	}
	return best
}

func randomInstance(rng *rand.Rand, groups, machines int) *Instance {
	inst := NewInstance(groups, machines)
	for p := range groups {
		jobs := make([][]float64, rng.Intn(3))
		for j := range jobs {
			jobs[j] = make([]float64, machines)
			for k := range machines {
				jobs[j][k] = float64(1 + rng.Intn(9))
			}
		}
		inst.SetJobs(p, jobs)
	}
	for p := range groups {
		for l := range groups {
			if p == l || rng.Intn(4) == 0 {
				continue
			}
			times := make([]float64, machines)
			for k := range times {
				times[k] = float64(rng.Intn(6))
			}
			inst.SetSetup(p, l, times)
		}
	}
	return inst
}
