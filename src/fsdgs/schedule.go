package fsdgs

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/mat"
)

// Schedule holds the earliest completion times of a fixed group sequence.
type Schedule struct {
	Sequence   []int
	Completion *mat.Dense
	Makespan   float64
	// CriticalSlot and CriticalMachine locate a completion equal to the makespan.
	CriticalSlot    int
	CriticalMachine int
}

func validateSequence(seq []int, n int) error {
	if len(seq) != n {
		return fmt.Errorf("sequence length must be %d (got %d)", n, len(seq))
	}
	seen := mapset.NewSetWithSize[int](n)
	for i, p := range seq {
		if p < 0 || p >= n {
			return fmt.Errorf("sequence[%d]=%d out of range [0,%d)", i, p, n)
		}
		if !seen.Add(p) {
			return fmt.Errorf("duplicate group %d in sequence", p)
		}
	}
	return nil
}

// Evaluate computes the smallest completion times the model admits once
// the group of every slot is fixed: machines chain within a slot and a
// defined setup separates consecutive slots on every machine. Transitions
// without a setup entry add no bound between slots.
func Evaluate(inst *Instance, sequence []int) (*Schedule, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := validateSequence(sequence, inst.NumGroups); err != nil {
		return nil, err
	}
	sched := &Schedule{Sequence: append([]int(nil), sequence...), CriticalSlot: -1, CriticalMachine: -1}
	if inst.IsVacuous() {
		return sched, nil
	}

	n, m := inst.NumGroups, inst.NumMachines
	totals := inst.TotalProcessing()
	sched.Completion = mat.NewDense(n, m, nil)
	for i, p := range sequence {
		var setup []float64
		if i > 0 {
			setup, _ = inst.Setup(sequence[i-1], p)
		}
		for k := range m {
			c := totals.At(p, k)
			if k > 0 {
				c += sched.Completion.At(i, k-1)
			}
			if setup != nil {
				c = max(c, sched.Completion.At(i-1, k)+setup[k])
			}
			sched.Completion.Set(i, k, c)
		}
	}

	flat := sched.Completion.RawMatrix().Data
	best := argMax(flat)
	sched.Makespan = flat[best]
	sched.CriticalSlot, sched.CriticalMachine = best/m, best%m
	return sched, nil
}

// Verify checks that sol is a consistent schedule of inst: the assignment is
// a permutation, machines are chained within each slot, defined setups
// separate consecutive slots and the makespan is the largest completion.
func Verify(inst *Instance, sol *Solution) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	n, m := inst.NumGroups, inst.NumMachines
	if err := validateSequence(sol.Sequence, n); err != nil {
		return err
	}
	if n > 0 {
		if sol.Assignment == nil {
			return fmt.Errorf("assignment is missing")
		}
		for i := range n {
			var rowOnes, colOnes int
			for p := range n {
				if sol.Assignment.At(i, p) > 0.5 {
					rowOnes++
				}
				if sol.Assignment.At(p, i) > 0.5 {
					colOnes++
				}
			}
			if rowOnes != 1 || colOnes != 1 {
				return fmt.Errorf("assignment is not a permutation at index %d", i)
			}
			if sol.Assignment.At(i, sol.Sequence[i]) <= 0.5 {
				return fmt.Errorf("slot %d: sequence and assignment disagree", i)
			}
		}
	}
	if inst.IsVacuous() {
		if !almostEqual(sol.Makespan, 0) {
			return fmt.Errorf("makespan %v of a vacuous instance must be 0", sol.Makespan)
		}
		return nil
	}
	if sol.Completion == nil {
		return fmt.Errorf("completion times are missing")
	}

	totals := inst.TotalProcessing()
	largest := 0.0
	for i, p := range sol.Sequence {
		for k := range m {
			c := sol.Completion.At(i, k)
			largest = max(largest, c)
			prev := 0.0
			if k > 0 {
				prev = sol.Completion.At(i, k-1)
			}
			if c < prev+totals.At(p, k)-eps {
				return fmt.Errorf("slot %d machine %d: completion %v before %v", i, k, c, prev+totals.At(p, k))
			}
			if i == 0 {
				continue
			}
			if setup, ok := inst.Setup(sol.Sequence[i-1], p); ok {
				if bound := sol.Completion.At(i-1, k) + setup[k]; c < bound-eps {
					return fmt.Errorf("slot %d machine %d: completion %v ignores setup, want >= %v", i, k, c, bound)
				}
			}
		}
	}
	if !almostEqual(sol.Makespan, largest) {
		return fmt.Errorf("makespan %v differs from the largest completion %v", sol.Makespan, largest)
	}
	return nil
}
