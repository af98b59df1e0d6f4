package fsdgs

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Formulation is the MILP of an instance together with the column index of
// every decision variable.
type Formulation struct {
	Model *Model
	// W[i][p] is 1 when group p occupies slot i.
	W [][]int
	// C[i][k] is the completion time of slot i on machine k.
	C    [][]int
	Cmax int
	// Y[i][pair] is the AND of W[i-1][pair.From] and W[i][pair.To], for i >= 1.
	Y         []map[GroupPair]int
	TotalProc *mat.Dense
}

func wName(i, p int) string { return fmt.Sprintf("W[%d,%d]", i, p) }
func cName(i, k int) string { return fmt.Sprintf("C[%d,%d]", i, k) }
func yName(i, p, l int) string { return fmt.Sprintf("Y[%d,%d,%d]", i, p, l) }

func rowName(kind string, idx ...int) string {
	s := kind
	for _, v := range idx {
		s += fmt.Sprintf("_%d", v)
	}
	return s
}

func (f *Formulation) defVariables(inst *Instance) {
	n, m := inst.NumGroups, inst.NumMachines
	f.W = make([][]int, n)
	for i := range n {
		f.W[i] = make([]int, n)
		for p := range n {
			f.W[i][p] = f.Model.addCol(wName(i, p), Binary)
		}
	}
	f.C = make([][]int, n)
	for i := range n {
		f.C[i] = make([]int, m)
		for k := range m {
			f.C[i][k] = f.Model.addCol(cName(i, k), Continuous)
		}
	}
	f.Cmax = f.Model.addCol("Cmax", Continuous)
	f.Model.Objective[f.Cmax] = 1
}

// defAssignment makes W a permutation matrix.
func (f *Formulation) defAssignment(n int) {
	for p := range n {
		row := make([]Entry, n)
		for i := range n {
			row[i] = Entry{Col: f.W[i][p], Val: 1}
		}
		f.Model.addEqual(rowName("group", p), row, 1)
	}
	for i := range n {
		row := make([]Entry, n)
		for p := range n {
			row[p] = Entry{Col: f.W[i][p], Val: 1}
		}
		f.Model.addEqual(rowName("slot", i), row, 1)
	}
}

// defCompletion chains the machines of every slot:
// C[i,0] >= sum_p W[i,p]*proc[p][0] and C[i,k] >= C[i,k-1] + sum_p W[i,p]*proc[p][k].
func (f *Formulation) defCompletion(n, m int) {
	for i := range n {
		for k := range m {
			row := make([]Entry, 0, n+2)
			row = append(row, Entry{Col: f.C[i][k], Val: 1})
			if k > 0 {
				row = append(row, Entry{Col: f.C[i][k-1], Val: -1})
			}
			for p := range n {
				row = append(row, Entry{Col: f.W[i][p], Val: -f.TotalProc.At(p, k)})
			}
			f.Model.addGreaterEqual(rowName("flow", i, k), row, 0)
		}
	}
}

// defSetups linearises C[i,k] >= C[i-1,k] + s[p,l][k]*W[i-1,p]*W[i,l] with
// one auxiliary boolean per slot pair and transition.
func (f *Formulation) defSetups(inst *Instance) {
	n := inst.NumGroups
	pairs := inst.SetupPairs()
	f.Y = make([]map[GroupPair]int, n)
	for i := 1; i < n; i++ {
		f.Y[i] = make(map[GroupPair]int, len(pairs))
		for _, pair := range pairs {
			p, l := pair.From, pair.To
			y := f.Model.addCol(yName(i, p, l), Binary)
			f.Y[i][pair] = y

			prev, cur := f.W[i-1][p], f.W[i][l]
			f.Model.addLessEqual(rowName("and_prev", i, p, l), []Entry{{y, 1}, {prev, -1}}, 0)
			f.Model.addLessEqual(rowName("and_cur", i, p, l), []Entry{{y, 1}, {cur, -1}}, 0)
			f.Model.addGreaterEqual(rowName("and_both", i, p, l), []Entry{{y, 1}, {prev, -1}, {cur, -1}}, -1)

			for k, s := range inst.Setups[pair] {
				f.Model.addGreaterEqual(
					rowName("setup", i, p, l, k),
					[]Entry{{f.C[i][k], 1}, {f.C[i-1][k], -1}, {y, -s}},
					0,
				)
			}
		}
	}
}

func (f *Formulation) defMakespan(n, m int) {
	for i := range n {
		for k := range m {
			f.Model.addGreaterEqual(rowName("makespan", i, k), []Entry{{f.Cmax, 1}, {f.C[i][k], -1}}, 0)
		}
	}
}

// BuildModel formulates the makespan minimisation of a valid instance.
// Vacuous instances have nothing to formulate and yield ErrVacuous.
func BuildModel(inst *Instance) (*Formulation, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if inst.IsVacuous() {
		return nil, ErrVacuous
	}

	name := inst.Name
	if name == "" {
		name = "FSDGS_Makespan_Min"
	}
	f := &Formulation{
		Model:     &Model{Name: name},
		TotalProc: inst.TotalProcessing(),
	}
	n, m := inst.NumGroups, inst.NumMachines
	f.defVariables(inst)
	f.defAssignment(n)
	f.defCompletion(n, m)
	f.defSetups(inst)
	f.defMakespan(n, m)
	return f, nil
}

// decode maps a solver's column values back onto an instance solution.
func (f *Formulation) decode(values []float64) (*Solution, error) {
	if len(values) != f.Model.NumCols() {
		return nil, fmt.Errorf("solution has %d values, model has %d columns", len(values), f.Model.NumCols())
	}
	n, m := len(f.W), len(f.C[0])
	sol := &Solution{
		Sequence:   make([]int, n),
		Assignment: mat.NewDense(n, n, nil),
		Completion: mat.NewDense(n, m, nil),
		Makespan:   values[f.Cmax],
	}
	for i := range n {
		sol.Sequence[i] = -1
		for p := range n {
			v := values[f.W[i][p]]
			sol.Assignment.Set(i, p, v)
			if v > 0.5 {
				if sol.Sequence[i] >= 0 {
					return nil, fmt.Errorf("slot %d holds groups %d and %d", i, sol.Sequence[i], p)
				}
				sol.Sequence[i] = p
			}
		}
		if sol.Sequence[i] < 0 {
			return nil, fmt.Errorf("slot %d holds no group", i)
		}
		for k := range m {
			sol.Completion.Set(i, k, values[f.C[i][k]])
		}
	}
	return sol, nil
}
