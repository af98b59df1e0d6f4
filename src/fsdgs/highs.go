package fsdgs

import (
	"errors"
	"io"
	"slices"

	"github.com/golang/glog"
	"github.com/lanl/highs"
)

// HighsSolver solves models with HiGHS. Each call owns its own HiGHS
// instance, released by the binding once the call returns.
type HighsSolver struct {
	Options Options
}

func (*HighsSolver) Name() string { return "highs" }

func defHighsModel(m *Model) *highs.Model {
	lp := new(highs.Model)
	lp.Maximize = m.Maximize
	lp.ColCosts = slices.Clone(m.Objective)

	numCols := m.NumCols()
	lp.VarTypes = make([]highs.VariableType, numCols)
	lp.ColLower = make([]float64, numCols)
	lp.ColUpper = make([]float64, numCols)
	for j, c := range m.Cols {
		lp.ColLower[j] = c.Lower
		lp.ColUpper[j] = c.Upper
		if c.Kind == Binary {
			lp.VarTypes[j] = highs.IntegerType
		} else {
			lp.VarTypes[j] = highs.ContinuousType
		}
	}

	lp.RowLower = make([]float64, 0, m.NumRows())
	lp.RowUpper = make([]float64, 0, m.NumRows())
	for i, r := range m.Rows {
		for _, e := range r.Entries {
			lp.ConstMatrix = append(lp.ConstMatrix, highs.Nonzero{Row: i, Col: e.Col, Val: e.Val})
		}
		lp.RowLower = append(lp.RowLower, r.Lower)
		lp.RowUpper = append(lp.RowUpper, r.Upper)
	}
	return lp
}

func highsStatus(s highs.ModelStatus) Status {
	switch s {
	case highs.Optimal:
		return StatusOptimal
	case highs.Infeasible:
		return StatusInfeasible
	case highs.Unbounded:
		return StatusUnbounded
	case highs.TimeLimit:
		return StatusTimeLimit
	default:
		return StatusFailed
	}
}

func (hs *HighsSolver) Solve(m *Model) (*RawSolution, error) {
	raw, err := defHighsModel(m).ToRawModel()
	if err != nil {
		return nil, err
	}
	if err := raw.SetBoolOption("output_flag", hs.Options.Verbose); err != nil {
		return nil, err
	}
	if hs.Options.TimeLimit > 0 {
		if err := raw.SetFloat64Option("time_limit", hs.Options.TimeLimit.Seconds()); err != nil {
			return nil, err
		}
	}

	solution, err := raw.Solve()
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("highs status: %v, objective: %v", solution.Status, solution.Objective)

	out := &RawSolution{
		Status: highsStatus(solution.Status),
		Detail: solution.Status.String(),
	}
	if out.Status == StatusOptimal {
		out.Values = slices.Clone(solution.ColumnPrimal[:m.NumCols()])
		out.Objective = solution.Objective
	}
	return out, nil
}

// WriteMPS writes the model in MPS format through HiGHS. Columns and rows are
// numbered in the order of m.Cols and m.Rows.
func (m *Model) WriteMPS(w io.Writer) error {
	raw, err := defHighsModel(m).ToRawModel()
	if err != nil {
		return err
	}
	// The binding reports warnings, and even a clean write, as a CallStatus.
	var cs highs.CallStatus
	if err := raw.WriteModel(w); err != nil && !(errors.As(err, &cs) && (cs.IsWarning() || cs.Status == 0)) {
		return err
	}
	return nil
}
