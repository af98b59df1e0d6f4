package fsdgs

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/draffensperger/golp"
	"github.com/golang/glog"
)

// LPSolveSolver solves models with lp_solve through golp.
type LPSolveSolver struct {
	Options Options
}

func (*LPSolveSolver) Name() string { return "lpsolve" }

func lpSolveEntries(entries []Entry) []golp.Entry {
	row := make([]golp.Entry, len(entries))
	for i, e := range entries {
		row[i] = golp.Entry{Col: e.Col, Val: e.Val}
	}
	return row
}

func defLPSolveModel(m *Model) (*golp.LP, error) {
	lp := golp.NewLP(0, m.NumCols())
	for j, c := range m.Cols {
		lp.SetColName(j, lpName(c.Name))
		if c.Kind == Binary {
			lp.SetBinary(j, true)
		} else if c.Lower != 0 || !math.IsInf(c.Upper, 1) {
			lp.SetBounds(j, c.Lower, c.Upper)
		}
	}
	lp.SetObjFn(m.Objective)
	if m.Maximize {
		lp.SetMaximize()
	}

	add := func(name string, row []golp.Entry, ct golp.ConstraintType, rhs float64) error {
		if err := lp.AddConstraintSparse(row, ct, rhs); err != nil {
			return fmt.Errorf("row %s: %w", name, err)
		}
		if name != "" {
			lp.SetRowName(lp.NumRows()-1, name)
		}
		return nil
	}

	for _, r := range m.Rows {
		row := lpSolveEntries(r.Entries)
		name := lpName(r.Name)
		var err error
		switch {
		case r.Lower == r.Upper:
			err = add(name, row, golp.EQ, r.Lower)
		default:
			if !math.IsInf(r.Lower, -1) {
				err = add(name, row, golp.GE, r.Lower)
				if name != "" {
					name += "_ub"
				}
			}
			if err == nil && !math.IsInf(r.Upper, 1) {
				err = add(name, row, golp.LE, r.Upper)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	return lp, nil
}

// lpName maps bracketed names such as W[0,1] to W_0_1, which LP readers accept.
func lpName(name string) string {
	return strings.NewReplacer("[", "_", "]", "", ",", "_").Replace(name)
}

// WriteLP writes the model in lp_solve's LP format.
func (m *Model) WriteLP(w io.Writer) error {
	lp, err := defLPSolveModel(m)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, lp.WriteToString())
	return err
}

func lpSolveStatus(s golp.SolutionType) Status {
	switch s {
	case golp.OPTIMAL:
		return StatusOptimal
	case golp.INFEASIBLE:
		return StatusInfeasible
	case golp.UNBOUNDED:
		return StatusUnbounded
	case golp.SUBOPTIMAL, golp.TIMEOUT:
		return StatusTimeLimit
	default:
		return StatusFailed
	}
}

func (ls *LPSolveSolver) Solve(m *Model) (*RawSolution, error) {
	lp, err := defLPSolveModel(m)
	if err != nil {
		return nil, err
	}
	if ls.Options.Verbose {
		lp.SetVerboseLevel(golp.NORMAL)
	} else {
		lp.SetVerboseLevel(golp.NEUTRAL)
	}
	if ls.Options.TimeLimit > 0 {
		// lp_solve counts whole seconds.
		lp.SetTimeout(int(math.Ceil(ls.Options.TimeLimit.Seconds())))
	}

	status := lp.Solve()
	glog.V(2).Infof("lpsolve status: %v", status)

	out := &RawSolution{
		Status: lpSolveStatus(status),
		Detail: fmt.Sprint(status),
	}
	if out.Status == StatusOptimal {
		out.Values = lp.Variables()
		out.Objective = lp.Objective()
	}
	return out, nil
}
