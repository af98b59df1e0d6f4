package fsdgs

import "math"

type VarKind int

const (
	Continuous VarKind = iota
	Binary
)

type Column struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

type Entry struct {
	Col int
	Val float64
}

// Row is Lower <= sum(Entries) <= Upper; an infinite bound is absent.
type Row struct {
	Name    string
	Entries []Entry
	Lower   float64
	Upper   float64
}

// Model is a mixed-integer linear program independent of any solver.
type Model struct {
	Name      string
	Maximize  bool
	Cols      []Column
	Rows      []Row
	Objective []float64
}

func (m *Model) NumCols() int { return len(m.Cols) }
func (m *Model) NumRows() int { return len(m.Rows) }

func (m *Model) addCol(name string, kind VarKind) int {
	col := Column{Name: name, Kind: kind, Lower: 0, Upper: math.Inf(1)}
	if kind == Binary {
		col.Upper = 1
	}
	m.Cols = append(m.Cols, col)
	m.Objective = append(m.Objective, 0)
	return len(m.Cols) - 1
}

func (m *Model) addRow(name string, lower float64, entries []Entry, upper float64) {
	nonzero := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Val != 0 {
			nonzero = append(nonzero, e)
		}
	}
	m.Rows = append(m.Rows, Row{Name: name, Entries: nonzero, Lower: lower, Upper: upper})
}

func (m *Model) addGreaterEqual(name string, entries []Entry, rhs float64) {
	m.addRow(name, rhs, entries, math.Inf(1))
}

func (m *Model) addLessEqual(name string, entries []Entry, rhs float64) {
	m.addRow(name, math.Inf(-1), entries, rhs)
}

func (m *Model) addEqual(name string, entries []Entry, rhs float64) {
	m.addRow(name, rhs, entries, rhs)
}
