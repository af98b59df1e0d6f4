package fsdgs

import (
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"
)

// GroupPair is an ordered (from, to) transition between two groups.
type GroupPair struct {
	From int
	To   int
}

type Instance struct {
	Name        string
	NumGroups   int
	NumMachines int
	// MaxJobs bounds the job count of every group; 0 means no bound.
	MaxJobs   int
	JobCounts []int
	// Processing[p] has one row per job and one column per machine.
	Processing []*mat.Dense
	Setups     map[GroupPair][]float64
}

type Solution struct {
	Sequence   []int
	Assignment *mat.Dense
	Completion *mat.Dense
	Makespan   float64
	Objective  float64
	Solver     string
	Elapsed    time.Duration
}

func (inst *Instance) String() string {
	s := new(strings.Builder)
	if inst.Name != "" {
		fmt.Fprintf(s, "Instance: %s\n", inst.Name)
	}
	s.WriteString(fmt.Sprintf("N. groups: %d\n", inst.NumGroups))
	s.WriteString(fmt.Sprintf("N. machines: %d\n", inst.NumMachines))

	for p := range inst.NumGroups {
		s.WriteString(fmt.Sprintf("Group %d, jobs: %d\n", p, inst.JobCounts[p]))
		for j := range inst.JobCounts[p] {
			fmt.Fprintf(s, "  job %d: %v\n", j+1, mat.Row(nil, j, inst.Processing[p]))
		}
	}

	s.WriteString("Setups:\n")
	for _, pair := range inst.SetupPairs() {
		s.WriteString(fmt.Sprintf("%d -> %d\t%v\n", pair.From, pair.To, inst.Setups[pair]))
	}
	return s.String()
}

func (sol *Solution) String() string {
	s := new(strings.Builder)
	s.WriteString(fmt.Sprintf("Makespan: %.2f\n", sol.Makespan))
	s.WriteString("Sequence: [ ")
	for _, p := range sol.Sequence {
		s.WriteString(fmt.Sprint(p))
		s.WriteString(" ")
	}
	s.WriteString("]")
	if sol.Solver != "" {
		fmt.Fprintf(s, "\nSolver: %s (%v)", sol.Solver, sol.Elapsed)
	}
	return s.String()
}
