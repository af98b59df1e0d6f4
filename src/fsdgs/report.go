package fsdgs

import (
	"bufio"
	"fmt"
	"io"
)

// Report prints the active assignment variables, every completion time and
// the makespan as "name = value" lines, followed by the optimal makespan.
func Report(out io.Writer, sol *Solution) error {
	w := bufio.NewWriter(out)
	n := len(sol.Sequence)
	if sol.Assignment != nil {
		for i := range n {
			for p := range n {
				if v := sol.Assignment.At(i, p); v > 0.5 {
					fmt.Fprintf(w, "%s = %.2f\n", wName(i, p), v)
				}
			}
		}
	}
	if sol.Completion != nil {
		rows, cols := sol.Completion.Dims()
		for i := range rows {
			for k := range cols {
				fmt.Fprintf(w, "%s = %.2f\n", cName(i, k), sol.Completion.At(i, k))
			}
		}
	}
	fmt.Fprintf(w, "Cmax = %.2f\n", sol.Makespan)
	fmt.Fprintf(w, "\nOptimal makespan: %v\n", sol.Makespan)
	return w.Flush()
}

// ReportSchedule prints one line per slot with its group and completion times.
func ReportSchedule(out io.Writer, inst *Instance, sol *Solution) error {
	w := bufio.NewWriter(out)
	for i, p := range sol.Sequence {
		fmt.Fprintf(w, "slot %d: group %d (%d jobs)", i, p, inst.JobCounts[p])
		if sol.Completion != nil {
			_, cols := sol.Completion.Dims()
			for k := range cols {
				fmt.Fprintf(w, "  M%d=%.2f", k, sol.Completion.At(i, k))
			}
		}
		w.WriteString("\n")
	}
	return w.Flush()
}
