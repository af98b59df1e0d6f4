package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"family_scheduling/src/fsdgs"

	"github.com/golang/glog"
)

func solveInstance(out io.Writer, name string, inst *fsdgs.Instance, solver fsdgs.Solver, cfg config) error {
	if cfg.writeModel != "" {
		if err := writeModel(cfg.writeModel, inst); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "Solving %v with %v...\n", name, solver.Name())
	sol, err := fsdgs.Solve(inst, solver)
	if err != nil {
		if errors.Is(err, fsdgs.ErrInfeasible) {
			fmt.Fprintln(out, "No optimal solution found: model is infeasible")
		} else {
			fmt.Fprintln(out, "No optimal solution found.")
		}
		return err
	}
	glog.Infof("instance %q solved by %s in %v, makespan %v", name, sol.Solver, sol.Elapsed, sol.Makespan)

	if err := fsdgs.Report(out, sol); err != nil {
		return err
	}
	if cfg.schedule {
		fmt.Fprintln(out)
		if err := fsdgs.ReportSchedule(out, inst, sol); err != nil {
			return err
		}
	}
	if cfg.verify {
		if err := fsdgs.Verify(inst, sol); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		fmt.Fprintln(out, "Verification: ok")
	}
	return nil
}

func writeModel(path string, inst *fsdgs.Instance) error {
	f, err := fsdgs.BuildModel(inst)
	if errors.Is(err, fsdgs.ErrVacuous) {
		glog.Warningf("instance %q is vacuous, no model written", inst.Name)
		return nil
	}
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	write := f.Model.WriteLP
	if strings.EqualFold(filepath.Ext(path), ".mps") {
		write = f.Model.WriteMPS
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// run parses args into cfg and solves every requested instance. It returns
// the process exit code.
func run(fs *flag.FlagSet, args []string, cfg config, stdout, stderr io.Writer) int {
	fs.Func("inst", "a list of instance file paths (.txt or .json), separated by a whitespace", func(s string) error {
		cfg.paths = append(cfg.paths, strings.Fields(s)...)
		return nil
	})
	fs.BoolVar(&cfg.reference, "reference", false, "Solve the built-in reference instance")
	fs.StringVar(&cfg.solver, "solver", cfg.solver, "The MILP back end: "+strings.Join(fsdgs.SolverNames, ", "))
	fs.DurationVar(&cfg.timeLimit, "time-limit", cfg.timeLimit, "Time limit of a single solve, 0 for none")
	fs.BoolVar(&cfg.verbose, "verbose", false, "Show the solver log")
	fs.BoolVar(&cfg.verify, "verify", false, "Check the returned schedule against the instance")
	fs.BoolVar(&cfg.schedule, "schedule", false, "Print the schedule slot by slot")
	fs.StringVar(&cfg.writeModel, "write-model", "", "Write the model to this file before solving (.mps for MPS, LP format otherwise)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if len(cfg.paths) == 0 && !cfg.reference {
		fmt.Fprintln(stderr, "Must specify at least a path or -reference")
		return 1
	}

	solver, err := fsdgs.NewSolver(cfg.solver, fsdgs.Options{TimeLimit: cfg.timeLimit, Verbose: cfg.verbose})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	failed := false
	if cfg.reference {
		if err := solveInstance(stdout, "reference", fsdgs.ReferenceInstance(), solver, cfg); err != nil {
			fmt.Fprintf(stderr, "An error occured while solving the reference instance: %v\n", err)
			failed = true
		}
		fmt.Fprintln(stdout)
	}
	for _, p := range cfg.paths {
		inst, err := fsdgs.LoadInstance(p)
		if err != nil {
			fmt.Fprintf(stderr, "Error for instance \"%v\": %v. Skipping...\n", p, err)
			failed = true
			continue
		}
		glog.V(1).Infof("loaded %q:\n%v", p, inst)

		if err := solveInstance(stdout, p, inst, solver, cfg); err != nil {
			fmt.Fprintf(stderr, "An error occured while solving instance \"%v\": %v\n", p, err)
			failed = true
		}
		fmt.Fprintln(stdout)
	}

	if failed {
		return 1
	}
	return 0
}

func main() {
	code := run(flag.CommandLine, os.Args[1:], loadEnvDefaults(), os.Stdout, os.Stderr)
	glog.Flush()
	os.Exit(code)
}
