package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

type generatorConfig struct {
	numGroups    int
	numMachines  int
	maxJobs      int
	maxTime      int
	setupDensity float64
}

// GenerateInstance renders a random instance in the text format read by
// fsdgs.LoadInstance. Every group has between 0 and maxJobs jobs, padded with
// zero rows up to maxJobs.
func GenerateInstance(cfg generatorConfig, rng *rand.Rand) string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "%d %d %d\n", cfg.numGroups, cfg.numMachines, cfg.maxJobs)

	counts := make([]int, cfg.numGroups)
	for p := range counts {
		counts[p] = rng.Intn(cfg.maxJobs + 1)
		fmt.Fprintf(s, "%d ", counts[p])
	}
	s.WriteRune('\n')

	for p := range cfg.numGroups {
		fmt.Fprintf(s, "# group %d\n", p)
		for j := range cfg.maxJobs {
			for range cfg.numMachines {
				t := 0
				if j < counts[p] {
					t = 1 + rng.Intn(cfg.maxTime)
				}
				fmt.Fprintf(s, "%d ", t)
			}
			s.WriteRune('\n')
		}
	}

	s.WriteString("# setups: s <from> <to> <times per machine>\n")
	for p := range cfg.numGroups {
		for l := range cfg.numGroups {
			if p == l || rng.Float64() >= cfg.setupDensity {
				continue
			}
			fmt.Fprintf(s, "s %d %d ", p, l)
			for range cfg.numMachines {
				fmt.Fprintf(s, "%d ", rng.Intn(cfg.maxTime+1))
			}
			s.WriteRune('\n')
		}
	}
	return s.String()
}

func main() {
	var outPath string
	var seed int64
	var cfg generatorConfig

	flag.StringVar(&outPath, "out", "out.txt", "The output file")
	flag.IntVar(&cfg.numGroups, "groups", 0, "The number of groups")
	flag.IntVar(&cfg.numMachines, "machines", 0, "The number of machines")
	flag.IntVar(&cfg.maxJobs, "maxjobs", 3, "The maximum number of jobs in a group")
	flag.IntVar(&cfg.maxTime, "maxtime", 10, "The maximum processing and setup time")
	flag.Float64Var(&cfg.setupDensity, "setupdensity", 1, "The probability that a transition has a setup time")
	flag.Int64Var(&seed, "seed", 1, "The random seed")

	flag.Parse()

	err := false
	if cfg.numGroups <= 0 {
		fmt.Fprintln(os.Stderr, "Must specify the number of groups")
		err = true
	}
	if cfg.numMachines <= 0 {
		fmt.Fprintln(os.Stderr, "Must specify the number of machines")
		err = true
	}
	if cfg.maxJobs <= 0 || cfg.maxTime <= 0 {
		fmt.Fprintln(os.Stderr, "Job and time bounds must be positive")
		err = true
	}
	if cfg.setupDensity < 0 || cfg.setupDensity > 1 {
		fmt.Fprintln(os.Stderr, "Setup density must be in [0,1]")
		err = true
	}

	if err {
		os.Exit(1)
	}

	if werr := os.WriteFile(
		outPath,
		[]byte(GenerateInstance(cfg, rand.New(rand.NewSource(seed)))),
		0666,
	); werr != nil {
		fmt.Fprintln(os.Stderr, werr)
		os.Exit(1)
	}
}
