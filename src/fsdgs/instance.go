package fsdgs

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

func NewInstance(numGroups, numMachines int) *Instance {
	if numGroups < 0 {
		numGroups = 0
	}
	if numMachines < 0 {
		numMachines = 0
	}
	return &Instance{
		NumGroups:   numGroups,
		NumMachines: numMachines,
		JobCounts:   make([]int, numGroups),
		Processing:  make([]*mat.Dense, numGroups),
		Setups:      make(map[GroupPair][]float64),
	}
}

// SetJobs stores the processing times of a group, one row per job, and sets
// its job count to the number of rows.
func (inst *Instance) SetJobs(group int, times [][]float64) {
	inst.JobCounts[group] = len(times)
	inst.Processing[group] = denseFromRows(times, inst.NumMachines)
}

func (inst *Instance) SetSetup(from, to int, times []float64) {
	if inst.Setups == nil {
		inst.Setups = make(map[GroupPair][]float64)
	}
	inst.Setups[GroupPair{From: from, To: to}] = append([]float64(nil), times...)
}

// Setup returns the setup vector of a transition and whether it is defined.
func (inst *Instance) Setup(from, to int) ([]float64, bool) {
	s, ok := inst.Setups[GroupPair{From: from, To: to}]
	return s, ok
}

func (inst *Instance) IsVacuous() bool {
	return inst.NumGroups == 0 || inst.NumMachines == 0
}

// denseFromRows returns nil when there is nothing to store, since gonum
// rejects zero-sized matrices.
func denseFromRows(rows [][]float64, cols int) *mat.Dense {
	if len(rows) == 0 || cols == 0 {
		return nil
	}
	m := mat.NewDense(len(rows), cols, nil)
	for j, row := range rows {
		for k := range min(len(row), cols) {
			m.Set(j, k, row[k])
		}
	}
	return m
}

func processingRows(m *mat.Dense) int {
	if m == nil {
		return 0
	}
	r, _ := m.Dims()
	return r
}

func validTime(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func (inst *Instance) Validate() error {
	if inst == nil {
		return dataErrorf("instance", "is nil")
	}
	if inst.NumGroups < 0 {
		return dataErrorf("num_groups", "must be >= 0 (got %d)", inst.NumGroups)
	}
	if inst.NumMachines < 0 {
		return dataErrorf("num_machines", "must be >= 0 (got %d)", inst.NumMachines)
	}
	if inst.MaxJobs < 0 {
		return dataErrorf("max_jobs", "must be >= 0 (got %d)", inst.MaxJobs)
	}
	if len(inst.JobCounts) != inst.NumGroups {
		return dataErrorf("job_counts", "length must be num_groups=%d (got %d)", inst.NumGroups, len(inst.JobCounts))
	}
	if len(inst.Processing) != inst.NumGroups {
		return dataErrorf("processing", "length must be num_groups=%d (got %d)", inst.NumGroups, len(inst.Processing))
	}

	for p, count := range inst.JobCounts {
		if err := inst.validateGroup(p, count); err != nil {
			return err
		}
	}

	for _, pair := range inst.SetupPairs() {
		times := inst.Setups[pair]
		if pair.From == pair.To {
			return dataErrorf("setups", "transition %d -> %d has equal from and to groups", pair.From, pair.To)
		}
		if pair.From < 0 || pair.From >= inst.NumGroups || pair.To < 0 || pair.To >= inst.NumGroups {
			return dataErrorf("setups", "transition %d -> %d out of range [0,%d)", pair.From, pair.To, inst.NumGroups)
		}
		if len(times) != inst.NumMachines {
			return dataErrorf("setups", "transition %d -> %d must have %d times (got %d)", pair.From, pair.To, inst.NumMachines, len(times))
		}
		for k, v := range times {
			if !validTime(v) {
				return dataErrorf("setups", "transition %d -> %d machine %d: invalid time %v", pair.From, pair.To, k, v)
			}
		}
	}
	return nil
}

func (inst *Instance) validateGroup(p, count int) error {
	if count < 0 {
		return dataErrorf("job_counts", "group %d: must be >= 0 (got %d)", p, count)
	}
	if inst.MaxJobs > 0 && count > inst.MaxJobs {
		return dataErrorf("job_counts", "group %d: %d jobs exceed max_jobs=%d", p, count, inst.MaxJobs)
	}

	m := inst.Processing[p]
	rows := processingRows(m)
	if inst.NumMachines == 0 {
		return nil
	}
	if rows < count {
		return dataErrorf("processing", "group %d: %d jobs counted but only %d have processing times", p, count, rows)
	}
	if inst.MaxJobs > 0 && rows > inst.MaxJobs {
		return dataErrorf("processing", "group %d: %d processing rows exceed max_jobs=%d", p, rows, inst.MaxJobs)
	}
	if m == nil {
		return nil
	}
	if _, cols := m.Dims(); cols != inst.NumMachines {
		return dataErrorf("processing", "group %d: must have %d machine columns (got %d)", p, inst.NumMachines, cols)
	}

	for j := range rows {
		for k := range inst.NumMachines {
			v := m.At(j, k)
			if !validTime(v) {
				return dataErrorf("processing", "group %d job %d machine %d: invalid time %v", p, j+1, k, v)
			}
			// Rows past the job count are padding and must not carry work.
			if j >= count && v != 0 {
				return dataErrorf("processing", "group %d job %d is not counted but has time %v on machine %d", p, j+1, v, k)
			}
		}
	}
	return nil
}

// TotalProcessing returns a num_groups x num_machines matrix holding, for
// every group, the sum of its counted jobs' processing times per machine.
// It returns nil for vacuous instances.
func (inst *Instance) TotalProcessing() *mat.Dense {
	if inst.IsVacuous() {
		return nil
	}
	totals := mat.NewDense(inst.NumGroups, inst.NumMachines, nil)
	for p := range inst.NumGroups {
		if inst.JobCounts[p] == 0 || inst.Processing[p] == nil {
			continue
		}
		jobs := inst.Processing[p].Slice(0, inst.JobCounts[p], 0, inst.NumMachines).(*mat.Dense)
		for k := range inst.NumMachines {
			totals.Set(p, k, mat.Sum(jobs.ColView(k)))
		}
	}
	return totals
}

// ReferenceInstance is the two group, two machine instance the tool was
// first written for. Group 0 carries a zero padding row up to max_jobs.
func ReferenceInstance() *Instance {
	inst := NewInstance(2, 2)
	inst.Name = "FSDGS_Makespan_Min"
	inst.MaxJobs = 3
	inst.SetJobs(0, [][]float64{{3, 2}, {4, 1}, {0, 0}})
	inst.JobCounts[0] = 2
	inst.SetJobs(1, [][]float64{{2, 3}, {3, 2}, {1, 4}})
	inst.SetSetup(0, 1, []float64{1, 2})
	inst.SetSetup(1, 0, []float64{2, 1})
	return inst
}
