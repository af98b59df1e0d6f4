package fsdgs

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

type instanceParser struct {
	inst    *Instance
	scanner *bufio.Scanner
	line    int
}

// next returns the fields of the next line that is neither blank nor a comment.
func (ip *instanceParser) next() ([]string, bool) {
	for ip.scanner.Scan() {
		ip.line++
		text := ip.scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		if fields := strings.Fields(text); len(fields) > 0 {
			return fields, true
		}
	}
	return nil, false
}

func parseFloats(tokens []string) ([]float64, error) {
	values := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (ip *instanceParser) parseFirstLine() error {
	line, ok := ip.next()
	if !ok {
		return fmt.Errorf("error while parsing first line: unexpected end of input")
	}
	if len(line) < 2 || len(line) > 3 {
		return fmt.Errorf("error while parsing first line %d: expected <groups> <machines> [max_jobs]", ip.line)
	}
	sizes := make([]int, len(line))
	for i, tok := range line {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("error while parsing first line: %v", err)
		}
		sizes[i] = v
	}
	if sizes[0] < 0 || sizes[1] < 0 {
		return dataErrorf("sizes", "must be >= 0 (got %d groups, %d machines)", sizes[0], sizes[1])
	}

	if len(sizes) == 3 && sizes[2] < 0 {
		return dataErrorf("max_jobs", "must be >= 0 (got %d)", sizes[2])
	}

	ip.inst = NewInstance(sizes[0], sizes[1])
	if len(sizes) == 3 {
		ip.inst.MaxJobs = sizes[2]
	}
	return nil
}

func (ip *instanceParser) parseJobCounts() error {
	if ip.inst.NumGroups == 0 {
		return nil
	}
	line, ok := ip.next()
	if !ok {
		return fmt.Errorf("error while parsing job counts: unexpected end of input")
	}
	if len(line) != ip.inst.NumGroups {
		return fmt.Errorf("error while parsing job counts at line %d: expected %d values, got %d", ip.line, ip.inst.NumGroups, len(line))
	}
	for p, tok := range line {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return fmt.Errorf("error while parsing job counts: %v", err)
		}
		if v < 0 {
			return dataErrorf("job_counts", "group %d: must be >= 0 (got %d)", p, v)
		}
		ip.inst.JobCounts[p] = v
	}
	return nil
}

// parseProcessing reads the processing rows of every group. A group holds
// max(job count, max_jobs) rows when max_jobs is given, so padded tables
// can be loaded unchanged.
func (ip *instanceParser) parseProcessing() error {
	if ip.inst.NumMachines == 0 {
		return nil
	}
	for p := range ip.inst.NumGroups {
		rows := max(ip.inst.JobCounts[p], ip.inst.MaxJobs)
		times := make([][]float64, rows)
		for j := range rows {
			line, ok := ip.next()
			if !ok {
				return fmt.Errorf("error while parsing group %d job %d: unexpected end of input", p, j+1)
			}
			if len(line) != ip.inst.NumMachines {
				return fmt.Errorf("error while parsing group %d job %d at line %d: expected %d times, got %d", p, j+1, ip.line, ip.inst.NumMachines, len(line))
			}
			row, err := parseFloats(line)
			if err != nil {
				return fmt.Errorf("error while parsing group %d job %d: %v", p, j+1, err)
			}
			times[j] = row
		}
		count := ip.inst.JobCounts[p]
		ip.inst.SetJobs(p, times)
		ip.inst.JobCounts[p] = count
	}
	return nil
}

func (ip *instanceParser) parseSetups() error {
	seen := mapset.NewSet[GroupPair]()
	for {
		line, ok := ip.next()
		if !ok {
			return nil
		}
		if line[0] != "s" || len(line) < 3 {
			return fmt.Errorf("error while parsing setup at line %d: expected s <from> <to> <times...>", ip.line)
		}
		from, err := strconv.Atoi(line[1])
		if err != nil {
			return fmt.Errorf("error while parsing setup at line %d: %v", ip.line, err)
		}
		to, err := strconv.Atoi(line[2])
		if err != nil {
			return fmt.Errorf("error while parsing setup at line %d: %v", ip.line, err)
		}
		times, err := parseFloats(line[3:])
		if err != nil {
			return fmt.Errorf("error while parsing setup at line %d: %v", ip.line, err)
		}
		pair := GroupPair{From: from, To: to}
		if !seen.Add(pair) {
			return dataErrorf("setups", "transition %d -> %d defined twice (line %d)", from, to, ip.line)
		}
		ip.inst.SetSetup(from, to, times)
	}
}

// ParseInstance reads an instance in the whitespace text format.
func ParseInstance(r io.Reader) (*Instance, error) {
	ip := &instanceParser{scanner: bufio.NewScanner(r)}
	for _, step := range []func() error{
		ip.parseFirstLine,
		ip.parseJobCounts,
		ip.parseProcessing,
		ip.parseSetups,
	} {
		if err := step(); err != nil {
			return nil, err
		}
	}
	if err := ip.scanner.Err(); err != nil {
		return nil, err
	}
	if err := ip.inst.Validate(); err != nil {
		return nil, err
	}
	return ip.inst, nil
}

type jsonGroup struct {
	Jobs       int         `json:"jobs"`
	Processing [][]float64 `json:"processing"`
}

type jsonSetup struct {
	From  int       `json:"from"`
	To    int       `json:"to"`
	Times []float64 `json:"times"`
}

type jsonInstance struct {
	Name        string      `json:"name,omitempty"`
	NumGroups   int         `json:"num_groups"`
	NumMachines int         `json:"num_machines"`
	MaxJobs     int         `json:"max_jobs,omitempty"`
	Groups      []jsonGroup `json:"groups"`
	Setups      []jsonSetup `json:"setups"`
}

// DecodeInstanceJSON reads an instance from its JSON form.
func DecodeInstanceJSON(r io.Reader) (*Instance, error) {
	var doc jsonInstance
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("error while decoding instance: %w", err)
	}
	if doc.NumGroups < 0 || doc.NumMachines < 0 {
		return nil, dataErrorf("sizes", "must be >= 0 (got %d groups, %d machines)", doc.NumGroups, doc.NumMachines)
	}
	if len(doc.Groups) != doc.NumGroups {
		return nil, dataErrorf("groups", "length must be num_groups=%d (got %d)", doc.NumGroups, len(doc.Groups))
	}

	inst := NewInstance(doc.NumGroups, doc.NumMachines)
	inst.Name = doc.Name
	inst.MaxJobs = doc.MaxJobs
	for p, g := range doc.Groups {
		for j, row := range g.Processing {
			if len(row) != doc.NumMachines {
				return nil, dataErrorf("processing", "group %d job %d: must have %d times (got %d)", p, j+1, doc.NumMachines, len(row))
			}
		}
		inst.SetJobs(p, g.Processing)
		inst.JobCounts[p] = g.Jobs
	}

	seen := mapset.NewSet[GroupPair]()
	for _, s := range doc.Setups {
		if !seen.Add(GroupPair{From: s.From, To: s.To}) {
			return nil, dataErrorf("setups", "transition %d -> %d defined twice", s.From, s.To)
		}
		inst.SetSetup(s.From, s.To, s.Times)
	}

	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

// EncodeInstanceJSON writes inst in the form DecodeInstanceJSON reads.
func EncodeInstanceJSON(w io.Writer, inst *Instance) error {
	doc := jsonInstance{
		Name:        inst.Name,
		NumGroups:   inst.NumGroups,
		NumMachines: inst.NumMachines,
		MaxJobs:     inst.MaxJobs,
		Groups:      make([]jsonGroup, inst.NumGroups),
		Setups:      make([]jsonSetup, 0, len(inst.Setups)),
	}
	for p := range inst.NumGroups {
		rows := processingRows(inst.Processing[p])
		doc.Groups[p] = jsonGroup{Jobs: inst.JobCounts[p], Processing: make([][]float64, rows)}
		for j := range rows {
			doc.Groups[p].Processing[j] = inst.Processing[p].RawRowView(j)
		}
	}
	for _, pair := range inst.SetupPairs() {
		doc.Setups = append(doc.Setups, jsonSetup{From: pair.From, To: pair.To, Times: inst.Setups[pair]})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// LoadInstance reads an instance file, choosing JSON for a .json extension
// and the text format otherwise.
func LoadInstance(filename string) (*Instance, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var inst *Instance
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		inst, err = DecodeInstanceJSON(file)
	} else {
		inst, err = ParseInstance(file)
	}
	if err != nil {
		return nil, err
	}
	if inst.Name == "" {
		inst.Name = strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	}
	return inst, nil
}
