package planner

import (
	"strconv"
	"strings"

	"github.com/camkit/postall/internal/document"
	"github.com/camkit/postall/internal/settings"
)

// Job is one post-processing unit of work: a single eligible setup mapped to
// its output location.
type Job struct {
	// Setup is the setup to post-process.
	Setup document.Setup

	// Folder is the output folder relative to the output root, derived from
	// the hyphen-delimited setup name. Empty means the output root itself.
	Folder string

	// Filename is the output file name without extension, including the
	// sequence prefix when sequencing is enabled.
	Filename string

	// Sequence is the per-folder sequence number assigned to this job.
	Sequence int
}

// Plan is the deterministic mapping of a setup list to output files.
type Plan struct {
	// OutputRoot is the root output folder all job folders are relative to.
	OutputRoot string

	// DeleteFirst indicates the output root must be deleted before any file
	// is written.
	DeleteFirst bool

	// Jobs are the eligible setups in input order.
	Jobs []Job

	// SetupsVisited counts all setups seen, eligible or not.
	SetupsVisited int
}

// Empty reports whether the plan produces no output files.
func (p *Plan) Empty() bool {
	return len(p.Jobs) == 0
}

// Sequencer assigns per-folder sequence numbers to setups, one at a time, in
// the order they are offered. It is created empty for each run, never shared
// between runs, and never persisted.
type Sequencer struct {
	cfg      *settings.Settings
	counters map[string]int
}

// NewSequencer creates a Sequencer for one post-processing run.
func NewSequencer(cfg *settings.Settings) *Sequencer {
	return &Sequencer{
		cfg:      cfg,
		counters: make(map[string]int),
	}
}

// Next maps the given setup to its job. It returns ok=false for ineligible
// setups, which consume no sequence number.
func (s *Sequencer) Next(setup document.Setup) (Job, bool) {
	if !setup.Eligible() {
		return Job{}, false
	}

	folders, base := SplitName(setup.Name)
	folder := strings.Join(folders, "/")

	// Each distinct folder path keeps an independent counter starting at 1.
	s.counters[folder]++
	seq := s.counters[folder]

	filename := base
	if s.cfg.Sequence {
		seqStr := strconv.Itoa(seq)
		if s.cfg.TwoDigits && seq < 10 {
			seqStr = "0" + seqStr
		}
		filename = seqStr + " " + base
	}

	return Job{
		Setup:    setup,
		Folder:   folder,
		Filename: filename,
		Sequence: seq,
	}, true
}

// SplitName splits a setup name on hyphens into folder segments and the base
// file name. Each segment is trimmed of surrounding whitespace; internal
// whitespace is preserved. A name without hyphens yields no folder segments.
func SplitName(name string) (folders []string, base string) {
	parts := strings.Split(name, "-")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts[:len(parts)-1], parts[len(parts)-1]
}

// Build runs the Sequencer over the whole setup list and returns the
// resulting plan. The input order is authoritative: it is the basis of
// sequence numbering.
func Build(setups []document.Setup, cfg *settings.Settings) *Plan {
	plan := &Plan{
		OutputRoot:  cfg.Output,
		DeleteFirst: cfg.DelFiles,
	}

	seq := NewSequencer(cfg)
	for _, setup := range setups {
		plan.SetupsVisited++
		if job, ok := seq.Next(setup); ok {
			plan.Jobs = append(plan.Jobs, job)
		}
	}
	return plan
}
