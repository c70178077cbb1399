package checkfiles

import (
	"fmt"
	"sort"
)

// FileReport aggregates the violations found in one candidate. Each kind
// is recorded at most once for the summary, while every occurrence counts
// toward the run totals.
type FileReport struct {
	Path       string      `json:"path"`
	OK         bool        `json:"ok"`
	Violations []Violation `json:"violations,omitempty"`

	kinds map[ViolationKind]struct{}
}

func newFileReport(path string) *FileReport {
	return &FileReport{Path: path, kinds: make(map[ViolationKind]struct{})}
}

// add records one violation, stamping it with the report's path.
func (r *FileReport) add(v Violation) {
	v.File = r.Path
	r.Violations = append(r.Violations, v)
	r.kinds[v.Kind] = struct{}{}
}

// finish freezes the ok state once all lines have been seen.
func (r *FileReport) finish() *FileReport {
	r.OK = len(r.Violations) == 0
	return r
}

// Kinds returns the distinct violation kinds seen in this file, in a
// stable order.
func (r *FileReport) Kinds() []ViolationKind {
	kinds := make([]ViolationKind, 0, len(r.kinds))
	for k := range r.kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// RunReport is the run-level result across all candidates. HasIssues is
// the sole machine-readable pass/fail signal.
type RunReport struct {
	Files           []*FileReport `json:"files,omitempty"`
	FilesWithIssues int           `json:"filesWithIssues"`
	TotalIssues     int           `json:"totalIssues"`
}

// HasIssues reports whether any candidate had violations.
func (r *RunReport) HasIssues() bool {
	return r.FilesWithIssues > 0
}

// Summary renders the run-level warn line. where identifies what was
// scanned, e.g. a revision identifier or "working directory".
func (r *RunReport) Summary(where string) string {
	return fmt.Sprintf("checkfiles: %d issue(s) found in %d file(s) in %s",
		r.TotalIssues, r.FilesWithIssues, where)
}

// Aggregator collects per-file reports into a run report. Purely additive;
// the same path is never recorded twice within one run.
type Aggregator struct {
	seen  map[string]struct{}
	files []*FileReport
	with  int
	total int
}

// NewAggregator creates an empty aggregator for one run.
func NewAggregator() *Aggregator {
	return &Aggregator{seen: make(map[string]struct{})}
}

// RecordFile adds a finished file report. Duplicate paths are dropped.
func (a *Aggregator) RecordFile(report *FileReport) {
	if _, dup := a.seen[report.Path]; dup {
		return
	}
	a.seen[report.Path] = struct{}{}
	a.files = append(a.files, report)
	if !report.OK {
		a.with++
		a.total += len(report.Violations)
	}
}

// Finalize produces the run report. The aggregator may not be reused.
func (a *Aggregator) Finalize() *RunReport {
	return &RunReport{
		Files:           a.files,
		FilesWithIssues: a.with,
		TotalIssues:     a.total,
	}
}

// statusLine renders the one-line report entry for a violation.
func (v Violation) statusLine() string {
	switch {
	case v.Line > 0:
		return fmt.Sprintf("%s (%d): %s", v.File, v.Line, v.Message)
	case v.Hunk != "":
		return fmt.Sprintf("%s (%s): %s", v.File, v.Hunk, v.Message)
	}
	return fmt.Sprintf("%s: %s", v.File, v.Message)
}
