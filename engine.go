package checkfiles

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Engine runs the hygiene checks and fixes over a set of candidates under
// one frozen policy. Construct with NewEngine; the zero value is not
// usable.
type Engine struct {
	policy   Policy
	out      io.Writer
	verbose  bool
	location string
	fetch    func(path string) *Candidate
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput directs the human-readable report stream. Defaults to
// io.Discard so library callers get reports, not prints.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.out = w }
}

// WithVerbose enables the two-line caret rendering under each violation
// and per-file "ok" lines.
func WithVerbose(v bool) Option {
	return func(e *Engine) { e.verbose = v }
}

// WithLocation names what is being scanned in the run summary, typically a
// revision identifier. Defaults to "working directory".
func WithLocation(location string) Option {
	return func(e *Engine) { e.location = location }
}

// WithContentFetcher supplies the content accessor used for relevance
// testing of paths named by a diff stream. Defaults to reading the
// working copy.
func WithContentFetcher(fetch func(path string) *Candidate) Option {
	return func(e *Engine) { e.fetch = fetch }
}

// NewEngine creates an engine for one run.
func NewEngine(policy Policy, opts ...Option) *Engine {
	e := &Engine{
		policy:   policy,
		out:      io.Discard,
		location: "working directory",
		fetch:    NewFileCandidate,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check scans the full content of every relevant candidate and returns
// the run report. Violations are a normal outcome, not an error.
func (e *Engine) Check(ctx context.Context, candidates []*Candidate) (*RunReport, error) {
	agg := NewAggregator()

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := isRelevant(c, e.policy)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
		}
		if !ok {
			continue
		}

		content, err := c.Content()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
		}

		report := newFileReport(c.Path)
		for num, line := range splitScanLines(string(content)) {
			for _, v := range scanLine(line, e.policy) {
				v.Line = num + 1
				report.add(v)
			}
		}
		agg.RecordFile(report.finish())
	}

	run := agg.Finalize()
	e.printReport(run)
	return run, nil
}

// CheckDiff scans only the lines inserted by a change, supplied as a
// unified diff. Changes that are not simple (parent count other than one,
// i.e. merges or roots) are skipped entirely and reported as such.
func (e *Engine) CheckDiff(ctx context.Context, numParents int, diff io.Reader) (*RunReport, error) {
	if numParents != 1 {
		fmt.Fprintf(e.out, "checkfiles: skipping change with %d parents\n", numParents)
		return NewAggregator().Finalize(), nil
	}

	classifier := newDiffClassifier(e.policy, func(path string) (bool, error) {
		return isRelevant(e.fetch(path), e.policy)
	})

	err := tokenizeDiff(diff, func(tok diffToken) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return classifier.feed(tok)
	})
	if err != nil {
		return nil, err
	}

	run := classifier.finalize()
	e.printReport(run)
	return run, nil
}

// Fix rewrites every relevant candidate that violates the policy and
// returns the pre-fix run report. Fixing is file-at-a-time: a write
// failure aborts the run but earlier fixes stay on disk.
func (e *Engine) Fix(ctx context.Context, candidates []*Candidate) (*RunReport, error) {
	agg := NewAggregator()

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ok, err := isRelevant(c, e.policy)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
		}
		if !ok {
			continue
		}

		content, err := c.Content()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", c.Path, err)
		}

		report := newFileReport(c.Path)
		for num, line := range splitScanLines(string(content)) {
			for _, v := range scanLine(line, e.policy) {
				v.Line = num + 1
				report.add(v)
			}
		}
		report.finish()
		agg.RecordFile(report)
		if report.OK {
			continue
		}

		fmt.Fprintf(e.out, "checkfiles: fixing %s\n", c.Path)
		if err := writeFixed(c.Path, FixContent(content, e.policy)); err != nil {
			return nil, err
		}
	}

	return agg.Finalize(), nil
}

// writeFixed replaces the file at path, keeping its permission bits.
func writeFixed(path string, content []byte) error {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("failed to write fix to %s: %w", path, err)
	}
	return nil
}

// printReport renders the per-violation and summary lines to the engine's
// output stream.
func (e *Engine) printReport(run *RunReport) {
	for _, file := range run.Files {
		for _, v := range file.Violations {
			fmt.Fprintln(e.out, v.statusLine())
			if e.verbose && v.Detail != "" {
				for _, l := range strings.Split(v.Detail, "\n") {
					fmt.Fprintf(e.out, "  %s\n", l)
				}
			}
		}
		if e.verbose && file.OK {
			fmt.Fprintf(e.out, "%s: ok\n", file.Path)
		}
	}
	if run.HasIssues() {
		fmt.Fprintln(e.out, run.Summary(e.location))
	}
}
