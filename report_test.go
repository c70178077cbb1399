package checkfiles

import (
	"strings"
	"testing"
)

func TestFileReport_KindsDedupedButOccurrencesCounted(t *testing.T) {
	report := newFileReport("a.py")
	report.add(Violation{Kind: TrailingWhitespace, Line: 1, Message: "trailing whitespace"})
	report.add(Violation{Kind: TrailingWhitespace, Line: 5, Message: "trailing whitespace"})
	report.add(Violation{Kind: AllWhitespace, Line: 7, Message: "all whitespace"})
	report.finish()

	if report.OK {
		t.Error("OK = true, want false")
	}
	if got := len(report.Kinds()); got != 2 {
		t.Errorf("len(Kinds()) = %d, want 2", got)
	}
	if got := len(report.Violations); got != 3 {
		t.Errorf("len(Violations) = %d, want 3", got)
	}

	agg := NewAggregator()
	agg.RecordFile(report)
	run := agg.Finalize()
	if run.FilesWithIssues != 1 {
		t.Errorf("FilesWithIssues = %d, want 1", run.FilesWithIssues)
	}
	if run.TotalIssues != 3 {
		t.Errorf("TotalIssues = %d, want 3", run.TotalIssues)
	}
}

func TestAggregator_DuplicatePathDropped(t *testing.T) {
	agg := NewAggregator()

	first := newFileReport("a.py")
	first.add(Violation{Kind: AllWhitespace, Message: "all whitespace"})
	agg.RecordFile(first.finish())

	second := newFileReport("a.py")
	second.add(Violation{Kind: TrailingWhitespace, Message: "trailing whitespace"})
	agg.RecordFile(second.finish())

	run := agg.Finalize()
	if len(run.Files) != 1 {
		t.Errorf("len(Files) = %d, want 1", len(run.Files))
	}
	if run.TotalIssues != 1 {
		t.Errorf("TotalIssues = %d, want 1", run.TotalIssues)
	}
}

func TestAggregator_CleanFilesDoNotCount(t *testing.T) {
	agg := NewAggregator()
	agg.RecordFile(newFileReport("clean.py").finish())
	run := agg.Finalize()

	if run.HasIssues() {
		t.Error("HasIssues() = true, want false")
	}
	if run.FilesWithIssues != 0 || run.TotalIssues != 0 {
		t.Errorf("run = %d/%d, want 0/0", run.FilesWithIssues, run.TotalIssues)
	}
	if !run.Files[0].OK {
		t.Error("clean file report not ok")
	}
}

func TestRunReport_Summary(t *testing.T) {
	run := &RunReport{FilesWithIssues: 2, TotalIssues: 5}
	got := run.Summary("working directory")
	want := "checkfiles: 5 issue(s) found in 2 file(s) in working directory"
	if got != want {
		t.Errorf("Summary() = %q, want %q", got, want)
	}
}

func TestViolation_StatusLine(t *testing.T) {
	tests := []struct {
		name string
		v    Violation
		want string
	}{
		{
			"with line number",
			Violation{File: "a.py", Line: 2, Message: "trailing whitespace"},
			"a.py (2): trailing whitespace",
		},
		{
			"hunk granularity",
			Violation{File: "a.py", Hunk: "@@ -1 +1 @@", Message: "tab character(s)"},
			"a.py (@@ -1 +1 @@): tab character(s)",
		},
		{
			"no position",
			Violation{File: "a.py", Message: "all whitespace"},
			"a.py: all whitespace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.statusLine(); got != tt.want {
				t.Errorf("statusLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFileReport_KindsStableOrder(t *testing.T) {
	report := newFileReport("f")
	report.add(Violation{Kind: WrongIndentChar})
	report.add(Violation{Kind: AllWhitespace})
	report.add(Violation{Kind: TrailingWhitespace})

	kinds := report.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	want := "all-whitespace,trailing-whitespace,wrong-indent-char"
	if strings.Join(names, ",") != want {
		t.Errorf("Kinds() = %v, want %s", names, want)
	}
}
