package checkfiles

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// IndentMode selects which indentation character is policy and which is a
// violation.
type IndentMode int

const (
	// SpacesOnly flags any tab character in a checked line, not just tabs
	// in the leading run. This matches codebases where tabs should never
	// appear in checked source at all.
	SpacesOnly IndentMode = iota

	// TabsOnly flags spaces in the leading indentation run before real
	// content. Unlike SpacesOnly it inspects only the leading run; interior
	// and trailing spaces are governed by the trailing-whitespace check.
	TabsOnly
)

// String returns the configuration spelling of the mode.
func (m IndentMode) String() string {
	switch m {
	case SpacesOnly:
		return "spaces"
	case TabsOnly:
		return "tabs"
	}
	return fmt.Sprintf("IndentMode(%d)", int(m))
}

// ParseIndentMode converts a configuration value into an IndentMode.
func ParseIndentMode(s string) (IndentMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "spaces", "space":
		return SpacesOnly, nil
	case "tabs", "tab":
		return TabsOnly, nil
	}
	return SpacesOnly, fmt.Errorf("unknown indent mode %q (want \"spaces\" or \"tabs\")", s)
}

// DefaultTabWidth is the tab expansion width used when none is configured.
const DefaultTabWidth = 8

// DefaultCheckedSuffixes is the classic set of source suffixes written into
// starter configurations. The engine itself defaults to checking every text
// file; this list exists for projects that want the historical behavior.
var DefaultCheckedSuffixes = []string{
	".c", ".h", ".cpp", ".xml", ".cs", ".html", ".js", ".css", ".txt",
	".py", ".nsi", ".java", ".aspx", ".asp", ".bat", ".cmd", ".glsl",
}

// Policy is the immutable run configuration for the engine. Build one with
// NewPolicy and treat the value as frozen; the engine never mutates it.
type Policy struct {
	// CheckedSuffixes restricts checking to paths with one of these
	// suffixes. Empty means every text file is checked.
	CheckedSuffixes []string

	// IgnoredSuffixes excludes paths by suffix, taking precedence over
	// CheckedSuffixes.
	IgnoredSuffixes []string

	// IgnoredPaths excludes individual paths. Entries are matched exactly
	// and as doublestar glob patterns, so "vendor/**" works alongside
	// "docs/contains_tabs.txt".
	IgnoredPaths []string

	// TabWidth is the tab expansion width for pointer rendering and
	// fixing. Always >= 1.
	TabWidth int

	// IndentMode selects spaces-only or tabs-only indentation policy.
	IndentMode IndentMode

	// DiffOnly restricts scanning to lines inserted by the change under
	// inspection instead of full file contents.
	DiffOnly bool
}

// NewPolicy returns a Policy with defaults applied and the given values
// validated. A tab width below 1 is a configuration error.
func NewPolicy(p Policy) (Policy, error) {
	if p.TabWidth == 0 {
		p.TabWidth = DefaultTabWidth
	}
	if p.TabWidth < 1 {
		return Policy{}, fmt.Errorf("tab width must be >= 1, got %d", p.TabWidth)
	}
	return p, nil
}

// DefaultPolicy returns the policy used when no configuration is present:
// every text file checked, spaces-only indentation, tab width 8.
func DefaultPolicy() Policy {
	return Policy{TabWidth: DefaultTabWidth, IndentMode: SpacesOnly}
}

// ignoresPath reports whether path matches an entry in IgnoredPaths, either
// exactly or as a glob pattern. Invalid patterns are treated as literal
// strings rather than errors.
func (p Policy) ignoresPath(path string) bool {
	for _, entry := range p.IgnoredPaths {
		if path == entry {
			return true
		}
		if ok, err := doublestar.Match(entry, path); err == nil && ok {
			return true
		}
	}
	return false
}

// ignoresSuffix reports whether path ends with an ignored suffix.
func (p Policy) ignoresSuffix(path string) bool {
	for _, suffix := range p.IgnoredSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}

// checksSuffix reports whether path passes the checked-suffix gate. An
// empty CheckedSuffixes list accepts every path.
func (p Policy) checksSuffix(path string) bool {
	if len(p.CheckedSuffixes) == 0 {
		return true
	}
	for _, suffix := range p.CheckedSuffixes {
		if strings.HasSuffix(path, suffix) {
			return true
		}
	}
	return false
}
