package checkfiles

import (
	"fmt"
	"strings"
)

// ViolationKind classifies a formatting violation.
type ViolationKind int

const (
	// AllWhitespace marks a non-empty line consisting only of spaces and
	// tabs.
	AllWhitespace ViolationKind = iota

	// TrailingWhitespace marks a line ending in a space or tab.
	TrailingWhitespace

	// WrongIndentChar marks indentation using the character the policy
	// forbids: any tab under SpacesOnly, space-led indentation under
	// TabsOnly.
	WrongIndentChar
)

// String returns a short identifier for the kind.
func (k ViolationKind) String() string {
	switch k {
	case AllWhitespace:
		return "all-whitespace"
	case TrailingWhitespace:
		return "trailing-whitespace"
	case WrongIndentChar:
		return "wrong-indent-char"
	}
	return fmt.Sprintf("ViolationKind(%d)", int(k))
}

// Violation is a single formatting problem found in a candidate.
type Violation struct {
	File string        `json:"file"`
	Line int           `json:"line,omitempty"` // 1-based; 0 when only hunk granularity is known
	Hunk string        `json:"hunk,omitempty"` // diff-mode attribution when no line number is known
	Kind ViolationKind `json:"-"`

	// Message is the human-readable description, e.g. "trailing
	// whitespace" or "tab character(s)".
	Message string `json:"message"`

	// Detail is the optional two-line visual rendering: the tab-expanded
	// line followed by a caret pointer under the offending span.
	Detail string `json:"detail,omitempty"`
}

// scanLine classifies one line, with its line-ending characters already
// stripped, against the policy. The checks are ordered and the first match
// wins, so a line reports at most one kind.
func scanLine(line string, policy Policy) []Violation {
	if line == "" {
		return nil
	}

	if isAllWhitespace(line) {
		return []Violation{{Kind: AllWhitespace, Message: "all whitespace"}}
	}

	if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return []Violation{{
			Kind:    TrailingWhitespace,
			Message: "trailing whitespace",
			Detail:  trailingPointer(line, policy.TabWidth),
		}}
	}

	return scanIndent(line, policy)
}

// scanIndent applies the indentation-character rule for the policy's mode.
// SpacesOnly flags a tab anywhere in the line; TabsOnly flags only a
// leading run that mixes in spaces before real content. The asymmetry is
// deliberate and matches long-standing behavior.
func scanIndent(line string, policy Policy) []Violation {
	switch policy.IndentMode {
	case SpacesOnly:
		if strings.ContainsRune(line, '\t') {
			return []Violation{{
				Kind:    WrongIndentChar,
				Message: "tab character(s)",
				Detail:  tabPointer(line, policy.TabWidth),
			}}
		}
	case TabsOnly:
		run := leadingRun(line)
		if len(run) < len(line) && strings.ContainsRune(run, ' ') {
			return []Violation{{
				Kind:    WrongIndentChar,
				Message: "space(s) in indentation",
				Detail:  indentSpacePointer(line, policy.TabWidth),
			}}
		}
	}
	return nil
}

// isAllWhitespace reports whether s is non-empty and contains only spaces
// and tabs.
func isAllWhitespace(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return false
		}
	}
	return true
}

// leadingRun returns the longest prefix of s consisting of tabs and spaces.
func leadingRun(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[:i]
		}
	}
	return s
}

// expandTabs replaces each tab with spaces up to the next multiple of
// width, like the display expansion terminals apply.
func expandTabs(s string, width int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\t' {
			n := width - col%width
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteByte(s[i])
		col++
	}
	return b.String()
}

// trailingPointer renders the line tab-expanded with carets under the
// trailing whitespace run.
func trailingPointer(line string, width int) string {
	expanded := expandTabs(line, width)
	trimmed := len(strings.TrimRight(expanded, " "))
	pointer := strings.Repeat(" ", trimmed) + strings.Repeat("^", len(expanded)-trimmed)
	return renderDetail(expanded, pointer)
}

// tabPointer renders the line tab-expanded with a caret run of the tab
// width under each tab. The pointer uses a fixed-width run per tab rather
// than tab-stop arithmetic, matching the historical rendering.
func tabPointer(line string, width int) string {
	var pointer strings.Builder
	for i := 0; i < len(line); i++ {
		if line[i] == '\t' {
			pointer.WriteString(strings.Repeat("^", width))
		} else {
			pointer.WriteByte(' ')
		}
	}
	return renderDetail(expandTabs(line, width), pointer.String())
}

// indentSpacePointer renders the line tab-expanded with one caret per
// space in the leading run.
func indentSpacePointer(line string, width int) string {
	var pointer strings.Builder
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			pointer.WriteByte('^')
		case '\t':
			pointer.WriteString(strings.Repeat(" ", width))
		default:
			return renderDetail(expandTabs(line, width), pointer.String())
		}
	}
	return renderDetail(expandTabs(line, width), pointer.String())
}

func renderDetail(expanded, pointer string) string {
	return expanded + "\n" + pointer
}
