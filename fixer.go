package checkfiles

import (
	"strings"
)

// FixContent rewrites content so that re-scanning it under the same policy
// reports clean. Line content is rewritten per the policy's indent mode;
// the presence or absence of a final line terminator is preserved.
func FixContent(content []byte, policy Policy) []byte {
	s := string(content)
	hadFinalNewline := strings.HasSuffix(s, "\n")
	if hadFinalNewline {
		s = s[:len(s)-1]
	}

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Carriage returns belong to the line terminator, not the line.
		cr := strings.HasSuffix(line, "\r")
		if cr {
			line = line[:len(line)-1]
		}
		line = fixLine(line, policy)
		if cr {
			line += "\r"
		}
		lines[i] = line
	}

	out := strings.Join(lines, "\n")
	if hadFinalNewline {
		out += "\n"
	}
	return []byte(out)
}

// fixLine rewrites a single line, already stripped of its terminator.
func fixLine(line string, policy Policy) string {
	switch policy.IndentMode {
	case TabsOnly:
		return fixLineTabs(line, policy.TabWidth)
	default:
		return fixLineSpaces(line, policy.TabWidth)
	}
}

// fixLineSpaces strips trailing whitespace, then expands every tab to the
// tab width. The order matters: trailing tabs must not survive as spaces.
func fixLineSpaces(line string, width int) string {
	return expandTabs(strings.TrimRight(line, " \t"), width)
}

// fixLineTabs converts only the leading indentation run to tabs, collapsing
// each full tab width of spaces into one tab. Interior spaces are left
// alone; trailing whitespace is stripped.
func fixLineTabs(line string, width int) string {
	if isAllWhitespace(line) {
		return ""
	}

	run := leadingRun(line)
	rest := strings.TrimRight(line[len(run):], " \t")
	if run == "" {
		return rest
	}

	// The run starts at column zero, so expanding it yields a pure space
	// prefix whose length collapses by floor division.
	expanded := expandTabs(run, width)
	tabs := len(expanded) / width
	spaces := len(expanded) % width
	return strings.Repeat("\t", tabs) + strings.Repeat(" ", spaces) + rest
}

// NeedsFix reports whether any line of content violates the policy.
func NeedsFix(content []byte, policy Policy) bool {
	for _, line := range splitScanLines(string(content)) {
		if len(scanLine(line, policy)) > 0 {
			return true
		}
	}
	return false
}

// splitScanLines splits content into lines with their terminators (\n and
// any preceding \r) stripped, dropping the empty slot after a final
// newline so that line numbering matches the file.
func splitScanLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
