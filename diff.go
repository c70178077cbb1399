package checkfiles

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// tokenLabel is the semantic role of one chunk of unified-diff text, in
// the style of a diff renderer that labels what it emits.
type tokenLabel int

const (
	labelOther tokenLabel = iota
	labelFileHeader
	labelHunkHeader
	labelInserted
	labelTrailingWS
	labelContext
	labelDeleted
)

// diffToken is one labeled chunk from the diff stream. For labelInserted
// the text is the inserted line with any trailing whitespace run split off
// into a following labelTrailingWS token.
type diffToken struct {
	label tokenLabel
	text  string
}

var hunkNewStart = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)`)

// tokenizeDiff reads a unified diff line by line and feeds labeled tokens
// to emit, in stream order. A "+++" line counts as a file header only when
// it directly follows a "---" line, so inserted lines that happen to start
// with "++" are not misread.
func tokenizeDiff(r io.Reader, emit func(diffToken) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	afterOldHeader := false
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")

		wasAfterOldHeader := afterOldHeader
		afterOldHeader = false

		var toks [2]diffToken
		n := 1
		switch {
		case strings.HasPrefix(line, "--- "):
			afterOldHeader = true
			toks[0] = diffToken{labelOther, line}
		case strings.HasPrefix(line, "+++ ") && wasAfterOldHeader:
			toks[0] = diffToken{labelFileHeader, line[len("+++ "):]}
		case strings.HasPrefix(line, "@@"):
			toks[0] = diffToken{labelHunkHeader, line}
		case strings.HasPrefix(line, "+"):
			body := line[1:]
			trimmed := strings.TrimRight(body, " \t")
			toks[0] = diffToken{labelInserted, trimmed}
			if len(trimmed) < len(body) {
				toks[1] = diffToken{labelTrailingWS, body[len(trimmed):]}
				n = 2
			}
		case strings.HasPrefix(line, "-"):
			toks[0] = diffToken{labelDeleted, line[1:]}
		case strings.HasPrefix(line, " "), line == "":
			toks[0] = diffToken{labelContext, strings.TrimPrefix(line, " ")}
		default:
			toks[0] = diffToken{labelOther, line}
		}
		for _, tok := range toks[:n] {
			if err := emit(tok); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read diff stream: %w", err)
	}
	return nil
}

// parseFileHeaderPath extracts the new-side path from a "+++" header
// payload, stripping the "a/"/"b/" prefix and any trailing metadata after
// a tab. An unparseable header or /dev/null yields "", meaning no current
// file.
func parseFileHeaderPath(text string) string {
	if i := strings.IndexByte(text, '\t'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	if text == "" || text == "/dev/null" {
		return ""
	}
	if strings.HasPrefix(text, "a/") || strings.HasPrefix(text, "b/") {
		text = text[2:]
	}
	return text
}

// diffClassifier is the state machine that narrows detection to inserted
// lines, attributing each violation to the current file and hunk. The
// value is threaded through a fold over the token stream; feed never
// captures hidden mutable state.
type diffClassifier struct {
	policy   Policy
	relevant func(path string) (bool, error)

	agg       *Aggregator
	current   *FileReport // nil suppresses detection until the next file header
	hunk      string
	lastLabel tokenLabel
	newLine   int // next new-side line number; 0 when the hunk header did not parse
}

func newDiffClassifier(policy Policy, relevant func(string) (bool, error)) *diffClassifier {
	return &diffClassifier{
		policy:   policy,
		relevant: relevant,
		agg:      NewAggregator(),
	}
}

// feed advances the state machine by one token.
func (c *diffClassifier) feed(tok diffToken) error {
	wasInserted := c.lastLabel == labelInserted
	c.lastLabel = tok.label

	switch tok.label {
	case labelFileHeader:
		c.closeCurrent()
		c.hunk = ""
		c.newLine = 0
		path := parseFileHeaderPath(tok.text)
		if path == "" {
			return nil
		}
		ok, err := c.relevant(path)
		if err != nil {
			return err
		}
		if ok {
			c.current = newFileReport(path)
		}

	case labelHunkHeader:
		c.hunk = strings.TrimSpace(tok.text)
		c.newLine = 0
		if m := hunkNewStart.FindStringSubmatch(tok.text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				c.newLine = n
			}
		}

	case labelInserted:
		line := c.takeLine()
		if c.current == nil {
			return nil
		}
		for _, v := range scanIndent(tok.text, c.policy) {
			v.Line = line
			v.Hunk = c.hunk
			c.current.add(v)
		}

	case labelTrailingWS:
		// A marker counts only when it directly follows an inserted
		// line; anywhere else it cannot belong to this change.
		if c.current == nil || !wasInserted {
			return nil
		}
		line := 0
		if c.newLine > 0 {
			line = c.newLine - 1
		}
		c.current.add(Violation{
			Kind:    TrailingWhitespace,
			Line:    line,
			Hunk:    c.hunk,
			Message: "trailing whitespace",
		})

	case labelContext:
		c.takeLine()
	}
	return nil
}

// takeLine returns the new-side line number for the token being consumed
// and advances the counter.
func (c *diffClassifier) takeLine() int {
	if c.newLine == 0 {
		return 0
	}
	line := c.newLine
	c.newLine++
	return line
}

// closeCurrent emits the in-progress file report, if any.
func (c *diffClassifier) closeCurrent() {
	if c.current != nil {
		c.agg.RecordFile(c.current.finish())
		c.current = nil
	}
}

// finalize closes the last file and produces the run report.
func (c *diffClassifier) finalize() *RunReport {
	c.closeCurrent()
	return c.agg.Finalize()
}
