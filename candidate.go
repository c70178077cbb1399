package checkfiles

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
)

// ErrAbsent is returned by content accessors when the path does not exist
// at the candidate's revision. The filter treats it as a normal skip, not
// a failure: a file deleted by the change under inspection is expected.
var ErrAbsent = errors.New("file absent at this revision")

// ContentFunc fetches the byte content of a candidate at its revision.
// Return ErrAbsent (or wrap it) for deleted/missing paths.
type ContentFunc func() ([]byte, error)

// Candidate is a path bound to a lazily-fetched content accessor for a
// specific revision or the working copy. The first fetch is cached so that
// relevance testing, scanning, and fixing share one read.
type Candidate struct {
	Path string

	fetch   ContentFunc
	content []byte
	err     error
	fetched bool
}

// NewCandidate creates a candidate for path whose content is supplied by
// fetch when first needed.
func NewCandidate(path string, fetch ContentFunc) *Candidate {
	return &Candidate{Path: path, fetch: fetch}
}

// NewFileCandidate creates a candidate backed by the file at path in the
// working copy. A missing file reads as ErrAbsent.
func NewFileCandidate(path string) *Candidate {
	return NewCandidate(path, func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrAbsent
		}
		return data, err
	})
}

// NewContentCandidate creates a candidate from already-fetched bytes.
func NewContentCandidate(path string, content []byte) *Candidate {
	return NewCandidate(path, func() ([]byte, error) { return content, nil })
}

// Content returns the candidate's bytes, fetching at most once.
func (c *Candidate) Content() ([]byte, error) {
	if !c.fetched {
		c.content, c.err = c.fetch()
		c.fetched = true
	}
	return c.content, c.err
}

// isRelevant applies the relevance gates in fixed precedence: explicit
// path ignore, ignored suffix, checked suffix, absent content, binary
// content. A candidate rejected by any gate never reaches the scanner.
func isRelevant(c *Candidate, policy Policy) (bool, error) {
	if policy.ignoresPath(c.Path) {
		return false, nil
	}
	if policy.ignoresSuffix(c.Path) {
		return false, nil
	}
	if !policy.checksSuffix(c.Path) {
		return false, nil
	}

	content, err := c.Content()
	if err != nil {
		if errors.Is(err, ErrAbsent) {
			return false, nil
		}
		return false, err
	}

	// NUL byte anywhere classifies the content as binary. A heuristic,
	// not real encoding detection.
	if bytes.IndexByte(content, 0) >= 0 {
		return false, nil
	}

	return true, nil
}
