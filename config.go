package checkfiles

import (
	"fmt"
)

// Config is the on-disk JSON configuration that resolves into a Policy.
// Optional fields are pointers so that merging can tell "unset" from
// "set to the zero value".
type Config struct {
	CheckedSuffixes []string `json:"checkedSuffixes,omitempty"`
	IgnoredSuffixes []string `json:"ignoredSuffixes,omitempty"`
	IgnoredPaths    []string `json:"ignoredPaths,omitempty"`
	TabWidth        *int     `json:"tabWidth,omitempty"`
	IndentMode      *string  `json:"indentMode,omitempty"` // "spaces" or "tabs"
	DiffOnly        *bool    `json:"diffOnly,omitempty"`
}

// NewConfig creates an empty configuration.
func NewConfig() *Config {
	return &Config{}
}

// Merge combines two configs, with other taking precedence. Suffix and
// path lists are replaced wholesale rather than unioned, so a later file
// can narrow as well as widen the earlier one.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}
	if other.CheckedSuffixes != nil {
		c.CheckedSuffixes = other.CheckedSuffixes
	}
	if other.IgnoredSuffixes != nil {
		c.IgnoredSuffixes = other.IgnoredSuffixes
	}
	if other.IgnoredPaths != nil {
		c.IgnoredPaths = other.IgnoredPaths
	}
	if other.TabWidth != nil {
		c.TabWidth = other.TabWidth
	}
	if other.IndentMode != nil {
		c.IndentMode = other.IndentMode
	}
	if other.DiffOnly != nil {
		c.DiffOnly = other.DiffOnly
	}
}

// Policy resolves the configuration into a frozen Policy, applying
// defaults for unset fields. Invalid values are fatal configuration
// errors.
func (c *Config) Policy() (Policy, error) {
	p := DefaultPolicy()
	p.CheckedSuffixes = c.CheckedSuffixes
	p.IgnoredSuffixes = c.IgnoredSuffixes
	p.IgnoredPaths = c.IgnoredPaths

	if c.TabWidth != nil {
		p.TabWidth = *c.TabWidth
	}
	if c.IndentMode != nil {
		mode, err := ParseIndentMode(*c.IndentMode)
		if err != nil {
			return Policy{}, fmt.Errorf("invalid indentMode: %w", err)
		}
		p.IndentMode = mode
	}
	if c.DiffOnly != nil {
		p.DiffOnly = *c.DiffOnly
	}

	return NewPolicy(p)
}
