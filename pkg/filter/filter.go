// Package filter selects changes from a diff result by glob-style path
// patterns. Patterns are dot-separated segments: a literal matches exactly
// one segment with that string form (array indexes match their decimal
// form), `*` matches exactly one segment of any value, and `**` matches
// zero or more consecutive segments. Matching is anchored at both ends.
package filter

import (
	"fmt"
	"strings"

	"github.com/wonderfulspam/semdiff/pkg/diff"
	"github.com/wonderfulspam/semdiff/pkg/tree"
)

type segmentKind int

const (
	segmentLiteral segmentKind = iota
	segmentSingleWildcard
	segmentDoubleWildcard
)

type patternSegment struct {
	kind    segmentKind
	literal string
}

// Pattern is a compiled path pattern.
type Pattern struct {
	raw      string
	segments []patternSegment
}

// ParsePattern compiles a pattern string. Empty patterns and empty segments
// (leading/trailing/doubled dots) are rejected here so that filtering
// itself can never fail.
func ParsePattern(raw string) (*Pattern, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty filter pattern")
	}
	parts := strings.Split(raw, ".")
	segments := make([]patternSegment, len(parts))
	for i, part := range parts {
		switch part {
		case "":
			return nil, fmt.Errorf("pattern %q: empty segment", raw)
		case "*":
			segments[i] = patternSegment{kind: segmentSingleWildcard}
		case "**":
			segments[i] = patternSegment{kind: segmentDoubleWildcard}
		default:
			segments[i] = patternSegment{kind: segmentLiteral, literal: part}
		}
	}
	return &Pattern{raw: raw, segments: segments}, nil
}

// String returns the original pattern text.
func (p *Pattern) String() string {
	return p.raw
}

// Matches reports whether the pattern consumes the entire path. A trailing
// `**` may match zero segments, so "spec.**" matches the bare path "spec".
func (p *Pattern) Matches(path tree.Path) bool {
	segs := make([]string, len(path))
	for i, s := range path {
		segs[i] = s.String()
	}
	return matchSegments(p.segments, segs)
}

func matchSegments(pattern []patternSegment, path []string) bool {
	if len(pattern) == 0 {
		return len(path) == 0
	}
	if len(path) == 0 {
		// Only double wildcards can match the empty remainder.
		for _, seg := range pattern {
			if seg.kind != segmentDoubleWildcard {
				return false
			}
		}
		return true
	}
	switch seg := pattern[0]; seg.kind {
	case segmentLiteral:
		return seg.literal == path[0] && matchSegments(pattern[1:], path[1:])
	case segmentSingleWildcard:
		return matchSegments(pattern[1:], path[1:])
	default:
		// `**`: try matching zero segments, then one more, backtracking.
		return matchSegments(pattern[1:], path) || matchSegments(pattern, path[1:])
	}
}

// Config holds compiled ignore/only pattern sets. Build it with NewConfig
// so malformed patterns surface as configuration errors, not mid-diff.
type Config struct {
	Ignore []*Pattern
	Only   []*Pattern
}

// NewConfig compiles ignore and only pattern lists.
func NewConfig(ignore, only []string) (*Config, error) {
	cfg := &Config{}
	for _, raw := range ignore {
		p, err := ParsePattern(raw)
		if err != nil {
			return nil, fmt.Errorf("ignore: %w", err)
		}
		cfg.Ignore = append(cfg.Ignore, p)
	}
	for _, raw := range only {
		p, err := ParsePattern(raw)
		if err != nil {
			return nil, fmt.Errorf("only: %w", err)
		}
		cfg.Only = append(cfg.Only, p)
	}
	return cfg, nil
}

// HasFilters reports whether any pattern is configured.
func (c *Config) HasFilters() bool {
	return len(c.Ignore) > 0 || len(c.Only) > 0
}

// Includes reports whether a path passes the filter: it must match at least
// one only-pattern when any are configured, and no ignore-pattern.
func (c *Config) Includes(path tree.Path) bool {
	for _, p := range c.Ignore {
		if p.Matches(path) {
			return false
		}
	}
	if len(c.Only) == 0 {
		return true
	}
	for _, p := range c.Only {
		if p.Matches(path) {
			return true
		}
	}
	return false
}

// Apply returns a new result holding the changes that pass the filter, with
// stats recomputed. The input result is never mutated, and filtering the
// output again with the same config yields an identical result.
func Apply(result *diff.Result, cfg *Config) *diff.Result {
	if cfg == nil || !cfg.HasFilters() {
		return &diff.Result{Changes: result.Changes, Stats: result.Stats}
	}
	filtered := make([]diff.Change, 0, len(result.Changes))
	for _, c := range result.Changes {
		if cfg.Includes(c.Path) {
			filtered = append(filtered, c)
		}
	}
	return &diff.Result{Changes: filtered, Stats: diff.CountStats(filtered)}
}
