// Package diff implements the semantic diff engine: a recursive comparator
// over normalized value trees that produces an ordered, path-addressed set
// of changes.
package diff

import "github.com/wonderfulspam/semdiff/pkg/tree"

// ChangeType classifies a single reported difference.
type ChangeType string

const (
	ChangeTypeAdded     ChangeType = "added"
	ChangeTypeRemoved   ChangeType = "removed"
	ChangeTypeModified  ChangeType = "modified"
	ChangeTypeUnchanged ChangeType = "unchanged"
)

// Strategy selects how arrays are aligned before element comparison.
type Strategy string

const (
	// StrategyPositional matches index i with index i. O(n), but an
	// insertion before the tail cascades into modifications.
	StrategyPositional Strategy = "positional"
	// StrategyLCS aligns equal elements via a longest common subsequence,
	// isolating true insertions and removals. O(n·m) time and space.
	StrategyLCS Strategy = "lcs"
)

// Config controls a single comparison. It is read-only for the duration of
// the comparison and never mutated by the engine.
type Config struct {
	// Compact suppresses Unchanged entries.
	Compact bool
	// NullAsMissing treats a key holding null as absent when comparing
	// key presence between objects.
	NullAsMissing bool
	// IgnoreWhitespace normalizes whitespace runs in strings before
	// comparing them.
	IgnoreWhitespace bool
	// ArrayStrategy selects the array aligner. Empty means positional.
	ArrayStrategy Strategy
}

// DefaultConfig returns the default comparison configuration: compact
// output, exact string comparison, positional array alignment.
func DefaultConfig() *Config {
	return &Config{
		Compact:       true,
		ArrayStrategy: StrategyPositional,
	}
}

func (c *Config) equalOptions() tree.EqualOptions {
	return tree.EqualOptions{IgnoreWhitespace: c.IgnoreWhitespace}
}

// Change is one reported difference at a specific path. OldValue is nil for
// Added changes, NewValue is nil for Removed changes; both are fully
// materialized subtrees otherwise.
type Change struct {
	Path     tree.Path   `json:"path"`
	Type     ChangeType  `json:"type"`
	OldValue *tree.Value `json:"old_value,omitempty"`
	NewValue *tree.Value `json:"new_value,omitempty"`
}

// Stats aggregates change counts for a diff result.
type Stats struct {
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// TotalChanges returns the number of changes excluding unchanged entries.
func (s Stats) TotalChanges() int {
	return s.Added + s.Removed + s.Modified
}

// IsEmpty reports whether no added, removed or modified entries exist.
func (s Stats) IsEmpty() bool {
	return s.TotalChanges() == 0
}

// Result is an ordered change set plus aggregate counts. It is owned by the
// caller, carries no engine state, and can be filtered any number of times.
type Result struct {
	Changes []Change `json:"changes"`
	Stats   Stats    `json:"stats"`
}

// IsEmpty reports whether the result contains no added, removed or modified
// entries. A CLI layer maps this to exit code 0 versus 1.
func (r *Result) IsEmpty() bool {
	return r.Stats.IsEmpty()
}

// CountStats tallies change counts for a list of changes.
func CountStats(changes []Change) Stats {
	var stats Stats
	for _, c := range changes {
		switch c.Type {
		case ChangeTypeAdded:
			stats.Added++
		case ChangeTypeRemoved:
			stats.Removed++
		case ChangeTypeModified:
			stats.Modified++
		case ChangeTypeUnchanged:
			stats.Unchanged++
		}
	}
	return stats
}
