package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wonderfulspam/semdiff/pkg/diff"
	"github.com/wonderfulspam/semdiff/pkg/tree"
)

func mustPattern(t *testing.T, raw string) *Pattern {
	t.Helper()
	p, err := ParsePattern(raw)
	if err != nil {
		t.Fatalf("ParsePattern(%q) failed: %v", raw, err)
	}
	return p
}

func keyPath(keys ...string) tree.Path {
	p := make(tree.Path, len(keys))
	for i, k := range keys {
		p[i] = tree.Key(k)
	}
	return p
}

func TestParsePatternRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", ".", "a.", ".a", "a..b"} {
		if _, err := ParsePattern(raw); err == nil {
			t.Errorf("ParsePattern(%q) should fail", raw)
		}
	}
}

func TestPatternLiteral(t *testing.T) {
	p := mustPattern(t, "foo.bar")

	if !p.Matches(keyPath("foo", "bar")) {
		t.Error("should match the exact path")
	}
	if p.Matches(keyPath("foo", "baz")) {
		t.Error("should not match a different segment")
	}
	if p.Matches(keyPath("foo")) {
		t.Error("should not match a shorter path (anchored)")
	}
	if p.Matches(keyPath("foo", "bar", "baz")) {
		t.Error("should not match a longer path (anchored)")
	}
}

func TestPatternSingleWildcard(t *testing.T) {
	p := mustPattern(t, "foo.*.baz")

	if !p.Matches(keyPath("foo", "bar", "baz")) {
		t.Error("* should match any single segment")
	}
	if !p.Matches(keyPath("foo", "anything", "baz")) {
		t.Error("* should match any single segment")
	}
	if p.Matches(keyPath("foo", "baz")) {
		t.Error("* must consume exactly one segment")
	}
}

func TestPatternDoubleWildcardSuffix(t *testing.T) {
	p := mustPattern(t, "**.timestamp")

	if !p.Matches(keyPath("metadata", "timestamp")) {
		t.Error("**.timestamp should match metadata.timestamp")
	}
	if !p.Matches(keyPath("a", "b", "c", "timestamp")) {
		t.Error("**.timestamp should match at any depth")
	}
	if !p.Matches(keyPath("timestamp")) {
		t.Error("** matches zero segments, so a bare timestamp matches")
	}
	if p.Matches(keyPath("timestamptag")) {
		t.Error("segments match whole, not as substrings")
	}
}

func TestPatternDoubleWildcardPrefix(t *testing.T) {
	p := mustPattern(t, "spec.**")

	if !p.Matches(keyPath("spec", "x")) {
		t.Error("spec.** should match spec.x")
	}
	if !p.Matches(keyPath("spec", "x", "y")) {
		t.Error("spec.** should match spec.x.y")
	}
	if p.Matches(keyPath("other", "spec")) {
		t.Error("pattern is anchored at the start")
	}
}

func TestPatternTrailingDoubleWildcardMatchesBarePrefix(t *testing.T) {
	// Deliberate semantics: ** matches zero segments even at the tail,
	// so spec.** matches the bare path spec.
	p := mustPattern(t, "spec.**")
	if !p.Matches(keyPath("spec")) {
		t.Error("spec.** should match the bare path spec (zero-segment tail)")
	}
}

func TestPatternMatchesIndexSegments(t *testing.T) {
	p := mustPattern(t, "users.0.name")
	path := tree.Path{tree.Key("users"), tree.Index(0), tree.Key("name")}
	if !p.Matches(path) {
		t.Error("a literal segment should match an index by its decimal form")
	}

	star := mustPattern(t, "users.*.name")
	if !star.Matches(path) {
		t.Error("* should match an index segment")
	}
}

func TestPatternDoubleWildcardBacktracking(t *testing.T) {
	p := mustPattern(t, "**.b.**.c")
	if !p.Matches(keyPath("a", "b", "x", "b", "y", "c")) {
		t.Error("matcher should backtrack across repeated segments")
	}
	if p.Matches(keyPath("a", "b")) {
		t.Error("missing trailing literal should not match")
	}
}

func TestConfigIncludes(t *testing.T) {
	cfg, err := NewConfig(
		[]string{"metadata.timestamp", "**.internal"},
		nil,
	)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	if cfg.Includes(keyPath("metadata", "timestamp")) {
		t.Error("ignored path should be excluded")
	}
	if cfg.Includes(keyPath("foo", "internal")) {
		t.Error("**.internal should exclude nested internal keys")
	}
	if !cfg.Includes(keyPath("metadata", "author")) {
		t.Error("unmatched path should pass")
	}
}

func TestConfigOnly(t *testing.T) {
	cfg, err := NewConfig(nil, []string{"spec.**", "metadata.name"})
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	if !cfg.Includes(keyPath("spec", "replicas")) {
		t.Error("path matching an only-pattern should pass")
	}
	if !cfg.Includes(keyPath("metadata", "name")) {
		t.Error("path matching an only-pattern should pass")
	}
	if cfg.Includes(keyPath("metadata", "timestamp")) {
		t.Error("path matching no only-pattern should be excluded")
	}
	if cfg.Includes(keyPath("status")) {
		t.Error("path matching no only-pattern should be excluded")
	}
}

func TestConfigIgnoreWinsOverOnly(t *testing.T) {
	cfg, err := NewConfig([]string{"spec.internal"}, []string{"spec.**"})
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	if !cfg.Includes(keyPath("spec", "replicas")) {
		t.Error("spec.replicas should pass only and miss ignore")
	}
	if cfg.Includes(keyPath("spec", "internal")) {
		t.Error("ignore applies even when an only-pattern matches")
	}
	if cfg.Includes(keyPath("metadata")) {
		t.Error("paths outside only-patterns stay excluded")
	}
}

func TestNewConfigRejectsBadPatterns(t *testing.T) {
	if _, err := NewConfig([]string{"a..b"}, nil); err == nil {
		t.Error("malformed ignore pattern should be rejected at construction")
	}
	if _, err := NewConfig(nil, []string{""}); err == nil {
		t.Error("malformed only pattern should be rejected at construction")
	}
}

func sampleResult() *diff.Result {
	changes := []diff.Change{
		{Path: keyPath("metadata", "timestamp"), Type: diff.ChangeTypeModified, OldValue: tree.String("old"), NewValue: tree.String("new")},
		{Path: keyPath("spec", "replicas"), Type: diff.ChangeTypeModified, OldValue: tree.Number(1), NewValue: tree.Number(2)},
		{Path: keyPath("data", "value"), Type: diff.ChangeTypeAdded, NewValue: tree.String("added")},
	}
	return &diff.Result{Changes: changes, Stats: diff.CountStats(changes)}
}

func TestApply(t *testing.T) {
	cfg, err := NewConfig([]string{"metadata.**"}, nil)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	original := sampleResult()
	filtered := Apply(original, cfg)

	if len(filtered.Changes) != 2 {
		t.Fatalf("expected 2 changes after filtering, got %d", len(filtered.Changes))
	}
	if filtered.Stats.Modified != 1 || filtered.Stats.Added != 1 {
		t.Errorf("stats should be recomputed, got %+v", filtered.Stats)
	}
	if len(original.Changes) != 3 {
		t.Error("Apply must not mutate its input")
	}
}

func TestApplyIdempotent(t *testing.T) {
	cfg, err := NewConfig([]string{"**.timestamp"}, []string{"**"})
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}

	once := Apply(sampleResult(), cfg)
	twice := Apply(once, cfg)

	opts := []cmp.Option{
		cmp.Comparer(func(a, b *tree.Value) bool {
			if a == nil || b == nil {
				return a == b
			}
			return tree.Equal(a, b, tree.EqualOptions{})
		}),
		cmp.Comparer(func(a, b tree.Segment) bool { return a == b }),
	}
	if d := cmp.Diff(once, twice, opts...); d != "" {
		t.Errorf("filtering twice must equal filtering once (-once +twice):\n%s", d)
	}
}

func TestApplyWithoutFiltersIsPassThrough(t *testing.T) {
	cfg, err := NewConfig(nil, nil)
	if err != nil {
		t.Fatalf("NewConfig failed: %v", err)
	}
	result := sampleResult()
	filtered := Apply(result, cfg)
	if len(filtered.Changes) != len(result.Changes) {
		t.Errorf("empty config should keep all changes")
	}
}
