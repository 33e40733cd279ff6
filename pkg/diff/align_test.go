package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wonderfulspam/semdiff/pkg/tree"
)

var alignCmpOpts = []cmp.Option{
	cmp.AllowUnexported(alignPair{}),
}

func numbers(ns ...float64) []*tree.Value {
	values := make([]*tree.Value, len(ns))
	for i, n := range ns {
		values[i] = tree.Number(n)
	}
	return values
}

func TestAlignPositional(t *testing.T) {
	cases := []struct {
		name     string
		old, new []*tree.Value
		want     []alignPair
	}{
		{
			"equal lengths",
			numbers(1, 2), numbers(3, 4),
			[]alignPair{{0, 0}, {1, 1}},
		},
		{
			"new longer",
			numbers(1), numbers(1, 2, 3),
			[]alignPair{{0, 0}, {-1, 1}, {-1, 2}},
		},
		{
			"old longer",
			numbers(1, 2, 3), numbers(1),
			[]alignPair{{0, 0}, {1, -1}, {2, -1}},
		},
		{
			"both empty",
			nil, nil,
			[]alignPair{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := alignPositional(tc.old, tc.new)
			if d := cmp.Diff(tc.want, got, alignCmpOpts...); d != "" {
				t.Errorf("alignment mismatch (-want +got):\n%s", d)
			}
		})
	}
}

func TestAlignLCSInsertion(t *testing.T) {
	// [1,2,3] → [1,4,2,3]: LCS is [1,2,3], so only 4 is an addition.
	got := alignLCS(numbers(1, 2, 3), numbers(1, 4, 2, 3), tree.EqualOptions{})
	want := []alignPair{
		{0, 0},
		{-1, 1},
		{1, 2},
		{2, 3},
	}
	if d := cmp.Diff(want, got, alignCmpOpts...); d != "" {
		t.Errorf("alignment mismatch (-want +got):\n%s", d)
	}
}

func TestAlignLCSRemoval(t *testing.T) {
	got := alignLCS(numbers(1, 4, 2, 3), numbers(1, 2, 3), tree.EqualOptions{})
	want := []alignPair{
		{0, 0},
		{1, -1},
		{2, 1},
		{3, 2},
	}
	if d := cmp.Diff(want, got, alignCmpOpts...); d != "" {
		t.Errorf("alignment mismatch (-want +got):\n%s", d)
	}
}

func TestAlignLCSReplacedRun(t *testing.T) {
	// A replaced element pairs as removal-then-addition, never a match.
	got := alignLCS(numbers(1, 2, 3), numbers(1, 9, 3), tree.EqualOptions{})
	want := []alignPair{
		{0, 0},
		{1, -1},
		{-1, 1},
		{2, 2},
	}
	if d := cmp.Diff(want, got, alignCmpOpts...); d != "" {
		t.Errorf("alignment mismatch (-want +got):\n%s", d)
	}
}

func TestAlignLCSEmptySides(t *testing.T) {
	got := alignLCS(nil, numbers(1, 2), tree.EqualOptions{})
	want := []alignPair{{-1, 0}, {-1, 1}}
	if d := cmp.Diff(want, got, alignCmpOpts...); d != "" {
		t.Errorf("alignment mismatch (-want +got):\n%s", d)
	}

	got = alignLCS(numbers(1, 2), nil, tree.EqualOptions{})
	want = []alignPair{{0, -1}, {1, -1}}
	if d := cmp.Diff(want, got, alignCmpOpts...); d != "" {
		t.Errorf("alignment mismatch (-want +got):\n%s", d)
	}
}

func TestAlignLCSWhitespaceEquality(t *testing.T) {
	old := []*tree.Value{tree.String("a  b")}
	new := []*tree.Value{tree.String("a b")}

	exact := alignLCS(old, new, tree.EqualOptions{})
	if len(exact) != 2 {
		t.Errorf("exact comparison should see a removal and an addition, got %v", exact)
	}

	relaxed := alignLCS(old, new, tree.EqualOptions{IgnoreWhitespace: true})
	want := []alignPair{{0, 0}}
	if d := cmp.Diff(want, relaxed, alignCmpOpts...); d != "" {
		t.Errorf("whitespace-relaxed alignment mismatch (-want +got):\n%s", d)
	}
}

func TestDiffArraysPositionalShift(t *testing.T) {
	// The positional strategy reports an insertion-before-tail as a
	// cascade of modifications plus one trailing addition.
	old := tree.Array(numbers(1, 2, 3)...)
	new := tree.Array(numbers(1, 4, 2, 3)...)

	result := Compute(old, new, DefaultConfig())
	if result.Stats.Modified != 2 || result.Stats.Added != 1 {
		t.Fatalf("expected 2 modified + 1 added, got %+v", result.Stats)
	}

	wantPaths := []string{"[1]", "[2]", "[3]"}
	for i, c := range result.Changes {
		if c.Path.String() != wantPaths[i] {
			t.Errorf("change %d at %q, want %q", i, c.Path.String(), wantPaths[i])
		}
	}
	if result.Changes[0].OldValue.Num != 2 || result.Changes[0].NewValue.Num != 4 {
		t.Errorf("[1] should report 2 → 4, got %v → %v",
			result.Changes[0].OldValue.Num, result.Changes[0].NewValue.Num)
	}
}

func TestDiffArraysLCSShift(t *testing.T) {
	old := tree.Array(numbers(1, 2, 3)...)
	new := tree.Array(numbers(1, 4, 2, 3)...)

	cfg := &Config{Compact: true, ArrayStrategy: StrategyLCS}
	result := Compute(old, new, cfg)

	if result.Stats.Modified != 0 || result.Stats.Added != 1 || result.Stats.Removed != 0 {
		t.Fatalf("expected exactly one addition, got %+v", result.Stats)
	}
	c := result.Changes[0]
	if c.Path.String() != "[1]" || c.NewValue.Num != 4 {
		t.Errorf("expected Added([1], 4), got %v at %q", c.Type, c.Path.String())
	}
}

func TestDiffArraysLCSModifiedComplexElement(t *testing.T) {
	// Documented trade-off: LCS matches only equal elements, so an object
	// modified in place surfaces as Removed+Added, not Modified.
	old := tree.Array(tree.ObjectOf(tree.Field{Key: "id", Value: tree.Number(1)}))
	new := tree.Array(tree.ObjectOf(tree.Field{Key: "id", Value: tree.Number(2)}))

	cfg := &Config{Compact: true, ArrayStrategy: StrategyLCS}
	result := Compute(old, new, cfg)

	if result.Stats.Removed != 1 || result.Stats.Added != 1 || result.Stats.Modified != 0 {
		t.Errorf("expected Removed+Added pair, got %+v", result.Stats)
	}
	if result.Changes[0].Type != ChangeTypeRemoved {
		t.Errorf("removal should come before addition, got %v first", result.Changes[0].Type)
	}
}

func TestDiffArraysMatchedElementsStillRecurse(t *testing.T) {
	// When surrounding equal elements anchor the alignment positionally,
	// matched container elements are still diffed recursively.
	oldUser := tree.ObjectOf(tree.Field{Key: "age", Value: tree.Number(30)})
	newUser := tree.ObjectOf(tree.Field{Key: "age", Value: tree.Number(31)})

	result := Compute(tree.Array(oldUser), tree.Array(newUser), DefaultConfig())
	if len(result.Changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(result.Changes))
	}
	if got := result.Changes[0].Path.String(); got != "[0].age" {
		t.Errorf("path = %q, want %q", got, "[0].age")
	}
}
