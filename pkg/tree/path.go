package tree

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Segment is one step in a Path: either an object key or an array index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key returns a segment addressing an object key.
func Key(k string) Segment {
	return Segment{key: k}
}

// Index returns a segment addressing an array index.
func Index(i int) Segment {
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment is an array index.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// String returns the segment as its string form: the key itself, or the
// decimal form of the index. This is the form filter patterns match against.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.index)
	}
	return s.key
}

// MarshalJSON keeps keys and indexes distinguishable in structured output:
// keys marshal as strings, indexes as numbers.
func (s Segment) MarshalJSON() ([]byte, error) {
	if s.isIndex {
		return json.Marshal(s.index)
	}
	return json.Marshal(s.key)
}

// Path addresses a location in a value tree as an ordered sequence of
// segments. Paths are immutable once constructed and hold no reference to
// any Value.
type Path []Segment

// Child returns a new path with one more segment appended. The receiver is
// never modified and the result shares no backing storage with it.
func (p Path) Child(s Segment) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = s
	return child
}

// Equal reports whether two paths have the same length and pairwise-equal
// segments.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// String renders the path for display: keys joined by dots, indexes appended
// as [i] without a separator (e.g. "users[0].age"). The empty path renders
// as "(root)".
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	var b strings.Builder
	for i, seg := range p {
		if seg.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.key)
	}
	return b.String()
}
