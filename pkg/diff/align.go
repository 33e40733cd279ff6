package diff

import "github.com/wonderfulspam/semdiff/pkg/tree"

// alignPair is one entry of an array alignment. An index of -1 marks the
// absent side: oldIdx only means removed, newIdx only means added, both
// present means the positions are matched and compared recursively.
type alignPair struct {
	oldIdx int
	newIdx int
}

// align produces an ordered alignment covering every old and new position
// exactly once, under the configured strategy.
func align(old, new []*tree.Value, cfg *Config) []alignPair {
	if cfg.ArrayStrategy == StrategyLCS {
		return alignLCS(old, new, cfg.equalOptions())
	}
	return alignPositional(old, new)
}

// alignPositional matches index i with index i over the overlap range.
// Trailing extras on either side become removals or additions. Cheap, but
// a single insertion before the tail shifts every later index.
func alignPositional(old, new []*tree.Value) []alignPair {
	minLen := len(old)
	if len(new) < minLen {
		minLen = len(new)
	}
	pairs := make([]alignPair, 0, len(old)+len(new)-minLen)
	for i := 0; i < minLen; i++ {
		pairs = append(pairs, alignPair{oldIdx: i, newIdx: i})
	}
	for i := minLen; i < len(old); i++ {
		pairs = append(pairs, alignPair{oldIdx: i, newIdx: -1})
	}
	for i := minLen; i < len(new); i++ {
		pairs = append(pairs, alignPair{oldIdx: -1, newIdx: i})
	}
	return pairs
}

// alignLCS aligns the sequences on their longest common subsequence under
// value equality. Only equal elements match; a modified complex element
// therefore surfaces as a removal plus an addition, not a modification.
// That is the documented trade-off of this strategy, not a defect.
//
// The DP table is (len(old)+1)×(len(new)+1) and local to the call. On equal
// lengths the diagonal (a match) is preferred to minimize reported changes;
// among the remaining ties the addition is taken first during backtracking
// so that a replaced run reads as removal followed by addition.
func alignLCS(old, new []*tree.Value, opts tree.EqualOptions) []alignPair {
	n, m := len(old), len(new)
	table := make([][]int, n+1)
	for i := range table {
		table[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if tree.Equal(old[i-1], new[j-1], opts) {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}

	// Backtrack from (n,m); the pairs come out reversed.
	pairs := make([]alignPair, 0, n+m)
	i, j := n, m
	for i > 0 && j > 0 {
		switch {
		case tree.Equal(old[i-1], new[j-1], opts):
			pairs = append(pairs, alignPair{oldIdx: i - 1, newIdx: j - 1})
			i--
			j--
		case table[i][j-1] >= table[i-1][j]:
			pairs = append(pairs, alignPair{oldIdx: -1, newIdx: j - 1})
			j--
		default:
			pairs = append(pairs, alignPair{oldIdx: i - 1, newIdx: -1})
			i--
		}
	}
	for ; i > 0; i-- {
		pairs = append(pairs, alignPair{oldIdx: i - 1, newIdx: -1})
	}
	for ; j > 0; j-- {
		pairs = append(pairs, alignPair{oldIdx: -1, newIdx: j - 1})
	}

	for a, b := 0, len(pairs)-1; a < b; a, b = a+1, b-1 {
		pairs[a], pairs[b] = pairs[b], pairs[a]
	}
	return pairs
}
