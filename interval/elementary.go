package interval

import (
	"fmt"

	"github.com/biogo/store/llrb"
	"github.com/grailbio/base/errors"
)

// mergeLeaf is one input list of an N-way merge.  The leaf is keyed by its
// current head; seq breaks ties so that leaves with equal heads can coexist
// in the tree.
type mergeLeaf struct {
	ends []int64
	pos  int
	seq  int
}

func (l *mergeLeaf) head() int64 { return l.ends[l.pos] }

// Compare implements llrb.Comparable.
func (l *mergeLeaf) Compare(c llrb.Comparable) int {
	l1 := c.(*mergeLeaf)
	if h0, h1 := l.head(), l1.head(); h0 != h1 {
		if h0 < h1 {
			return -1
		}
		return 1
	}
	return l.seq - l1.seq
}

// ElementaryIntervals returns the sorted, deduplicated union of the given
// sorted end lists.  The inputs are not modified.  An empty input yields an
// empty result.
//
// The lists are merged with an llrb tree as the priority queue: the leaf
// with the smallest head is popped, its head emitted unless it repeats the
// previous output, and the leaf reinserted if it has more ends.  This costs
// O(total ends * log(number of lists)).
func ElementaryIntervals(lists [][]int64) []int64 {
	var (
		leaves llrb.Tree
		total  int
	)
	for i, ends := range lists {
		if len(ends) == 0 {
			continue
		}
		leaves.Insert(&mergeLeaf{ends: ends, seq: i})
		total += len(ends)
	}
	if leaves.Len() == 0 {
		return nil
	}
	// Single-list inputs are common (one sample); skip the tree.
	if leaves.Len() == 1 {
		return dedup(leaves.Min().(*mergeLeaf).ends)
	}
	out := make([]int64, 0, total/len(lists)+1)
	for leaves.Len() > 0 {
		top := leaves.Min().(*mergeLeaf)
		leaves.DeleteMin()
		if v := top.head(); len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
		top.pos++
		if top.pos < len(top.ends) {
			leaves.Insert(top)
		}
	}
	return out
}

func dedup(ends []int64) []int64 {
	out := make([]int64, 0, len(ends))
	for _, v := range ends {
		if len(out) == 0 || out[len(out)-1] != v {
			out = append(out, v)
		}
	}
	return out
}

// Blocks maps the intervals described by ends onto the elementary grid.
// Interval i of ends covers elementary intervals [blocks[i-1], blocks[i])
// (with blocks[-1] = 0).  It returns an error if some end is not an
// elementary end, i.e. grid does not refine ends.
func Blocks(grid, ends []int64) ([]int, error) {
	blocks := make([]int, len(ends))
	idx := 0
	for i, end := range ends {
		idx = ExpsearchPositions(grid, end, idx)
		if idx >= len(grid) || grid[idx] != end {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("interval.Blocks: end %d is not an elementary interval end", end))
		}
		idx++
		blocks[i] = idx
	}
	return blocks, nil
}

// Bounds returns the genome coordinates (start, end] of elementary interval
// i of grid.
func Bounds(grid []int64, i int) (start, end int64) {
	if i > 0 {
		start = grid[i-1]
	}
	return start, grid[i]
}
