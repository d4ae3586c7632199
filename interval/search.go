package interval

import "sort"

// SearchPositions returns the index of x in a[], or the position where x
// would be inserted if x isn't in a (this could be len(a)).  It's exactly the
// same as sort.SearchInts(), except for int64.
func SearchPositions(a []int64, x int64) int {
	return sort.Search(len(a), func(i int) bool { return a[i] >= x })
}

// ExpsearchPositions performs "exponential search"
// (https://en.wikipedia.org/wiki/Exponential_search ), checking a[idx], then
// a[idx + 1], then a[idx + 3], then a[idx + 7], etc., and finishing with
// binary search once it's either found an element larger than the target or
// has hit the end of the slice.  It's usually a better choice than
// SearchPositions when iterating over increasing targets.
func ExpsearchPositions(a []int64, x int64, idx int) int {
	nextIncr := 1
	startIdx := idx
	endIdx := len(a)
	for idx < endIdx {
		if a[idx] >= x {
			endIdx = idx
			break
		}
		startIdx = idx + 1
		idx += nextIncr
		nextIncr *= 2
	}
	// Inlined sort.Search; startIdx is usually equal to endIdx.
	for startIdx < endIdx {
		midIdx := int(uint(startIdx+endIdx) >> 1)
		if a[midIdx] >= x {
			endIdx = midIdx
		} else {
			startIdx = midIdx + 1
		}
	}
	return startIdx
}

// Enclosing returns the index of the interval of ends that contains the
// coordinate pos, i.e. the first i with ends[i] >= pos.  A coordinate equal
// to an end belongs to the interval ending there.  ok is false if pos is
// beyond the last end.
func Enclosing(ends []int64, pos int64) (i int, ok bool) {
	i = SearchPositions(ends, pos)
	return i, i < len(ends)
}
