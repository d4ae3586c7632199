package interval

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/testutil/expect"
)

func TestElementaryIntervals(t *testing.T) {
	tests := []struct {
		lists [][]int64
		want  []int64
	}{
		{nil, nil},
		{[][]int64{{}, {}}, nil},
		{[][]int64{{5, 10, 20}}, []int64{5, 10, 20}},
		{[][]int64{{10, 20}, {5, 20}}, []int64{5, 10, 20}},
		{[][]int64{{1000, 2000}, {2000}, {500, 1500, 2000}}, []int64{500, 1000, 1500, 2000}},
		{[][]int64{{3}, {3}, {3}}, []int64{3}},
		{[][]int64{{1, 2, 3}, {}, {4}}, []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		expect.EQ(t, ElementaryIntervals(tt.lists), tt.want, "lists=%v", tt.lists)
	}
}

func randomEnds(r *rand.Rand, total int64) []int64 {
	seen := map[int64]bool{total: true}
	ends := []int64{total}
	for i := r.Intn(20); i > 0; i-- {
		e := 1 + r.Int63n(total)
		if !seen[e] {
			seen[e] = true
			ends = append(ends, e)
		}
	}
	sort.Slice(ends, func(i, j int) bool { return ends[i] < ends[j] })
	return ends
}

func TestElementaryIntervalsRefines(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		lists := make([][]int64, 1+r.Intn(6))
		saved := make([][]int64, len(lists))
		for i := range lists {
			lists[i] = randomEnds(r, 1000)
			saved[i] = append([]int64(nil), lists[i]...)
		}
		grid := ElementaryIntervals(lists)
		for i := 1; i < len(grid); i++ {
			expect.True(t, grid[i-1] < grid[i], "grid not strictly increasing: %v", grid)
		}
		union := map[int64]bool{}
		for i, ends := range lists {
			expect.EQ(t, ends, saved[i], "input mutated")
			for _, e := range ends {
				union[e] = true
				_, ok := Enclosing(grid, e)
				expect.True(t, ok)
				expect.EQ(t, grid[SearchPositions(grid, e)], e)
			}
		}
		expect.EQ(t, len(grid), len(union))
		blocks, err := Blocks(grid, lists[0])
		expect.NoError(t, err)
		expect.EQ(t, blocks[len(blocks)-1], len(grid))
	}
}

func TestBlocks(t *testing.T) {
	grid := []int64{500, 1000, 1500, 2000}
	blocks, err := Blocks(grid, []int64{1000, 2000})
	expect.NoError(t, err)
	expect.EQ(t, blocks, []int{2, 4})

	blocks, err = Blocks(grid, grid)
	expect.NoError(t, err)
	expect.EQ(t, blocks, []int{1, 2, 3, 4})

	_, err = Blocks(grid, []int64{1200, 2000})
	expect.True(t, err != nil)
	_, err = Blocks(grid, []int64{2500})
	expect.True(t, err != nil)
}

func TestSearch(t *testing.T) {
	a := []int64{10, 20, 30, 40, 50, 60, 70}
	for x := int64(0); x <= 80; x++ {
		want := sort.Search(len(a), func(i int) bool { return a[i] >= x })
		expect.EQ(t, SearchPositions(a, x), want, "x=%d", x)
		for idx := 0; idx <= want; idx++ {
			expect.EQ(t, ExpsearchPositions(a, x, idx), want, "x=%d idx=%d", x, idx)
		}
	}
	i, ok := Enclosing(a, 20)
	expect.True(t, ok)
	expect.EQ(t, i, 1)
	i, ok = Enclosing(a, 21)
	expect.True(t, ok)
	expect.EQ(t, i, 2)
	_, ok = Enclosing(a, 71)
	expect.False(t, ok)
}

func TestBounds(t *testing.T) {
	grid := []int64{500, 1000}
	s, e := Bounds(grid, 0)
	expect.EQ(t, s, int64(0))
	expect.EQ(t, e, int64(500))
	s, e = Bounds(grid, 1)
	expect.EQ(t, s, int64(500))
	expect.EQ(t, e, int64(1000))
}
