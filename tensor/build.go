package tensor

import (
	"fmt"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/interval"
	"github.com/grailbio/twolocus/track"
)

// Opts controls tensor construction.
type Opts struct {
	// Parallelism is the number of sample shards counted concurrently.  Each
	// shard fills a private tensor; shards are summed at the end.  Values
	// below 2 count serially.
	Parallelism int
}

// DefaultOpts are the default Opts.
var DefaultOpts = Opts{Parallelism: 1}

// Build counts the combinations of the given tracks over grid.  grid must
// refine every track's ends (see interval.ElementaryIntervals).  Only the
// given combos are counted; every other combination is skipped.
func Build(tracks []*track.Track, grid []int64, combos []ancestry.Combo, ls *ancestry.LabelSet, opts Opts) (*Tensor, error) {
	lookup := comboLookup(combos, ls)
	nShards := opts.Parallelism
	if nShards > len(tracks) {
		nShards = len(tracks)
	}
	if nShards < 2 {
		t := New(combos, len(grid))
		for _, tr := range tracks {
			if err := t.addTrack(tr, grid, lookup, ls); err != nil {
				return nil, err
			}
		}
		return t, nil
	}
	partials := make([]*Tensor, nShards)
	err := traverse.Each(nShards, func(shard int) error {
		t := New(combos, len(grid))
		for i := shard; i < len(tracks); i += nShards {
			if err := t.addTrack(tracks[i], grid, lookup, ls); err != nil {
				return err
			}
		}
		partials[shard] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	t := partials[0]
	for _, p := range partials[1:] {
		if err := t.Add(p); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// comboLookup maps a combination code to its plane, or -1 if untracked.
func comboLookup(combos []ancestry.Combo, ls *ancestry.LabelSet) []int {
	u := ls.Unknown()
	lookup := make([]int, int(ls.Combine(u, u))+1)
	for i := range lookup {
		lookup[i] = -1
	}
	for k, c := range combos {
		if int(c) < len(lookup) {
			lookup[c] = k
		}
	}
	return lookup
}

// addTrack adds one sample.  Own interval r spans elementary rows
// [lo(r), hi(r)); for each pair of own intervals r <= c every cell of the
// block rows(r) x cols(c) on or above the diagonal gets one count, as a
// contiguous run per row.
func (t *Tensor) addTrack(tr *track.Track, grid []int64, lookup []int, ls *ancestry.LabelSet) error {
	var start time.Time
	if log.At(log.Debug) {
		start = time.Now()
	}
	blocks, err := interval.Blocks(grid, tr.Ends)
	if err != nil {
		return err
	}
	n := t.n
	lo := func(r int) int {
		if r == 0 {
			return 0
		}
		return blocks[r-1]
	}
	for r := range blocks {
		rowLo, rowHi := lo(r), blocks[r]
		for c := r; c < len(blocks); c++ {
			combo := ls.Combine(tr.Labels[r], tr.Labels[c])
			if int(combo) >= len(lookup) {
				return errors.E(errors.Invalid, fmt.Sprintf("invalid label: combination %d out of range", combo))
			}
			k := lookup[combo]
			if k < 0 {
				continue
			}
			colLo, colHi := lo(c), blocks[c]
			plane := t.counts[k*n*n : (k+1)*n*n]
			for i := rowLo; i < rowHi; i++ {
				j0 := colLo
				if j0 < i {
					j0 = i
				}
				row := plane[i*n+j0 : i*n+colHi]
				for j := range row {
					row[j]++
				}
			}
		}
	}
	if log.At(log.Debug) {
		log.Debug.Printf("tensor: counted %d intervals over %d elementary intervals in %v", len(blocks), n, time.Since(start))
	}
	return nil
}
