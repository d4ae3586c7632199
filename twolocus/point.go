package twolocus

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/interval"
)

// Region is a genome interval (Start, End] together with its chromosome
// coordinates, as reported by genome.LocatePair.
type Region struct {
	Start, End       int64
	Chrom            string
	StartPos, EndPos int64
}

// ComboCount is the number of samples carrying a combination.
type ComboCount struct {
	Combo ancestry.Combo
	Name  string
	Count int
}

// PointPair describes two loci across a set of samples.
type PointPair struct {
	// Proximal and Distal are the intersections of the samples' intervals
	// enclosing the earlier and the later locus.
	Proximal, Distal Region
	// Tally counts the (proximal, distal) label combinations of the samples,
	// unknown combinations included, in canonical combination order.  Only
	// combinations carried by at least one sample are listed.
	Tally []ComboCount
}

// SourcesAtPointPair looks up two loci, given as chromosome and position, in
// the named samples.  The loci are sorted, so the order of the two points
// does not matter.  A locus that falls exactly on an interval end belongs to
// the interval ending there.
func (e *Engine) SourcesAtPointPair(chrom1 string, pos1 int64, chrom2 string, pos2 int64, names []string) (*PointPair, error) {
	if err := e.validate(names); err != nil {
		return nil, err
	}
	c1, err := e.g.GenomeIndex(chrom1, pos1)
	if err != nil {
		return nil, err
	}
	c2, err := e.g.GenomeIndex(chrom2, pos2)
	if err != nil {
		return nil, err
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	tracks, err := e.tracks(names)
	if err != nil {
		return nil, err
	}
	coords := [2]int64{c1, c2}
	mins := [2]int64{0, 0}
	maxes := [2]int64{e.g.Total(), e.g.Total()}
	counts := map[ancestry.Combo]int{}
	for n, t := range tracks {
		var labels [2]ancestry.Label
		for loc, coord := range coords {
			i, ok := interval.Enclosing(t.Ends, coord)
			if !ok {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("invalid coordinate: %d beyond the track of sample %d", coord, n))
			}
			start, end, label := t.Interval(i)
			if start > mins[loc] {
				mins[loc] = start
			}
			if end < maxes[loc] {
				maxes[loc] = end
			}
			labels[loc] = label
		}
		counts[e.ls.Combine(labels[0], labels[1])]++
	}
	pp := &PointPair{}
	if pp.Proximal, err = e.region(mins[0], maxes[0]); err != nil {
		return nil, err
	}
	if pp.Distal, err = e.region(mins[1], maxes[1]); err != nil {
		return nil, err
	}
	for _, c := range e.ls.Combos(true) {
		if n := counts[c]; n > 0 {
			pp.Tally = append(pp.Tally, ComboCount{Combo: c, Name: e.ls.ComboName(c), Count: n})
		}
	}
	return pp, nil
}

func (e *Engine) region(start, end int64) (Region, error) {
	chrom, startPos, endPos, err := e.g.LocatePair(start, end)
	if err != nil {
		return Region{}, err
	}
	return Region{Start: start, End: end, Chrom: chrom, StartPos: startPos, EndPos: endPos}, nil
}
