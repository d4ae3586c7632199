// Package track holds per-sample ancestry tracks: the genome partitioned
// into intervals, each carrying one ancestry label.  It also provides the
// stores tracks are looked up from and the readers and writers that move
// tracks between memory, npy directories, recordio archives and
// haplotype tables.
package track

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/twolocus/ancestry"
)

// Track is the ancestry of one sample along the genome.  Interval i covers
// genome coordinates (Ends[i-1], Ends[i]] (with Ends[-1] = 0) and carries
// Labels[i].  A Track must not be modified once it has been built.
type Track struct {
	Ends   []int64
	Labels []ancestry.Label
}

// New creates a Track, checking that ends and labels have the same length
// and that ends are positive and strictly increasing.
func New(ends []int64, labels []ancestry.Label) (*Track, error) {
	t := &Track{Ends: ends, Labels: labels}
	if err := t.validate(nil); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the structure of t and, if ls is non-nil, that every label
// belongs to ls.
func (t *Track) Validate(ls *ancestry.LabelSet) error { return t.validate(ls) }

func (t *Track) validate(ls *ancestry.LabelSet) error {
	if len(t.Ends) != len(t.Labels) {
		return errors.E(errors.Invalid, fmt.Sprintf("track: %d ends but %d labels", len(t.Ends), len(t.Labels)))
	}
	var last int64
	for i, e := range t.Ends {
		if e <= last {
			return errors.E(errors.Invalid, fmt.Sprintf("track: end %d at index %d does not follow %d", e, i, last))
		}
		last = e
	}
	if ls != nil {
		for i, l := range t.Labels {
			if !ls.IsLabel(uint16(l)) {
				return errors.E(errors.Invalid, fmt.Sprintf("invalid label: code %d at interval %d", l, i))
			}
		}
	}
	return nil
}

// Len returns the number of intervals.
func (t *Track) Len() int { return len(t.Ends) }

// End returns the last genome coordinate covered by t, or 0 for an empty
// track.
func (t *Track) End() int64 {
	if len(t.Ends) == 0 {
		return 0
	}
	return t.Ends[len(t.Ends)-1]
}

// Interval returns the genome coordinates (start, end] and label of
// interval i.
func (t *Track) Interval(i int) (start, end int64, label ancestry.Label) {
	if i > 0 {
		start = t.Ends[i-1]
	}
	return start, t.Ends[i], t.Labels[i]
}
