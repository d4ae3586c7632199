// Package tensor counts, for every pair of elementary intervals and every
// tracked (proximal, distal) ancestry combination, how many samples carry
// that combination at that pair of loci.
package tensor

import (
	"encoding/binary"
	"fmt"
	"io"

	"blainsmith.com/go/seahash"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/kshedden/gonpy"
)

// Tensor is a dense [combos][n][n] table of sample counts over an
// elementary grid of n intervals.  Only the upper triangle (row <= col) of
// each plane is populated: cell (i, j) counts samples whose label at
// interval i combined with their label at interval j is the plane's
// combination.
type Tensor struct {
	combos []ancestry.Combo
	index  map[ancestry.Combo]int
	n      int
	counts []uint32 // counts[k*n*n + i*n + j]
}

// New creates an all-zero tensor over n elementary intervals.
func New(combos []ancestry.Combo, n int) *Tensor {
	t := &Tensor{
		combos: append([]ancestry.Combo(nil), combos...),
		index:  make(map[ancestry.Combo]int, len(combos)),
		n:      n,
		counts: make([]uint32, len(combos)*n*n),
	}
	for k, c := range combos {
		t.index[c] = k
	}
	return t
}

// N returns the number of elementary intervals.
func (t *Tensor) N() int { return t.n }

// Combos returns the tracked combinations, in plane order.  The returned
// slice must not be modified.
func (t *Tensor) Combos() []ancestry.Combo { return t.combos }

// Has reports whether c is tracked.
func (t *Tensor) Has(c ancestry.Combo) bool {
	_, ok := t.index[c]
	return ok
}

// At returns the count of combination c at cell (i, j).  Untracked
// combinations and cells below the diagonal read as zero.
func (t *Tensor) At(c ancestry.Combo, i, j int) uint32 {
	k, ok := t.index[c]
	if !ok {
		return 0
	}
	return t.AtIndex(k, i, j)
}

// AtIndex is At for the k'th tracked combination.
func (t *Tensor) AtIndex(k, i, j int) uint32 {
	return t.counts[(k*t.n+i)*t.n+j]
}

// Total returns the number of samples counted at cell (i, j), summed over
// all tracked combinations.
func (t *Tensor) Total(i, j int) uint32 {
	var sum uint32
	for k := range t.combos {
		sum += t.AtIndex(k, i, j)
	}
	return sum
}

// Plane returns a copy of the plane of combination c as an n x n matrix.
// It returns nil if c is not tracked.
func (t *Tensor) Plane(c ancestry.Combo) [][]uint32 {
	k, ok := t.index[c]
	if !ok {
		return nil
	}
	plane := make([][]uint32, t.n)
	for i := range plane {
		off := (k*t.n + i) * t.n
		plane[i] = append([]uint32(nil), t.counts[off:off+t.n]...)
	}
	return plane
}

func (t *Tensor) compatible(o *Tensor) error {
	if t.n != o.n || len(t.combos) != len(o.combos) {
		return errors.E(errors.Invalid, fmt.Sprintf("tensor: shape mismatch [%d,%d,%d] vs [%d,%d,%d]",
			len(t.combos), t.n, t.n, len(o.combos), o.n, o.n))
	}
	for k, c := range t.combos {
		if o.combos[k] != c {
			return errors.E(errors.Invalid, fmt.Sprintf("tensor: combination %d differs: %d vs %d", k, c, o.combos[k]))
		}
	}
	return nil
}

// Add adds the counts of o into t.  Both must track the same combinations,
// in the same order, over the same number of intervals.
func (t *Tensor) Add(o *Tensor) error {
	if err := t.compatible(o); err != nil {
		return err
	}
	for i, v := range o.counts {
		t.counts[i] += v
	}
	return nil
}

// Equal reports whether t and o have the same shape, combinations and
// counts.
func (t *Tensor) Equal(o *Tensor) bool {
	if t.compatible(o) != nil {
		return false
	}
	for i, v := range t.counts {
		if o.counts[i] != v {
			return false
		}
	}
	return true
}

// Checksum returns a seahash digest of the shape, combinations and counts.
// Equal tensors have equal checksums.
func (t *Tensor) Checksum() uint64 {
	h := seahash.New()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(t.n))
	h.Write(buf) // nolint: errcheck
	for _, c := range t.combos {
		binary.LittleEndian.PutUint16(buf, uint16(c))
		h.Write(buf[:2]) // nolint: errcheck
	}
	const chunk = 4096
	out := make([]byte, 0, chunk*4)
	for i, v := range t.counts {
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
		if len(out) == cap(out) || i == len(t.counts)-1 {
			h.Write(out) // nolint: errcheck
			out = out[:0]
		}
	}
	return h.Sum64()
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// WriteNPY writes the counts to w as a numpy uint32 array of shape
// [combos, n, n], in the order of Combos().
func (t *Tensor) WriteNPY(w io.Writer) error {
	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return err
	}
	npw.Shape = []int{len(t.combos), t.n, t.n}
	return npw.WriteUint32(t.counts)
}
