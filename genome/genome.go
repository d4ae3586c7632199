package genome

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
)

// Genome is a chromosome size table.  Chromosome k (1-based) occupies genome
// coordinates (offsets[k-1], offsets[k]]; coordinate offsets[k-1]+p
// corresponds to position p on that chromosome.
type Genome struct {
	names   []string
	sizes   []int64
	offsets []int64 // len(sizes)+1 entries, offsets[0] = 0
	byName  map[string]int
}

// New creates a Genome from parallel name and size lists.  Sizes must be
// positive and names unique.
func New(names []string, sizes []int64) (*Genome, error) {
	if len(names) != len(sizes) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("genome.New: %d names but %d sizes", len(names), len(sizes)))
	}
	g := &Genome{
		names:   append([]string(nil), names...),
		sizes:   append([]int64(nil), sizes...),
		offsets: make([]int64, len(sizes)+1),
		byName:  make(map[string]int, len(names)),
	}
	for i, size := range sizes {
		if size <= 0 {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("genome.New: chromosome %s has non-positive size %d", names[i], size))
		}
		if _, ok := g.byName[names[i]]; ok {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("genome.New: duplicate chromosome name %s", names[i]))
		}
		g.byName[names[i]] = i
		g.offsets[i+1] = g.offsets[i] + size
	}
	return g, nil
}

// MustNew is New, but panics on error.  Intended for static tables.
func MustNew(names []string, sizes []int64) *Genome {
	g, err := New(names, sizes)
	if err != nil {
		panic(err)
	}
	return g
}

// Len returns the number of chromosomes.
func (g *Genome) Len() int { return len(g.sizes) }

// Names returns the chromosome names in karyotype order.
func (g *Genome) Names() []string { return append([]string(nil), g.names...) }

// Name returns the name of the 1-based chromosome id.
func (g *Genome) Name(id int) string { return g.names[id-1] }

// Size returns the size of the 1-based chromosome id.
func (g *Genome) Size(id int) int64 { return g.sizes[id-1] }

// Offset returns the genome coordinate at which the 1-based chromosome id
// starts, i.e. the total size of all chromosomes before it.
func (g *Genome) Offset(id int) int64 { return g.offsets[id-1] }

// Total returns the genome length, the largest valid genome coordinate.
func (g *Genome) Total() int64 { return g.offsets[len(g.offsets)-1] }

// ChromosomeID resolves a chromosome identifier to a 1-based id.  The
// identifier is either a chromosome name ("X", "chr7" when the table uses
// "chr7" or "7") or a 1-based index ("7").
func (g *Genome) ChromosomeID(chrom string) (int, error) {
	if i, ok := g.byName[chrom]; ok {
		return i + 1, nil
	}
	if trimmed := strings.TrimPrefix(chrom, "chr"); trimmed != chrom {
		if i, ok := g.byName[trimmed]; ok {
			return i + 1, nil
		}
	} else if i, ok := g.byName["chr"+chrom]; ok {
		return i + 1, nil
	}
	if id, err := strconv.Atoi(chrom); err == nil && id >= 1 && id <= g.Len() {
		return id, nil
	}
	return 0, invalidCoordinate("unknown chromosome %q", chrom)
}

// GenomeIndex converts (chromosome, position) to a genome coordinate.
func (g *Genome) GenomeIndex(chrom string, pos int64) (int64, error) {
	id, err := g.ChromosomeID(chrom)
	if err != nil {
		return 0, err
	}
	return g.GenomeIndexByID(id, pos)
}

// GenomeIndexByID is GenomeIndex for a 1-based chromosome id.
func (g *Genome) GenomeIndexByID(id int, pos int64) (int64, error) {
	if id < 1 || id > g.Len() {
		return 0, invalidCoordinate("chromosome id %d not in [1, %d]", id, g.Len())
	}
	if pos < 0 || pos > g.sizes[id-1] {
		return 0, invalidCoordinate("position %d outside chromosome %s [0, %d]", pos, g.names[id-1], g.sizes[id-1])
	}
	return g.offsets[id-1] + pos, nil
}

// Locate is the inverse of GenomeIndex.  A coordinate that falls exactly on
// a chromosome boundary belongs to the end of the earlier chromosome, since
// genome intervals are closed on the right.
func (g *Genome) Locate(index int64) (chrom string, pos int64, err error) {
	id, pos, err := g.locate(index)
	if err != nil {
		return "", 0, err
	}
	return g.names[id-1], pos, nil
}

func (g *Genome) locate(index int64) (int, int64, error) {
	if index < 0 || index > g.Total() {
		return 0, 0, invalidCoordinate("genome index %d outside [0, %d]", index, g.Total())
	}
	if index == 0 {
		return 1, 0, nil
	}
	// Smallest k with offsets[k] >= index; offsets[k-1] < index <= offsets[k].
	k := sort.Search(len(g.offsets), func(i int) bool { return g.offsets[i] >= index })
	return k, index - g.offsets[k-1], nil
}

// LocatePair converts the two ends of a genome interval to a single
// chromosome and a (start, end) position pair.  When the ends fall on
// different chromosomes, the chromosome of the end is reported and start is
// clipped to 0.
func (g *Genome) LocatePair(start, end int64) (chrom string, startPos, endPos int64, err error) {
	startID, startPos, err := g.locate(start)
	if err != nil {
		return "", 0, 0, err
	}
	endID, endPos, err := g.locate(end)
	if err != nil {
		return "", 0, 0, err
	}
	if startID != endID {
		startPos = 0
	}
	return g.names[endID-1], startPos, endPos, nil
}

// ChromosomeEnds returns the genome coordinate of the end of every
// chromosome.
func (g *Genome) ChromosomeEnds() []int64 {
	return append([]int64(nil), g.offsets[1:]...)
}

// String implements fmt.Stringer.
func (g *Genome) String() string {
	var b strings.Builder
	for i, name := range g.names {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, "%s:%d", name, g.sizes[i])
	}
	return b.String()
}

func invalidCoordinate(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, "invalid coordinate: "+fmt.Sprintf(format, args...))
}
