package genome

import (
	"io/ioutil"
	"math"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
)

func newTestGenome(t *testing.T) *Genome {
	g, err := New([]string{"1", "2", "X"}, []int64{1000, 500, 200})
	expect.NoError(t, err)
	return g
}

func TestGenomeIndex(t *testing.T) {
	g := newTestGenome(t)
	tests := []struct {
		chrom string
		pos   int64
		want  int64
	}{
		{"1", 0, 0},
		{"1", 1000, 1000},
		{"2", 1, 1001},
		{"2", 500, 1500},
		{"X", 7, 1507},
		{"3", 7, 1507}, // 1-based index of X
		{"chrX", 200, 1700},
	}
	for _, tt := range tests {
		got, err := g.GenomeIndex(tt.chrom, tt.pos)
		expect.NoError(t, err)
		expect.EQ(t, got, tt.want)
	}
	expect.EQ(t, g.Total(), int64(1700))
}

func TestGenomeIndexErrors(t *testing.T) {
	g := newTestGenome(t)
	for _, tt := range []struct {
		chrom string
		pos   int64
	}{
		{"1", 1001},
		{"1", -1},
		{"4", 0},
		{"Y", 0},
		{"", 0},
	} {
		_, err := g.GenomeIndex(tt.chrom, tt.pos)
		expect.True(t, errors.Is(errors.Invalid, err), "chrom %q pos %d: %v", tt.chrom, tt.pos, err)
	}
	_, err := g.GenomeIndexByID(0, 1)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestLocateRoundTrip(t *testing.T) {
	g := MM9()
	for id := 1; id <= g.Len(); id++ {
		for _, pos := range []int64{1, 2, g.Size(id) / 2, g.Size(id) - 1, g.Size(id)} {
			index, err := g.GenomeIndexByID(id, pos)
			expect.NoError(t, err)
			chrom, gotPos, err := g.Locate(index)
			expect.NoError(t, err)
			expect.EQ(t, chrom, g.Name(id))
			expect.EQ(t, gotPos, pos)
		}
	}
}

func TestLocateBoundaries(t *testing.T) {
	g := newTestGenome(t)
	chrom, pos, err := g.Locate(0)
	expect.NoError(t, err)
	expect.EQ(t, chrom, "1")
	expect.EQ(t, pos, int64(0))

	// A chromosome boundary belongs to the end of the earlier chromosome.
	chrom, pos, err = g.Locate(1000)
	expect.NoError(t, err)
	expect.EQ(t, chrom, "1")
	expect.EQ(t, pos, int64(1000))

	chrom, pos, err = g.Locate(1700)
	expect.NoError(t, err)
	expect.EQ(t, chrom, "X")
	expect.EQ(t, pos, int64(200))

	_, _, err = g.Locate(1701)
	expect.True(t, errors.Is(errors.Invalid, err))
	_, _, err = g.Locate(-1)
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestLocatePair(t *testing.T) {
	g := newTestGenome(t)
	chrom, start, end, err := g.LocatePair(100, 900)
	expect.NoError(t, err)
	expect.EQ(t, chrom, "1")
	expect.EQ(t, start, int64(100))
	expect.EQ(t, end, int64(900))

	// Straddles chromosomes 1 and 2: start is clipped, chromosome taken from
	// the end.
	chrom, start, end, err = g.LocatePair(900, 1200)
	expect.NoError(t, err)
	expect.EQ(t, chrom, "2")
	expect.EQ(t, start, int64(0))
	expect.EQ(t, end, int64(200))

	// An interval starting exactly at a chromosome end is reported on the
	// next chromosome starting at 0.
	chrom, start, end, err = g.LocatePair(1000, 1500)
	expect.NoError(t, err)
	expect.EQ(t, chrom, "2")
	expect.EQ(t, start, int64(0))
	expect.EQ(t, end, int64(500))
}

func TestNewErrors(t *testing.T) {
	_, err := New([]string{"1"}, []int64{1, 2})
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = New([]string{"1", "1"}, []int64{1, 2})
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = New([]string{"1"}, []int64{0})
	expect.True(t, errors.Is(errors.Invalid, err))
}

func TestParsePosition(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want int64
	}{
		{"3000000", 3000000},
		{"3,000,000", 3000000},
		{"3M", 3000000},
		{"3m", 3000000},
		{"3000k", 3000000},
		{"3kk", 3000000},
		{"0", 0},
	} {
		got, err := ParsePosition(tt.in)
		expect.NoError(t, err)
		expect.EQ(t, got, tt.want, tt.in)
	}
	_, err := ParsePosition("M")
	expect.True(t, errors.Is(errors.Invalid, err))
	_, err = ParsePosition("")
	expect.True(t, errors.Is(errors.Invalid, err))

	got, err := ParsePosition("9223372036854775807")
	expect.NoError(t, err)
	expect.EQ(t, got, int64(math.MaxInt64))
	for _, in := range []string{
		"18446744073709552116",
		"9223372036854775808",
		"9223372036854775807k",
		"10000000kkkkk",
	} {
		_, err = ParsePosition(in)
		expect.True(t, errors.Is(errors.Invalid, err), in)
	}
}

func TestReadSizes(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "test.chrom.sizes")
	expect.NoError(t, ioutil.WriteFile(path, []byte("# test build\nchr1\t1000\nchr2\t500\n"), 0644))

	g, err := ReadSizes(vcontext.Background(), path)
	expect.NoError(t, err)
	expect.EQ(t, g.Names(), []string{"chr1", "chr2"})
	expect.EQ(t, g.Total(), int64(1500))
	index, err := g.GenomeIndex("2", 10)
	expect.NoError(t, err)
	expect.EQ(t, index, int64(1010))
}

func TestFromSAMHeader(t *testing.T) {
	ref1, err := sam.NewReference("chr1", "", "", 1000, nil, nil)
	expect.NoError(t, err)
	ref2, err := sam.NewReference("chr2", "", "", 300, nil, nil)
	expect.NoError(t, err)
	h, err := sam.NewHeader(nil, []*sam.Reference{ref1, ref2})
	expect.NoError(t, err)

	g, err := FromSAMHeader(h)
	expect.NoError(t, err)
	expect.EQ(t, g.Names(), []string{"chr1", "chr2"})
	expect.EQ(t, g.Offset(2), int64(1000))
	expect.EQ(t, g.Total(), int64(1300))
}

func TestReadSAMHeader(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tempDir, "test.sam")
	text := "@HD\tVN:1.3\tSO:coordinate\n@SQ\tSN:chr1\tLN:1000\n@SQ\tSN:chrX\tLN:250\n"
	expect.NoError(t, ioutil.WriteFile(path, []byte(text), 0644))

	g, err := ReadSAMHeader(vcontext.Background(), path)
	expect.NoError(t, err)
	expect.EQ(t, g.Names(), []string{"chr1", "chrX"})
	expect.EQ(t, g.Total(), int64(1250))
}
