package tensor

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/grailbio/testutil/expect"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/interval"
	"github.com/grailbio/twolocus/track"
	"github.com/kshedden/gonpy"
)

var ls = ancestry.Default()

const (
	dom = ancestry.Label(1)
	mus = ancestry.Label(2)
	cas = ancestry.Label(4)
	unk = ancestry.Label(8)
)

func mustTrack(t *testing.T, ends []int64, labels ...ancestry.Label) *track.Track {
	tr, err := track.New(ends, labels)
	expect.NoError(t, err)
	return tr
}

func grid(tracks ...*track.Track) []int64 {
	var lists [][]int64
	for _, tr := range tracks {
		lists = append(lists, tr.Ends)
	}
	return interval.ElementaryIntervals(lists)
}

func randomTrack(r *rand.Rand, total int64) *track.Track {
	labels := ls.Labels(true)
	var (
		ends []int64
		out  []ancestry.Label
		pos  int64
	)
	for pos < total {
		pos += 1 + r.Int63n(total/4)
		if pos > total {
			pos = total
		}
		ends = append(ends, pos)
		out = append(out, labels[r.Intn(len(labels))])
	}
	return &track.Track{Ends: ends, Labels: out}
}

func TestSingleSample(t *testing.T) {
	a := mustTrack(t, []int64{1000, 2000}, dom, mus)
	b := mustTrack(t, []int64{500, 1500, 2000}, cas, cas, cas)
	g := grid(a, b)
	expect.EQ(t, g, []int64{500, 1000, 1500, 2000})

	tn, err := Build([]*track.Track{a}, g, ls.Combos(true), ls, DefaultOpts)
	expect.NoError(t, err)
	expect.EQ(t, tn.N(), 4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := uint32(0)
			if i <= j {
				want = 1
			}
			expect.EQ(t, tn.Total(i, j), want, "cell (%d,%d)", i, j)
		}
	}
	expect.EQ(t, tn.At(ls.Combine(dom, dom), 0, 1), uint32(1))
	expect.EQ(t, tn.At(ls.Combine(dom, mus), 1, 2), uint32(1))
	expect.EQ(t, tn.At(ls.Combine(mus, mus), 2, 3), uint32(1))
	expect.EQ(t, tn.At(ls.Combine(mus, dom), 0, 3), uint32(0))
	expect.EQ(t, tn.At(ls.Combine(dom, mus), 2, 1), uint32(0))
}

func TestKnownCombosOnly(t *testing.T) {
	a := mustTrack(t, []int64{1000, 2000}, dom, unk)
	tn, err := Build([]*track.Track{a}, a.Ends, ls.Combos(false), ls, DefaultOpts)
	expect.NoError(t, err)
	expect.False(t, tn.Has(ls.Combine(dom, unk)))
	expect.EQ(t, tn.At(ls.Combine(dom, dom), 0, 0), uint32(1))
	expect.EQ(t, tn.Total(0, 1), uint32(0))
	expect.EQ(t, tn.Total(1, 1), uint32(0))
	expect.EQ(t, tn.Plane(ls.Combine(dom, unk)), [][]uint32(nil))
	expect.EQ(t, tn.Plane(ls.Combine(dom, dom)), [][]uint32{{1, 0}, {0, 0}})
}

func TestDiagonalMatchesLabels(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	var tracks []*track.Track
	for i := 0; i < 5; i++ {
		tracks = append(tracks, randomTrack(r, 10000))
	}
	g := grid(tracks...)
	tn, err := Build(tracks, g, ls.Combos(true), ls, DefaultOpts)
	expect.NoError(t, err)
	for i := range g {
		want := map[ancestry.Combo]uint32{}
		for _, tr := range tracks {
			k, ok := interval.Enclosing(tr.Ends, g[i])
			expect.True(t, ok)
			want[ls.Combine(tr.Labels[k], tr.Labels[k])]++
		}
		for _, c := range ls.Combos(true) {
			expect.EQ(t, tn.At(c, i, i), want[c], "combo %s at %d", ls.ComboName(c), i)
		}
		for j := i; j < len(g); j++ {
			expect.EQ(t, tn.Total(i, j), uint32(len(tracks)))
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	var tracks []*track.Track
	for i := 0; i < 13; i++ {
		tracks = append(tracks, randomTrack(r, 5000))
	}
	g := grid(tracks...)
	serial, err := Build(tracks, g, ls.Combos(true), ls, DefaultOpts)
	expect.NoError(t, err)
	for _, p := range []int{2, 4, 32} {
		par, err := Build(tracks, g, ls.Combos(true), ls, Opts{Parallelism: p})
		expect.NoError(t, err)
		expect.True(t, serial.Equal(par), "parallelism %d", p)
		expect.EQ(t, serial.Checksum(), par.Checksum())
	}
	again, err := Build(tracks, g, ls.Combos(true), ls, DefaultOpts)
	expect.NoError(t, err)
	expect.True(t, serial.Equal(again))

	fewer, err := Build(tracks[1:], g, ls.Combos(true), ls, DefaultOpts)
	expect.NoError(t, err)
	expect.False(t, serial.Equal(fewer))
	expect.True(t, serial.Checksum() != fewer.Checksum())
}

func TestAdd(t *testing.T) {
	a := mustTrack(t, []int64{1000, 2000}, dom, mus)
	b := mustTrack(t, []int64{500, 2000}, cas, mus)
	g := grid(a, b)
	ta, err := Build([]*track.Track{a}, g, ls.Combos(false), ls, DefaultOpts)
	expect.NoError(t, err)
	tb, err := Build([]*track.Track{b}, g, ls.Combos(false), ls, DefaultOpts)
	expect.NoError(t, err)
	both, err := Build([]*track.Track{a, b}, g, ls.Combos(false), ls, DefaultOpts)
	expect.NoError(t, err)
	expect.NoError(t, ta.Add(tb))
	expect.True(t, ta.Equal(both))

	other := New(ls.Combos(true), len(g))
	expect.True(t, ta.Add(other) != nil)
	expect.False(t, ta.Equal(other))
}

func TestGridMustRefine(t *testing.T) {
	a := mustTrack(t, []int64{1000, 2000}, dom, mus)
	_, err := Build([]*track.Track{a}, []int64{500, 2000}, ls.Combos(true), ls, DefaultOpts)
	expect.True(t, err != nil)
}

func TestWriteNPY(t *testing.T) {
	a := mustTrack(t, []int64{1000, 2000}, dom, mus)
	tn, err := Build([]*track.Track{a}, a.Ends, ls.Combos(false), ls, DefaultOpts)
	expect.NoError(t, err)
	var buf bytes.Buffer
	expect.NoError(t, tn.WriteNPY(&buf))

	r, err := gonpy.NewReader(&buf)
	expect.NoError(t, err)
	expect.EQ(t, r.Shape, []int{9, 2, 2})
	data, err := r.GetUint32()
	expect.NoError(t, err)
	expect.EQ(t, len(data), 9*4)
	k := -1
	for i, c := range tn.Combos() {
		if c == ls.Combine(dom, mus) {
			k = i
		}
	}
	expect.EQ(t, data[k*4:k*4+4], []uint32{0, 1, 0, 0})
}
