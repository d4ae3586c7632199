package track

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/genome"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	dom = ancestry.Label(1)
	mus = ancestry.Label(2)
	cas = ancestry.Label(4)
	unk = ancestry.Label(8)
)

func testGenome() *genome.Genome {
	return genome.MustNew([]string{"1", "2"}, []int64{1000, 500})
}

const testTable = "strain\tchrom\tstart\tend\tsubspecies\n" +
	"A\t1\t1\t300\tdom\n" +
	"A\t1\t700\t800\tMus\n" +
	"A\t1\t301\t600\tdom\n" +
	"B/x\t2\t1\t500\tcast\n"

func TestNew(t *testing.T) {
	_, err := New([]int64{10, 20}, []ancestry.Label{dom, mus})
	assert.NoError(t, err)
	_, err = New([]int64{10, 10}, []ancestry.Label{dom, mus})
	assert.True(t, errors.Is(errors.Invalid, err))
	_, err = New([]int64{10}, []ancestry.Label{dom, mus})
	assert.Error(t, err)
	_, err = New([]int64{0}, []ancestry.Label{dom})
	assert.Error(t, err)

	tr, err := New([]int64{10, 20}, []ancestry.Label{dom, ancestry.Label(3)})
	require.NoError(t, err)
	assert.Error(t, tr.Validate(ancestry.Default()))
	assert.Equal(t, int64(20), tr.End())
	start, end, l := tr.Interval(1)
	assert.Equal(t, []int64{10, 20}, []int64{start, end})
	assert.Equal(t, ancestry.Label(3), l)
}

func TestMemStore(t *testing.T) {
	s := NewMemStore()
	a, _ := New([]int64{1500}, []ancestry.Label{dom})
	s.Put("b", a)
	s.Put("a", a)
	assert.Equal(t, []string{"a", "b"}, s.Names())
	assert.True(t, s.Contains("a"))
	snap := s.Snapshot()
	s.Delete("a")
	assert.False(t, s.Contains("a"))
	assert.True(t, snap.Contains("a"))
	_, err := s.Get("a")
	assert.True(t, errors.Is(errors.NotExist, err))
	got, err := snap.Get("a")
	require.NoError(t, err)
	assert.Equal(t, a, got)
	assert.Equal(t, []string{"a", "b"}, snap.Names())
}

func TestReadTable(t *testing.T) {
	b := NewTableBuilder(testGenome(), ancestry.Default())
	require.NoError(t, b.ReadTable(strings.NewReader(testTable), "test"))
	tracks, err := b.Tracks()
	require.NoError(t, err)
	require.Len(t, tracks, 2)

	a := tracks["A"]
	assert.Equal(t, []int64{600, 700, 800, 1000, 1500}, a.Ends)
	assert.Equal(t, []ancestry.Label{dom, unk, mus, unk, unk}, a.Labels)

	bx := tracks["Bx"]
	assert.Equal(t, []int64{1000, 1500}, bx.Ends)
	assert.Equal(t, []ancestry.Label{unk, cas}, bx.Labels)
}

func TestReadTableErrors(t *testing.T) {
	header := "strain\tchrom\tstart\tend\tsubspecies\n"
	for _, body := range []string{
		"A\t7\t1\t300\tdom\n",
		"A\t1\t1\t300\tzzz\n",
		"A\t1\t1\t3000\tdom\n",
		"//\t1\t1\t300\tdom\n",
	} {
		b := NewTableBuilder(testGenome(), ancestry.Default())
		err := b.ReadTable(strings.NewReader(header+body), "test")
		assert.True(t, errors.Is(errors.Invalid, err), "body %q: %v", body, err)
	}

	b := NewTableBuilder(testGenome(), ancestry.Default())
	require.NoError(t, b.ReadTable(strings.NewReader(header+"A\t1\t1\t300\tdom\nA\t1\t100\t400\tmus\n"), "test"))
	_, err := b.Tracks()
	assert.True(t, errors.Is(errors.Invalid, err))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "C57BL6J", SanitizeName("C57BL/6J"))
	assert.Equal(t, "BTBRTtfJ", SanitizeName("BTBR T<+>tf/J"))
	assert.Equal(t, "", SanitizeName("/ <>"))
	assert.Equal(t, "a-b_c.(d)", SanitizeName("a-b_c.(d)"))
}

func testStore(t *testing.T) *MemStore {
	b := NewTableBuilder(testGenome(), ancestry.Default())
	require.NoError(t, b.ReadTable(strings.NewReader(testTable), "test"))
	tracks, err := b.Tracks()
	require.NoError(t, err)
	s := NewMemStore()
	for name, tr := range tracks {
		s.Put(name, tr)
	}
	return s
}

func TestDirRoundTrip(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ls := ancestry.Default()
	want := testStore(t)

	for _, compress := range []bool{false, true} {
		dir := filepath.Join(tmpDir, map[bool]string{false: "plain", true: "snappy"}[compress])
		require.NoError(t, os.MkdirAll(dir, 0755))
		opts := DefaultDirOpts
		opts.Compress = compress
		require.NoError(t, SaveDir(ctx, dir, want, opts))
		names, err := ListDir(ctx, dir)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "Bx"}, names)
		got, err := LoadDir(ctx, dir, ls, opts)
		require.NoError(t, err)
		for _, name := range names {
			w, _ := want.Get(name)
			g, err := got.Get(name)
			require.NoError(t, err)
			assert.Equal(t, w, g, "compress=%v", compress)
		}
	}
	_, err := ReadNPY(ctx, tmpDir, "missing", ls)
	assert.Error(t, err)
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "tracks.rio")
	want := testStore(t)
	require.NoError(t, WriteArchive(ctx, path, want, ancestry.Default()))

	got, err := ReadArchive(ctx, path, ancestry.Default())
	require.NoError(t, err)
	assert.Equal(t, want.Names(), got.Names())
	for _, name := range want.Names() {
		w, _ := want.Get(name)
		g, _ := got.Get(name)
		assert.Equal(t, w, g)
	}

	other, err := ancestry.NewLabelSet([]string{"a", "b"}, "?", nil)
	require.NoError(t, err)
	_, err = ReadArchive(ctx, path, other)
	assert.True(t, errors.Is(errors.Invalid, err))
}
