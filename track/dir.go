package track

import (
	"bufio"
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/golang/snappy"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/kshedden/gonpy"
	"github.com/pkg/errors"
)

// A track directory stores each sample as two numpy arrays:
// <name>_intervals.npy (int64 interval ends) and <name>_sources.npy (uint16
// labels).  Either file may instead carry a ".npy.sz" suffix, in which case
// it is snappy-framed.
const (
	intervalsSuffix  = "_intervals"
	sourcesSuffix    = "_sources"
	npySuffix        = ".npy"
	snappyNPYSuffix  = ".npy.sz"
	defaultReadAhead = 1 << 20
)

// DirOpts controls how tracks are written to a directory.
type DirOpts struct {
	// Compress writes snappy-framed .npy.sz files.
	Compress bool
	// Parallelism bounds the number of tracks read or written concurrently.
	Parallelism int
}

// DefaultDirOpts are the default DirOpts.
var DefaultDirOpts = DirOpts{Parallelism: 8}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func trackPath(dir, name, suffix string, compress bool) string {
	ext := npySuffix
	if compress {
		ext = snappyNPYSuffix
	}
	return file.Join(dir, name+suffix+ext)
}

// WriteNPY writes t to dir as the arrays of the named sample.
func WriteNPY(ctx context.Context, dir, name string, t *Track, compress bool) error {
	if err := writeArray(ctx, trackPath(dir, name, intervalsSuffix, compress), compress, func(w *gonpy.NpyWriter) error {
		w.Shape = []int{len(t.Ends)}
		return w.WriteInt64(t.Ends)
	}); err != nil {
		return err
	}
	labels := make([]uint16, len(t.Labels))
	for i, l := range t.Labels {
		labels[i] = uint16(l)
	}
	return writeArray(ctx, trackPath(dir, name, sourcesSuffix, compress), compress, func(w *gonpy.NpyWriter) error {
		w.Shape = []int{len(labels)}
		return w.WriteUint16(labels)
	})
}

func writeArray(ctx context.Context, path string, compress bool, write func(*gonpy.NpyWriter) error) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = errors.Wrapf(e, "close %s", path)
		}
	}()
	bufw := bufio.NewWriter(out.Writer(ctx))
	var (
		w  io.Writer = bufw
		sz *snappy.Writer
	)
	if compress {
		sz = snappy.NewBufferedWriter(bufw)
		w = sz
	}
	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return errors.Wrapf(err, "npy header %s", path)
	}
	if err := write(npw); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	if sz != nil {
		if err := sz.Close(); err != nil {
			return errors.Wrapf(err, "snappy close %s", path)
		}
	}
	return errors.Wrapf(bufw.Flush(), "flush %s", path)
}

// ReadNPY reads the arrays of the named sample from dir.  Compressed and
// uncompressed files are both accepted.  The track is validated against ls.
func ReadNPY(ctx context.Context, dir, name string, ls *ancestry.LabelSet) (*Track, error) {
	var t Track
	if err := readArray(ctx, dir, name, intervalsSuffix, func(r *gonpy.NpyReader) (err error) {
		t.Ends, err = r.GetInt64()
		return
	}); err != nil {
		return nil, err
	}
	var codes []uint16
	if err := readArray(ctx, dir, name, sourcesSuffix, func(r *gonpy.NpyReader) (err error) {
		codes, err = r.GetUint16()
		return
	}); err != nil {
		return nil, err
	}
	t.Labels = make([]ancestry.Label, len(codes))
	for i, c := range codes {
		t.Labels[i] = ancestry.Label(c)
	}
	if err := t.Validate(ls); err != nil {
		return nil, errors.Wrapf(err, "track %s in %s", name, dir)
	}
	return &t, nil
}

func readArray(ctx context.Context, dir, name, suffix string, read func(*gonpy.NpyReader) error) (err error) {
	compress := false
	path := trackPath(dir, name, suffix, false)
	in, err := file.Open(ctx, path)
	if err != nil {
		compress = true
		path = trackPath(dir, name, suffix, true)
		if in, err = file.Open(ctx, path); err != nil {
			return errors.Wrapf(err, "open %s", trackPath(dir, name, suffix, false))
		}
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.Wrapf(e, "close %s", path)
		}
	}()
	var r io.Reader = bufio.NewReaderSize(in.Reader(ctx), defaultReadAhead)
	if compress {
		r = snappy.NewReader(r)
	}
	npr, err := gonpy.NewReader(r)
	if err != nil {
		return errors.Wrapf(err, "npy header %s", path)
	}
	if len(npr.Shape) != 1 {
		return errors.Errorf("%s: expected a 1-d array, got shape %v", path, npr.Shape)
	}
	return errors.Wrapf(read(npr), "read %s", path)
}

// ListDir returns the names of the samples stored in dir: those for which
// both the intervals and the sources array exist.
func ListDir(ctx context.Context, dir string) ([]string, error) {
	intervals := map[string]bool{}
	sources := map[string]bool{}
	lister := file.List(ctx, dir, false)
	for lister.Scan() {
		base := lister.Path()
		if i := strings.LastIndexByte(base, '/'); i >= 0 {
			base = base[i+1:]
		}
		base = strings.TrimSuffix(strings.TrimSuffix(base, ".sz"), npySuffix)
		switch {
		case strings.HasSuffix(base, intervalsSuffix):
			intervals[strings.TrimSuffix(base, intervalsSuffix)] = true
		case strings.HasSuffix(base, sourcesSuffix):
			sources[strings.TrimSuffix(base, sourcesSuffix)] = true
		}
	}
	if err := lister.Err(); err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}
	var names []string
	for name := range intervals {
		if sources[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadDir reads every sample in dir into a new MemStore.
func LoadDir(ctx context.Context, dir string, ls *ancestry.LabelSet, opts DirOpts) (*MemStore, error) {
	names, err := ListDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	tracks := make([]*Track, len(names))
	err = traverse.Limit(parallelism(opts.Parallelism)).Each(len(names), func(i int) (err error) {
		tracks[i], err = ReadNPY(ctx, dir, names[i], ls)
		return
	})
	if err != nil {
		return nil, err
	}
	s := NewMemStore()
	for i, name := range names {
		s.Put(name, tracks[i])
	}
	log.Printf("track: loaded %d samples from %s", len(names), dir)
	return s, nil
}

// SaveDir writes every sample of s to dir.
func SaveDir(ctx context.Context, dir string, s Store, opts DirOpts) error {
	if scheme, _, err := file.ParsePath(dir); err == nil && scheme == "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return errors.Wrapf(err, "mkdir %s", dir)
		}
	}
	names := s.Names()
	return traverse.Limit(parallelism(opts.Parallelism)).Each(len(names), func(i int) error {
		t, err := s.Get(names[i])
		if err != nil {
			return err
		}
		return WriteNPY(ctx, dir, names[i], t, opts.Compress)
	})
}

func parallelism(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
