package track

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/genome"
	"github.com/klauspost/compress/gzip"
)

// TableRow is one line of a haplotype table, as exported by the Mouse
// Phylogeny Viewer: the sample carries the given subspecies on the 1-based
// closed chromosome interval [Start, End].
type TableRow struct {
	Strain     string `tsv:"strain"`
	Chrom      string `tsv:"chrom"`
	Start      int64  `tsv:"start"`
	End        int64  `tsv:"end"`
	Subspecies string `tsv:"subspecies"`
}

// labeledEnd is an interval end on one chromosome.
type labeledEnd struct {
	label ancestry.Label
	end   int64
}

type rawInterval struct {
	start, end int64
	label      ancestry.Label
}

// TableBuilder accumulates haplotype table rows and converts them to
// tracks.
type TableBuilder struct {
	g     *genome.Genome
	ls    *ancestry.LabelSet
	rows  map[string]map[int][]rawInterval // sample -> chromosome id -> intervals
	nRows int
}

// NewTableBuilder creates an empty builder for the given genome and labels.
func NewTableBuilder(g *genome.Genome, ls *ancestry.LabelSet) *TableBuilder {
	return &TableBuilder{g: g, ls: ls, rows: map[string]map[int][]rawInterval{}}
}

// Add records one row.  Sample names are sanitized with SanitizeName.
func (b *TableBuilder) Add(row TableRow) error {
	id, err := b.g.ChromosomeID(row.Chrom)
	if err != nil {
		return err
	}
	label, err := b.ls.ParseLabel(row.Subspecies)
	if err != nil {
		return err
	}
	if row.End < row.Start || row.Start < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid coordinate: interval [%d, %d] on %s", row.Start, row.End, row.Chrom))
	}
	if row.End > b.g.Size(id) {
		return errors.E(errors.Invalid, fmt.Sprintf("invalid coordinate: end %d beyond chromosome %s size %d", row.End, row.Chrom, b.g.Size(id)))
	}
	name := SanitizeName(row.Strain)
	if name == "" {
		return errors.E(errors.Invalid, fmt.Sprintf("sample name %q has no file name characters", row.Strain))
	}
	chroms, ok := b.rows[name]
	if !ok {
		chroms = map[int][]rawInterval{}
		b.rows[name] = chroms
	}
	chroms[id] = append(chroms[id], rawInterval{start: row.Start, end: row.End, label: label})
	b.nRows++
	return nil
}

// Tracks converts the accumulated rows to one track per sample.  Within a
// chromosome, rows are sorted by start.  A gap of more than one base
// between consecutive rows becomes an unknown interval, every chromosome is
// padded with an unknown interval up to its size, and chromosomes with no
// rows at all are a single unknown interval.  Adjacent intervals with the
// same label on the same chromosome are merged.
func (b *TableBuilder) Tracks() (map[string]*Track, error) {
	tracks := make(map[string]*Track, len(b.rows))
	for name, chroms := range b.rows {
		t, err := b.build(name, chroms)
		if err != nil {
			return nil, err
		}
		tracks[name] = t
	}
	log.Debug.Printf("track: built %d tracks from %d rows", len(tracks), b.nRows)
	return tracks, nil
}

func (b *TableBuilder) build(name string, chroms map[int][]rawInterval) (*Track, error) {
	var (
		ends   []int64
		labels []ancestry.Label
	)
	unknown := b.ls.Unknown()
	for id := 1; id <= b.g.Len(); id++ {
		rows := chroms[id]
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].start < rows[j].start })
		var chrom []labeledEnd
		push := func(l ancestry.Label, end int64) {
			if n := len(chrom); n > 0 && chrom[n-1].label == l {
				chrom[n-1].end = end
				return
			}
			chrom = append(chrom, labeledEnd{l, end})
		}
		var lastEnd int64
		for _, r := range rows {
			if r.start+1 < lastEnd || r.end <= lastEnd {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("track %s: overlapping intervals on chromosome %s at %d", name, b.g.Name(id), r.start))
			}
			if r.start-1 > lastEnd {
				push(unknown, r.start)
			}
			push(r.label, r.end)
			lastEnd = r.end
		}
		if size := b.g.Size(id); lastEnd < size {
			push(unknown, size)
		}
		offset := b.g.Offset(id)
		for _, e := range chrom {
			ends = append(ends, offset+e.end)
			labels = append(labels, e.label)
		}
	}
	return New(ends, labels)
}

// SanitizeName drops every character of a sample name outside
// [-_.()A-Za-z0-9], so that the name can be used as a file name.
// "C57BL/6J" becomes "C57BL6J".
func SanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case strings.ContainsRune("-_.()", r):
			return r
		}
		return -1
	}, name)
}

// ReadTable parses a haplotype table from r into b.  The table is
// tab-separated with a header row naming the columns strain, chrom, start,
// end and subspecies.
func (b *TableBuilder) ReadTable(r io.Reader, path string) error {
	tr := tsv.NewReader(r)
	tr.HasHeaderRow = true
	tr.UseHeaderNames = true
	tr.Comment = '#'
	for line := 2; ; line++ {
		var row TableRow
		if err := tr.Read(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return errors.E(err, fmt.Sprintf("track: read %s:%d", path, line))
		}
		if err := b.Add(row); err != nil {
			return errors.E(err, fmt.Sprintf("%s:%d", path, line))
		}
	}
}

// ReadTables reads haplotype tables from the given paths and builds one
// track per sample.  Paths ending in ".gz" are gunzipped.
func ReadTables(ctx context.Context, paths []string, g *genome.Genome, ls *ancestry.LabelSet) (map[string]*Track, error) {
	b := NewTableBuilder(g, ls)
	for _, path := range paths {
		if err := readTableFile(ctx, b, path); err != nil {
			return nil, err
		}
		log.Printf("track: read %s", path)
	}
	return b.Tracks()
}

func readTableFile(ctx context.Context, b *TableBuilder, path string) (err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E(err, "track: open", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "track: close", path)
		}
	}()
	var r io.Reader = in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return errors.E(err, "track: gunzip", path)
		}
		defer gz.Close() // nolint: errcheck
		r = gz
	}
	return b.ReadTable(r, path)
}
