package track

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/recordio"
	"github.com/grailbio/base/recordio/recordiozstd"
	"github.com/grailbio/twolocus/ancestry"
)

// An archive is a single recordio file holding a whole store, one gob
// record per sample, zstd-compressed.  The trailer lists the label names
// the codes were written with.
const (
	archiveVersionHeader = "twolocusversion"
	archiveVersion       = "TWOLOCUS_V1"
)

type archiveRecord struct {
	Name   string
	Ends   []int64
	Labels []uint16
}

type archiveTrailer struct {
	// Labels are the names of the label codes 1, 2, 4, ... in order; the
	// last one is unknown.
	Labels []string
	// Samples is the number of records.
	Samples int
}

func labelNames(ls *ancestry.LabelSet) []string {
	var names []string
	for _, l := range ls.Labels(true) {
		names = append(names, ls.LabelName(l))
	}
	return names
}

// WriteArchive writes every sample of s to a recordio archive at path.
func WriteArchive(ctx context.Context, path string, s Store, ls *ancestry.LabelSet) (err error) {
	recordiozstd.Init()
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "track: create archive", path)
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "track: close archive", path)
		}
	}()
	w := recordio.NewWriter(out.Writer(ctx), recordio.WriterOpts{
		Transformers: []string{recordiozstd.Name},
	})
	w.AddHeader(archiveVersionHeader, archiveVersion)
	w.AddHeader(recordio.KeyTrailer, true)
	names := s.Names()
	for _, name := range names {
		t, err := s.Get(name)
		if err != nil {
			return err
		}
		rec := archiveRecord{Name: name, Ends: t.Ends, Labels: make([]uint16, len(t.Labels))}
		for i, l := range t.Labels {
			rec.Labels[i] = uint16(l)
		}
		b := bytes.NewBuffer(nil)
		if err := gob.NewEncoder(b).Encode(&rec); err != nil {
			return errors.E(err, "track: encode", name)
		}
		w.Append(b.Bytes())
	}
	b := bytes.NewBuffer(nil)
	if err := gob.NewEncoder(b).Encode(archiveTrailer{Labels: labelNames(ls), Samples: len(names)}); err != nil {
		return errors.E(err, "track: encode trailer")
	}
	w.SetTrailer(b.Bytes())
	if err := w.Finish(); err != nil {
		return errors.E(err, "track: finish archive", path)
	}
	log.Printf("track: wrote %d samples to %s", len(names), path)
	return nil
}

// ReadArchive reads a recordio archive written by WriteArchive into a new
// MemStore.  The archive must have been written with the same label names
// as ls.
func ReadArchive(ctx context.Context, path string, ls *ancestry.LabelSet) (_ *MemStore, err error) {
	recordiozstd.Init()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "track: open archive", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "track: close archive", path)
		}
	}()
	r := recordio.NewScanner(in.Reader(ctx), recordio.ScannerOpts{})
	versionFound := false
	for _, kv := range r.Header() {
		if kv.Key == archiveVersionHeader {
			if v, ok := kv.Value.(string); !ok || v != archiveVersion {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("track: archive %s has version %v, expect %s", path, kv.Value, archiveVersion))
			}
			versionFound = true
		}
	}
	if !versionFound {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("track: %s is not a track archive", path))
	}
	var trailer archiveTrailer
	if err := gob.NewDecoder(bytes.NewReader(r.Trailer())).Decode(&trailer); err != nil {
		return nil, errors.E(err, "track: decode trailer", path)
	}
	if want := labelNames(ls); fmt.Sprint(trailer.Labels) != fmt.Sprint(want) {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("track: archive %s has labels %v, expect %v", path, trailer.Labels, want))
	}
	s := NewMemStore()
	for r.Scan() {
		var rec archiveRecord
		if err := gob.NewDecoder(bytes.NewReader(r.Get().([]byte))).Decode(&rec); err != nil {
			return nil, errors.E(err, "track: decode record", path)
		}
		t := &Track{Ends: rec.Ends, Labels: make([]ancestry.Label, len(rec.Labels))}
		for i, c := range rec.Labels {
			t.Labels[i] = ancestry.Label(c)
		}
		if err := t.Validate(ls); err != nil {
			return nil, errors.E(err, "track: sample", rec.Name)
		}
		s.Put(rec.Name, t)
	}
	if err := r.Err(); err != nil {
		return nil, errors.E(err, "track: scan archive", path)
	}
	if s.Len() != trailer.Samples {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("track: archive %s has %d samples, trailer says %d", path, s.Len(), trailer.Samples))
	}
	return s, nil
}
