package cmd

import (
	"context"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/tensor"
	"github.com/grailbio/twolocus/twolocus"
)

// output writes query results as TSV, one header line per table.
type output struct {
	w *tsv.Writer
}

// withOutput runs fn with an output writing to path, or to stdout if path is
// empty.
func withOutput(ctx context.Context, path string, stdout io.Writer, fn func(*output) error) (err error) {
	if path == "" {
		w := &output{tsv.NewWriter(stdout)}
		if err := fn(w); err != nil {
			return err
		}
		return w.w.Flush()
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "create", path)
	}
	defer func() {
		if e := out.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "close", path)
		}
	}()
	w := &output{tsv.NewWriter(out.Writer(ctx))}
	if err := fn(w); err != nil {
		return err
	}
	return w.w.Flush()
}

func (o *output) header(cols ...string) {
	for _, c := range cols {
		o.w.WriteString(c)
	}
	o.w.EndLine() // nolint: errcheck
}

func (o *output) float(f float64) {
	o.w.WriteString(strconv.FormatFloat(f, 'g', 6, 64))
}

func (o *output) loci(l twolocus.Loci) {
	o.w.WriteInt64(int64(l.Row))
	o.w.WriteInt64(int64(l.Col))
	o.w.WriteInt64(l.ProximalStart)
	o.w.WriteInt64(l.ProximalEnd)
	o.w.WriteInt64(l.DistalStart)
	o.w.WriteInt64(l.DistalEnd)
}

var lociHeader = []string{"row", "col", "proximal_start", "proximal_end", "distal_start", "distal_end"}

func (o *output) names(names []string) error {
	o.header("sample")
	for _, name := range names {
		o.w.WriteString(name)
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) sampleSets(sets []twolocus.SampleSet) error {
	o.header("set", "id", "samples")
	for _, s := range sets {
		o.w.WriteString(s.Name)
		o.w.WriteString(s.ID)
		o.w.WriteString(strings.Join(s.Samples, ","))
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

// frequencies writes every nonzero upper-triangle cell of t.
func (o *output) frequencies(ls *ancestry.LabelSet, t *tensor.Tensor, grid []int64) error {
	o.header(append([]string{"combination"}, append(lociHeader, "count")...)...)
	for k, c := range t.Combos() {
		for i := 0; i < t.N(); i++ {
			for j := i; j < t.N(); j++ {
				n := t.AtIndex(k, i, j)
				if n == 0 {
					continue
				}
				o.w.WriteString(ls.ComboName(c))
				o.loci(twolocus.NewLoci(grid, i, j))
				o.w.WriteUint32(n)
				if err := o.w.EndLine(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (o *output) cells(sample string, cells []twolocus.Cell) error {
	for _, c := range cells {
		if sample != "" {
			o.w.WriteString(sample)
		}
		o.w.WriteString(c.Name)
		o.loci(c.Loci)
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) absent(absent map[string][]twolocus.Cell) error {
	o.header(append([]string{"sample", "combination"}, lociHeader...)...)
	samples := make([]string, 0, len(absent))
	for s := range absent {
		samples = append(samples, s)
	}
	sort.Strings(samples)
	for _, s := range samples {
		if err := o.cells(s, absent[s]); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) pointPair(pp *twolocus.PointPair) error {
	o.header("locus", "chrom", "start", "end")
	for _, r := range []struct {
		name string
		twolocus.Region
	}{{"proximal", pp.Proximal}, {"distal", pp.Distal}} {
		o.w.WriteString(r.name)
		o.w.WriteString(r.Chrom)
		o.w.WriteInt64(r.StartPos)
		o.w.WriteInt64(r.EndPos)
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	o.header("combination", "count")
	for _, c := range pp.Tally {
		o.w.WriteString(c.Name)
		o.w.WriteInt64(int64(c.Count))
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) dependence(deps []twolocus.Dependence, maxP float64) error {
	o.header(append(append([]string{}, lociHeader...), "chi2", "df", "p")...)
	for _, d := range deps {
		if d.Degenerate || d.PValue > maxP {
			continue
		}
		o.loci(d.Loci)
		o.float(d.Statistic)
		o.w.WriteInt64(int64(d.DF))
		o.float(d.PValue)
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) contingency(rows []twolocus.ContingencyRow) error {
	o.header("proximal_chrom", "proximal_start", "proximal_end", "distal_chrom", "distal_start", "distal_end",
		"proximal_label", "distal_label", "count_a", "size_a", "count_b", "size_b", "chi2", "p")
	for _, r := range rows {
		o.w.WriteString(r.Proximal.Chrom)
		o.w.WriteInt64(r.Proximal.StartPos)
		o.w.WriteInt64(r.Proximal.EndPos)
		o.w.WriteString(r.Distal.Chrom)
		o.w.WriteInt64(r.Distal.StartPos)
		o.w.WriteInt64(r.Distal.EndPos)
		o.w.WriteString(r.ProximalLabel)
		o.w.WriteString(r.DistalLabel)
		o.w.WriteInt64(int64(r.CountA))
		o.w.WriteInt64(int64(r.SizeA))
		o.w.WriteInt64(int64(r.CountB))
		o.w.WriteInt64(int64(r.SizeB))
		o.float(r.Statistic)
		o.float(r.PValue)
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}

func (o *output) area(ls *ancestry.LabelSet, combos []ancestry.Combo, area map[ancestry.Combo]float64) error {
	o.header("combination", "area")
	for _, c := range combos {
		o.w.WriteString(ls.ComboName(c))
		o.float(area[c])
		if err := o.w.EndLine(); err != nil {
			return err
		}
	}
	return nil
}
