package genome

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/hts/sam"
)

var (
	mm9Names = []string{
		"1", "2", "3", "4", "5", "6", "7", "8", "9", "10",
		"11", "12", "13", "14", "15", "16", "17", "18", "19",
		"X", "Y", "MT",
	}
	mm9Sizes = []int64{
		197195432, 181748087, 159599783, 155630120, 152537259,
		149517037, 152524553, 131738871, 124076172, 129993255,
		121843856, 121257530, 120284312, 125194864, 103494974,
		98319150, 95272651, 90772031, 61342430, 166650296,
		91744698, 16299,
	}
)

// MM9 returns the chromosome table of the mm9 mouse assembly.
func MM9() *Genome { return MustNew(mm9Names, mm9Sizes) }

type sizesRow struct {
	Name string
	Size int64
}

// ReadSizes reads a UCSC-style chrom.sizes file: one "name<TAB>size" line
// per chromosome, in karyotype order.  Lines starting with '#' are ignored.
func ReadSizes(ctx context.Context, path string) (g *Genome, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "genome.ReadSizes", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "genome.ReadSizes close", path)
		}
	}()
	r := tsv.NewReader(in.Reader(ctx))
	r.Comment = '#'
	var (
		names []string
		sizes []int64
	)
	for {
		var row sizesRow
		if err := r.Read(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(err, fmt.Sprintf("genome.ReadSizes %s:%d", path, len(names)+1))
		}
		names = append(names, row.Name)
		sizes = append(sizes, row.Size)
	}
	if len(names) == 0 {
		return nil, errors.E(errors.Invalid, "genome.ReadSizes: no chromosomes in", path)
	}
	return New(names, sizes)
}

// FromSAMHeader builds a Genome from the reference sequences of a SAM/BAM
// header, in header order.
func FromSAMHeader(h *sam.Header) (*Genome, error) {
	refs := h.Refs()
	names := make([]string, len(refs))
	sizes := make([]int64, len(refs))
	for i, ref := range refs {
		names[i] = ref.Name()
		sizes[i] = int64(ref.Len())
	}
	return New(names, sizes)
}

// ReadSAMHeader builds a Genome from the header of a SAM file.
func ReadSAMHeader(ctx context.Context, path string) (g *Genome, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "genome.ReadSAMHeader", path)
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "genome.ReadSAMHeader close", path)
		}
	}()
	r, err := sam.NewReader(in.Reader(ctx))
	if err != nil {
		return nil, errors.E(err, "genome.ReadSAMHeader", path)
	}
	return FromSAMHeader(r.Header())
}
