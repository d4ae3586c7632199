package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/genome"
	"github.com/grailbio/twolocus/track"
	"github.com/grailbio/twolocus/twolocus"
	"v.io/x/lib/cmdline"
)

// storeFlags are the flags shared by every subcommand: where tracks live,
// which coordinate system they use, and where output goes.
type storeFlags struct {
	db          *string
	archive     *string
	genome      *string
	parallelism *int
	out         *string
}

func addStoreFlags(cmd *cmdline.Command) storeFlags {
	return storeFlags{
		db:          cmd.Flags.String("db", "", "Directory of <sample>_intervals.npy and <sample>_sources.npy track files"),
		archive:     cmd.Flags.String("archive", "", "Recordio track archive; used instead of -db when set"),
		genome:      cmd.Flags.String("genome", "mm9", `Chromosome sizes: "mm9", a chrom.sizes path, or a .sam file whose header lists the references`),
		parallelism: cmd.Flags.Int("parallelism", 1, "Number of samples or grid rows processed concurrently"),
		out:         cmd.Flags.String("out", "", "Output TSV path; stdout if empty"),
	}
}

func loadGenome(ctx context.Context, spec string) (*genome.Genome, error) {
	if strings.EqualFold(spec, "mm9") {
		return genome.MM9(), nil
	}
	if strings.HasSuffix(spec, ".sam") {
		return genome.ReadSAMHeader(ctx, spec)
	}
	return genome.ReadSizes(ctx, spec)
}

func (f storeFlags) store(ctx context.Context, ls *ancestry.LabelSet) (track.Store, error) {
	switch {
	case *f.archive != "":
		s, err := track.ReadArchive(ctx, *f.archive, ls)
		if err != nil {
			return nil, err
		}
		return s.Snapshot(), nil
	case *f.db != "":
		opts := track.DefaultDirOpts
		opts.Parallelism = *f.parallelism
		s, err := track.LoadDir(ctx, *f.db, ls, opts)
		if err != nil {
			return nil, err
		}
		return s.Snapshot(), nil
	}
	return nil, fmt.Errorf("one of -db or -archive is required")
}

func (f storeFlags) engine(ctx context.Context, opts twolocus.Opts) (*twolocus.Engine, error) {
	g, err := loadGenome(ctx, *f.genome)
	if err != nil {
		return nil, err
	}
	ls := ancestry.Default()
	s, err := f.store(ctx, ls)
	if err != nil {
		return nil, err
	}
	opts.Parallelism = *f.parallelism
	return twolocus.New(g, ls, s, opts), nil
}

// sampleFlags selects a sample subset: an explicit comma-separated list,
// a predefined set, or both.
type sampleFlags struct {
	list *string
	set  *string
}

func addSampleFlags(cmd *cmdline.Command, name, what string) sampleFlags {
	return sampleFlags{
		list: cmd.Flags.String(name, "", fmt.Sprintf("Comma-separated %s sample names", what)),
		set:  cmd.Flags.String(name+"-set", "", fmt.Sprintf("Predefined sample set added to the %s samples (see list -sets)", what)),
	}
}

func (f sampleFlags) names(e *twolocus.Engine) ([]string, error) {
	names := splitNames(*f.list)
	if *f.set != "" {
		set, ok := e.SampleSet(*f.set)
		if !ok {
			return nil, fmt.Errorf("unknown or empty sample set %q", *f.set)
		}
		names = append(names, set.Samples...)
	}
	return names, nil
}

// splitNames splits a comma-separated list, dropping empty entries.
func splitNames(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}
