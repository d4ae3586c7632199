package cmd

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/track"
	"github.com/grailbio/twolocus/twolocus"
	"v.io/x/lib/cmdline"
)

func newCmdIngest() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "ingest",
		Short: "Build sample tracks from haplotype tables",
		Long: `Reads tab-separated haplotype tables with the columns
strain, chrom, start, end and subspecies (1-based closed intervals), and
stores one track per strain in the directory given by -db and/or the
archive given by -archive.  Tables ending in .gz are gunzipped.`,
		ArgsName: "table...",
	}
	store := addStoreFlags(cmd)
	compress := cmd.Flags.Bool("compress", false, "Write snappy-compressed .npy.sz files")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) == 0 {
			return fmt.Errorf("ingest takes at least one table, but got none")
		}
		if *store.db == "" && *store.archive == "" {
			return fmt.Errorf("ingest: one of -db or -archive is required")
		}
		ctx := vcontext.Background()
		g, err := loadGenome(ctx, *store.genome)
		if err != nil {
			return err
		}
		ls := ancestry.Default()
		tracks, err := track.ReadTables(ctx, argv, g, ls)
		if err != nil {
			return err
		}
		s := track.NewMemStore()
		for name, t := range tracks {
			s.Put(name, t)
		}
		if *store.db != "" {
			opts := track.DefaultDirOpts
			opts.Compress = *compress
			opts.Parallelism = *store.parallelism
			if err := track.SaveDir(ctx, *store.db, s, opts); err != nil {
				return err
			}
			log.Printf("ingest: wrote %d samples to %s", s.Len(), *store.db)
		}
		if *store.archive != "" {
			return track.WriteArchive(ctx, *store.archive, s, ls)
		}
		return nil
	})
	return cmd
}

func newCmdList() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "list",
		Short: "List the available samples",
	}
	store := addStoreFlags(cmd)
	sets := cmd.Flags.Bool("sets", false, "List the predefined sample sets instead, restricted to available samples")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.DefaultOpts)
		if err != nil {
			return err
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			if *sets {
				return w.sampleSets(e.SampleSets())
			}
			return w.names(e.ListAvailable())
		})
	})
	return cmd
}

func newCmdRoot() *cmdline.Command {
	return &cmdline.Command{
		Name:     "bio-twolocus",
		Short:    "Two-locus ancestry combination queries",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdIngest(),
			newCmdList(),
			newCmdFrequencies(),
			newCmdUnique(),
			newCmdAbsent(),
			newCmdPoint(),
			newCmdDependence(),
			newCmdContingency(),
			newCmdArea(),
		},
	}
}

// Run is the entry point of bio-twolocus.
func Run() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(newCmdRoot())
}
