package cmd

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/twolocus/genome"
	"github.com/grailbio/twolocus/twolocus"
	"v.io/x/lib/cmdline"
)

func newCmdFrequencies() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "frequencies",
		Short: "Count label combinations for every pair of elementary intervals",
	}
	store := addStoreFlags(cmd)
	samples := addSampleFlags(cmd, "samples", "queried")
	unknown := cmd.Flags.Bool("unknown", false, "Also count combinations involving the unknown label")
	npyPath := cmd.Flags.String("npy", "", "Also write the dense tensor to this path as a numpy array of shape [combinations, n, n]")
	checksum := cmd.Flags.Bool("checksum", false, "Log a checksum of the tensor")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.Opts{IncludeUnknown: *unknown})
		if err != nil {
			return err
		}
		names, err := samples.names(e)
		if err != nil {
			return err
		}
		t, grid, err := e.PairwiseFrequencies(names)
		if err != nil {
			return err
		}
		if *checksum {
			log.Printf("frequencies: %d samples, %d intervals, checksum %016x", len(names), t.N(), t.Checksum())
		}
		if *npyPath != "" {
			out, err := file.Create(ctx, *npyPath)
			if err != nil {
				return err
			}
			if err := t.WriteNPY(out.Writer(ctx)); err != nil {
				out.Close(ctx) // nolint: errcheck
				return err
			}
			if err := out.Close(ctx); err != nil {
				return err
			}
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			return w.frequencies(e.Labels(), t, grid)
		})
	})
	return cmd
}

func newCmdUnique() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "unique",
		Short: "Report combinations shared by the foreground and absent from the background",
	}
	store := addStoreFlags(cmd)
	bg := addSampleFlags(cmd, "background", "background")
	fg := addSampleFlags(cmd, "foreground", "foreground")
	anyFlag := cmd.Flags.Bool("any", false, "Report cells carried by any foreground sample, not only by all of them")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		opts := twolocus.DefaultOpts
		if *anyFlag {
			opts.UniqueMode = twolocus.UniqueAny
		}
		e, err := store.engine(ctx, opts)
		if err != nil {
			return err
		}
		bgNames, err := bg.names(e)
		if err != nil {
			return err
		}
		fgNames, err := fg.names(e)
		if err != nil {
			return err
		}
		cells, err := e.UniqueCombinations(bgNames, fgNames)
		if err != nil {
			return err
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			w.header(append([]string{"combination"}, lociHeader...)...)
			return w.cells("", cells)
		})
	})
	return cmd
}

func newCmdAbsent() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "absent",
		Short: "Report, per foreground sample, combinations absent from the background",
	}
	store := addStoreFlags(cmd)
	bg := addSampleFlags(cmd, "background", "background")
	fg := addSampleFlags(cmd, "foreground", "foreground")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.DefaultOpts)
		if err != nil {
			return err
		}
		bgNames, err := bg.names(e)
		if err != nil {
			return err
		}
		fgNames, err := fg.names(e)
		if err != nil {
			return err
		}
		absent, err := e.AbsentFromBackground(bgNames, fgNames)
		if err != nil {
			return err
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			return w.absent(absent)
		})
	})
	return cmd
}

func newCmdPoint() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:     "point",
		Short:    "Tally the label combinations of the samples at two loci",
		Long:     "Positions accept thousands separators and k or M suffixes, e.g. 3,500,000 or 3500k.",
		ArgsName: "chrom1 pos1 chrom2 pos2",
	}
	store := addStoreFlags(cmd)
	samples := addSampleFlags(cmd, "samples", "queried")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if len(argv) != 4 {
			return fmt.Errorf("point takes chrom1 pos1 chrom2 pos2, but got %v", argv)
		}
		pos1, err := genome.ParsePosition(argv[1])
		if err != nil {
			return err
		}
		pos2, err := genome.ParsePosition(argv[3])
		if err != nil {
			return err
		}
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.DefaultOpts)
		if err != nil {
			return err
		}
		names, err := samples.names(e)
		if err != nil {
			return err
		}
		pp, err := e.SourcesAtPointPair(argv[0], pos1, argv[2], pos2, names)
		if err != nil {
			return err
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			return w.pointPair(pp)
		})
	})
	return cmd
}

func newCmdDependence() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "dependence",
		Short: "Test every pair of elementary intervals for interlocus dependence",
	}
	store := addStoreFlags(cmd)
	samples := addSampleFlags(cmd, "samples", "queried")
	maxP := cmd.Flags.Float64("max-p", 1, "Only report cells with a p-value at most this")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.DefaultOpts)
		if err != nil {
			return err
		}
		names, err := samples.names(e)
		if err != nil {
			return err
		}
		deps, err := e.InterlocusDependence(names)
		if err != nil {
			return err
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			return w.dependence(deps, *maxP)
		})
	})
	return cmd
}

func newCmdContingency() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "contingency",
		Short: "Export 2x2 chi-square tests of combination carriage between two groups",
	}
	store := addStoreFlags(cmd)
	a := addSampleFlags(cmd, "a", "first group")
	b := addSampleFlags(cmd, "b", "second group")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.DefaultOpts)
		if err != nil {
			return err
		}
		aNames, err := a.names(e)
		if err != nil {
			return err
		}
		bNames, err := b.names(e)
		if err != nil {
			return err
		}
		rows, err := e.ContingencyExport(aNames, bNames)
		if err != nil {
			return err
		}
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			return w.contingency(rows)
		})
	})
	return cmd
}

func newCmdArea() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "area",
		Short: "Report the fraction of the genome x genome square covered by each combination",
	}
	store := addStoreFlags(cmd)
	samples := addSampleFlags(cmd, "samples", "queried")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		ctx := vcontext.Background()
		e, err := store.engine(ctx, twolocus.DefaultOpts)
		if err != nil {
			return err
		}
		names, err := samples.names(e)
		if err != nil {
			return err
		}
		t, grid, err := e.PairwiseFrequencies(names)
		if err != nil {
			return err
		}
		area := e.GenomicArea(t, grid)
		return withOutput(ctx, *store.out, env.Stdout, func(w *output) error {
			return w.area(e.Labels(), t.Combos(), area)
		})
	})
	return cmd
}
