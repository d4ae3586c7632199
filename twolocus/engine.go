package twolocus

import (
	"fmt"

	"github.com/antzucaro/matchr"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/genome"
	"github.com/grailbio/twolocus/interval"
	"github.com/grailbio/twolocus/tensor"
	"github.com/grailbio/twolocus/track"
)

// UniqueMode selects which foreground cells UniqueCombinations reports.
type UniqueMode int

const (
	// UniqueAll reports cells where every foreground sample carries the
	// combination.
	UniqueAll UniqueMode = iota
	// UniqueAny reports cells where at least one foreground sample carries
	// the combination.
	UniqueAny
)

// Opts configures an Engine.
type Opts struct {
	// Parallelism is passed to tensor.Build, and bounds the number of grid
	// rows tested concurrently by InterlocusDependence.
	Parallelism int
	// UniqueMode selects the foreground rule of UniqueCombinations.
	UniqueMode UniqueMode
	// IncludeUnknown makes PairwiseFrequencies, UniqueCombinations and
	// AbsentFromBackground also count combinations involving the unknown
	// label.
	IncludeUnknown bool
}

// DefaultOpts are the default Opts.
var DefaultOpts = Opts{Parallelism: 1, UniqueMode: UniqueAll}

// Engine runs queries against a track store.  It holds no per-query state
// and is safe for concurrent use as long as the store is.
type Engine struct {
	g     *genome.Genome
	ls    *ancestry.LabelSet
	store track.Store
	opts  Opts
}

// New creates an Engine.
func New(g *genome.Genome, ls *ancestry.LabelSet, store track.Store, opts Opts) *Engine {
	return &Engine{g: g, ls: ls, store: store, opts: opts}
}

// Genome returns the coordinate system of the engine.
func (e *Engine) Genome() *genome.Genome { return e.g }

// Labels returns the label set of the engine.
func (e *Engine) Labels() *ancestry.LabelSet { return e.ls }

// IsAvailable reports whether the named sample can be queried.
func (e *Engine) IsAvailable(name string) bool { return e.store.Contains(name) }

// ListAvailable lists the samples that can be queried, in sorted order.
func (e *Engine) ListAvailable() []string { return e.store.Names() }

// Loci identifies an upper-triangle cell of an elementary grid: the
// proximal interval Row, (ProximalStart, ProximalEnd], and the distal
// interval Col, (DistalStart, DistalEnd], in genome coordinates.
type Loci struct {
	Row, Col                   int
	ProximalStart, ProximalEnd int64
	DistalStart, DistalEnd     int64
}

// NewLoci returns the cell (i, j) of grid.
func NewLoci(grid []int64, i, j int) Loci {
	l := Loci{Row: i, Col: j}
	l.ProximalStart, l.ProximalEnd = interval.Bounds(grid, i)
	l.DistalStart, l.DistalEnd = interval.Bounds(grid, j)
	return l
}

// Cell is a combination carried at a pair of loci.
type Cell struct {
	Loci
	Combo ancestry.Combo
	// Name is the display name of Combo, e.g. "dom :: mus".
	Name string
}

func (e *Engine) newCell(grid []int64, c ancestry.Combo, i, j int) Cell {
	return Cell{Loci: NewLoci(grid, i, j), Combo: c, Name: e.ls.ComboName(c)}
}

// sampleNotFound builds the error for an unknown sample name, suggesting
// the closest available name.
func (e *Engine) sampleNotFound(name string) error {
	best, bestDist := "", -1
	for _, cand := range e.store.Names() {
		if d := matchr.Levenshtein(name, cand); bestDist < 0 || d < bestDist {
			best, bestDist = cand, d
		}
	}
	maxDist := len(name) / 3
	if maxDist < 2 {
		maxDist = 2
	}
	if bestDist >= 0 && bestDist <= maxDist {
		return errors.E(errors.NotExist, fmt.Sprintf("sample not found: %q (did you mean %q?)", name, best))
	}
	return errors.E(errors.NotExist, fmt.Sprintf("sample not found: %q", name))
}

// validate checks that every name in every set is available.
func (e *Engine) validate(sets ...[]string) error {
	for _, names := range sets {
		for _, name := range names {
			if !e.store.Contains(name) {
				return e.sampleNotFound(name)
			}
		}
	}
	return nil
}

// tracks resolves names to tracks, dropping repeated names.
func (e *Engine) tracks(names []string) ([]*track.Track, error) {
	seen := make(map[string]bool, len(names))
	tracks := make([]*track.Track, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		t, err := e.store.Get(name)
		if err != nil {
			if errors.Is(errors.NotExist, err) {
				return nil, e.sampleNotFound(name)
			}
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

func nonEmpty(what string, names []string) error {
	if len(names) == 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("twolocus: empty %s sample set", what))
	}
	return nil
}

// grid merges the interval ends of all the given track sets.
func grid(sets ...[]*track.Track) []int64 {
	var lists [][]int64
	for _, tracks := range sets {
		for _, t := range tracks {
			lists = append(lists, t.Ends)
		}
	}
	g := interval.ElementaryIntervals(lists)
	log.Debug.Printf("twolocus: %d tracks, %d elementary intervals", len(lists), len(g))
	return g
}

func (e *Engine) combos() []ancestry.Combo {
	return e.ls.Combos(e.opts.IncludeUnknown)
}

func (e *Engine) build(tracks []*track.Track, grid []int64, combos []ancestry.Combo) (*tensor.Tensor, error) {
	return tensor.Build(tracks, grid, combos, e.ls, tensor.Opts{Parallelism: e.opts.Parallelism})
}

// PairwiseFrequencies counts, for every pair of elementary intervals of the
// named samples, how many samples carry each combination.  It returns the
// tensor and the elementary grid it is indexed by.
func (e *Engine) PairwiseFrequencies(names []string) (*tensor.Tensor, []int64, error) {
	if err := e.validate(names); err != nil {
		return nil, nil, err
	}
	tracks, err := e.tracks(names)
	if err != nil {
		return nil, nil, err
	}
	g := grid(tracks)
	t, err := e.build(tracks, g, e.combos())
	if err != nil {
		return nil, nil, err
	}
	return t, g, nil
}
