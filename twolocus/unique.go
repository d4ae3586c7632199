package twolocus

import (
	"github.com/grailbio/twolocus/tensor"
)

// UniqueCombinations reports the cells whose combination is carried by the
// foreground and by no background sample.  With UniqueAll (the default)
// every foreground sample must carry the combination; with UniqueAny one
// is enough.  Cells are ordered by combination, then row, then column.
func (e *Engine) UniqueCombinations(background, foreground []string) ([]Cell, error) {
	if err := e.validate(background, foreground); err != nil {
		return nil, err
	}
	if err := nonEmpty("foreground", foreground); err != nil {
		return nil, err
	}
	bgTracks, err := e.tracks(background)
	if err != nil {
		return nil, err
	}
	fgTracks, err := e.tracks(foreground)
	if err != nil {
		return nil, err
	}
	g := grid(bgTracks, fgTracks)
	combos := e.combos()
	bg, err := e.build(bgTracks, g, combos)
	if err != nil {
		return nil, err
	}
	fg, err := e.build(fgTracks, g, combos)
	if err != nil {
		return nil, err
	}
	want := uint32(len(fgTracks))
	keep := func(n uint32) bool { return n == want }
	if e.opts.UniqueMode == UniqueAny {
		keep = func(n uint32) bool { return n > 0 }
	}
	return e.cells(g, fg, bg, keep), nil
}

// cells lists the upper-triangle cells where keep(fg count) holds and the
// background count is zero.
func (e *Engine) cells(g []int64, fg, bg *tensor.Tensor, keep func(uint32) bool) []Cell {
	var cells []Cell
	for k, c := range fg.Combos() {
		for i := 0; i < fg.N(); i++ {
			for j := i; j < fg.N(); j++ {
				if n := fg.AtIndex(k, i, j); n > 0 && keep(n) && bg.AtIndex(k, i, j) == 0 {
					cells = append(cells, e.newCell(g, c, i, j))
				}
			}
		}
	}
	return cells
}

// AbsentFromBackground reports, for each foreground sample separately, the
// cells where the sample carries a combination that no background sample
// carries.  Each sample is compared on the grid of the background plus that
// sample alone.
func (e *Engine) AbsentFromBackground(background, foreground []string) (map[string][]Cell, error) {
	if err := e.validate(background, foreground); err != nil {
		return nil, err
	}
	bgTracks, err := e.tracks(background)
	if err != nil {
		return nil, err
	}
	combos := e.combos()
	result := make(map[string][]Cell, len(foreground))
	for _, name := range foreground {
		if _, ok := result[name]; ok {
			continue
		}
		fgTracks, err := e.tracks([]string{name})
		if err != nil {
			return nil, err
		}
		g := grid(bgTracks, fgTracks)
		bg, err := e.build(bgTracks, g, combos)
		if err != nil {
			return nil, err
		}
		fg, err := e.build(fgTracks, g, combos)
		if err != nil {
			return nil, err
		}
		result[name] = e.cells(g, fg, bg, func(uint32) bool { return true })
	}
	return result, nil
}
