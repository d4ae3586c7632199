package twolocus

import (
	"github.com/grailbio/twolocus/ancestry"
)

// ContingencyRow is a 2x2 test of whether carrying a combination at a cell
// depends on group membership.
type ContingencyRow struct {
	Loci
	Proximal, Distal Region
	Combo            ancestry.Combo
	ProximalLabel    string
	DistalLabel      string
	// CountA and CountB are the numbers of samples of each group carrying
	// Combo at the cell; SizeA and SizeB are the group sizes.
	CountA, SizeA int
	CountB, SizeB int
	Statistic     float64
	PValue        float64
}

// ContingencyExport compares two groups of samples on their shared grid.
// For every known combination and upper-triangle cell carried by at least
// one sample of each group it tests the table
//
//	[ countA  sizeA-countA ]
//	[ countB  sizeB-countB ]
//
// with Yates' continuity correction.  Cells where either count is zero, or
// where some expected count is zero, are skipped.
func (e *Engine) ContingencyExport(groupA, groupB []string) ([]ContingencyRow, error) {
	if err := e.validate(groupA, groupB); err != nil {
		return nil, err
	}
	aTracks, err := e.tracks(groupA)
	if err != nil {
		return nil, err
	}
	bTracks, err := e.tracks(groupB)
	if err != nil {
		return nil, err
	}
	g := grid(aTracks, bTracks)
	combos := e.ls.Combos(false)
	ta, err := e.build(aTracks, g, combos)
	if err != nil {
		return nil, err
	}
	tb, err := e.build(bTracks, g, combos)
	if err != nil {
		return nil, err
	}
	nA, nB := len(aTracks), len(bTracks)
	var rows []ContingencyRow
	for k, c := range combos {
		for i := 0; i < ta.N(); i++ {
			for j := i; j < ta.N(); j++ {
				a, b := int(ta.AtIndex(k, i, j)), int(tb.AtIndex(k, i, j))
				if a == 0 || b == 0 {
					continue
				}
				x, p, ok := yates2x2(a, nA, b, nB)
				if !ok {
					continue
				}
				row := ContingencyRow{
					Loci:          NewLoci(g, i, j),
					Combo:         c,
					ProximalLabel: e.ls.LabelName(e.ls.Proximal(c)),
					DistalLabel:   e.ls.LabelName(e.ls.Distal(c)),
					CountA:        a,
					SizeA:         nA,
					CountB:        b,
					SizeB:         nB,
					Statistic:     x,
					PValue:        p,
				}
				if row.Proximal, err = e.region(row.ProximalStart, row.ProximalEnd); err != nil {
					return nil, err
				}
				if row.Distal, err = e.region(row.DistalStart, row.DistalEnd); err != nil {
					return nil, err
				}
				rows = append(rows, row)
			}
		}
	}
	return rows, nil
}
