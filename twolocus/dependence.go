package twolocus

import (
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/tensor"
)

// Dependence is the result of a chi-square test of independence between
// the labels at the two loci of a cell.
type Dependence struct {
	Loci
	Statistic float64
	PValue    float64
	DF        int
	// Degenerate is set when there is nothing to test: no sample has known
	// labels at both loci, or fewer than two labels occur at one of them.
	// Statistic is then 0 and PValue 1.
	Degenerate bool
}

// InterlocusDependence tests, for every upper-triangle cell of the grid of
// the named samples, whether the label at the proximal interval is
// independent of the label at the distal interval.
//
// The observed counts are the known combinations at the cell.  The expected
// counts are the outer product of the label frequencies at each locus alone,
// read from the homozygous diagonal cells (i, i) and (j, j), scaled to the
// observed total.  Labels absent at either locus have zero expectation and
// are left out of the test, which lowers its degrees of freedom.
func (e *Engine) InterlocusDependence(names []string) ([]Dependence, error) {
	if err := e.validate(names); err != nil {
		return nil, err
	}
	tracks, err := e.tracks(names)
	if err != nil {
		return nil, err
	}
	g := grid(tracks)
	t, err := e.build(tracks, g, e.ls.Combos(false))
	if err != nil {
		return nil, err
	}
	labels := e.ls.Labels(false)
	n := t.N()
	marginals := make([][]float64, n)
	for i := range marginals {
		marginals[i] = make([]float64, len(labels))
		for p, l := range labels {
			marginals[i][p] = float64(t.At(e.ls.Combine(l, l), i, i))
		}
	}
	rows := make([][]Dependence, n)
	parallelism := e.opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	err = traverse.Limit(parallelism).Each(n, func(i int) error {
		rows[i] = make([]Dependence, 0, n-i)
		for j := i; j < n; j++ {
			d := e.dependence(t, labels, marginals[i], marginals[j], i, j)
			d.Loci = NewLoci(g, i, j)
			rows[i] = append(rows[i], d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	result := make([]Dependence, 0, n*(n+1)/2)
	for _, row := range rows {
		result = append(result, row...)
	}
	return result, nil
}

func (e *Engine) dependence(t *tensor.Tensor, labels []ancestry.Label, rowM, colM []float64, i, j int) Dependence {
	var (
		rowSum, colSum float64
		nRows, nCols   int
	)
	for p := range labels {
		if rowM[p] > 0 {
			rowSum += rowM[p]
			nRows++
		}
		if colM[p] > 0 {
			colSum += colM[p]
			nCols++
		}
	}
	var (
		obs, exp []float64
		observed float64
	)
	for _, pl := range labels {
		for _, dl := range labels {
			observed += float64(t.At(e.ls.Combine(pl, dl), i, j))
		}
	}
	df := (nRows - 1) * (nCols - 1)
	if observed == 0 || df <= 0 {
		return Dependence{PValue: 1, Degenerate: true}
	}
	for p, pl := range labels {
		if rowM[p] == 0 {
			continue
		}
		for d, dl := range labels {
			if colM[d] == 0 {
				continue
			}
			obs = append(obs, float64(t.At(e.ls.Combine(pl, dl), i, j)))
			exp = append(exp, rowM[p]*colM[d]/(rowSum*colSum)*observed)
		}
	}
	x, pv := pearson(obs, exp, df)
	return Dependence{Statistic: x, PValue: pv, DF: df}
}
