package twolocus

import (
	"github.com/grailbio/twolocus/ancestry"
	"github.com/grailbio/twolocus/interval"
	"github.com/grailbio/twolocus/tensor"
)

// GenomicArea returns, for each combination of t, the fraction of the
// genome x genome square covered by cells where at least one sample
// carries it.  t must be indexed by grid.  A cell (i, j) with i < j also
// stands for its mirror (j, i); for a homozygous combination the mirror
// carries the same combination, so its off-diagonal cells count twice.
func (e *Engine) GenomicArea(t *tensor.Tensor, grid []int64) map[ancestry.Combo]float64 {
	const mb = 1e6
	total := float64(e.g.Total()) / mb
	denom := total * total
	widths := make([]float64, len(grid))
	for i := range grid {
		start, end := interval.Bounds(grid, i)
		widths[i] = float64(end-start) / mb
	}
	area := make(map[ancestry.Combo]float64, len(t.Combos()))
	for k, c := range t.Combos() {
		homozygous := e.ls.IsHomozygous(c)
		var sum float64
		for i := 0; i < t.N(); i++ {
			for j := i; j < t.N(); j++ {
				if t.AtIndex(k, i, j) == 0 {
					continue
				}
				a := widths[i] * widths[j]
				if homozygous && i != j {
					a *= 2
				}
				sum += a
			}
		}
		area[c] = sum / denom
	}
	return area
}
