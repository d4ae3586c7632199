package twolocus

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// pearson returns Pearson's chi-square statistic for the observed and
// expected counts, and its upper-tail probability with df degrees of
// freedom.  Categories must have positive expectation.
func pearson(obs, exp []float64, df int) (x, p float64) {
	x = stat.ChiSquare(obs, exp)
	p = distuv.ChiSquared{K: float64(df)}.Survival(x)
	if math.IsNaN(p) {
		p = 1
	}
	return x, p
}

// yates2x2 tests independence in the 2x2 table
//
//	[ a  nA-a ]
//	[ b  nB-b ]
//
// with Yates' continuity correction: each observed count is moved toward its
// expectation by at most one half.  ok is false if some expected count is
// zero, in which case there is no test.
func yates2x2(a, nA, b, nB int) (x, p float64, ok bool) {
	obs := []float64{float64(a), float64(nA - a), float64(b), float64(nB - b)}
	total := float64(nA + nB)
	if total == 0 {
		return 0, 1, false
	}
	rows := []float64{float64(nA), float64(nB)}
	cols := []float64{float64(a + b), total - float64(a+b)}
	exp := make([]float64, 4)
	for r := range rows {
		for c := range cols {
			e := rows[r] * cols[c] / total
			if e == 0 {
				return 0, 1, false
			}
			exp[2*r+c] = e
		}
	}
	for i := range obs {
		diff := exp[i] - obs[i]
		obs[i] += math.Copysign(math.Min(0.5, math.Abs(diff)), diff)
	}
	x, p = pearson(obs, exp, 1)
	return x, p, true
}
