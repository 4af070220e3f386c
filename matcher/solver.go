package matcher

import (
	"sort"

	hungarian "github.com/arthurkushman/go-hungarian"
	"gonum.org/v1/gonum/floats"
)

// Solver computes an exact minimum-cost bipartite matching of a rectangular
// cost matrix. Implementations must be deterministic: the same matrix always
// yields the same pairs, returned sorted by row index. The number of pairs is
// min(rows, cols).
type Solver interface {
	Solve(cost [][]float64) (rows, cols []int, err error)
}

// hungarianSolver adapts the Kuhn-Munkres implementation in
// arthurkushman/go-hungarian, which requires a square matrix. Rectangular
// inputs are padded with a constant; a constant dummy row or column adds the
// same amount to every perfect matching, so the real sub-assignment stays
// optimal. The matrix is also shifted by its minimum first, keeping every
// entry non-negative at selection time.
//
// Matrices with several equal-cost optima get a tie-break perturbation of
// tie*i*(n-1-j) per cell before solving, orders of magnitude below any real
// cost gap. A perturbation linear in i*n+j would be useless here: every
// perfect matching of a square matrix uses all rows and columns, so its sum
// is matching-independent. The product form instead favors, among tied
// optima, the one pairing low rows with low columns (rearrangement
// inequality), uniquely so for constant matrices and duplicated rows or
// columns, independent of the library's internal ordering.
type hungarianSolver struct{}

// NewHungarianSolver returns the default exact assignment solver.
func NewHungarianSolver() Solver {
	return hungarianSolver{}
}

func (hungarianSolver) Solve(cost [][]float64) ([]int, []int, error) {
	nr := len(cost)
	if nr == 0 {
		return []int{}, []int{}, nil
	}
	nc := len(cost[0])
	if nc == 0 {
		return []int{}, []int{}, nil
	}

	flat := make([]float64, 0, nr*nc)
	for _, row := range cost {
		flat = append(flat, row...)
	}
	shift := floats.Min(flat)
	span := floats.Max(flat) - shift

	n := nr
	if nc > n {
		n = nc
	}
	tie := (span*1e-9 + 1e-12) / float64(n*n*n)
	padded := make([][]float64, n)
	for i := range padded {
		padded[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i < nr && j < nc {
				padded[i][j] = cost[i][j] - shift
			}
			padded[i][j] += tie * float64(i) * float64(n-1-j)
		}
	}

	assigned := hungarian.SolveMin(padded)

	rows := make([]int, 0, min(nr, nc))
	for r, m := range assigned {
		if r >= nr || len(m) == 0 {
			continue
		}
		for c := range m {
			if c < nc {
				rows = append(rows, r)
			}
			break
		}
	}
	sort.Ints(rows)

	cols := make([]int, len(rows))
	for i, r := range rows {
		for c := range assigned[r] {
			cols[i] = c
		}
	}
	return rows, cols, nil
}
