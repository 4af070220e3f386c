package geometry

import "github.com/chewxy/math32"

// Reduction selects how the 8 per-coordinate absolute differences of a
// polygon pair collapse into one scalar.
type Reduction int

const (
	// ReductionMean averages the coordinate differences.
	ReductionMean Reduction = iota
	// ReductionSum adds them up.
	ReductionSum
)

// PolygonL1 returns the L1 distance between two corner polygons under the
// given reduction. Non-finite coordinates clamp the result to MaxFloat32 so
// malformed inputs surface as a worst-case cost rather than NaN.
func PolygonL1(a, b Polygon, r Reduction) float32 {
	var sum float32
	for i := range a {
		sum += math32.Abs(a[i] - b[i])
	}
	if math32.IsNaN(sum) || math32.IsInf(sum, 0) {
		return math32.MaxFloat32
	}
	if r == ReductionMean {
		return sum / float32(len(a))
	}
	return sum
}

// PairwiseL1 evaluates PolygonL1 for every (prediction, target) pair.
// Either operand may be empty; the result then has zero rows or zero-length
// rows respectively.
func PairwiseL1(preds, targets []Polygon, r Reduction) [][]float32 {
	out := make([][]float32, len(preds))
	for i, p := range preds {
		row := make([]float32, len(targets))
		for j, t := range targets {
			row[j] = PolygonL1(p, t, r)
		}
		out[i] = row
	}
	return out
}
