package geometry

import (
	"math"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonL1(t *testing.T) {
	a := Polygon{0, 0, 0, 1, 1, 1, 1, 0}
	b := Polygon{1, 0, 1, 1, 2, 1, 2, 0}

	// Every x coordinate differs by 1, every y by 0.
	assert.InDelta(t, 0.5, PolygonL1(a, b, ReductionMean), 1e-6)
	assert.InDelta(t, 4.0, PolygonL1(a, b, ReductionSum), 1e-6)
	assert.Equal(t, float32(0), PolygonL1(a, a, ReductionMean))
}

func TestPolygonL1NonFinite(t *testing.T) {
	a := Polygon{float32(math.NaN()), 0, 0, 0, 0, 0, 0, 0}
	var b Polygon
	assert.Equal(t, float32(math32.MaxFloat32), PolygonL1(a, b, ReductionMean),
		"NaN coordinates clamp to the worst-case cost")

	a[0] = float32(math.Inf(1))
	assert.Equal(t, float32(math32.MaxFloat32), PolygonL1(a, b, ReductionSum))
}

func TestPairwiseL1(t *testing.T) {
	preds := []Polygon{
		{0, 0, 0, 1, 1, 1, 1, 0},
		{2, 0, 2, 1, 3, 1, 3, 0},
	}
	targets := []Polygon{
		{0, 0, 0, 1, 1, 1, 1, 0},
	}

	m := PairwiseL1(preds, targets, ReductionMean)
	require.Len(t, m, 2)
	require.Len(t, m[0], 1)
	assert.Equal(t, float32(0), m[0][0])
	assert.InDelta(t, 1.0, m[1][0], 1e-6)
}

func TestPairwiseL1Empty(t *testing.T) {
	preds := []Polygon{{0, 0, 0, 1, 1, 1, 1, 0}}

	m := PairwiseL1(preds, nil, ReductionMean)
	require.Len(t, m, 1)
	assert.Empty(t, m[0], "zero targets yield zero-width rows")

	m = PairwiseL1(nil, preds, ReductionSum)
	assert.Empty(t, m, "zero predictions yield zero rows")
}
