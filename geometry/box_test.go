package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenterBoxAxis(t *testing.T) {
	b := CenterBox{CX: 10, CY: 20, W: 4, H: 6}
	axis := b.Axis()
	assert.Equal(t, AxisBox{X1: 8, Y1: 17, X2: 12, Y2: 23}, axis)
}

func TestCenterBoxOriented(t *testing.T) {
	b := CenterBox{CX: 1, CY: 2, W: 3, H: 4}
	ob := b.Oriented(0.5)
	assert.Equal(t, OrientedBox{CX: 1, CY: 2, W: 3, H: 4, Angle: 0.5}, ob)
}

func TestCornersUnrotated(t *testing.T) {
	b := OrientedBox{CX: 0, CY: 0, W: 2, H: 2}
	p := b.Corners()
	expected := Polygon{-1, -1, -1, 1, 1, 1, 1, -1}
	for i := range p {
		assert.InDelta(t, expected[i], p[i], 1e-6, "corner coordinate %d", i)
	}
}

func TestCornersPreserveArea(t *testing.T) {
	angles := []float32{0, 0.3, math.Pi / 4, math.Pi / 2, 1.9}
	for _, a := range angles {
		b := OrientedBox{CX: 3, CY: -7, W: 5, H: 2, Angle: a}
		assert.InDelta(t, float64(b.Area()), float64(b.Corners().Area()), 1e-3,
			"rotation by %v must not change the corner polygon area", a)
	}
}

func TestDegenerateBoxes(t *testing.T) {
	tests := []struct {
		name string
		box  OrientedBox
		want bool
	}{
		{name: "valid", box: OrientedBox{W: 1, H: 1}, want: false},
		{name: "zero width", box: OrientedBox{W: 0, H: 1}, want: true},
		{name: "negative height", box: OrientedBox{W: 1, H: -2}, want: true},
		{name: "NaN center", box: OrientedBox{CX: float32(math.NaN()), W: 1, H: 1}, want: true},
		{name: "infinite angle", box: OrientedBox{W: 1, H: 1, Angle: float32(math.Inf(1))}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.box.Degenerate())
		})
	}
}

func TestPolygonDegenerate(t *testing.T) {
	var zero Polygon
	assert.True(t, zero.Degenerate(), "all-zero polygon has no area")

	square := OrientedBox{W: 2, H: 2}.Corners()
	assert.False(t, square.Degenerate())
}
