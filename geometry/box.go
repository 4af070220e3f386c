// Package geometry - Oriented-box and polygon primitives for detection matching.
package geometry

import (
	"github.com/chewxy/math32"
)

// AxisBox is an axis-aligned bounding box in [x1, y1, x2, y2] form.
type AxisBox struct {
	X1, Y1, X2, Y2 float32
}

// CenterBox is an axis-aligned bounding box in [cx, cy, w, h] form, the
// representation ground-truth annotations arrive in.
type CenterBox struct {
	CX, CY, W, H float32
}

// OrientedBox is a rotated rectangle: center, size and rotation angle
// (radians, counter-clockwise).
type OrientedBox struct {
	CX, CY, W, H float32
	Angle        float32
}

// Polygon holds the four corner points of a rotated rectangle as 8 flat
// coordinates [x0, y0, x1, y1, x2, y2, x3, y3]. Point order is whatever the
// producer emitted; no rotation normalization is applied anywhere in this
// package, so both operands of a pairwise operation must use the same order.
type Polygon [8]float32

// Axis converts a center-form box to corner form.
func (b CenterBox) Axis() AxisBox {
	return AxisBox{
		X1: b.CX - b.W/2,
		Y1: b.CY - b.H/2,
		X2: b.CX + b.W/2,
		Y2: b.CY + b.H/2,
	}
}

// Oriented attaches a rotation angle to a center-form box.
func (b CenterBox) Oriented(angle float32) OrientedBox {
	return OrientedBox{CX: b.CX, CY: b.CY, W: b.W, H: b.H, Angle: angle}
}

// Area returns the rectangle area of the box.
func (b OrientedBox) Area() float32 {
	return b.W * b.H
}

// Degenerate reports whether the box cannot produce a meaningful overlap:
// non-positive extent or non-finite parameters.
func (b OrientedBox) Degenerate() bool {
	if b.W <= 0 || b.H <= 0 {
		return true
	}
	for _, v := range [5]float32{b.CX, b.CY, b.W, b.H, b.Angle} {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// Corners returns the four corner points of the rotated rectangle.
//
// The corners are emitted in the fixed order (-w/2,-h/2), (-w/2,+h/2),
// (+w/2,+h/2), (+w/2,-h/2) rotated by the box angle, so that corner 0 is
// adjacent to corners 1 and 3. The intersection routines rely on that
// adjacency when projecting points onto box edges.
func (b OrientedBox) Corners() Polygon {
	cos := math32.Cos(b.Angle)
	sin := math32.Sin(b.Angle)

	xs := [4]float32{-b.W / 2, -b.W / 2, b.W / 2, b.W / 2}
	ys := [4]float32{-b.H / 2, b.H / 2, b.H / 2, -b.H / 2}

	var p Polygon
	for i := 0; i < 4; i++ {
		p[2*i] = cos*xs[i] - sin*ys[i] + b.CX
		p[2*i+1] = sin*xs[i] + cos*ys[i] + b.CY
	}
	return p
}

// Area returns the polygon area via the shoelace formula.
func (p Polygon) Area() float32 {
	var sum float32
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		sum += p[2*i]*p[2*j+1] - p[2*j]*p[2*i+1]
	}
	return math32.Abs(sum) / 2
}

// Degenerate reports whether the polygon has (near-)zero area or non-finite
// coordinates.
func (p Polygon) Degenerate() bool {
	for _, v := range p {
		if math32.IsNaN(v) || math32.IsInf(v, 0) {
			return true
		}
	}
	return p.Area() <= 1e-12
}
