package geometry

import (
	"sort"

	"github.com/chewxy/math32"
)

// AxisIoU returns the intersection over union of two axis-aligned boxes.
// Non-overlapping or zero-area inputs yield 0.
func AxisIoU(a, b AxisBox) float32 {
	ix1 := math32.Max(a.X1, b.X1)
	iy1 := math32.Max(a.Y1, b.Y1)
	ix2 := math32.Min(a.X2, b.X2)
	iy2 := math32.Min(a.Y2, b.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0
	}
	inter := interW * interH

	union := (a.X2-a.X1)*(a.Y2-a.Y1) + (b.X2-b.X1)*(b.Y2-b.Y1) - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// AxisGIoU returns the generalized IoU of two axis-aligned boxes:
// IoU minus the fraction of the smallest enclosing box not covered by the
// union. Lies in (-1, 1]; disjoint boxes go negative.
func AxisGIoU(a, b AxisBox) float32 {
	ix1 := math32.Max(a.X1, b.X1)
	iy1 := math32.Max(a.Y1, b.Y1)
	ix2 := math32.Min(a.X2, b.X2)
	iy2 := math32.Min(a.Y2, b.Y2)

	var inter float32
	if ix2 > ix1 && iy2 > iy1 {
		inter = (ix2 - ix1) * (iy2 - iy1)
	}
	union := (a.X2-a.X1)*(a.Y2-a.Y1) + (b.X2-b.X1)*(b.Y2-b.Y1) - inter
	if union <= 0 {
		return 0
	}

	ex1 := math32.Min(a.X1, b.X1)
	ey1 := math32.Min(a.Y1, b.Y1)
	ex2 := math32.Max(a.X2, b.X2)
	ey2 := math32.Max(a.Y2, b.Y2)
	enclose := (ex2 - ex1) * (ey2 - ey1)
	if enclose <= 0 {
		return 0
	}

	iou := inter / union
	return iou - (enclose-union)/enclose
}

// RotatedIntersection computes the intersection area of two oriented boxes
// by clipping: corners of each box inside the other plus all edge-edge
// intersection points form a convex polygon whose area is the overlap.
func RotatedIntersection(a, b OrientedBox) float32 {
	ca := a.Corners()
	cb := b.Corners()

	pts := make([][2]float32, 0, 16)

	for i := 0; i < 4; i++ {
		x, y := ca[2*i], ca[2*i+1]
		if pointInBox(x, y, cb) {
			pts = append(pts, [2]float32{x, y})
		}
	}
	for i := 0; i < 4; i++ {
		x, y := cb[2*i], cb[2*i+1]
		if pointInBox(x, y, ca) {
			pts = append(pts, [2]float32{x, y})
		}
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			if x, y, ok := edgeIntersection(ca, cb, i, j); ok {
				pts = append(pts, [2]float32{x, y})
			}
		}
	}

	sortConvex(pts)
	return fanArea(pts)
}

// RotatedIoU returns the intersection over union of two oriented boxes,
// 0 when the union is empty.
func RotatedIoU(a, b OrientedBox) float32 {
	inter := RotatedIntersection(a, b)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// RotatedGIoU returns a generalized IoU for oriented boxes. The enclosing
// region is the convex hull of both rotated corner sets:
// GIoU = IoU - (enclose - union) / enclose. The hull of a box with itself is
// the box, so identical boxes score 1 at any angle, and the penalty grows
// with the gap between disjoint boxes. An axis-aligned enclosing box would
// instead tax rotated boxes relative to axis-aligned ones.
func RotatedGIoU(a, b OrientedBox) float32 {
	inter := RotatedIntersection(a, b)
	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	iou := inter / union

	ca := a.Corners()
	cb := b.Corners()
	pts := make([][2]float32, 0, 8)
	for i := 0; i < 4; i++ {
		pts = append(pts, [2]float32{ca[2*i], ca[2*i+1]}, [2]float32{cb[2*i], cb[2*i+1]})
	}
	enclose := hullArea(pts)
	if enclose <= union {
		// Coincident boxes: the hull carries no slack over the union.
		return iou
	}
	return iou - (enclose-union)/enclose
}

// GIoUCost returns 1 - RotatedGIoU as a matching cost. Degenerate inputs
// (zero area, non-finite parameters) clamp to the worst-case cost 1 instead
// of propagating NaN, so a single bad box cannot poison a cost matrix.
func GIoUCost(a, b OrientedBox) float32 {
	if a.Degenerate() || b.Degenerate() {
		return 1
	}
	c := 1 - RotatedGIoU(a, b)
	if math32.IsNaN(c) || math32.IsInf(c, 0) {
		return 1
	}
	return c
}

// boundaryTol is the relative tolerance of the containment test. Rotated
// corner coordinates accumulate rounding of a few float32 ulps, so a corner
// of a box tested against an identical box can project a hair outside the
// edge bounds; exact comparisons would drop it and collapse the overlap of
// coincident boxes to zero.
const boundaryTol float32 = 1e-4

// pointInBox reports whether (x, y) lies inside the rectangle given by its
// corner polygon, boundary included. Projects the point onto the two edges
// adjacent to corner 0 and checks both projections stay within the edge
// lengths, with a tolerance proportional to the squared edge length.
func pointInBox(x, y float32, c Polygon) bool {
	ab0 := c[2] - c[0]
	ab1 := c[3] - c[1]
	ad0 := c[6] - c[0]
	ad1 := c[7] - c[1]
	ap0 := x - c[0]
	ap1 := y - c[1]

	abab := ab0*ab0 + ab1*ab1
	abap := ab0*ap0 + ab1*ap1
	adad := ad0*ad0 + ad1*ad1
	adap := ad0*ap0 + ad1*ap1

	return abap >= -abab*boundaryTol && abap <= abab*(1+boundaryTol) &&
		adap >= -adad*boundaryTol && adap <= adad*(1+boundaryTol)
}

// edgeIntersection intersects edge i of polygon p with edge j of polygon q.
// Edges run from corner k to corner (k+1) mod 4.
func edgeIntersection(p, q Polygon, i, j int) (x, y float32, ok bool) {
	ax, ay := p[2*i], p[2*i+1]
	bx, by := p[2*((i+1)%4)], p[2*((i+1)%4)+1]
	cx, cy := q[2*j], q[2*j+1]
	dx, dy := q[2*((j+1)%4)], q[2*((j+1)%4)+1]

	// Segments cross iff C and D are on opposite sides of AB and A and B are
	// on opposite sides of CD.
	acd := (dy-ay)*(cx-ax) > (cy-ay)*(dx-ax)
	bcd := (dy-by)*(cx-bx) > (cy-by)*(dx-bx)
	if acd == bcd {
		return 0, 0, false
	}
	abc := (cy-ay)*(bx-ax) > (by-ay)*(cx-ax)
	abd := (dy-ay)*(bx-ax) > (by-ay)*(dx-ax)
	if abc == abd {
		return 0, 0, false
	}

	ba0 := bx - ax
	ba1 := by - ay
	dc0 := dx - cx
	dc1 := dy - cy
	abba := ax*by - bx*ay
	cddc := cx*dy - dx*cy
	den := ba1*dc0 - ba0*dc1
	x = (abba*dc0 - ba0*cddc) / den
	y = (abba*dc1 - ba1*cddc) / den
	return x, y, true
}

// sortConvex orders the clip points counter-clockwise around their centroid
// so the triangle-fan area decomposition is valid.
func sortConvex(pts [][2]float32) {
	if len(pts) == 0 {
		return
	}
	var cx, cy float32
	for _, p := range pts {
		cx += p[0]
		cy += p[1]
	}
	cx /= float32(len(pts))
	cy /= float32(len(pts))

	sort.Slice(pts, func(i, j int) bool {
		return angleKey(pts[i], cx, cy) < angleKey(pts[j], cx, cy)
	})
}

// angleKey maps a point to a monotone function of its angle around the
// centroid without calling atan2: normalized x, mirrored for the lower
// half-plane.
func angleKey(p [2]float32, cx, cy float32) float32 {
	vx := p[0] - cx
	vy := p[1] - cy
	d := math32.Sqrt(vx*vx + vy*vy)
	if d == 0 {
		return -2
	}
	vx /= d
	if vy < 0 {
		return -2 - vx
	}
	return vx
}

// hullArea returns the area of the convex hull of the given points via the
// monotone chain construction and the shoelace formula. Collinear point sets
// have zero area.
func hullArea(pts [][2]float32) float32 {
	n := len(pts)
	if n < 3 {
		return 0
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i][0] != pts[j][0] {
			return pts[i][0] < pts[j][0]
		}
		return pts[i][1] < pts[j][1]
	})

	hull := make([][2]float32, 0, 2*n)
	for _, p := range pts {
		for len(hull) >= 2 && hullCross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := n - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && hullCross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return 0
	}

	var sum float32
	for i := range hull {
		j := (i + 1) % len(hull)
		sum += hull[i][0]*hull[j][1] - hull[j][0]*hull[i][1]
	}
	return math32.Abs(sum) / 2
}

func hullCross(o, a, b [2]float32) float32 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// fanArea sums the triangle fan rooted at the first point.
func fanArea(pts [][2]float32) float32 {
	var area float32
	for i := 1; i+1 < len(pts); i++ {
		a, b, c := pts[0], pts[i], pts[i+1]
		area += math32.Abs((a[0]-c[0])*(b[1]-c[1])-(a[1]-c[1])*(b[0]-c[0])) / 2
	}
	return area
}
