package matcher

import (
	"github.com/chewxy/math32"

	"github.com/nvr-ai/go-matcher/geometry"
)

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}

// classCost computes the focal-style classification cost of assigning a
// prediction to a target of class `label`:
//
//	pos = alpha * (1-p)^gamma * -log(p + eps)
//	neg = (1-alpha) * p^gamma * -log(1-p + eps)
//	cost = pos - neg
//
// where p is the sigmoid probability of the target class. Confident correct
// predictions drive the cost negative; confident wrong ones make it positive.
func classCost(logits []float32, label int) float32 {
	p := sigmoid(logits[label])
	pos := FocalAlpha * math32.Pow(1-p, FocalGamma) * -math32.Log(p+FocalEps)
	neg := (1 - FocalAlpha) * math32.Pow(p, FocalGamma) * -math32.Log(1-p+FocalEps)
	return pos - neg
}

// pairCost assembles one cost matrix entry from the three weighted terms.
// Degenerate polygons and any non-finite combination clamp to MaxFloat32, so
// a single bad box never aborts the batch; it just becomes the least
// attractive match.
func (m *HungarianMatcher) pairCost(
	logits []float32,
	predBox geometry.OrientedBox,
	predPoly geometry.Polygon,
	label int,
	tgtBox geometry.OrientedBox,
	tgtPoly geometry.Polygon,
) float64 {
	if predPoly.Degenerate() || tgtPoly.Degenerate() {
		return float64(math32.MaxFloat32)
	}

	var c float64
	if m.cfg.CostClass != 0 {
		c += m.cfg.CostClass * float64(classCost(logits, label))
	}
	if m.cfg.CostBBox != 0 {
		c += m.cfg.CostBBox * float64(geometry.PolygonL1(predPoly, tgtPoly, m.cfg.Reduction))
	}
	if m.cfg.CostGIoU != 0 {
		c += m.cfg.CostGIoU * float64(geometry.GIoUCost(predBox, tgtBox))
	}
	if c != c || c > float64(math32.MaxFloat32) {
		return float64(math32.MaxFloat32)
	}
	if c < -float64(math32.MaxFloat32) {
		return -float64(math32.MaxFloat32)
	}
	return c
}
