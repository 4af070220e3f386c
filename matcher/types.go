package matcher

import "github.com/nvr-ai/go-matcher/geometry"

// ImagePredictions holds one image's fixed-size prediction set. All three
// slices have the same length Q, and every logit row has the same length C.
// The oriented box and the polygon describe the same underlying shape in two
// parallel representations.
type ImagePredictions struct {
	// Logits are raw per-class scores, Q rows of C values. The matcher
	// applies the sigmoid itself.
	Logits [][]float32
	// Boxes are the 5-parameter oriented boxes, one per prediction.
	Boxes []geometry.OrientedBox
	// Polys are the 8-coordinate corner polygons, one per prediction.
	Polys []geometry.Polygon
}

// ImageTargets holds one image's ground-truth annotations. All four slices
// have the same length N, which may be zero. The oriented form of target i
// is Boxes[i] with Angles[i] attached.
type ImageTargets struct {
	// Labels are integer class indices in [0, C).
	Labels []int
	// Polys are the 8-coordinate corner polygons.
	Polys []geometry.Polygon
	// Boxes are the center-form axis boxes.
	Boxes []geometry.CenterBox
	// Angles are the rotation angles, radians.
	Angles []float32
}

// ImageAssignment is the matching result for one image: three aligned
// sequences of length min(Q, N). PredIndices and TargetIndices are each
// pairwise distinct and local to the image (0..Q-1 and 0..N-1).
type ImageAssignment struct {
	// PredIndices are the selected prediction indices, ascending.
	PredIndices []int
	// TargetIndices are the matched target indices, aligned with PredIndices.
	TargetIndices []int
	// IoUs are the rotated IoU values of each matched pair.
	IoUs []float32
}
