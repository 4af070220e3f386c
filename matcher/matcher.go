package matcher

import (
	"sync"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-matcher/geometry"
)

// HungarianMatcher assigns a fixed-size set of predictions to a variable-size
// set of ground-truth oriented boxes, one-to-one, minimizing a weighted blend
// of classification, polygon L1 and rotated GIoU costs. It holds no state
// beyond its construction-time configuration; Match is a pure function of its
// inputs.
type HungarianMatcher struct {
	cfg    Config
	solver Solver
}

// NewHungarianMatcher creates a matcher from the given configuration.
// Fails with ErrNoCostSignal when all three cost weights are zero.
func NewHungarianMatcher(cfg Config) (*HungarianMatcher, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	solver := cfg.Solver
	if solver == nil {
		solver = NewHungarianSolver()
	}
	return &HungarianMatcher{cfg: cfg, solver: solver}, nil
}

// Match computes the per-image assignment for one batch.
//
// Every image contributes the same number of predictions Q; target counts
// vary per image and may be zero. The costs of all (prediction, target)
// pairs across the batch are computed in one pass into a (B*Q) x (sum N_i)
// matrix whose columns follow target concatenation order; each image then
// consumes only its own Q x N_i block. Result i holds min(Q, N_i) matched
// pairs with their rotated IoU.
//
// Arguments:
//   - preds: per-image prediction sets, all with equal Q and C.
//   - targets: per-image annotation sets, aligned with preds.
//
// Returns:
//   - One ImageAssignment per image, in batch order.
//   - error on inconsistent shapes; no partial results are returned.
func (m *HungarianMatcher) Match(preds []ImagePredictions, targets []ImageTargets) ([]ImageAssignment, error) {
	q, err := validateShapes(preds, targets)
	if err != nil {
		return nil, err
	}
	b := len(preds)

	// Column offset table: block i spans columns [offsets[i], offsets[i+1]).
	offsets := make([]int, b+1)
	for i, t := range targets {
		offsets[i+1] = offsets[i] + len(t.Labels)
	}
	totalTargets := offsets[b]

	results := make([]ImageAssignment, b)
	if totalTargets == 0 || q == 0 {
		for i := range results {
			results[i] = ImageAssignment{
				PredIndices:   []int{},
				TargetIndices: []int{},
				IoUs:          []float32{},
			}
		}
		return results, nil
	}

	costs, tgtBoxes := m.buildCostMatrix(preds, targets, q, totalTargets)

	// Per-image solves read disjoint blocks and write disjoint slots, so they
	// run concurrently with no shared mutable state.
	solveErrs := make([]error, b)
	sem := make(chan struct{}, m.cfg.workers())
	var wg sync.WaitGroup
	for i := range preds {
		wg.Add(1)
		go func(img int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			n := offsets[img+1] - offsets[img]
			if n == 0 {
				results[img] = ImageAssignment{
					PredIndices:   []int{},
					TargetIndices: []int{},
					IoUs:          []float32{},
				}
				return
			}

			block, err := imageBlock(costs, img, q, offsets[img], n)
			if err != nil {
				solveErrs[img] = err
				return
			}
			rows, cols, err := m.solver.Solve(block)
			if err != nil {
				solveErrs[img] = errors.Wrapf(err, "image %d assignment failed", img)
				return
			}
			results[img] = packageResult(preds[img], tgtBoxes[offsets[img]:offsets[img+1]], rows, cols)
		}(i)
	}
	wg.Wait()

	for _, err := range solveErrs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// buildCostMatrix fills the flattened batch cost matrix and returns it along
// with the concatenated target oriented boxes (reused for IoU re-derivation).
func (m *HungarianMatcher) buildCostMatrix(
	preds []ImagePredictions,
	targets []ImageTargets,
	q, totalTargets int,
) (*tensor.Dense, []geometry.OrientedBox) {
	tgtBoxes := make([]geometry.OrientedBox, 0, totalTargets)
	tgtPolys := make([]geometry.Polygon, 0, totalTargets)
	tgtLabels := make([]int, 0, totalTargets)
	for _, t := range targets {
		for i := range t.Labels {
			tgtBoxes = append(tgtBoxes, t.Boxes[i].Oriented(t.Angles[i]))
			tgtPolys = append(tgtPolys, t.Polys[i])
			tgtLabels = append(tgtLabels, t.Labels[i])
		}
	}

	totalPreds := len(preds) * q
	backing := make([]float64, totalPreds*totalTargets)
	for b, p := range preds {
		for i := 0; i < q; i++ {
			row := (b*q + i) * totalTargets
			for j := 0; j < totalTargets; j++ {
				backing[row+j] = m.pairCost(
					p.Logits[i], p.Boxes[i], p.Polys[i],
					tgtLabels[j], tgtBoxes[j], tgtPolys[j],
				)
			}
		}
	}

	costs := tensor.New(tensor.WithShape(totalPreds, totalTargets), tensor.WithBacking(backing))
	return costs, tgtBoxes
}

// imageBlock slices image img's Q x N cost block out of the batch matrix and
// materializes it as plain rows for the solver.
func imageBlock(costs *tensor.Dense, img, q, colOff, n int) ([][]float64, error) {
	view, err := costs.Slice(tensor.S(img*q, (img+1)*q), tensor.S(colOff, colOff+n))
	if err != nil {
		return nil, errors.Wrapf(err, "slicing cost block for image %d", img)
	}
	dense := view.(*tensor.Dense)

	block := make([][]float64, q)
	for i := 0; i < q; i++ {
		block[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			v, err := dense.At(i, j)
			if err != nil {
				return nil, errors.Wrapf(err, "reading cost block for image %d", img)
			}
			block[i][j] = v.(float64)
		}
	}
	return block, nil
}

// packageResult re-derives the rotated IoU for each matched pair. The solver
// reports costs, not overlaps; downstream consumers want the raw IoU.
func packageResult(p ImagePredictions, tgtBoxes []geometry.OrientedBox, rows, cols []int) ImageAssignment {
	ious := make([]float32, len(rows))
	for k := range rows {
		ious[k] = geometry.RotatedIoU(p.Boxes[rows[k]], tgtBoxes[cols[k]])
	}
	return ImageAssignment{PredIndices: rows, TargetIndices: cols, IoUs: ious}
}

// validateShapes checks batch and per-image shape consistency and returns
// the common prediction count Q.
func validateShapes(preds []ImagePredictions, targets []ImageTargets) (int, error) {
	if len(preds) != len(targets) {
		return 0, errors.Wrapf(ErrShapeMismatch,
			"batch size: %d prediction sets vs %d target sets", len(preds), len(targets))
	}
	if len(preds) == 0 {
		return 0, errors.Wrap(ErrShapeMismatch, "empty batch")
	}

	q := len(preds[0].Logits)
	c := 0
	if q > 0 {
		c = len(preds[0].Logits[0])
	}
	for i, p := range preds {
		if len(p.Logits) != q || len(p.Boxes) != q || len(p.Polys) != q {
			return 0, errors.Wrapf(ErrShapeMismatch,
				"image %d: predictions have %d logit rows, %d boxes, %d polygons (want %d each)",
				i, len(p.Logits), len(p.Boxes), len(p.Polys), q)
		}
		for _, row := range p.Logits {
			if len(row) != c {
				return 0, errors.Wrapf(ErrShapeMismatch,
					"image %d: logit row of length %d, want %d", i, len(row), c)
			}
		}
	}
	for i, t := range targets {
		n := len(t.Labels)
		if len(t.Polys) != n || len(t.Boxes) != n || len(t.Angles) != n {
			return 0, errors.Wrapf(ErrShapeMismatch,
				"image %d: targets have %d labels, %d polygons, %d boxes, %d angles",
				i, n, len(t.Polys), len(t.Boxes), len(t.Angles))
		}
		for j, label := range t.Labels {
			if label < 0 || label >= c {
				return 0, errors.Wrapf(ErrShapeMismatch,
					"image %d: target %d label %d outside [0, %d)", i, j, label, c)
			}
		}
	}
	return q, nil
}
