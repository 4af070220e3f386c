// Package matcher - Hungarian matching of detection predictions to oriented
// ground-truth boxes for one training step.
package matcher

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-matcher/geometry"
)

// Focal classification cost constants. Domain-tuned defaults, kept as named
// constants so matching behavior is reproducible and inspectable.
const (
	// FocalAlpha balances positive against negative class terms.
	FocalAlpha float32 = 0.25
	// FocalGamma down-weights easy (confident) classifications.
	FocalGamma float32 = 2.0
	// FocalEps guards the logarithms against probabilities of exactly 0 or 1.
	FocalEps float32 = 1e-8
)

// ErrNoCostSignal is returned at construction when all three cost weights
// are zero: such a matcher has no discriminating signal.
var ErrNoCostSignal = errors.New("matcher: all cost weights are zero")

// ErrShapeMismatch indicates inconsistent prediction or target shapes, an
// upstream data pipeline bug. The whole call fails; no partial results.
var ErrShapeMismatch = errors.New("matcher: shape mismatch")

// Config carries the construction-time parameters of a matcher. The three
// weights are immutable for the lifetime of the instance.
type Config struct {
	// CostClass weights the focal classification term.
	CostClass float64
	// CostBBox weights the polygon L1 regression term.
	CostBBox float64
	// CostGIoU weights the rotated generalized-IoU term.
	CostGIoU float64
	// Reduction selects mean or sum semantics for the L1 term.
	Reduction geometry.Reduction
	// Workers bounds the per-image solver goroutines. Zero or negative
	// means GOMAXPROCS.
	Workers int
	// Solver overrides the assignment algorithm. Nil selects the exact
	// Hungarian default. Any implementation must be exact and deterministic.
	Solver Solver
}

// DefaultConfig returns the standard matcher configuration: all three cost
// terms weighted 1, mean L1 reduction.
func DefaultConfig() Config {
	return Config{
		CostClass: 1,
		CostBBox:  1,
		CostGIoU:  1,
		Reduction: geometry.ReductionMean,
	}
}

func (c Config) validate() error {
	if c.CostClass == 0 && c.CostBBox == 0 && c.CostGIoU == 0 {
		return ErrNoCostSignal
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
