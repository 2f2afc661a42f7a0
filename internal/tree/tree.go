// Package tree provides a generic weighted logic tree for sampling among
// alternative models when propagating epistemic uncertainty.
package tree

import (
	"fmt"
	"iter"
	"math"
)

// Branch pairs a model alternative with its weight.
type Branch[T any] struct {
	id     string
	value  T
	weight float64
}

// ID returns the branch identifier.
func (b *Branch[T]) ID() string { return b.id }

// Value returns the model alternative carried by the branch.
func (b *Branch[T]) Value() T { return b.value }

// Weight returns the branch weight, in (0, 1].
func (b *Branch[T]) Weight() float64 { return b.weight }

func (b *Branch[T]) String() string {
	return fmt.Sprintf("%s : %v : %g", b.id, b.value, b.weight)
}

// Branch weights must sum to 1 within this tolerance. Cumulative weights are
// rounded to a fixed precision to suppress floating-point drift.
const (
	weightTolerance = 1e-4
	cumulativeScale = 1e8
)

// LogicTree is an ordered set of weighted branches whose weights sum to 1.
// Build one with a Builder; a built tree is immutable and safe for
// unsynchronized concurrent reads.
type LogicTree[T any] struct {
	branches   []Branch[T]
	cumulative []float64
}

// Builder accumulates branches for a LogicTree. A Builder is single-use:
// calling Build a second time is an error.
type Builder[T any] struct {
	err      error
	built    bool
	branches []Branch[T]
}

// NewBuilder returns an empty logic tree builder.
func NewBuilder[T any]() *Builder[T] {
	return &Builder[T]{}
}

// Add appends a branch. The id must be non-empty and the weight in (0, 1];
// a violation is reported by Build.
func (b *Builder[T]) Add(id string, value T, weight float64) *Builder[T] {
	if b.err == nil {
		if id == "" {
			b.err = fmt.Errorf("branch %d: id must not be empty", len(b.branches))
		} else if weight <= 0 || weight > 1 {
			b.err = fmt.Errorf("branch %q: weight must be in (0, 1], got %g", id, weight)
		}
	}
	b.branches = append(b.branches, Branch[T]{id: id, value: value, weight: weight})
	return b
}

// Build validates the accumulated branches, freezes the cumulative weight
// array, and returns the tree. The builder cannot be reused.
func (b *Builder[T]) Build() (*LogicTree[T], error) {
	if b.built {
		return nil, fmt.Errorf("logic tree builder has already been used")
	}
	b.built = true
	if b.err != nil {
		return nil, b.err
	}
	if len(b.branches) == 0 {
		return nil, fmt.Errorf("logic tree must have at least one branch")
	}

	var sum float64
	for i := range b.branches {
		sum += b.branches[i].weight
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("branch weights must sum to 1, got %g", sum)
	}

	cumulative := make([]float64, len(b.branches))
	var cum float64
	for i := range b.branches {
		cum += b.branches[i].weight
		cumulative[i] = math.Round(cum*cumulativeScale) / cumulativeScale
	}

	tree := &LogicTree[T]{branches: b.branches, cumulative: cumulative}
	b.branches = nil
	return tree, nil
}

// Sample returns the branch selected by probability p, expected in [0, 1): a
// linear scan for the first branch whose cumulative weight exceeds p, so a p
// exactly on a branch boundary resolves to the following branch. Out-of-range
// values are not rejected; they resolve to the first or last branch. The scan
// is O(branches), which stays cheap at typical branch counts.
func (t *LogicTree[T]) Sample(p float64) *Branch[T] {
	for i := range t.cumulative {
		if p < t.cumulative[i] {
			return &t.branches[i]
		}
	}
	return &t.branches[len(t.branches)-1]
}

// SampleAll returns one branch per supplied probability, in order.
func (t *LogicTree[T]) SampleAll(ps []float64) []*Branch[T] {
	samples := make([]*Branch[T], len(ps))
	for i, p := range ps {
		samples[i] = t.Sample(p)
	}
	return samples
}

// Size returns the number of branches.
func (t *LogicTree[T]) Size() int { return len(t.branches) }

// All iterates the branches in insertion order.
func (t *LogicTree[T]) All() iter.Seq[*Branch[T]] {
	return func(yield func(*Branch[T]) bool) {
		for i := range t.branches {
			if !yield(&t.branches[i]) {
				return
			}
		}
	}
}
