// Package combiner reduces N time-aligned sample streams to one derived
// stream, one scalar per time step.
package combiner

import "github.com/cwbudde/algo-vecmath"

// Combiner reduces a fixed number of synchronized channel buffers sample
// by sample, in place. Exactly Arity channel buffers of at least n samples
// must be passed to Combine. Publish reports which of the N in-place
// outputs carries the combined stream.
type Combiner interface {
	Arity() int
	Combine(data [][]float64, n int)
	Publish(c int) bool
	Reset()
}

// L2Norm combines two horizontal components into their Euclidean norm:
// out[i] = sqrt(a[i]^2 + b[i]^2), written to component 0.
type L2Norm struct{}

func (L2Norm) Arity() int { return 2 }

func (L2Norm) Combine(data [][]float64, n int) {
	vecmath.Magnitude(data[0][:n], data[0][:n], data[1][:n])
}

// Publish reports true for component 0 only; component 1 holds stale
// input after Combine.
func (L2Norm) Publish(c int) bool { return c == 0 }

// Reset is a no-op: the norm is computed per sample without state.
func (L2Norm) Reset() {}
