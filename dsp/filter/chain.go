package filter

import "fmt"

// Chain applies an ordered list of filters in series. It is what ">>" in a
// filter specification builds.
type Chain struct {
	stages []Filter
}

// NewChain returns a chain over the given stages. The chain owns the
// stages; they must not be applied independently afterwards.
func NewChain(stages ...Filter) *Chain {
	return &Chain{stages: stages}
}

func (c *Chain) SetSamplingFrequency(fs float64) {
	for _, s := range c.stages {
		s.SetSamplingFrequency(fs)
	}
}

// SetParameters always fails: a chain is parameterized through its stages.
func (c *Chain) SetParameters(params ...float64) error {
	return fmt.Errorf("%w: a filter chain takes no parameters", ErrBadParameters)
}

func (c *Chain) Apply(buf []float64) {
	for _, s := range c.stages {
		s.Apply(buf)
	}
}

func (c *Chain) Clone() Filter {
	stages := make([]Filter, len(c.stages))
	for i, s := range c.stages {
		stages[i] = s.Clone()
	}
	return &Chain{stages: stages}
}

func (c *Chain) Reset() {
	for _, s := range c.stages {
		s.Reset()
	}
}
