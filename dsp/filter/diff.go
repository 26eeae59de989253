package filter

import "fmt"

// Differentiate is a first-order backward difference scaled by the
// sampling frequency: y[n] = (x[n] - x[n-1]) * fs. The first processed
// sample primes the delay and yields 0.
type Differentiate struct {
	fs     float64
	prev   float64
	primed bool
}

// NewDifferentiate returns an unprimed differentiator.
func NewDifferentiate() *Differentiate {
	return &Differentiate{}
}

func (f *Differentiate) SetSamplingFrequency(fs float64) {
	f.fs = fs
	f.Reset()
}

func (f *Differentiate) SetParameters(params ...float64) error {
	if len(params) != 0 {
		return fmt.Errorf("%w: DIFF wants no parameters, got %d", ErrBadParameters, len(params))
	}
	return nil
}

func (f *Differentiate) Apply(buf []float64) {
	for i, x := range buf {
		if !f.primed {
			f.prev = x
			f.primed = true
			buf[i] = 0
			continue
		}
		buf[i] = (x - f.prev) * f.fs
		f.prev = x
	}
}

func (f *Differentiate) Clone() Filter {
	return &Differentiate{fs: f.fs}
}

func (f *Differentiate) Reset() {
	f.prev = 0
	f.primed = false
}
