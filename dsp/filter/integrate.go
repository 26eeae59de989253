package filter

import "fmt"

// Integrate accumulates the trapezoidal running integral of the stream,
// scaled by the sampling interval: y[n] = y[n-1] + (x[n-1] + x[n]) / (2*fs).
// Integration starts from zero at the first sample.
type Integrate struct {
	fs     float64
	acc    float64
	prev   float64
	primed bool
}

// NewIntegrate returns an integrator with zero accumulated area.
func NewIntegrate() *Integrate {
	return &Integrate{}
}

func (f *Integrate) SetSamplingFrequency(fs float64) {
	f.fs = fs
	f.Reset()
}

func (f *Integrate) SetParameters(params ...float64) error {
	if len(params) != 0 {
		return fmt.Errorf("%w: INT wants no parameters, got %d", ErrBadParameters, len(params))
	}
	return nil
}

func (f *Integrate) Apply(buf []float64) {
	dt := 0.0
	if f.fs > 0 {
		dt = 1 / f.fs
	}
	for i, x := range buf {
		if !f.primed {
			f.prev = x
			f.primed = true
			buf[i] = 0
			continue
		}
		f.acc += (f.prev + x) / 2 * dt
		f.prev = x
		buf[i] = f.acc
	}
}

func (f *Integrate) Clone() Filter {
	return &Integrate{fs: f.fs}
}

func (f *Integrate) Reset() {
	f.acc = 0
	f.prev = 0
	f.primed = false
}
