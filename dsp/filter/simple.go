package filter

import "fmt"

// ScaleOffset applies y = x*scale + offset to every sample. It is the
// simplest possible filter and mostly serves as a template for writing
// new ones.
type ScaleOffset struct {
	scale  float64
	offset float64
}

// NewScaleOffset returns a ScaleOffset filter with the given parameters.
func NewScaleOffset(scale, offset float64) *ScaleOffset {
	return &ScaleOffset{scale: scale, offset: offset}
}

func (f *ScaleOffset) SetSamplingFrequency(float64) {}

func (f *ScaleOffset) SetParameters(params ...float64) error {
	if len(params) != 2 {
		return fmt.Errorf("%w: SIMPLE wants 2 parameters, got %d", ErrBadParameters, len(params))
	}
	f.scale = params[0]
	f.offset = params[1]
	return nil
}

func (f *ScaleOffset) Apply(buf []float64) {
	for i, x := range buf {
		buf[i] = x*f.scale + f.offset
	}
}

func (f *ScaleOffset) Clone() Filter {
	return &ScaleOffset{scale: f.scale, offset: f.offset}
}

// Reset is a no-op: the filter is stateless.
func (f *ScaleOffset) Reset() {}
