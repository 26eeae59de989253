package filter

import (
	"fmt"

	"github.com/gempa/seiscomp-programming-templates/dsp/filter/biquad"
)

type iirKind int

const (
	iirLowpass iirKind = iota
	iirHighpass
	iirBandpass
)

func (k iirKind) String() string {
	switch k {
	case iirLowpass:
		return "LP"
	case iirHighpass:
		return "HP"
	case iirBandpass:
		return "BP"
	}
	return "IIR"
}

// IIR is a single biquad lowpass, highpass or bandpass. The corner (or
// center) frequency is fixed by parameters, the coefficients are designed
// once the sampling frequency is known. A corner at or above the Nyquist
// frequency designs zero coefficients, so the filter outputs all zeros;
// callers that need to reject such configurations must check the corner
// against the stream's sampling rate themselves.
type IIR struct {
	kind    iirKind
	freq    float64
	q       float64
	fs      float64
	section *biquad.Section
}

// NewLowpass returns an LP biquad filter at freq with quality q (<=0 picks
// the Butterworth default).
func NewLowpass(freq, q float64) *IIR {
	return &IIR{kind: iirLowpass, freq: freq, q: q}
}

// NewHighpass returns an HP biquad filter at freq with quality q.
func NewHighpass(freq, q float64) *IIR {
	return &IIR{kind: iirHighpass, freq: freq, q: q}
}

// NewBandpass returns a BP biquad filter centered at freq with quality q.
func NewBandpass(freq, q float64) *IIR {
	return &IIR{kind: iirBandpass, freq: freq, q: q}
}

func (f *IIR) SetSamplingFrequency(fs float64) {
	f.fs = fs
	f.design()
}

func (f *IIR) SetParameters(params ...float64) error {
	switch len(params) {
	case 1:
		f.freq = params[0]
		f.q = 0
	case 2:
		f.freq = params[0]
		f.q = params[1]
	default:
		return fmt.Errorf("%w: %s wants 1 or 2 parameters (freq[,q]), got %d",
			ErrBadParameters, f.kind, len(params))
	}
	if f.freq <= 0 {
		return fmt.Errorf("%w: %s corner frequency must be > 0 Hz: %g",
			ErrBadParameters, f.kind, f.freq)
	}
	if f.fs > 0 {
		f.design()
	}
	return nil
}

func (f *IIR) design() {
	var c biquad.Coefficients
	switch f.kind {
	case iirLowpass:
		c = biquad.Lowpass(f.freq, f.q, f.fs)
	case iirHighpass:
		c = biquad.Highpass(f.freq, f.q, f.fs)
	case iirBandpass:
		c = biquad.Bandpass(f.freq, f.q, f.fs)
	}
	f.section = biquad.NewSection(c)
}

// Apply filters buf in place. Before the sampling frequency is set the
// filter passes data through unchanged.
func (f *IIR) Apply(buf []float64) {
	if f.section == nil {
		return
	}
	f.section.ProcessBlock(buf)
}

func (f *IIR) Clone() Filter {
	c := &IIR{kind: f.kind, freq: f.freq, q: f.q, fs: f.fs}
	if f.fs > 0 {
		c.design()
	}
	return c
}

func (f *IIR) Reset() {
	if f.section != nil {
		f.section.Reset()
	}
}
