package filter

import (
	"fmt"
	"math"
)

const defaultRMHPWindowSec = 10.0

// RunningMeanHighpass subtracts a running mean from the stream. The mean
// grows over the first windowSec seconds of data and is then updated as a
// fixed-length exponential average, which removes offsets and drifts far
// below the corner 1/windowSec without any settled-state transient.
type RunningMeanHighpass struct {
	windowSec float64
	cap       int

	mean  float64
	count int
}

// NewRunningMeanHighpass returns a running-mean highpass with the given
// averaging window in seconds.
func NewRunningMeanHighpass(windowSec float64) *RunningMeanHighpass {
	if windowSec <= 0 {
		windowSec = defaultRMHPWindowSec
	}
	return &RunningMeanHighpass{windowSec: windowSec}
}

func (f *RunningMeanHighpass) SetSamplingFrequency(fs float64) {
	f.cap = int(math.Round(f.windowSec * fs))
	if f.cap < 1 {
		f.cap = 1
	}
	f.Reset()
}

func (f *RunningMeanHighpass) SetParameters(params ...float64) error {
	if len(params) != 1 {
		return fmt.Errorf("%w: RMHP wants 1 parameter, got %d", ErrBadParameters, len(params))
	}
	if params[0] <= 0 {
		return fmt.Errorf("%w: RMHP window must be > 0 s: %g", ErrBadParameters, params[0])
	}
	f.windowSec = params[0]
	return nil
}

func (f *RunningMeanHighpass) Apply(buf []float64) {
	n := f.cap
	if n < 1 {
		n = 1
	}
	for i, x := range buf {
		if f.count < n {
			f.count++
		}
		f.mean += (x - f.mean) / float64(f.count)
		buf[i] = x - f.mean
	}
}

func (f *RunningMeanHighpass) Clone() Filter {
	return &RunningMeanHighpass{windowSec: f.windowSec, cap: f.cap}
}

func (f *RunningMeanHighpass) Reset() {
	f.mean = 0
	f.count = 0
}
