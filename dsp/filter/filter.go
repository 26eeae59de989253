package filter

// Filter is a causal, stateful, in-place transform over a single sample
// stream. Implementations mutate only their own state; a Filter instance
// must not be shared between streams.
type Filter interface {
	// SetSamplingFrequency fixes the sampling rate of the stream the
	// filter will be applied to. It must be called before Apply and
	// resets any rate-dependent state.
	SetSamplingFrequency(fs float64)

	// SetParameters configures the filter from the numeric parameters of
	// a filter specification string. The parameter count and ranges are
	// filter specific.
	SetParameters(params ...float64) error

	// Apply filters buf in place. Consecutive calls continue the same
	// stream: internal state carries over between spans.
	Apply(buf []float64)

	// Clone returns an independent copy with identical parameters and
	// pristine state.
	Clone() Filter

	// Reset restores pristine state without changing parameters.
	Reset()
}
