// Package filter defines the causal, stateful in-place filter capability
// used by the waveform processing pipeline, together with a registry that
// builds filters from textual specifications.
//
// A filter specification is a name followed by a parenthesised list of
// numeric parameters, and stages can be chained with ">>":
//
//	SIMPLE(2,0.5)
//	RMHP(10)>>HP(0.5)
//
// Filters are stateful: Apply must be called with consecutive spans of one
// sample stream, in time order. Clone returns an independent filter with the
// same parameters and pristine state, which is how one configured prototype
// is fanned out across multiple channels.
//
// # Usage
//
//	f, err := filter.Default().Create("RMHP(10)>>HP(0.5)")
//	if err != nil {
//	    // malformed specification
//	}
//	f.SetSamplingFrequency(100)
//	f.Apply(samples) // in place
package filter
