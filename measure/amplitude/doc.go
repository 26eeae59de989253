// Package amplitude extracts one peak amplitude with a signal-to-noise
// quality gate from a multi-channel waveform stream.
//
// A Processor combines two horizontal components into their Euclidean
// norm, optionally filters each channel before and the combined stream
// after combination, and searches a signal window anchored to an external
// trigger time for the sample with the largest deviation from the
// noise-window mean. The result is accepted only if the ratio of the peak
// to the noise-window peak reaches the configured minimum SNR.
//
// # Usage
//
//	p := amplitude.New(trigger, amplitude.WithDistance(120))
//	err := p.Setup(channels, amplitude.Settings{"filter": "RMHP(10)>>HP(0.5)"})
//	// feed records until p.CoversWindows() reports true ...
//	res, err := p.ComputeAmplitude()
//
// A Processor is not safe for concurrent use. Independent instances share
// no state and may run on separate goroutines.
package amplitude
