package amplitude

import "time"

// Status classifies the outcome of configuration and computation.
type Status int

const (
	// StatusNone is the status before any setup or computation happened.
	StatusNone Status = iota

	// StatusFinished marks a successfully computed, accepted amplitude.
	StatusFinished

	// StatusConfigurationError covers mismatched gain units and filter
	// specifications that fail to parse or construct.
	StatusConfigurationError

	// StatusMissingGain reports a required channel whose gain is exactly
	// zero: a calibration problem, not a syntax problem.
	StatusMissingGain

	// StatusEmptyChannelCode reports a required channel without an
	// identifying code.
	StatusEmptyChannelCode

	// StatusOperatorNotConfigured reports Feed before a successful Setup.
	StatusOperatorNotConfigured

	// StatusLowSNR reports a computed amplitude rejected by the quality
	// gate. The measured SNR is kept as the status value.
	StatusLowSNR
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "none"
	case StatusFinished:
		return "finished"
	case StatusConfigurationError:
		return "configuration error"
	case StatusMissingGain:
		return "missing gain"
	case StatusEmptyChannelCode:
		return "empty channel code"
	case StatusOperatorNotConfigured:
		return "operator not configured"
	case StatusLowSNR:
		return "low SNR"
	}
	return "unknown"
}

// Result is the outcome of one processing pass. It is immutable after
// creation.
type Result struct {
	// Value is the peak absolute deviation from the noise offset, in the
	// physical unit shared by the input channels.
	Value float64

	// Time is the absolute time of the peak sample.
	Time time.Time

	// Index is the peak position within the combined stream buffer.
	Index int

	// Period is not computed by this pipeline and is always -1.
	Period float64

	// SNR is Value divided by the noise-window peak, or -1 when the noise
	// amplitude is exactly zero ("undefined", distinct from "too low").
	SNR float64

	// Status is StatusFinished or StatusLowSNR.
	Status Status
}
