package stream

import (
	"errors"
	"fmt"
)

// ChannelConfig is the static per-channel configuration resolved by the
// caller: the channel identifier, the calibration gain converting raw
// samples to physical units, and the unit the gain converts to.
type ChannelConfig struct {
	Code     string
	Gain     float64
	GainUnit string
}

// Channel validation errors. A zero gain is reported distinctly from other
// configuration problems: it signals missing calibration data rather than
// a configuration syntax error, and silently accepting it would corrupt
// every derived amplitude.
var (
	ErrArityMismatch      = errors.New("channel count does not match combiner arity")
	ErrEmptyChannelCode   = errors.New("channel code is empty")
	ErrMissingGain        = errors.New("channel gain is missing (zero)")
	ErrGainUnitMismatch   = errors.New("channel gain units differ")
	ErrUnknownChannel     = errors.New("record channel not configured")
	ErrSampleRateMismatch = errors.New("record sample rate differs from stream")
)

// ValidateChannels checks a channel set against the invariants required
// for combination: the expected arity, non-empty codes, non-zero gains and
// a single shared gain unit.
func ValidateChannels(channels []ChannelConfig, arity int) error {
	if len(channels) != arity {
		return fmt.Errorf("%w: got %d channels, want %d", ErrArityMismatch, len(channels), arity)
	}

	for i, ch := range channels {
		if ch.Code == "" {
			return fmt.Errorf("%w: component %d", ErrEmptyChannelCode, i)
		}
		if ch.Gain == 0 {
			return fmt.Errorf("%w: component %d (%s)", ErrMissingGain, i, ch.Code)
		}
	}

	unit := channels[0].GainUnit
	for i := 1; i < len(channels); i++ {
		if channels[i].GainUnit != unit {
			return fmt.Errorf("%w: %s != %s", ErrGainUnitMismatch, unit, channels[i].GainUnit)
		}
	}

	return nil
}
