package amplitude

import (
	"math"

	"go.uber.org/zap"

	"github.com/gempa/seiscomp-programming-templates/dsp/filter"
)

// Defaults mirror the PGA template: noise [-10, -2) s and signal
// [-2, max(150, R/3.5)) s relative to the trigger time.
const (
	defaultNoiseStart  = -10.0
	defaultNoiseEnd    = -2.0
	defaultSignalStart = -2.0
	defaultMinSNR      = 3.0
)

// Config defines the processor configuration. Window bounds are seconds
// relative to the trigger time, [start, end).
type Config struct {
	NoiseStart  float64
	NoiseEnd    float64
	SignalStart float64
	SignalEnd   float64

	// MinSNR is the quality gate. The gate is the plain numeric test
	// snr < MinSNR, which also applies to the -1 "undefined" sentinel:
	// with any MinSNR > -1 a zero-noise result is rejected.
	MinSNR float64

	Registry *filter.Registry
	Logger   *zap.Logger
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the PGA template defaults with the stock filter
// registry and a no-op logger.
func DefaultConfig() Config {
	return Config{
		NoiseStart:  defaultNoiseStart,
		NoiseEnd:    defaultNoiseEnd,
		SignalStart: defaultSignalStart,
		SignalEnd:   SignalEndFor(0),
		MinSNR:      defaultMinSNR,
		Registry:    filter.Default(),
		Logger:      zap.NewNop(),
	}
}

// SignalEndFor returns the signal window end in seconds after the trigger
// for an event at the given distance in km: max(150, R/3.5).
func SignalEndFor(distanceKm float64) float64 {
	return math.Max(150, distanceKm/3.5)
}

// WithNoiseWindow sets the noise window [start, end) in seconds relative
// to the trigger time.
func WithNoiseWindow(start, end float64) Option {
	return func(cfg *Config) {
		cfg.NoiseStart = start
		cfg.NoiseEnd = end
	}
}

// WithSignalWindow sets the signal window [start, end) in seconds relative
// to the trigger time.
func WithSignalWindow(start, end float64) Option {
	return func(cfg *Config) {
		cfg.SignalStart = start
		cfg.SignalEnd = end
	}
}

// WithDistance derives the signal window end from the event distance in
// km via SignalEndFor.
func WithDistance(distanceKm float64) Option {
	return func(cfg *Config) {
		cfg.SignalEnd = SignalEndFor(distanceKm)
	}
}

// WithMinSNR sets the minimum accepted signal-to-noise ratio.
func WithMinSNR(minSNR float64) Option {
	return func(cfg *Config) {
		cfg.MinSNR = minSNR
	}
}

// WithRegistry replaces the filter registry used to build pre and post
// filters from specification strings.
func WithRegistry(r *filter.Registry) Option {
	return func(cfg *Config) {
		if r != nil {
			cfg.Registry = r
		}
	}
}

// WithLogger installs a diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *Config) {
		if l != nil {
			cfg.Logger = l
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
