package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Errors reported by the registry and by SetParameters implementations.
var (
	ErrUnknownFilter   = errors.New("unknown filter type")
	ErrBadParameters   = errors.New("bad filter parameters")
	errBadSpec         = errors.New("malformed filter specification")
	errDuplicateFilter = errors.New("duplicate filter type")
)

// Factory builds one pristine filter instance.
type Factory func() Filter

// Registry maps filter type names to their factories and builds filters
// from specification strings.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given filter type.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty filter type")
	}
	if factory == nil {
		return errors.New("nil factory")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", errDuplicateFilter, name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic("filter registry: " + err.Error())
	}
}

// Lookup returns the factory for the given filter type, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// Create builds a filter from a specification string such as
// "SIMPLE(2,0.5)" or "RMHP(10)>>HP(0.5)". Multiple stages chained with
// ">>" yield a single Chain filter. The returned filter still needs
// SetSamplingFrequency before use.
func (r *Registry) Create(spec string) (Filter, error) {
	parts := strings.Split(spec, ">>")

	stages := make([]Filter, 0, len(parts))
	for _, part := range parts {
		f, err := r.createStage(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("create filter %q: %w", spec, err)
		}
		stages = append(stages, f)
	}

	if len(stages) == 1 {
		return stages[0], nil
	}
	return NewChain(stages...), nil
}

func (r *Registry) createStage(stage string) (Filter, error) {
	name := stage
	var args string

	if open := strings.IndexByte(stage, '('); open >= 0 {
		if !strings.HasSuffix(stage, ")") {
			return nil, fmt.Errorf("%w: missing ')' in %q", errBadSpec, stage)
		}
		name = stage[:open]
		args = stage[open+1 : len(stage)-1]
	}

	if name == "" {
		return nil, fmt.Errorf("%w: empty stage", errBadSpec)
	}

	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFilter, name)
	}

	params, err := parseParams(args)
	if err != nil {
		return nil, fmt.Errorf("stage %q: %w", stage, err)
	}

	f := factory()
	if err := f.SetParameters(params...); err != nil {
		return nil, err
	}
	return f, nil
}

func parseParams(args string) ([]float64, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return nil, nil
	}

	fields := strings.Split(args, ",")
	params := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %d: %v", errBadSpec, i+1, err)
		}
		params[i] = v
	}
	return params, nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry with the stock filter set:
//
//	SIMPLE(scale,offset)  scale and offset
//	DIFF()                backward difference times fs
//	INT()                 trapezoidal integration
//	RMHP(T)               running-mean highpass over T seconds
//	LP(f[,q])             biquad lowpass
//	HP(f[,q])             biquad highpass
//	BP(f[,q])             biquad bandpass
//
// The registry is built once and must be treated as immutable; callers
// needing custom filters should build their own with NewRegistry.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		r.MustRegister("SIMPLE", func() Filter { return NewScaleOffset(1, 0) })
		r.MustRegister("DIFF", func() Filter { return NewDifferentiate() })
		r.MustRegister("INT", func() Filter { return NewIntegrate() })
		r.MustRegister("RMHP", func() Filter { return NewRunningMeanHighpass(defaultRMHPWindowSec) })
		r.MustRegister("LP", func() Filter { return NewLowpass(1, 0) })
		r.MustRegister("HP", func() Filter { return NewHighpass(1, 0) })
		r.MustRegister("BP", func() Filter { return NewBandpass(1, 0) })
		defaultRegistry = r
	})
	return defaultRegistry
}
