package amplitude

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/gempa/seiscomp-programming-templates/dsp/combiner"
	"github.com/gempa/seiscomp-programming-templates/dsp/core"
	"github.com/gempa/seiscomp-programming-templates/dsp/filter"
	"github.com/gempa/seiscomp-programming-templates/stream"
)

// State is the lifecycle position of a Processor.
type State int

const (
	StateConstructed State = iota
	StateConfigured
	StateAccumulating
	StateComputed
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateConfigured:
		return "configured"
	case StateAccumulating:
		return "accumulating"
	case StateComputed:
		return "computed"
	}
	return "unknown"
}

// Processor lifecycle and contract errors.
var (
	ErrOperatorNotConfigured = errors.New("no operator configured, Setup must precede Feed")
	ErrInsufficientData      = errors.New("buffered data does not cover both windows")
	ErrAlreadyComputed       = errors.New("amplitude already computed")
	ErrLowSNR                = errors.New("SNR below configured minimum")
)

// Processor turns two horizontal-component sample streams into one
// SNR-gated peak amplitude anchored to a trigger time. See the package
// documentation for the full lifecycle.
type Processor struct {
	cfg    Config
	logger *zap.Logger

	trigger time.Time
	state   State

	status      Status
	statusValue float64

	op     *stream.Operator
	post   filter.Filter
	minSNR float64

	buf         []float64
	bufStart    time.Time
	bufStartSet bool
	fs          float64
}

// New returns a processor in the Constructed state. Setup must be called
// before any data is fed.
func New(trigger time.Time, opts ...Option) *Processor {
	cfg := ApplyOptions(opts...)
	return &Processor{
		cfg:     cfg,
		logger:  cfg.Logger,
		trigger: trigger,
		state:   StateConstructed,
		minSNR:  cfg.MinSNR,
	}
}

// State returns the current lifecycle state.
func (p *Processor) State() State { return p.state }

// Status returns the last reported status.
func (p *Processor) Status() Status { return p.status }

// StatusValue returns the diagnostic payload of the last status, e.g. the
// measured SNR for StatusLowSNR.
func (p *Processor) StatusValue() float64 { return p.statusValue }

// TriggerTime returns the trigger anchoring the noise and signal windows.
func (p *Processor) TriggerTime() time.Time { return p.trigger }

// Setup validates the channel configuration and builds the stream
// operator and the optional pre and post filters from the settings. Any
// previously configured operator, filters and accumulated samples are
// discarded first, so Setup also serves as reconfiguration.
func (p *Processor) Setup(channels []stream.ChannelConfig, settings Settings) error {
	p.op = nil
	p.post = nil
	p.buf = nil
	p.bufStartSet = false
	p.fs = 0
	p.state = StateConstructed
	p.setStatus(StatusNone, 0)

	comb := combiner.L2Norm{}

	// Channels are checked before any filter is constructed: a broken
	// channel set must not leave half-built filter state around.
	if err := stream.ValidateChannels(channels, comb.Arity()); err != nil {
		p.setStatus(statusForChannelError(err), 0)
		p.logger.Error("channel validation failed", zap.Error(err))
		return err
	}

	// The effective gate is resolved per Setup: an absent snrMin falls
	// back to the option-supplied threshold instead of a stale override.
	p.minSNR = p.cfg.MinSNR
	if v, ok, err := settings.Float("snrMin"); err != nil {
		p.setStatus(StatusConfigurationError, 0)
		p.logger.Error("invalid snrMin setting", zap.Error(err))
		return err
	} else if ok {
		p.minSNR = v
	}

	opts := []stream.OperatorOption{stream.WithSink(p.accumulate)}

	if spec, ok := settings.String("preFilter"); ok && spec != "" {
		pre, err := p.cfg.Registry.Create(spec)
		if err != nil {
			p.setStatus(StatusConfigurationError, 0)
			p.logger.Error("failed to create pre-filter",
				zap.String("spec", spec), zap.Error(err))
			return err
		}
		opts = append(opts, stream.WithPreFilter(pre))
		p.logger.Debug("pre-filter configured", zap.String("spec", spec))
	}

	op, err := stream.NewOperator(comb, channels, opts...)
	if err != nil {
		p.setStatus(statusForChannelError(err), 0)
		return err
	}

	if spec, ok := settings.String("filter"); ok && spec != "" {
		post, err := p.cfg.Registry.Create(spec)
		if err != nil {
			p.setStatus(StatusConfigurationError, 0)
			p.logger.Error("failed to create filter",
				zap.String("spec", spec), zap.Error(err))
			return err
		}
		p.post = post
		p.logger.Debug("filter configured", zap.String("spec", spec))
	}

	p.op = op
	p.state = StateConfigured
	return nil
}

// Feed forwards one record into the stream operator. Calling Feed before
// a successful Setup is a contract violation reported as
// ErrOperatorNotConfigured; no data is buffered in that case. Computed is
// terminal: Feed after ComputeAmplitude returns ErrAlreadyComputed and
// only a new Setup starts another pass.
func (p *Processor) Feed(rec *stream.Record) error {
	if p.op == nil {
		p.setStatus(StatusOperatorNotConfigured, 0)
		return ErrOperatorNotConfigured
	}
	if p.state == StateComputed {
		return ErrAlreadyComputed
	}
	if err := p.op.Feed(rec); err != nil {
		return err
	}
	p.state = StateAccumulating
	return nil
}

// accumulate is the operator sink: it appends combined spans to the
// stream buffer and runs the post filter over the newly appended region,
// keeping filter state continuous across spans.
func (p *Processor) accumulate(start time.Time, fs float64, data []float64) {
	if !p.bufStartSet {
		p.bufStart = start
		p.bufStartSet = true
		p.fs = fs
		if p.post != nil {
			p.post.SetSamplingFrequency(fs)
		}
	}
	n := len(p.buf)
	p.buf = append(p.buf, data...)
	if p.post != nil {
		p.post.Apply(p.buf[n:])
	}
}

// CoversWindows reports whether the accumulated stream spans both the
// noise and the signal window. There is no "not enough data" status: a
// processor that is never fed enough simply never reaches Computed, and
// callers use this to decide when to compute.
func (p *Processor) CoversWindows() bool {
	_, _, _, _, ok := p.windowIndices()
	return ok
}

// ComputeAmplitude runs the windowed peak search and the SNR gate over
// the accumulated stream. It is terminal: after it returns the processor
// is in the Computed state regardless of acceptance, and only a new Setup
// starts another pass. A rejected result is returned together with
// ErrLowSNR so the caller can still inspect the measured values.
func (p *Processor) ComputeAmplitude() (Result, error) {
	if p.op == nil {
		p.setStatus(StatusOperatorNotConfigured, 0)
		return Result{}, ErrOperatorNotConfigured
	}
	if p.state == StateComputed {
		return Result{}, ErrAlreadyComputed
	}

	i1, i2, si1, si2, ok := p.windowIndices()
	if !ok {
		return Result{}, ErrInsufficientData
	}

	// The offset is the mean of the noise window; both amplitudes are
	// measured as deviation from it.
	offset := stat.Mean(p.buf[i1:i2], nil)
	noiseAmp := core.MaxAbsDeviation(p.buf[i1:i2], offset)

	peak := findAbsMax(p.buf, si1, si2, offset)
	value := math.Abs(p.buf[peak] - offset)

	snr := -1.0
	if noiseAmp != 0 {
		snr = value / noiseAmp
	}

	res := Result{
		Value:  value,
		Time:   p.timeAt(peak),
		Index:  peak,
		Period: -1,
		SNR:    snr,
	}

	p.state = StateComputed

	if snr < p.minSNR {
		res.Status = StatusLowSNR
		p.setStatus(StatusLowSNR, snr)
		p.logger.Debug("amplitude rejected",
			zap.Float64("snr", snr), zap.Float64("snrMin", p.minSNR))
		return res, fmt.Errorf("%w: %g < %g", ErrLowSNR, snr, p.minSNR)
	}

	res.Status = StatusFinished
	p.setStatus(StatusFinished, snr)
	p.logger.Debug("amplitude finished",
		zap.Float64("value", value),
		zap.Float64("snr", snr),
		zap.Time("peak", res.Time))
	return res, nil
}

// windowIndices maps the configured windows onto buffer indices. ok is
// false until the buffer covers both windows completely.
func (p *Processor) windowIndices() (i1, i2, si1, si2 int, ok bool) {
	if !p.bufStartSet || p.fs <= 0 {
		return 0, 0, 0, 0, false
	}

	rel := p.trigger.Sub(p.bufStart).Seconds()
	i1 = int(math.Round((rel + p.cfg.NoiseStart) * p.fs))
	i2 = int(math.Round((rel + p.cfg.NoiseEnd) * p.fs))
	si1 = int(math.Round((rel + p.cfg.SignalStart) * p.fs))
	si2 = int(math.Round((rel + p.cfg.SignalEnd) * p.fs))

	ok = i1 >= 0 && i1 < i2 && i2 <= len(p.buf) &&
		si1 >= 0 && si1 < si2 && si2 <= len(p.buf)
	return i1, i2, si1, si2, ok
}

// findAbsMax returns the index in [lo, hi) with the largest absolute
// deviation from offset. Ties resolve to the earliest index.
func findAbsMax(data []float64, lo, hi int, offset float64) int {
	best := lo
	bestDev := math.Abs(data[lo] - offset)
	for i := lo + 1; i < hi; i++ {
		if d := math.Abs(data[i] - offset); d > bestDev {
			best, bestDev = i, d
		}
	}
	return best
}

func (p *Processor) timeAt(idx int) time.Time {
	return p.bufStart.Add(time.Duration(float64(idx) / p.fs * float64(time.Second)))
}

func (p *Processor) setStatus(s Status, v float64) {
	p.status = s
	p.statusValue = v
}

func statusForChannelError(err error) Status {
	switch {
	case errors.Is(err, stream.ErrMissingGain):
		return StatusMissingGain
	case errors.Is(err, stream.ErrEmptyChannelCode):
		return StatusEmptyChannelCode
	default:
		return StatusConfigurationError
	}
}
