package stream

import (
	"fmt"
	"math"
	"time"

	"github.com/cwbudde/algo-vecmath"

	"github.com/gempa/seiscomp-programming-templates/dsp/combiner"
	"github.com/gempa/seiscomp-programming-templates/dsp/core"
	"github.com/gempa/seiscomp-programming-templates/dsp/filter"
)

// Sink receives combined, gain-corrected sample spans in strict time
// order. The data slice is only valid for the duration of the call.
type Sink func(start time.Time, fs float64, data []float64)

// Operator owns the per-channel buffering needed to keep N channels time
// aligned, applies an optional pre-filter per channel, combines aligned
// spans and forwards the published component to the sink.
//
// The operator is single-writer: Feed must not be called concurrently.
type Operator struct {
	comb     combiner.Combiner
	channels []ChannelConfig
	pre      []filter.Filter
	sink     Sink

	fs        float64
	epoch     time.Time
	started   bool
	cursor    int64 // absolute sample index of the next span to forward
	cursorSet bool

	states  []channelState
	scratch [][]float64
}

type segment struct {
	idx  int64
	data []float64
}

type channelState struct {
	hasData  bool
	startIdx int64     // absolute index of buf[0]
	buf      []float64 // contiguous gain-corrected samples
	pending  []segment // out-of-order segments waiting for a gap to fill
}

// OperatorOption configures an Operator.
type OperatorOption func(*Operator)

// WithPreFilter installs a pre-filter prototype. Every channel gets its
// own pristine clone so that filter state never leaks across channels.
func WithPreFilter(f filter.Filter) OperatorOption {
	return func(o *Operator) {
		for i := range o.pre {
			o.pre[i] = f.Clone()
		}
	}
}

// WithSink sets the consumer of the combined stream.
func WithSink(s Sink) OperatorOption {
	return func(o *Operator) { o.sink = s }
}

// NewOperator validates the channel configuration against the combiner
// arity and returns a ready operator. Validation failures are the errors
// of ValidateChannels.
func NewOperator(comb combiner.Combiner, channels []ChannelConfig, opts ...OperatorOption) (*Operator, error) {
	if err := ValidateChannels(channels, comb.Arity()); err != nil {
		return nil, err
	}

	n := comb.Arity()
	o := &Operator{
		comb:     comb,
		channels: channels,
		pre:      make([]filter.Filter, n),
		states:   make([]channelState, n),
		scratch:  make([][]float64, n),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o, nil
}

// SampleRate returns the sampling frequency learned from the first record,
// or 0 before any data arrived.
func (o *Operator) SampleRate() float64 { return o.fs }

// Feed buffers one record. Records may arrive interleaved across channels
// and out of order within a channel; within a channel, samples older than
// the first ones seen are discarded. Combined spans are forwarded to the
// sink as soon as every channel covers them.
func (o *Operator) Feed(rec *Record) error {
	ci := -1
	for i, ch := range o.channels {
		if ch.Code == rec.ChannelCode {
			ci = i
			break
		}
	}
	if ci < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownChannel, rec.ChannelCode)
	}

	if rec.SampleRate <= 0 {
		return fmt.Errorf("record %s: sample rate must be > 0: %g", rec.ChannelCode, rec.SampleRate)
	}

	if !o.started {
		o.fs = rec.SampleRate
		o.epoch = rec.StartTime
		o.started = true
		for _, f := range o.pre {
			if f != nil {
				f.SetSamplingFrequency(o.fs)
			}
		}
	} else if rec.SampleRate != o.fs {
		return fmt.Errorf("%w: %g != %g", ErrSampleRateMismatch, rec.SampleRate, o.fs)
	}

	if len(rec.Data) == 0 {
		return nil
	}

	idx := int64(math.Round(rec.StartTime.Sub(o.epoch).Seconds() * o.fs))

	// Gain correction on ingest: raw counts to physical units.
	data := make([]float64, len(rec.Data))
	vecmath.ScaleBlock(data, rec.Data, 1/o.channels[ci].Gain)

	o.states[ci].insert(segment{idx: idx, data: data})
	o.flush()
	return nil
}

// Reset discards all buffered data and restores pristine filter and
// combiner state. The configuration is kept.
func (o *Operator) Reset() {
	for i := range o.states {
		o.states[i] = channelState{}
	}
	for _, f := range o.pre {
		if f != nil {
			f.Reset()
		}
	}
	o.comb.Reset()
	o.fs = 0
	o.started = false
	o.cursor = 0
	o.cursorSet = false
}

func (cs *channelState) insert(seg segment) {
	if !cs.hasData {
		cs.hasData = true
		cs.startIdx = seg.idx
		cs.buf = append(cs.buf[:0], seg.data...)
	} else {
		end := cs.startIdx + int64(len(cs.buf))
		switch {
		case seg.idx == end:
			cs.buf = append(cs.buf, seg.data...)
		case seg.idx > end:
			cs.pending = append(cs.pending, seg)
		default:
			// Overlaps already-buffered samples: keep only the new tail.
			if skip := end - seg.idx; skip < int64(len(seg.data)) {
				cs.buf = append(cs.buf, seg.data[skip:]...)
			}
		}
	}
	cs.drainPending()
}

func (cs *channelState) drainPending() {
	for {
		merged := false
		for i, seg := range cs.pending {
			end := cs.startIdx + int64(len(cs.buf))
			if seg.idx > end {
				continue
			}
			if skip := end - seg.idx; skip < int64(len(seg.data)) {
				cs.buf = append(cs.buf, seg.data[skip:]...)
			}
			cs.pending = append(cs.pending[:i], cs.pending[i+1:]...)
			merged = true
			break
		}
		if !merged {
			return
		}
	}
}

func (o *Operator) flush() {
	for i := range o.states {
		if !o.states[i].hasData {
			return
		}
	}

	// Alignment starts at the latest channel start: earlier samples on the
	// other channels can never be combined.
	if !o.cursorSet {
		o.cursor = o.states[0].startIdx
		for i := 1; i < len(o.states); i++ {
			if o.states[i].startIdx > o.cursor {
				o.cursor = o.states[i].startIdx
			}
		}
		o.cursorSet = true
	}

	for {
		n := int64(math.MaxInt64)
		for i := range o.states {
			s := &o.states[i]
			if s.startIdx > o.cursor {
				return
			}
			if avail := s.startIdx + int64(len(s.buf)) - o.cursor; avail < n {
				n = avail
			}
		}
		if n <= 0 {
			return
		}
		o.forward(int(n))
	}
}

// forward combines and publishes n aligned samples starting at the cursor.
// Pre-filters run on scratch copies so that every sample is filtered
// exactly once, in time order.
func (o *Operator) forward(n int) {
	start := o.cursor

	for i := range o.states {
		s := &o.states[i]
		off := int(start - s.startIdx)
		o.scratch[i] = core.EnsureLen(o.scratch[i], n)
		copy(o.scratch[i], s.buf[off:off+n])
		if o.pre[i] != nil {
			o.pre[i].Apply(o.scratch[i])
		}
	}

	o.comb.Combine(o.scratch, n)
	o.cursor += int64(n)

	// Drop consumed samples; the sink owns all history it needs.
	for i := range o.states {
		s := &o.states[i]
		consumed := int(o.cursor - s.startIdx)
		s.buf = s.buf[:copy(s.buf, s.buf[consumed:])]
		s.startIdx = o.cursor
	}

	if o.sink == nil {
		return
	}
	for c := range o.comb.Arity() {
		if o.comb.Publish(c) {
			o.sink(o.timeAt(start), o.fs, o.scratch[c][:n])
		}
	}
}

func (o *Operator) timeAt(idx int64) time.Time {
	return o.epoch.Add(time.Duration(float64(idx) / o.fs * float64(time.Second)))
}
