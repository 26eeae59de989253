package stream_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gempa/seiscomp-programming-templates/dsp/combiner"
	"github.com/gempa/seiscomp-programming-templates/dsp/filter"
	"github.com/gempa/seiscomp-programming-templates/internal/testutil"
	"github.com/gempa/seiscomp-programming-templates/stream"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func twoChannels() []stream.ChannelConfig {
	return []stream.ChannelConfig{
		{Code: "HHN", Gain: 1, GainUnit: "M/S**2"},
		{Code: "HHE", Gain: 1, GainUnit: "M/S**2"},
	}
}

type capture struct {
	start time.Time
	fs    float64
	data  []float64
	set   bool
}

func (c *capture) sink(start time.Time, fs float64, data []float64) {
	if !c.set {
		c.start = start
		c.fs = fs
		c.set = true
	}
	c.data = append(c.data, data...)
}

func feedAll(t *testing.T, op *stream.Operator, recs ...*stream.Record) {
	t.Helper()
	for _, rec := range recs {
		if err := op.Feed(rec); err != nil {
			t.Fatalf("feed %s @%v: %v", rec.ChannelCode, rec.StartTime, err)
		}
	}
}

func TestOperator_CombinesAlignedChannels(t *testing.T) {
	var out capture
	op, err := stream.NewOperator(combiner.L2Norm{}, twoChannels(), stream.WithSink(out.sink))
	if err != nil {
		t.Fatalf("new operator: %v", err)
	}

	n := []float64{0, 3, 0, -3}
	e := []float64{0, 4, 1, 4}
	feedAll(t, op,
		&stream.Record{ChannelCode: "HHN", StartTime: t0, SampleRate: 100, Data: n},
		&stream.Record{ChannelCode: "HHE", StartTime: t0, SampleRate: 100, Data: e},
	)

	testutil.RequireSliceNear(t, out.data, []float64{0, 5, 1, 5}, 1e-12)
	if !out.start.Equal(t0) {
		t.Errorf("combined start: got %v, want %v", out.start, t0)
	}
	if out.fs != 100 {
		t.Errorf("combined fs: got %v, want 100", out.fs)
	}
}

func TestOperator_OutOfOrderEqualsInOrder(t *testing.T) {
	fs := 100.0
	n := testutil.Sine(2, fs, 3, 400)
	e := testutil.Sine(3, fs, 4, 400)

	nRecs := testutil.Records("HHN", t0, fs, n, 100)
	eRecs := testutil.Records("HHE", t0, fs, e, 100)

	var ordered capture
	op1, _ := stream.NewOperator(combiner.L2Norm{}, twoChannels(), stream.WithSink(ordered.sink))
	for i := range nRecs {
		feedAll(t, op1, nRecs[i], eRecs[i])
	}

	// Same data, interleaved and shuffled: one channel lags, the other
	// arrives with a gap that is filled later.
	var shuffled capture
	op2, _ := stream.NewOperator(combiner.L2Norm{}, twoChannels(), stream.WithSink(shuffled.sink))
	feedAll(t, op2,
		nRecs[0], nRecs[2], eRecs[0], eRecs[1], nRecs[1], nRecs[3], eRecs[3], eRecs[2],
	)

	if len(ordered.data) != 400 || len(shuffled.data) != 400 {
		t.Fatalf("combined lengths: ordered %d, shuffled %d, want 400",
			len(ordered.data), len(shuffled.data))
	}
	testutil.RequireSliceNear(t, shuffled.data, ordered.data, 1e-12)
}

func TestOperator_WaitsForLaggingChannel(t *testing.T) {
	var out capture
	op, _ := stream.NewOperator(combiner.L2Norm{}, twoChannels(), stream.WithSink(out.sink))

	feedAll(t, op, &stream.Record{ChannelCode: "HHN", StartTime: t0, SampleRate: 50, Data: []float64{1, 2, 3, 4}})
	if len(out.data) != 0 {
		t.Fatalf("nothing may be forwarded before both channels have data, got %d samples", len(out.data))
	}

	feedAll(t, op, &stream.Record{ChannelCode: "HHE", StartTime: t0, SampleRate: 50, Data: []float64{1, 2}})
	if len(out.data) != 2 {
		t.Fatalf("forwarded %d samples, want 2", len(out.data))
	}
}

func TestOperator_GainCorrection(t *testing.T) {
	channels := []stream.ChannelConfig{
		{Code: "HHN", Gain: 2, GainUnit: "M/S**2"},
		{Code: "HHE", Gain: 4, GainUnit: "M/S**2"},
	}

	var out capture
	op, err := stream.NewOperator(combiner.L2Norm{}, channels, stream.WithSink(out.sink))
	if err != nil {
		t.Fatalf("new operator: %v", err)
	}

	feedAll(t, op,
		&stream.Record{ChannelCode: "HHN", StartTime: t0, SampleRate: 100, Data: []float64{6}},
		&stream.Record{ChannelCode: "HHE", StartTime: t0, SampleRate: 100, Data: []float64{16}},
	)

	// 6/2 = 3, 16/4 = 4 -> norm 5.
	testutil.RequireSliceNear(t, out.data, []float64{5}, 1e-12)
}

func TestOperator_PreFilterPerChannelState(t *testing.T) {
	pre, err := filter.Default().Create("DIFF()")
	if err != nil {
		t.Fatalf("create pre-filter: %v", err)
	}

	var out capture
	op, _ := stream.NewOperator(combiner.L2Norm{}, twoChannels(),
		stream.WithSink(out.sink), stream.WithPreFilter(pre))

	// Each channel's differentiator primes on its own first sample. With
	// shared state the second channel would differentiate against the
	// first channel's samples instead.
	feedAll(t, op,
		&stream.Record{ChannelCode: "HHN", StartTime: t0, SampleRate: 1, Data: []float64{1, 4}},
		&stream.Record{ChannelCode: "HHE", StartTime: t0, SampleRate: 1, Data: []float64{2, 2}},
	)

	testutil.RequireSliceNear(t, out.data, []float64{0, 3}, 1e-12)
}

func TestOperator_ValidationErrors(t *testing.T) {
	cases := []struct {
		name     string
		channels []stream.ChannelConfig
		want     error
	}{
		{
			name: "empty code",
			channels: []stream.ChannelConfig{
				{Code: "", Gain: 1, GainUnit: "M/S**2"},
				{Code: "HHE", Gain: 1, GainUnit: "M/S**2"},
			},
			want: stream.ErrEmptyChannelCode,
		},
		{
			name: "zero gain",
			channels: []stream.ChannelConfig{
				{Code: "HHN", Gain: 0, GainUnit: "M/S**2"},
				{Code: "HHE", Gain: 1, GainUnit: "M/S**2"},
			},
			want: stream.ErrMissingGain,
		},
		{
			name: "unit mismatch",
			channels: []stream.ChannelConfig{
				{Code: "HHN", Gain: 1, GainUnit: "M/S**2"},
				{Code: "HHE", Gain: 1, GainUnit: "M/S"},
			},
			want: stream.ErrGainUnitMismatch,
		},
		{
			name: "arity mismatch",
			channels: []stream.ChannelConfig{
				{Code: "HHZ", Gain: 1, GainUnit: "M/S**2"},
			},
			want: stream.ErrArityMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := stream.NewOperator(combiner.L2Norm{}, tc.channels)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestOperator_FeedErrors(t *testing.T) {
	op, _ := stream.NewOperator(combiner.L2Norm{}, twoChannels())

	err := op.Feed(&stream.Record{ChannelCode: "XXX", StartTime: t0, SampleRate: 100, Data: []float64{1}})
	if !errors.Is(err, stream.ErrUnknownChannel) {
		t.Errorf("unknown channel: got %v", err)
	}

	feedAll(t, op, &stream.Record{ChannelCode: "HHN", StartTime: t0, SampleRate: 100, Data: []float64{1}})
	err = op.Feed(&stream.Record{ChannelCode: "HHE", StartTime: t0, SampleRate: 50, Data: []float64{1}})
	if !errors.Is(err, stream.ErrSampleRateMismatch) {
		t.Errorf("rate mismatch: got %v", err)
	}
}

func TestOperator_Reset(t *testing.T) {
	var out capture
	op, _ := stream.NewOperator(combiner.L2Norm{}, twoChannels(), stream.WithSink(out.sink))

	data := []float64{0, 3, 4}
	feedAll(t, op,
		&stream.Record{ChannelCode: "HHN", StartTime: t0, SampleRate: 100, Data: data},
		&stream.Record{ChannelCode: "HHE", StartTime: t0, SampleRate: 100, Data: data},
	)
	first := append([]float64(nil), out.data...)

	op.Reset()
	out = capture{}

	later := t0.Add(time.Hour)
	feedAll(t, op,
		&stream.Record{ChannelCode: "HHN", StartTime: later, SampleRate: 100, Data: data},
		&stream.Record{ChannelCode: "HHE", StartTime: later, SampleRate: 100, Data: data},
	)

	testutil.RequireSliceNear(t, out.data, first, 1e-12)
	if !out.start.Equal(later) {
		t.Errorf("epoch after reset: got %v, want %v", out.start, later)
	}
}

func TestRecord_EndTime(t *testing.T) {
	rec := &stream.Record{StartTime: t0, SampleRate: 100, Data: make([]float64, 250)}
	want := t0.Add(2500 * time.Millisecond)
	if got := rec.EndTime(); !got.Equal(want) {
		t.Errorf("end time: got %v, want %v", got, want)
	}
	if math.Abs(want.Sub(t0).Seconds()-2.5) > 1e-12 {
		t.Fatal("test setup")
	}
}
