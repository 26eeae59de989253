// Package testutil provides deterministic waveform generators and
// tolerance helpers shared by the package tests.
package testutil

import (
	"math"
	"time"

	"github.com/gempa/seiscomp-programming-templates/stream"
)

// Sine generates a deterministic sine wave.
func Sine(freqHz, sampleRate, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Constant generates a constant-valued trace.
func Constant(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// SineBurst generates a zero trace of length n with a sine burst inserted
// in [burstStart, burstEnd).
func SineBurst(freqHz, sampleRate, amplitude float64, n, burstStart, burstEnd int) []float64 {
	out := make([]float64, n)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := burstStart; i < burstEnd && i < n; i++ {
		out[i] = amplitude * math.Sin(step*float64(i-burstStart))
	}
	return out
}

// Records splits data into records of at most chunk samples for one
// channel, with consecutive start times.
func Records(code string, start time.Time, fs float64, data []float64, chunk int) []*stream.Record {
	if chunk <= 0 {
		chunk = len(data)
	}

	var recs []*stream.Record
	for off := 0; off < len(data); off += chunk {
		end := off + chunk
		if end > len(data) {
			end = len(data)
		}
		recs = append(recs, &stream.Record{
			ChannelCode: code,
			StartTime:   start.Add(time.Duration(float64(off) / fs * float64(time.Second))),
			SampleRate:  fs,
			Data:        data[off:end],
		})
	}
	return recs
}
