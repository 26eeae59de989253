// Package stream aligns multi-channel waveform records and feeds the
// combined stream to a consumer. Records for different channels may arrive
// interleaved, out of order or with gaps; combined samples are forwarded
// only once every configured channel has data for the same absolute time
// range, and always in strict time order.
package stream

import "time"

// Record is one batch of contiguous samples for a single channel.
type Record struct {
	ChannelCode string
	StartTime   time.Time
	SampleRate  float64
	Data        []float64
}

// EndTime returns the time of the sample following the last one in the
// record.
func (r *Record) EndTime() time.Time {
	if r.SampleRate <= 0 {
		return r.StartTime
	}
	d := float64(len(r.Data)) / r.SampleRate
	return r.StartTime.Add(time.Duration(d * float64(time.Second)))
}
