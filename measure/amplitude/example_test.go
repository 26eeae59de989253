package amplitude_test

import (
	"fmt"
	"math"
	"time"

	"github.com/gempa/seiscomp-programming-templates/measure/amplitude"
	"github.com/gempa/seiscomp-programming-templates/stream"
)

func ExampleProcessor() {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	trigger := start.Add(15 * time.Second)

	// 20 s of two-component data at 100 sps: low-level background before
	// the trigger, an in-phase burst after it whose Euclidean norm peaks
	// at 5.
	north := make([]float64, 2000)
	east := make([]float64, 2000)
	for i := 1; i < 1300; i += 2 {
		north[i] = 0.2
	}
	for i := 1300; i < 1800; i++ {
		s := math.Sin(2 * math.Pi * 5 / 100 * float64(i-1300))
		if i >= 1310 {
			s *= 0.8
		}
		north[i] = 3 * s
		east[i] = 4 * s
	}

	p := amplitude.New(trigger, amplitude.WithSignalWindow(-2, 5))

	channels := []stream.ChannelConfig{
		{Code: "HHN", Gain: 1, GainUnit: "M/S**2"},
		{Code: "HHE", Gain: 1, GainUnit: "M/S**2"},
	}
	if err := p.Setup(channels, nil); err != nil {
		fmt.Println("setup:", err)
		return
	}

	for _, rec := range []*stream.Record{
		{ChannelCode: "HHN", StartTime: start, SampleRate: 100, Data: north},
		{ChannelCode: "HHE", StartTime: start, SampleRate: 100, Data: east},
	} {
		if err := p.Feed(rec); err != nil {
			fmt.Println("feed:", err)
			return
		}
	}

	res, err := p.ComputeAmplitude()
	if err != nil {
		fmt.Println("compute:", err)
		return
	}

	fmt.Printf("value: %.2f\n", res.Value)
	fmt.Printf("snr: %.1f\n", res.SNR)
	fmt.Printf("status: %s\n", res.Status)
	// Output:
	// value: 4.90
	// snr: 49.0
	// status: finished
}
