package biquad

import (
	"math"
	"testing"
)

func TestSection_BlockMatchesSample(t *testing.T) {
	c := Lowpass(100, 0, 1000)

	in := make([]float64, 64)
	for i := range in {
		in[i] = math.Sin(0.3 * float64(i))
	}

	bySample := NewSection(c)
	want := make([]float64, len(in))
	for i, x := range in {
		want[i] = bySample.ProcessSample(x)
	}

	byBlock := NewSection(c)
	got := append([]float64(nil), in...)
	byBlock.ProcessBlock(got[:20])
	byBlock.ProcessBlock(got[20:])

	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("index %d: block %v, sample %v", i, got[i], want[i])
		}
	}
}

func TestLowpass_DCGain(t *testing.T) {
	s := NewSection(Lowpass(10, 0, 1000))

	// Settle on a DC input: a lowpass must pass it at unity gain.
	y := 0.0
	for range 20000 {
		y = s.ProcessSample(1)
	}
	if math.Abs(y-1) > 1e-6 {
		t.Errorf("DC gain: got %v, want 1", y)
	}
}

func TestHighpass_BlocksDC(t *testing.T) {
	s := NewSection(Highpass(10, 0, 1000))

	y := 1.0
	for range 20000 {
		y = s.ProcessSample(1)
	}
	if math.Abs(y) > 1e-6 {
		t.Errorf("DC leakage: got %v, want 0", y)
	}
}

func TestSection_Reset(t *testing.T) {
	c := Highpass(10, 0, 1000)
	s := NewSection(c)

	first := s.ProcessSample(1)
	s.ProcessSample(0.5)

	s.Reset()
	if got := s.ProcessSample(1); got != first {
		t.Errorf("after reset: got %v, want %v", got, first)
	}
}

func TestDesign_InvalidFrequency(t *testing.T) {
	for _, freq := range []float64{0, -1, 500, 600} {
		if c := Lowpass(freq, 0, 1000); c != (Coefficients{}) {
			t.Errorf("freq %v: got %+v, want zero coefficients", freq, c)
		}
	}
}
