// Package core provides small buffer-reuse helpers shared by the
// streaming packages. All processing code works on raw []float64 slices;
// these helpers keep hot paths allocation free.
package core

// EnsureLen returns a slice with the requested length, reusing buf
// capacity when possible. The returned contents are unspecified.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// MaxAbsDeviation returns the largest absolute deviation from offset in buf.
// An empty buf yields 0.
func MaxAbsDeviation(buf []float64, offset float64) float64 {
	maxDev := 0.0
	for _, v := range buf {
		d := v - offset
		if d < 0 {
			d = -d
		}
		if d > maxDev {
			maxDev = d
		}
	}
	return maxDev
}
