package numberutil

import "math"

func AbsInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// Clamp limits n to the closed range [low, high].
func Clamp(n, low, high int) int {
	if n < low {
		return low
	}
	if n > high {
		return high
	}
	return n
}

// CeilDiv returns ceil(a/b) for non-negative a and positive b.
func CeilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

// Round2 rounds f half away from zero to two decimal places.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}
