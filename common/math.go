package common

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	switch {
	case v > hi:
		return hi
	case v < lo:
		return lo
	}
	return v
}
