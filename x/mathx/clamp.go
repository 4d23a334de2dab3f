package mathx

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WrapInt folds v into [0, n), accepting negatives.
func WrapInt(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
