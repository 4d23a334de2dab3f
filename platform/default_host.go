//go:build !(rp2040 || rp2350) && !(linux && arm64)

package platform

// DefaultSet on a development host is the fake board.
func DefaultSet() (*Set, error) { return NewHostSet(), nil }
