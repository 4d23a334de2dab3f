package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// MsToDuration converts a millisecond count from board config.
func MsToDuration(ms uint32) time.Duration { return time.Duration(ms) * time.Millisecond }
