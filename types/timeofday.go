package types

// TimeOfDay is a wall-clock value with no date component.
// All arithmetic wraps: hours modulo 24, minutes modulo 60.
type TimeOfDay struct {
	Hour   uint8 `json:"hour"`
	Minute uint8 `json:"minute"`
}

// AddHours returns t shifted by n hours (n may be negative), wrapping at 24.
func (t TimeOfDay) AddHours(n int) TimeOfDay {
	h := (int(t.Hour) + n) % 24
	if h < 0 {
		h += 24
	}
	t.Hour = uint8(h)
	return t
}

// AddMinutes returns t shifted by n minutes (n may be negative), carrying
// into the hour and wrapping at 24h.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay {
	total := int(t.Hour)*60 + int(t.Minute) + n
	total %= 24 * 60
	if total < 0 {
		total += 24 * 60
	}
	t.Hour = uint8(total / 60)
	t.Minute = uint8(total % 60)
	return t
}

// Before reports whether t is strictly earlier than u within one day.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	if t.Hour != u.Hour {
		return t.Hour < u.Hour
	}
	return t.Minute < u.Minute
}

// Equal reports whether t and u are the same minute.
func (t TimeOfDay) Equal(u TimeOfDay) bool {
	return t.Hour == u.Hour && t.Minute == u.Minute
}

// Valid reports whether both fields are in range. Values produced by the
// wrapping arithmetic above are always valid; this exists for data loaded
// from external storage.
func (t TimeOfDay) Valid() bool {
	return t.Hour < 24 && t.Minute < 60
}
