package actuate

import "vivarium-go/types"

// lampActive implements the half-open activation window [On, Off) with
// hour-then-minute comparison. Windows crossing midnight (Off before On)
// are not supported: the comparison yields an empty window and the lamp
// never activates.
func lampActive(now types.TimeOfDay, l types.LampSchedule) bool {
	if !l.Enabled {
		return false
	}
	return !now.Before(l.On) && now.Before(l.Off)
}
