package types

// Bus payloads. Topics:
//
//	clock/time        retained  TimePayload, republished on minute change
//	input/press       -         PressPayload, one per classified event
//	actuate/+/state   retained  DeviceState, one topic per device name
//	config/+          retained  raw board config sections (see services/config)

type TimePayload struct {
	Time    TimeOfDay `json:"time"`
	Seconds uint8     `json:"seconds"`
}

type PressPayload struct {
	Event PressEvent `json:"event"`
}

type DeviceState struct {
	Device string `json:"device"` // "lamp0".."lamp2", "pump", "mist", "bubbler"
	Active bool   `json:"active"`
}
