package store

import "vivarium-go/types"

// EEPROM image, fixed layout, explicit field order. Widths are one byte per
// field; times are stored hour then minute. Changing any width or order
// requires a new FormatMarker value.
//
//	offset  size  field
//	0       1     format marker
//	1       15    3 × lamp record  {onH onM offH offM enabled}
//	16      6     pump record      {runSec startH startM endH endM enabled}
//	22      23    mist record      {count runMin enabled 10×{h m}}
//	45      23    bubbler record
const (
	FormatMarker = 0x5A

	lampRecSize  = 5
	pumpRecSize  = 6
	multiRecSize = 3 + 2*types.MaxTriggers

	lampBase  = 1
	pumpBase  = lampBase + types.LampCount*lampRecSize
	mistBase  = pumpBase + pumpRecSize
	bubbBase  = mistBase + multiRecSize
	imageSize = bubbBase + multiRecSize
)

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func encode(c *types.Configuration) [imageSize]byte {
	var img [imageSize]byte
	img[0] = FormatMarker

	for i := 0; i < types.LampCount; i++ {
		o := lampBase + i*lampRecSize
		l := &c.Lamps[i]
		img[o+0] = l.On.Hour
		img[o+1] = l.On.Minute
		img[o+2] = l.Off.Hour
		img[o+3] = l.Off.Minute
		img[o+4] = boolByte(l.Enabled)
	}

	p := &c.Pump
	img[pumpBase+0] = p.RunSeconds
	img[pumpBase+1] = p.WindowStart.Hour
	img[pumpBase+2] = p.WindowStart.Minute
	img[pumpBase+3] = p.WindowEnd.Hour
	img[pumpBase+4] = p.WindowEnd.Minute
	img[pumpBase+5] = boolByte(p.Enabled)

	encodeMulti(img[:], mistBase, &c.Mist)
	encodeMulti(img[:], bubbBase, &c.Bubb)
	return img
}

func encodeMulti(img []byte, base int, m *types.MultiEventSchedule) {
	img[base+0] = m.Count
	img[base+1] = m.RunMinutes
	img[base+2] = boolByte(m.Enabled)
	for i := 0; i < types.MaxTriggers; i++ {
		img[base+3+2*i] = m.Triggers[i].Hour
		img[base+4+2*i] = m.Triggers[i].Minute
	}
}

// decode validates record by record. A bad boolean byte, an out-of-range
// count or duration, or an impossible time disables that record only; its
// other fields are kept so the user can inspect and re-enable. One corrupt
// section must not take down unrelated devices.
func decode(img *[imageSize]byte) types.Configuration {
	var c types.Configuration

	for i := 0; i < types.LampCount; i++ {
		o := lampBase + i*lampRecSize
		l := &c.Lamps[i]
		l.On = types.TimeOfDay{Hour: img[o+0], Minute: img[o+1]}
		l.Off = types.TimeOfDay{Hour: img[o+2], Minute: img[o+3]}
		en := img[o+4]
		l.Enabled = en == 1
		if en > 1 || !l.On.Valid() || !l.Off.Valid() {
			l.Enabled = false
		}
	}

	p := &c.Pump
	p.RunSeconds = img[pumpBase+0]
	p.WindowStart = types.TimeOfDay{Hour: img[pumpBase+1], Minute: img[pumpBase+2]}
	p.WindowEnd = types.TimeOfDay{Hour: img[pumpBase+3], Minute: img[pumpBase+4]}
	en := img[pumpBase+5]
	p.Enabled = en == 1
	if en > 1 || p.RunSeconds > types.MaxDurationSec ||
		!p.WindowStart.Valid() || !p.WindowEnd.Valid() {
		p.Enabled = false
	}

	c.Mist = decodeMulti(img[:], mistBase)
	c.Bubb = decodeMulti(img[:], bubbBase)
	return c
}

func decodeMulti(img []byte, base int) types.MultiEventSchedule {
	var m types.MultiEventSchedule
	m.Count = img[base+0]
	m.RunMinutes = img[base+1]
	en := img[base+2]
	m.Enabled = en == 1
	for i := 0; i < types.MaxTriggers; i++ {
		m.Triggers[i] = types.TimeOfDay{Hour: img[base+3+2*i], Minute: img[base+4+2*i]}
	}
	bad := en > 1 || m.Count > types.MaxTriggers || m.RunMinutes > types.MaxDurationMin
	for i := 0; i < int(min(m.Count, types.MaxTriggers)); i++ {
		if !m.Triggers[i].Valid() {
			bad = true
		}
	}
	if bad {
		m.Enabled = false
	}
	if m.Count > types.MaxTriggers {
		// Clamp so array indexing stays safe; the record is already disabled.
		m.Count = types.MaxTriggers
	}
	return m
}

func min(a, b uint8) uint8 {
	if a < b {
		return a
	}
	return b
}
