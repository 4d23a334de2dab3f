//go:build rp2040 || rp2350

package platform

import (
	"image/color"
	"machine"
	"time"

	"github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/at24cx"
	"tinygo.org/x/drivers/ds3231"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"

	"vivarium-go/errcode"
	"vivarium-go/types"
	"vivarium-go/x/fmtx"
)

// Pico wiring. I2C0 carries the DS3231, the AT24C32 (on the same breakout)
// and the SSD1306; UART0 is the debug console.
const (
	pinButton1   = machine.GP14
	pinButton2   = machine.GP15
	pinHeldLED   = machine.GP25 // onboard LED
	pinBacklight = machine.GP16
	pinLamp0     = machine.GP10
	pinLamp1     = machine.GP11
	pinLamp2     = machine.GP12
	pinPump      = machine.GP13
	pinMist      = machine.GP18
	pinBubbler   = machine.GP19

	pinSDA = machine.GP4
	pinSCL = machine.GP5
)

type mcuPin struct{ p machine.Pin }

func (m *mcuPin) ConfigureInput() error {
	m.p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (m *mcuPin) ConfigureOutput(initial bool) error {
	m.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	m.p.Set(initial)
	return nil
}

func (m *mcuPin) Get() bool      { return m.p.Get() }
func (m *mcuPin) Set(level bool) { m.p.Set(level) }

// ---------------------------------------------------------------------------
// DS3231
// ---------------------------------------------------------------------------

type rtcDev struct{ d ds3231.Device }

func (r *rtcDev) Running() bool { return r.d.IsRunning() }

func (r *rtcDev) read() (time.Time, bool) {
	t, err := r.d.ReadTime()
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (r *rtcDev) Hours() uint8 {
	if t, ok := r.read(); ok {
		return uint8(t.Hour())
	}
	return 0
}

func (r *rtcDev) Minutes() uint8 {
	if t, ok := r.read(); ok {
		return uint8(t.Minute())
	}
	return 0
}

func (r *rtcDev) Seconds() uint8 {
	if t, ok := r.read(); ok {
		return uint8(t.Second())
	}
	return 0
}

func (r *rtcDev) SetTime(h, m, s uint8) error {
	// The schedule model has no date; pin it to a fixed epoch day.
	t := time.Date(2024, 1, 1, int(h), int(m), int(s), 0, time.UTC)
	return r.d.SetTime(t)
}

// ---------------------------------------------------------------------------
// AT24C32
// ---------------------------------------------------------------------------

type eepromDev struct{ d at24cx.Device }

func (e *eepromDev) ReadAt(addr uint16, p []byte) error {
	n, err := e.d.ReadAt(p, int64(addr))
	if err != nil {
		return err
	}
	if n != len(p) {
		return errcode.ShortRead
	}
	return nil
}

func (e *eepromDev) WriteAt(addr uint16, p []byte) error {
	n, err := e.d.WriteAt(p, int64(addr))
	if err != nil {
		return err
	}
	if n != len(p) {
		return errcode.ShortWrite
	}
	return nil
}

// ---------------------------------------------------------------------------
// SSD1306 + tinyfont
// ---------------------------------------------------------------------------

type oledDisplay struct{ d ssd1306.Device }

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.RGBA{A: 255}
)

func (o *oledDisplay) Clear() { o.d.ClearBuffer() }

func (o *oledDisplay) WriteLine(col, row int, s string) {
	// 6x8 character cells; tinyfont's y is the glyph baseline.
	x := int16(col * 6)
	y := int16(row*8 + 7)
	tinyfont.WriteLine(&o.d, &tinyfont.Org01, x, y, s, white)
}

func (o *oledDisplay) FillRect(x, y, w, h int, on bool) {
	c := white
	if !on {
		c = black
	}
	for dx := 0; dx < w; dx++ {
		for dy := 0; dy < h; dy++ {
			o.d.SetPixel(int16(x+dx), int16(y+dy), c)
		}
	}
}

func (o *oledDisplay) Flush() { _ = o.d.Display() }

// DefaultSet brings up I2C, the debug UART and all board pins.
func DefaultSet() (*Set, error) {
	uart := uartx.UART0
	_ = uart.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       uartx.UART0_TX_PIN,
		RX:       uartx.UART0_RX_PIN,
	})
	fmtx.DefaultOutput = uart

	if err := machine.I2C0.Configure(machine.I2CConfig{
		SDA:       pinSDA,
		SCL:       pinSCL,
		Frequency: 400_000,
	}); err != nil {
		return nil, err
	}

	rtc := &rtcDev{d: ds3231.New(machine.I2C0)}
	if !rtc.d.Configure() {
		return nil, errcode.RTCNotRunning
	}

	ee := &eepromDev{d: at24cx.New(machine.I2C0)}
	ee.d.Configure(at24cx.Config{})

	oled := &oledDisplay{d: ssd1306.NewI2C(machine.I2C0)}
	oled.d.Configure(ssd1306.Config{Width: 128, Height: 64, Address: 0x3C})

	s := &Set{
		Button1:   &mcuPin{p: pinButton1},
		Button2:   &mcuPin{p: pinButton2},
		HeldLED:   &mcuPin{p: pinHeldLED},
		Backlight: &mcuPin{p: pinBacklight},
		Pump:      &mcuPin{p: pinPump},
		Mist:      &mcuPin{p: pinMist},
		Bubbler:   &mcuPin{p: pinBubbler},
		RTC:       rtc,
		Display:   oled,
		EEPROM:    ee,
	}
	s.Lamps = [types.LampCount]types.Pin{
		&mcuPin{p: pinLamp0}, &mcuPin{p: pinLamp1}, &mcuPin{p: pinLamp2},
	}
	return s, nil
}
