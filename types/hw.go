package types

// Hardware collaborator interfaces. Platform files return concrete sets;
// everything above this line of the stack is platform-free.

// Pin is one GPIO line. Buttons are wired active-low: Get()==false while
// pressed.
type Pin interface {
	ConfigureInput() error
	ConfigureOutput(initial bool) error
	Get() bool
	Set(level bool)
}

// RTC is the external battery-backed time source.
type RTC interface {
	// Running reports whether the oscillator is ticking. A stopped RTC at
	// boot is fatal for the whole system.
	Running() bool
	Hours() uint8
	Minutes() uint8
	Seconds() uint8
	SetTime(h, m, s uint8) error
}

// Display receives text cells and primitive shapes from the menu service.
// Pixel concerns (fonts, framebuffer, flushing over I2C) stay behind it.
type Display interface {
	Clear()
	// WriteLine draws s starting at character cell (col,row).
	WriteLine(col, row int, s string)
	// FillRect paints a solid rectangle in pixel coordinates; the menu uses
	// it for the focus underline only.
	FillRect(x, y, w, h int, on bool)
	Flush()
}

// EEPROM is byte-addressed non-volatile storage. WriteAt is idempotent
// (update semantics): unchanged bytes cost no erase cycle.
type EEPROM interface {
	ReadAt(addr uint16, p []byte) error
	WriteAt(addr uint16, p []byte) error
}
