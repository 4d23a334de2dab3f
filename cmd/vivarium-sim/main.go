// vivarium-sim runs the full firmware stack against the fake board and
// scripts a short button session: wake the menu, walk to the clock menu,
// bump the hour, save, exit. The display buffer and device state changes are
// printed as they happen. Useful as a smoke test and as a way to poke at
// menu flows without hardware.
package main

import (
	"context"
	"fmt"
	"time"

	"vivarium-go/bus"
	"vivarium-go/kernel"
	"vivarium-go/platform"
	"vivarium-go/services/actuate"
	"vivarium-go/services/clock"
	"vivarium-go/services/input"
	"vivarium-go/services/menu"
	"vivarium-go/services/store"
	"vivarium-go/types"
)

func main() {
	set := platform.NewHostSet()
	_ = set.ConfigureOutputs()
	rtc := set.RTC.(*platform.FakeRTC)
	rtc.Hr, rtc.Min = 9, 30
	disp := set.Display.(*platform.RecordingDisplay)

	b := bus.NewBus(8)

	mon := b.NewConnection("monitor")
	sub := mon.Subscribe(bus.T("actuate", bus.Plus, "state"))
	go func() {
		for m := range sub.Channel() {
			st := m.Payload.(types.DeviceState)
			fmt.Printf("[state] %s active=%v\n", st.Device, st.Active)
		}
	}()

	keeper, err := clock.New(set.RTC, b.NewConnection("clock"), clock.DefaultTickMs)
	if err != nil {
		panic(err)
	}
	st := store.New(set.EEPROM)
	if err := st.Load(); err != nil {
		fmt.Println("[store] starting from defaults:", err.Error())
	}

	var slot input.Slot
	inputSvc := input.New(set.Button1, set.Button2, set.HeldLED, &slot,
		b.NewConnection("input"), input.DefaultPollMs)
	menuSvc := menu.New(&slot, st, keeper, set.Display, menu.DefaultDrawMs)
	actSvc := actuate.New(keeper, st, actuate.Pins{
		Lamps:     set.Lamps,
		Backlight: set.Backlight,
		Pump:      set.Pump,
		Mist:      set.Mist,
		Bubbler:   set.Bubbler,
	}, b.NewConnection("actuate"), actuate.DefaultEvaluateMs)

	// Manual clock: the whole session runs in simulated time.
	k := kernel.New(kernel.NewManualClock(0))
	k.Spawn("input", kernel.PrioHigh, func(tc *kernel.TaskCtx) { inputSvc.Run(tc) })
	k.Spawn("clock", kernel.PrioHigh, func(tc *kernel.TaskCtx) { keeper.Run(tc) })
	k.Spawn("menu", kernel.PrioNormal, func(tc *kernel.TaskCtx) { menuSvc.Run(tc) })
	k.Spawn("actuate", kernel.PrioLow, func(tc *kernel.TaskCtx) { actSvc.Run(tc) })

	ctx, cancel := context.WithCancel(context.Background())
	k.Spawn("script", kernel.PrioLow, func(tc *kernel.TaskCtx) {
		script(tc, set, disp, cancel)
	})

	k.Run(ctx)
	fmt.Println("[sim] done")
}

func script(tc *kernel.TaskCtx, set *platform.Set, disp *platform.RecordingDisplay, cancel func()) {
	b1 := set.Button1.(*platform.FakePin)
	b2 := set.Button2.(*platform.FakePin)

	tc.Sleep(time.Second)

	show := func(tag string) {
		fmt.Printf("[%s] |%s| |%s|\n", tag, disp.Row(0), disp.Row(1))
	}

	shortPress := func(p *platform.FakePin) {
		p.Press()
		tc.Sleep(150 * time.Millisecond) // ~3 polls, well under the long threshold
		p.Release()
		tc.Sleep(400 * time.Millisecond) // let the menu consume and redraw
	}

	shortPress(b1) // wake
	show("wake")

	for i := 0; i < 4; i++ { // LAMP -> PUMP -> MIST -> BUBBLER -> CLOCK
		shortPress(b2)
	}
	show("entry")

	shortPress(b1) // enter clock menu
	show("clock")

	shortPress(b2) // hour +1
	shortPress(b1) // commit hour, focus minute
	shortPress(b1) // commit minute -> time set
	show("set")

	for i := 0; i < 5; i++ { // back at top of setup; walk to SAVE
		shortPress(b2)
	}
	shortPress(b1) // save to EEPROM
	show("saved")

	for i := 0; i < 6; i++ { // walk to EXIT
		shortPress(b2)
	}
	shortPress(b1)
	show("off")

	cancel()
}
