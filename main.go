package main

import (
	"context"
	"time"

	"vivarium-go/bus"
	"vivarium-go/errcode"
	"vivarium-go/kernel"
	"vivarium-go/platform"
	"vivarium-go/services/actuate"
	"vivarium-go/services/clock"
	configsvc "vivarium-go/services/config"
	"vivarium-go/services/input"
	"vivarium-go/services/menu"
	"vivarium-go/services/store"
)

const firmwareVersion = "v1.2"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot: vivarium", firmwareVersion)

	set, err := platform.DefaultSet()
	if err != nil {
		fatal(nil, err)
	}
	if err := set.ConfigureOutputs(); err != nil {
		fatal(set, err)
	}

	set.Display.Clear()
	set.Display.WriteLine(0, 0, "VIVARIUM "+firmwareVersion)
	set.Display.Flush()

	b := bus.NewBus(8)
	const board = "pico"
	ctx := context.WithValue(context.Background(), configsvc.CtxBoardKey, board)
	configsvc.NewService().Start(ctx, b.NewConnection("config"))

	// Cadences come from the embedded board config; zero falls back to each
	// service's default.
	bc, err := configsvc.Board(board)
	if err != nil {
		println("config:", err.Error())
	}

	// A stopped RTC is fatal: no schedule can be trusted without time.
	keeper, err := clock.New(set.RTC, b.NewConnection("clock"), bc.Cadences.ClockTickMs)
	if err != nil {
		fatal(set, err)
	}

	st := store.New(set.EEPROM)
	loaded := true
	if err := st.Load(); err != nil {
		// Seeds stay in place; per-record corruption was already handled
		// inside Load. Only a foreign marker lands here.
		println("store: no valid image:", err.Error())
		loaded = false
	}

	var slot input.Slot
	inputSvc := input.New(set.Button1, set.Button2, set.HeldLED, &slot,
		b.NewConnection("input"), bc.Cadences.InputPollMs)
	menuSvc := menu.New(&slot, st, keeper, set.Display, bc.Cadences.MenuDrawMs)
	actSvc := actuate.New(keeper, st, actuate.Pins{
		Lamps:     set.Lamps,
		Backlight: set.Backlight,
		Pump:      set.Pump,
		Mist:      set.Mist,
		Bubbler:   set.Bubbler,
	}, b.NewConnection("actuate"), bc.Cadences.EvaluateMs)

	if !loaded {
		// Force the user through setup when no configuration exists.
		menuSvc.ForceSetup()
	}

	k := kernel.New(kernel.RealClock{})
	k.Spawn("input", kernel.PrioHigh, func(tc *kernel.TaskCtx) { inputSvc.Run(tc) })
	k.Spawn("clock", kernel.PrioHigh, func(tc *kernel.TaskCtx) { keeper.Run(tc) })
	k.Spawn("menu", kernel.PrioNormal, func(tc *kernel.TaskCtx) { menuSvc.Run(tc) })
	k.Spawn("actuate", kernel.PrioLow, func(tc *kernel.TaskCtx) { actSvc.Run(tc) })

	k.Run(context.Background())
}

// fatal signals the error on whatever outputs exist and parks forever.
// There is no recovery path: a board in this state needs attention.
func fatal(set *platform.Set, err error) {
	println("fatal:", string(errcode.Of(err)), err.Error())
	if set != nil {
		set.Display.Clear()
		set.Display.WriteLine(0, 0, "ERROR")
		set.Display.WriteLine(0, 1, string(errcode.Of(err)))
		set.Display.Flush()
	}
	for {
		time.Sleep(time.Hour)
	}
}
