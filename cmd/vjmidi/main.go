package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	"go-vj/engine"
	"go-vj/midi"
	"go-vj/modulation"
	"go-vj/sequencer"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectLaunchpad()
	case "voices":
		auditionVoices(arg(2, "IAC"))
	case "leds":
		testLEDs()
	case "pads":
		echoCommands(arg(2, ""))
	default:
		usage()
	}
}

func arg(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func usage() {
	fmt.Println("go-vj MIDI tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list            - List all MIDI ports")
	fmt.Println("  detect          - Find Launchpad X")
	fmt.Println("  voices [port]   - Play one bar of every pattern on an output port")
	fmt.Println("  leds            - Sweep the hue wheel across the Launchpad")
	fmt.Println("  pads [keyboard] - Print the command each pad or key maps to")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ins, outs, err := midi.Ports(midi.PortTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func detectLaunchpad() {
	fmt.Println("Looking for Launchpad X...")

	in, inErr := midi.FindInPort("launchpad x")
	out, outErr := midi.FindOutPort("launchpad x")
	if inErr == nil {
		fmt.Printf("Found input: %s\n", in)
	}
	if outErr == nil {
		fmt.Printf("Found output: %s\n", out)
	}

	if inErr == nil && outErr == nil {
		fmt.Println("\nLaunchpad X detected!")
	} else {
		fmt.Println("\nLaunchpad X not found")
	}
}

func auditionVoices(port string) {
	v, err := midi.OpenVoices(port, 10, 1)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	step := sequencer.StepDuration(modulation.DefaultBPM)
	for _, inst := range sequencer.Instruments() {
		for variant := 0; variant < sequencer.Variants; variant++ {
			var sel sequencer.Selection
			sel[inst] = variant
			fmt.Printf("%-6s %d  %s\n", inst, variant+1, sel.Row(inst))
			for s := 0; s < sequencer.Steps; s++ {
				if sel.Hit(inst, s) {
					sequencer.Play(v, inst)
				}
				time.Sleep(step)
			}
		}
	}
	time.Sleep(midi.DefaultGate)
	fmt.Printf("Done! %d notes sent\n", v.Sent())
}

func testLEDs() {
	fmt.Println("Testing LED control...")

	in, _ := midi.FindInPort("launchpad x")
	out, err := midi.FindOutPort("launchpad x")
	if err != nil {
		fmt.Println("No Launchpad found")
		return
	}
	lp, err := midi.NewLaunchpadController(out.String(), in, out)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer lp.Close()

	fmt.Println("Sweeping hues...")
	for frame := 0; frame < 64; frame++ {
		var updates []midi.LEDUpdate
		for row := 0; row < midi.GridRows; row++ {
			for col := 0; col < midi.GridCols; col++ {
				hue := modulation.Fract(float64(frame+row*midi.GridCols+col) / 64)
				c := modulation.HSL{H: hue, S: 1, L: 0.5}.RGB()
				updates = append(updates, midi.LEDUpdate{Row: row, Col: col, Color: c})
			}
		}
		if err := lp.SetLEDBatch(updates); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(50 * time.Millisecond)
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	fmt.Println("Done!")
}

// printer shows commands instead of running them
type printer struct{}

func (printer) Dispatch(c engine.Command) {
	fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05"), c)
}

func (printer) ScreenSize() (int, int) { return 1920, 1080 }

func echoCommands(keyboard string) {
	fmt.Println("Press pads or keys. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dm := midi.NewDeviceManager(keyboard)
	go dm.Run(ctx)

	for ev := range dm.Events() {
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("  -> %s connected: %s\n", ev.Controller.Type(), ev.ID)
			go midi.Route(ev.Controller, printer{})
		case midi.DeviceDisconnected:
			fmt.Printf("  -> disconnected: %s\n", ev.ID)
		}
	}
}
