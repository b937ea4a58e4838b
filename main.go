package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"golang.org/x/sync/errgroup"

	"go-vj/analysis"
	"go-vj/config"
	"go-vj/debug"
	"go-vj/engine"
	"go-vj/midi"
	"go-vj/render"
	"go-vj/sequencer"
	"go-vj/theme"
	"go-vj/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config: %v (using defaults)\n", err)
		cfg = config.DefaultConfig()
	}
	if cfg.Debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			fmt.Printf("debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	th, err := theme.Load(cfg.Theme)
	if err != nil {
		debug.Log("theme", "%v", err)
	}

	// The sequencer drives the synthetic analyzer, plus a MIDI synth if configured
	follower := analysis.NewFollower(0)
	voices := sequencer.Fanout{follower}
	var out *midi.Voices
	if cfg.MIDI.OutputPort != "" {
		out, err = midi.OpenVoices(cfg.MIDI.OutputPort, cfg.MIDI.DrumChannel, cfg.MIDI.BassChannel)
		if err != nil {
			fmt.Printf("midi output: %v\n", err)
			out = nil
		} else {
			voices = append(voices, out)
		}
	}

	mon := render.NewMonitor()
	eng, err := engine.New(engine.Options{
		Backend:      mon,
		Analyzer:     follower,
		Voices:       voices,
		BPM:          cfg.Engine.BPM,
		Volume:       &cfg.Engine.Volume,
		ScreenWidth:  cfg.Engine.ScreenWidth,
		ScreenHeight: cfg.Engine.ScreenHeight,
		StartScene:   cfg.Engine.StartScene,
		Seed:         cfg.Engine.Seed,
		OnVolume: func(v float64) {
			if out != nil {
				out.SetVolume(v)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	// MIDI device manager (handles hot-plug)
	deviceMgr := midi.NewDeviceManager(cfg.MIDI.ControllerPort)
	mirror := midi.NewMirror(deviceMgr, eng, mon)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return eng.Run(ctx) })
	g.Go(func() error { return deviceMgr.Run(ctx) })
	g.Go(func() error { return mirror.Run(ctx) })

	m := tui.NewModel(eng, mon, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		return nil
	})

	return g.Wait()
}
