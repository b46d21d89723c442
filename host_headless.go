// host_headless.go - Off-screen runner

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"context"
	"fmt"
	"image/png"
	"os"

	"github.com/charmbracelet/log"
)

// HeadlessOptions configures an off-screen run.
type HeadlessOptions struct {
	Frames     int    // frames to run; 0 means the script length (or 1)
	ScriptPath string // optional Lua input script
	OutPath    string // optional PNG of the final visible surface
}

// HeadlessResult summarises an off-screen run.
type HeadlessResult struct {
	Frames  int
	Ticks   uint64
	State   LoopState
	Surface *ImageSurface
}

// RunHeadless drives engine through the bridge on an ImageSurface with a
// counted clock, feeding scripted events frame by frame.
func RunHeadless(ctx context.Context, engine Engine, cfg Config, opts HeadlessOptions, logger *log.Logger) (HeadlessResult, error) {
	var timeline *ScriptTimeline
	if opts.ScriptPath != "" {
		t, err := LoadScriptFile(opts.ScriptPath)
		if err != nil {
			return HeadlessResult{}, err
		}
		timeline = t
		logger.Info("input script loaded", "path", opts.ScriptPath, "events", t.Len(), "frames", t.Frames())
	}

	frames := opts.Frames
	if frames <= 0 {
		frames = 1
		if timeline != nil {
			frames = timeline.Frames()
		}
	}

	surface := NewImageSurface()
	bridge, err := NewBridge(engine, surface, BridgeOptions{
		OverlayMessage: cfg.Window.OverlayMessage,
		DebugText:      cfg.Window.DebugText,
		Logger:         logger,
	})
	if err != nil {
		return HeadlessResult{}, err
	}

	var feed func(int)
	if timeline != nil {
		feed = func(frame int) { timeline.Feed(frame, bridge.Events()) }
	}
	clock := NewCountedClock(frames, feed)
	runErr := bridge.Run(ctx, clock)

	res := HeadlessResult{
		Frames:  clock.Granted(),
		Ticks:   bridge.Ticks(),
		State:   bridge.Focus().State(),
		Surface: surface,
	}
	logger.Info("headless run finished", "frames", res.Frames, "ticks", res.Ticks, "state", res.State)

	// The PNG is written even after a fatal frame error so the diagnostic
	// overlay can be inspected.
	if opts.OutPath != "" {
		if err := writePNG(opts.OutPath, surface); err != nil {
			if runErr != nil {
				return res, runErr
			}
			return res, err
		}
		logger.Info("frame written", "path", opts.OutPath)
	}
	return res, runErr
}

func writePNG(path string, surface *ImageSurface) error {
	img := surface.Snapshot()
	if img == nil {
		return fmt.Errorf("write %s: %w", path, ErrNoSurface)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
