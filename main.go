// main.go - Main entry point for the Intuition Raycaster

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
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	// Global flags
	flagConfig   string
	flagLogLevel string
	flagWidth    int
	flagHeight   int

	// headless flags
	flagFrames int
	flagScript string
	flagOut    string
)

var bannerLines = []string{
	"  _       _         _ _   _               ___                           _",
	" (_)_ __ | |_ _  _ (_) |_(_)___ _ _      | _ \\__ _ _  _ __ __ _ __| |_ ___ _ _",
	" | | '  \\|  _| || || |  _| / _ \\ ' \\     |   / _` | || / _/ _` (_-<  _/ -_) '_|",
	" |_|_||_|\\__|\\_,_||_|\\__|_\\___/_||_|    |_|_\\__,_|\\_, \\__\\__,_/__/\\__\\___|_|",
	"                                                    |__/",
}

func boilerPlate() {
	for i, line := range bannerLines {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#FF%02X93", 20+i*50)))
		fmt.Fprintln(os.Stderr, style.Render(line))
	}
	fmt.Fprintln(os.Stderr, "\nA raycasting engine bridged onto an Ebiten window.")
	fmt.Fprintln(os.Stderr, "(c) 2024 - 2026 Zayn Otley")
	fmt.Fprintln(os.Stderr, "https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Fprintln(os.Stderr, "License: GPLv3 or later")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "intuition_raycaster",
	Short: "Intuition Raycaster - a raycaster bridged onto a window",
	Long: `Runs the raycasting engine in a window. Arrow keys move and turn.
Clicking away from the window pauses the game until it is focused again.

Available commands:
  run       - Open the window (default)
  headless  - Run off-screen for a fixed number of frames
  keys      - List the key codes the engine receives

Examples:
  intuition_raycaster
  intuition_raycaster headless --frames 120 --out frame.png
  intuition_raycaster headless --script walk.lua --out walk.png`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runWindowCmd,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the raycaster window",
	RunE:  runWindowCmd,
}

var headlessCmd = &cobra.Command{
	Use:   "headless",
	Short: "Run the bridge off-screen",
	Long: `Runs the bridge against an in-memory surface with a counted clock.

--script loads a Lua timeline of host events:
  key_down(38) wait(30) key_up(38) blur() wait(5) focus()

When --frames is 0 the run lasts as long as the script.`,
	RunE: runHeadlessCmd,
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List key codes delivered to the engine",
	Run:   runKeysCmd,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Screen width override (needs --height)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "Screen height override (needs --width)")

	headlessCmd.Flags().IntVar(&flagFrames, "frames", 0, "Frames to run (0 = script length)")
	headlessCmd.Flags().StringVar(&flagScript, "script", "", "Lua input script")
	headlessCmd.Flags().StringVar(&flagOut, "out", "", "Write the final frame to this PNG")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(headlessCmd)
	rootCmd.AddCommand(keysCmd)
}

// setup loads the config and builds the logger and engine shared by the
// window and headless commands.
func setup() (Config, *log.Logger, *RaycastEngine, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "raycaster",
	})

	cfg, err := LoadConfig(flagConfig)
	if err != nil {
		logger.Error("config", "err", err)
		return Config{}, nil, nil, err
	}

	levelName := cfg.LogLevel
	if flagLogLevel != "" {
		levelName = flagLogLevel
	}
	level, err := log.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		logger.Error("config", "err", err)
		return Config{}, nil, nil, err
	}
	logger.SetLevel(level)

	if w, h, ok := validateResolutionOverride(flagWidth, flagHeight); ok {
		cfg.Engine.ScreenWidth, cfg.Engine.ScreenHeight = w, h
	} else if flagWidth != 0 || flagHeight != 0 {
		logger.Warn("ignoring partial resolution override", "width", flagWidth, "height", flagHeight)
	}

	engine, err := NewRaycastEngine(cfg.Engine)
	if err != nil {
		logger.Error("engine", "err", err)
		return Config{}, nil, nil, err
	}
	logger.Debug("engine created", "descriptor", engine.Descriptor())
	return cfg, logger, engine, nil
}

// validateResolutionOverride accepts an override only when both dimensions
// are positive.
func validateResolutionOverride(width, height int) (int, int, bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}

func runWindowCmd(_ *cobra.Command, _ []string) error {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		boilerPlate()
	}
	cfg, logger, engine, err := setup()
	if err != nil {
		return err
	}
	if err := runWindow(engine, cfg, logger); err != nil {
		logger.Error("window", "err", err)
		return err
	}
	return nil
}

func runHeadlessCmd(_ *cobra.Command, _ []string) error {
	cfg, logger, engine, err := setup()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := RunHeadless(ctx, engine, cfg, HeadlessOptions{
		Frames:     flagFrames,
		ScriptPath: flagScript,
		OutPath:    flagOut,
	}, logger)
	if err != nil {
		logger.Error("headless", "err", err)
		return err
	}
	x, y, angle := engine.Position()
	fmt.Printf("frames=%d ticks=%d state=%s pos=(%.2f, %.2f) angle=%.2f\n", res.Frames, res.Ticks, res.State, x, y, angle)
	return nil
}

func runKeysCmd(_ *cobra.Command, _ []string) {
	for _, k := range keyCodeTable() {
		fmt.Printf("%-12s %3d\n", k.Name, k.Code)
	}
}
