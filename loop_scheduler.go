// loop_scheduler.go - Bridge setup and the game loop scheduler

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

/*
loop_scheduler.go - Frame/input bridge loop

Each iteration, in this order:
1. Drain host events (key transitions, focus/blur) in arrival order
2. If paused: nothing else (the overlay was drawn when pausing)
3. Clear the projection rectangle
4. Serialize held keys into the engine's input vector
5. engine.Tick()
6. Check the frame view against the engine's memory generation
7. Composite the frame view onto the surface

The loop suspends only in FrameClock.NextFrame, so no two iterations overlap
and the engine never runs while the bridge reads its memory.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// BridgeOptions configures NewBridge.
type BridgeOptions struct {
	OverlayMessage string
	DebugText      bool
	Logger         *log.Logger
}

// Scheduler owns every piece of bridge state: there are no package globals.
type Scheduler struct {
	engine     Engine
	surface    Surface
	desc       ScreenDescriptor
	input      *[InputCapacity]uint32
	aggregator *InputAggregator
	focus      *FocusController
	view       FrameView
	events     *EventQueue
	logger     *log.Logger
	debug      bool
	ticks      uint64
	halted     error
}

// NewBridge reads the engine descriptor, configures the surface and binds
// the engine's buffers. Any failure here is a startup error and the loop
// must not be started.
func NewBridge(engine Engine, surface Surface, opts BridgeOptions) (*Scheduler, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if engine == nil {
		return nil, startupError("engine", ErrNoEngine, "no engine instance")
	}
	if surface == nil {
		return nil, startupError("surface", ErrNoSurface, "no display surface")
	}

	desc := engine.Descriptor()
	if err := desc.Validate(); err != nil {
		return nil, startupError("descriptor", err, "%s", desc)
	}
	if err := surface.Configure(desc); err != nil {
		return nil, startupError("surface configure", err, "%s", desc)
	}

	input := engine.InputBuffer()
	if input == nil {
		return nil, startupError("input bind", ErrNoInputBuffer, "engine returned no input vector")
	}

	s := &Scheduler{
		engine:     engine,
		surface:    surface,
		desc:       desc,
		input:      input,
		aggregator: NewInputAggregator(),
		focus:      NewFocusController(surface, opts.OverlayMessage),
		events:     NewEventQueue(),
		logger:     logger,
		debug:      opts.DebugText,
	}
	if err := s.view.Bind(engine.FrameBuffer(), desc.ProjectionWidth, desc.ProjectionHeight, engineGeneration(engine)); err != nil {
		return nil, startupError("frame bind", err, "%s", desc)
	}

	logger.Info("bridge ready",
		"screen", fmt.Sprintf("%dx%d", desc.ScreenWidth, desc.ScreenHeight),
		"projection", fmt.Sprintf("%dx%d", desc.ProjectionWidth, desc.ProjectionHeight),
		"scale", desc.Scale)
	return s, nil
}

// Run iterates until the clock stops granting frames, the context ends, or
// a frame fails. Only a frame failure is returned as an error.
func (s *Scheduler) Run(ctx context.Context, clock FrameClock) error {
	for {
		if err := clock.NextFrame(ctx); err != nil {
			if errors.Is(err, ErrClockExhausted) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				s.logger.Debug("loop finished", "ticks", s.ticks, "reason", err)
				return nil
			}
			return err
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
}

// Step runs exactly one iteration.
func (s *Scheduler) Step() error {
	if s.halted != nil {
		return s.halted
	}

	s.events.Drain(s.dispatch)
	if s.focus.State() == StatePaused {
		return nil
	}

	s.surface.Clear(s.desc.ProjectionWidth, s.desc.ProjectionHeight)
	s.aggregator.Serialize(s.input)

	if err := s.engine.Tick(); err != nil {
		return s.halt(frameError("tick", err, "engine tick %d", s.ticks+1))
	}
	s.ticks++

	if err := s.checkView(); err != nil {
		return s.halt(err)
	}
	if err := s.surface.Composite(&s.view); err != nil {
		return s.halt(frameError("composite", err, "tick %d", s.ticks))
	}
	if s.debug {
		s.surface.DebugText(s.debugLine())
	}
	return nil
}

func (s *Scheduler) dispatch(ev HostEvent) {
	switch ev.Type {
	case EventKeyDown:
		s.aggregator.KeyDown(ev.Code)
	case EventKeyUp:
		s.aggregator.KeyUp(ev.Code)
	case EventBlur:
		if s.focus.State() == StateRunning {
			s.logger.Debug("surface blurred, pausing", "tick", s.ticks)
		}
		s.focus.OnBlur()
	case EventFocus:
		if s.focus.State() == StatePaused {
			s.logger.Debug("surface focused, resuming", "tick", s.ticks)
		}
		s.focus.OnFocus()
	}
}

// checkView re-acquires the frame view once if the engine reallocated its
// buffer, either by a new memory generation or by handing out a different
// slice. The view is never read while stale.
func (s *Scheduler) checkView() *BridgeError {
	err := s.validateView()
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrStaleView) {
		return frameError("frame view", err, "tick %d", s.ticks)
	}
	s.logger.Warn("frame buffer reallocated, rebinding", "tick", s.ticks, "error", err)
	if err := s.view.Reacquire(s.engine); err != nil {
		return frameError("rebind", err, "tick %d", s.ticks)
	}
	if err := s.validateView(); err != nil {
		return frameError("rebind", err, "tick %d", s.ticks)
	}
	return nil
}

func (s *Scheduler) validateView() error {
	if err := s.view.Validate(engineGeneration(s.engine)); err != nil {
		return err
	}
	if !s.view.Aliases(s.engine.FrameBuffer()) {
		return fmt.Errorf("%w: engine frame buffer moved", ErrStaleView)
	}
	return nil
}

// halt stops scheduling and leaves a visible diagnostic, since a frozen
// frame looks the same as an idle one.
func (s *Scheduler) halt(err *BridgeError) error {
	s.halted = err
	s.logger.Error("fatal frame error, loop halted", "error", err)
	cols := max(s.desc.ScreenWidth/7-2, 16)
	s.surface.DrawOverlay(wrapText("FATAL: "+err.Error(), cols))
	return err
}

func (s *Scheduler) debugLine() string {
	held := s.aggregator.Held()
	names := make([]string, len(held))
	for i, c := range held {
		if n := keyCodeName(c); n != "" {
			names[i] = n
		} else {
			names[i] = fmt.Sprint(c)
		}
	}
	return fmt.Sprintf("tick %d  held [%s]", s.ticks, strings.Join(names, " "))
}

// Events is where hosts push key and focus transitions.
func (s *Scheduler) Events() *EventQueue { return s.events }

func (s *Scheduler) Focus() *FocusController { return s.focus }

func (s *Scheduler) Aggregator() *InputAggregator { return s.aggregator }

func (s *Scheduler) View() *FrameView { return &s.view }

func (s *Scheduler) Descriptor() ScreenDescriptor { return s.desc }

func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Halted returns the fatal frame error that stopped the loop, if any.
func (s *Scheduler) Halted() error { return s.halted }

func wrapText(msg string, cols int) string {
	var b strings.Builder
	line := 0
	for i, word := range strings.Fields(msg) {
		if i > 0 {
			if line+1+len(word) > cols {
				b.WriteByte('\n')
				line = 0
			} else {
				b.WriteByte(' ')
				line++
			}
		}
		b.WriteString(word)
		line += len(word)
	}
	return b.String()
}
