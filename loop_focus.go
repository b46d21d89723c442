// loop_focus.go - Focus/pause state machine gating the loop

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

// LoopState is owned by FocusController; the scheduler only reads it.
type LoopState int

const (
	StateRunning LoopState = iota
	StatePaused
)

func (s LoopState) String() string {
	if s == StatePaused {
		return "paused"
	}
	return "running"
}

const defaultOverlayMessage = "Click to focus"

// OverlayRenderer draws the paused overlay.
type OverlayRenderer interface {
	DrawOverlay(message string)
}

// FocusController pauses the loop while the surface is unfocused. The
// overlay is drawn once, at the moment of pausing.
type FocusController struct {
	state    LoopState
	overlay  OverlayRenderer
	message  string
	overlays int
}

func NewFocusController(overlay OverlayRenderer, message string) *FocusController {
	if message == "" {
		message = defaultOverlayMessage
	}
	return &FocusController{state: StateRunning, overlay: overlay, message: message}
}

// OnBlur pauses a running loop. Blur while paused does nothing.
func (f *FocusController) OnBlur() {
	if f.state != StateRunning {
		return
	}
	f.state = StatePaused
	if f.overlay != nil {
		f.overlay.DrawOverlay(f.message)
	}
	f.overlays++
}

func (f *FocusController) OnFocus() {
	f.state = StateRunning
}

func (f *FocusController) State() LoopState {
	return f.state
}

// OverlayCount is the number of overlays drawn so far.
func (f *FocusController) OverlayCount() int {
	return f.overlays
}
