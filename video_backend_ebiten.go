//go:build !headless

// video_backend_ebiten.go - Ebiten window host and surface

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
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// EbitenSurface composites into an ebiten image sized to the physical
// screen. The host draws that image onto the window each Draw.
type EbitenSurface struct {
	mu        sync.Mutex
	desc      ScreenDescriptor
	visible   *ebiten.Image
	offscreen *ebiten.Image
	opts      ebiten.DrawImageOptions
	debug     string
}

func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{}
}

func (s *EbitenSurface) Configure(desc ScreenDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible != nil {
		s.visible.Deallocate()
		s.offscreen.Deallocate()
	}
	s.desc = desc
	s.visible = ebiten.NewImage(desc.ScreenWidth, desc.ScreenHeight)
	s.offscreen = ebiten.NewImage(desc.ScreenWidth, desc.ScreenHeight)
	s.opts = ebiten.DrawImageOptions{}
	s.opts.GeoM.Scale(desc.Scale, desc.Scale)
	s.opts.GeoM.Translate(pixelCentreOffset, pixelCentreOffset)
	s.opts.Filter = ebiten.FilterNearest
	return nil
}

func (s *EbitenSurface) Clear(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == nil {
		return
	}
	x1, y1 := s.opts.GeoM.Apply(float64(width), float64(height))
	r := image.Rect(0, 0, int(x1+0.999), int(y1+0.999)).Intersect(s.visible.Bounds())
	s.visible.SubImage(r).(*ebiten.Image).Clear()
	s.debug = ""
}

func (s *EbitenSurface) Composite(view *FrameView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == nil {
		return ErrNoSurface
	}
	if !view.Bound() {
		return ErrUnbound
	}
	w, h := view.Size()
	if w > s.desc.ScreenWidth || h > s.desc.ScreenHeight {
		return fmt.Errorf("projection %dx%d exceeds surface %dx%d", w, h, s.desc.ScreenWidth, s.desc.ScreenHeight)
	}
	// WritePixels ignores GeoM, hence the unscaled intermediate.
	stage := s.offscreen.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
	stage.WritePixels(view.Image().Pix)
	s.visible.DrawImage(s.offscreen, &s.opts)
	return nil
}

func (s *EbitenSurface) DrawOverlay(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The overlay replaces the frame, debug line included.
	s.debug = ""
	if s.visible == nil {
		return
	}
	b := s.visible.Bounds()
	vector.DrawFilledRect(s.visible, 0, 0, float32(b.Dx()), float32(b.Dy()), overlayShade, false)

	face := basicfont.Face7x13
	lineH := face.Metrics().Height.Ceil()
	lines := strings.Split(message, "\n")
	y := (b.Dy()-lineH*len(lines))/2 + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		w := text.BoundString(face, line).Dx()
		text.Draw(s.visible, line, face, (b.Dx()-w)/2, y, overlayText)
		y += lineH
	}
}

// DebugText is kept until the next Clear or overlay and printed on top of
// the frame in Draw.
func (s *EbitenSurface) DebugText(message string) {
	s.mu.Lock()
	s.debug = message
	s.mu.Unlock()
}

func (s *EbitenSurface) present(screen *ebiten.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == nil {
		return
	}
	screen.DrawImage(s.visible, nil)
	if s.debug != "" {
		ebitenutil.DebugPrintAt(screen, s.debug, 2, 2)
	}
}

func (s *EbitenSurface) snapshotPNG() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible == nil {
		return nil, ErrNoSurface
	}
	b := s.visible.Bounds()
	img := image.NewRGBA(b)
	s.visible.ReadPixels(img.Pix)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EbitenHost adapts ebiten's callback loop to the scheduler's FrameClock.
// Update hands one frame to the loop goroutine and blocks until that
// iteration has finished, so at most one iteration is ever in flight.
type EbitenHost struct {
	surface   *EbitenSurface
	events    *EventQueue
	logger    *log.Logger
	frameReq  chan struct{}
	frameDone chan struct{}
	loopDone  chan struct{}
	finish    sync.Once
	inFlight  bool
	focused   bool
	keys      []ebiten.Key

	clipboardOnce sync.Once
	clipboardOK   bool
}

func NewEbitenHost(surface *EbitenSurface, logger *log.Logger) *EbitenHost {
	return &EbitenHost{
		surface:   surface,
		logger:    logger,
		frameReq:  make(chan struct{}),
		frameDone: make(chan struct{}, 1),
		loopDone:  make(chan struct{}),
		focused:   true,
	}
}

// Attach routes host events into the bridge's queue. Must be called before
// RunGame.
func (h *EbitenHost) Attach(events *EventQueue) {
	h.events = events
}

// NextFrame implements FrameClock. It completes the previous iteration's
// handshake, then waits for ebiten's next Update.
func (h *EbitenHost) NextFrame(ctx context.Context) error {
	if h.inFlight {
		h.inFlight = false
		h.frameDone <- struct{}{}
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-h.frameReq:
		h.inFlight = true
		return nil
	}
}

// Finish releases Update once the loop has returned. The window stays open
// showing whatever the loop drew last.
func (h *EbitenHost) Finish() {
	h.finish.Do(func() { close(h.loopDone) })
}

func (h *EbitenHost) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	h.pollFocus()
	h.pollKeys()
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		h.copyFrameToClipboard()
	}

	select {
	case <-h.loopDone:
		return nil
	case h.frameReq <- struct{}{}:
	}
	select {
	case <-h.frameDone:
	case <-h.loopDone:
	}
	return nil
}

func (h *EbitenHost) pollFocus() {
	focused := ebiten.IsFocused()
	if focused == h.focused {
		return
	}
	h.focused = focused
	if h.events == nil {
		return
	}
	if focused {
		h.events.Push(FocusEvent())
	} else {
		h.events.Push(BlurEvent())
	}
}

func (h *EbitenHost) pollKeys() {
	if h.events == nil {
		return
	}
	h.keys = inpututil.AppendJustPressedKeys(h.keys[:0])
	for _, k := range h.keys {
		if code, ok := translateEbitenKey(k); ok {
			h.events.Push(KeyDownEvent(code))
		}
	}
	h.keys = inpututil.AppendJustReleasedKeys(h.keys[:0])
	for _, k := range h.keys {
		if code, ok := translateEbitenKey(k); ok {
			h.events.Push(KeyUpEvent(code))
		}
	}
}

func (h *EbitenHost) copyFrameToClipboard() {
	h.clipboardOnce.Do(func() {
		h.clipboardOK = clipboard.Init() == nil
	})
	if !h.clipboardOK {
		h.logger.Warn("clipboard unavailable, screenshot skipped")
		return
	}
	data, err := h.surface.snapshotPNG()
	if err != nil {
		h.logger.Warn("screenshot failed", "error", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
	h.logger.Info("frame copied to clipboard", "bytes", len(data))
}

func (h *EbitenHost) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	h.surface.present(screen)
}

func (h *EbitenHost) Layout(_, _ int) (int, int) {
	h.surface.mu.Lock()
	defer h.surface.mu.Unlock()
	return h.surface.desc.ScreenWidth, h.surface.desc.ScreenHeight
}

// translateEbitenKey maps a physical key to the code written into the
// engine input vector.
func translateEbitenKey(key ebiten.Key) (uint32, bool) {
	switch key {
	case ebiten.KeyEnter, ebiten.KeyNumpadEnter:
		return KeyCodeEnter, true
	case ebiten.KeyShiftLeft, ebiten.KeyShiftRight:
		return KeyCodeShift, true
	case ebiten.KeyControlLeft, ebiten.KeyControlRight:
		return KeyCodeControl, true
	case ebiten.KeyEscape:
		return KeyCodeEscape, true
	case ebiten.KeySpace:
		return KeyCodeSpace, true
	case ebiten.KeyArrowLeft:
		return KeyCodeArrowLeft, true
	case ebiten.KeyArrowUp:
		return KeyCodeArrowUp, true
	case ebiten.KeyArrowRight:
		return KeyCodeArrowRight, true
	case ebiten.KeyArrowDown:
		return KeyCodeArrowDown, true
	}
	for i, k := range digitKeys {
		if k == key {
			return KeyCodeDigit0 + uint32(i), true
		}
	}
	for i, k := range letterKeys {
		if k == key {
			return KeyCodeA + uint32(i), true
		}
	}
	return 0, false
}

var digitKeys = [...]ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

var letterKeys = [...]ebiten.Key{
	ebiten.KeyA, ebiten.KeyB, ebiten.KeyC, ebiten.KeyD, ebiten.KeyE, ebiten.KeyF, ebiten.KeyG,
	ebiten.KeyH, ebiten.KeyI, ebiten.KeyJ, ebiten.KeyK, ebiten.KeyL, ebiten.KeyM, ebiten.KeyN,
	ebiten.KeyO, ebiten.KeyP, ebiten.KeyQ, ebiten.KeyR, ebiten.KeyS, ebiten.KeyT, ebiten.KeyU,
	ebiten.KeyV, ebiten.KeyW, ebiten.KeyX, ebiten.KeyY, ebiten.KeyZ,
}

// runWindow opens the window on the calling goroutine and runs the bridge
// loop on a second one.
func runWindow(engine Engine, cfg Config, logger *log.Logger) error {
	surface := NewEbitenSurface()
	bridge, err := NewBridge(engine, surface, BridgeOptions{
		OverlayMessage: cfg.Window.OverlayMessage,
		DebugText:      cfg.Window.DebugText,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	host := NewEbitenHost(surface, logger)
	host.Attach(bridge.Events())

	desc := bridge.Descriptor()
	ebiten.SetWindowSize(desc.ScreenWidth, desc.ScreenHeight)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetVsyncEnabled(true)
	// Update must keep running while unfocused so the focus event that
	// resumes the loop is seen.
	ebiten.SetRunnableOnUnfocused(true)

	ctx, cancel := context.WithCancel(context.Background())
	loopErr := make(chan error, 1)
	go func() {
		defer host.Finish()
		loopErr <- bridge.Run(ctx, host)
	}()

	runErr := ebiten.RunGame(host)
	cancel()
	if err := <-loopErr; err != nil {
		return err
	}
	return runErr
}
