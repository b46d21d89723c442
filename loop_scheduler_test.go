// loop_scheduler_test.go - Tests for bridge startup and loop ordering

package main

import (
	"context"
	"errors"
	"image/color"
	"io"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// fakeEngine records what it sees at each tick.
type fakeEngine struct {
	desc       ScreenDescriptor
	inputs     [InputCapacity]uint32
	frame      []byte
	generation uint64
	noInput    bool

	tickErr   error
	failAt    int
	ticks     int
	seen      [][InputCapacity]uint32
	onTick    func(e *fakeEngine)
	callOrder *[]string
}

func newFakeEngine(desc ScreenDescriptor) *fakeEngine {
	return &fakeEngine{desc: desc, frame: make([]byte, desc.FrameBufferSize())}
}

func (e *fakeEngine) Descriptor() ScreenDescriptor { return e.desc }

func (e *fakeEngine) InputBuffer() *[InputCapacity]uint32 {
	if e.noInput {
		return nil
	}
	return &e.inputs
}

func (e *fakeEngine) FrameBuffer() []byte { return e.frame }

func (e *fakeEngine) MemoryGeneration() uint64 { return e.generation }

func (e *fakeEngine) Tick() error {
	e.ticks++
	if e.callOrder != nil {
		*e.callOrder = append(*e.callOrder, "tick")
	}
	e.seen = append(e.seen, e.inputs)
	if e.onTick != nil {
		e.onTick(e)
	}
	if e.tickErr != nil && e.ticks >= e.failAt {
		return e.tickErr
	}
	return nil
}

// recordingSurface wraps an ImageSurface and logs calls.
type recordingSurface struct {
	*ImageSurface
	calls        []string
	overlays     []string
	configureErr error
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{ImageSurface: NewImageSurface()}
}

func (r *recordingSurface) Configure(desc ScreenDescriptor) error {
	r.calls = append(r.calls, "configure")
	if r.configureErr != nil {
		return r.configureErr
	}
	return r.ImageSurface.Configure(desc)
}

func (r *recordingSurface) Clear(w, h int) {
	r.calls = append(r.calls, "clear")
	r.ImageSurface.Clear(w, h)
}

func (r *recordingSurface) Composite(v *FrameView) error {
	r.calls = append(r.calls, "composite")
	return r.ImageSurface.Composite(v)
}

func (r *recordingSurface) DrawOverlay(msg string) {
	r.calls = append(r.calls, "overlay")
	r.overlays = append(r.overlays, msg)
	r.ImageSurface.DrawOverlay(msg)
}

var testDescriptor = ScreenDescriptor{
	ScreenWidth: 64, ScreenHeight: 48,
	ProjectionWidth: 32, ProjectionHeight: 24,
	Scale: 2,
}

func quietOptions() BridgeOptions {
	return BridgeOptions{Logger: log.New(io.Discard)}
}

func newTestBridge(t *testing.T, e *fakeEngine, s *recordingSurface) *Scheduler {
	t.Helper()
	b, err := NewBridge(e, s, quietOptions())
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	return b
}

func TestBridge_StartupErrors(t *testing.T) {
	bad := testDescriptor
	bad.Scale = 0
	nanScale := testDescriptor
	nanScale.Scale = math.NaN()
	infScale := testDescriptor
	infScale.Scale = math.Inf(1)
	negInfScale := testDescriptor
	negInfScale.Scale = math.Inf(-1)
	short := newFakeEngine(testDescriptor)
	short.frame = short.frame[:len(short.frame)-1]
	noInput := newFakeEngine(testDescriptor)
	noInput.noInput = true
	failing := newRecordingSurface()
	failing.configureErr = errors.New("no canvas")

	tests := []struct {
		name    string
		engine  Engine
		surface Surface
		want    error
	}{
		{"nil engine", nil, newRecordingSurface(), ErrNoEngine},
		{"nil surface", newFakeEngine(testDescriptor), nil, ErrNoSurface},
		{"invalid descriptor", newFakeEngine(bad), newRecordingSurface(), ErrInvalidDescriptor},
		{"NaN scale", newFakeEngine(nanScale), newRecordingSurface(), ErrInvalidDescriptor},
		{"+Inf scale", newFakeEngine(infScale), newRecordingSurface(), ErrInvalidDescriptor},
		{"-Inf scale", newFakeEngine(negInfScale), newRecordingSurface(), ErrInvalidDescriptor},
		{"short frame buffer", short, newRecordingSurface(), ErrBufferLength},
		{"no input vector", noInput, newRecordingSurface(), ErrNoInputBuffer},
		{"surface configure", newFakeEngine(testDescriptor), failing, failing.configureErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBridge(tt.engine, tt.surface, quietOptions())
			if b != nil {
				t.Fatal("expected no bridge")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var be *BridgeError
			if !errors.As(err, &be) || be.Kind != KindStartup {
				t.Fatalf("expected a startup BridgeError, got %#v", err)
			}
			if IsFatalFrame(err) {
				t.Fatal("startup error reported as frame error")
			}
		})
	}
}

func TestBridge_IterationOrder(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	s := newRecordingSurface()
	b := newTestBridge(t, e, s)

	order := &s.calls
	e.callOrder = order
	*order = nil

	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	want := []string{"clear", "tick", "composite"}
	if !slices.Equal(*order, want) {
		t.Fatalf("expected %v, got %v", want, *order)
	}
}

func TestBridge_InputVisibleAtTick(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	b := newTestBridge(t, e, newRecordingSurface())

	b.Events().Push(KeyDownEvent(KeyCodeArrowUp), KeyDownEvent(KeyCodeArrowLeft))
	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	b.Events().Push(KeyUpEvent(KeyCodeArrowUp))
	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	first := [InputCapacity]uint32{KeyCodeArrowUp, KeyCodeArrowLeft}
	second := [InputCapacity]uint32{KeyCodeArrowLeft}
	if e.seen[0] != first {
		t.Fatalf("tick 1 expected %v, got %v", first, e.seen[0])
	}
	if e.seen[1] != second {
		t.Fatalf("tick 2 expected %v, got %v", second, e.seen[1])
	}
}

func TestBridge_PausedSkipsTickAndComposite(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	s := newRecordingSurface()
	b := newTestBridge(t, e, s)
	s.calls = nil

	b.Events().Push(BlurEvent())
	for range 5 {
		if err := b.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if e.ticks != 0 {
		t.Fatalf("expected no ticks while paused, got %d", e.ticks)
	}
	if !slices.Equal(s.calls, []string{"overlay"}) {
		t.Fatalf("expected only one overlay while paused, got %v", s.calls)
	}

	b.Events().Push(BlurEvent(), FocusEvent())
	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if e.ticks != 1 || b.Focus().State() != StateRunning {
		t.Fatalf("expected resume with one tick, got ticks=%d state=%s", e.ticks, b.Focus().State())
	}
	if b.Focus().OverlayCount() != 1 {
		t.Fatalf("blur while paused drew again: %d overlays", b.Focus().OverlayCount())
	}
}

func TestBridge_KeysHeldAcrossPause(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	b := newTestBridge(t, e, newRecordingSurface())

	b.Events().Push(KeyDownEvent(65), BlurEvent(), KeyUpEvent(65), KeyDownEvent(66), FocusEvent())
	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	want := [InputCapacity]uint32{66}
	if e.seen[0] != want {
		t.Fatalf("expected %v, got %v", want, e.seen[0])
	}
}

func TestBridge_LongRunBindsOnce(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	b := newTestBridge(t, e, newRecordingSurface())

	if err := b.Run(context.Background(), NewCountedClock(10000, nil)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if b.Ticks() != 10000 || e.ticks != 10000 {
		t.Fatalf("expected 10000 ticks, got bridge=%d engine=%d", b.Ticks(), e.ticks)
	}
	if b.View().Binds() != 1 {
		t.Fatalf("expected a single bind, got %d", b.View().Binds())
	}
}

func TestBridge_TickErrorHaltsWithDiagnostic(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	e.tickErr = errors.New("out of memory")
	e.failAt = 3
	s := newRecordingSurface()
	b := newTestBridge(t, e, s)

	err := b.Run(context.Background(), NewCountedClock(10, nil))
	if !IsFatalFrame(err) {
		t.Fatalf("expected fatal frame error, got %v", err)
	}
	if !errors.Is(err, e.tickErr) {
		t.Fatalf("expected wrapped tick error, got %v", err)
	}
	if e.ticks != 3 {
		t.Fatalf("expected loop to stop at tick 3, got %d", e.ticks)
	}
	if len(s.overlays) != 1 || !strings.HasPrefix(s.overlays[0], "FATAL:") {
		t.Fatalf("expected FATAL overlay, got %q", s.overlays)
	}
	if !errors.Is(b.Step(), e.tickErr) || e.ticks != 3 {
		t.Fatal("halted bridge must not tick again")
	}
	if b.Halted() == nil {
		t.Fatal("expected Halted to report the error")
	}
}

func TestBridge_ReallocationRebinds(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	b := newTestBridge(t, e, newRecordingSurface())

	e.onTick = func(e *fakeEngine) {
		if e.ticks == 2 {
			e.frame = make([]byte, e.desc.FrameBufferSize())
			e.frame[0] = 0xAB
			e.generation++
		}
	}
	for range 3 {
		if err := b.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if b.View().Binds() != 2 {
		t.Fatalf("expected one rebind, got %d binds", b.View().Binds())
	}
	if b.View().Image().Pix[0] != 0xAB {
		t.Fatal("view still points at the old buffer")
	}
}

func TestBridge_ReallocationWithBadLengthIsFatal(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	s := newRecordingSurface()
	b := newTestBridge(t, e, s)

	e.onTick = func(e *fakeEngine) {
		e.frame = make([]byte, 8)
		e.generation++
	}
	err := b.Step()
	if !IsFatalFrame(err) || !errors.Is(err, ErrBufferLength) {
		t.Fatalf("expected fatal ErrBufferLength, got %v", err)
	}
	if slices.Contains(s.calls, "composite") {
		t.Fatal("composited from a stale view")
	}
}

func TestBridge_RunStopsOnCancel(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	b := newTestBridge(t, e, newRecordingSurface())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := b.Run(ctx, NewCountedClock(5, nil)); err != nil {
		t.Fatalf("expected clean stop, got %v", err)
	}
	if e.ticks != 0 {
		t.Fatalf("expected no ticks after cancel, got %d", e.ticks)
	}
}

func TestBridge_DebugText(t *testing.T) {
	e := newFakeEngine(testDescriptor)
	opts := quietOptions()
	opts.DebugText = true
	b, err := NewBridge(e, newRecordingSurface(), opts)
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	b.Events().Push(KeyDownEvent(KeyCodeArrowUp), KeyDownEvent(500))
	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got, want := b.debugLine(), "tick 1  held [ArrowUp 500]"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

// swappingEngine replaces its frame buffer without reporting a memory
// generation.
type swappingEngine struct {
	desc   ScreenDescriptor
	inputs [InputCapacity]uint32
	frame  []byte
	swapAt int
	ticks  int
}

func (e *swappingEngine) Descriptor() ScreenDescriptor { return e.desc }

func (e *swappingEngine) InputBuffer() *[InputCapacity]uint32 { return &e.inputs }

func (e *swappingEngine) FrameBuffer() []byte { return e.frame }

func (e *swappingEngine) Tick() error {
	e.ticks++
	if e.ticks == e.swapAt {
		e.frame = make([]byte, e.desc.FrameBufferSize())
	}
	// Red channel of the first pixel carries the tick number.
	e.frame[0], e.frame[3] = byte(e.ticks), 255
	return nil
}

func TestBridge_SwappedBufferWithoutGenerationRebinds(t *testing.T) {
	e := &swappingEngine{desc: testDescriptor, frame: make([]byte, testDescriptor.FrameBufferSize()), swapAt: 2}
	s := newRecordingSurface()
	b, err := NewBridge(e, s, quietOptions())
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	for range 3 {
		if err := b.Step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if b.View().Binds() != 2 {
		t.Fatalf("expected one rebind, got %d binds", b.View().Binds())
	}
	if got := s.Visible().RGBAAt(0, 0).R; got != 3 {
		t.Fatalf("expected the pixel from tick 3, composited R=%d", got)
	}
}

func TestBridge_SwappedBufferWithBadLengthIsFatal(t *testing.T) {
	e := &swappingEngine{desc: testDescriptor, frame: make([]byte, testDescriptor.FrameBufferSize()), swapAt: 1}
	s := newRecordingSurface()
	b, err := NewBridge(e, s, quietOptions())
	if err != nil {
		t.Fatalf("NewBridge: %v", err)
	}
	e.desc.ProjectionWidth--
	err = b.Step()
	if !IsFatalFrame(err) || !errors.Is(err, ErrBufferLength) {
		t.Fatalf("expected fatal ErrBufferLength, got %v", err)
	}
	if slices.Contains(s.calls, "composite") {
		t.Fatal("composited from a stale view")
	}
}

// One tick through the whole bridge: a red engine pixel at (0,0) becomes a
// 2x2 block on a 320x200 surface.
func TestBridge_StepCompositesScaledFrame(t *testing.T) {
	desc := ScreenDescriptor{
		ScreenWidth: 320, ScreenHeight: 200,
		ProjectionWidth: 160, ProjectionHeight: 100,
		Scale: 2,
	}
	e := newFakeEngine(desc)
	e.onTick = func(e *fakeEngine) {
		fillFrame(e.frame, opaqueBlack)
		setPixel(e.frame, 160, 0, 0, opaqueRed)
	}
	s := newRecordingSurface()
	b := newTestBridge(t, e, s)

	b.Events().Push(KeyDownEvent(KeyCodeSpace))
	if err := b.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if e.seen[0][0] != KeyCodeSpace {
		t.Fatalf("expected input serialized before tick, got %v", e.seen[0])
	}

	vis := s.Visible()
	for y := range 4 {
		for x := range 4 {
			want := opaqueBlack
			if x < 2 && y < 2 {
				want = opaqueRed
			}
			if got := vis.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) expected %v, got %v", x, y, want, got)
			}
		}
	}
	if got := vis.RGBAAt(319, 199); got != (color.RGBA{0, 0, 0, 255}) {
		t.Fatalf("expected black in the far corner, got %v", got)
	}
}
