// video_surface_test.go - Tests for the frame view and image surface composite

package main

import (
	"errors"
	"image/color"
	"testing"
)

var (
	opaqueBlack = color.RGBA{0, 0, 0, 255}
	opaqueRed   = color.RGBA{255, 0, 0, 255}
)

func fillFrame(buf []byte, c color.RGBA) {
	for i := 0; i < len(buf); i += BYTES_PER_PIXEL {
		buf[i], buf[i+1], buf[i+2], buf[i+3] = c.R, c.G, c.B, c.A
	}
}

func setPixel(buf []byte, width, x, y int, c color.RGBA) {
	off := (y*width + x) * BYTES_PER_PIXEL
	buf[off], buf[off+1], buf[off+2], buf[off+3] = c.R, c.G, c.B, c.A
}

func newTestSurface(t *testing.T, desc ScreenDescriptor) *ImageSurface {
	t.Helper()
	s := NewImageSurface()
	if err := s.Configure(desc); err != nil {
		t.Fatalf("configure: %v", err)
	}
	return s
}

func TestFrameView_BindRejectsWrongLength(t *testing.T) {
	var v FrameView
	err := v.Bind(make([]byte, 10), 2, 2, 0)
	if !errors.Is(err, ErrBufferLength) {
		t.Fatalf("expected ErrBufferLength, got %v", err)
	}
	if v.Bound() {
		t.Fatal("view should stay unbound")
	}
}

func TestFrameView_AliasesBuffer(t *testing.T) {
	buf := make([]byte, 4*3*BYTES_PER_PIXEL)
	var v FrameView
	if err := v.Bind(buf, 4, 3, 0); err != nil {
		t.Fatalf("bind: %v", err)
	}
	setPixel(buf, 4, 2, 1, opaqueRed)
	if got := v.Image().RGBAAt(2, 1); got != opaqueRed {
		t.Fatalf("view did not see engine write, got %v", got)
	}
	if w, h := v.Size(); w != 4 || h != 3 {
		t.Fatalf("expected 4x3, got %dx%d", w, h)
	}
}

func TestFrameView_ValidateGeneration(t *testing.T) {
	var v FrameView
	if err := v.Validate(0); !errors.Is(err, ErrUnbound) {
		t.Fatalf("expected ErrUnbound, got %v", err)
	}
	if err := v.Bind(make([]byte, BYTES_PER_PIXEL), 1, 1, 7); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := v.Validate(7); err != nil {
		t.Fatalf("expected valid view, got %v", err)
	}
	if err := v.Validate(8); !errors.Is(err, ErrStaleView) {
		t.Fatalf("expected ErrStaleView, got %v", err)
	}
}

func TestFrameView_Aliases(t *testing.T) {
	buf := make([]byte, 2*2*BYTES_PER_PIXEL)
	var v FrameView
	if err := v.Bind(buf, 2, 2, 0); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !v.Aliases(buf) {
		t.Fatal("expected the bound buffer to match")
	}
	if v.Aliases(make([]byte, len(buf))) {
		t.Fatal("a different buffer of the same length must not match")
	}
	if v.Aliases(buf[:len(buf)-BYTES_PER_PIXEL]) {
		t.Fatal("a shorter slice of the same memory must not match")
	}
}

// Every source texel must land on exactly one scale x scale block of
// destination pixels.
func TestImageSurface_NearestBlocks(t *testing.T) {
	for _, scale := range []int{1, 2, 4} {
		const pw, ph = 8, 6
		desc := ScreenDescriptor{
			ScreenWidth: pw * scale, ScreenHeight: ph * scale,
			ProjectionWidth: pw, ProjectionHeight: ph,
			Scale: float64(scale),
		}
		s := newTestSurface(t, desc)

		buf := make([]byte, desc.FrameBufferSize())
		for y := range ph {
			for x := range pw {
				setPixel(buf, pw, x, y, color.RGBA{uint8(x * 30), uint8(y * 40), uint8(x + y), 255})
			}
		}
		var v FrameView
		if err := v.Bind(buf, pw, ph, 0); err != nil {
			t.Fatalf("bind: %v", err)
		}
		s.Clear(pw, ph)
		if err := s.Composite(&v); err != nil {
			t.Fatalf("scale %d: composite: %v", scale, err)
		}

		vis := s.Visible()
		for dy := range ph * scale {
			for dx := range pw * scale {
				want := v.Image().RGBAAt(dx/scale, dy/scale)
				if got := vis.RGBAAt(dx, dy); got != want {
					t.Fatalf("scale %d: pixel (%d,%d) expected %v, got %v", scale, dx, dy, want, got)
				}
			}
		}
	}
}

func TestImageSurface_RedPixelBecomesBlock(t *testing.T) {
	desc := ScreenDescriptor{
		ScreenWidth: 320, ScreenHeight: 200,
		ProjectionWidth: 160, ProjectionHeight: 100,
		Scale: 2,
	}
	s := newTestSurface(t, desc)
	buf := make([]byte, desc.FrameBufferSize())
	fillFrame(buf, opaqueBlack)
	setPixel(buf, 160, 0, 0, opaqueRed)

	var v FrameView
	if err := v.Bind(buf, 160, 100, 0); err != nil {
		t.Fatalf("bind: %v", err)
	}
	s.Clear(160, 100)
	if err := s.Composite(&v); err != nil {
		t.Fatalf("composite: %v", err)
	}

	vis := s.Visible()
	for _, p := range [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if got := vis.RGBAAt(p[0], p[1]); got != opaqueRed {
			t.Fatalf("pixel %v expected red, got %v", p, got)
		}
	}
	for _, p := range [][2]int{{2, 0}, {0, 2}, {2, 2}, {319, 199}, {160, 100}} {
		if got := vis.RGBAAt(p[0], p[1]); got != opaqueBlack {
			t.Fatalf("pixel %v expected black, got %v", p, got)
		}
	}
}

func TestImageSurface_ClearRemovesPreviousFrame(t *testing.T) {
	desc := ScreenDescriptor{ScreenWidth: 8, ScreenHeight: 8, ProjectionWidth: 4, ProjectionHeight: 4, Scale: 2}
	s := newTestSurface(t, desc)
	s.DrawOverlay("x")
	s.Clear(4, 4)

	for y := range 8 {
		for x := range 8 {
			if got := s.Visible().RGBAAt(x, y); got != (color.RGBA{}) {
				t.Fatalf("pixel (%d,%d) not cleared: %v", x, y, got)
			}
		}
	}
}

func TestImageSurface_CompositeUnbound(t *testing.T) {
	s := newTestSurface(t, ScreenDescriptor{ScreenWidth: 4, ScreenHeight: 4, ProjectionWidth: 2, ProjectionHeight: 2, Scale: 2})
	var v FrameView
	if err := s.Composite(&v); !errors.Is(err, ErrUnbound) {
		t.Fatalf("expected ErrUnbound, got %v", err)
	}
}

func TestImageSurface_NotConfigured(t *testing.T) {
	s := NewImageSurface()
	s.Clear(4, 4)
	s.DrawOverlay("ignored")
	s.DebugText("ignored")
	if s.Snapshot() != nil {
		t.Fatal("expected nil snapshot before Configure")
	}
	var v FrameView
	if err := s.Composite(&v); !errors.Is(err, ErrNoSurface) {
		t.Fatalf("expected ErrNoSurface, got %v", err)
	}
}

func TestImageSurface_OverlayShadesAndWrites(t *testing.T) {
	desc := ScreenDescriptor{ScreenWidth: 160, ScreenHeight: 100, ProjectionWidth: 80, ProjectionHeight: 50, Scale: 2}
	s := newTestSurface(t, desc)
	s.DrawOverlay(defaultOverlayMessage)

	vis := s.Visible()
	if got := vis.RGBAAt(0, 0); got.A == 0 {
		t.Fatal("expected the overlay shade in the corner")
	}
	white := 0
	for i := 0; i < len(vis.Pix); i += 4 {
		if vis.Pix[i] == 255 && vis.Pix[i+1] == 255 && vis.Pix[i+2] == 255 {
			white++
		}
	}
	if white == 0 {
		t.Fatal("expected overlay text pixels")
	}
}

func TestImageSurface_SnapshotIsACopy(t *testing.T) {
	s := newTestSurface(t, ScreenDescriptor{ScreenWidth: 4, ScreenHeight: 4, ProjectionWidth: 2, ProjectionHeight: 2, Scale: 2})
	snap := s.Snapshot()
	snap.SetRGBA(0, 0, opaqueRed)
	if got := s.Visible().RGBAAt(0, 0); got == opaqueRed {
		t.Fatal("snapshot aliases the visible surface")
	}
}
