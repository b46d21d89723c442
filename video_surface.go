// video_surface.go - Display surface contract and the pure Go image surface

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
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

// Half-pixel offset applied after scaling so point-sampled texels land on
// whole destination pixels.
const pixelCentreOffset = 0.5

var (
	overlayShade = color.RGBA{0, 0, 0, 160}
	overlayText  = color.RGBA{255, 255, 255, 255}
	debugText    = color.RGBA{0, 220, 90, 255}
)

// Surface is the drawable the bridge composites into.
type Surface interface {
	// Configure sizes the surface to the physical screen and installs the
	// scale/translate transform with smoothing disabled.
	Configure(desc ScreenDescriptor) error
	// Clear erases the logical projection rectangle under the transform.
	Clear(width, height int)
	// Composite draws the bound frame view through the physical-size
	// intermediate surface onto the visible one.
	Composite(view *FrameView) error
	DrawOverlay(message string)
	DebugText(message string)
}

// ImageSurface is a Surface backed by in-memory RGBA images. The headless
// runner and the tests composite through it.
type ImageSurface struct {
	desc      ScreenDescriptor
	visible   *image.RGBA
	offscreen *image.RGBA
	transform f64.Aff3
}

func NewImageSurface() *ImageSurface {
	return &ImageSurface{}
}

func (s *ImageSurface) Configure(desc ScreenDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	bounds := image.Rect(0, 0, desc.ScreenWidth, desc.ScreenHeight)
	s.desc = desc
	s.visible = image.NewRGBA(bounds)
	s.offscreen = image.NewRGBA(bounds)
	s.transform = f64.Aff3{
		desc.Scale, 0, pixelCentreOffset,
		0, desc.Scale, pixelCentreOffset,
	}
	return nil
}

func (s *ImageSurface) configured() bool {
	return s.visible != nil
}

func (s *ImageSurface) Clear(width, height int) {
	if !s.configured() {
		return
	}
	r := s.projectedRect(width, height)
	draw.Draw(s.visible, r, image.Transparent, image.Point{}, draw.Src)
}

// projectedRect maps a logical rectangle at the origin to the physical
// pixels it covers.
func (s *ImageSurface) projectedRect(width, height int) image.Rectangle {
	x1 := int(math.Ceil(float64(width)*s.desc.Scale + pixelCentreOffset))
	y1 := int(math.Ceil(float64(height)*s.desc.Scale + pixelCentreOffset))
	return image.Rect(0, 0, x1, y1).Intersect(s.visible.Bounds())
}

func (s *ImageSurface) Composite(view *FrameView) error {
	if !s.configured() {
		return ErrNoSurface
	}
	if !view.Bound() {
		return ErrUnbound
	}
	src := view.Image()
	w, h := view.Size()
	if w > s.desc.ScreenWidth || h > s.desc.ScreenHeight {
		return fmt.Errorf("projection %dx%d exceeds surface %dx%d", w, h, s.desc.ScreenWidth, s.desc.ScreenHeight)
	}
	// Raw pixels go in unscaled; the transform only applies to the second
	// stage.
	draw.Draw(s.offscreen, image.Rect(0, 0, w, h), src, image.Point{}, draw.Src)
	draw.NearestNeighbor.Transform(s.visible, s.transform, s.offscreen, s.offscreen.Bounds(), draw.Over, nil)
	return nil
}

func (s *ImageSurface) DrawOverlay(message string) {
	if !s.configured() {
		return
	}
	b := s.visible.Bounds()
	draw.Draw(s.visible, b, image.NewUniform(overlayShade), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	lines := strings.Split(message, "\n")
	lineH := face.Metrics().Height.Ceil()
	y := (b.Dy()-lineH*len(lines))/2 + face.Metrics().Ascent.Ceil()
	for _, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		s.drawString(line, (b.Dx()-w)/2, y, overlayText)
		y += lineH
	}
}

func (s *ImageSurface) DebugText(message string) {
	if !s.configured() {
		return
	}
	face := basicfont.Face7x13
	y := face.Metrics().Ascent.Ceil() + 2
	for _, line := range strings.Split(message, "\n") {
		s.drawString(line, 2, y, debugText)
		y += face.Metrics().Height.Ceil()
	}
}

func (s *ImageSurface) drawString(text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  s.visible,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Visible returns the composited physical surface.
func (s *ImageSurface) Visible() *image.RGBA {
	return s.visible
}

// Snapshot copies the visible surface.
func (s *ImageSurface) Snapshot() *image.RGBA {
	if !s.configured() {
		return nil
	}
	out := image.NewRGBA(s.visible.Bounds())
	copy(out.Pix, s.visible.Pix)
	return out
}
