// video_frame_view.go - Non-owning view over the engine frame buffer

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
)

// FrameView wraps engine-owned pixel memory as an RGBA image without copying.
// The memory can be reallocated by the engine, so the view remembers the
// generation it was bound at and refuses to be read once that changes.
type FrameView struct {
	img        image.RGBA
	generation uint64
	bound      bool
	binds      uint64
}

// Bind points the view at buf, which must hold width*height RGBA8 pixels.
func (v *FrameView) Bind(buf []byte, width, height int, generation uint64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDescriptor, width, height)
	}
	want := width * height * BYTES_PER_PIXEL
	if len(buf) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %dx%d", ErrBufferLength, len(buf), want, width, height)
	}
	v.img = image.RGBA{
		Pix:    buf,
		Stride: width * BYTES_PER_PIXEL,
		Rect:   image.Rect(0, 0, width, height),
	}
	v.generation = generation
	v.bound = true
	v.binds++
	return nil
}

// Reacquire re-fetches the buffer and generation from the engine, keeping
// the bound dimensions.
func (v *FrameView) Reacquire(e Engine) error {
	if !v.bound {
		return ErrUnbound
	}
	w, h := v.img.Rect.Dx(), v.img.Rect.Dy()
	return v.Bind(e.FrameBuffer(), w, h, engineGeneration(e))
}

// Validate reports ErrStaleView if the engine's memory generation moved
// since the view was bound.
func (v *FrameView) Validate(current uint64) error {
	if !v.bound {
		return ErrUnbound
	}
	if current != v.generation {
		return fmt.Errorf("%w: bound at generation %d, engine at %d", ErrStaleView, v.generation, current)
	}
	return nil
}

// Image returns the view as an RGBA image aliasing the engine memory. It is
// only valid until the next reallocation.
func (v *FrameView) Image() *image.RGBA {
	return &v.img
}

func (v *FrameView) Size() (int, int) {
	return v.img.Rect.Dx(), v.img.Rect.Dy()
}

func (v *FrameView) Bound() bool {
	return v.bound
}

// Aliases reports whether the view still points at buf. Engines that do not
// report a memory generation are checked this way.
func (v *FrameView) Aliases(buf []byte) bool {
	if len(buf) != len(v.img.Pix) {
		return false
	}
	return len(buf) == 0 || &buf[0] == &v.img.Pix[0]
}

// Binds counts successful Bind calls, including the initial one.
func (v *FrameView) Binds() uint64 {
	return v.binds
}
