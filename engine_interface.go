// engine_interface.go - Engine collaborator contract

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
	"math"
)

// InputCapacity is the fixed number of slots in the shared input vector.
const InputCapacity = 16

// BYTES_PER_PIXEL for the engine's RGBA8 frame buffer.
const BYTES_PER_PIXEL = 4

// ScreenDescriptor is read once from the engine at startup. The bridge keeps
// its own copy; later changes on the engine side are not observed.
type ScreenDescriptor struct {
	ScreenWidth      int     `yaml:"screen_width"`
	ScreenHeight     int     `yaml:"screen_height"`
	ProjectionWidth  int     `yaml:"projection_width"`
	ProjectionHeight int     `yaml:"projection_height"`
	Scale            float64 `yaml:"scale"`
}

// Validate rejects descriptors the bridge cannot display.
func (d ScreenDescriptor) Validate() error {
	switch {
	case d.ScreenWidth <= 0 || d.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen %dx%d", ErrInvalidDescriptor, d.ScreenWidth, d.ScreenHeight)
	case d.ProjectionWidth <= 0 || d.ProjectionHeight <= 0:
		return fmt.Errorf("%w: projection %dx%d", ErrInvalidDescriptor, d.ProjectionWidth, d.ProjectionHeight)
	case !(d.Scale > 0) || math.IsInf(d.Scale, 0):
		return fmt.Errorf("%w: scale %g", ErrInvalidDescriptor, d.Scale)
	case d.ProjectionWidth > d.ScreenWidth || d.ProjectionHeight > d.ScreenHeight:
		return fmt.Errorf("%w: projection %dx%d larger than screen %dx%d", ErrInvalidDescriptor,
			d.ProjectionWidth, d.ProjectionHeight, d.ScreenWidth, d.ScreenHeight)
	}
	return nil
}

// FrameBufferSize is the byte length the engine's pixel buffer must have.
func (d ScreenDescriptor) FrameBufferSize() int {
	return d.ProjectionWidth * d.ProjectionHeight * BYTES_PER_PIXEL
}

func (d ScreenDescriptor) String() string {
	return fmt.Sprintf("screen %dx%d projection %dx%d scale %g",
		d.ScreenWidth, d.ScreenHeight, d.ProjectionWidth, d.ProjectionHeight, d.Scale)
}

// Engine is the simulation the bridge drives. It owns the input vector and
// the frame buffer; the bridge only holds views into them.
type Engine interface {
	Descriptor() ScreenDescriptor
	InputBuffer() *[InputCapacity]uint32
	FrameBuffer() []byte
	// Tick advances one frame and overwrites the frame buffer in place.
	Tick() error
}

// MemoryGenerationReporter is implemented by engines that may reallocate
// their frame buffer. The generation must change on every reallocation.
type MemoryGenerationReporter interface {
	MemoryGeneration() uint64
}

func engineGeneration(e Engine) uint64 {
	if r, ok := e.(MemoryGenerationReporter); ok {
		return r.MemoryGeneration()
	}
	return 0
}
