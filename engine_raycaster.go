// engine_raycaster.go - Reference raycasting engine driven through the bridge

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
engine_raycaster.go - Reference engine

A small grid raycaster that implements the Engine contract so the bridge has
something real to drive. It reads the arrow key codes from its input vector,
moves the player with wall collision and renders one textured wall column per
projection column straight into its RGBA frame buffer.
*/

package main

import (
	"fmt"
	"math"
)

// EngineConfig holds the reference engine's world and tuning parameters.
type EngineConfig struct {
	ScreenWidth   int     `yaml:"screen_width"`
	ScreenHeight  int     `yaml:"screen_height"`
	Scale         float64 `yaml:"scale"`
	FOV           float64 `yaml:"fov"`
	Precision     float64 `yaml:"precision"`
	PlayerX       float64 `yaml:"player_x"`
	PlayerY       float64 `yaml:"player_y"`
	PlayerAngle   float64 `yaml:"player_angle"`
	MoveSpeed     float64 `yaml:"move_speed"`
	RotationSpeed float64 `yaml:"rotation_speed"`
	PlayerRadius  float64 `yaml:"player_radius"`
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ScreenWidth:   640,
		ScreenHeight:  480,
		Scale:         4,
		FOV:           60,
		Precision:     64,
		PlayerX:       2,
		PlayerY:       2,
		PlayerAngle:   90,
		MoveSpeed:     0.05,
		RotationSpeed: 3,
		PlayerRadius:  10,
	}
}

var raycastMap = [][]uint8{
	{2, 2, 1, 1, 1, 2, 2, 2, 2, 2},
	{2, 0, 0, 0, 0, 0, 0, 0, 0, 2},
	{2, 0, 0, 0, 0, 0, 0, 0, 0, 2},
	{2, 0, 0, 1, 1, 0, 2, 0, 0, 2},
	{2, 0, 0, 2, 0, 0, 2, 0, 0, 2},
	{2, 0, 0, 2, 0, 0, 2, 0, 0, 2},
	{2, 0, 0, 2, 0, 2, 2, 0, 0, 2},
	{2, 0, 0, 0, 0, 0, 0, 0, 0, 2},
	{2, 0, 0, 0, 0, 0, 0, 0, 0, 2},
	{2, 2, 2, 2, 2, 2, 2, 2, 2, 2},
}

var (
	skyColour   = [4]byte{0, 0, 0, 255}
	floorColour = [4]byte{95, 87, 79, 255}
)

// raycastTexture is a paletted bitmap, row-major.
type raycastTexture struct {
	width, height int
	bitmap        []uint8
	palette       [][4]byte
}

func (t *raycastTexture) at(x, y int) [4]byte {
	return t.palette[t.bitmap[y*t.width+x]]
}

func brickTexture() raycastTexture {
	return raycastTexture{
		width:  8,
		height: 8,
		bitmap: []uint8{
			1, 1, 1, 1, 1, 1, 1, 1,
			0, 0, 0, 1, 0, 0, 0, 1,
			1, 1, 1, 1, 1, 1, 1, 1,
			0, 1, 0, 0, 0, 1, 0, 0,
			1, 1, 1, 1, 1, 1, 1, 1,
			0, 0, 0, 1, 0, 0, 0, 1,
			1, 1, 1, 1, 1, 1, 1, 1,
			0, 1, 0, 0, 0, 1, 0, 0,
		},
		palette: [][4]byte{{0, 0, 0, 255}, {255, 255, 255, 255}},
	}
}

func checkerTexture() raycastTexture {
	const size = 16
	t := raycastTexture{
		width:   size,
		height:  size,
		bitmap:  make([]uint8, size*size),
		palette: [][4]byte{{120, 40, 40, 255}, {200, 90, 60, 255}},
	}
	for y := range size {
		for x := range size {
			if (x/4+y/4)%2 == 1 {
				t.bitmap[y*size+x] = 1
			}
		}
	}
	return t
}

// RaycastEngine owns the simulation state, its input vector and its frame
// buffer.
type RaycastEngine struct {
	cfg      EngineConfig
	desc     ScreenDescriptor
	x, y     float64
	angle    float64
	inputs   [InputCapacity]uint32
	frame    []byte
	textures []raycastTexture
	grid     [][]uint8
	ticks    uint64
}

func NewRaycastEngine(cfg EngineConfig) (*RaycastEngine, error) {
	if cfg.Scale <= 0 {
		return nil, fmt.Errorf("engine scale must be positive, got %g", cfg.Scale)
	}
	desc := ScreenDescriptor{
		ScreenWidth:      cfg.ScreenWidth,
		ScreenHeight:     cfg.ScreenHeight,
		ProjectionWidth:  int(float64(cfg.ScreenWidth) / cfg.Scale),
		ProjectionHeight: int(float64(cfg.ScreenHeight) / cfg.Scale),
		Scale:            cfg.Scale,
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if cfg.Precision <= 0 {
		return nil, fmt.Errorf("raycasting precision must be positive, got %g", cfg.Precision)
	}
	return &RaycastEngine{
		cfg:      cfg,
		desc:     desc,
		x:        cfg.PlayerX,
		y:        cfg.PlayerY,
		angle:    cfg.PlayerAngle,
		frame:    make([]byte, desc.FrameBufferSize()),
		textures: []raycastTexture{brickTexture(), checkerTexture()},
		grid:     raycastMap,
	}, nil
}

func (e *RaycastEngine) Descriptor() ScreenDescriptor { return e.desc }

func (e *RaycastEngine) InputBuffer() *[InputCapacity]uint32 { return &e.inputs }

func (e *RaycastEngine) FrameBuffer() []byte { return e.frame }

func (e *RaycastEngine) Ticks() uint64 { return e.ticks }

// Position reports the player position and heading in degrees.
func (e *RaycastEngine) Position() (x, y, angle float64) { return e.x, e.y, e.angle }

func (e *RaycastEngine) Tick() error {
	e.handleInput()
	if err := e.castRays(); err != nil {
		return err
	}
	e.ticks++
	return nil
}

func (e *RaycastEngine) handleInput() {
	for _, code := range e.inputs {
		switch code {
		case KeyCodeArrowUp:
			e.move(1)
		case KeyCodeArrowDown:
			e.move(-1)
		case KeyCodeArrowLeft:
			e.angle = math.Mod(e.angle-e.cfg.RotationSpeed, 360)
		case KeyCodeArrowRight:
			e.angle = math.Mod(e.angle+e.cfg.RotationSpeed, 360)
		}
	}
}

// move steps forward (dir 1) or back (dir -1), checking a point ahead of
// the player on each axis separately so it slides along walls.
func (e *RaycastEngine) move(dir float64) {
	rad := e.angle * math.Pi / 180
	dx := math.Cos(rad) * e.cfg.MoveSpeed * dir
	dy := math.Sin(rad) * e.cfg.MoveSpeed * dir

	nx, ny := e.x+dx, e.y+dy
	checkX := nx + dx*e.cfg.PlayerRadius
	checkY := ny + dy*e.cfg.PlayerRadius

	if e.cell(e.x, checkY) == 0 {
		e.y = ny
	}
	if e.cell(checkX, e.y) == 0 {
		e.x = nx
	}
}

// cell treats anything outside the map as solid wall.
func (e *RaycastEngine) cell(x, y float64) uint8 {
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if cy < 0 || cy >= len(e.grid) || cx < 0 || cx >= len(e.grid[cy]) {
		return 1
	}
	return e.grid[cy][cx]
}

func (e *RaycastEngine) castRays() error {
	pw, ph := e.desc.ProjectionWidth, e.desc.ProjectionHeight
	halfH := float64(ph) / 2
	increment := e.cfg.FOV / float64(pw)
	rayAngle := e.angle - e.cfg.FOV/2
	maxSteps := int(e.cfg.Precision) * 4 * (len(e.grid) + len(e.grid[0]))

	for col := range pw {
		rad := rayAngle * math.Pi / 180
		stepX := math.Cos(rad) / e.cfg.Precision
		stepY := math.Sin(rad) / e.cfg.Precision

		rx, ry := e.x, e.y
		var wall uint8
		for range maxSteps {
			rx += stepX
			ry += stepY
			if wall = e.cell(rx, ry); wall != 0 {
				break
			}
		}
		if wall == 0 {
			return fmt.Errorf("ray %d escaped the map at (%.2f, %.2f)", col, rx, ry)
		}
		if int(wall) > len(e.textures) {
			return fmt.Errorf("map cell %d has no texture", wall)
		}

		dist := math.Hypot(e.x-rx, e.y-ry)
		dist *= math.Cos((rayAngle - e.angle) * math.Pi / 180)
		wallH := halfH
		if dist > 0 {
			wallH = math.Min(math.Floor(halfH/dist), halfH*8)
		}

		tex := &e.textures[wall-1]
		texX := int(math.Floor(math.Mod(float64(tex.width)*(rx+ry), float64(tex.width))))
		texX = min(max(texX, 0), tex.width-1)
		e.drawColumn(col, halfH, wallH, tex, texX)

		rayAngle += increment
	}
	return nil
}

func (e *RaycastEngine) drawColumn(col int, halfH, wallH float64, tex *raycastTexture, texX int) {
	pw, ph := e.desc.ProjectionWidth, e.desc.ProjectionHeight
	top := halfH - wallH
	bottom := halfH + wallH
	for y := range ph {
		fy := float64(y)
		var c [4]byte
		switch {
		case fy < top:
			c = skyColour
		case fy >= bottom:
			c = floorColour
		default:
			texY := int((fy - top) * float64(tex.height) / (bottom - top))
			c = tex.at(texX, min(texY, tex.height-1))
		}
		off := (y*pw + col) * BYTES_PER_PIXEL
		copy(e.frame[off:off+BYTES_PER_PIXEL], c[:])
	}
}
