// Package window presents the machine in a pixelgl window and reads the
// keypad from the host keyboard. Windows must be created inside pixelgl.Run.
package window

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"golang.org/x/image/colornames"

	"chyp8/emu/cpu"
	"chyp8/emu/screen"
)

type Options struct {
	Title      string
	Scale      int
	Foreground string // colour name, see golang.org/x/image/colornames
	Background string
}

func DefaultOptions() Options {
	return Options{
		Title:      "chyp8",
		Scale:      10,
		Foreground: "white",
		Background: "black",
	}
}

type Window struct {
	*pixelgl.Window
	KeyMap map[uint16]pixelgl.Button

	imd    *imdraw.IMDraw
	scale  float64
	fg, bg color.RGBA
}

// DefaultKeyMap lays the hex keypad over the left hand side of a QWERTY
// keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D        Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
func DefaultKeyMap() map[uint16]pixelgl.Button {
	return map[uint16]pixelgl.Button{
		0x1: pixelgl.Key1, 0x2: pixelgl.Key2, 0x3: pixelgl.Key3, 0xC: pixelgl.Key4,
		0x4: pixelgl.KeyQ, 0x5: pixelgl.KeyW, 0x6: pixelgl.KeyE, 0xD: pixelgl.KeyR,
		0x7: pixelgl.KeyA, 0x8: pixelgl.KeyS, 0x9: pixelgl.KeyD, 0xE: pixelgl.KeyF,
		0xA: pixelgl.KeyZ, 0x0: pixelgl.KeyX, 0xB: pixelgl.KeyC, 0xF: pixelgl.KeyV,
	}
}

// Color looks up a colour by its SVG name.
func Color(name string) (color.RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown colour %q", name)
	}
	return c, nil
}

// New opens a window big enough for the display at opts.Scale.
func New(opts Options) (*Window, error) {
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("invalid scale %d", opts.Scale)
	}
	fg, err := Color(opts.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := Color(opts.Background)
	if err != nil {
		return nil, err
	}

	scale := float64(opts.Scale)
	cfg := pixelgl.WindowConfig{
		Title:  opts.Title,
		Bounds: pixel.R(0, 0, screen.Width*scale, screen.Height*scale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening window: %w", err)
	}

	return &Window{
		Window: win,
		KeyMap: DefaultKeyMap(),
		imd:    imdraw.New(nil),
		scale:  scale,
		fg:     fg,
		bg:     bg,
	}, nil
}

// Keys samples the keypad.
func (w *Window) Keys() cpu.Keys {
	var keys cpu.Keys
	for k, b := range w.KeyMap {
		if int(k) < len(keys) {
			keys[k] = w.Pressed(b)
		}
	}
	return keys
}

// Draw rebuilds the batch of lit pixels. It is shown by the next Update.
func (w *Window) Draw(f screen.Frame) {
	w.imd.Clear()
	w.imd.Color = w.fg
	for y := 0; y < screen.Height; y++ {
		if f.Row(y) == 0 {
			continue
		}
		// pixel's origin is the bottom left corner
		top := float64(screen.Height-y) * w.scale
		for x := 0; x < screen.Width; x++ {
			if !f.Pixel(x, y) {
				continue
			}
			left := float64(x) * w.scale
			w.imd.Push(pixel.V(left, top-w.scale), pixel.V(left+w.scale, top))
			w.imd.Rectangle(0)
		}
	}
}

// Update presents the last drawn frame and polls input.
func (w *Window) Update() {
	w.Clear(w.bg)
	w.imd.Draw(w.Window)
	w.Window.Update()
}

// Closed is true once the window has been closed or Escape pressed.
func (w *Window) Closed() bool {
	return w.Window.Closed() || w.Pressed(pixelgl.KeyEscape)
}
