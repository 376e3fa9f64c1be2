package screen

import (
	"math/bits"
	"strings"
)

const (
	Width  = 64
	Height = 32
)

// Display is the monochrome framebuffer. Each row is a 64 bit word with
// column 0 in the most significant bit.
type Display struct {
	rows [Height]uint64
}

// Frame is a read-only copy of the framebuffer handed to renderers.
type Frame struct {
	rows [Height]uint64
}

// Clear turns every pixel off.
func (d *Display) Clear() {
	d.rows = [Height]uint64{}
}

// Blit XORs an 8 pixel wide sprite into the framebuffer at (x, y), one byte
// per row. Coordinates wrap around both edges. It reports whether any lit
// pixel was turned off.
func (d *Display) Blit(x, y int, sprite []byte) bool {
	x = mod(x, Width)
	y = mod(y, Height)

	collision := false
	for i, b := range sprite {
		row := (y + i) % Height
		mask := bits.RotateLeft64(uint64(b)<<56, -x)
		if d.rows[row]&mask != 0 {
			collision = true
		}
		d.rows[row] ^= mask
	}
	return collision
}

// Snapshot copies the current framebuffer.
func (d *Display) Snapshot() Frame {
	return Frame{rows: d.rows}
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap.
func (f Frame) Pixel(x, y int) bool {
	x = mod(x, Width)
	y = mod(y, Height)
	return f.rows[y]&(1<<(63-uint(x))) != 0
}

// Row returns row y (wrapped) with column 0 in the most significant bit.
func (f Frame) Row(y int) uint64 {
	return f.rows[mod(y, Height)]
}

// Lit counts the pixels that are on.
func (f Frame) Lit() int {
	n := 0
	for _, r := range f.rows {
		n += bits.OnesCount64(r)
	}
	return n
}

func (f Frame) String() string {
	var b strings.Builder
	b.Grow((Width + 1) * Height)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f.Pixel(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func mod(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
