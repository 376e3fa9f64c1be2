package screen

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDisplay_Blit(t *testing.T) {
	tests := []struct {
		name   string
		x, y   int
		sprite []byte
		lit    [][2]int
	}{
		{
			name:   "top left",
			x:      0,
			y:      0,
			sprite: []byte{0x80},
			lit:    [][2]int{{0, 0}},
		},
		{
			name:   "wraps right edge",
			x:      62,
			y:      3,
			sprite: []byte{0xF0},
			lit:    [][2]int{{62, 3}, {63, 3}, {0, 3}, {1, 3}},
		},
		{
			name:   "wraps bottom edge",
			x:      10,
			y:      31,
			sprite: []byte{0x01, 0x01},
			lit:    [][2]int{{17, 31}, {17, 0}},
		},
		{
			name:   "coordinates reduced modulo screen",
			x:      64 + 5,
			y:      32 + 2,
			sprite: []byte{0x80},
			lit:    [][2]int{{5, 2}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Display
			if d.Blit(tt.x, tt.y, tt.sprite) {
				t.Errorf("unexpected collision on empty display")
			}
			f := d.Snapshot()
			if got, want := f.Lit(), len(tt.lit); got != want {
				t.Errorf("lit pixels (got %d, but want %d)", got, want)
			}
			for _, p := range tt.lit {
				if !f.Pixel(p[0], p[1]) {
					t.Errorf("pixel (%d,%d) should be lit", p[0], p[1])
				}
			}
		})
	}
}

func TestDisplay_BlitTwiceRestores(t *testing.T) {
	var d Display
	d.Blit(3, 4, []byte{0x3C})
	before := d.Snapshot()

	sprite := []byte{0xF0, 0x90, 0x90, 0x90, 0xF0}
	if d.Blit(60, 30, sprite) {
		t.Fatalf("first blit should not collide")
	}
	if !d.Blit(60, 30, sprite) {
		t.Errorf("second blit should report collision")
	}
	if diff := cmp.Diff(before.String(), d.Snapshot().String()); diff != "" {
		t.Errorf("display not restored: (-want, +got)\n%s", diff)
	}
}

func TestDisplay_CollisionOnlyWhenErased(t *testing.T) {
	var d Display
	d.Blit(0, 0, []byte{0xF0})
	if d.Blit(4, 0, []byte{0xF0}) {
		t.Errorf("adjacent sprite must not collide")
	}
	if !d.Blit(3, 0, []byte{0x80}) {
		t.Errorf("overlapping sprite must collide")
	}
}

func TestDisplay_Clear(t *testing.T) {
	var d Display
	d.Blit(0, 0, []byte{0xFF, 0xFF})
	d.Clear()
	if n := d.Snapshot().Lit(); n != 0 {
		t.Errorf("lit pixels after clear (got %d, but want 0)", n)
	}
}

func TestFrame_IsCopy(t *testing.T) {
	var d Display
	f := d.Snapshot()
	d.Blit(0, 0, []byte{0xFF})
	if f.Lit() != 0 {
		t.Errorf("snapshot changed after blit")
	}
	if got := d.Snapshot().Row(0); got != 0xFF00000000000000 {
		t.Errorf("row 0 (got %#x, but want %#x)", got, uint64(0xFF00000000000000))
	}
}

func TestFrame_String(t *testing.T) {
	var d Display
	d.Blit(0, 0, []byte{0xC0})
	lines := strings.Split(d.Snapshot().String(), "\n")
	if len(lines) != Height+1 {
		t.Fatalf("line count (got %d, but want %d)", len(lines), Height+1)
	}
	want := "##" + strings.Repeat(".", Width-2)
	if diff := cmp.Diff(want, lines[0]); diff != "" {
		t.Errorf("first row: (-want, +got)\n%s", diff)
	}
}
