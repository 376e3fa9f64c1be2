package cpu

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fixedRand int

func (r fixedRand) Intn(n int) int { return int(r) % n }

func newTestEMU(t *testing.T, quirks Quirks, rom ...byte) *EMU {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Quirks = quirks
	cfg.Rand = fixedRand(0xFF)
	emu, err := NewEMU(rom, cfg)
	if err != nil {
		t.Fatalf("NewEMU() error = %v", err)
	}
	return emu
}

func run(t *testing.T, emu *EMU, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if _, err := emu.Step(Keys{}); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func Test_NewEMU(t *testing.T) {
	emu := newTestEMU(t, Quirks{}, 0x12, 0x34)
	r := emu.Registers()
	want := Registers{PC: 0x200, Stack: []uint16{}}
	if diff := cmp.Diff(want, r); diff != "" {
		t.Errorf("registers: (-want, +got)\n%s", diff)
	}
	mem := emu.Memory()
	if diff := cmp.Diff(FontSet[:], mem[DefaultFontAddress:DefaultFontAddress+len(FontSet)]); diff != "" {
		t.Errorf("fontset: (-want, +got)\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0x12, 0x34, 0x00}, mem[0x200:0x203]); diff != "" {
		t.Errorf("rom: (-want, +got)\n%s", diff)
	}
	if emu.DelayTimer() != 0 || emu.SoundTimer() != 0 {
		t.Errorf("timers should start at zero")
	}
	if emu.Frame().Lit() != 0 {
		t.Errorf("display should start clear")
	}
	if _, ok := emu.Waiting(); ok {
		t.Errorf("should not start waiting for a key")
	}
}

func Test_NewEMU_romSize(t *testing.T) {
	tests := []struct {
		name    string
		rom     []byte
		wantErr error
	}{
		{
			name: "empty",
			rom:  nil,
		},
		{
			name: "fills program space",
			rom:  make([]byte, 4096-0x200),
		},
		{
			name:    "one byte too many",
			rom:     make([]byte, 4096-0x200+1),
			wantErr: ErrRomTooLarge,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEMU(tt.rom, DefaultConfig())
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewEMU() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_NewEMU_fontAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FontAddress = 0x000
	emu, err := NewEMU(nil, cfg)
	if err != nil {
		t.Fatalf("NewEMU() error = %v", err)
	}
	mem := emu.Memory()
	if diff := cmp.Diff(FontSet[:], mem[:len(FontSet)]); diff != "" {
		t.Errorf("fontset: (-want, +got)\n%s", diff)
	}

	cfg.FontAddress = 0x1C0
	if _, err := NewEMU(nil, cfg); !errors.Is(err, ErrFontAddress) {
		t.Errorf("NewEMU() error = %v, want %v", err, ErrFontAddress)
	}
}

func Test_LoadROM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.ch8")
	if err := os.WriteFile(path, []byte{0x60, 0x2A}, 0o644); err != nil {
		t.Fatal(err)
	}
	emu, err := LoadROM(path, DefaultConfig())
	if err != nil {
		t.Fatalf("LoadROM() error = %v", err)
	}
	run(t, emu, 1)
	if got := emu.Registers().V[0]; got != 0x2A {
		t.Errorf("V0 (got 0x%X, but want 0x2A)", got)
	}

	big := filepath.Join(dir, "big.ch8")
	if err := os.WriteFile(big, make([]byte, MaxRomSize+1), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadROM(big, DefaultConfig()); !errors.Is(err, ErrRomTooLarge) {
		t.Errorf("LoadROM() error = %v, want %v", err, ErrRomTooLarge)
	}

	if _, err := LoadROM(filepath.Join(dir, "missing.ch8"), DefaultConfig()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadROM() error = %v, want %v", err, os.ErrNotExist)
	}
}

func Test_Tick(t *testing.T) {
	// V0 = 5, DT = V0, ST = V0
	emu := newTestEMU(t, Quirks{}, 0x60, 0x05, 0xF0, 0x15, 0xF0, 0x18)
	run(t, emu, 3)
	for i := 0; i < 5; i++ {
		emu.Tick()
	}
	if emu.DelayTimer() != 0 || emu.SoundTimer() != 0 {
		t.Errorf("timers after 5 ticks (got %d/%d, but want 0/0)", emu.DelayTimer(), emu.SoundTimer())
	}
	emu.Tick()
	if emu.DelayTimer() != 0 || emu.SoundTimer() != 0 {
		t.Errorf("timers must not underflow (got %d/%d)", emu.DelayTimer(), emu.SoundTimer())
	}
}

func Test_TickIndependentOfSteps(t *testing.T) {
	// V0 = 3, DT = V0, then spin on JP 0x204
	emu := newTestEMU(t, Quirks{}, 0x60, 0x03, 0xF0, 0x15, 0x12, 0x04)
	run(t, emu, 100)
	if got := emu.DelayTimer(); got != 3 {
		t.Errorf("delay timer without ticks (got %d, but want 3)", got)
	}
	emu.Tick()
	if got := emu.DelayTimer(); got != 2 {
		t.Errorf("delay timer after one tick (got %d, but want 2)", got)
	}
}

func Test_Skip(t *testing.T) {
	emu := newTestEMU(t, Quirks{}, 0xFF, 0xFF, 0x60, 0x07)
	if _, err := emu.Step(Keys{}); !errors.Is(err, ErrUnknownOpcode) {
		t.Fatalf("Step() error = %v, want %v", err, ErrUnknownOpcode)
	}
	emu.Skip()
	run(t, emu, 1)
	if got := emu.Registers().V[0]; got != 7 {
		t.Errorf("V0 (got %d, but want 7)", got)
	}
}

func Test_InstancesIndependent(t *testing.T) {
	a := newTestEMU(t, Quirks{}, 0x60, 0x01)
	b := newTestEMU(t, Quirks{}, 0x60, 0x02)
	run(t, a, 1)
	if got := b.Registers(); got.V[0] != 0 || got.PC != 0x200 {
		t.Errorf("stepping one machine changed another: %+v", got)
	}
}
