package cpu

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"chyp8/emu/screen"
)

const (
	stackDepth = 16
	vf         = 0xF // carry, borrow and collision flag
)

// Keys is the state of the 16 key hex keypad for one step. Index is the key
// value 0x0 to 0xF.
type Keys [16]bool

// pressedSince returns the lowest key that is down in k but was up in prev.
func (k Keys) pressedSince(prev Keys) (uint8, bool) {
	for i, down := range k {
		if down && !prev[i] {
			return uint8(i), true
		}
	}
	return 0, false
}

// Quirks selects between behaviours that historical interpreters disagree on.
// The zero value follows Cowgod's technical reference.
type Quirks struct {
	// 8xy6 and 8xyE shift Vy into Vx rather than shifting Vx in place.
	ShiftUsesVY bool
	// Fx55 and Fx65 leave I pointing past the last register copied.
	MemoryIncrementsI bool
	// Bnnn is treated as BXNN and adds Vx instead of V0.
	JumpUsesVX bool
	// Fx33 and Fx55 writes below 0x200 are dropped, keeping the font intact.
	ProtectInterpreter bool
}

type Config struct {
	Quirks      Quirks
	FontAddress uint16
	// Rand feeds Cxkk. nil selects a time seeded source.
	Rand Rand
	// Logger receives the instruction trace at debug level. nil selects
	// slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{FontAddress: DefaultFontAddress}
}

// EMU is a single CHIP-8 machine. It owns all of its state; separate
// instances share nothing.
type EMU struct {
	memory     Memory
	v          [16]uint8
	i          uint16 //address register
	pc         uint16
	display    screen.Display
	delayTimer uint8 //counts down at 60Hz
	soundTimer uint8 //same as above
	stack      [stackDepth]uint16
	sp         uint8

	// set while Fx0A is waiting for a key press
	wait struct {
		active bool
		ins    Instruction
		keys   Keys // last snapshot seen
	}

	quirks   Quirks
	fontAddr uint16
	rand     Rand
	log      *slog.Logger
}

// Outcome describes the result of a single Step.
type Outcome struct {
	Instruction Instruction
	// Waiting is true when the instruction is Fx0A and no key was pressed.
	// The instruction did not retire and will be presented again.
	Waiting bool
	// Drew is true when the display was modified.
	Drew bool
}

// NewEMU creates a machine with the font loaded and rom copied to 0x200.
func NewEMU(rom []byte, cfg Config) (*EMU, error) {
	if len(rom) > MaxRomSize {
		return nil, fmt.Errorf("%w: %d bytes, limit is %d", ErrRomTooLarge, len(rom), MaxRomSize)
	}
	if int(cfg.FontAddress)+len(FontSet) > ProgramStart {
		return nil, fmt.Errorf("%w: 0x%03X", ErrFontAddress, cfg.FontAddress)
	}

	emu := &EMU{
		pc:       ProgramStart,
		quirks:   cfg.Quirks,
		fontAddr: cfg.FontAddress,
		rand:     cfg.Rand,
		log:      cfg.Logger,
	}
	if emu.rand == nil {
		emu.rand = NewRand(0)
	}
	if emu.log == nil {
		emu.log = slog.Default()
	}

	emu.memory.load(emu.fontAddr, FontSet[:])
	emu.memory.load(ProgramStart, rom)
	return emu, nil
}

// LoadROM reads the file at filename and creates a machine running it.
func LoadROM(filename string, cfg Config) (*EMU, error) {
	rom, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading rom: %w", err)
	}
	emu, err := NewEMU(rom, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filename, err)
	}
	return emu, nil
}

// Step executes the instruction at PC using keys as the keypad state.
//
// If the instruction cannot retire an *ExecError is returned and the machine
// is unchanged. While Fx0A is waiting for a key, Step keeps presenting the
// same instruction without fetching until keys has a key down.
func (emu *EMU) Step(keys Keys) (Outcome, error) {
	pc := emu.pc
	if emu.wait.active {
		out := emu.awaitKey(emu.wait.ins, keys)
		if !out.Waiting {
			emu.trace(pc, out.Instruction)
		}
		return out, nil
	}

	ins, err := Decode(emu.memory.Word(pc))
	if err != nil {
		return Outcome{Instruction: ins}, emu.opCodeError(ins.Opcode, err)
	}

	out, err := emu.execute(ins, keys)
	if err != nil {
		return out, emu.opCodeError(ins.Opcode, err)
	}
	if !out.Waiting {
		emu.trace(pc, ins)
	}
	return out, nil
}

// Tick decrements the delay and sound timers. The host calls it at 60Hz,
// independently of how many instructions are executed.
func (emu *EMU) Tick() {
	if emu.delayTimer > 0 {
		emu.delayTimer--
	}
	if emu.soundTimer > 0 {
		emu.soundTimer--
	}
}

// Skip steps over the instruction at PC without executing it. A pending key
// wait is abandoned.
func (emu *EMU) Skip() {
	emu.wait.active = false
	emu.pc = (emu.pc + 2) & addrMask
}

func (emu *EMU) trace(pc uint16, ins Instruction) {
	if !emu.log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	emu.log.Debug("exec",
		"pc", fmt.Sprintf("0x%03X", pc),
		"opcode", fmt.Sprintf("0x%04X", ins.Opcode),
		"instr", ins.String(),
	)
}

// Registers is a copy of the register file.
type Registers struct {
	V     [16]uint8
	I     uint16
	PC    uint16
	SP    uint8
	Stack []uint16 // return addresses, oldest first
}

func (emu *EMU) Registers() Registers {
	r := Registers{
		V:     emu.v,
		I:     emu.i,
		PC:    emu.pc,
		SP:    emu.sp,
		Stack: make([]uint16, emu.sp),
	}
	copy(r.Stack, emu.stack[:emu.sp])
	return r
}

func (emu *EMU) DelayTimer() uint8 { return emu.delayTimer }

// SoundTimer is nonzero while the buzzer should sound.
func (emu *EMU) SoundTimer() uint8 { return emu.soundTimer }

// Waiting reports the register Fx0A will store the key in, if the machine is
// waiting for a key press.
func (emu *EMU) Waiting() (uint8, bool) {
	if !emu.wait.active {
		return 0, false
	}
	return emu.wait.ins.X, true
}

// Frame returns a copy of the display for rendering.
func (emu *EMU) Frame() screen.Frame {
	return emu.display.Snapshot()
}

// Memory returns a copy of the address space.
func (emu *EMU) Memory() Memory {
	return emu.memory
}

func (emu *EMU) String() string {
	return fmt.Sprintf("[PC: 0x%03X, SP: %d, I: 0x%03X]", emu.pc, emu.sp, emu.i)
}
