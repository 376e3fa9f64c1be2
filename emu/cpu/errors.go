package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrRomTooLarge    = errors.New("rom too large")
	ErrFontAddress    = errors.New("font does not fit in the interpreter area")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrUnknownOpcode  = errors.New("unknown opcode")
)

// ExecError is returned by Step when an instruction cannot retire. PC and
// Opcode identify the offending instruction; the machine state is left as it
// was before the step.
type ExecError struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%v: 0x%04X at 0x%03X", e.Err, e.Opcode, e.PC)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

func (emu *EMU) opCodeError(opcode uint16, err error) error {
	return &ExecError{PC: emu.pc, Opcode: opcode, Err: err}
}
