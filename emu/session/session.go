// Package session drives a cpu.EMU from the host side. It keeps the
// instruction clock and the 60Hz timer clock apart: every frame executes
// however many instructions the configured clock rate asks for and then
// ticks the timers exactly once.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chyp8/emu/cpu"
	"chyp8/emu/screen"
)

// FrameRate is the rate of the delay and sound timers.
const FrameRate = 60

// Frontend is the window the machine is presented in. Draw is only called
// when the display changed; Update is called once per frame.
type Frontend interface {
	Keys() cpu.Keys
	Draw(screen.Frame)
	Update()
	Closed() bool
}

// Buzzer sounds while the sound timer is nonzero.
type Buzzer interface {
	SetActive(on bool)
}

// Policy decides what happens when the machine hits an unknown opcode.
type Policy int

const (
	Halt Policy = iota
	SkipUnknown
)

// ParsePolicy accepts "halt" or "skip".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "halt":
		return Halt, nil
	case "skip":
		return SkipUnknown, nil
	}
	return Halt, fmt.Errorf("unknown opcode policy %q (want halt or skip)", s)
}

func (p Policy) String() string {
	if p == SkipUnknown {
		return "skip"
	}
	return "halt"
}

type Options struct {
	// ClockHz is the number of instructions executed per second.
	ClockHz       int
	UnknownOpcode Policy
}

func DefaultOptions() Options {
	return Options{ClockHz: 700, UnknownOpcode: Halt}
}

type Session struct {
	vm       *cpu.EMU
	frontend Frontend
	buzzer   Buzzer
	opts     Options
	log      *slog.Logger

	// instruction budget carried between frames, in 1/FrameRate units
	credit  int
	buzzing bool
	frames  uint64
}

// New prepares a session. A nil buzzer or logger is allowed.
func New(vm *cpu.EMU, frontend Frontend, buzzer Buzzer, opts Options, logger *slog.Logger) *Session {
	if buzzer == nil {
		buzzer = nopBuzzer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ClockHz <= 0 {
		opts.ClockHz = DefaultOptions().ClockHz
	}
	return &Session{
		vm:       vm,
		frontend: frontend,
		buzzer:   buzzer,
		opts:     opts,
		log:      logger,
	}
}

// Frame runs one 1/60s slice of emulation: sample the keypad, execute the
// instructions due, tick the timers, then update the display and buzzer.
func (s *Session) Frame() error {
	keys := s.frontend.Keys()

	s.credit += s.opts.ClockHz
	steps := s.credit / FrameRate
	s.credit %= FrameRate

	drew := s.frames == 0
	for i := 0; i < steps; i++ {
		out, err := s.vm.Step(keys)
		if err != nil {
			if !s.handle(err) {
				return err
			}
			continue
		}
		drew = drew || out.Drew
		if out.Waiting {
			// nothing else can retire until the keypad changes
			break
		}
	}

	s.vm.Tick()
	s.frames++

	if drew {
		s.frontend.Draw(s.vm.Frame())
	}
	s.frontend.Update()
	if on := s.vm.SoundTimer() != 0; on != s.buzzing {
		s.buzzing = on
		s.buzzer.SetActive(on)
	}
	return nil
}

// handle applies the unknown opcode policy. It returns false when err is
// fatal to the session.
func (s *Session) handle(err error) bool {
	var execErr *cpu.ExecError
	if s.opts.UnknownOpcode != SkipUnknown || !errors.Is(err, cpu.ErrUnknownOpcode) || !errors.As(err, &execErr) {
		s.log.Error("machine halted", "err", err, "vm", s.vm.String())
		return false
	}
	s.log.Warn("skipping unknown opcode",
		"pc", fmt.Sprintf("0x%03X", execErr.PC),
		"opcode", fmt.Sprintf("0x%04X", execErr.Opcode),
	)
	s.vm.Skip()
	return true
}

// Run calls Frame at FrameRate until the frontend is closed, ctx is done or
// the machine halts.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / FrameRate)
	defer ticker.Stop()
	defer func() {
		if s.buzzing {
			s.buzzer.SetActive(false)
		}
	}()

	s.log.Info("session started", "clock", s.opts.ClockHz, "unknown-opcode", s.opts.UnknownOpcode.String())
	for !s.frontend.Closed() {
		if err := s.Frame(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	s.log.Info("session closed", "frames", s.frames)
	return nil
}

// Frames is the number of frames run so far.
func (s *Session) Frames() uint64 {
	return s.frames
}

type nopBuzzer struct{}

func (nopBuzzer) SetActive(bool) {}
