package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"chyp8/emu/cpu"
	"chyp8/emu/session"
	"chyp8/emu/window"
)

// configuration keys, shared by flags, the config file and CHYP8_* env vars
const (
	keyClock              = "clock"
	keyScale              = "scale"
	keySeed               = "seed"
	keyFontAddress        = "font-address"
	keyShiftUsesVY        = "shift-uses-vy"
	keyMemoryIncrementsI  = "memory-increments-i"
	keyJumpUsesVX         = "jump-uses-vx"
	keyProtectInterpreter = "protect-interpreter"
	keyUnknownOpcode      = "unknown-opcode"
	keyTone               = "tone"
	keyVolume             = "volume"
	keyMute               = "mute"
	keyForeground         = "fg"
	keyBackground         = "bg"
	keyLogLevel           = "log-level"
)

// Settings is the validated configuration for one run.
type Settings struct {
	Clock         int
	Scale         int
	Seed          int64
	FontAddress   uint16
	Quirks        cpu.Quirks
	UnknownOpcode session.Policy
	Tone          float64
	Volume        float64
	Mute          bool
	Foreground    string
	Background    string
	LogLevel      slog.Level
}

func setDefaults(v *viper.Viper) {
	sess := session.DefaultOptions()
	win := window.DefaultOptions()

	v.SetDefault(keyClock, sess.ClockHz)
	v.SetDefault(keyScale, win.Scale)
	v.SetDefault(keySeed, 0)
	v.SetDefault(keyFontAddress, cpu.DefaultFontAddress)
	v.SetDefault(keyShiftUsesVY, false)
	v.SetDefault(keyMemoryIncrementsI, false)
	v.SetDefault(keyJumpUsesVX, false)
	v.SetDefault(keyProtectInterpreter, false)
	v.SetDefault(keyUnknownOpcode, sess.UnknownOpcode.String())
	v.SetDefault(keyTone, 440.0)
	v.SetDefault(keyVolume, 0.2)
	v.SetDefault(keyMute, false)
	v.SetDefault(keyForeground, win.Foreground)
	v.SetDefault(keyBackground, win.Background)
	v.SetDefault(keyLogLevel, "info")
}

func loadSettings(v *viper.Viper) (Settings, error) {
	s := Settings{
		Clock: v.GetInt(keyClock),
		Scale: v.GetInt(keyScale),
		Seed:  v.GetInt64(keySeed),
		Quirks: cpu.Quirks{
			ShiftUsesVY:        v.GetBool(keyShiftUsesVY),
			MemoryIncrementsI:  v.GetBool(keyMemoryIncrementsI),
			JumpUsesVX:         v.GetBool(keyJumpUsesVX),
			ProtectInterpreter: v.GetBool(keyProtectInterpreter),
		},
		Tone:       v.GetFloat64(keyTone),
		Volume:     v.GetFloat64(keyVolume),
		Mute:       v.GetBool(keyMute),
		Foreground: v.GetString(keyForeground),
		Background: v.GetString(keyBackground),
	}

	if s.Clock <= 0 {
		return s, fmt.Errorf("%s must be positive, got %d", keyClock, s.Clock)
	}
	if s.Scale <= 0 {
		return s, fmt.Errorf("%s must be positive, got %d", keyScale, s.Scale)
	}
	if s.Tone <= 0 {
		return s, fmt.Errorf("%s must be positive, got %v", keyTone, s.Tone)
	}
	if s.Volume < 0 || s.Volume > 1 {
		return s, fmt.Errorf("%s must be between 0 and 1, got %v", keyVolume, s.Volume)
	}

	font := v.GetInt(keyFontAddress)
	if font < 0 || font+len(cpu.FontSet) > cpu.ProgramStart {
		return s, fmt.Errorf("%s 0x%X leaves no room for the font below 0x%X", keyFontAddress, font, cpu.ProgramStart)
	}
	s.FontAddress = uint16(font)

	policy, err := session.ParsePolicy(v.GetString(keyUnknownOpcode))
	if err != nil {
		return s, err
	}
	s.UnknownOpcode = policy

	for _, name := range []string{s.Foreground, s.Background} {
		if _, err := window.Color(name); err != nil {
			return s, err
		}
	}

	if err := s.LogLevel.UnmarshalText([]byte(v.GetString(keyLogLevel))); err != nil {
		return s, fmt.Errorf("%s: %w", keyLogLevel, err)
	}

	return s, nil
}

func (s Settings) cpuConfig(logger *slog.Logger) cpu.Config {
	return cpu.Config{
		Quirks:      s.Quirks,
		FontAddress: s.FontAddress,
		Rand:        cpu.NewRand(s.Seed),
		Logger:      logger,
	}
}

func (s Settings) sessionOptions() session.Options {
	return session.Options{
		ClockHz:       s.Clock,
		UnknownOpcode: s.UnknownOpcode,
	}
}

func (s Settings) windowOptions() window.Options {
	opts := window.DefaultOptions()
	opts.Scale = s.Scale
	opts.Foreground = s.Foreground
	opts.Background = s.Background
	return opts
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
