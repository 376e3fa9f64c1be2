package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chyp8/emu/audio"
	"chyp8/emu/cpu"
	"chyp8/emu/session"
	"chyp8/emu/window"
)

var startCmd = &cobra.Command{
	Use:          "start path/ROM",
	Short:        "load and start the Emulator",
	Args:         cobra.ExactArgs(1),
	RunE:         Start,
	SilenceUsage: true,
}

// chyp8 start 'path/to/ROM' --clock 1000
func Start(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(viper.GetViper())
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), settings.LogLevel)
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Info("using config file", "path", used)
	}

	emu, err := cpu.LoadROM(args[0], settings.cpuConfig(logger))
	if err != nil {
		return err
	}
	logger.Debug("rom loaded", "path", args[0], "quirks", settings.Quirks)

	win, err := window.New(settings.windowOptions())
	if err != nil {
		return err
	}
	defer win.Destroy()

	var buzzer session.Buzzer = audio.Nop{}
	if !settings.Mute {
		b, err := audio.New(settings.Tone, settings.Volume)
		if err != nil {
			logger.Warn("audio disabled", "err", err)
		} else {
			buzzer = b
		}
	}

	err = session.New(emu, win, buzzer, settings.sessionOptions(), logger).Run(cmd.Context())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
