package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chyp8/emu/cpu"
	"chyp8/emu/session"
	"chyp8/emu/window"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chyp8 path/ROM",
	Short: "Chip-8 emulator using Go",
	Long: "A Chip-8 emulator written from scratch that mimics the functionalities of a Chip-8, " +
		"an interpreted language originally written for the COSMAC VIP / Telmac 1800 8 bit systems.\n\n" +
		"Keypad:\n" +
		"  1 2 3 4      1 2 3 C\n" +
		"  Q W E R  ->  4 5 6 D\n" +
		"  A S D F      7 8 9 E\n" +
		"  Z X C V      A 0 B F\n\n" +
		"Escape or closing the window quits.",
	Args:         cobra.ExactArgs(1),
	RunE:         Start,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults(viper.GetViper())

	sess := session.DefaultOptions()
	win := window.DefaultOptions()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.chyp8.yaml)")
	flags.Int(keyClock, sess.ClockHz, "instructions executed per second")
	flags.Int(keyScale, win.Scale, "size of a CHIP-8 pixel on screen")
	flags.Int64(keySeed, 0, "seed for the RND instruction, 0 picks one from the clock")
	flags.Int(keyFontAddress, cpu.DefaultFontAddress, "address the hex font is loaded at")
	flags.Bool(keyShiftUsesVY, false, "quirk: SHR/SHL shift VY into VX")
	flags.Bool(keyMemoryIncrementsI, false, "quirk: LD [I]/LD Vx,[I] advance I")
	flags.Bool(keyJumpUsesVX, false, "quirk: JP V0 adds VX (BXNN)")
	flags.Bool(keyProtectInterpreter, false, "quirk: ignore LD B/LD [I] writes below 0x200")
	flags.String(keyUnknownOpcode, sess.UnknownOpcode.String(), "what to do on an unknown opcode: halt or skip")
	flags.Float64(keyTone, 440, "buzzer frequency in Hz")
	flags.Float64(keyVolume, 0.2, "buzzer volume, 0 to 1")
	flags.Bool(keyMute, false, "disable the buzzer")
	flags.String(keyForeground, win.Foreground, "colour of lit pixels")
	flags.String(keyBackground, win.Background, "colour of unlit pixels")
	flags.String(keyLogLevel, "info", "log level: debug, info, warn or error")
	cobra.CheckErr(viper.BindPFlags(flags))

	rootCmd.AddCommand(startCmd)
}

// Execute runs the command line. It exits with status 1 on any error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// initConfig loads settings from --config, or from .chyp8.yaml (any format
// viper reads) in the home directory, then from CHYP8_* variables such as
// CHYP8_FONT_ADDRESS. A missing default config file is not an error.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigName(".chyp8")
	}

	viper.SetEnvPrefix("chyp8")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			cobra.CheckErr(err)
		}
	}
}
