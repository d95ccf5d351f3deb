package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string
	logger   *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pinnacled",
	Short: "Touchpad pointing pipeline daemon",
	Long: "pinnacled reads a Cirque-Pinnacle-style capacitive touchpad through a\n" +
		"Linux evdev device, runs it through the circular-scroll, tap and\n" +
		"cursor-glide pipeline, and reports the result on a synthesized\n" +
		"/dev/uinput mouse.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
		})
		level, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a pinnacled config file (YAML/TOML/JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
}
