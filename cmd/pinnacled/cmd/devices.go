package cmd

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
	"github.com/spf13/cobra"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List evdev input devices visible to this process",
	RunE: func(cmd *cobra.Command, args []string) error {
		devs, err := evdev.ListInputDevices()
		if err != nil {
			return fmt.Errorf("list input devices: %w", err)
		}
		for _, d := range devs {
			fmt.Printf("%s\t%s\n", d.Fn, d.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}
