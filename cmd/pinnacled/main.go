// Command pinnacled runs the touchpad-to-mouse pointing pipeline as a
// standalone daemon against a Linux evdev multitouch device, surfacing
// its output on a synthesized /dev/uinput mouse.
package main

import (
	"os"

	"github.com/tapglide/pinnacle/cmd/pinnacled/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
