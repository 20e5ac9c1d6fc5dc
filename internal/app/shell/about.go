package shell

import (
	"fmt"
	"strings"
)

// AppName is the display name of the application.
const AppName = "Pobre Media Player"

// Shortcut is one keyboard binding shown to the user.
type Shortcut struct {
	Keys        string
	Description string
}

// Shortcuts lists the keyboard bindings.
var Shortcuts = []Shortcut{
	{Keys: "Space", Description: "Play/Pause"},
	{Keys: "S", Description: "Add current time to Highlight CSV"},
	{Keys: "L/R", Description: "Set last CSV row to Left/Right"},
	{Keys: "Left/Right Arrow", Description: "Skip -3/+3 seconds"},
	{Keys: "Up/Down Arrow", Description: "Volume +/-"},
}

// About returns the about text for version.
func About(version string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", AppName)
	fmt.Fprintf(&b, "Version: %s\n", version)
	fmt.Fprintf(&b, "Description: A lightweight, portable media player for Windows and Linux\n")
	fmt.Fprintf(&b, "\nKeyboard Shortcuts:\n")
	for _, s := range Shortcuts {
		fmt.Fprintf(&b, "  %-18s %s\n", s.Keys+":", s.Description)
	}
	return b.String()
}
