// Package tui holds the Bubble Tea models and lipgloss views behind
// `loadcalc edit`.
package tui

import (
	"math"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Palette shared by all views.
const (
	ColorHeader    = lipgloss.Color("12")
	ColorLabel     = lipgloss.Color("245")
	ColorValue     = lipgloss.Color("15")
	ColorHighlight = lipgloss.Color("11")
	ColorMuted     = lipgloss.Color("241")
	ColorWarning   = lipgloss.Color("214")
	ColorError     = lipgloss.Color("9")
	ColorOK        = lipgloss.Color("10")
	ColorBorder    = lipgloss.Color("63")
	ColorSpinner   = lipgloss.Color("205")
)

// Direction icons for load changes.
const (
	IconArrowUp    = "↑"
	IconArrowDown  = "↓"
	IconArrowRight = "→"
)

// IsTTY reports whether stdout is an interactive terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var printer = message.NewPrinter(language.English)

// formatBTUh renders a rounded load with thousand separators.
func formatBTUh(v float64) string {
	return printer.Sprintf("%d BTU/h", int64(math.Round(v)))
}
