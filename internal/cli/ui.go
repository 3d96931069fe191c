package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Terminal colors, ANSI 256 palette.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Shared styles for command output and the watch view.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorAmber)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	// Keyed by layoutStats.Cached.
	styleOrigin = map[bool]lipgloss.Style{
		true:  lipgloss.NewStyle().Foreground(colorGreen),
		false: lipgloss.NewStyle().Foreground(colorGray),
	}
	originLabel = map[bool]string{true: "cached", false: "fresh"}
)

const statsSeparator = " · "

func printStatus(style lipgloss.Style, icon, msg string) {
	fmt.Println(style.Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	printStatus(styleIconSuccess, "✓", fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	printStatus(styleIconError, "✗", fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	printStatus(styleIconWarning, "!", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an indented line for a file the command wrote.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

// printNextStep suggests the command to run after this one.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// layoutStats summarizes a finished generate, layout, render or watch run.
type layoutStats struct {
	Nodes   int
	Links   int
	Passes  int
	Frames  int
	Elapsed time.Duration
	Cached  bool
}

// statsLine renders s as one dim line ending in "cached" or "fresh".
// Zero fields are left out.
func statsLine(s layoutStats) string {
	counts := []struct {
		n    int
		unit string
	}{
		{s.Nodes, "nodes"},
		{s.Links, "links"},
		{s.Passes, "passes"},
		{s.Frames, "frames"},
	}

	var b strings.Builder
	b.WriteString("  ")
	field := func(text string) {
		b.WriteString(StyleDim.Render(text) + StyleDim.Render(statsSeparator))
	}
	for _, c := range counts {
		if c.n > 0 {
			field(fmt.Sprintf("%d %s", c.n, c.unit))
		}
	}
	if s.Elapsed > 0 {
		field(s.Elapsed.String())
	}
	b.WriteString(styleOrigin[s.Cached].Render(originLabel[s.Cached]))
	return b.String()
}

func printStats(s layoutStats) {
	fmt.Println(statsLine(s))
}
