package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Styles mirror the teacher's bd-examples palette: adaptive colors so
// output stays legible on both light and dark terminal backgrounds.
var (
	styleGood   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"})
	styleWarn   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"})
	styleBad    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#f07171", Dark: "#f07178"})
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"})
	styleAccent = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"})
	styleBold   = lipgloss.NewStyle().Bold(true)
)

// renderMarkdown renders briefing/resume markdown through glamour when
// stdout is a terminal-like sink, falling back to the raw markdown if
// rendering fails - briefings are consumed by agents as often as humans,
// so a render error must never swallow the content.
func renderMarkdown(md string) string {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		return md
	}
	return out
}

func printMarkdown(md string) {
	fmt.Fprint(os.Stdout, renderMarkdown(md))
}
