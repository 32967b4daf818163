package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Scheme is a named color palette applied per art line, top to bottom.
type Scheme struct {
	Name   string
	Colors []lipgloss.Color
}

// Schemes lists the available palettes in cycle order. "none" leaves the art
// uncolored.
var Schemes = []Scheme{
	{Name: "none"},
	{Name: "fire", Colors: []lipgloss.Color{"196", "202", "208", "214", "220"}},
	{Name: "ocean", Colors: []lipgloss.Color{"27", "33", "39", "45", "51"}},
	{Name: "forest", Colors: []lipgloss.Color{"22", "28", "34", "40", "46"}},
	{Name: "mono", Colors: []lipgloss.Color{"252"}},
}

// rainbow is the palette used by the rainbow animation regardless of scheme.
var rainbow = []lipgloss.Color{"196", "208", "226", "46", "51", "21", "93"}

// Animations lists the supported animation modes in cycle order.
var Animations = []string{"none", "rainbow"}

// SchemeByName finds a palette case-insensitively, falling back to "none".
func SchemeByName(name string) Scheme {
	for _, s := range Schemes {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return Schemes[0]
}

// Colorize styles art line by line. The frame offset rotates the palette so
// an animation driver can advance colors between frames; with the rainbow
// animation active, the rainbow palette replaces the scheme.
func Colorize(art string, scheme Scheme, animation string, frame int) string {
	colors := scheme.Colors
	if strings.EqualFold(animation, "rainbow") {
		colors = rainbow
	}
	if len(colors) == 0 {
		return art
	}

	lines := strings.Split(art, "\n")
	styled := make([]string, len(lines))
	for i, line := range lines {
		color := colors[(i+frame)%len(colors)]
		styled[i] = lipgloss.NewStyle().Foreground(color).Render(line)
	}
	return strings.Join(styled, "\n")
}

// Chrome styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	artBoxStyle = lipgloss.NewStyle().
			Padding(1, 2)

	pickerCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("205")).
				Bold(true)
)
