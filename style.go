package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

var (
	paragraphStyle = lipgloss.NewStyle().
			Margin(1, 2) //nolint:mnd
	keywordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})
)

func paragraph(s string) string {
	return paragraphStyle.Render(wordwrap.String(s, 76)) //nolint:mnd
}

func keyword(s string) string {
	return keywordStyle.Render(s)
}
