package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	styleKey = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleTable = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// styled reports whether f is a terminal that should get colored output.
func styled(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
