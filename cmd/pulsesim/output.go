package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleName  = lipgloss.NewStyle().Bold(true)
	styleValue = lipgloss.NewStyle().Foreground(lipgloss.Color("#20B9B4"))
	styleOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("#2CD7C7"))
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("#E74C3C")).Bold(true)
)

func printResult(w io.Writer, name string, v uint64) {
	fmt.Fprintf(w, "%s: %s\n", styleName.Render(name), styleValue.Render(fmt.Sprint(v)))
}

// printCheck prints the result of a check and reports whether it matched.
func printCheck(w io.Writer, name string, got, expected uint64) bool {
	if got == expected {
		fmt.Fprintf(w, "%s: %d %s\n", styleName.Render(name), got, styleOK.Render("(OK)"))
		return true
	}
	fmt.Fprintf(w, "%s: %d %s\n", styleName.Render(name), got,
		styleError.Render(fmt.Sprintf("(ERROR: expected %d)", expected)))
	return false
}
