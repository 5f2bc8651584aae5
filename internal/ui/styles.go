package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// AllExercises labels the chart filter that includes every exercise.
const AllExercises = "All Exercises"

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	tabActive lipgloss.Style
	exercise  lipgloss.Style
	cell      lipgloss.Style
	selected  lipgloss.Style
	dim       lipgloss.Style
	bar       lipgloss.Style
	ok        lipgloss.Style
	warn      lipgloss.Style
}

func newStyles(dark bool) styles {
	brand, subtle, text := lipgloss.Color("26"), lipgloss.Color("245"), lipgloss.Color("235")
	if dark {
		brand, subtle, text = lipgloss.Color("81"), lipgloss.Color("244"), lipgloss.Color("252")
	}

	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(brand),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(subtle),
		tabActive: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("15")).Background(brand),
		exercise:  lipgloss.NewStyle().Bold(true).Foreground(text),
		cell:      lipgloss.NewStyle().Foreground(text),
		selected:  lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(brand),
		dim:       lipgloss.NewStyle().Foreground(subtle),
		bar:       lipgloss.NewStyle().Foreground(brand),
		ok:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warn:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

// Bar draws value as a run of block characters scaled so that maxValue fills
// width. Positive values always get at least one block.
func Bar(value, maxValue float64, width int) string {
	if value <= 0 || maxValue <= 0 || width <= 0 {
		return ""
	}
	n := int(math.Round(value / maxValue * float64(width)))
	n = min(max(n, 1), width)
	return strings.Repeat("█", n)
}
