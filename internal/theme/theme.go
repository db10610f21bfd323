package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the preview.
type Styles struct {
	Label       *lipgloss.Style
	Marker      *lipgloss.Style
	MarkerRim   *lipgloss.Style
	Pointer     *lipgloss.Style
	Desktop     *lipgloss.Style
	Status      *lipgloss.Style
	StatusMode  *lipgloss.Style
	StatusClick *lipgloss.Style
	Footer      *lipgloss.Style
}

var defaultStyles = Styles{
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Marker: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	MarkerRim: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("231")),
	),
	Pointer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
	),
	Desktop: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Status: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	StatusMode: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Bold(true),
	),
	StatusClick: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
