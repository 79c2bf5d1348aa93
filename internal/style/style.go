// Package style holds the lipgloss styles shared by all user-facing output.
package style

import "github.com/charmbracelet/lipgloss"

var (
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	Header  = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	Title   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	Artist  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	Index   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	Dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)
