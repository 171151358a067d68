package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Application branding constants
const (
	AppName = "LG NETCAST SETUP WIZARD"
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red
	SubtleColor    = lipgloss.Color("#626262") // Gray
)

// Common styles
var (
	// Title style - bold, primary color
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0)

	// Subtitle style for step descriptions
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Error style for validation and connection errors
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	// Warning style for abort reasons
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// Success style for the created screen
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	// Hint style for key hints below forms
	HintStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// Box style around the active form
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)
)

// errorMessage maps flow error codes to user-facing text.
func errorMessage(code string) string {
	switch code {
	case "invalid_host":
		return "That does not look like a valid hostname or IP address."
	case "invalid_access_token":
		return "The TV rejected that access token. Check the PIN on screen."
	case "cannot_connect":
		return "Cannot connect to the TV. Is it powered on and on this network?"
	case "unknown_device":
		return "That device is no longer available. Pick another."
	default:
		return code
	}
}

// abortMessage maps flow abort reasons to user-facing text.
func abortMessage(reason string) string {
	switch reason {
	case "no_devices_found":
		return "No NetCast TVs were found on the network."
	case "already_configured":
		return "That TV is already configured."
	default:
		return reason
	}
}
