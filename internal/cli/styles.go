// Package cli provides styled terminal output for the roomdecay
// command.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/estebandragone/roomdecay/decay"
)

// Color palette. The accent matches the Schroeder curve color in
// rendered plots.
var (
	primaryColor = lipgloss.Color("#4A9EDE") // Blue
	accentColor  = lipgloss.Color("#FFB02E") // Amber
	successColor = lipgloss.Color("#2EBF6E") // Green
	errorColor   = lipgloss.Color("#E05555") // Red
	mutedColor   = lipgloss.Color("#8A8F98") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor).
			MarginTop(1)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			MarginTop(1).
			MarginBottom(1)
)

// PrintBanner prints the application banner.
func PrintBanner() {
	fmt.Println(TitleStyle.Render("roomdecay"))
	fmt.Println(SubtitleStyle.Render("Room acoustics decay analysis: EDT, T20, T30 and INR from impulse response measurements."))
	fmt.Println()
}

// PrintError prints an error message to stderr.
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Printf("%s %s\n", WarningStyle.Render("Warning:"), message)
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Printf("%s %s\n", SuccessStyle.Render("✓"), message)
}

// PrintInfo prints a key-value pair.
func PrintInfo(key, value string) {
	fmt.Printf("%s %s\n", KeyStyle.Render(key+":"), ValueStyle.Render(value))
}

// PrintSection prints a section header.
func PrintSection(title string) {
	fmt.Println(HeaderStyle.Render(title))
}

// FormatSeconds formats a decay time.
func FormatSeconds(v float64) string {
	return fmt.Sprintf("%.2f s", v)
}

// FormatDB formats a level in decibels.
func FormatDB(v float64) string {
	return fmt.Sprintf("%.1f dB", v)
}

// FormatDuration formats a clip duration.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", d.Seconds()*1000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// PrintMetricsSummary prints the analysis results in a styled box.
func PrintMetricsSummary(m decay.Metrics) {
	var b strings.Builder

	b.WriteString(SuccessStyle.Render("✓ Analysis Complete"))
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Decay Times:"))
	b.WriteString("\n")
	b.WriteString("  " + KeyStyle.Render("EDT: "))
	b.WriteString(ValueStyle.Render(FormatSeconds(m.Times.EDT)))
	b.WriteString("\n")
	b.WriteString("  " + KeyStyle.Render("T20: "))
	b.WriteString(ValueStyle.Render(FormatSeconds(m.Times.T20)))
	b.WriteString("\n")
	b.WriteString("  " + KeyStyle.Render("T30: "))
	b.WriteString(ValueStyle.Render(FormatSeconds(m.Times.T30)))
	b.WriteString("\n\n")

	b.WriteString(KeyStyle.Render("Levels:"))
	b.WriteString("\n")
	b.WriteString("  " + KeyStyle.Render("INR: "))
	b.WriteString(ValueStyle.Render(FormatDB(m.INR)))
	b.WriteString("\n")
	b.WriteString("  " + KeyStyle.Render("LIR: "))
	b.WriteString(ValueStyle.Render(FormatDB(m.LIR)))
	b.WriteString("\n")
	b.WriteString("  " + KeyStyle.Render("LN:  "))
	b.WriteString(ValueStyle.Render(FormatDB(m.LN)))

	fmt.Println(BoxStyle.Render(b.String()))
}
