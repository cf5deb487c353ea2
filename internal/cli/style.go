package cli

import (
	"io"
	"os"

	"github.com/airtraffic/riskctl/internal/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var levelColors = map[models.RiskLevel]lipgloss.Color{
	models.RiskLevelLow:      lipgloss.Color("#2CD7C7"),
	models.RiskLevelMedium:   lipgloss.Color("#F4D03F"),
	models.RiskLevelHigh:     lipgloss.Color("#E67E22"),
	models.RiskLevelCritical: lipgloss.Color("#E74C3C"),
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// colorLevel renders text in the color of level when w is a terminal.
// Pad text before calling; escape codes break fmt width verbs.
func colorLevel(w io.Writer, level models.RiskLevel, text string) string {
	c, ok := levelColors[level]
	if !ok || !isTerminal(w) {
		return text
	}
	return lipgloss.NewStyle().
		Foreground(c).
		Bold(level >= models.RiskLevelHigh).
		Render(text)
}
