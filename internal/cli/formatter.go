package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/airtraffic/riskctl/internal/models"
)

func renderBar(score float64, width int) string {
	filled := int(score * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTTC(a *models.RiskAssessment) string {
	if !a.HasPredictedCollision() {
		return "none predicted"
	}
	return fmt.Sprintf("%.1fs", a.EstimatedTimeToCollision())
}

// printAssessment writes the detailed human layout used by assess
func printAssessment(w io.Writer, a *models.RiskAssessment) {
	fmt.Fprintf(w, "Vehicles:     %s -> %s\n", a.VehicleID1(), a.VehicleID2())
	fmt.Fprintf(w, "Level:        %s\n", colorLevel(w, a.RiskLevel(), a.RiskLevel().String()))
	fmt.Fprintf(w, "Score:        %.2f %s\n", a.RiskScore(), renderBar(a.RiskScore(), 20))
	fmt.Fprintf(w, "Collision in: %s\n", formatTTC(a))
	fmt.Fprintf(w, "Distance:     %.1fm (horizontal %.1fm, vertical %+.1fm)\n",
		a.CurrentDistance(), a.HorizontalDistance(), a.VerticalDistance())
	fmt.Fprintf(w, "Action:       %s\n", a.RecommendedAction())
	fmt.Fprintf(w, "Immediate:    %s\n", yesNo(a.RequiresImmediateAction()))
	fmt.Fprintf(w, "Critical:     %s\n", yesNo(a.IsCritical()))
	fmt.Fprintf(w, "Detected:     %s\n", a.DetectedAt().Format("2006-01-02T15:04:05.000Z07:00"))
}
