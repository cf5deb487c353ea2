package cli

import (
	"fmt"

	"github.com/airtraffic/riskctl/internal/models"
	"github.com/spf13/cobra"
)

func newTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print the level to recommended action table",
		Long:  `Lists every risk level, including unset, with the action derived from it.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			levels := append([]models.RiskLevel{models.RiskLevelUnset}, models.Levels()...)
			for _, level := range levels {
				a := models.NewRiskAssessment("", "", level, 0)
				marker := " "
				if a.RequiresImmediateAction() {
					marker = "!"
				}
				name := colorLevel(out, level, fmt.Sprintf("%-10s", level))
				fmt.Fprintf(out, "%s %s %s\n", marker, name, models.ActionFor(level))
			}
		},
	}
}
