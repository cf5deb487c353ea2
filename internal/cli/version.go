package cli

import (
	"fmt"
	"runtime"

	"github.com/airtraffic/riskctl/internal/encoding"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"
	// Commit is set at build time
	Commit = "dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Displays the version of riskctl and the envelope schema it writes.`,
	Run:   runVersion,
}

func runVersion(cmd *cobra.Command, args []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "riskctl v%s\n", Version)
	fmt.Fprintf(out, "Commit: %s\n", Commit)
	fmt.Fprintf(out, "Schema: %s\n", encoding.SchemaVersion)
	fmt.Fprintf(out, "Go: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
