package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camkit/postall/internal/logging"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool
)

// rootCmd is the root command for postall.
var rootCmd = &cobra.Command{
	Use:     "postall",
	Version: "dev",
	Short:   "Batch post-processor for CAM documents",
	Long: `postall post-processes every machining setup in a CAM document in one run.

Setup names split on hyphens into nested output folders, and each folder keeps
its own sequence counter so output files come out numbered in setup order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(verbose, jsonOutput)
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the postall version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(setupsCmd)
	rootCmd.AddCommand(settingsCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
