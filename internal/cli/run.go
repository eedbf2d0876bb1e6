package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/camkit/postall/internal/engine"
)

var (
	runFlags           settingsFlags
	runEngineBin       string
	runDryRun          bool
	runContinueOnError bool
	runSaveDefault     bool
)

var runCmd = &cobra.Command{
	Use:   "run <document>",
	Short: "Post-process every setup in a document",
	Long: `Post-process all eligible setups in the given CAM document.

Settings stored in the document are used as the starting point; any flag set
on the command line overrides the stored value and the result is written back
to the document. Press Ctrl-C to stop after the current setup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine(runEngineBin)
		if err != nil {
			return err
		}

		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		st := eng.Settings(doc)
		if err := runFlags.apply(cmd, st); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var bar *pterm.ProgressbarPrinter
		req := &engine.RunRequest{
			Document:        doc,
			Settings:        st,
			DryRun:          runDryRun,
			ContinueOnError: runContinueOnError,
			SaveDefault:     runSaveDefault,
		}
		if !jsonOutput && !runDryRun {
			req.Progress = func(u engine.ProgressUpdate) {
				if bar == nil {
					bar, _ = pterm.DefaultProgressbar.
						WithTotal(u.TotalSetups).
						WithTitle("Posting").
						Start()
				}
				bar.UpdateTitle(u.Setup)
				bar.Increment()
			}
		}

		result, runErr := eng.Run(ctx, req)
		if bar != nil {
			_, _ = bar.Stop()
		}

		if runErr != nil {
			if result != nil {
				printFailures(result)
			}
			return runErr
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if runDryRun {
			printPlan(result.Plan)
			return nil
		}

		printFailures(result)

		switch {
		case result.Cancelled:
			PrintWarning(fmt.Sprintf("Cancelled, %s written to %s",
				PrintCount(result.FilesWritten, "file", "files"), st.Output))
		case result.NothingToPost():
			PrintInfo("No CAM operations to post")
		default:
			PrintSuccess(fmt.Sprintf("%s written to %s",
				PrintCount(result.FilesWritten, "file", "files"), st.Output))
		}
		return nil
	},
}

// printFailures lists the setups that failed to post.
func printFailures(result *engine.RunResult) {
	for _, failure := range result.Failures {
		PrintError(fmt.Sprintf("%s: %v", failure.Setup, failure.Err))
	}
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVar(&runEngineBin, "engine", "", "Post-engine executable (default: postkernel, or POSTALL_ENGINE)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Show what would be posted without posting")
	runCmd.Flags().BoolVar(&runContinueOnError, "continue-on-error", false, "Keep posting remaining setups when one fails")
	runCmd.Flags().BoolVar(&runSaveDefault, "save-default", false, "Also save the effective settings as the global default")
}
