package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/camkit/postall/internal/planner"
	"github.com/camkit/postall/internal/postproc"
)

var planFlags settingsFlags

var planCmd = &cobra.Command{
	Use:   "plan <document>",
	Short: "Show the output files a run would produce",
	Long: `Compute the folder and file name every eligible setup would post to,
without invoking the post-engine or touching the output folder.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := newEngine("")
		if err != nil {
			return err
		}

		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		st := eng.Settings(doc)
		if err := planFlags.apply(cmd, st); err != nil {
			return err
		}

		plan, err := eng.Plan(doc, st)
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(plan)
		}

		printPlan(plan)
		return nil
	},
}

// printPlan renders a plan as a setup-to-file table.
func printPlan(plan *planner.Plan) {
	if plan.Empty() {
		PrintInfo("No CAM operations to post")
		return
	}

	rows := make([][]string, 0, len(plan.Jobs))
	for _, job := range plan.Jobs {
		folder := job.Folder
		if folder == "" {
			folder = "."
		}
		rows = append(rows, []string{
			strconv.Itoa(job.Sequence),
			job.Setup.Name,
			folder,
			job.Filename + postproc.OutputExt,
		})
	}

	PrintSection(fmt.Sprintf("Plan for %s", plan.OutputRoot))
	PrintTable([]string{"#", "Setup", "Folder", "File"}, rows)
	fmt.Println()
	if plan.DeleteFirst {
		PrintInfo(fmt.Sprintf("Output folder %s is deleted before posting", plan.OutputRoot))
	}
	PrintInfo(fmt.Sprintf("%s from %s",
		PrintCount(len(plan.Jobs), "file", "files"),
		PrintCount(plan.SetupsVisited, "setup", "setups")))
}

func init() {
	planFlags.register(planCmd)
}
