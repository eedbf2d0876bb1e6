package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var setupsCmd = &cobra.Command{
	Use:   "setups <document>",
	Short: "List the setups in a document",
	Long:  `List every setup in the document in order, with its eligibility for posting.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openDocument(args[0])
		if err != nil {
			return err
		}
		defer doc.Close()

		setups, err := doc.Setups()
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(setups)
		}

		if len(setups) == 0 {
			PrintEmptyState("No setups in document")
			return nil
		}

		rows := make([][]string, 0, len(setups))
		eligible := 0
		for i, setup := range setups {
			status := "post"
			switch {
			case setup.Suppressed:
				status = "suppressed"
			case setup.Operations == 0:
				status = "empty"
			default:
				eligible++
			}
			rows = append(rows, []string{
				strconv.Itoa(i + 1),
				setup.Name,
				strconv.Itoa(setup.Operations),
				status,
			})
		}

		PrintTable([]string{"#", "Setup", "Operations", "Status"}, rows)
		fmt.Println()
		PrintInfo(fmt.Sprintf("%s, %d eligible", PrintCount(len(setups), "setup", "setups"), eligible))
		return nil
	},
}
