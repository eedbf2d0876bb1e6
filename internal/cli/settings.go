package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/camkit/postall/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and edit post-processing settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show <document>",
	Short: "Show the effective settings for a document",
	Args:  cobra.ExactArgs(1),
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
		if jsonOutput {
			return outputJSON(st)
		}

		printSettings(st)
		return nil
	},
}

var settingsSetFlags settingsFlags

var settingsSetCmd = &cobra.Command{
	Use:   "set <document>",
	Short: "Update a document's settings",
	Long:  `Apply the given flags to the document's stored settings and write them back.`,
	Args:  cobra.ExactArgs(1),
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
		if err := settingsSetFlags.apply(cmd, st); err != nil {
			return err
		}
		if err := eng.SaveSettings(doc, st); err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(st)
		}
		PrintSuccess("Settings saved")
		printSettings(st)
		return nil
	},
}

var settingsSaveDefaultCmd = &cobra.Command{
	Use:   "save-default <document>",
	Short: "Save a document's settings as the global default",
	Long:  `Record the document's effective settings as the default for documents without their own.`,
	Args:  cobra.ExactArgs(1),
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
		eng.SaveDefault(st)

		if jsonOutput {
			return outputJSON(st)
		}
		PrintSuccess("Default settings saved")
		return nil
	},
}

func printSettings(st *settings.Settings) {
	PrintLabelValue("Post processor", st.Post)
	PrintLabelValue("Output folder", st.Output)
	PrintLabelValue("Units", st.Units.String())
	PrintLabelValue("Sequence numbers", strconv.FormatBool(st.Sequence))
	PrintLabelValue("Two-digit padding", strconv.FormatBool(st.TwoDigits))
	PrintLabelValue("Delete output first", strconv.FormatBool(st.DelFiles))
}

func init() {
	settingsSetFlags.register(settingsSetCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsSaveDefaultCmd)
}
