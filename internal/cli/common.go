package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/camkit/postall/internal/config"
	"github.com/camkit/postall/internal/document"
	"github.com/camkit/postall/internal/engine"
	"github.com/camkit/postall/internal/fsops"
	"github.com/camkit/postall/internal/logging"
	"github.com/camkit/postall/internal/postproc"
	"github.com/camkit/postall/internal/settings"
)

// postEngineBin returns the post-engine executable to invoke: the --engine
// flag when set, else the POSTALL_ENGINE environment variable, else the
// built-in default.
func postEngineBin(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("POSTALL_ENGINE"); env != "" {
		return env
	}
	return postproc.DefaultBin
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(engineBin string) (*engine.Engine, error) {
	// Get default paths
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	// Ensure directories exist
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	// Create real implementations
	fs := fsops.NewRealFS()
	store := settings.NewStore(fs, paths.DefaultSettings, logging.L)
	post := &postproc.ExecPostProcessor{
		Bin: postEngineBin(engineBin),
		Log: logging.L,
	}

	// Create engine
	return engine.New(store, post, fs, logging.L), nil
}

// openDocument opens the CAM document named by the command's first argument.
func openDocument(path string) (document.Document, error) {
	doc, err := document.Open(fsops.NewRealFS(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document %s: %w", path, err)
	}
	return doc, nil
}

// settingsFlags holds the per-command overrides for the settings record.
// A flag only takes effect when the user set it on the command line.
type settingsFlags struct {
	output    string
	post      string
	units     string
	sequence  bool
	twoDigits bool
	delete    bool
}

// register defines the settings override flags on cmd.
func (f *settingsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output folder for generated files")
	cmd.Flags().StringVarP(&f.post, "post", "p", "", "Post-processor script (.cps)")
	cmd.Flags().StringVarP(&f.units, "units", "u", "", "Output units (document, in, mm)")
	cmd.Flags().BoolVar(&f.sequence, "sequence", true, "Prefix files with per-folder sequence numbers")
	cmd.Flags().BoolVar(&f.twoDigits, "two-digits", false, "Zero-pad sequence numbers below 10")
	cmd.Flags().BoolVar(&f.delete, "delete", true, "Delete the output folder before posting")
}

// apply copies the flags the user actually set onto st.
func (f *settingsFlags) apply(cmd *cobra.Command, st *settings.Settings) error {
	if cmd.Flags().Changed("output") {
		st.Output = f.output
	}
	if cmd.Flags().Changed("post") {
		st.Post = f.post
	}
	if cmd.Flags().Changed("units") {
		units, err := settings.ParseUnits(f.units)
		if err != nil {
			return err
		}
		st.Units = units
	}
	if cmd.Flags().Changed("sequence") {
		st.Sequence = f.sequence
	}
	if cmd.Flags().Changed("two-digits") {
		st.TwoDigits = f.twoDigits
	}
	if cmd.Flags().Changed("delete") {
		st.DelFiles = f.delete
	}
	return nil
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
