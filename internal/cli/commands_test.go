package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camkit/postall/internal/document"
)

// setupTestEnv points POSTALL_ROOT at a temp directory so commands never
// touch the real config tree.
func setupTestEnv(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("POSTALL_ROOT", filepath.Join(tmpDir, ".postall"))
	return tmpDir
}

// writeManifest writes a JSON document with the given setups and returns
// its path.
func writeManifest(t *testing.T, dir string, setups []document.Setup) string {
	t.Helper()
	manifest := map[string]interface{}{
		"setups":     setups,
		"attributes": map[string]map[string]string{},
	}
	data, err := json.Marshal(manifest)
	require.NoError(t, err)

	path := filepath.Join(dir, "part.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestSetupsCommand(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face - 1", Operations: 2},
		{Name: "Off", Suppressed: true, Operations: 1},
	})

	err := execute(t, "setups", docPath)
	assert.NoError(t, err)
}

func TestSetupsCommand_MissingDocument(t *testing.T) {
	tmpDir := setupTestEnv(t)

	err := execute(t, "setups", filepath.Join(tmpDir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open document")
}

func TestPlanCommand(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face-1", Operations: 1},
		{Name: "Face-2", Operations: 1},
	})

	err := execute(t, "plan", docPath, "--output", filepath.Join(tmpDir, "out"))
	assert.NoError(t, err)

	// The plan command never creates the output folder.
	_, statErr := os.Stat(filepath.Join(tmpDir, "out"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSettingsSetAndShow(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face", Operations: 1},
	})

	outDir := filepath.Join(tmpDir, "out")
	err := execute(t, "settings", "set", docPath, "--output", outDir, "--two-digits")
	require.NoError(t, err)

	// The document file now carries the settings attribute.
	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\"twoDigits\":true`)

	err = execute(t, "settings", "show", docPath)
	assert.NoError(t, err)
}

func TestSettingsSetRejectsBadUnits(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face", Operations: 1},
	})

	err := execute(t, "settings", "set", docPath, "--units", "furlongs")
	assert.Error(t, err)
}

func TestSettingsSaveDefault(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face", Operations: 1},
	})

	err := execute(t, "settings", "save-default", docPath)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tmpDir, ".postall", "default.settings"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version":1`)
}

func TestRunCommand_ValidationFailure(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face", Operations: 1},
	})

	err := execute(t, "run", docPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please select the output folder and a valid post processor")
}

func TestRunCommand_DryRun(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face - 1", Operations: 1},
	})

	post := filepath.Join(tmpDir, "haas.cps")
	require.NoError(t, os.WriteFile(post, []byte("// post"), 0644))
	outDir := filepath.Join(tmpDir, "out")

	err := execute(t, "run", docPath, "--dry-run", "--output", outDir, "--post", post)
	require.NoError(t, err)

	// A dry run touches neither the output tree nor the document.
	_, statErr := os.Stat(outDir)
	assert.True(t, os.IsNotExist(statErr))
	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"output"`)
}

func TestRunCommand_PostsWithStubEngine(t *testing.T) {
	tmpDir := setupTestEnv(t)
	docPath := writeManifest(t, tmpDir, []document.Setup{
		{Name: "Face - 1", Operations: 1},
		{Name: "Face - 2", Operations: 1},
	})

	post := filepath.Join(tmpDir, "haas.cps")
	require.NoError(t, os.WriteFile(post, []byte("// post"), 0644))
	outDir := filepath.Join(tmpDir, "out")

	// "true" accepts any arguments and exits zero.
	err := execute(t, "run", docPath,
		"--output", outDir,
		"--post", post,
		"--engine", "true",
		"--dry-run=false",
		"--json",
	)
	require.NoError(t, err)

	// The effective settings were written back to the document.
	data, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\"post\"`)
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	err := execute(t, "version")
	assert.NoError(t, err)
}
