package postproc

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camkit/postall/internal/settings"
)

func TestRequest_OutputFile(t *testing.T) {
	req := Request{OutputDir: filepath.Join("/nc", "Face"), FileBase: "1 1"}
	assert.Equal(t, filepath.Join("/nc", "Face", "1 1.nc"), req.OutputFile())
}

func TestExecPostProcessor_MissingBinary(t *testing.T) {
	p := &ExecPostProcessor{Bin: filepath.Join(t.TempDir(), "no-such-engine")}

	err := p.Post(context.Background(), Request{
		SetupName: "Face-1",
		Script:    "/posts/grbl.cps",
		Units:     settings.UnitsMillimeters,
		OutputDir: t.TempDir(),
		FileBase:  "1 1",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Face-1")
}

func TestExecPostProcessor_RunsEngine(t *testing.T) {
	// A stand-in engine that succeeds without doing anything.
	p := &ExecPostProcessor{Bin: "true"}

	err := p.Post(context.Background(), Request{
		SetupName: "Face-1",
		Script:    "/posts/grbl.cps",
		OutputDir: t.TempDir(),
		FileBase:  "1 1",
	})
	assert.NoError(t, err)
}

func TestExecPostProcessor_FailureIncludesOutput(t *testing.T) {
	// "false" exits non-zero with no output; the setup name must still be
	// present in the error.
	p := &ExecPostProcessor{Bin: "false"}

	err := p.Post(context.Background(), Request{SetupName: "Drill-A-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Drill-A-1")
}
