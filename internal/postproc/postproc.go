// Package postproc invokes the external post-processor that turns a setup's
// toolpath data into machine-specific G-code.
//
// postall does not generate G-code itself: each eligible setup is handed to
// a post-processing engine (an external executable interpreting a .cps
// script) as one blocking call.
package postproc

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/camkit/postall/internal/settings"
)

// DefaultBin is the post-processing engine executable invoked when no
// override is configured.
const DefaultBin = "postkernel"

// OutputExt is the extension appended to generated G-code files.
const OutputExt = ".nc"

// Request describes one post-processing call.
type Request struct {
	// SetupName identifies the setup inside the document.
	SetupName string

	// Document is the path of the document holding the setup's toolpaths.
	Document string

	// Script is the path of the post-processor (.cps) script.
	Script string

	// Units is the output unit system.
	Units settings.Units

	// OutputDir is the absolute folder the file is written into.
	OutputDir string

	// FileBase is the output file name without extension.
	FileBase string
}

// OutputFile returns the absolute path of the file the request produces.
func (r Request) OutputFile() string {
	return filepath.Join(r.OutputDir, r.FileBase+OutputExt)
}

// PostProcessor emits G-code for a single setup. Implementations block until
// the file is written or the context is cancelled.
type PostProcessor interface {
	Post(ctx context.Context, req Request) error
}

// ExecPostProcessor shells out to a post-processing engine executable.
type ExecPostProcessor struct {
	// Bin is the engine executable; DefaultBin when empty.
	Bin string

	Log *zap.SugaredLogger
}

// Post runs the engine for one setup. The engine's combined output is folded
// into the returned error on failure.
func (p *ExecPostProcessor) Post(ctx context.Context, req Request) error {
	bin := p.Bin
	if bin == "" {
		bin = DefaultBin
	}

	args := []string{
		"--post", req.Script,
		"--units", req.Units.String(),
		"--setup", req.SetupName,
		"--out", req.OutputFile(),
		req.Document,
	}

	if p.Log != nil {
		p.Log.Debugw("posting setup", "setup", req.SetupName, "file", req.OutputFile())
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(output.String())
		if detail != "" {
			return errors.Wrapf(err, "post-processor failed for setup %q: %s", req.SetupName, detail)
		}
		return errors.Wrapf(err, "post-processor failed for setup %q", req.SetupName)
	}
	return nil
}
