package engine

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/camkit/postall/internal/document"
	"github.com/camkit/postall/internal/planner"
	"github.com/camkit/postall/internal/postproc"
	"github.com/camkit/postall/internal/settings"
)

// RunRequest represents a request to post-process every setup in a document.
type RunRequest struct {
	// Document is the open CAM document.
	Document document.Document

	// Settings overrides the document's stored settings when non-nil.
	Settings *settings.Settings

	// DryRun plans only, without touching the filesystem or the document.
	DryRun bool

	// ContinueOnError collects per-setup failures instead of aborting the
	// run on the first one.
	ContinueOnError bool

	// SaveDefault additionally records the effective settings as the global
	// default.
	SaveDefault bool

	// Progress, when non-nil, is called once per setup visited.
	Progress func(ProgressUpdate)
}

// ProgressUpdate reports run progress after each setup.
type ProgressUpdate struct {
	SetupsVisited int
	TotalSetups   int
	FilesWritten  int

	// Setup is the name of the setup just visited.
	Setup string
}

// Failure records a setup that failed to post-process.
type Failure struct {
	Setup string
	Err   error
}

// RunResult reports the outcome of a run.
type RunResult struct {
	// Settings is the effective settings record the run used.
	Settings *settings.Settings

	// Plan is only populated for dry runs.
	Plan *planner.Plan

	// FilesWritten counts successfully posted setups.
	FilesWritten int

	// SetupsVisited counts all setups seen, eligible or not.
	SetupsVisited int

	// Failures lists setups that failed (at most one unless
	// ContinueOnError was set).
	Failures []Failure

	// Cancelled reports that the run stopped early on a context
	// cancellation. Already-posted files are not rolled back.
	Cancelled bool
}

// NothingToPost reports that the run completed but produced no output.
// This is an informational condition, not an error.
func (r *RunResult) NothingToPost() bool {
	return !r.Cancelled && r.FilesWritten == 0 && len(r.Failures) == 0
}

// Run post-processes every eligible setup in the document, in document
// order.
//
// Algorithm steps:
//  1. Resolve the effective settings (request override or document store)
//  2. Validate configuration (blocks the run, never reaches the planner)
//  3. Persist settings to the document; flush the global default if pending
//  4. Delete the output tree when configured to
//  5. Visit setups in order, assigning per-folder sequence numbers and
//     invoking the post-processor once per eligible setup
//  6. Report files written and setups visited
//
// Cancellation is checked once per setup; a cancelled run keeps the files
// already written.
func (e *Engine) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	st := req.Settings
	if st == nil {
		st = e.Settings(req.Document)
	}

	if err := e.ValidateSettings(st); err != nil {
		return nil, err
	}

	setups, err := req.Document.Setups()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read setups")
	}

	if req.DryRun {
		plan := planner.Build(setups, st)
		return &RunResult{
			Settings:      st,
			Plan:          plan,
			SetupsVisited: plan.SetupsVisited,
		}, nil
	}

	if req.SaveDefault {
		e.store.SaveDefault(st)
	}
	if err := e.store.Save(req.Document.Attributes(), st); err != nil {
		return nil, errors.Wrap(err, "failed to save document settings")
	}

	if st.DelFiles {
		if err := e.fs.RemoveAll(st.Output); err != nil {
			return nil, errors.Wrapf(err, "failed to delete output folder %s", st.Output)
		}
		e.log.Debugw("deleted output folder", "path", st.Output)
	}

	result := &RunResult{Settings: st}
	seq := planner.NewSequencer(st)

	for _, setup := range setups {
		if ctx.Err() != nil {
			result.Cancelled = true
			e.log.Infow("run cancelled", "files", result.FilesWritten)
			break
		}

		result.SetupsVisited++
		job, ok := seq.Next(setup)
		if !ok {
			e.report(req, result, len(setups), setup.Name)
			continue
		}

		if err := e.postJob(ctx, req, st, job); err != nil {
			result.Failures = append(result.Failures, Failure{Setup: setup.Name, Err: err})
			e.log.Errorw("setup failed", "setup", setup.Name, "error", err)
			if !req.ContinueOnError {
				return result, errors.Wrapf(ErrPostFailed, "setup %q: %v", setup.Name, err)
			}
		} else {
			result.FilesWritten++
		}

		e.report(req, result, len(setups), setup.Name)
	}

	e.log.Infow("run complete",
		"files", result.FilesWritten,
		"setups", result.SetupsVisited,
		"failures", len(result.Failures),
	)
	return result, nil
}

// postJob creates the job's folder and hands the setup to the
// post-processor.
func (e *Engine) postJob(ctx context.Context, req *RunRequest, st *settings.Settings, job planner.Job) error {
	outDir := st.Output
	if job.Folder != "" {
		outDir = filepath.Join(st.Output, filepath.FromSlash(job.Folder))
	}
	if err := e.fs.MkdirAll(outDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output folder %s", outDir)
	}

	return e.post.Post(ctx, postproc.Request{
		SetupName: job.Setup.Name,
		Document:  req.Document.Path(),
		Script:    st.Post,
		Units:     st.Units,
		OutputDir: outDir,
		FileBase:  job.Filename,
	})
}

func (e *Engine) report(req *RunRequest, result *RunResult, total int, setup string) {
	if req.Progress == nil {
		return
	}
	req.Progress(ProgressUpdate{
		SetupsVisited: result.SetupsVisited,
		TotalSetups:   total,
		FilesWritten:  result.FilesWritten,
		Setup:         setup,
	})
}
