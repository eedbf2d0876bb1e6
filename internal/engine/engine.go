// Package engine provides the core business logic for postall operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It coordinates settings loading and persistence,
// path planning, output-tree maintenance, and the per-setup post-processing
// calls.
//
// Key components:
//   - Engine: main orchestrator called by the CLI
//   - Run: the post-process-all loop (validate, plan, post, persist)
//   - Settings access: document settings backed by the two-tier store
package engine

import (
	"go.uber.org/zap"

	"github.com/camkit/postall/internal/document"
	"github.com/camkit/postall/internal/fsops"
	"github.com/camkit/postall/internal/planner"
	"github.com/camkit/postall/internal/postproc"
	"github.com/camkit/postall/internal/settings"
)

// Engine orchestrates all postall operations.
// It is the main API surface called by the CLI.
type Engine struct {
	store *settings.Store
	post  postproc.PostProcessor
	fs    fsops.FS
	log   *zap.SugaredLogger
}

// New creates a new Engine with the given dependencies.
func New(store *settings.Store, post postproc.PostProcessor, fs fsops.FS, log *zap.SugaredLogger) *Engine {
	return &Engine{
		store: store,
		post:  post,
		fs:    fs,
		log:   log,
	}
}

// Settings returns the reconciled, current-version settings record for the
// document.
func (e *Engine) Settings(doc document.Document) *settings.Settings {
	return e.store.Get(doc.Attributes())
}

// SaveSettings persists st into the document's attribute store.
func (e *Engine) SaveSettings(doc document.Document, st *settings.Settings) error {
	return e.store.Save(doc.Attributes(), st)
}

// SaveDefault records st as the global default for new documents.
func (e *Engine) SaveDefault(st *settings.Settings) {
	e.store.SaveDefault(st)
}

// Plan computes the output mapping for the document without touching the
// filesystem. When st is nil the document's settings are loaded.
func (e *Engine) Plan(doc document.Document, st *settings.Settings) (*planner.Plan, error) {
	if st == nil {
		st = e.Settings(doc)
	}
	setups, err := doc.Setups()
	if err != nil {
		return nil, err
	}
	return planner.Build(setups, st), nil
}
