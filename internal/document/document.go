// Package document models the CAM document postall operates on.
//
// A document is an ordered list of machining setups plus a generic
// key-value attribute store scoped to the document. Two backends are
// provided: a JSON setup manifest and a SQLite document file.
//
// Key concepts:
//   - Setup: a named, orderable unit of CAM work containing operations
//   - AttributeStore: persisted key-value blobs under a (group, name) key
//   - Document: the combination of an ordered setup list and attributes
package document

import (
	"path/filepath"
	"strings"

	"github.com/camkit/postall/internal/fsops"
)

// Setup describes a single machining setup as read from a document.
// The order of setups is authoritative: it reflects the user-visible
// browser-tree order that sequence numbering is based on.
type Setup struct {
	// Name is the setup name. Hyphens delimit output subfolder segments.
	Name string `json:"name"`

	// Suppressed marks setups excluded from output.
	Suppressed bool `json:"suppressed,omitempty"`

	// Operations is the number of machining operations in the setup.
	Operations int `json:"operations"`
}

// Eligible reports whether the setup produces output: it must not be
// suppressed and must contain at least one operation.
func (s Setup) Eligible() bool {
	return !s.Suppressed && s.Operations > 0
}

// AttributeStore is the document-scoped key-value store used to persist
// JSON-serialized settings under a fixed (group, name) key.
type AttributeStore interface {
	// Get returns the value stored under (group, name). ok is false when no
	// such attribute exists.
	Get(group, name string) (value string, ok bool, err error)

	// Set stores value under (group, name), overwriting any prior value.
	Set(group, name, value string) error
}

// Document is an open CAM document.
type Document interface {
	// Path returns the filesystem path the document was opened from.
	Path() string

	// Setups returns the ordered setup list.
	Setups() ([]Setup, error)

	// Attributes returns the document's attribute store.
	Attributes() AttributeStore

	// Close releases any resources held by the document.
	Close() error
}

// Open opens a document file, dispatching on extension: .json files are
// loaded as setup manifests, anything else as a SQLite document.
func Open(fs fsops.FS, path string) (Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return OpenManifest(fs, path)
	}
	return OpenSQLite(path)
}
