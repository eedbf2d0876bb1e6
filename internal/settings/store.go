package settings

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/camkit/postall/internal/fsops"
)

// AttributeReader reads document-scoped attribute blobs.
type AttributeReader interface {
	Get(group, name string) (value string, ok bool, err error)
}

// AttributeWriter writes document-scoped attribute blobs.
type AttributeWriter interface {
	Set(group, name, value string) error
}

// Store reconciles the three settings layers: the compiled-in default, the
// global default file, and the per-document attribute blob.
//
// The global default file is read at most once per Store; the nil defaults
// field is the not-yet-loaded sentinel, distinct from a loaded record. A
// Store is owned by a single orchestration goroutine and needs no locking.
type Store struct {
	fs   fsops.FS
	path string
	log  *zap.SugaredLogger

	defaults Raw // nil until first loaded
	mustSave bool
}

// NewStore creates a Store persisting the global default at path.
func NewStore(fs fsops.FS, path string, log *zap.SugaredLogger) *Store {
	return &Store{fs: fs, path: path, log: log}
}

// Get returns a fully populated, current-version settings record for a
// document. A document blob whose version matches the current schema is
// trusted verbatim; anything else is reconciled against the global default.
// Malformed data in either tier is treated as absent, never surfaced.
func (s *Store) Get(attrs AttributeReader) *Settings {
	var docRaw Raw
	if value, ok, err := attrs.Get(AttrGroup, AttrName); err == nil && ok {
		raw, perr := ParseRaw([]byte(value))
		switch {
		case perr != nil:
			s.log.Warnw("ignoring malformed document settings", "error", perr)
		case raw.SchemaVersion() == CurrentVersion:
			if st, derr := raw.Decode(); derr == nil {
				return st
			}
			// Undecodable field values: treat like a stale record and let
			// the merge against defaults repair what it can.
			docRaw = raw
		default:
			docRaw = raw
		}
	} else if err != nil {
		s.log.Warnw("failed to read document settings attribute", "error", err)
	}

	defaults := s.loadDefaults()

	var merged Raw
	if docRaw == nil {
		merged = defaults.Clone()
	} else {
		merged = docRaw.Clone()
		Merge(merged, defaults)
	}

	st, err := merged.Decode()
	if err != nil {
		s.log.Warnw("document settings undecodable after merge, using defaults", "error", err)
		if st, err = defaults.Clone().Decode(); err != nil {
			return Default()
		}
	}
	return st
}

// loadDefaults returns the global default record, reading the default file
// on first use. A missing, unreadable, or stale file degrades to the
// compiled-in defaults and marks them for persistence on the next save.
func (s *Store) loadDefaults() Raw {
	if s.defaults != nil {
		return s.defaults
	}

	if data, err := s.fs.ReadFile(s.path); err == nil {
		if raw, perr := ParseRaw(data); perr == nil {
			if raw.SchemaVersion() != CurrentVersion {
				Merge(raw, compiledRaw())
			}
			if _, derr := raw.Decode(); derr == nil {
				s.defaults = raw
				return s.defaults
			}
		}
		s.log.Warnw("ignoring invalid default settings file", "path", s.path)
	}

	s.defaults = compiledRaw()
	s.mustSave = true
	return s.defaults
}

// SaveDefault records st as the global default and writes it to the default
// settings file. File write failures are non-fatal: the default is a
// convenience, not critical state.
func (s *Store) SaveDefault(st *Settings) {
	s.mustSave = false

	raw, err := st.Raw()
	if err != nil {
		s.log.Warnw("failed to encode default settings", "error", err)
		return
	}
	s.defaults = raw

	data, err := json.Marshal(map[string]json.RawMessage(raw))
	if err != nil {
		s.log.Warnw("failed to encode default settings", "error", err)
		return
	}
	if err := s.fs.AtomicWrite(s.path, data, 0644); err != nil {
		s.log.Warnw("failed to write default settings file", "path", s.path, "error", err)
	}
}

// Save persists st into the document's attribute store. If the global
// default file had to be synthesized from compiled-in defaults, it is
// written out first.
func (s *Store) Save(attrs AttributeWriter, st *Settings) error {
	if s.mustSave {
		s.SaveDefault(st)
	}

	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return attrs.Set(AttrGroup, AttrName, string(data))
}

func compiledRaw() Raw {
	raw, err := Default().Raw()
	if err != nil {
		// Default() contains only marshalable fields.
		panic(err)
	}
	return raw
}
