package document

import (
	"encoding/json"

	"github.com/cockroachdb/errors"

	"github.com/camkit/postall/internal/fsops"
)

// manifestFile is the on-disk shape of a JSON setup manifest.
type manifestFile struct {
	Setups     []Setup                      `json:"setups"`
	Attributes map[string]map[string]string `json:"attributes,omitempty"`
}

// Manifest is a Document backed by a JSON file. Attribute writes are
// persisted back to the same file atomically.
type Manifest struct {
	fs   fsops.FS
	path string
	data manifestFile
}

// OpenManifest loads a JSON setup manifest from path.
func OpenManifest(fs fsops.FS, path string) (*Manifest, error) {
	raw, err := fs.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	var data manifestFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}

	return &Manifest{fs: fs, path: path, data: data}, nil
}

// Path returns the manifest file path.
func (m *Manifest) Path() string {
	return m.path
}

// Setups returns the ordered setup list.
func (m *Manifest) Setups() ([]Setup, error) {
	setups := make([]Setup, len(m.data.Setups))
	copy(setups, m.data.Setups)
	return setups, nil
}

// Attributes returns the manifest's attribute store.
func (m *Manifest) Attributes() AttributeStore {
	return &manifestAttrs{m: m}
}

// Close is a no-op for manifests.
func (m *Manifest) Close() error {
	return nil
}

func (m *Manifest) save() error {
	data, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal manifest")
	}
	if err := m.fs.AtomicWrite(m.path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write manifest %s", m.path)
	}
	return nil
}

type manifestAttrs struct {
	m *Manifest
}

// Get returns the value stored under (group, name).
func (a *manifestAttrs) Get(group, name string) (string, bool, error) {
	attrs, ok := a.m.data.Attributes[group]
	if !ok {
		return "", false, nil
	}
	value, ok := attrs[name]
	return value, ok, nil
}

// Set stores value under (group, name) and rewrites the manifest file.
func (a *manifestAttrs) Set(group, name, value string) error {
	if a.m.data.Attributes == nil {
		a.m.data.Attributes = make(map[string]map[string]string)
	}
	if a.m.data.Attributes[group] == nil {
		a.m.data.Attributes[group] = make(map[string]string)
	}
	a.m.data.Attributes[group][name] = value
	return a.m.save()
}
