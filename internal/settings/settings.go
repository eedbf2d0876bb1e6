// Package settings manages the versioned postall settings record.
//
// The same JSON shape is persisted in two tiers: a global default file used
// as the starting point for new documents, and a per-document attribute blob
// which is authoritative once saved. Records from older schema versions are
// upgraded by an additive merge that fills missing keys from defaults and
// never drops keys it does not recognize.
//
// Key concepts:
//   - Settings: the typed record, with unknown JSON keys carried in Extra
//   - Raw: the key-level JSON form merging is defined on, so that absent
//     keys are distinguishable from zero values
//   - Store: loads, reconciles, and persists both tiers
package settings

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// CurrentVersion is the schema version of settings as saved in documents and
// the default settings file. Update this whenever settings content changes.
const CurrentVersion = 1

// Attribute key under which settings are stored in a document.
const (
	AttrGroup = "postall"
	AttrName  = "settings"
)

// PostExt is the required extension of a post-processor script.
const PostExt = ".cps"

// Units selects the output unit system passed to the post-processor.
type Units int

const (
	// UnitsDocument uses whatever unit system the document defines.
	UnitsDocument Units = iota
	// UnitsInches forces inch output.
	UnitsInches
	// UnitsMillimeters forces millimeter output.
	UnitsMillimeters
)

// String returns the wire name of the unit option.
func (u Units) String() string {
	switch u {
	case UnitsInches:
		return "in"
	case UnitsMillimeters:
		return "mm"
	default:
		return "document"
	}
}

// ParseUnits parses a unit option name.
func ParseUnits(s string) (Units, error) {
	switch s {
	case "document", "":
		return UnitsDocument, nil
	case "in", "inch", "inches":
		return UnitsInches, nil
	case "mm", "millimeters":
		return UnitsMillimeters, nil
	default:
		return UnitsDocument, errors.Newf("unknown units %q (want document, in, or mm)", s)
	}
}

// MarshalJSON encodes the unit option as its wire name.
func (u Units) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON decodes a unit option from its wire name.
func (u *Units) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseUnits(name)
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Settings is the versioned settings record for a post-processing run.
type Settings struct {
	// Version is the schema version the record was saved with.
	Version int

	// Post is the filesystem path of the post-processor script (.cps file).
	Post string

	// Units selects the output unit system.
	Units Units

	// Output is the root output folder. Subfolders derived from setup names
	// are created beneath it.
	Output string

	// Sequence prepends a per-folder sequence number to each file name.
	Sequence bool

	// TwoDigits gives sequence numbers below 10 a leading zero.
	TwoDigits bool

	// DelFiles deletes the output folder tree before post-processing.
	DelFiles bool

	// Extra holds keys this version does not recognize. They are carried
	// through load, merge, and save untouched.
	Extra map[string]json.RawMessage
}

// Default returns the compiled-in default settings record.
func Default() *Settings {
	return &Settings{
		Version:   CurrentVersion,
		Post:      "",
		Units:     UnitsDocument,
		Output:    "",
		Sequence:  true,
		TwoDigits: false,
		DelFiles:  true,
	}
}

// Raw is the key-level JSON form of a settings record.
type Raw map[string]json.RawMessage

// ParseRaw parses a JSON object into its key-level form.
func ParseRaw(data []byte) (Raw, error) {
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse settings")
	}
	return raw, nil
}

// SchemaVersion returns the record's version key, or 0 when it is absent or
// not an integer.
func (r Raw) SchemaVersion() int {
	v, ok := r["version"]
	if !ok {
		return 0
	}
	var version int
	if err := json.Unmarshal(v, &version); err != nil {
		return 0
	}
	return version
}

// Clone returns a shallow copy of the record.
func (r Raw) Clone() Raw {
	out := make(Raw, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge additively fills dst with every key present in src but absent from
// dst, then stamps dst's version from src. Keys already in dst win; keys
// unknown to src are never removed.
func Merge(dst, src Raw) {
	for k, v := range src {
		if _, ok := dst[k]; !ok {
			dst[k] = v
		}
	}
	dst["version"] = src["version"]
}

// Decode converts the key-level form into a typed record. Unrecognized keys
// land in Extra.
func (r Raw) Decode() (*Settings, error) {
	s := &Settings{}
	for k, v := range r {
		var err error
		switch k {
		case "version":
			err = json.Unmarshal(v, &s.Version)
		case "post":
			err = json.Unmarshal(v, &s.Post)
		case "units":
			err = json.Unmarshal(v, &s.Units)
		case "output":
			err = json.Unmarshal(v, &s.Output)
		case "sequence":
			err = json.Unmarshal(v, &s.Sequence)
		case "twoDigits":
			err = json.Unmarshal(v, &s.TwoDigits)
		case "delFiles":
			err = json.Unmarshal(v, &s.DelFiles)
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]json.RawMessage)
			}
			s.Extra[k] = v
		}
		if err != nil {
			return nil, errors.Wrapf(err, "invalid settings key %q", k)
		}
	}
	return s, nil
}

// Raw converts the typed record back into its key-level form. Known fields
// win over same-named Extra entries.
func (s *Settings) Raw() (Raw, error) {
	raw := make(Raw, len(s.Extra)+7)
	for k, v := range s.Extra {
		raw[k] = v
	}

	fields := map[string]interface{}{
		"version":   s.Version,
		"post":      s.Post,
		"units":     s.Units,
		"output":    s.Output,
		"sequence":  s.Sequence,
		"twoDigits": s.TwoDigits,
		"delFiles":  s.DelFiles,
	}
	for k, v := range fields {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode settings key %q", k)
		}
		raw[k] = data
	}
	return raw, nil
}

// MarshalJSON encodes the record including unrecognized keys.
func (s Settings) MarshalJSON() ([]byte, error) {
	raw, err := s.Raw()
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage(raw))
}

// UnmarshalJSON decodes the record, capturing unrecognized keys in Extra.
func (s *Settings) UnmarshalJSON(data []byte) error {
	raw, err := ParseRaw(data)
	if err != nil {
		return err
	}
	decoded, err := raw.Decode()
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}
