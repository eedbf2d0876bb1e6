// Package config manages postall configuration and filesystem paths.
//
// Configuration includes the location of the postall data directory, which
// can be customized via environment variables. The default root is
// ~/.postall/ containing the global default settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSettingsExt is the extension of the global default settings file.
// The file holds the same JSON shape that is stored per document.
const DefaultSettingsExt = ".settings"

// Paths contains all the filesystem paths used by postall.
type Paths struct {
	// Root is the base directory for all postall data (default: ~/.postall)
	Root string

	// DefaultSettings is the path to the global default settings file,
	// used as the starting point for any document without its own settings.
	DefaultSettings string
}

// DefaultPaths returns the default paths for postall.
// Paths can be overridden with environment variables:
// - POSTALL_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("POSTALL_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".postall")
	}

	return &Paths{
		Root:            root,
		DefaultSettings: filepath.Join(root, "default"+DefaultSettingsExt),
	}, nil
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	if err := os.MkdirAll(p.Root, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", p.Root, err)
	}
	return nil
}
