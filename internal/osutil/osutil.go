// Package osutil resolves the directories tally keeps its files in. Path
// lookups go through Provider so tests can point them at a temp dir or make
// them fail.
package osutil

import (
	"os"
	"path/filepath"
	"strings"
)

// PathProvider locates per-user directories and creates them.
type PathProvider interface {
	UserConfigDir() (string, error)
	UserHomeDir() (string, error)
	MkdirAll(path string, perm os.FileMode) error
}

// DefaultPathProvider uses the real OS locations.
type DefaultPathProvider struct{}

func (DefaultPathProvider) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

func (DefaultPathProvider) UserHomeDir() (string, error) {
	return os.UserHomeDir()
}

func (DefaultPathProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// DirProvider roots both the config and the home directory at Dir.
type DirProvider struct {
	Dir string
}

func (p DirProvider) UserConfigDir() (string, error) {
	return p.Dir, nil
}

func (p DirProvider) UserHomeDir() (string, error) {
	return p.Dir, nil
}

func (DirProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Provider is used by every lookup in this package and in config.
var Provider PathProvider = DefaultPathProvider{}

// SetProvider replaces Provider until ResetProvider is called.
func SetProvider(p PathProvider) {
	Provider = p
}

// ResetProvider restores DefaultPathProvider.
func ResetProvider() {
	Provider = DefaultPathProvider{}
}

// ExpandHome replaces a leading "~" or "~/" in path with the home directory.
// Other paths are returned cleaned but otherwise unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return filepath.Clean(path), nil
	}
	home, err := Provider.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// EnsureParent creates the directory that will hold path.
func EnsureParent(path string) error {
	return Provider.MkdirAll(filepath.Dir(path), 0o755)
}
