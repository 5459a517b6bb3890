package config

import (
	"os"
	"path/filepath"
)

const appDir = "loggy"

// systemRoot is checked for a machine-wide data directory.
var systemRoot = "/var/lib"

type candidate struct{ marker, dir string }

// candidates lists platform data locations in preference order. A
// candidate is used when its marker directory exists.
func candidates(home string) []candidate {
	return []candidate{
		{systemRoot, filepath.Join(systemRoot, appDir)},
		{filepath.Join(home, "Library"), filepath.Join(home, "Library", "Application Support", "Loggy")},
		{filepath.Join(home, "AppData"), filepath.Join(home, "AppData", "Local", "Loggy")},
	}
}

// DefaultDataDir returns the default data directory based on the host OS.
// XDG_DATA_HOME wins, then the first existing platform location, then a
// dotdir in the user's home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "./data"
	}
	return dataDir(home, os.Getenv("XDG_DATA_HOME"))
}

func dataDir(home, xdg string) string {
	if xdg != "" {
		return filepath.Join(xdg, appDir)
	}
	for _, c := range candidates(home) {
		if isDir(c.marker) {
			return c.dir
		}
	}
	return filepath.Join(home, "."+appDir)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
