// Package config resolves where thinkgraph keeps its on-disk state.
package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvDataDir overrides the data directory when set.
	EnvDataDir = "THINKGRAPH_DATA_DIR"
	// defaultDirName is created under the user's home directory.
	defaultDirName = ".thinkgraph"
)

// DataDir returns the directory for journal files: the EnvDataDir
// override when set, otherwise ~/.thinkgraph. When the home directory
// cannot be resolved it falls back to a relative directory under the
// working directory.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultDirName
	}
	return filepath.Join(home, defaultDirName)
}
