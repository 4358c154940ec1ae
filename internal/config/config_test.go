package config

import (
	"path/filepath"
	"testing"
)

func TestDataDir_EnvOverride(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/custom-graph-dir")
	if got := DataDir(); got != "/tmp/custom-graph-dir" {
		t.Errorf("DataDir() = %q, want the override", got)
	}
}

func TestDataDir_DefaultEndsInDirName(t *testing.T) {
	t.Setenv(EnvDataDir, "")
	if got := DataDir(); filepath.Base(got) != defaultDirName {
		t.Errorf("DataDir() = %q, want a path ending in %q", got, defaultDirName)
	}
}
